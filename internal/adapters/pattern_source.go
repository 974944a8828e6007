package adapters

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"voltron/internal/ports"
	"voltron/internal/types"
)

// Candidate paths in priority order. Each pattern matches the trailing
// path segments of a file anywhere under the extension directory.
var (
	DefaultBuildPatterns    = []string{"voltron.sh", "voltron/index.sh", "voltron/build.sh", "voltron.js", "voltron/index.js", "voltron/build.js"}
	DefaultManifestPatterns = []string{"manifest.json", "manifest.yaml", "manifest.yml", "manifest.toml", "manifest.cue", "manifest.js"}
)

type PatternSourceAdapter struct {
	BuildPatterns    []string
	ManifestPatterns []string
}

func NewPatternSourceAdapter() PatternSourceAdapter {
	return PatternSourceAdapter{
		BuildPatterns:    DefaultBuildPatterns,
		ManifestPatterns: DefaultManifestPatterns,
	}
}

func (a PatternSourceAdapter) Kind() types.ConfigSourceKind {
	return types.ConfigSourcePattern
}

func (a PatternSourceAdapter) LocateBuild(extDir string) (string, error) {
	return a.firstMatch(extDir, a.BuildPatterns)
}

func (a PatternSourceAdapter) LocateManifest(extDir string) (string, error) {
	return a.firstMatch(extDir, a.ManifestPatterns)
}

func (a PatternSourceAdapter) firstMatch(root string, patterns []string) (string, error) {
	files, err := listExtensionFiles(root)
	if err != nil {
		return "", err
	}
	for _, pattern := range patterns {
		for _, rel := range files {
			if matchTrailing(pattern, rel) {
				return filepath.Join(root, filepath.FromSlash(rel)), nil
			}
		}
	}
	return "", nil
}

// listExtensionFiles returns slash-separated paths relative to root in
// lexical walk order.
func listExtensionFiles(root string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("extension directory is empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("extension directory %s not found", root)).
			WithCause(err)
	}
	if !info.IsDir() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("extension path %s is not a directory", root))
	}
	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && shouldSkipExtensionDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to scan extension directory %s", root)).
			WithCause(err)
	}
	return files, nil
}

func shouldSkipExtensionDir(name string) bool {
	switch name {
	case "test", "tests", nodeModulesDir, ".git":
		return true
	default:
		return false
	}
}

func matchTrailing(pattern string, rel string) bool {
	patternSegments := strings.Split(pattern, "/")
	relSegments := strings.Split(rel, "/")
	if len(relSegments) < len(patternSegments) {
		return false
	}
	tail := strings.Join(relSegments[len(relSegments)-len(patternSegments):], "/")
	ok, err := path.Match(pattern, tail)
	return err == nil && ok
}

var _ ports.ConfigSourcePort = PatternSourceAdapter{}
