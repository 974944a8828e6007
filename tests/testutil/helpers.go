// Package testutil provides shared fixture helpers used across integration
// and unit test packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// WriteJSON marshals value with indentation and writes it to path.
func WriteJSON(t *testing.T, path string, value any) {
	t.Helper()
	data, err := json.MarshalIndent(value, "", "  ")
	require.NoError(t, err)
	WriteFile(t, path, string(data)+"\n")
}

// Extension describes one installed extension package for HostFixture.
type Extension struct {
	Name     string
	Version  string
	Build    string
	Manifest string
	// ManifestFile defaults to manifest.json.
	ManifestFile    string
	DevDependencies map[string]string
}

// HostFixture lays out a host package whose package.json depends on every
// extension in argument order, each installed under node_modules with a
// voltron.sh build script and a manifest fragment. It returns the host
// directory.
func HostFixture(t *testing.T, extensions ...Extension) string {
	t.Helper()
	root := t.TempDir()
	deps := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		version := ext.Version
		if version == "" {
			version = "1.0.0"
		}
		deps = append(deps, quote(t, ext.Name)+": "+quote(t, "^"+version))
		dir := filepath.Join(root, "node_modules", ext.Name)
		desc := map[string]any{"name": ext.Name, "version": version}
		if len(ext.DevDependencies) > 0 {
			desc["devDependencies"] = ext.DevDependencies
		}
		WriteJSON(t, filepath.Join(dir, "package.json"), desc)
		if ext.Build != "" {
			WriteFile(t, filepath.Join(dir, "voltron.sh"), ext.Build)
		}
		if ext.Manifest != "" {
			name := ext.ManifestFile
			if name == "" {
				name = "manifest.json"
			}
			WriteFile(t, filepath.Join(dir, name), ext.Manifest)
		}
	}
	WriteFile(t, filepath.Join(root, "package.json"), `{
  "name": "host-extension",
  "version": "0.1.0",
  "dependencies": {`+strings.Join(deps, ", ")+`}
}
`)
	return root
}

func quote(t *testing.T, value string) string {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	return string(data)
}
