package adapters

import (
	"path/filepath"
	"strings"

	"voltron/internal/ports"
	"voltron/internal/types"
)

// EntryPointBuildAdapter picks the loader by file extension: JavaScript
// modules run under node, anything else is a shell script.
type EntryPointBuildAdapter struct {
	Shell ShellBuildAdapter
	Node  NodeBuildAdapter
}

func NewEntryPointBuildAdapter(nodeBinary string) EntryPointBuildAdapter {
	return EntryPointBuildAdapter{
		Shell: NewShellBuildAdapter(),
		Node:  NewNodeBuildAdapter(nodeBinary),
	}
}

// IsJavaScriptModule reports whether path names a CommonJS module.
func IsJavaScriptModule(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".cjs":
		return true
	default:
		return false
	}
}

func (a EntryPointBuildAdapter) LoadBuild(name string, extDir string, path string) (types.BuildFunc, error) {
	if IsJavaScriptModule(path) {
		return a.Node.LoadBuild(name, extDir, path)
	}
	return a.Shell.LoadBuild(name, extDir, path)
}

var _ ports.BuildLoaderPort = EntryPointBuildAdapter{}
