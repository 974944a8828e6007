package adapters

import (
	"path/filepath"
	"strings"

	"voltron/internal/ports"
)

const nodeModulesDir = "node_modules"

// NodeModulesLayout places extensions under base/node_modules, or
// directly under base when base is already inside a node_modules tree.
type NodeModulesLayout struct{}

func NewNodeModulesLayout() NodeModulesLayout {
	return NodeModulesLayout{}
}

func (NodeModulesLayout) ExtensionDir(baseDir string, name string) string {
	rel := filepath.FromSlash(name)
	if insideNodeModules(baseDir) {
		return filepath.Join(baseDir, rel)
	}
	return filepath.Join(baseDir, nodeModulesDir, rel)
}

func insideNodeModules(dir string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(filepath.Clean(dir)), "/") {
		if segment == nodeModulesDir {
			return true
		}
	}
	return false
}

var _ ports.PackageLayoutPort = NodeModulesLayout{}
