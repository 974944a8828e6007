package ports

import "voltron/internal/types"

// PackageDescriptorPort reads the package descriptor of a single
// directory. found is false when the directory has no descriptor file.
type PackageDescriptorPort interface {
	ReadDescriptor(dir string) (desc types.PackageDescriptor, found bool, err error)
}

// PackageLayoutPort maps an extension name to its install directory.
type PackageLayoutPort interface {
	ExtensionDir(baseDir string, name string) string
}
