package types

import "path/filepath"

// PackageDescriptorFile is the conventional descriptor name looked up in
// every directory.
const PackageDescriptorFile = "package.json"

// Dependency is one name -> version range entry of a descriptor.
type Dependency struct {
	Name  string `json:"name"`
	Range string `json:"range"`
}

// VoltronField is the optional "voltron" object of an extension
// descriptor. Paths are relative to the descriptor's directory.
type VoltronField struct {
	Build    string `json:"build,omitempty"`
	Manifest string `json:"manifest,omitempty"`
}

// PackageDescriptor is a parsed package.json. Dependencies and
// DevDependencies keep the key order of the source document.
type PackageDescriptor struct {
	Path            string
	Name            string
	Version         string
	Dependencies    []Dependency
	DevDependencies []Dependency
	Voltron         *VoltronField
}

func (d PackageDescriptor) Dir() string {
	return filepath.Dir(d.Path)
}

func (d PackageDescriptor) DependencyRange(name string) (string, bool) {
	for _, dep := range d.Dependencies {
		if dep.Name == name {
			return dep.Range, true
		}
	}
	return "", false
}
