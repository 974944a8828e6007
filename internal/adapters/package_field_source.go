package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"voltron/internal/ports"
	"voltron/internal/types"
)

// PackageFieldSourceAdapter reads the "voltron" object of the extension's
// own package.json.
type PackageFieldSourceAdapter struct {
	Descriptors ports.PackageDescriptorPort
}

func NewPackageFieldSourceAdapter(descriptors ports.PackageDescriptorPort) PackageFieldSourceAdapter {
	return PackageFieldSourceAdapter{Descriptors: descriptors}
}

func (a PackageFieldSourceAdapter) Kind() types.ConfigSourceKind {
	return types.ConfigSourcePackageField
}

func (a PackageFieldSourceAdapter) LocateBuild(extDir string) (string, error) {
	field, err := a.field(extDir)
	if err != nil || field == nil {
		return "", err
	}
	return declaredPath(extDir, field.Build, "build")
}

func (a PackageFieldSourceAdapter) LocateManifest(extDir string) (string, error) {
	field, err := a.field(extDir)
	if err != nil || field == nil {
		return "", err
	}
	return declaredPath(extDir, field.Manifest, "manifest")
}

func (a PackageFieldSourceAdapter) field(extDir string) (*types.VoltronField, error) {
	desc, found, err := a.Descriptors.ReadDescriptor(extDir)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return desc.Voltron, nil
}

func declaredPath(extDir string, rel string, what string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "", nil
	}
	full := filepath.Join(extDir, filepath.FromSlash(rel))
	inside, err := filepath.Rel(extDir, full)
	if filepath.IsAbs(rel) || err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("declared %s %s is outside the extension directory", what, rel))
	}
	if _, err := os.Stat(full); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("declared %s %s does not exist", what, rel)).
			WithCause(err)
	}
	return full, nil
}

// DefaultConfigSources is the lookup order used by the pipeline.
func DefaultConfigSources(descriptors ports.PackageDescriptorPort) []ports.ConfigSourcePort {
	return []ports.ConfigSourcePort{
		NewPackageFieldSourceAdapter(descriptors),
		NewPatternSourceAdapter(),
	}
}

var _ ports.ConfigSourcePort = PackageFieldSourceAdapter{}
