package core

import (
	"context"
	"errors"
	"path/filepath"

	"voltron/internal/types"
)

var errNoManifest = errors.New("manifest not loadable")

type fakeDescriptors map[string]types.PackageDescriptor

func (f fakeDescriptors) ReadDescriptor(dir string) (types.PackageDescriptor, bool, error) {
	desc, ok := f[filepath.Clean(dir)]
	return desc, ok, nil
}

type flatLayout struct{}

func (flatLayout) ExtensionDir(baseDir string, name string) string {
	return filepath.Join(baseDir, name)
}

type fakeSource struct {
	kind      types.ConfigSourceKind
	builds    map[string]string
	manifests map[string]string
	err       error
}

func (f fakeSource) Kind() types.ConfigSourceKind { return f.kind }

func (f fakeSource) LocateBuild(extDir string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.builds[extDir], nil
}

func (f fakeSource) LocateManifest(extDir string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.manifests[extDir], nil
}

type fakeBuildLoader struct {
	errs map[string]error
	nilBuild map[string]bool
}

func (f fakeBuildLoader) LoadBuild(name string, _ string, path string) (types.BuildFunc, error) {
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	if f.nilBuild[path] {
		return nil, nil
	}
	return func(context.Context, types.BuildOptions) (any, error) {
		return name, nil
	}, nil
}

type fakeManifestLoader map[string]types.Manifest

func (f fakeManifestLoader) LoadManifest(path string) (types.Manifest, error) {
	manifest, ok := f[path]
	if !ok {
		return nil, errNoManifest
	}
	return manifest, nil
}

// recordingBuild returns a build that appends name to calls and then
// returns err.
func recordingBuild(calls *[]string, name string, err error) types.BuildFunc {
	return func(context.Context, types.BuildOptions) (any, error) {
		*calls = append(*calls, name)
		if err != nil {
			return nil, err
		}
		return name + " built", nil
	}
}
