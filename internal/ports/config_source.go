package ports

import "voltron/internal/types"

// ConfigSourcePort locates the build entry point and manifest fragment of
// an installed extension. Empty paths with a nil error mean the source has
// no opinion and the next source is consulted.
type ConfigSourcePort interface {
	Kind() types.ConfigSourceKind
	LocateBuild(extDir string) (string, error)
	LocateManifest(extDir string) (string, error)
}

// BuildLoaderPort turns a build entry point file into a callable.
type BuildLoaderPort interface {
	LoadBuild(name string, extDir string, path string) (types.BuildFunc, error)
}

// ManifestLoaderPort decodes a manifest fragment file.
type ManifestLoaderPort interface {
	LoadManifest(path string) (types.Manifest, error)
}
