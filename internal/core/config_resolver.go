package core

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"voltron/internal/ports"
	"voltron/internal/types"
)

const defaultConfigWorkers = 4

// ExtensionConfigResolver loads the build entry point and manifest
// fragment of each extension.
type ExtensionConfigResolver struct {
	Layout    ports.PackageLayoutPort
	Sources   []ports.ConfigSourcePort
	Builds    ports.BuildLoaderPort
	Manifests ports.ManifestLoaderPort
	Workers   int
}

func NewExtensionConfigResolver(layout ports.PackageLayoutPort, sources []ports.ConfigSourcePort, builds ports.BuildLoaderPort, manifests ports.ManifestLoaderPort) ExtensionConfigResolver {
	return ExtensionConfigResolver{
		Layout:    layout,
		Sources:   sources,
		Builds:    builds,
		Manifests: manifests,
		Workers:   defaultConfigWorkers,
	}
}

// Resolve returns one config per name in input order. Lookups may run
// concurrently; when several extensions fail, the error of the first one
// in input order is returned and no configs are.
func (r ExtensionConfigResolver) Resolve(ctx context.Context, names []string, baseDir string) ([]types.ExtensionConfig, error) {
	configs := make([]types.ExtensionConfig, len(names))
	errs := make([]error, len(names))

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			configs[i], errs[i] = r.resolveOne(ctx, name, baseDir)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	log.Ctx(ctx).Debug().Int("extensions", len(configs)).Msg("extension configs resolved")
	return configs, nil
}

func (r ExtensionConfigResolver) resolveOne(ctx context.Context, name string, baseDir string) (types.ExtensionConfig, error) {
	if err := ctx.Err(); err != nil {
		return types.ExtensionConfig{}, types.NewError(types.ErrorKindCancelled, name, err)
	}
	extDir := r.Layout.ExtensionDir(baseDir, name)

	buildPath, buildSource, err := r.locate(extDir, ports.ConfigSourcePort.LocateBuild)
	if err != nil {
		return types.ExtensionConfig{}, locateError(types.ErrorKindMissingBuildEntry, name, err)
	}
	if buildPath == "" {
		return types.ExtensionConfig{}, types.NewError(types.ErrorKindMissingBuildEntry, name, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no build entry point found in %s", extDir)))
	}
	manifestPath, manifestSource, err := r.locate(extDir, ports.ConfigSourcePort.LocateManifest)
	if err != nil {
		return types.ExtensionConfig{}, locateError(types.ErrorKindMissingManifest, name, err)
	}
	if manifestPath == "" {
		return types.ExtensionConfig{}, types.NewError(types.ErrorKindMissingManifest, name, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no manifest fragment found in %s", extDir)))
	}

	build, err := r.Builds.LoadBuild(name, extDir, buildPath)
	if err != nil {
		return types.ExtensionConfig{}, types.NewError(types.ErrorKindInvalidExtensionConfig, name, err)
	}
	if build == nil {
		return types.ExtensionConfig{}, types.NewError(types.ErrorKindInvalidExtensionConfig, name, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("build entry point %s is not callable", buildPath)))
	}
	manifest, err := r.Manifests.LoadManifest(manifestPath)
	if err != nil {
		return types.ExtensionConfig{}, types.NewError(types.ErrorKindInvalidExtensionConfig, name, err)
	}

	log.Ctx(ctx).Debug().
		Str("extension", name).
		Str("build", buildPath).
		Str("manifest", manifestPath).
		Msg("extension config loaded")
	return types.ExtensionConfig{
		Name:           name,
		Dir:            extDir,
		BuildPath:      buildPath,
		BuildSource:    buildSource,
		ManifestPath:   manifestPath,
		ManifestSource: manifestSource,
		Build:          build,
		Manifest:       manifest,
	}, nil
}

// locate asks each source in order; the first non-empty path wins.
func (r ExtensionConfigResolver) locate(extDir string, find func(ports.ConfigSourcePort, string) (string, error)) (string, types.ConfigSourceKind, error) {
	for _, source := range r.Sources {
		path, err := find(source, extDir)
		if err != nil {
			return "", source.Kind(), err
		}
		if path != "" {
			return path, source.Kind(), nil
		}
	}
	return "", "", nil
}

// locateError keeps "not found" failures under the missing kind and treats
// anything else (an unreadable descriptor, say) as an invalid config.
func locateError(missing types.ErrorKind, name string, err error) error {
	if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
		return types.NewError(missing, name, err)
	}
	return types.NewError(types.ErrorKindInvalidExtensionConfig, name, err)
}
