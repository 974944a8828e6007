package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"voltron/internal/core"
	"voltron/internal/types"
)

type discovery struct {
	descriptor types.PackageDescriptor
	baseDir    string
	names      []string
}

// discover locates the host descriptor and resolves the extension names.
// Extensions are installed next to the descriptor, so its directory is the
// base for every later lookup.
func (r *run) discover(ctx context.Context, cwd string, filter types.ExtensionFilter) (discovery, error) {
	desc, err := core.NewPackageDescriptorLocator(r.descriptors).Locate(ctx, cwd)
	if err != nil {
		return discovery{}, err
	}
	names := core.NewExtensionNameResolver().Resolve(desc, filter)
	if !filter.IsZero() {
		log.Ctx(ctx).Debug().Strs("include", filter.Include).Strs("exclude", filter.Exclude).Msg("extension filter applied")
	}
	log.Ctx(ctx).Info().Str("descriptor", desc.Path).Strs("extensions", names).Msg("extensions discovered")
	return discovery{descriptor: desc, baseDir: desc.Dir(), names: names}, nil
}

func (s Service) List(ctx context.Context, req ListRequest) (ListResult, error) {
	found, err := s.newRun().discover(ctx, req.Cwd, req.Filter)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{
		DescriptorPath: found.descriptor.Path,
		BaseDir:        found.baseDir,
		Extensions:     found.names,
	}, nil
}
