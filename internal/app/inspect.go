package app

import (
	"context"
	"sort"
)

func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	r := s.newRun()
	found, err := r.discover(ctx, req.Cwd, req.Filter)
	if err != nil {
		return InspectResult{}, err
	}
	configs, err := r.configResolver(req.Workers).Resolve(ctx, found.names, found.baseDir)
	if err != nil {
		return InspectResult{}, err
	}
	result := InspectResult{DescriptorPath: found.descriptor.Path}
	for _, cfg := range configs {
		keys := make([]string, 0, len(cfg.Manifest))
		for key := range cfg.Manifest {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		versionRange, _ := found.descriptor.DependencyRange(cfg.Name)
		result.Extensions = append(result.Extensions, InspectExtension{
			Name:           cfg.Name,
			Range:          versionRange,
			Dir:            cfg.Dir,
			BuildPath:      cfg.BuildPath,
			BuildSource:    cfg.BuildSource,
			ManifestPath:   cfg.ManifestPath,
			ManifestSource: cfg.ManifestSource,
			ManifestKeys:   keys,
		})
	}
	return result, nil
}
