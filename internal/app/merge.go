package app

import (
	"context"

	"voltron/internal/core"
)

// Merge resolves the extension configs and merges their fragments without
// installing or building anything.
func (s Service) Merge(ctx context.Context, req MergeRequest) (MergeResult, error) {
	r := s.newRun()
	found, err := r.discover(ctx, req.Cwd, req.Filter)
	if err != nil {
		return MergeResult{}, err
	}
	configs, err := r.configResolver(req.Workers).Resolve(ctx, found.names, found.baseDir)
	if err != nil {
		return MergeResult{}, err
	}
	manifest, warnings := core.NewManifestMerger().Merge(ctx, configs, req.BaseManifest)
	return MergeResult{Extensions: found.names, Manifest: manifest, Warnings: warnings}, nil
}
