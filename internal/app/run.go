package app

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"voltron/internal/core"
	"voltron/internal/types"
)

// Run is the full pipeline: discover, install, resolve, build, merge.
// Discovery and resolution errors abort before any build. A failed or
// cancelled build returns the partial report and no manifest.
func (s Service) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	r := s.newRun()
	found, err := r.discover(ctx, req.Cwd, req.Filter)
	if err != nil {
		return RunResult{}, err
	}
	result := RunResult{Extensions: found.names}

	if !req.SkipInstall {
		plans, err := r.install(ctx, found)
		result.Installs = plans
		if err != nil {
			return result, err
		}
	}

	configs, err := r.configResolver(req.Workers).Resolve(ctx, found.names, found.baseDir)
	if err != nil {
		return result, err
	}

	report, err := core.NewBuildOrchestrator(req.Retry).Build(ctx, configs, req.BuildOptions)
	result.Build = report
	if err != nil {
		return result, err
	}
	if report.Status == types.BuildStatusCancelled {
		return result, types.NewError(types.ErrorKindCancelled, "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("run cancelled after %d of %d extension builds", len(report.Results), len(configs))))
	}

	result.Manifest, result.Warnings = core.NewManifestMerger().Merge(ctx, configs, req.BaseManifest)
	log.Ctx(ctx).Info().Int("extensions", len(configs)).Int("warnings", len(result.Warnings)).Msg("manifest merged")
	return result, nil
}
