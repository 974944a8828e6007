package app

import (
	"context"
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"voltron/internal/core"
	"voltron/internal/types"
)

func (s Service) Install(ctx context.Context, req InstallRequest) (InstallResult, error) {
	r := s.newRun()
	found, err := r.discover(ctx, req.Cwd, req.Filter)
	if err != nil {
		return InstallResult{}, err
	}
	plans, err := r.install(ctx, found)
	if err != nil {
		return InstallResult{Plans: plans}, err
	}
	return InstallResult{Plans: plans}, nil
}

// install plans and runs the dev dependency installs one extension at a
// time, stopping at the first failure. Cancellation between or during
// installs is reported as Cancelled, not as an install failure.
func (r *run) install(ctx context.Context, found discovery) ([]core.InstallPlan, error) {
	if r.service.Installer == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no dependency installer configured")
	}
	plans, err := core.NewInstallPlanner(r.descriptors, r.service.Layout).Plan(ctx, found.names, found.baseDir)
	if err != nil {
		return nil, err
	}
	for _, plan := range plans {
		for _, skipped := range plan.Skipped {
			log.Ctx(ctx).Debug().
				Str("extension", plan.Extension).
				Str("dependency", skipped.Dependency.Name).
				Str("reason", string(skipped.Reason)).
				Msg("dev dependency skipped")
		}
		if len(plan.Install) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return plans, types.NewError(types.ErrorKindCancelled, plan.Extension, err)
		}
		if err := r.service.Installer.Install(ctx, plan.Install, found.baseDir); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return plans, types.NewError(types.ErrorKindCancelled, plan.Extension, errors.Join(ctxErr, err))
			}
			return plans, types.NewError(types.ErrorKindInstallFailed, plan.Extension, err)
		}
	}
	return plans, nil
}
