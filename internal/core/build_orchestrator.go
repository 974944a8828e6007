package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"voltron/internal/types"
)

// BuildOrchestrator runs extension builds one after another in input
// order. It stops at the first failure and never starts a build once its
// context is cancelled.
type BuildOrchestrator struct {
	Retry RetryPolicy
	Clock func() time.Time
}

func NewBuildOrchestrator(retry RetryPolicy) BuildOrchestrator {
	return BuildOrchestrator{Retry: retry, Clock: time.Now}
}

// Build returns the report together with its error, which is non-nil only
// for BuildStatusFailed. Cancellation is reported through the status.
func (o BuildOrchestrator) Build(ctx context.Context, configs []types.ExtensionConfig, opts types.BuildOptions) (types.BuildReport, error) {
	logger := log.Ctx(ctx)
	report := types.BuildReport{
		Status:  types.BuildStatusCompleted,
		Results: make([]types.BuildResult, 0, len(configs)),
	}
	for i, cfg := range configs {
		if ctx.Err() != nil {
			report.Status = types.BuildStatusCancelled
			report.NotStarted = configNames(configs[i:])
			logger.Warn().Strs("not_started", report.NotStarted).Msg("build cancelled")
			return report, nil
		}
		logger.Info().Str("extension", cfg.Name).Msg("building extension")
		result, err := o.buildOne(ctx, cfg, opts)
		if err != nil {
			report.Status = types.BuildStatusFailed
			report.Failed = cfg.Name
			report.Err = types.NewError(types.ErrorKindBuildFailed, cfg.Name, err)
			report.NotStarted = configNames(configs[i+1:])
			logger.Error().Err(err).Str("extension", cfg.Name).Int("attempts", result.Attempts).Msg("extension build failed")
			return report, report.Err
		}
		logger.Info().Str("extension", cfg.Name).Dur("duration", result.Duration).Msg("extension built")
		report.Results = append(report.Results, result)
	}
	return report, nil
}

func (o BuildOrchestrator) buildOne(ctx context.Context, cfg types.ExtensionConfig, opts types.BuildOptions) (types.BuildResult, error) {
	result := types.BuildResult{Extension: cfg.Name}
	if cfg.Build == nil {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("build entry point is not callable")
	}
	// A started build runs to completion even if ctx is cancelled meanwhile.
	buildCtx := context.WithoutCancel(ctx)
	start := o.now()
	var lastErr error
	op := func() error {
		result.Attempts++
		value, err := invokeBuild(buildCtx, cfg.Build, cloneBuildOptions(opts))
		if err != nil {
			lastErr = err
			return err
		}
		result.Value = value
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Ctx(ctx).Warn().Err(err).
			Str("extension", cfg.Name).
			Int("attempt", result.Attempts).
			Dur("retry_in", wait).
			Msg("extension build failed, retrying")
	}
	err := o.Retry.Do(ctx, op, notify)
	result.Duration = o.now().Sub(start)
	if err != nil && lastErr != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		err = lastErr
	}
	return result, err
}

func invokeBuild(ctx context.Context, build types.BuildFunc, opts types.BuildOptions) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build panicked: %v", r)
		}
	}()
	return build(ctx, opts)
}

func (o BuildOrchestrator) now() time.Time {
	if o.Clock == nil {
		return time.Now()
	}
	return o.Clock()
}

func cloneBuildOptions(opts types.BuildOptions) types.BuildOptions {
	out := types.BuildOptions{OutputDir: opts.OutputDir}
	if opts.Env != nil {
		out.Env = make(map[string]string, len(opts.Env))
		for key, value := range opts.Env {
			out.Env[key] = value
		}
	}
	if opts.Extra != nil {
		out.Extra = types.CloneValue(opts.Extra).(map[string]any)
	}
	return out
}

func configNames(configs []types.ExtensionConfig) []string {
	if len(configs) == 0 {
		return nil
	}
	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		names = append(names, cfg.Name)
	}
	return names
}
