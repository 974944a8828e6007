package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"voltron/internal/app"
	"voltron/internal/core"
	"voltron/internal/types"
)

type runOptions struct {
	Manifest        string
	Output          string
	OutputDir       string
	SkipInstall     bool
	Retries         int
	RetryDelayMs    int
	RetryMaxDelayMs int
	BuildEnv        []string
	NpmBin          string
}

func newRunCommand(pipeline *pipelineOptions) *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Install, build and merge every voltron extension of the host package",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, pipeline, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Base manifest file (json, yaml, toml or cue)")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Write the merged manifest to this file instead of stdout")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "build", "Output directory passed to every build")
	cmd.Flags().BoolVar(&opts.SkipInstall, "skip-install", false, "Do not install extension devDependencies")
	cmd.Flags().IntVar(&opts.Retries, "retries", 0, "Extra attempts per failing extension build")
	cmd.Flags().IntVar(&opts.RetryDelayMs, "retry-delay-ms", 200, "Initial delay between build attempts")
	cmd.Flags().IntVar(&opts.RetryMaxDelayMs, "retry-max-delay-ms", 2000, "Maximum delay between build attempts")
	cmd.Flags().StringSliceVar(&opts.BuildEnv, "build-env", nil, "Extra KEY=VALUE environment for build scripts")
	cmd.Flags().StringVar(&opts.NpmBin, "npm-bin", "npm", "npm executable used for installs")
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("skip_install", cmd.Flags().Lookup("skip-install"))
	_ = viper.BindPFlag("retries", cmd.Flags().Lookup("retries"))
	_ = viper.BindPFlag("retry_delay_ms", cmd.Flags().Lookup("retry-delay-ms"))
	_ = viper.BindPFlag("retry_max_delay_ms", cmd.Flags().Lookup("retry-max-delay-ms"))
	_ = viper.BindPFlag("build_env", cmd.Flags().Lookup("build-env"))
	_ = viper.BindPFlag("npm_bin", cmd.Flags().Lookup("npm-bin"))
	return cmd
}

func runRun(cmd *cobra.Command, pipeline *pipelineOptions, opts runOptions) error {
	base, err := loadBaseManifest(resolveString(cmd, opts.Manifest, "manifest", "manifest"))
	if err != nil {
		return err
	}
	outputDir, err := absPath(resolveString(cmd, opts.OutputDir, "output_dir", "output-dir"))
	if err != nil {
		return err
	}
	env, err := parseBuildEnv(resolveStrings(cmd, opts.BuildEnv, "build_env", "build-env"))
	if err != nil {
		return err
	}
	if flagChanged(cmd, "npm-bin") {
		viper.Set("npm_bin", opts.NpmBin)
	}

	service := newAppService()
	result, err := service.Run(cmd.Context(), app.RunRequest{
		Cwd:          resolveCwd(cmd, pipeline),
		Filter:       resolveFilter(cmd, pipeline),
		BaseManifest: base,
		BuildOptions: types.BuildOptions{OutputDir: outputDir, Env: env},
		SkipInstall:  resolveBool(cmd, opts.SkipInstall, "skip_install", "skip-install"),
		Retry:        retryPolicy(cmd, opts),
		Workers:      resolveWorkers(cmd, pipeline),
	})
	if err != nil {
		return err
	}
	return writeManifest(cmd.OutOrStdout(), resolveString(cmd, opts.Output, "output", "output"), result.Manifest)
}

func retryPolicy(cmd *cobra.Command, opts runOptions) core.RetryPolicy {
	retries := resolveInt(cmd, opts.Retries, "retries", "retries")
	if retries < 0 {
		retries = 0
	}
	return core.RetryPolicy{
		MaxAttempts:  retries + 1,
		InitialDelay: time.Duration(resolveInt(cmd, opts.RetryDelayMs, "retry_delay_ms", "retry-delay-ms")) * time.Millisecond,
		MaxDelay:     time.Duration(resolveInt(cmd, opts.RetryMaxDelayMs, "retry_max_delay_ms", "retry-max-delay-ms")) * time.Millisecond,
	}
}
