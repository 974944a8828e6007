package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"voltron/internal/app"
)

type installOptions struct {
	NpmBin string
}

func newInstallCommand(pipeline *pipelineOptions) *cobra.Command {
	opts := installOptions{}
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the devDependencies of every voltron extension",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd, pipeline, opts)
		},
	}
	cmd.Flags().StringVar(&opts.NpmBin, "npm-bin", "npm", "npm executable used for installs")
	return cmd
}

func runInstall(cmd *cobra.Command, pipeline *pipelineOptions, opts installOptions) error {
	if flagChanged(cmd, "npm-bin") {
		viper.Set("npm_bin", opts.NpmBin)
	}
	service := newAppService()
	result, err := service.Install(cmd.Context(), app.InstallRequest{
		Cwd:    resolveCwd(cmd, pipeline),
		Filter: resolveFilter(cmd, pipeline),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, plan := range result.Plans {
		fmt.Fprintf(out, "%s: %d installed, %d skipped\n", plan.Extension, len(plan.Install), len(plan.Skipped))
		for _, skipped := range plan.Skipped {
			fmt.Fprintf(out, "  skip %s (%s)\n", skipped.Dependency.Name, skipped.Reason)
		}
	}
	return nil
}
