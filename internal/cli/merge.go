package cli

import (
	"github.com/spf13/cobra"

	"voltron/internal/app"
)

type mergeOptions struct {
	Manifest string
	Output   string
}

func newMergeCommand(pipeline *pipelineOptions) *cobra.Command {
	opts := mergeOptions{}
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge extension manifest fragments into a base manifest without building",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMerge(cmd, pipeline, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Base manifest file (json, yaml, toml or cue)")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Write the merged manifest to this file instead of stdout")
	return cmd
}

func runMerge(cmd *cobra.Command, pipeline *pipelineOptions, opts mergeOptions) error {
	base, err := loadBaseManifest(resolveString(cmd, opts.Manifest, "manifest", "manifest"))
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Merge(cmd.Context(), app.MergeRequest{
		Cwd:          resolveCwd(cmd, pipeline),
		Filter:       resolveFilter(cmd, pipeline),
		BaseManifest: base,
		Workers:      resolveWorkers(cmd, pipeline),
	})
	if err != nil {
		return err
	}
	return writeManifest(cmd.OutOrStdout(), resolveString(cmd, opts.Output, "output", "output"), result.Manifest)
}
