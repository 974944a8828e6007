package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"voltron/internal/app"
)

func newListCommand(pipeline *pipelineOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the voltron extensions declared by the host package",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, pipeline)
		},
	}
}

func runList(cmd *cobra.Command, pipeline *pipelineOptions) error {
	service := newAppService()
	result, err := service.List(cmd.Context(), app.ListRequest{
		Cwd:    resolveCwd(cmd, pipeline),
		Filter: resolveFilter(cmd, pipeline),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range result.Extensions {
		fmt.Fprintln(out, name)
	}
	return nil
}
