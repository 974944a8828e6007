package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voltron/internal/app"
)

func newInspectCommand(pipeline *pipelineOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show where each extension's build entry and manifest were found",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, pipeline)
		},
	}
}

func runInspect(cmd *cobra.Command, pipeline *pipelineOptions) error {
	service := newAppService()
	result, err := service.Inspect(cmd.Context(), app.InspectRequest{
		Cwd:     resolveCwd(cmd, pipeline),
		Filter:  resolveFilter(cmd, pipeline),
		Workers: resolveWorkers(cmd, pipeline),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "package.json: %s\n", result.DescriptorPath)
	fmt.Fprintf(out, "extensions: %d\n", len(result.Extensions))
	for _, ext := range result.Extensions {
		fmt.Fprintf(out, "- %s@%s (%s)\n", ext.Name, ext.Range, ext.Dir)
		fmt.Fprintf(out, "  build: %s [%s]\n", ext.BuildPath, ext.BuildSource)
		fmt.Fprintf(out, "  manifest: %s [%s]\n", ext.ManifestPath, ext.ManifestSource)
		if len(ext.ManifestKeys) > 0 {
			fmt.Fprintf(out, "  keys: %s\n", strings.Join(ext.ManifestKeys, ", "))
		}
	}
	return nil
}
