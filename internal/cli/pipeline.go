package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"voltron/internal/adapters"
	"voltron/internal/ports"
	"voltron/internal/types"
)

func resolveCwd(cmd *cobra.Command, opts *pipelineOptions) string {
	return resolveString(cmd, opts.Cwd, "cwd", "cwd")
}

func resolveFilter(cmd *cobra.Command, opts *pipelineOptions) types.ExtensionFilter {
	return types.ExtensionFilter{
		Include: resolveStrings(cmd, opts.Include, "include", "include"),
		Exclude: resolveStrings(cmd, opts.Exclude, "exclude", "exclude"),
	}
}

func resolveWorkers(cmd *cobra.Command, opts *pipelineOptions) int {
	return resolveInt(cmd, opts.Workers, "workers", "workers")
}

func newInstaller() ports.InstallerPort {
	return adapters.NewNpmInstallerAdapter(viper.GetString("npm_bin"))
}

// loadBaseManifest reads the base manifest in any supported fragment
// format.
func loadBaseManifest(path string) (types.Manifest, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("base manifest path is required")
	}
	return adapters.NewManifestFileAdapterWithNode(viper.GetString("node_bin")).LoadManifest(path)
}

// writeManifest writes to path when set, otherwise to out.
func writeManifest(out io.Writer, path string, manifest types.Manifest) error {
	if strings.TrimSpace(path) != "" {
		return adapters.NewOutputFileAdapter().WriteManifest(path, manifest)
	}
	data, err := adapters.EncodeManifest(manifest)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// parseBuildEnv turns KEY=VALUE entries into a map.
func parseBuildEnv(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid build env entry %q, expected KEY=VALUE", entry))
		}
		env[key] = value
	}
	return env, nil
}

func absPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid path %s", path)).
			WithCause(err)
	}
	return abs, nil
}
