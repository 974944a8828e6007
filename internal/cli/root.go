package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"voltron/internal/adapters"
	"voltron/internal/app"
	"voltron/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "VOLTRON"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	Pipeline   pipelineOptions
}

// pipelineOptions are shared by every command that discovers extensions.
type pipelineOptions struct {
	Cwd     string
	Include []string
	Exclude []string
	Workers int
	NodeBin string
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := newRootCommand()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "voltron",
		Short:         "Build browser extension plugins and merge their manifests",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&cfg.Pipeline.Cwd, "cwd", "", "Directory to start the package.json search from (default: working directory)")
	flags.StringSliceVar(&cfg.Pipeline.Include, "include", nil, "Only extensions whose name contains one of these substrings")
	flags.StringSliceVar(&cfg.Pipeline.Exclude, "exclude", nil, "Skip extensions whose name contains one of these substrings")
	flags.IntVar(&cfg.Pipeline.Workers, "workers", 4, "Concurrent extension config lookups")
	flags.StringVar(&cfg.Pipeline.NodeBin, "node-bin", "node", "Node binary used for JavaScript build entries and manifests")
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("cwd", flags.Lookup("cwd"))
	_ = viper.BindPFlag("include", flags.Lookup("include"))
	_ = viper.BindPFlag("exclude", flags.Lookup("exclude"))
	_ = viper.BindPFlag("workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("node_bin", flags.Lookup("node-bin"))

	cmd.AddCommand(newRunCommand(&cfg.Pipeline))
	cmd.AddCommand(newListCommand(&cfg.Pipeline))
	cmd.AddCommand(newInspectCommand(&cfg.Pipeline))
	cmd.AddCommand(newMergeCommand(&cfg.Pipeline))
	cmd.AddCommand(newInstallCommand(&cfg.Pipeline))
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("voltron")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/voltron")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	// stdout carries the merged manifest, so logs go to stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func exitCodeForError(err error) int {
	var pipelineErr *types.Error
	if errors.As(err, &pipelineErr) {
		switch pipelineErr.Kind {
		case types.ErrorKindNotFound:
			return 3
		case types.ErrorKindMissingBuildEntry, types.ErrorKindMissingManifest, types.ErrorKindInvalidExtensionConfig:
			return 4
		case types.ErrorKindBuildFailed:
			return 5
		case types.ErrorKindInstallFailed:
			return 6
		case types.ErrorKindCancelled:
			return 130
		}
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeNotFound:
		return 3
	default:
		return 1
	}
}

func newAppService() app.Service {
	service := app.NewServiceWithInstaller(newInstaller())
	nodeBin := viper.GetString("node_bin")
	service.Builds = adapters.NewEntryPointBuildAdapter(nodeBin)
	service.Manifests = adapters.NewManifestFileAdapterWithNode(nodeBin)
	return service
}
