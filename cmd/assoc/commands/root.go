// Package commands implements CLI command handlers for assoc.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/assoc/internal/config"
	"github.com/Sumatoshi-tech/assoc/internal/observability"
	"github.com/Sumatoshi-tech/assoc/internal/workload"
	"github.com/Sumatoshi-tech/assoc/pkg/version"
)

// ErrVerifyFailed is returned when at least one verification check failed.
var ErrVerifyFailed = errors.New("verification failed")

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
	quiet      bool
}

// NewRootCommand builds the assoc command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "assoc",
		Short: "Associative container verification and benchmarks",
		Long: `assoc exercises the ordered (red-black tree) and unordered (hash table)
map and set containers.

Commands:
  verify    Randomized oracle runs and fixed scenarios
  bench     Insert, find and erase timings per container kind`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to the assoc.yaml configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(newVerifyCommand(flags))
	rootCmd.AddCommand(newBenchCommand(flags))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "assoc %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)

			return err
		},
	}
}

// session bundles what a command run needs.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	runner    *workload.Runner
}

func (flags *globalFlags) open(cmd *cobra.Command, mode observability.AppMode, prometheus bool) (*session, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return nil, err
	}

	switch {
	case flags.quiet:
		level = slog.LevelError
	case flags.verbose:
		level = slog.LevelDebug
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.Prometheus = prometheus
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON()

	providers, err := observability.InitWriter(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewWorkloadMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &session{
		cfg:       cfg,
		providers: providers,
		runner:    workload.NewRunner(providers.Tracer, metrics, providers.Logger),
	}, nil
}

func (sess *session) close(errp *error) {
	shutdownErr := sess.providers.Shutdown(context.Background())
	if shutdownErr != nil {
		*errp = errors.Join(*errp, fmt.Errorf("shutdown observability: %w", shutdownErr))
	}
}
