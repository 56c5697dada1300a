package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/assoc/internal/observability"
	"github.com/Sumatoshi-tech/assoc/internal/workload"
)

const metricsReadHeaderTimeout = 5 * time.Second

type benchFlags struct {
	format      string
	plot        string
	metricsAddr string
	sizes       []int
	repeat      int
}

func newBenchCommand(global *globalFlags) *cobra.Command {
	flags := &benchFlags{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time insert, find and erase for every container kind",
		Long: `Insert a shuffled set of distinct keys into every container kind, look each
key up and erase it again. The best of --repeat runs is reported.

Examples:
  assoc bench --sizes 1000,100000
  assoc bench --plot bench.html --metrics-addr :9090
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, global, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", workload.FormatTable, "output format: table, yaml or json")
	cmd.Flags().StringVar(&flags.plot, "plot", "", "write an HTML chart of the results to this path")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	cmd.Flags().IntSliceVar(&flags.sizes, "sizes", nil, "element counts (overrides bench.sizes)")
	cmd.Flags().IntVar(&flags.repeat, "repeat", 0, "runs per measurement (overrides bench.repeat)")

	return cmd
}

func runBench(cmd *cobra.Command, global *globalFlags, flags *benchFlags) (err error) { //nolint:nonamedreturns // deferred shutdown joins err.
	metricsAddr := flags.metricsAddr

	sess, err := global.open(cmd, observability.ModeBench, true)
	if err != nil {
		return err
	}
	defer sess.close(&err)

	if metricsAddr == "" {
		metricsAddr = sess.cfg.Telemetry.MetricsAddr
	}

	benchCfg := sess.cfg.Bench

	if cmd.Flags().Changed("sizes") {
		benchCfg.Sizes = flags.sizes
	}

	if cmd.Flags().Changed("repeat") {
		benchCfg.Repeat = flags.repeat
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if metricsAddr != "" {
		stopServer, serveErr := serveMetrics(metricsAddr, sess.providers.MetricsHandler)
		if serveErr != nil {
			return serveErr
		}
		defer stopServer()

		sess.providers.Logger.InfoContext(ctx, "serving metrics", "addr", metricsAddr)
	}

	report, err := sess.runner.Bench(ctx, benchCfg)
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}

	err = workload.WriteBench(cmd.OutOrStdout(), report, flags.format)
	if err != nil {
		return err
	}

	if flags.plot != "" {
		return writePlotFile(flags.plot, report)
	}

	return nil
}

func writePlotFile(path string, report *workload.BenchReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}

	return errors.Join(workload.WritePlot(file, report), file.Close())
}

// serveMetrics exposes handler on addr under /metrics and returns the function stopping it.
func serveMetrics(addr string, handler http.Handler) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{Handler: mux, ReadHeaderTimeout: metricsReadHeaderTimeout}

	go func() {
		_ = server.Serve(listener)
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsReadHeaderTimeout)
		defer cancel()

		_ = server.Shutdown(ctx)
	}, nil
}
