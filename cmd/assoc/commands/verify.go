package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/assoc/internal/observability"
	"github.com/Sumatoshi-tech/assoc/internal/workload"
)

type verifyFlags struct {
	format     string
	seed       int64
	operations int
}

func newVerifyCommand(global *globalFlags) *cobra.Command {
	flags := &verifyFlags{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check every container kind against a Go map oracle",
		Long: `Run randomized emplace, try_emplace, erase and find operations on every
container kind, compare against a Go map, check the engine invariants
periodically and after hibernation, then run the fixed scenarios.

Examples:
  assoc verify
  assoc verify --seed 42 --operations 100000 --format yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd, global, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", workload.FormatTable, "output format: table, yaml or json")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "random seed (overrides verify.seed)")
	cmd.Flags().IntVar(&flags.operations, "operations", 0, "operations per container kind (overrides verify.operations)")

	return cmd
}

func runVerify(cmd *cobra.Command, global *globalFlags, flags *verifyFlags) (err error) { //nolint:nonamedreturns // deferred shutdown joins err.
	sess, err := global.open(cmd, observability.ModeVerify, false)
	if err != nil {
		return err
	}
	defer sess.close(&err)

	verifyCfg := sess.cfg.Verify

	if cmd.Flags().Changed("seed") {
		verifyCfg.Seed = flags.seed
	}

	if cmd.Flags().Changed("operations") {
		verifyCfg.Operations = flags.operations
		verifyCfg.CheckEvery = min(verifyCfg.CheckEvery, max(flags.operations, 1))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, err := sess.runner.Verify(ctx, verifyCfg)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	err = workload.WriteVerify(cmd.OutOrStdout(), report, flags.format)
	if err != nil {
		return err
	}

	if report.Failed() > 0 {
		return fmt.Errorf("%w: %d of %d checks", ErrVerifyFailed, report.Failed(), len(report.Rows))
	}

	return nil
}
