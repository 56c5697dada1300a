package workload

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sumatoshi-tech/assoc/internal/config"
	"github.com/Sumatoshi-tech/assoc/internal/observability"
)

// Row is one verification check.
type Row struct {
	Name       string `json:"name"             yaml:"name"`
	Operations int    `json:"operations"       yaml:"operations"`
	Passed     bool   `json:"passed"           yaml:"passed"`
	Detail     string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// VerifyReport collects the verification checks of one run.
type VerifyReport struct {
	Seed int64 `json:"seed" yaml:"seed"`
	Rows []Row `json:"rows" yaml:"rows"`
}

// Failed returns the number of failed checks.
func (report *VerifyReport) Failed() int {
	failed := 0

	for _, row := range report.Rows {
		if !row.Passed {
			failed++
		}
	}

	return failed
}

// Verify drives every container kind with random operations against a Go map
// oracle, then runs the fixed scenarios.
func (runner *Runner) Verify(ctx context.Context, cfg config.VerifyConfig) (*VerifyReport, error) {
	ctx, span := runner.tracer.Start(ctx, "assoc.verify")
	defer span.End()

	report := &VerifyReport{Seed: cfg.Seed}

	for _, kind := range Kinds() {
		row, err := runner.verifyKind(ctx, cfg, kind)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())

			return report, err
		}

		report.Rows = append(report.Rows, row)
	}

	for _, sc := range scenarios() {
		start := time.Now()
		ops, err := guard(sc.run)

		detail := ""
		if err != nil {
			detail = err.Error()
			runner.metrics.RecordFailure(ctx, sc.name)
		}

		report.Rows = append(report.Rows, runner.record(ctx, "scenario/"+sc.name, start, ops, detail))
	}

	span.SetAttributes(attribute.Int("checks", len(report.Rows)), attribute.Int("failed", report.Failed()))

	if report.Failed() > 0 {
		span.SetStatus(codes.Error, "verification failed")
	}

	runner.logger.InfoContext(ctx, "verification finished",
		"checks", len(report.Rows), "failed", report.Failed(), "seed", cfg.Seed)

	return report, nil
}

func (runner *Runner) verifyKind(ctx context.Context, cfg config.VerifyConfig, kind string) (Row, error) {
	ctx, span := runner.tracer.Start(observability.ContextWithKind(ctx, kind), "assoc.verify."+kind)
	defer span.End()

	start := time.Now()
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible workload.
	sub := newSubject(kind)
	orc := newOracle(ordered(kind))

	ops, err := guard(func() (int, error) {
		return randomOperations(ctx, cfg, kind, rng, sub, orc)
	})
	if ctx.Err() != nil {
		return Row{}, fmt.Errorf("verify %s: %w", kind, ctx.Err())
	}

	detail := ""
	if err != nil {
		detail = err.Error()
		span.SetStatus(codes.Error, detail)
		runner.metrics.RecordFailure(ctx, kind)
	}

	span.SetAttributes(attribute.Int("operations", ops))

	return runner.record(ctx, "random/"+kind, start, ops, detail), nil
}

// guard turns a container assertion panic into a mismatch error.
func guard(run func() (int, error)) (ops int, err error) { //nolint:nonamedreturns // recover rewrites err.
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: panic: %v", ErrMismatch, recovered)
		}
	}()

	return run()
}

func (runner *Runner) record(ctx context.Context, name string, start time.Time, ops int, detail string) Row {
	runner.metrics.RecordBatch(ctx, name, "verify", ops, time.Since(start))

	if detail != "" {
		runner.logger.WarnContext(ctx, "check failed", "check", name, "detail", detail)
	} else if ops > 0 {
		runner.logger.DebugContext(ctx, "check passed", "check", name, "operations", ops)
	}

	return Row{Name: name, Operations: ops, Passed: detail == "", Detail: detail}
}

//nolint:gocognit,cyclop // one branch per operation kind.
func randomOperations(
	ctx context.Context, cfg config.VerifyConfig, kind string, rng *rand.Rand, sub subject, orc *oracle,
) (int, error) {
	set := kind == KindSet || kind == KindUnorderedSet

	for op := 1; op <= cfg.Operations; op++ {
		key := rng.Intn(cfg.KeySpace)

		value := rng.Int()
		if set {
			value = key
		}

		switch rng.Intn(4) {
		case 0:
			if got, want := sub.emplace(key, value), orc.insert(key, value); got != want {
				return op, fmt.Errorf("%w: op %d emplace(%d) inserted=%t, want %t", ErrMismatch, op, key, got, want)
			}
		case 1:
			if got, want := sub.tryEmplace(key, value), orc.insert(key, value); got != want {
				return op, fmt.Errorf("%w: op %d try_emplace(%d) inserted=%t, want %t", ErrMismatch, op, key, got, want)
			}
		case 2:
			if got, want := sub.erase(key), orc.erase(key); got != want {
				return op, fmt.Errorf("%w: op %d erase(%d) erased=%t, want %t", ErrMismatch, op, key, got, want)
			}
		default:
			gotValue, got := sub.find(key)
			wantValue, want := orc.values[key]

			if got != want || gotValue != wantValue {
				return op, fmt.Errorf("%w: op %d find(%d) = (%d, %t), want (%d, %t)",
					ErrMismatch, op, key, gotValue, got, wantValue, want)
			}
		}

		if op%cfg.CheckEvery == 0 {
			err := checkState(sub, orc)
			if err != nil {
				return op, fmt.Errorf("op %d: %w", op, err)
			}

			if ctx.Err() != nil {
				return op, ctx.Err()
			}
		}
	}

	err := checkOrder(sub, orc)
	if err != nil {
		return cfg.Operations, err
	}

	err = sub.hibernate()
	if err != nil {
		return cfg.Operations, err
	}

	err = checkState(sub, orc)
	if err != nil {
		return cfg.Operations, fmt.Errorf("after hibernation: %w", err)
	}

	return cfg.Operations, checkOrder(sub, orc)
}

func checkState(sub subject, orc *oracle) error {
	err := sub.check()
	if err != nil {
		return err
	}

	if sub.len() != len(orc.values) {
		return fmt.Errorf("%w: len %d, want %d", ErrMismatch, sub.len(), len(orc.values))
	}

	return nil
}

func checkOrder(sub subject, orc *oracle) error {
	want, got := orc.keys(), sub.keys()
	if !slices.Equal(want, got) {
		return fmt.Errorf("%w: iteration order\n%s", ErrMismatch, orderDiff(want, got))
	}

	return nil
}

// oracle mirrors a container with a Go map and the first-insertion order of its keys.
type oracle struct {
	values map[int]int
	order  []int
	sorted bool
}

func newOracle(sorted bool) *oracle {
	return &oracle{values: map[int]int{}, sorted: sorted}
}

func (orc *oracle) insert(key, value int) bool {
	if _, ok := orc.values[key]; ok {
		return false
	}

	orc.values[key] = value
	orc.order = append(orc.order, key)

	return true
}

func (orc *oracle) erase(key int) bool {
	if _, ok := orc.values[key]; !ok {
		return false
	}

	delete(orc.values, key)

	idx := slices.Index(orc.order, key)
	orc.order = slices.Delete(orc.order, idx, idx+1)

	return true
}

func (orc *oracle) keys() []int {
	keys := slices.Clone(orc.order)
	if orc.sorted {
		slices.Sort(keys)
	}

	return keys
}
