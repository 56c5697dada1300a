package workload

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sumatoshi-tech/assoc/internal/config"
	"github.com/Sumatoshi-tech/assoc/internal/hashutil"
	"github.com/Sumatoshi-tech/assoc/internal/observability"
)

// Benchmarked operations.
const (
	OpInsert = "insert"
	OpFind   = "find"
	OpErase  = "erase"
)

// BenchRow is the best timing of one operation on one container kind and size.
type BenchRow struct {
	Kind       string  `json:"kind"        yaml:"kind"`
	Size       int     `json:"size"        yaml:"size"`
	Op         string  `json:"op"          yaml:"op"`
	NsPerOp    float64 `json:"ns_per_op"   yaml:"ns_per_op"`
	ArenaBytes uint64  `json:"arena_bytes" yaml:"arena_bytes"`
}

// BenchReport collects the rows of one benchmark run.
type BenchReport struct {
	Seed   int64      `json:"seed"   yaml:"seed"`
	Repeat int        `json:"repeat" yaml:"repeat"`
	Rows   []BenchRow `json:"rows"   yaml:"rows"`
}

// Bench times insertion, lookup and erasure of a shuffled set of distinct keys
// for every configured size and container kind, keeping the best of cfg.Repeat runs.
func (runner *Runner) Bench(ctx context.Context, cfg config.BenchConfig) (*BenchReport, error) {
	ctx, span := runner.tracer.Start(ctx, "assoc.bench")
	defer span.End()

	report := &BenchReport{Seed: cfg.Seed, Repeat: cfg.Repeat}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible workload.

	for _, size := range cfg.Sizes {
		keys := benchKeys(rng, size)

		for _, kind := range Kinds() {
			err := ctx.Err()
			if err != nil {
				return report, fmt.Errorf("bench: %w", err)
			}

			rows, err := runner.benchKind(ctx, kind, keys, cfg.Repeat)
			if err != nil {
				return report, err
			}

			report.Rows = append(report.Rows, rows...)
		}
	}

	span.SetAttributes(attribute.Int("rows", len(report.Rows)))
	runner.logger.InfoContext(ctx, "benchmark finished", "rows", len(report.Rows), "seed", cfg.Seed)

	return report, nil
}

func (runner *Runner) benchKind(ctx context.Context, kind string, keys []uint64, repeat int) ([]BenchRow, error) {
	ctx, span := runner.tracer.Start(observability.ContextWithKind(ctx, kind), "assoc.bench."+kind)
	defer span.End()

	span.SetAttributes(attribute.Int("size", len(keys)))

	ops := []string{OpInsert, OpFind, OpErase}
	best := map[string]time.Duration{}

	var arenaBytes uint64

	for range max(repeat, 1) {
		sub := newBenchSubject(kind)
		timings := [3]time.Duration{}

		start := time.Now()

		for _, key := range keys {
			if !sub.insert(key) {
				return nil, fmt.Errorf("%w: %s rejected key %d", ErrMismatch, kind, key)
			}
		}

		timings[0] = time.Since(start)
		arenaBytes = uint64(sub.slots()) * uint64(sub.nodeBytes())
		runner.metrics.RecordArena(ctx, kind, sub.slots())

		start = time.Now()

		for _, key := range keys {
			if !sub.find(key) {
				return nil, fmt.Errorf("%w: %s lost key %d", ErrMismatch, kind, key)
			}
		}

		timings[1] = time.Since(start)
		start = time.Now()

		for _, key := range keys {
			if !sub.erase(key) {
				return nil, fmt.Errorf("%w: %s could not erase key %d", ErrMismatch, kind, key)
			}
		}

		timings[2] = time.Since(start)

		for idx, op := range ops {
			runner.metrics.RecordBatch(ctx, kind, op, len(keys), timings[idx])

			if current, ok := best[op]; !ok || timings[idx] < current {
				best[op] = timings[idx]
			}
		}
	}

	rows := make([]BenchRow, 0, len(ops))

	for _, op := range ops {
		nsPerOp := 0.0
		if len(keys) > 0 {
			nsPerOp = float64(best[op].Nanoseconds()) / float64(len(keys))
		}

		rows = append(rows, BenchRow{Kind: kind, Size: len(keys), Op: op, NsPerOp: nsPerOp, ArenaBytes: arenaBytes})
	}

	return rows, nil
}

// benchKeys returns size distinct scattered keys in random order.
func benchKeys(rng *rand.Rand, size int) []uint64 {
	keys := make([]uint64, size)

	for idx := range keys {
		// Mix64 is a bijection, so distinct inputs stay distinct.
		keys[idx] = hashutil.Mix64(uint64(idx))
	}

	rng.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})

	return keys
}
