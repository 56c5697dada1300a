// Package workload runs the randomized verification and the benchmarks of
// the assoc containers and renders their reports.
package workload

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/assoc/internal/observability"
)

// ErrMismatch marks a container result that disagrees with the expected one.
var ErrMismatch = errors.New("container mismatch")

// Container kinds.
const (
	KindMap          = "map"
	KindSet          = "set"
	KindUnorderedMap = "unordered_map"
	KindUnorderedSet = "unordered_set"
)

// Kinds lists every container kind in report order.
func Kinds() []string {
	return []string{KindMap, KindSet, KindUnorderedMap, KindUnorderedSet}
}

// Runner executes workloads with shared telemetry.
type Runner struct {
	tracer  trace.Tracer
	metrics *observability.WorkloadMetrics
	logger  *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(tracer trace.Tracer, metrics *observability.WorkloadMetrics, logger *slog.Logger) *Runner {
	return &Runner{tracer: tracer, metrics: metrics, logger: logger}
}
