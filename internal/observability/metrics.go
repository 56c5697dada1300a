package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOperationsTotal   = "assoc.operations.total"
	metricOperationDuration = "assoc.operation.duration.seconds"
	metricCheckFailures     = "assoc.check.failures.total"
	metricArenaSlots        = "assoc.arena.slots"

	attrKind  = "kind"
	attrOp    = "op"
	attrCheck = "check"
)

// durationBucketBoundaries covers 10ns to 10ms per container operation.
var durationBucketBoundaries = []float64{1e-8, 5e-8, 1e-7, 2.5e-7, 5e-7, 1e-6, 2.5e-6, 5e-6, 1e-5, 1e-4, 1e-3, 1e-2}

// WorkloadMetrics holds the OTel instruments of the verify and bench runners.
type WorkloadMetrics struct {
	operationsTotal   metric.Int64Counter
	operationDuration metric.Float64Histogram
	checkFailures     metric.Int64Counter
	arenaSlots        metric.Int64Gauge
}

// NewWorkloadMetrics creates the workload instruments from the given meter.
func NewWorkloadMetrics(mt metric.Meter) (*WorkloadMetrics, error) {
	operationsTotal, opsErr := mt.Int64Counter(metricOperationsTotal,
		metric.WithDescription("Container operations executed"), metric.WithUnit("{operation}"))

	operationDuration, durationErr := mt.Float64Histogram(metricOperationDuration,
		metric.WithDescription("Mean duration of one container operation"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...))

	checkFailures, failuresErr := mt.Int64Counter(metricCheckFailures,
		metric.WithDescription("Failed verification checks"), metric.WithUnit("{check}"))

	arenaSlots, slotsErr := mt.Int64Gauge(metricArenaSlots,
		metric.WithDescription("Arena slots held after a benchmark run"), metric.WithUnit("{slot}"))

	err := errors.Join(opsErr, durationErr, failuresErr, slotsErr)
	if err != nil {
		return nil, fmt.Errorf("create workload instruments: %w", err)
	}

	return &WorkloadMetrics{
		operationsTotal:   operationsTotal,
		operationDuration: operationDuration,
		checkFailures:     checkFailures,
		arenaSlots:        arenaSlots,
	}, nil
}

// RecordBatch records count operations of op on kind that took elapsed in total.
func (wm *WorkloadMetrics) RecordBatch(ctx context.Context, kind, op string, count int, elapsed time.Duration) {
	if count <= 0 {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrKind, kind),
		attribute.String(attrOp, op),
	)

	wm.operationsTotal.Add(ctx, int64(count), attrs)
	wm.operationDuration.Record(ctx, elapsed.Seconds()/float64(count), attrs)
}

// RecordFailure counts a failed verification check.
func (wm *WorkloadMetrics) RecordFailure(ctx context.Context, check string) {
	wm.checkFailures.Add(ctx, 1, metric.WithAttributes(attribute.String(attrCheck, check)))
}

// RecordArena records the arena size of kind after a run.
func (wm *WorkloadMetrics) RecordArena(ctx context.Context, kind string, slots int) {
	wm.arenaSlots.Record(ctx, int64(slots), metric.WithAttributes(attribute.String(attrKind, kind)))
}
