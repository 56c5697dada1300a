package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/assoc/internal/observability"
)

func setupTestMeter(t *testing.T) (*observability.WorkloadMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	wm, err := observability.NewWorkloadMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return wm, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func TestWorkloadMetrics_RecordBatch(t *testing.T) {
	t.Parallel()

	wm, reader := setupTestMeter(t)
	ctx := context.Background()

	wm.RecordBatch(ctx, "map", "insert", 100, time.Millisecond)
	wm.RecordBatch(ctx, "map", "insert", 50, time.Millisecond)
	wm.RecordBatch(ctx, "map", "find", 0, time.Millisecond)

	rm := collectMetrics(t, reader)

	total := findMetric(rm, "assoc.operations.total")
	require.NotNil(t, total)

	sum, ok := total.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(150), sum.DataPoints[0].Value)

	duration := findMetric(rm, "assoc.operation.duration.seconds")
	require.NotNil(t, duration)

	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
}

func TestWorkloadMetrics_FailuresAndArena(t *testing.T) {
	t.Parallel()

	wm, reader := setupTestMeter(t)
	ctx := context.Background()

	wm.RecordFailure(ctx, "order")
	wm.RecordArena(ctx, "set", 1025)

	rm := collectMetrics(t, reader)
	require.NotNil(t, findMetric(rm, "assoc.check.failures.total"))

	slots := findMetric(rm, "assoc.arena.slots")
	require.NotNil(t, slots)

	gauge, ok := slots.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(1025), gauge.DataPoints[0].Value)
}
