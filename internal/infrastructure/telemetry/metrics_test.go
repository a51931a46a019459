package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func newReaderProvider(t *testing.T) (*MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))

	var none *MeterProvider
	assert.False(t, none.IsEnabled())
}

func TestInstruments(t *testing.T) {
	mp, reader := newReaderProvider(t)
	require.True(t, mp.IsEnabled())
	meter := mp.Meter("test")
	ctx := context.Background()

	counter, err := NewCounter(meter, "jobs_total", "Jobs", "{job}")
	require.NoError(t, err)
	counter.Inc(ctx, AttrJobName.String("reminders"))
	counter.Add(ctx, 4, AttrJobName.String("reminders"))

	hist, err := NewHistogram(meter, HistogramOpts{Name: "job_seconds", Unit: "s", Boundaries: JobDurationBuckets})
	require.NoError(t, err)
	hist.RecordDuration(ctx, 250*time.Millisecond)
	hist.Record(ctx, 2)

	gauge, err := NewGauge(meter, "active_subscriptions", "Active", "{subscription}")
	require.NoError(t, err)
	gauge.Record(ctx, 10)
	gauge.Record(ctx, 7)

	data := collectMetrics(t, reader)

	sum, ok := data["jobs_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(5), sum.DataPoints[0].Value)
	job, _ := sum.DataPoints[0].Attributes.Value(AttrJobName)
	assert.Equal(t, "reminders", job.AsString())

	h, ok := data["job_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, uint64(2), h.DataPoints[0].Count)
	assert.InDelta(t, 2.25, h.DataPoints[0].Sum, 1e-9)
	assert.Equal(t, JobDurationBuckets, h.DataPoints[0].Bounds)

	g, ok := data["active_subscriptions"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, g.DataPoints, 1)
	assert.Equal(t, int64(7), g.DataPoints[0].Value)
}
