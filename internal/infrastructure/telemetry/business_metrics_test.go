package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestBusinessMetrics(t *testing.T, provider telemetry.FinanceStateProvider) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         mp.Meter("test"),
		Logger:        zap.NewNop(),
		StateProvider: provider,
	})
	require.NoError(t, err)
	return bm, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, kv attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(kv.Key); ok && v == kv.Value {
			total += dp.Value
		}
	}
	return total
}

func gaugeFor(t *testing.T, m metricdata.Metrics, kv *attribute.KeyValue) int64 {
	t.Helper()
	g, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok, "metric %s is not an int64 gauge", m.Name)
	for _, dp := range g.DataPoints {
		if kv == nil {
			return dp.Value
		}
		if v, ok := dp.Attributes.Value(kv.Key); ok && v == kv.Value {
			return dp.Value
		}
	}
	t.Fatalf("no data point for %v in %s", kv, m.Name)
	return 0
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Logger: zap.NewNop()})

	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
	assert.Nil(t, bm)
}

func TestBusinessMetrics_CountsDomainEvents(t *testing.T) {
	bm, reader := newTestBusinessMetrics(t, nil)
	ctx := context.Background()
	owner := uuid.New()

	created := shared.NewBaseDomainEvent("transaction.created", "Transaction", uuid.New(), owner)
	renewed := shared.NewBaseDomainEvent("subscription.renewed", "Subscription", uuid.New(), owner)
	require.NoError(t, bm.Handle(ctx, &created))
	require.NoError(t, bm.Handle(ctx, &created))
	require.NoError(t, bm.Handle(ctx, &renewed))

	metrics := collect(t, reader)
	events := metrics["fintrack_domain_events_total"]
	assert.Equal(t, int64(2), sumFor(t, events, telemetry.AttrEventType.String("transaction.created")))
	assert.Equal(t, int64(1), sumFor(t, events, telemetry.AttrEventType.String("subscription.renewed")))
	assert.Nil(t, bm.EventTypes())
}

func TestBusinessMetrics_InstrumentJob(t *testing.T) {
	bm, reader := newTestBusinessMetrics(t, nil)
	ctx := context.Background()

	assert.Nil(t, bm.InstrumentJob("noop", nil))

	ok := bm.InstrumentJob("subscription_renewals", func(context.Context) error { return nil })
	failing := bm.InstrumentJob("subscription_renewals", func(context.Context) error { return errors.New("db down") })

	require.NoError(t, ok(ctx))
	require.NoError(t, ok(ctx))
	require.EqualError(t, failing(ctx), "db down")

	runs := collect(t, reader)["fintrack_job_runs_total"]
	assert.Equal(t, int64(2), sumFor(t, runs, telemetry.AttrJobOutcome.String(telemetry.JobOutcomeSuccess)))
	assert.Equal(t, int64(1), sumFor(t, runs, telemetry.AttrJobOutcome.String(telemetry.JobOutcomeFailure)))
}

func newStateDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would get its own in-memory database
	sqlDB.SetMaxOpenConns(1)
	for _, stmt := range []string{
		`CREATE TABLE users (id TEXT PRIMARY KEY)`,
		`CREATE TABLE subscriptions (id TEXT PRIMARY KEY, status TEXT NOT NULL)`,
		`CREATE TABLE notifications (id TEXT PRIMARY KEY, is_read BOOLEAN NOT NULL)`,
		`INSERT INTO users (id) VALUES ('u1'), ('u2')`,
		`INSERT INTO subscriptions (id, status) VALUES ('s1', 'active'), ('s2', 'active'), ('s3', 'paused')`,
		`INSERT INTO notifications (id, is_read) VALUES ('n1', false), ('n2', true), ('n3', false)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestGormFinanceStateProvider(t *testing.T) {
	p := telemetry.NewGormFinanceStateProvider(newStateDB(t))
	ctx := context.Background()

	byStatus, err := p.CountSubscriptionsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"active": 2, "paused": 1}, byStatus)

	unread, err := p.CountUnreadNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	users, err := p.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), users)
}

func TestBusinessMetrics_Collect(t *testing.T) {
	bm, reader := newTestBusinessMetrics(t, telemetry.NewGormFinanceStateProvider(newStateDB(t)))
	bm.Collect(context.Background())

	metrics := collect(t, reader)
	active := telemetry.AttrSubStatus.String("active")
	assert.Equal(t, int64(2), gaugeFor(t, metrics["fintrack_subscriptions"], &active))
	assert.Equal(t, int64(2), gaugeFor(t, metrics["fintrack_unread_notifications"], nil))
	assert.Equal(t, int64(2), gaugeFor(t, metrics["fintrack_users"], nil))
}

func TestBusinessMetrics_PeriodicCollectionStops(t *testing.T) {
	bm, _ := newTestBusinessMetrics(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bm.StartPeriodicCollection(ctx, 10*time.Millisecond)
	bm.StartPeriodicCollection(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	bm.Stop()
	bm.Stop()
}
