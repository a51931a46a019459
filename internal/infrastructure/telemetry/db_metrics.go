package telemetry

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPoolStatsInterval = 15 * time.Second

// DBMetricsConfig configures query and connection pool metrics
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration
	PoolStatsInterval  time.Duration
}

// DBMetrics records db_query_total, db_query_duration_seconds,
// db_slow_query_total and the db_pool_connections gauges
type DBMetrics struct {
	queries     *Counter
	duration    *Histogram
	slowQueries *Counter
	pool        *Gauge
	poolMax     *Gauge

	cfg    DBMetricsConfig
	logger *zap.Logger
	sqlDB  *sql.DB

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDBMetrics creates the instruments on meter
func NewDBMetrics(meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = defaultSlowQuery
	}
	if cfg.PoolStatsInterval <= 0 {
		cfg.PoolStatsInterval = defaultPoolStatsInterval
	}
	m := &DBMetrics{cfg: cfg, logger: logger, stop: make(chan struct{})}

	var err error
	if m.queries, err = NewCounter(meter, "db_query_total", "Database statements by operation", "{query}"); err != nil {
		return nil, err
	}
	if m.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slowQueries, err = NewCounter(meter, "db_slow_query_total", "Statements slower than the threshold, by table", "{query}"); err != nil {
		return nil, err
	}
	if m.pool, err = NewGauge(meter, "db_pool_connections", "Pool connections by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.poolMax, err = NewGauge(meter, "db_pool_connections_max", "Pool connection limit", "{connection}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RegisterDBMetrics attaches DBMetrics to db. It returns nil, nil when
// metrics are disabled. Callers start pool collection and Stop on shutdown.
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled || !mp.IsEnabled() {
		return nil, nil
	}
	m, err := NewDBMetrics(mp.Meter("db.client"), cfg, logger)
	if err != nil {
		return nil, err
	}
	if m.sqlDB, err = db.DB(); err != nil {
		return nil, err
	}
	if err := m.Instrument(db); err != nil {
		return nil, err
	}
	logger.Info("Database metrics enabled", zap.Duration("slow_query", m.cfg.SlowQueryThreshold))
	return m, nil
}

// Instrument registers the timing callbacks on db
func (m *DBMetrics) Instrument(db *gorm.DB) error {
	return registerAround(db, "metrics", "", markQueryStart, func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		elapsed, _ := queryElapsed(db)
		m.RecordQuery(ctx, statementOperation(db.Statement.SQL.String()), db.Statement.Table, elapsed)
	})
}

// RecordQuery counts one statement and its latency
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, elapsed time.Duration) {
	op := AttrDBOperation.String(operation)
	m.queries.Inc(ctx, op)
	m.duration.RecordDuration(ctx, elapsed, op)
	if elapsed > m.cfg.SlowQueryThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueries.Inc(ctx, AttrDBTable.String(table))
	}
}

// StartPoolStatsCollection samples sql.DB pool stats until Stop or ctx ends
func (m *DBMetrics) StartPoolStatsCollection(ctx context.Context) {
	if m.sqlDB == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cfg.PoolStatsInterval)
		defer ticker.Stop()
		for {
			m.recordPool(ctx)
			select {
			case <-ticker.C:
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *DBMetrics) recordPool(ctx context.Context) {
	s := m.sqlDB.Stats()
	m.poolMax.Record(ctx, int64(s.MaxOpenConnections))
	m.pool.Record(ctx, int64(s.Idle), AttrDBState.String("idle"))
	m.pool.Record(ctx, int64(s.InUse), AttrDBState.String("in_use"))
	m.pool.Record(ctx, int64(s.OpenConnections), AttrDBState.String("open"))
}

// Stop ends pool collection. It is safe to call more than once.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.wg.Wait()
	})
}

// statementOperation reads the SQL verb, e.g. SELECT or INSERT
func statementOperation(stmt string) string {
	verb, _, _ := strings.Cut(strings.TrimSpace(stmt), " ")
	switch v := strings.ToUpper(verb); v {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return v
	case "":
		return "UNKNOWN"
	default:
		return "OTHER"
	}
}
