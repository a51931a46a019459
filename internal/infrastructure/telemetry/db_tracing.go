package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSlowQuery = 200 * time.Millisecond
	queryStartKey    = "telemetry:query_start"
)

// DBTracingConfig configures gorm query spans
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL keeps bound values in db.statement. Development only.
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DBTracingPlugin adds otelgorm spans plus row counts, error status and a
// slow query marker to every statement
type DBTracingPlugin struct {
	cfg    DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a DBTracingPlugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = defaultSlowQuery
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{cfg: cfg, logger: logger}
}

// RegisterOtelGorm installs otelgorm and the timing callbacks on db
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.cfg.Enabled {
		return nil
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(p.cfg.DBSystem)}
	if !p.cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	// annotate must see the span before otelgorm ends it
	if err := registerAround(db, "tracing", "otel:after:", markQueryStart, p.annotate); err != nil {
		return err
	}
	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.cfg.DBSystem),
		zap.Duration("slow_query", p.cfg.SlowQueryThresh))
	return nil
}

func markQueryStart(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func queryElapsed(db *gorm.DB) (time.Duration, bool) {
	v, ok := db.InstanceGet(queryStartKey)
	if !ok {
		return 0, false
	}
	start, ok := v.(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

// annotate decorates the otelgorm span of the finished statement
func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
	if elapsed, ok := queryElapsed(db); ok && elapsed > p.cfg.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()))
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.cfg.SlowQueryThresh.Milliseconds())))
	}
}

// registerAround registers before and after on every gorm statement kind,
// named "<prefix>:before_<kind>" and "<prefix>:after_<kind>". When ahead is
// set, the after hook is ordered in front of the callback "<ahead><kind>".
func registerAround(db *gorm.DB, prefix, ahead string, before, after func(*gorm.DB)) error {
	type register func(name, ahead string, fn func(*gorm.DB)) error
	cb := db.Callback()
	hooks := []struct {
		kind          string
		before, after register
	}{
		{"create",
			func(n, _ string, f func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, f) },
			func(n, a string, f func(*gorm.DB)) error {
				return cb.Create().After("gorm:create").Before(a).Register(n, f)
			}},
		{"query",
			func(n, _ string, f func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, f) },
			func(n, a string, f func(*gorm.DB)) error {
				return cb.Query().After("gorm:query").Before(a).Register(n, f)
			}},
		{"update",
			func(n, _ string, f func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, f) },
			func(n, a string, f func(*gorm.DB)) error {
				return cb.Update().After("gorm:update").Before(a).Register(n, f)
			}},
		{"delete",
			func(n, _ string, f func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, f) },
			func(n, a string, f func(*gorm.DB)) error {
				return cb.Delete().After("gorm:delete").Before(a).Register(n, f)
			}},
		{"row",
			func(n, _ string, f func(*gorm.DB)) error { return cb.Row().Before("gorm:row").Register(n, f) },
			func(n, a string, f func(*gorm.DB)) error { return cb.Row().After("gorm:row").Before(a).Register(n, f) }},
		{"raw",
			func(n, _ string, f func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, f) },
			func(n, a string, f func(*gorm.DB)) error { return cb.Raw().After("gorm:raw").Before(a).Register(n, f) }},
	}
	for _, h := range hooks {
		if err := h.before(prefix+":before_"+h.kind, "", before); err != nil {
			return err
		}
		var next string
		if ahead != "" {
			next = ahead + h.kind
		}
		if err := h.after(prefix+":after_"+h.kind, next, after); err != nil {
			return err
		}
	}
	return nil
}
