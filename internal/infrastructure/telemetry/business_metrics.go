package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Job outcomes used as metric labels.
const (
	JobOutcomeSuccess = "success"
	JobOutcomeFailure = "failure"
)

const defaultCollectInterval = 5 * time.Minute

// FinanceStateProvider reports aggregate state for the periodic gauges so the
// telemetry layer does not depend on the repositories.
type FinanceStateProvider interface {
	CountSubscriptionsByStatus(ctx context.Context) (map[string]int64, error)
	CountUnreadNotifications(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
}

type BusinessMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StateProvider FinanceStateProvider
}

// BusinessMetrics counts domain events and scheduled job runs, and samples
// subscription, notification and user totals into gauges.
type BusinessMetrics struct {
	logger *zap.Logger
	state  FinanceStateProvider

	events   *Counter
	jobRuns  *Counter
	jobTime  *Histogram
	subs     *Gauge
	unread   *Gauge
	accounts *Gauge

	started sync.Once
	halted  sync.Once
	quit    chan struct{}
}

func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	bm := &BusinessMetrics{
		logger: cfg.Logger,
		state:  cfg.StateProvider,
		quit:   make(chan struct{}),
	}
	if bm.logger == nil {
		bm.logger = zap.NewNop()
	}

	var errs []error
	counter := func(name, desc, unit string) *Counter {
		c, err := NewCounter(cfg.Meter, name, desc, unit)
		errs = append(errs, err)
		return c
	}
	gauge := func(name, desc, unit string) *Gauge {
		g, err := NewGauge(cfg.Meter, name, desc, unit)
		errs = append(errs, err)
		return g
	}

	bm.events = counter("fintrack_domain_events_total", "Domain events published, by event type", "{events}")
	bm.jobRuns = counter("fintrack_job_runs_total", "Scheduled job runs, by job and outcome", "{runs}")
	bm.subs = gauge("fintrack_subscriptions", "Current number of subscriptions, by status", "{subscriptions}")
	bm.unread = gauge("fintrack_unread_notifications", "Current number of unread notifications", "{notifications}")
	bm.accounts = gauge("fintrack_users", "Current number of registered users", "{users}")

	var err error
	bm.jobTime, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "fintrack_job_duration_seconds",
		Description: "Scheduled job run time in seconds",
		Unit:        "s",
		Boundaries:  JobDurationBuckets,
	})
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return bm, nil
}

// EventTypes is empty: every published event is counted.
func (bm *BusinessMetrics) EventTypes() []string {
	return nil
}

func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	bm.events.Inc(ctx,
		AttrEventType.String(event.EventType()),
		AttrAggregateType.String(event.AggregateType()))
	return nil
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)

func (bm *BusinessMetrics) RecordJobRun(ctx context.Context, job string, d time.Duration, err error) {
	outcome := JobOutcomeSuccess
	if err != nil {
		outcome = JobOutcomeFailure
	}
	bm.jobRuns.Inc(ctx, AttrJobName.String(job), AttrJobOutcome.String(outcome))
	bm.jobTime.RecordDuration(ctx, d, AttrJobName.String(job))
}

// InstrumentJob times and counts each run of run. A nil run stays nil.
func (bm *BusinessMetrics) InstrumentJob(job string, run func(ctx context.Context) error) func(ctx context.Context) error {
	if run == nil {
		return nil
	}
	return func(ctx context.Context) error {
		start := time.Now()
		err := run(ctx)
		bm.RecordJobRun(ctx, job, time.Since(start), err)
		return err
	}
}

// StartPeriodicCollection samples the gauges now and then every interval
// until Stop or ctx ends. Only the first call has an effect.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultCollectInterval
	}
	bm.started.Do(func() {
		go func() {
			tick := time.NewTicker(interval)
			defer tick.Stop()
			for {
				bm.Collect(ctx)
				select {
				case <-tick.C:
				case <-ctx.Done():
					return
				case <-bm.quit:
					bm.logger.Info("Business metrics collection stopped")
					return
				}
			}
		}()
	})
}

// Collect samples the gauges once. A failing count is logged and its gauge
// keeps the previous value.
func (bm *BusinessMetrics) Collect(ctx context.Context) {
	if bm.state == nil {
		return
	}
	warn := func(what string, err error) {
		bm.logger.Warn("Business metrics: count failed", zap.String("metric", what), zap.Error(err))
	}

	if byStatus, err := bm.state.CountSubscriptionsByStatus(ctx); err != nil {
		warn("subscriptions", err)
	} else {
		for status, n := range byStatus {
			bm.subs.Record(ctx, n, AttrSubStatus.String(status))
		}
	}
	if n, err := bm.state.CountUnreadNotifications(ctx); err != nil {
		warn("unread_notifications", err)
	} else {
		bm.unread.Record(ctx, n)
	}
	if n, err := bm.state.CountUsers(ctx); err != nil {
		warn("users", err)
	} else {
		bm.accounts.Record(ctx, n)
	}
}

func (bm *BusinessMetrics) Stop() {
	bm.halted.Do(func() { close(bm.quit) })
}
