package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Entry is a job that runs once a day at Hour:Minute
type Entry struct {
	Name   string
	Hour   int
	Minute int
	Run    JobFunc
}

// NewEntry builds a daily entry from a "minute hour * * *" expression
func NewEntry(name, expr string, run JobFunc) (Entry, error) {
	hour, minute, err := ParseCronSchedule(expr)
	if err != nil {
		return Entry{}, fmt.Errorf("job %s: %w", name, err)
	}
	return Entry{Name: name, Hour: hour, Minute: minute, Run: run}, nil
}

// ParseCronSchedule reads the minute and hour fields of a daily cron
// expression. Only plain numbers are supported in those two fields, and the
// day-of-month, month and weekday fields, when given, must be "*".
func ParseCronSchedule(expr string) (hour, minute int, err error) {
	parts := strings.Fields(expr)
	if len(parts) < 2 || len(parts) > 5 {
		return 0, 0, fmt.Errorf("%w: cron expression %q needs minute and hour fields", ErrInvalidConfig, expr)
	}
	for _, f := range parts[2:] {
		if f != "*" {
			return 0, 0, fmt.Errorf("%w: only daily schedules are supported, got %q", ErrInvalidConfig, expr)
		}
	}
	minute, err = strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute must be 0-59, got %q", ErrInvalidConfig, parts[0])
	}
	hour, err = strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour must be 0-23, got %q", ErrInvalidConfig, parts[1])
	}
	return hour, minute, nil
}

// CronTrigger submits each entry to the scheduler once per day, as soon as
// its time of day has passed. Runs are claimed in the idempotency store, so
// with a shared store only one instance fires each entry per day.
type CronTrigger struct {
	entries       map[string]Entry
	order         []string
	scheduler     *Scheduler
	runs          shared.IdempotencyStore
	checkInterval time.Duration
	retries       int
	logger        *zap.Logger
	now           func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCronTrigger creates a trigger over the given entries
func NewCronTrigger(
	scheduler *Scheduler,
	runs shared.IdempotencyStore,
	checkInterval time.Duration,
	logger *zap.Logger,
	entries ...Entry,
) *CronTrigger {
	if checkInterval <= 0 {
		checkInterval = time.Minute
	}
	c := &CronTrigger{
		entries:       make(map[string]Entry, len(entries)),
		scheduler:     scheduler,
		runs:          runs,
		checkInterval: checkInterval,
		retries:       scheduler.cfg.RetryAttempts,
		logger:        logger,
		now:           time.Now,
	}
	for _, e := range entries {
		if _, dup := c.entries[e.Name]; !dup {
			c.order = append(c.order, e.Name)
		}
		c.entries[e.Name] = e
	}
	return c
}

// Start starts the check loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}
	c.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Strings("jobs", c.order),
		zap.Duration("check_interval", c.checkInterval),
	)
	return nil
}

// Stop stops the check loop
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	c.checkAndTrigger(ctx)

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger submits every entry whose time has come today and that has
// not run today. It returns the submitted jobs.
func (c *CronTrigger) checkAndTrigger(ctx context.Context) []*Job {
	now := c.now().UTC()
	today := now.Format("2006-01-02")
	minuteOfDay := now.Hour()*60 + now.Minute()

	var submitted []*Job
	for _, name := range c.order {
		e := c.entries[name]
		if minuteOfDay < e.Hour*60+e.Minute {
			continue
		}
		claimed, err := c.runs.MarkProcessed(ctx, runKey(name, today), 48*time.Hour)
		if err != nil {
			c.logger.Error("Failed to claim cron run", zap.String("job", name), zap.Error(err))
			continue
		}
		if !claimed {
			continue
		}
		job := NewJob(name, e.Run, c.retries)
		if err := c.scheduler.Submit(job); err != nil {
			c.logger.Error("Failed to submit cron job", zap.String("job", name), zap.Error(err))
			// unclaim so the next check, here or on another instance, retries today
			if err := c.runs.Release(ctx, runKey(name, today)); err != nil {
				c.logger.Error("Failed to release cron run", zap.String("job", name), zap.Error(err))
			}
			continue
		}
		c.logger.Info("Triggered daily job", zap.String("job", name), zap.String("date", today))
		submitted = append(submitted, job)
	}
	return submitted
}

// TriggerNow submits the named entry immediately, outside its schedule
func (c *CronTrigger) TriggerNow(name string) (*Job, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	job := NewJob(name, e.Run, c.retries)
	if err := c.scheduler.Submit(job); err != nil {
		return nil, err
	}
	c.logger.Info("Triggered job manually", zap.String("job", name))
	return job, nil
}

// JobNames lists the registered entries in registration order
func (c *CronTrigger) JobNames() []string {
	return append([]string(nil), c.order...)
}

func runKey(name, day string) string {
	return "cron:" + name + ":" + day
}
