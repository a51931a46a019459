package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fintrack/backend/internal/infrastructure/cache"
	"github.com/fintrack/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func startScheduler(t *testing.T, cfg Config) *Scheduler {
	t.Helper()
	s := NewScheduler(cfg, zaptest.NewLogger(t))
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

func waitDone(t *testing.T, job *Job) {
	t.Helper()
	select {
	case <-job.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("job %s did not finish", job.Name)
	}
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := startScheduler(t, Config{Workers: 2, QueueSize: 10, JobTimeout: time.Second})

	var runs int32
	job := NewJob("count", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, 0)
	require.NoError(t, s.Submit(job))
	waitDone(t, job)

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
	assert.Equal(t, JobStatusSuccess, job.Status)
}

func TestScheduler_RetriesFailedJobs(t *testing.T) {
	s := startScheduler(t, Config{Workers: 1, QueueSize: 10, JobTimeout: time.Second, RetryDelay: 10 * time.Millisecond})

	t.Run("succeeds on second attempt", func(t *testing.T) {
		var attempts int32
		job := NewJob("flaky", func(ctx context.Context) error {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return errors.New("transient")
			}
			return nil
		}, 2)
		require.NoError(t, s.Submit(job))
		waitDone(t, job)

		assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
		assert.Equal(t, JobStatusSuccess, job.Status)
		assert.Equal(t, 1, job.RetryCount)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var attempts int32
		job := NewJob("broken", func(ctx context.Context) error {
			atomic.AddInt32(&attempts, 1)
			return errors.New("permanent")
		}, 2)
		require.NoError(t, s.Submit(job))
		waitDone(t, job)

		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
		assert.Equal(t, JobStatusFailed, job.Status)
		assert.Equal(t, "permanent", job.Error)
	})

	t.Run("panics become failures", func(t *testing.T) {
		job := NewJob("panicky", func(ctx context.Context) error {
			panic("boom")
		}, 0)
		require.NoError(t, s.Submit(job))
		waitDone(t, job)

		assert.Equal(t, JobStatusFailed, job.Status)
		assert.Contains(t, job.Error, "boom")
	})
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := startScheduler(t, Config{Workers: 1, QueueSize: 1, JobTimeout: 20 * time.Millisecond})

	job := NewJob("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, 0)
	require.NoError(t, s.Submit(job))
	waitDone(t, job)

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, context.DeadlineExceeded.Error(), job.Error)
}

func TestScheduler_SubmitWhenStopped(t *testing.T) {
	s := NewScheduler(DefaultConfig(), zap.NewNop())
	err := s.Submit(NewJob("x", func(context.Context) error { return nil }, 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestParseCronSchedule(t *testing.T) {
	tests := []struct {
		expr       string
		hour, min  int
		shouldFail bool
	}{
		{expr: "0 1 * * *", hour: 1, min: 0},
		{expr: "30 23 * * *", hour: 23, min: 30},
		{expr: "5 6", hour: 6, min: 5},
		{expr: "", shouldFail: true},
		{expr: "*/5 1 * * *", shouldFail: true},
		{expr: "0 24 * * *", shouldFail: true},
		{expr: "60 1 * * *", shouldFail: true},
		{expr: "0 1 1 * *", shouldFail: true},
		{expr: "0 1 * 6 *", shouldFail: true},
		{expr: "0 1 * * 1-5", shouldFail: true},
		{expr: "0 1 * * * *", shouldFail: true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			hour, minute, err := ParseCronSchedule(tt.expr)
			if tt.shouldFail {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.min, minute)
		})
	}
}

func TestCronTrigger_CheckAndTrigger(t *testing.T) {
	s := startScheduler(t, Config{Workers: 1, QueueSize: 10, JobTimeout: time.Second})
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	var renewals, reminders int32
	renewal, err := NewEntry(JobSubscriptionRenewals, "0 1 * * *", func(context.Context) error {
		atomic.AddInt32(&renewals, 1)
		return nil
	})
	require.NoError(t, err)
	reminder, err := NewEntry(JobRenewalReminders, "0 8 * * *", func(context.Context) error {
		atomic.AddInt32(&reminders, 1)
		return nil
	})
	require.NoError(t, err)

	trigger := NewCronTrigger(s, store, time.Minute, zap.NewNop(), renewal, reminder)
	now := time.Date(2024, 6, 15, 0, 30, 0, 0, time.UTC)
	trigger.now = func() time.Time { return now }
	ctx := context.Background()

	assert.Empty(t, trigger.checkAndTrigger(ctx), "nothing is due before 01:00")

	now = time.Date(2024, 6, 15, 1, 5, 0, 0, time.UTC)
	jobs := trigger.checkAndTrigger(ctx)
	require.Len(t, jobs, 1)
	waitDone(t, jobs[0])
	assert.Empty(t, trigger.checkAndTrigger(ctx), "renewals already ran today")

	now = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	jobs = trigger.checkAndTrigger(ctx)
	require.Len(t, jobs, 1)
	assert.Equal(t, JobRenewalReminders, jobs[0].Name)
	waitDone(t, jobs[0])

	now = time.Date(2024, 6, 16, 2, 0, 0, 0, time.UTC)
	jobs = trigger.checkAndTrigger(ctx)
	require.Len(t, jobs, 1)
	waitDone(t, jobs[0])

	assert.Equal(t, int32(2), atomic.LoadInt32(&renewals))
	assert.Equal(t, int32(1), atomic.LoadInt32(&reminders))

	t.Run("a second instance sharing the store does not fire", func(t *testing.T) {
		other := NewCronTrigger(s, store, time.Minute, zap.NewNop(), renewal, reminder)
		other.now = trigger.now
		assert.Empty(t, other.checkAndTrigger(ctx))
	})

	t.Run("manual trigger", func(t *testing.T) {
		job, err := trigger.TriggerNow(JobRenewalReminders)
		require.NoError(t, err)
		waitDone(t, job)
		assert.Equal(t, int32(2), atomic.LoadInt32(&reminders))

		_, err = trigger.TriggerNow("nope")
		assert.ErrorIs(t, err, ErrUnknownJob)
	})
}

func TestCronTrigger_FailedSubmitKeepsTheDayOpen(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	var runs int32
	renewal, err := NewEntry(JobSubscriptionRenewals, "0 1 * * *", func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})
	require.NoError(t, err)

	s := NewScheduler(Config{Workers: 1, QueueSize: 1, JobTimeout: time.Second}, zaptest.NewLogger(t))
	trigger := NewCronTrigger(s, store, time.Minute, zap.NewNop(), renewal)
	trigger.now = func() time.Time { return time.Date(2024, 6, 15, 1, 5, 0, 0, time.UTC) }

	t.Run("scheduler not running", func(t *testing.T) {
		assert.Empty(t, trigger.checkAndTrigger(ctx))
		claimed, err := store.IsProcessed(ctx, runKey(JobSubscriptionRenewals, "2024-06-15"))
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("queue full", func(t *testing.T) {
		q := NewScheduler(Config{Workers: 1, QueueSize: 1, JobTimeout: time.Second}, zaptest.NewLogger(t))
		q.mu.Lock()
		q.running = true
		q.mu.Unlock()
		require.NoError(t, q.Submit(NewJob("filler", func(context.Context) error { return nil }, 0)))

		full := NewCronTrigger(q, store, time.Minute, zap.NewNop(), renewal)
		full.now = trigger.now
		assert.Empty(t, full.checkAndTrigger(ctx))
		claimed, err := store.IsProcessed(ctx, runKey(JobSubscriptionRenewals, "2024-06-15"))
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("next check after start runs the job", func(t *testing.T) {
		require.NoError(t, s.Start(ctx))
		t.Cleanup(func() { _ = s.Stop(context.Background()) })

		jobs := trigger.checkAndTrigger(ctx)
		require.Len(t, jobs, 1)
		waitDone(t, jobs[0])
		assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
	})
}

func TestFinanceJobs_Entries(t *testing.T) {
	noop := func(context.Context) error { return nil }
	cfg := config.SchedulerConfig{
		RenewalSchedule:     "0 1 * * *",
		ReminderSchedule:    "0 8 * * *",
		SnapshotSchedule:    "30 23 * * *",
		RateRefreshSchedule: "0 6 * * *",
	}

	entries, err := FinanceJobs{Renewals: noop, Reminders: noop, Snapshots: noop}.Entries(cfg)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, JobInvestmentSnapshots, entries[2].Name)
	assert.Equal(t, 23, entries[2].Hour)
	assert.Equal(t, 30, entries[2].Minute)

	cfg.RenewalSchedule = "bad"
	_, err = FinanceJobs{Renewals: noop}.Entries(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
