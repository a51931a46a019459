package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fintrack/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSchedulerNotRunning = errors.New("scheduler: not running")
	ErrJobQueueFull        = errors.New("scheduler: queue full")
	ErrUnknownJob          = errors.New("scheduler: unknown job")
	ErrInvalidConfig       = errors.New("scheduler: invalid configuration")
)

type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is the work behind a job. It must honour ctx, which carries the
// per-attempt timeout.
type JobFunc func(ctx context.Context) error

// Job is one run of a named task, retries included. Its fields are written by
// the worker and may be read once Done is closed.
type Job struct {
	ID          uuid.UUID
	Name        string
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int

	run  JobFunc
	done chan struct{}
	once sync.Once
}

func NewJob(name string, run JobFunc, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Name:       name,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
		run:        run,
		done:       make(chan struct{}),
	}
}

// Done is closed when the job succeeds or stops retrying
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// attempt runs the job once. A panic is reported as a failure.
func (j *Job) attempt(ctx context.Context, timeout time.Duration) (err error) {
	started := time.Now()
	j.Status, j.StartedAt, j.Error = JobStatusRunning, &started, ""

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
		finished := time.Now()
		j.CompletedAt = &finished
		if err != nil {
			j.Status, j.Error = JobStatusFailed, err.Error()
		} else {
			j.Status = JobStatusSuccess
		}
	}()
	return j.run(ctx)
}

func (j *Job) finish() {
	j.once.Do(func() { close(j.done) })
}

type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:       2,
		QueueSize:     100,
		JobTimeout:    10 * time.Minute,
		RetryAttempts: 2,
		RetryDelay:    time.Minute,
	}
}

// ConfigFrom overlays the configured scheduler settings on DefaultConfig
func ConfigFrom(cfg config.SchedulerConfig) Config {
	c := DefaultConfig()
	if cfg.Workers > 0 {
		c.Workers = cfg.Workers
	}
	if cfg.JobTimeout > 0 {
		c.JobTimeout = cfg.JobTimeout
	}
	if cfg.RetryAttempts >= 0 {
		c.RetryAttempts = cfg.RetryAttempts
	}
	if cfg.RetryDelay > 0 {
		c.RetryDelay = cfg.RetryDelay
	}
	return c
}

// Scheduler is a fixed pool of workers fed by a bounded queue. Failed jobs
// are re-queued after RetryDelay until they run out of retries.
type Scheduler struct {
	cfg    Config
	logger *zap.Logger
	queue  chan *Job

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	workers sync.WaitGroup
	waiting map[*Job]*time.Timer
}

// NewScheduler creates a stopped scheduler. Zero sizes and timeouts fall back
// to DefaultConfig.
func NewScheduler(cfg Config, logger *zap.Logger) *Scheduler {
	cfg.Workers = max(cfg.Workers, 1)
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultConfig().JobTimeout
	}
	return &Scheduler{
		cfg:     cfg,
		logger:  logger,
		queue:   make(chan *Job, cfg.QueueSize),
		waiting: make(map[*Job]*time.Timer),
	}
}

// Start launches the workers. Starting a running scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	for id := range s.cfg.Workers {
		s.workers.Add(1)
		go s.work(ctx, id)
	}
	s.logger.Info("Job scheduler started",
		zap.Int("workers", s.cfg.Workers),
		zap.Duration("job_timeout", s.cfg.JobTimeout))
	return nil
}

// Stop drops pending retries, cancels running jobs and waits for the workers
// until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	for job, timer := range s.waiting {
		timer.Stop()
		job.finish()
	}
	clear(s.waiting)
	s.cancel()
	s.mu.Unlock()

	stopped := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
		s.logger.Info("Job scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues job without blocking
func (s *Scheduler) Submit(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enqueueLocked(job)
}

func (s *Scheduler) enqueueLocked(job *Job) error {
	if !s.running {
		return ErrSchedulerNotRunning
	}
	select {
	case s.queue <- job:
		s.logger.Debug("Job queued", zap.String("job_id", job.ID.String()), zap.String("job", job.Name))
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) work(ctx context.Context, id int) {
	defer s.workers.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.queue:
			s.execute(ctx, job, id)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job *Job, worker int) {
	log := s.logger.With(
		zap.Int("worker_id", worker),
		zap.String("job_id", job.ID.String()),
		zap.String("job", job.Name))
	log.Info("Processing job", zap.Int("attempt", job.RetryCount+1))

	err := job.attempt(ctx, s.cfg.JobTimeout)
	if err == nil {
		log.Info("Job completed", zap.Duration("duration", job.CompletedAt.Sub(*job.StartedAt)))
		job.finish()
		return
	}
	log.Error("Job failed", zap.Error(err))

	if job.RetryCount >= job.MaxRetries || ctx.Err() != nil {
		job.finish()
		return
	}
	job.RetryCount++
	job.Status = JobStatusPending
	log.Info("Job scheduled for retry",
		zap.Int("retry_count", job.RetryCount),
		zap.Int("max_retries", job.MaxRetries),
		zap.Duration("delay", s.cfg.RetryDelay))
	s.retryLater(job)
}

func (s *Scheduler) retryLater(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		job.finish()
		return
	}
	s.waiting[job] = time.AfterFunc(s.cfg.RetryDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.waiting[job]; !ok {
			return
		}
		delete(s.waiting, job)
		if err := s.enqueueLocked(job); err != nil {
			s.logger.Warn("Retry could not be queued", zap.String("job_id", job.ID.String()), zap.Error(err))
			job.finish()
		}
	})
}
