package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusIdle    JobStatus = "IDLE"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
	JobStatusSkipped JobStatus = "SKIPPED"
)

// Task is the work a job performs on each run
type Task func(ctx context.Context) error

// Config holds scheduler configuration
type Config struct {
	JobTimeout time.Duration
	LockTTL    time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		JobTimeout: 5 * time.Minute,
		LockTTL:    10 * time.Minute,
	}
}

// Job is a named task on a cron schedule
type Job struct {
	Name     string
	Spec     string
	task     Task
	entryID  cron.EntryID
	status   JobStatus
	lastErr  string
	lastRun  *time.Time
	runCount int
}

// JobSnapshot is a read-only view of a job
type JobSnapshot struct {
	Name      string     `json:"name"`
	Spec      string     `json:"spec"`
	Status    JobStatus  `json:"status"`
	LastError string     `json:"last_error,omitempty"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
	RunCount  int        `json:"run_count"`
}

// Scheduler runs registered jobs on cron schedules. Every run takes a lock
// named after the job, so with a shared Locker only one replica runs it.
type Scheduler struct {
	config Config
	cron   *cron.Cron
	locker Locker
	logger *zap.Logger

	mu        sync.Mutex
	jobs      map[string]*Job
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler creates a scheduler. A nil locker serialises runs in-process only.
func NewScheduler(config Config, locker Locker, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	if config.LockTTL <= 0 {
		config.LockTTL = DefaultConfig().LockTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		config: config,
		cron:   cron.New(),
		locker: locker,
		logger: logger,
		jobs:   make(map[string]*Job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds a job. spec is a standard 5-field cron expression.
func (s *Scheduler) Register(name, spec string, task Task) error {
	if name == "" || task == nil {
		return fmt.Errorf("%w: job needs a name and a task", ErrInvalidConfig)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: job %q already registered", ErrInvalidConfig, name)
	}

	job := &Job{Name: name, Spec: spec, task: task, status: JobStatusIdle}
	id, err := s.cron.AddFunc(spec, func() {
		if err := s.run(s.ctx, job); err != nil && !errors.Is(err, ErrLockNotObtained) {
			s.logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("%w: cron spec %q for %s: %v", ErrInvalidConfig, spec, name, err)
	}
	job.entryID = id
	s.jobs[name] = job
	return nil
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop stops the cron loop and waits for running jobs until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.cancel()
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow runs a job immediately, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.run(ctx, job)
}

func (s *Scheduler) run(ctx context.Context, job *Job) error {
	release, err := s.locker.Acquire(ctx, "scheduler:"+job.Name, s.config.LockTTL)
	if err != nil {
		if errors.Is(err, ErrLockNotObtained) {
			s.finish(job, JobStatusSkipped, nil)
			s.logger.Info("Job already running elsewhere, skipped", zap.String("job", job.Name))
		}
		return err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Failed to release job lock", zap.String("job", job.Name), zap.Error(err))
		}
	}()

	s.mu.Lock()
	job.status = JobStatusRunning
	s.mu.Unlock()

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()
	err = job.task(runCtx)

	if err != nil {
		s.finish(job, JobStatusFailed, err)
		return err
	}
	s.finish(job, JobStatusSuccess, nil)
	s.logger.Info("Job completed",
		zap.String("job", job.Name),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (s *Scheduler) finish(job *Job, status JobStatus, err error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	job.status = status
	job.lastRun = &now
	job.lastErr = ""
	if err != nil {
		job.lastErr = err.Error()
	}
	if status != JobStatusSkipped {
		job.runCount++
	}
}

// Status returns a snapshot of every registered job
func (s *Scheduler) Status() []JobSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobSnapshot, 0, len(s.jobs))
	for _, job := range s.jobs {
		snap := JobSnapshot{
			Name:      job.Name,
			Spec:      job.Spec,
			Status:    job.status,
			LastError: job.lastErr,
			LastRunAt: job.lastRun,
			RunCount:  job.runCount,
		}
		if s.isRunning {
			if next := s.cron.Entry(job.entryID).Next; !next.IsZero() {
				snap.NextRunAt = &next
			}
		}
		out = append(out, snap)
	}
	return out
}
