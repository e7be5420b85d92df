package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a maintenance task run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error

	// Delayed jobs wait one full interval before their first run.
	Delayed bool
}

// JobStats summarises the executions of one job.
type JobStats struct {
	Runs      int
	Failures  int
	LastRun   time.Time
	LastError error
}

// Scheduler runs registered jobs on tickers until stopped.
type Scheduler struct {
	mu     sync.Mutex
	jobs   []Job
	stats  map[string]JobStats
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		stats: make(map[string]JobStats),
	}
}

// AddJob registers a job that runs once on Start and then every interval.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.add(Job{Name: name, Interval: interval, Fn: fn})
}

// AddDelayedJob registers a job whose first run happens after one interval.
func (s *Scheduler) AddDelayedJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.add(Job{Name: name, Interval: interval, Fn: fn, Delayed: true})
}

func (s *Scheduler) add(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", job.Name, "interval", job.Interval, "delayed", job.Delayed)
}

// Start launches every job. Jobs stop when ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all jobs and waits for running executions to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}

	slog.Info("Stopping cron scheduler...")
	cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	if !job.Delayed {
		s.executeJob(ctx, job)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(ctx, job)
		}
	}
}

func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	start := time.Now()
	err := job.Fn(ctx)

	if err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}

	s.mu.Lock()
	st := s.stats[job.Name]
	st.Runs++
	st.LastRun = start
	st.LastError = err
	if err != nil {
		st.Failures++
	}
	s.stats[job.Name] = st
	s.mu.Unlock()
}

// RunOnce executes every registered job synchronously, ignoring Delayed.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.executeJob(ctx, job)
	}
}

// Stats returns the execution summary of the named job.
func (s *Scheduler) Stats(name string) (JobStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stats[name]
	return st, ok
}
