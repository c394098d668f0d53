// Package schedule implements the named-job orchestrator. Jobs run on a
// recurring timer and on demand; at most one execution per job name is in
// flight at a time, while distinct names run concurrently.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Ensure Scheduler implements crawlx.JobRunner at compile time.
var _ crawlx.JobRunner = (*Scheduler)(nil)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = 6 * time.Hour

// Scheduler maps job names to jobs and runs them.
type Scheduler struct {
	mu       sync.Mutex
	jobs     map[string]crawlx.Job
	defaults []string
	stop     context.CancelFunc

	interval time.Duration
	logger   *slog.Logger
	observer crawlx.JobObserver
	flight   singleflight.Group
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the timer interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithDefaults sets the job names run by timer ticks and by on-demand
// triggers with an empty list.
func WithDefaults(names ...string) Option {
	return func(s *Scheduler) {
		s.defaults = append([]string(nil), names...)
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithObserver registers an observer notified after every execution.
func WithObserver(o crawlx.JobObserver) Option {
	return func(s *Scheduler) {
		s.observer = o
	}
}

// New creates a Scheduler with no jobs registered.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		jobs:     make(map[string]crawlx.Job),
		interval: DefaultInterval,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds job under its name, replacing any job registered with
// the same name.
func (s *Scheduler) Register(job crawlx.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name()] = job
}

// Names returns the registered job names in no particular order.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// Defaults returns the default job names.
func (s *Scheduler) Defaults() []string {
	return append([]string(nil), s.defaults...)
}

// Start runs the default jobs every interval until Stop is called or ctx
// is canceled. Calling Start again replaces the running timer.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.stop != nil {
		s.stop()
	}
	s.stop = cancel
	s.mu.Unlock()

	go s.loop(ctx)
}

// Stop cancels the timer. It does not wait for in-flight executions,
// which run to completion.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	s.logger.Info("scheduler started", "interval", s.interval, "jobs", s.defaults)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			outcomes, err := s.RunJobs(ctx, nil)
			if err != nil {
				s.logger.Error("scheduled run", "err", err)
				continue
			}
			for _, o := range outcomes {
				if !o.Success {
					s.logger.Warn("scheduled job failed", "job", o.Job, "run_id", o.RunID, "message", o.Message)
				}
			}
		}
	}
}

// RunJobs implements crawlx.JobRunner. Executions are detached from ctx
// cancellation: a caller going away does not abort a run that has started.
// A trigger for a job that is already running waits for that execution and
// shares its outcome.
func (s *Scheduler) RunJobs(ctx context.Context, names []string) ([]crawlx.JobOutcome, error) {
	jobs, err := s.selectJobs(names)
	if err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	outcomes := make([]crawlx.JobOutcome, len(jobs))

	var g errgroup.Group
	for i, job := range jobs {
		g.Go(func() error {
			v, _, shared := s.flight.Do(job.Name(), func() (any, error) {
				return s.execute(ctx, job), nil
			})
			o := v.(crawlx.JobOutcome)
			o.Shared = shared
			outcomes[i] = o
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

// selectJobs resolves names, falling back to the defaults when empty.
// Duplicate names are collapsed.
func (s *Scheduler) selectJobs(names []string) ([]crawlx.Job, error) {
	if len(names) == 0 {
		names = s.defaults
	}
	if len(names) == 0 {
		return nil, crawlx.Errorf(crawlx.EINVALID, "no jobs requested and no default jobs configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(names))
	jobs := make([]crawlx.Job, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		job, ok := s.jobs[name]
		if !ok {
			return nil, crawlx.Errorf(crawlx.EINVALID, "unknown job %q", name)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// execute runs one job and converts the result to an outcome. Panics are
// reported as failures.
func (s *Scheduler) execute(ctx context.Context, job crawlx.Job) crawlx.JobOutcome {
	name := job.Name()
	runID := uuid.NewString()
	logger := s.logger.With("job", name, "run_id", runID)

	logger.Info("job started")
	start := time.Now()
	err := safeRun(ctx, job)
	duration := time.Since(start)

	if s.observer != nil {
		s.observer.JobFinished(name, duration, err)
	}

	outcome := crawlx.JobOutcome{
		Job:      name,
		RunID:    runID,
		Success:  err == nil,
		Duration: duration,
	}
	if err != nil {
		var jobErr *crawlx.JobError
		if !errors.As(err, &jobErr) {
			jobErr = &crawlx.JobError{Job: name, Err: err}
		}
		outcome.Message = jobErr.Error()
		logger.Error("job failed", "duration", duration, "err", jobErr)
		return outcome
	}

	outcome.Message = "completed"
	logger.Info("job finished", "duration", duration)
	return outcome
}

func safeRun(ctx context.Context, job crawlx.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job.Run(ctx)
}
