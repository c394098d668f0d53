package crawlx

import (
	"context"
	"time"
)

// Job is a named unit of crawl work: fetch, extract and ingest for one or
// more target sources.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

// Name returns the job name.
func (j JobFunc) Name() string { return j.JobName }

// Run calls Fn.
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// JobOutcome reports a single job execution.
type JobOutcome struct {
	Job      string        `json:"job"`
	RunID    string        `json:"run_id"`
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`

	// Shared is true when more than one trigger received this execution's
	// outcome because they arrived while it was running.
	Shared bool `json:"shared,omitempty"`
}

// JobRunner executes named jobs on demand.
type JobRunner interface {
	// RunJobs runs the named jobs and waits for all of them to finish. An
	// empty list selects the configured defaults. It returns an EINVALID
	// error only when no job can be selected or a name is unknown;
	// individual job failures are reported in the outcomes.
	RunJobs(ctx context.Context, names []string) ([]JobOutcome, error)
}

// JobObserver is notified after every job execution.
type JobObserver interface {
	JobFinished(name string, duration time.Duration, err error)
}
