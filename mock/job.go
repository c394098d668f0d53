package mock

import (
	"context"
	"time"

	"github.com/fwojciec/crawlx"
)

var (
	_ crawlx.Job         = (*Job)(nil)
	_ crawlx.JobRunner   = (*JobRunner)(nil)
	_ crawlx.JobObserver = (*JobObserver)(nil)
)

// Job is a mock implementation of crawlx.Job.
type Job struct {
	NameFn func() string
	RunFn  func(ctx context.Context) error
}

func (j *Job) Name() string {
	return j.NameFn()
}

func (j *Job) Run(ctx context.Context) error {
	return j.RunFn(ctx)
}

// JobRunner is a mock implementation of crawlx.JobRunner.
type JobRunner struct {
	RunJobsFn func(ctx context.Context, names []string) ([]crawlx.JobOutcome, error)
}

func (r *JobRunner) RunJobs(ctx context.Context, names []string) ([]crawlx.JobOutcome, error) {
	return r.RunJobsFn(ctx, names)
}

// JobObserver is a mock implementation of crawlx.JobObserver.
type JobObserver struct {
	JobFinishedFn func(name string, duration time.Duration, err error)
}

func (o *JobObserver) JobFinished(name string, duration time.Duration, err error) {
	o.JobFinishedFn(name, duration, err)
}
