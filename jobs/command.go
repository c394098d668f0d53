package jobs

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/fwojciec/crawlx"
)

// Ensure Command implements crawlx.Job at compile time.
var _ crawlx.Job = (*Command)(nil)

// Command runs an external crawler process as a job. A non-zero exit is
// reported as a *crawlx.JobError carrying the exit code.
type Command struct {
	JobName string
	Path    string
	Args    []string
	Dir     string

	// Stdout and Stderr receive the process output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Name implements crawlx.Job.
func (c *Command) Name() string { return c.JobName }

// Run implements crawlx.Job.
func (c *Command) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &crawlx.JobError{Job: c.JobName, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return &crawlx.JobError{Job: c.JobName, Err: err}
}
