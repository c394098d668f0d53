package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/crawlx"
)

// Run executes the run command. It fails when any job fails.
func (c *RunCmd) Run(deps *Dependencies) error {
	outcomes, err := deps.Runner.RunJobs(deps.Ctx, c.Jobs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawlx.ErrorMessage(err))
		return err
	}

	failed := 0
	for _, o := range outcomes {
		status := "ok"
		if !o.Success {
			status = "FAILED"
			failed++
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n", o.Job, status, o.RunID, o.Duration.Round(time.Millisecond), o.Message)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(outcomes))
	}
	return nil
}
