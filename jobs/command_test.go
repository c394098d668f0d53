package jobs_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Run(t *testing.T) {
	t.Parallel()

	t.Run("succeeds on zero exit", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		cmd := &jobs.Command{JobName: "echo", Path: "/bin/sh", Args: []string{"-c", "echo crawled"}, Stdout: &out}

		require.NoError(t, cmd.Run(context.Background()))
		assert.Equal(t, "echo", cmd.Name())
		assert.Equal(t, "crawled\n", out.String())
	})

	t.Run("reports non-zero exit code", func(t *testing.T) {
		t.Parallel()

		cmd := &jobs.Command{JobName: "spider", Path: "/bin/sh", Args: []string{"-c", "exit 3"}}

		err := cmd.Run(context.Background())

		var jobErr *crawlx.JobError
		require.True(t, errors.As(err, &jobErr))
		assert.Equal(t, "spider", jobErr.Job)
		assert.Equal(t, 3, jobErr.ExitCode)
	})

	t.Run("reports missing executable", func(t *testing.T) {
		t.Parallel()

		cmd := &jobs.Command{JobName: "spider", Path: "/nonexistent/scrapy"}

		err := cmd.Run(context.Background())

		var jobErr *crawlx.JobError
		require.True(t, errors.As(err, &jobErr))
		assert.Equal(t, 0, jobErr.ExitCode)
	})
}
