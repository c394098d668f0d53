package crawl

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/crawlx"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retry calls fn until it succeeds, fails permanently, or the delays run
// out. It makes len(delays)+1 attempts at most, sleeping delays[i] before
// retry i+1. Errors for which Retryable is false are returned at once.
// logger may be nil.
func Retry[T any](ctx context.Context, delays []time.Duration, logger *slog.Logger, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !Retryable(err) || attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logger != nil {
			logger.Warn("retrying", "attempt", attempt+2, "delay", delays[attempt], "err", err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// Retryable reports whether err is worth another attempt. Invalid input,
// context errors outside a fetch and client-side HTTP statuses other than
// 408 and 429 are permanent.
func Retryable(err error) bool {
	if crawlx.ErrorCode(err) == crawlx.EINVALID {
		return false
	}
	var fe *crawlx.FetchError
	if errors.As(err, &fe) {
		if fe.StatusCode >= 400 && fe.StatusCode < 500 {
			return fe.StatusCode == http.StatusRequestTimeout || fe.StatusCode == http.StatusTooManyRequests
		}
		return true
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
