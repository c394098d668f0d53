package rod

import (
	"context"
	"time"

	"github.com/fwojciec/crawlx"
)

// Ensure Fetcher implements crawlx.Fetcher at compile time.
var _ crawlx.Fetcher = (*Fetcher)(nil)

// DefaultRenderTimeout bounds a single rendered fetch, settle time included.
const DefaultRenderTimeout = 60 * time.Second

// Fetcher retrieves rendered HTML using browsing contexts from a Pool.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	pool    *Pool
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout sets the maximum duration of a rendered fetch.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a Fetcher backed by pool. Closing the Fetcher shuts
// the pool down.
func NewFetcher(pool *Pool, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{pool: pool, timeout: DefaultRenderTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates a fresh browsing context to url, waits for the page to
// load plus opts.Settle, and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	bc, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, &crawlx.FetchError{URL: url, Err: err}
	}
	defer bc.Close()

	page := bc.Page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, &crawlx.FetchError{URL: url, Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &crawlx.FetchError{URL: url, Err: err}
	}

	if opts.Settle > 0 {
		timer := time.NewTimer(opts.Settle)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &crawlx.FetchError{URL: url, Err: ctx.Err()}
		case <-timer.C:
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &crawlx.FetchError{URL: url, Err: err}
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &crawlx.RenderedPage{HTML: html, URL: finalURL, UsedJS: true}, nil
}

// Close shuts down the underlying pool.
func (f *Fetcher) Close() error {
	return f.pool.Shutdown()
}
