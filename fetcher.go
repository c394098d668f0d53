package crawlx

import (
	"context"
	"time"
)

// FetchMode selects how a page is retrieved.
type FetchMode string

// FetchMode constants.
const (
	// FetchLightweight issues a direct HTTP request. No scripts run.
	FetchLightweight FetchMode = "lightweight"

	// FetchRendered loads the page in a headless browser and returns the
	// DOM after scripts have run.
	FetchRendered FetchMode = "rendered"
)

// FetchOptions configures a single fetch.
type FetchOptions struct {
	Mode FetchMode

	// Settle is how long a rendered fetch waits after load before the HTML
	// is captured. Ignored by lightweight fetches.
	Settle time.Duration
}

// RenderedPage is the outcome of fetching a URL.
type RenderedPage struct {
	HTML   string
	URL    string
	UsedJS bool
}

// Fetcher retrieves HTML for a URL.
type Fetcher interface {
	// Fetch returns the page at url. Failures are reported as *FetchError;
	// no partial HTML is ever returned alongside an error.
	Fetch(ctx context.Context, url string, opts FetchOptions) (*RenderedPage, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// Ensure ModeFetcher implements Fetcher at compile time.
var _ Fetcher = (*ModeFetcher)(nil)

// ModeFetcher routes each fetch to the lightweight or rendered fetcher based
// on the requested mode. An empty mode is treated as lightweight.
type ModeFetcher struct {
	Lightweight Fetcher
	Rendered    Fetcher
}

// Fetch dispatches to the fetcher for opts.Mode.
func (f *ModeFetcher) Fetch(ctx context.Context, url string, opts FetchOptions) (*RenderedPage, error) {
	switch opts.Mode {
	case FetchLightweight, "":
		if f.Lightweight == nil {
			return nil, Errorf(EINVALID, "lightweight fetching is not configured")
		}
		opts.Mode = FetchLightweight
		return f.Lightweight.Fetch(ctx, url, opts)
	case FetchRendered:
		if f.Rendered == nil {
			return nil, Errorf(EINVALID, "rendered fetching is not configured")
		}
		return f.Rendered.Fetch(ctx, url, opts)
	default:
		return nil, Errorf(EINVALID, "unknown fetch mode %q", opts.Mode)
	}
}

// Close closes both underlying fetchers and returns the first error.
func (f *ModeFetcher) Close() error {
	var firstErr error
	for _, next := range []Fetcher{f.Lightweight, f.Rendered} {
		if next == nil {
			continue
		}
		if err := next.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DomainLimiter spaces out requests to the same domain.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
