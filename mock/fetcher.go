package mock

import (
	"context"

	"github.com/fwojciec/crawlx"
)

var _ crawlx.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of crawlx.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
	return f.FetchFn(ctx, url, opts)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ crawlx.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of crawlx.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
