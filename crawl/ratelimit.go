// Package crawl holds the politeness helpers named jobs share: a
// per-domain rate limiter and a retry loop with backoff.
package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/crawlx"
	"golang.org/x/time/rate"
)

var _ crawlx.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps one token bucket per host. Hosts are compared
// case-insensitively with any leading "www." removed, so example.com and
// WWW.example.com share a budget.
type DomainLimiter struct {
	limit   rate.Limit
	buckets sync.Map // host -> *rate.Limiter
}

// NewDomainLimiter allows rps requests per second to each host with a
// burst of one. Zero or a negative rps means no limit.
func NewDomainLimiter(rps float64) *DomainLimiter {
	if rps <= 0 {
		return &DomainLimiter{limit: rate.Inf}
	}
	return &DomainLimiter{limit: rate.Limit(rps)}
}

// Wait blocks until a request to domain may proceed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.limit == rate.Inf {
		return ctx.Err()
	}
	return d.bucket(domain).Wait(ctx)
}

func (d *DomainLimiter) bucket(domain string) *rate.Limiter {
	key := strings.TrimPrefix(strings.ToLower(domain), "www.")
	if l, ok := d.buckets.Load(key); ok {
		return l.(*rate.Limiter)
	}
	l, _ := d.buckets.LoadOrStore(key, rate.NewLimiter(d.limit, 1))
	return l.(*rate.Limiter)
}
