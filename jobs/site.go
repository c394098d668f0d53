// Package jobs holds the named crawl units the orchestrator runs: listing
// page crawlers for fixed sites and external command jobs.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/crawl"
	"github.com/fwojciec/crawlx/goquery"
)

// Ensure SiteJob implements crawlx.Job at compile time.
var _ crawlx.Job = (*SiteJob)(nil)

// Site describes a listing page and how its items become records.
type Site struct {
	Name    string
	Source  string
	URL     string
	Listing goquery.Listing
	Tags    []string
}

// News is the Hacker News front page.
func News() Site {
	return Site{
		Name:   "news",
		Source: "Hacker News",
		URL:    "https://news.ycombinator.com/",
		Listing: goquery.Listing{
			Rows:  "tr.athing",
			Title: "span.titleline > a",
			Link:  "span.titleline > a",
		},
		Tags: []string{"news", "tech"},
	}
}

// RemoteOK is the RemoteOK developer jobs board.
func RemoteOK() Site {
	return Site{
		Name:   "jobs",
		Source: "RemoteOK",
		URL:    "https://remoteok.com/remote-dev-jobs",
		Listing: goquery.Listing{
			Rows:   "tr.job",
			Title:  "h2",
			Link:   "a.preventLink",
			Byline: "h3",
		},
		Tags: []string{"jobs", "remote"},
	}
}

// SiteJob fetches a site's listing page and writes one record per item.
type SiteJob struct {
	Site    Site
	Fetcher crawlx.Fetcher
	Sink    crawlx.Sink

	// Limiter, when set, spaces out requests to the site's domain.
	Limiter crawlx.DomainLimiter

	// FetchOptions defaults to a lightweight fetch.
	FetchOptions crawlx.FetchOptions

	// RetryDelays defaults to crawl.DefaultRetryDelays.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// NewSiteJob creates a SiteJob with lightweight fetching and the default
// retry policy.
func NewSiteJob(site Site, fetcher crawlx.Fetcher, sink crawlx.Sink) *SiteJob {
	return &SiteJob{
		Site:         site,
		Fetcher:      fetcher,
		Sink:         sink,
		FetchOptions: crawlx.FetchOptions{Mode: crawlx.FetchLightweight},
		RetryDelays:  crawl.DefaultRetryDelays(),
		Logger:       slog.New(slog.DiscardHandler),
	}
}

// Name implements crawlx.Job.
func (j *SiteJob) Name() string { return j.Site.Name }

// Run implements crawlx.Job. Every parsed item is written even when some
// writes fail; the failures are joined into the returned error.
func (j *SiteJob) Run(ctx context.Context) error {
	u, err := url.Parse(j.Site.URL)
	if err != nil {
		return crawlx.Errorf(crawlx.EINVALID, "invalid site URL: %v", err)
	}

	page, err := crawl.Retry(ctx, j.RetryDelays, j.Logger, func(ctx context.Context) (*crawlx.RenderedPage, error) {
		if j.Limiter != nil {
			if err := j.Limiter.Wait(ctx, u.Hostname()); err != nil {
				return nil, err
			}
		}
		return j.Fetcher.Fetch(ctx, j.Site.URL, j.FetchOptions)
	})
	if err != nil {
		return err
	}

	items, err := goquery.ParseListing(page.HTML, page.URL, j.Site.Listing)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", j.Site.URL, err)
	}
	if len(items) == 0 {
		j.Logger.Warn("listing has no items", "url", page.URL)
		return nil
	}

	var errs []error
	written := 0
	for _, item := range items {
		rec := &crawlx.CrawlRecord{
			Source: j.Site.Source,
			Title:  item.Title,
			URL:    item.URL,
			Tags:   append([]string(nil), j.Site.Tags...),
		}
		if err := j.Sink.Upsert(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item.URL, err))
			continue
		}
		written++
	}
	j.Logger.Info("listing ingested", "url", page.URL, "items", len(items), "written", written)

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d records failed: %w", len(errs), len(items), errors.Join(errs...))
	}
	return nil
}
