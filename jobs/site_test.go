package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/jobs"
	"github.com/fwojciec/crawlx/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hackerNewsPage = `<html><body><table>
<tr class="athing" id="1"><td class="title"><span class="titleline"><a href="https://go.dev/blog/go1.25">Go 1.25 is released</a> <span class="sitebit comhead">(<a href="from?site=go.dev"><span class="sitestr">go.dev</span></a>)</span></span></td></tr>
<tr><td class="subtext"><span class="score">300 points</span></td></tr>
<tr class="athing" id="2"><td class="title"><span class="titleline"><a href="item?id=2">Ask HN: What are you working on?</a></span></td></tr>
</table></body></html>`

const remoteOKPage = `<html><body><table id="jobsboard">
<tr class="job" data-id="1"><td class="company"><a class="preventLink" href="/remote-jobs/1-go-engineer"><h2 itemprop="title">Senior Go Engineer</h2></a><h3 itemprop="name">Acme</h3></td></tr>
<tr class="expand"><td>description</td></tr>
<tr class="job" data-id="2"><td class="company"><a class="preventLink" href="/remote-jobs/2-sre"><h2>SRE</h2></a></td></tr>
</table></body></html>`

type recordingSink struct {
	mu      sync.Mutex
	records []*crawlx.CrawlRecord
}

func (s *recordingSink) sink() *mock.Sink {
	return &mock.Sink{
		UpsertFn: func(ctx context.Context, rec *crawlx.CrawlRecord) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.records = append(s.records, rec)
			return nil
		},
	}
}

func servePage(html, finalURL string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
			return &crawlx.RenderedPage{HTML: html, URL: finalURL}, nil
		},
	}
}

func TestSiteJob_Run(t *testing.T) {
	t.Parallel()

	t.Run("news ingests front page stories", func(t *testing.T) {
		t.Parallel()

		var sink recordingSink
		var requested string
		var mode crawlx.FetchMode
		fetcher := servePage(hackerNewsPage, "https://news.ycombinator.com/")
		fetchFn := fetcher.FetchFn
		fetcher.FetchFn = func(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
			requested, mode = url, opts.Mode
			return fetchFn(ctx, url, opts)
		}

		job := jobs.NewSiteJob(jobs.News(), fetcher, sink.sink())
		err := job.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "news", job.Name())
		assert.Equal(t, "https://news.ycombinator.com/", requested)
		assert.Equal(t, crawlx.FetchLightweight, mode)
		require.Len(t, sink.records, 2)
		assert.Equal(t, &crawlx.CrawlRecord{
			Source: "Hacker News",
			Title:  "Go 1.25 is released",
			URL:    "https://go.dev/blog/go1.25",
			Tags:   []string{"news", "tech"},
		}, sink.records[0])
		assert.Equal(t, "https://news.ycombinator.com/item?id=2", sink.records[1].URL)
	})

	t.Run("jobs combines title and company", func(t *testing.T) {
		t.Parallel()

		var sink recordingSink
		job := jobs.NewSiteJob(jobs.RemoteOK(), servePage(remoteOKPage, "https://remoteok.com/remote-dev-jobs"), sink.sink())

		err := job.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "jobs", job.Name())
		require.Len(t, sink.records, 2)
		assert.Equal(t, "Senior Go Engineer - Acme", sink.records[0].Title)
		assert.Equal(t, "https://remoteok.com/remote-jobs/1-go-engineer", sink.records[0].URL)
		assert.Equal(t, "RemoteOK", sink.records[0].Source)
		assert.Equal(t, []string{"jobs", "remote"}, sink.records[0].Tags)
		assert.Equal(t, "SRE", sink.records[1].Title)
	})

	t.Run("retries transient fetch failures", func(t *testing.T) {
		t.Parallel()

		var sink recordingSink
		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
				calls++
				if calls == 1 {
					return nil, &crawlx.FetchError{URL: url, StatusCode: 503, Err: errors.New("Service Unavailable")}
				}
				return &crawlx.RenderedPage{HTML: hackerNewsPage, URL: url}, nil
			},
		}
		job := jobs.NewSiteJob(jobs.News(), fetcher, sink.sink())
		job.RetryDelays = []time.Duration{0}

		err := job.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Len(t, sink.records, 2)
	})

	t.Run("returns fetch error after retries", func(t *testing.T) {
		t.Parallel()

		fetchErr := &crawlx.FetchError{URL: "https://news.ycombinator.com/", StatusCode: 403, Err: errors.New("Forbidden")}
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
				return nil, fetchErr
			},
		}
		job := jobs.NewSiteJob(jobs.News(), fetcher, &mock.Sink{})

		err := job.Run(context.Background())

		require.ErrorIs(t, err, fetchErr)
	})

	t.Run("waits on the limiter with the site host", func(t *testing.T) {
		t.Parallel()

		var sink recordingSink
		var domain string
		job := jobs.NewSiteJob(jobs.News(), servePage(hackerNewsPage, "https://news.ycombinator.com/"), sink.sink())
		job.Limiter = &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, d string) error {
				domain = d
				return nil
			},
		}

		require.NoError(t, job.Run(context.Background()))
		assert.Equal(t, "news.ycombinator.com", domain)
	})

	t.Run("continues past failed writes and reports them", func(t *testing.T) {
		t.Parallel()

		var written []string
		sink := &mock.Sink{
			UpsertFn: func(ctx context.Context, rec *crawlx.CrawlRecord) error {
				if rec.Title == "Go 1.25 is released" {
					return errors.New("disk full")
				}
				written = append(written, rec.URL)
				return nil
			},
		}
		job := jobs.NewSiteJob(jobs.News(), servePage(hackerNewsPage, "https://news.ycombinator.com/"), sink)

		err := job.Run(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 records failed")
		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, []string{"https://news.ycombinator.com/item?id=2"}, written)
	})

	t.Run("empty listing is not an error", func(t *testing.T) {
		t.Parallel()

		job := jobs.NewSiteJob(jobs.News(), servePage("<html><body>maintenance</body></html>", "https://news.ycombinator.com/"), &mock.Sink{})

		assert.NoError(t, job.Run(context.Background()))
	})
}
