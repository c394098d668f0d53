package crawlx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageFetcher(html string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
			return &crawlx.RenderedPage{HTML: html, URL: url, UsedJS: opts.Mode == crawlx.FetchRendered}, nil
		},
	}
}

func fixedExtractor(res crawlx.ExtractionResult) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(html, url string, mode crawlx.ExtractMode) *crawlx.ExtractionResult {
			r := res
			return &r
		},
	}
}

func TestScrapeService_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("defaults to lightweight fetch and auto mode", func(t *testing.T) {
		t.Parallel()

		var gotOpts crawlx.FetchOptions
		var gotMode crawlx.ExtractMode
		svc := &crawlx.ScrapeService{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
					gotOpts = opts
					return &crawlx.RenderedPage{HTML: "<p>x</p>", URL: url}, nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(html, url string, mode crawlx.ExtractMode) *crawlx.ExtractionResult {
					gotMode = mode
					return &crawlx.ExtractionResult{Success: true, Content: "x", Method: "text"}
				},
			},
		}

		res, err := svc.Scrape(context.Background(), crawlx.ScrapeRequest{URL: "https://x.test/a", Settle: time.Second})

		require.NoError(t, err)
		assert.Equal(t, crawlx.FetchOptions{Mode: crawlx.FetchLightweight}, gotOpts)
		assert.Equal(t, crawlx.ExtractAuto, gotMode)
		assert.Equal(t, "https://x.test/a", res.URL)
	})

	t.Run("rendered requests pass the settle time", func(t *testing.T) {
		t.Parallel()

		var gotOpts crawlx.FetchOptions
		fetcher := pageFetcher("<p>x</p>")
		inner := fetcher.FetchFn
		fetcher.FetchFn = func(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
			gotOpts = opts
			return inner(ctx, url, opts)
		}
		svc := &crawlx.ScrapeService{Fetcher: fetcher, Extractor: fixedExtractor(crawlx.ExtractionResult{Success: true})}

		_, err := svc.Scrape(context.Background(), crawlx.ScrapeRequest{URL: "https://x.test", Rendered: true, Settle: 2 * time.Second})

		require.NoError(t, err)
		assert.Equal(t, crawlx.FetchOptions{Mode: crawlx.FetchRendered, Settle: 2 * time.Second}, gotOpts)
	})

	t.Run("rejects non-http URLs before fetching", func(t *testing.T) {
		t.Parallel()

		svc := &crawlx.ScrapeService{}
		for _, raw := range []string{"", "example.com", "ftp://x.test/f", "https://"} {
			_, err := svc.Scrape(context.Background(), crawlx.ScrapeRequest{URL: raw})
			assert.Equal(t, crawlx.EINVALID, crawlx.ErrorCode(err), raw)
		}
	})

	t.Run("returns fetch errors", func(t *testing.T) {
		t.Parallel()

		fetchErr := &crawlx.FetchError{URL: "https://x.test", StatusCode: 404, Err: errors.New("Not Found")}
		svc := &crawlx.ScrapeService{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string, opts crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
					return nil, fetchErr
				},
			},
		}

		res, err := svc.Scrape(context.Background(), crawlx.ScrapeRequest{URL: "https://x.test"})

		require.ErrorIs(t, err, fetchErr)
		assert.Nil(t, res)
	})

	t.Run("uses markdown extractor when requested", func(t *testing.T) {
		t.Parallel()

		svc := &crawlx.ScrapeService{
			Fetcher:   pageFetcher("<p>x</p>"),
			Extractor: fixedExtractor(crawlx.ExtractionResult{Success: true, Content: "plain"}),
			Markdown:  fixedExtractor(crawlx.ExtractionResult{Success: true, Content: "**md**"}),
		}

		plain, err := svc.Scrape(context.Background(), crawlx.ScrapeRequest{URL: "https://x.test"})
		require.NoError(t, err)
		md, err := svc.Scrape(context.Background(), crawlx.ScrapeRequest{URL: "https://x.test", Markdown: true})
		require.NoError(t, err)

		assert.Equal(t, "plain", plain.Content)
		assert.Equal(t, "**md**", md.Content)
	})

	t.Run("ingests successful results", func(t *testing.T) {
		t.Parallel()

		var stored *crawlx.CrawlRecord
		svc := &crawlx.ScrapeService{
			Fetcher: pageFetcher("<p>x</p>"),
			Extractor: fixedExtractor(crawlx.ExtractionResult{
				Success:       true,
				Title:         "A Post",
				Content:       "x",
				Description:   "About things.",
				PublishedDate: "2024-05-17",
				Tags:          []string{"go"},
			}),
			Sink: &mock.Sink{
				UpsertFn: func(ctx context.Context, rec *crawlx.CrawlRecord) error {
					stored = rec
					return nil
				},
			},
		}

		_, err := svc.Scrape(context.Background(), crawlx.ScrapeRequest{URL: "https://blog.example.com/post"})

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "blog.example.com", stored.Source)
		assert.Equal(t, "A Post", stored.Title)
		assert.Equal(t, "https://blog.example.com/post", stored.URL)
		assert.Equal(t, "About things.", stored.Summary)
		assert.Equal(t, []string{"go"}, stored.Tags)
		require.NotNil(t, stored.PublishedAt)
		assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), *stored.PublishedAt)
	})

	t.Run("does not ingest failed results", func(t *testing.T) {
		t.Parallel()

		svc := &crawlx.ScrapeService{
			Fetcher:   pageFetcher("<p>x</p>"),
			Extractor: fixedExtractor(crawlx.ExtractionResult{Error: "article extraction failed"}),
			Sink: &mock.Sink{
				UpsertFn: func(ctx context.Context, rec *crawlx.CrawlRecord) error {
					t.Error("failed result must not be stored")
					return nil
				},
			},
		}

		res, err := svc.Scrape(context.Background(), crawlx.ScrapeRequest{URL: "https://x.test", Mode: crawlx.ExtractArticle})

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "https://x.test", res.URL)
	})

	t.Run("sink failure does not fail the scrape", func(t *testing.T) {
		t.Parallel()

		svc := &crawlx.ScrapeService{
			Fetcher:   pageFetcher("<p>x</p>"),
			Extractor: fixedExtractor(crawlx.ExtractionResult{Success: true, Title: "T", Content: "x"}),
			Sink: &mock.Sink{
				UpsertFn: func(ctx context.Context, rec *crawlx.CrawlRecord) error {
					return errors.New("database is locked")
				},
			},
		}

		res, err := svc.Scrape(context.Background(), crawlx.ScrapeRequest{URL: "https://x.test"})

		require.NoError(t, err)
		assert.True(t, res.Success)
	})
}
