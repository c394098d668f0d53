package crawlx

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// ScrapeRequest is an ad-hoc request to fetch and extract a single URL.
type ScrapeRequest struct {
	URL  string
	Mode ExtractMode

	// Rendered selects a rendered fetch. Lightweight is the default.
	Rendered bool

	// Settle is how long a rendered fetch waits after load.
	Settle time.Duration

	// Markdown asks for article content as Markdown.
	Markdown bool
}

// Scraper performs ad-hoc scrapes.
type Scraper interface {
	// Scrape fetches and extracts req.URL. A fetch failure is returned as
	// an error; extraction failures are reported on the result.
	Scrape(ctx context.Context, req ScrapeRequest) (*ExtractionResult, error)
}

// Ensure ScrapeService implements Scraper at compile time.
var _ Scraper = (*ScrapeService)(nil)

// ScrapeService fetches a URL, extracts it and writes successful results
// to the sink.
type ScrapeService struct {
	Fetcher   Fetcher
	Extractor Extractor

	// Markdown is used instead of Extractor when a request asks for
	// Markdown. It may be nil.
	Markdown Extractor

	// Sink is optional. Write failures are logged and do not fail the
	// scrape.
	Sink   Sink
	Logger *slog.Logger
}

// Scrape implements Scraper.
func (s *ScrapeService) Scrape(ctx context.Context, req ScrapeRequest) (*ExtractionResult, error) {
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, Errorf(EINVALID, "invalid URL %q: must be an absolute http or https URL", req.URL)
	}
	mode := req.Mode
	if mode == "" {
		mode = ExtractAuto
	}

	opts := FetchOptions{Mode: FetchLightweight}
	if req.Rendered {
		opts = FetchOptions{Mode: FetchRendered, Settle: req.Settle}
	}
	page, err := s.Fetcher.Fetch(ctx, req.URL, opts)
	if err != nil {
		return nil, err
	}

	extractor := s.Extractor
	if req.Markdown && s.Markdown != nil {
		extractor = s.Markdown
	}
	res := extractor.Extract(page.HTML, page.URL, mode)
	res.URL = req.URL

	if res.Success && s.Sink != nil {
		s.ingest(ctx, u.Hostname(), res)
	}
	return res, nil
}

func (s *ScrapeService) ingest(ctx context.Context, host string, res *ExtractionResult) {
	rec := &CrawlRecord{
		Source:      host,
		Title:       res.Title,
		URL:         res.URL,
		Summary:     res.Description,
		Tags:        res.Tags,
		PublishedAt: parseDate(res.PublishedDate),
	}
	if rec.Title == "" {
		rec.Title = UntitledTitle
	}
	if err := s.Sink.Upsert(ctx, rec); err != nil && s.Logger != nil {
		s.Logger.Error("storing scraped record", "url", res.URL, "err", err)
	}
}

// parseDate reads the date formats extractors commonly emit. It returns
// nil when s matches none of them.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
