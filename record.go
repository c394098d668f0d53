package crawlx

import (
	"context"
	"time"
)

// CrawlRecord is the persisted entity produced by named jobs and ad-hoc
// scrapes. URL is the natural key; a record is written once and never
// updated.
type CrawlRecord struct {
	ID          int64      `json:"id,omitempty"`
	Source      string     `json:"source"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Summary     string     `json:"summary,omitempty"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ScrapedAt   time.Time  `json:"scraped_at"`
}

// Validate returns an error if the record contains invalid fields.
func (r *CrawlRecord) Validate() error {
	if r.Source == "" {
		return Errorf(EINVALID, "record source required")
	}
	if r.Title == "" {
		return Errorf(EINVALID, "record title required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	return nil
}

// ApplyDefaults fills fields assigned at ingestion: the scrape timestamp
// and, when no summary was extracted, a "source: title" summary.
func (r *CrawlRecord) ApplyDefaults(now time.Time) {
	if r.ScrapedAt.IsZero() {
		r.ScrapedAt = now.UTC()
	}
	if r.Summary == "" {
		r.Summary = r.Source + ": " + r.Title
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// Sink receives normalized records.
type Sink interface {
	// Upsert writes the record unless one with the same URL exists, in
	// which case the call is a silent no-op. Safe to call with duplicates.
	Upsert(ctx context.Context, rec *CrawlRecord) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	Source *string
	URL    *string

	Limit  int
	Offset int
}

// RecordService is a Sink that can also read back what it stored.
type RecordService interface {
	Sink

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*CrawlRecord, error)
}
