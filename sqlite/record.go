package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/crawlx"
)

// Compile-time interface verification.
var _ crawlx.RecordService = (*RecordService)(nil)

// RecordService implements crawlx.RecordService using SQLite.
type RecordService struct {
	db  *DB
	now func() time.Time
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db, now: time.Now}
}

// Upsert inserts the record unless its URL is already stored. On insert
// the record's ID is set.
func (s *RecordService) Upsert(ctx context.Context, rec *crawlx.CrawlRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	rec.ApplyDefaults(s.now())

	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	var publishedAt any
	if rec.PublishedAt != nil {
		publishedAt = formatTime(*rec.PublishedAt)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO crawl_records (source, title, url, summary, tags, published_at, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`, rec.Source, rec.Title, rec.URL, rec.Summary, string(tags), publishedAt, formatTime(rec.ScrapedAt))
	if err != nil {
		return err
	}

	if n, err := result.RowsAffected(); err == nil && n == 1 {
		if id, err := result.LastInsertId(); err == nil {
			rec.ID = id
		}
	}
	return nil
}

// FindRecords retrieves records matching the filter, newest first.
func (s *RecordService) FindRecords(ctx context.Context, filter crawlx.RecordFilter) ([]*crawlx.CrawlRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, title, url, summary, tags, published_at, scraped_at FROM crawl_records WHERE 1=1")

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	query.WriteString(" ORDER BY scraped_at DESC, id DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*crawlx.CrawlRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (*crawlx.CrawlRecord, error) {
	var rec crawlx.CrawlRecord
	var tags, scrapedAt string
	var publishedAt sql.NullString

	if err := rows.Scan(&rec.ID, &rec.Source, &rec.Title, &rec.URL, &rec.Summary,
		&tags, &publishedAt, &scrapedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	var err error
	rec.ScrapedAt, err = parseTime(scrapedAt, "scraped_at")
	if err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		t, err := parseTime(publishedAt.String, "published_at")
		if err != nil {
			return nil, err
		}
		rec.PublishedAt = &t
	}

	return &rec, nil
}
