// Package postgres implements the ingestion sink on PostgreSQL via pgx.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time interface verification.
var _ crawlx.RecordService = (*RecordService)(nil)

// pool is the subset of *pgxpool.Pool the service needs.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS scraped_items (
	id BIGSERIAL PRIMARY KEY,
	source TEXT NOT NULL,
	title TEXT NOT NULL,
	url TEXT NOT NULL UNIQUE,
	summary TEXT NOT NULL DEFAULT '',
	tags JSONB NOT NULL DEFAULT '[]',
	published_at TIMESTAMPTZ,
	scraped_at TIMESTAMPTZ NOT NULL
)`

// RecordService implements crawlx.RecordService on Postgres.
type RecordService struct {
	pool pool
	now  func() time.Time
}

// Open connects to dsn and creates the schema if needed.
func Open(ctx context.Context, dsn string) (*RecordService, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, crawlx.Errorf(crawlx.EINVALID, "parse postgres dsn: %v", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &RecordService{pool: p, now: time.Now}
	if err := s.Migrate(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return s, nil
}

// NewRecordServiceWithPool constructs a service from an existing pool.
func NewRecordServiceWithPool(p pool) *RecordService {
	return &RecordService{pool: p, now: time.Now}
}

// Migrate creates the scraped_items table if it does not exist.
func (s *RecordService) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *RecordService) Close() error {
	s.pool.Close()
	return nil
}

// Upsert inserts the record unless its URL is already stored.
func (s *RecordService) Upsert(ctx context.Context, rec *crawlx.CrawlRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	rec.ApplyDefaults(s.now())

	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
INSERT INTO scraped_items (source, title, url, summary, tags, published_at, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (url) DO NOTHING`,
		rec.Source, rec.Title, rec.URL, rec.Summary, tags, rec.PublishedAt, rec.ScrapedAt)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// FindRecords retrieves records matching the filter, newest first.
func (s *RecordService) FindRecords(ctx context.Context, filter crawlx.RecordFilter) ([]*crawlx.CrawlRecord, error) {
	var query strings.Builder
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	query.WriteString("SELECT id, source, title, url, summary, tags, published_at, scraped_at FROM scraped_items WHERE true")
	if filter.Source != nil {
		query.WriteString(" AND source = " + arg(*filter.Source))
	}
	if filter.URL != nil {
		query.WriteString(" AND url = " + arg(*filter.URL))
	}
	query.WriteString(" ORDER BY scraped_at DESC, id DESC")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := s.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []*crawlx.CrawlRecord
	for rows.Next() {
		var rec crawlx.CrawlRecord
		var tags []byte
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Title, &rec.URL, &rec.Summary,
			&tags, &rec.PublishedAt, &rec.ScrapedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal(tags, &rec.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}
