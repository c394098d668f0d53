// Package sqlite implements the ingestion sink on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// schema is applied on every Open.
const schema = `
CREATE TABLE IF NOT EXISTS crawl_records (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	source       TEXT NOT NULL,
	title        TEXT NOT NULL,
	url          TEXT NOT NULL UNIQUE,
	summary      TEXT NOT NULL DEFAULT '',
	tags         TEXT NOT NULL DEFAULT '[]',
	published_at TEXT,
	scraped_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_crawl_records_source ON crawl_records(source);
CREATE INDEX IF NOT EXISTS idx_crawl_records_scraped_at ON crawl_records(scraped_at);
`

// DB is a SQLite database holding crawl records.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for the file at path, or an in-memory database for
// ":memory:". Nothing is opened until Open.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// pragmas returns the connection settings for the database.
func (db *DB) pragmas() []string {
	p := []string{"PRAGMA busy_timeout = 5000"}
	if db.path != memoryPath {
		p = append(p, "PRAGMA journal_mode = WAL")
	}
	return p
}

// Open connects, applies pragmas and creates the schema.
func (db *DB) Open(ctx context.Context) (err error) {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", db.path, err)
	}
	defer func() {
		if err != nil {
			conn.Close()
		}
	}()

	// One writer at a time; this also keeps :memory: on a single database.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("connect %s: %w", db.path, err)
	}
	for _, pragma := range db.pragmas() {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	db.db = conn
	return nil
}

// Close closes the connection. It is safe to call on a DB never opened.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

// QueryRowContext runs a query expected to return at most one row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext runs a query returning rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext runs a statement returning no rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}
