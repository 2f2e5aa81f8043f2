// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog indexes the papers found in cached API listings into a
// SQLite database, exports them as CSV, and keeps a ledger of harvest runs.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-authors/internal/cache"
	"github.com/pdiddy/arxiv-authors/internal/harvest"
)

// DefaultFile is the database file name under the AUTHORS directory.
const DefaultFile = "catalog.db"

// DefaultPath returns the catalog location for a project root.
func DefaultPath(root string) string {
	return filepath.Join(root, cache.AuthorsDir, DefaultFile)
}

// Catalog wraps the SQLite database.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	c := &Catalog{db: db}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			url TEXT PRIMARY KEY,
			arxiv_id TEXT NOT NULL,
			title TEXT NOT NULL,
			year INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS authorships (
			author_dir TEXT NOT NULL,
			url TEXT NOT NULL REFERENCES papers(url) ON DELETE CASCADE,
			first_author INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (author_dir, url)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authorships_url ON authorships(url)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			authors INTEGER NOT NULL,
			api_fetched INTEGER NOT NULL,
			api_cached INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			abstracts_fetched INTEGER NOT NULL,
			abstracts_failed INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one row of the run ledger.
type Run struct {
	ID               string
	Mode             string
	Started          time.Time
	Finished         time.Time
	Authors          int
	APIFetched       int
	APICached        int
	Failed           int
	AbstractsFetched int
	AbstractsFailed  int
}

// RecordRun stores a finished harvest run.
func (c *Catalog) RecordRun(ctx context.Context, r harvest.BatchResult) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs
			(id, mode, started, finished, authors, api_fetched, api_cached, failed, abstracts_fetched, abstracts_failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Mode,
		r.Started.UTC().Format(time.RFC3339Nano), r.Finished.UTC().Format(time.RFC3339Nano),
		r.Total(), r.APIFetched, r.APICached, r.Failed, r.Abstracts, r.AbsFailed,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.RunID, err)
	}
	return nil
}

// Runs returns the ledger, newest first. A positive limit caps the rows.
func (c *Catalog) Runs(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, mode, started, finished, authors, api_fetched, api_cached, failed,
		abstracts_fetched, abstracts_failed FROM runs ORDER BY started DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Mode, &started, &finished, &r.Authors, &r.APIFetched,
			&r.APICached, &r.Failed, &r.AbstractsFetched, &r.AbstractsFailed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Started, _ = time.Parse(time.RFC3339Nano, started)
		r.Finished, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
