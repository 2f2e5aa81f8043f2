// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/arxiv-authors/internal/arxiv"
	"github.com/pdiddy/arxiv-authors/pkg/types"
)

// IndexStats reports what Index read.
type IndexStats struct {
	Files       int
	Entries     int
	Papers      int
	ParseErrors []string
}

// Index rebuilds the paper tables from every AUTHORS/<dir>/API/page-*.xml
// file under authorsDir. Unreadable files are skipped and listed in the
// stats. Duplicate papers keep the earliest year seen.
func (c *Catalog) Index(ctx context.Context, authorsDir string) (IndexStats, error) {
	var stats IndexStats

	files, err := filepath.Glob(filepath.Join(authorsDir, "*", "API", "page-*.xml"))
	if err != nil {
		return stats, fmt.Errorf("listing API files: %w", err)
	}
	sort.Strings(files)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM authorships`, `DELETE FROM papers`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return stats, fmt.Errorf("clearing index: %w", err)
		}
	}

	for _, path := range files {
		dirName := filepath.Base(filepath.Dir(filepath.Dir(path)))
		tracked, hasTracked := parseDirName(dirName)

		data, err := os.ReadFile(path)
		if err != nil {
			stats.ParseErrors = append(stats.ParseErrors, path)
			continue
		}
		feed, err := arxiv.ParseFeed(data)
		if err != nil {
			stats.ParseErrors = append(stats.ParseErrors, path)
			continue
		}
		stats.Files++

		for _, e := range feed.Entries {
			year, ok := arxiv.Year(e.Published)
			pdf := arxiv.CanonicalPDFURL(e.ID)
			if !ok || e.Title == "" || pdf == "" {
				continue
			}
			stats.Entries++

			first := hasTracked && len(e.Authors) > 0 && arxiv.NameMatches(tracked, e.Authors[0])
			if err := upsertPaper(ctx, tx, pdf, arxiv.StripVersion(e.ID), e.Title, year); err != nil {
				return stats, err
			}
			if err := upsertAuthorship(ctx, tx, dirName, pdf, first); err != nil {
				return stats, err
			}
		}
	}

	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&stats.Papers); err != nil {
		return stats, fmt.Errorf("counting papers: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing index: %w", err)
	}
	return stats, nil
}

// parseDirName splits "<last>-<first>" at the first hyphen.
func parseDirName(name string) (types.AuthorRecord, bool) {
	last, first, ok := strings.Cut(name, "-")
	rec := types.NewAuthorRecord(last, first)
	return rec, ok && rec.Valid()
}

func upsertPaper(ctx context.Context, tx *sql.Tx, url, id, title string, year int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO papers (url, arxiv_id, title, year) VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			arxiv_id = excluded.arxiv_id,
			title = excluded.title,
			year = excluded.year
		WHERE excluded.year < papers.year`,
		url, id, title, year)
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", url, err)
	}
	return nil
}

func upsertAuthorship(ctx context.Context, tx *sql.Tx, dir, url string, first bool) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO authorships (author_dir, url, first_author) VALUES (?, ?, ?)
		ON CONFLICT(author_dir, url) DO UPDATE SET
			first_author = max(first_author, excluded.first_author)`,
		dir, url, first)
	if err != nil {
		return fmt.Errorf("upserting authorship %s/%s: %w", dir, url, err)
	}
	return nil
}

// Query filters the papers export.
type Query struct {
	// FirstAuthor keeps only papers whose first listed author is the
	// tracked author of a directory that lists them.
	FirstAuthor bool
	// AuthorDir restricts to one "<last>-<first>" directory when set.
	AuthorDir string
}

// Papers returns indexed papers sorted by year descending, then title
// (case-insensitive), then URL.
func (c *Catalog) Papers(ctx context.Context, q Query) ([]types.Paper, error) {
	var where []string
	var args []any
	if q.FirstAuthor || q.AuthorDir != "" {
		sub := `SELECT url FROM authorships WHERE 1=1`
		if q.FirstAuthor {
			sub += ` AND first_author = 1`
		}
		if q.AuthorDir != "" {
			sub += ` AND author_dir = ?`
			args = append(args, q.AuthorDir)
		}
		where = append(where, `url IN (`+sub+`)`)
	}

	stmt := `SELECT year, title, url FROM papers`
	if len(where) > 0 {
		stmt += ` WHERE ` + strings.Join(where, " AND ")
	}
	stmt += ` ORDER BY year DESC, lower(title), url`

	rows, err := c.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		if err := rows.Scan(&p.Year, &p.Title, &p.URL); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
