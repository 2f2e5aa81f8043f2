// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package authors reads and updates the name-list file (authors.csv): one
// "last-name,first-name" record per line with an optional header row.
package authors

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/arxiv-authors/pkg/types"
)

// Header is the column row written when the file is created.
var Header = []string{"last-name", "first-name"}

// Read parses the name-list file at path and returns its records in file
// order. A missing file, a row with fewer than two fields, or a row with an
// empty name part yields a *types.ConfigurationError.
func Read(path string) ([]types.AuthorRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		reason := "cannot open name list"
		if errors.Is(err, os.ErrNotExist) {
			reason = "name list not found"
		}
		return nil, &types.ConfigurationError{Path: path, Reason: reason, Err: err}
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		var cfgErr *types.ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
			return nil, cfgErr
		}
		return nil, &types.ConfigurationError{Path: path, Err: err}
	}
	return records, nil
}

// Parse reads name-list records from r. The first row is skipped when it
// looks like a header.
func Parse(r io.Reader) ([]types.AuthorRecord, error) {
	return parse(r, true)
}

// ParseLenient is Parse without row validation: rows with fewer than two
// fields or an empty name part are skipped instead of failing the read.
func ParseLenient(r io.Reader) ([]types.AuthorRecord, error) {
	return parse(r, false)
}

func parse(r io.Reader, strict bool) ([]types.AuthorRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = !strict

	var records []types.AuthorRecord
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !strict && errors.As(err, &perr) {
				continue
			}
			return nil, &types.ConfigurationError{Reason: "unreadable record", Err: err}
		}
		line, _ := cr.FieldPos(0)

		if first {
			first = false
			if isHeader(row) {
				continue
			}
		}

		if len(row) < 2 {
			if !strict {
				continue
			}
			return nil, &types.ConfigurationError{
				Line:   line,
				Reason: fmt.Sprintf("expected 2 fields, got %d", len(row)),
			}
		}
		rec := types.NewAuthorRecord(row[0], row[1])
		if !rec.Valid() {
			if !strict {
				continue
			}
			return nil, &types.ConfigurationError{Line: line, Reason: "empty name field"}
		}
		records = append(records, rec)
	}
	return records, nil
}

// isHeader reports whether row is the column header rather than a name.
func isHeader(row []string) bool {
	return len(row) > 0 && strings.Contains(strings.ToLower(row[0]), "last")
}

// Write replaces the file at path with a header row followed by records.
func Write(path string, records []types.AuthorRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &types.FilesystemError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &types.FilesystemError{Op: "create", Path: path, Err: err}
	}

	w := csv.NewWriter(f)
	_ = w.Write(Header)
	for _, rec := range records {
		_ = w.Write([]string{rec.LastName, rec.FirstName})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &types.FilesystemError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &types.FilesystemError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// Contains reports whether records holds rec by identity key.
func Contains(records []types.AuthorRecord, rec types.AuthorRecord) bool {
	key := rec.Key()
	for _, r := range records {
		if r.Key() == key {
			return true
		}
	}
	return false
}

// EnsureListed appends rec to the name-list file unless a record with the
// same identity key is already present. A missing file is created with a
// header row first. Malformed rows elsewhere in the file are ignored. The
// added return value reports whether a line was written.
func EnsureListed(path string, rec types.AuthorRecord) (added bool, err error) {
	if !rec.Valid() {
		return false, &types.ConfigurationError{Path: path, Reason: "empty name field"}
	}

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := Write(path, nil); err != nil {
			return false, err
		}
	}

	existing, err := readLenient(path)
	if err != nil {
		return false, err
	}
	if Contains(existing, rec) {
		return false, nil
	}

	if err := appendRecord(path, rec); err != nil {
		return false, err
	}
	return true, nil
}

func readLenient(path string) ([]types.AuthorRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.FilesystemError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	records, err := ParseLenient(f)
	if err != nil {
		return nil, &types.FilesystemError{Op: "read", Path: path, Err: err}
	}
	return records, nil
}

func appendRecord(path string, rec types.AuthorRecord) error {
	needsNewline, err := lacksTrailingNewline(path)
	if err != nil {
		return &types.FilesystemError{Op: "read", Path: path, Err: err}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return &types.FilesystemError{Op: "open", Path: path, Err: err}
	}
	if needsNewline {
		if _, err := f.WriteString("\n"); err != nil {
			f.Close()
			return &types.FilesystemError{Op: "write", Path: path, Err: err}
		}
	}

	w := csv.NewWriter(f)
	_ = w.Write([]string{rec.LastName, rec.FirstName})
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &types.FilesystemError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &types.FilesystemError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// lacksTrailingNewline reports whether a non-empty file does not end in '\n'.
func lacksTrailingNewline(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	buf := make([]byte, 1)
	if _, err := f.ReadAt(buf, info.Size()-1); err != nil {
		return false, err
	}
	return buf[0] != '\n', nil
}
