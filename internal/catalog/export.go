// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/arxiv-authors/pkg/types"
)

// WriteCSV writes papers as "year,title,url" rows with a header.
func WriteCSV(w io.Writer, papers []types.Paper) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "title", "url"}); err != nil {
		return err
	}
	for _, p := range papers {
		if err := cw.Write([]string{strconv.Itoa(p.Year), p.Title, p.URL}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes papers to path, creating parent directories.
func ExportCSV(path string, papers []types.Paper) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, papers); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
