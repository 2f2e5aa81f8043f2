// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores fetched response bodies per author. Paths are derived
// from the author record as AUTHORS/<last>-<first>/{API,HTML}; the Store
// interface isolates the freshness policy from the storage mechanism.
package cache

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/arxiv-authors/pkg/types"
)

// AuthorsDir is the directory under the project root holding per-author caches.
const AuthorsDir = "AUTHORS"

// Kind selects one of the two cache subdirectories.
type Kind string

const (
	KindAPI  Kind = "API"
	KindHTML Kind = "HTML"
)

// Paths holds the directories for one author.
type Paths struct {
	Author string
	API    string
	HTML   string
}

// Dir returns the subdirectory for kind.
func (p Paths) Dir(kind Kind) string {
	if kind == KindHTML {
		return p.HTML
	}
	return p.API
}

var unsafeChars = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// DirName returns the per-author directory name "<last>-<first>". Path
// separators are replaced; casing is preserved.
func DirName(rec types.AuthorRecord) string {
	name := unsafeChars.Replace(rec.LastName) + "-" + unsafeChars.Replace(rec.FirstName)
	if name == ".." || name == "." {
		name = "_" + name
	}
	return name
}

// Resolve computes the cache directories for rec under root.
func Resolve(root string, rec types.AuthorRecord) Paths {
	authorDir := filepath.Join(root, AuthorsDir, DirName(rec))
	return Paths{
		Author: authorDir,
		API:    filepath.Join(authorDir, string(KindAPI)),
		HTML:   filepath.Join(authorDir, string(KindHTML)),
	}
}

// EnsureDirs creates the API and HTML directories. Existing directories are
// not an error.
func EnsureDirs(p Paths) error {
	for _, dir := range []string{p.API, p.HTML} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &types.FilesystemError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return nil
}
