// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the arxiv-authors harvester:
// author records, fetch modes, configuration, the error taxonomy, and the
// paper rows produced by the catalog export.
package types

import (
	"fmt"
	"strings"
)

// AuthorRecord identifies one tracked author. Records are created from the
// name-list file or from command-line input and are never mutated afterwards.
type AuthorRecord struct {
	LastName  string `json:"last_name" yaml:"last_name"`
	FirstName string `json:"first_name" yaml:"first_name"`
}

// NewAuthorRecord trims surrounding whitespace and stray trailing commas
// from both name parts.
func NewAuthorRecord(last, first string) AuthorRecord {
	return AuthorRecord{
		LastName:  cleanName(last),
		FirstName: cleanName(first),
	}
}

func cleanName(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), ","))
}

// Key returns the identity key used for membership checks: both parts
// lowercased with internal whitespace collapsed.
func (r AuthorRecord) Key() string {
	return normalizeKeyPart(r.LastName) + "\x00" + normalizeKeyPart(r.FirstName)
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Valid reports whether both name parts are non-empty.
func (r AuthorRecord) Valid() bool {
	return r.LastName != "" && r.FirstName != ""
}

// String renders the record as "Last, First" for logs and summaries.
func (r AuthorRecord) String() string {
	return fmt.Sprintf("%s, %s", r.LastName, r.FirstName)
}

// Mode selects the freshness policy for the API fetch.
type Mode int

const (
	// CachedFirst skips the network when a non-empty cache file exists.
	CachedFirst Mode = iota
	// ForceRefresh always fetches and overwrites the cache file.
	ForceRefresh
)

func (m Mode) String() string {
	switch m {
	case ForceRefresh:
		return "force-refresh"
	default:
		return "cached-first"
	}
}
