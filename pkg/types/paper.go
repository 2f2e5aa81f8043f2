// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Paper is one row of the papers export: a paper discovered in cached API
// responses, keyed by its canonical PDF URL.
type Paper struct {
	// Year is the publication year of the earliest version seen.
	Year int `json:"year" yaml:"year"`

	// Title is the whitespace-normalized paper title.
	Title string `json:"title" yaml:"title"`

	// URL is the canonical PDF URL (version suffix removed).
	URL string `json:"url" yaml:"url"`
}
