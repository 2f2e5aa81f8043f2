// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv builds author queries against the arXiv API and reads the
// Atom feeds it returns: entry identifiers, abstract-page locations, and the
// author names used for matching.
package arxiv

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/arxiv-authors/pkg/types"
)

const (
	// DefaultAPIURL is the arXiv search endpoint.
	DefaultAPIURL = "https://export.arxiv.org/api/query"

	// DefaultAbsURL is the prefix of abstract pages.
	DefaultAbsURL = "https://arxiv.org/abs/"

	// DefaultMaxResults is the page size requested per author.
	DefaultMaxResults = 50

	// APIAccept is the Accept header sent to the API.
	APIAccept = "application/atom+xml,application/xml;q=0.9,*/*;q=0.8"

	// HTMLAccept is the Accept header sent for abstract pages.
	HTMLAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	pdfBase = "https://arxiv.org/pdf/"
)

// QueryURL returns the API URL listing papers by rec, newest first.
func QueryURL(base string, rec types.AuthorRecord, maxResults int) string {
	if base == "" {
		base = DefaultAPIURL
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	params := url.Values{}
	params.Set("search_query", `au:"`+rec.FirstName+" "+rec.LastName+`"`)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")
	return base + "?" + params.Encode()
}

// Feed is the subset of an arXiv Atom response the harvester reads.
type Feed struct {
	TotalResults int
	Entries      []Entry
}

// Entry is one paper in a feed.
type Entry struct {
	// ID is the arXiv identifier with version, e.g. "2301.07041v1" or "hep-th/9901001v2".
	ID        string
	Title     string
	Published string
	Authors   []string
}

type atomFeed struct {
	TotalResults string      `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	Entries      []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// ParseFeed decodes an Atom feed. Entries without an <id> are dropped.
func ParseFeed(data []byte) (Feed, error) {
	var raw atomFeed
	if err := xml.Unmarshal(data, &raw); err != nil {
		return Feed{}, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var feed Feed
	if n, err := strconv.Atoi(strings.TrimSpace(raw.TotalResults)); err == nil {
		feed.TotalResults = n
	}
	for _, e := range raw.Entries {
		id := AbsID(e.ID)
		if id == "" {
			continue
		}
		entry := Entry{
			ID:        id,
			Title:     normalizeSpace(e.Title),
			Published: strings.TrimSpace(e.Published),
		}
		for _, a := range e.Authors {
			if name := strings.TrimSpace(a.Name); name != "" {
				entry.Authors = append(entry.Authors, name)
			}
		}
		feed.Entries = append(feed.Entries, entry)
	}
	return feed, nil
}

// AbsID extracts the identifier from an entry <id> such as
// "http://arxiv.org/abs/2301.07041v1". Values without "/abs/" are returned
// trimmed.
func AbsID(idText string) string {
	id := strings.TrimSpace(idText)
	if i := strings.LastIndex(id, "/abs/"); i >= 0 {
		id = id[i+len("/abs/"):]
	}
	return strings.TrimSpace(id)
}

// AbsURL returns the abstract-page URL for id under base.
func AbsURL(base, id string) string {
	if base == "" {
		base = DefaultAbsURL
	}
	return base + id
}

// HTMLFileName returns the cache file name for an abstract page. Old-style
// identifiers contain a slash, which is replaced.
func HTMLFileName(id string) string {
	return strings.ReplaceAll(id, "/", "_") + ".html"
}

var versionSuffix = regexp.MustCompile(`v\d+$`)

// StripVersion removes a trailing version suffix ("v2").
func StripVersion(id string) string {
	return versionSuffix.ReplaceAllString(id, "")
}

// CanonicalPDFURL returns the versionless PDF URL for id.
func CanonicalPDFURL(id string) string {
	id = StripVersion(strings.TrimSpace(id))
	if id == "" {
		return ""
	}
	return pdfBase + id + ".pdf"
}

var leadingYear = regexp.MustCompile(`^(\d{4})`)

// Year returns the year prefix of an RFC 3339 timestamp.
func Year(published string) (int, bool) {
	m := leadingYear.FindStringSubmatch(strings.TrimSpace(published))
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return y, true
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
