// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"regexp"
	"slices"
	"strings"

	"github.com/pdiddy/arxiv-authors/pkg/types"
)

var nonLetters = regexp.MustCompile(`[^a-zA-Z]+`)

// tokens lowercases s and splits it on anything that is not an ASCII letter.
func tokens(s string) []string {
	return strings.Fields(strings.ToLower(nonLetters.ReplaceAllString(s, " ")))
}

// NameMatches reports whether a feed author name refers to rec. The last
// name tokens must appear at the end ("Jane Smith") or the start
// ("Smith Jane") of the name, and the remaining given name must equal the
// first name, extend it, or be its initial.
func NameMatches(rec types.AuthorRecord, name string) bool {
	first := tokens(rec.FirstName)
	last := tokens(rec.LastName)
	got := tokens(name)
	if len(first) == 0 || len(last) == 0 || len(got) < len(last)+1 {
		return false
	}

	given := func(g string) bool {
		return g == first[0] || strings.HasPrefix(g, first[0]) || g == first[0][:1]
	}

	if slices.Equal(got[len(got)-len(last):], last) && given(got[0]) {
		return true
	}
	if slices.Equal(got[:len(last)], last) && given(got[len(last)]) {
		return true
	}
	return false
}

// AnyNameMatches reports whether any of names refers to rec.
func AnyNameMatches(rec types.AuthorRecord, names []string) bool {
	for _, n := range names {
		if NameMatches(rec, n) {
			return true
		}
	}
	return false
}

