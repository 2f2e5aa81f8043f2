// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used for every network request.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// RetryDelays lists the waits between attempts. An empty list disables
	// retries; each entry adds one retry.
	RetryDelays []time.Duration `json:"retry_delays" yaml:"retry_delays"`

	// APIInterval is the minimum spacing between live API requests.
	APIInterval time.Duration `json:"api_interval" yaml:"api_interval"`

	// HTMLInterval is the minimum spacing between live abstract-page requests.
	HTMLInterval time.Duration `json:"html_interval" yaml:"html_interval"`
}

// ArxivConfig holds the upstream endpoints and query settings.
type ArxivConfig struct {
	// APIURL is the arXiv search endpoint (default https://export.arxiv.org/api/query).
	APIURL string `json:"api_url" yaml:"api_url"`

	// AbsURL is the prefix for abstract pages (default https://arxiv.org/abs/).
	AbsURL string `json:"abs_url" yaml:"abs_url"`

	// MaxResults is the max_results query parameter (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MatchAuthors restricts abstract fetches to entries listing the author.
	MatchAuthors bool `json:"match_authors" yaml:"match_authors"`
}

// HarvestConfig holds settings for batch and single-author runs.
type HarvestConfig struct {
	HTTPConfig  `yaml:",inline"`
	ArxivConfig `yaml:",inline"`

	// Root is the project directory containing AUTHORS/.
	Root string `json:"root" yaml:"root"`

	// AuthorsFile is the name-list CSV path.
	AuthorsFile string `json:"authors_file" yaml:"authors_file"`

	// MaxAuthors limits a batch to the first N records when positive.
	MaxAuthors int `json:"max_authors" yaml:"max_authors"`

	// StopOnFail aborts a batch at the first failed author.
	StopOnFail bool `json:"stop_on_fail" yaml:"stop_on_fail"`
}

// CatalogConfig holds settings for the SQLite paper catalog.
type CatalogConfig struct {
	// Enabled records runs in the catalog database.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the database file (default AUTHORS/catalog.db under Root).
	Path string `json:"path" yaml:"path"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format"`
}
