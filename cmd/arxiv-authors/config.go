// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-authors/internal/arxiv"
	"github.com/pdiddy/arxiv-authors/internal/catalog"
	"github.com/pdiddy/arxiv-authors/internal/httputil"
	"github.com/pdiddy/arxiv-authors/internal/secrets"
	"github.com/pdiddy/arxiv-authors/pkg/types"
)

const defaultUserAgent = "arxiv-authors/0.1"

func setDefaults() {
	viper.SetDefault("root", ".")
	viper.SetDefault("authors_file", "authors.csv")
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("http.contact_email", "")
	viper.SetDefault("http.retry_delays", delayStrings(httputil.DefaultRetryDelays))
	viper.SetDefault("http.api_interval", "4s")
	viper.SetDefault("http.html_interval", "1.1s")
	viper.SetDefault("arxiv.api_url", arxiv.DefaultAPIURL)
	viper.SetDefault("arxiv.abs_url", arxiv.DefaultAbsURL)
	viper.SetDefault("arxiv.max_results", arxiv.DefaultMaxResults)
	viper.SetDefault("arxiv.match_authors", false)
	viper.SetDefault("catalog.enabled", true)
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
}

// bindFlags lets command-line flags override config keys.
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	f := rootCmd.Flags()
	bindFlag("root", pf.Lookup("root"))
	bindFlag("log.level", pf.Lookup("log-level"))
	bindFlag("log.format", pf.Lookup("log-format"))
	bindFlag("authors_file", f.Lookup("authors-file"))
	bindFlag("max_authors", f.Lookup("max-authors"))
	bindFlag("stop_on_fail", f.Lookup("stop-on-fail"))
	bindFlag("arxiv.match_authors", f.Lookup("match-authors"))
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

func logConfig() types.LogConfig {
	return types.LogConfig{
		Level:  viper.GetString("log.level"),
		Format: viper.GetString("log.format"),
	}
}

// harvestConfig assembles the run settings from viper. Secrets fill in the
// contact email when the config leaves it empty.
func harvestConfig(secretValues map[string]string) (types.HarvestConfig, error) {
	delays, err := parseDelays(viper.GetStringSlice("http.retry_delays"))
	if err != nil {
		return types.HarvestConfig{}, err
	}

	email := viper.GetString("http.contact_email")
	if email == "" {
		email = secretValues[secrets.ContactEmailKey]
	}

	root := viper.GetString("root")
	cfg := types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:      viper.GetDuration("http.timeout"),
			UserAgent:    secrets.UserAgent(viper.GetString("http.user_agent"), email),
			RetryDelays:  delays,
			APIInterval:  viper.GetDuration("http.api_interval"),
			HTMLInterval: viper.GetDuration("http.html_interval"),
		},
		ArxivConfig: types.ArxivConfig{
			APIURL:       viper.GetString("arxiv.api_url"),
			AbsURL:       viper.GetString("arxiv.abs_url"),
			MaxResults:   viper.GetInt("arxiv.max_results"),
			MatchAuthors: viper.GetBool("arxiv.match_authors"),
		},
		Root:        root,
		AuthorsFile: underRoot(root, viper.GetString("authors_file")),
		MaxAuthors:  viper.GetInt("max_authors"),
		StopOnFail:  viper.GetBool("stop_on_fail"),
	}
	if cfg.Timeout <= 0 {
		return cfg, &types.ConfigurationError{Reason: fmt.Sprintf("http.timeout must be positive, got %s", cfg.Timeout)}
	}
	return cfg, nil
}

func catalogConfig(root string) types.CatalogConfig {
	path := underRoot(root, viper.GetString("catalog.path"))
	if path == "" {
		path = catalog.DefaultPath(root)
	}
	return types.CatalogConfig{
		Enabled: viper.GetBool("catalog.enabled"),
		Path:    path,
	}
}

// parseDelays converts duration strings such as "5s". Blank entries are
// ignored, so an empty list disables retries.
func parseDelays(values []string) ([]time.Duration, error) {
	var delays []time.Duration
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return nil, &types.ConfigurationError{Reason: fmt.Sprintf("invalid http.retry_delays entry %q", v), Err: err}
		}
		delays = append(delays, d)
	}
	return delays, nil
}

func delayStrings(delays []time.Duration) []string {
	out := make([]string, len(delays))
	for i, d := range delays {
		out[i] = d.String()
	}
	return out
}

func underRoot(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
