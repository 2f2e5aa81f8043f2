// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest fetches arXiv author listings and the abstract pages they
// reference, caching every response body per author. Authors are processed
// one at a time: resolve cache paths, fetch the API listing, then fetch the
// abstract pages it names.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/arxiv-authors/internal/arxiv"
	"github.com/pdiddy/arxiv-authors/internal/cache"
	"github.com/pdiddy/arxiv-authors/internal/httputil"
	"github.com/pdiddy/arxiv-authors/internal/logging"
	"github.com/pdiddy/arxiv-authors/pkg/types"
)

// APIFileName is the cache file holding an author's API listing.
const APIFileName = "page-1.xml"

// Harvester runs the per-author fetch pipeline.
type Harvester struct {
	store  cache.Store
	getter *httputil.Getter
	cfg    types.HarvestConfig
	log    zerolog.Logger

	apiPacer  *rate.Limiter
	htmlPacer *rate.Limiter
}

// New returns a Harvester writing to store. A nil client uses one built from
// cfg.Timeout.
func New(store cache.Store, client *http.Client, cfg types.HarvestConfig, log zerolog.Logger) *Harvester {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Harvester{
		store: store,
		getter: &httputil.Getter{
			Client:      client,
			UserAgent:   cfg.UserAgent,
			RetryDelays: cfg.RetryDelays,
		},
		cfg:       cfg,
		log:       log,
		apiPacer:  httputil.NewPacer(cfg.APIInterval),
		htmlPacer: httputil.NewPacer(cfg.HTMLInterval),
	}
}

func apiKey(rec types.AuthorRecord) cache.Key {
	return cache.Key{Author: rec, Kind: cache.KindAPI, Name: APIFileName}
}

// FetchAPI returns the API listing for rec. In CachedFirst mode a non-empty
// cache entry is returned without a network call; otherwise the listing is
// fetched and written to the cache. The fetched return value reports whether
// a live request was made.
func (h *Harvester) FetchAPI(ctx context.Context, rec types.AuthorRecord, mode types.Mode) (body []byte, fetched bool, err error) {
	key := apiKey(rec)

	entry, err := h.store.Stat(key)
	if err != nil {
		return nil, false, err
	}
	if !cache.ShouldFetch(entry, mode) {
		body, err := h.store.Get(key)
		if err == nil {
			return body, false, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			return nil, false, err
		}
	}

	url := arxiv.QueryURL(h.cfg.APIURL, rec, h.cfg.MaxResults)
	body, err = h.getter.Get(ctx, httputil.Request{
		URL:    url,
		Accept: arxiv.APIAccept,
		Pacer:  h.apiPacer,
	})
	if err != nil {
		return nil, true, err
	}
	if err := h.store.Put(key, body); err != nil {
		return nil, true, err
	}
	return body, true, nil
}

// AbstractsResult summarizes one FetchAbstracts call.
type AbstractsResult struct {
	// Files lists the cache locations of every abstract page referenced by
	// the listing that is now cached, in feed order.
	Files   []string
	Found   int
	Fetched int
	Cached  int
	Skipped int
	Failed  int

	// Listed is the total match count the API reported, which can exceed
	// the entries returned in one page.
	Listed int
}

// FetchAbstracts parses an API listing and caches the abstract page of each
// entry not already cached. A failed page is logged and counted; the
// remaining pages are still fetched. A cache write failure stops the call.
func (h *Harvester) FetchAbstracts(ctx context.Context, apiBody []byte, rec types.AuthorRecord) (AbstractsResult, error) {
	var res AbstractsResult
	log := logging.WithAuthor(h.log, rec)

	feed, err := arxiv.ParseFeed(apiBody)
	if err != nil {
		return res, err
	}

	res.Listed = feed.TotalResults
	if feed.TotalResults > len(feed.Entries) {
		log.Warn().
			Int("listed", feed.TotalResults).
			Int("returned", len(feed.Entries)).
			Msg("listing truncated; raise arxiv.max_results to see more")
	}

	referer := arxiv.QueryURL(h.cfg.APIURL, rec, h.cfg.MaxResults)
	seen := make(map[string]bool, len(feed.Entries))
	for _, entry := range feed.Entries {
		if seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true

		if h.cfg.MatchAuthors && !arxiv.AnyNameMatches(rec, entry.Authors) {
			res.Skipped++
			continue
		}
		res.Found++

		key := cache.Key{Author: rec, Kind: cache.KindHTML, Name: arxiv.HTMLFileName(entry.ID)}
		cached, err := h.store.Stat(key)
		if err != nil {
			return res, err
		}
		if cached.Fresh() {
			res.Cached++
			res.Files = append(res.Files, h.location(key))
			continue
		}

		url := arxiv.AbsURL(h.cfg.AbsURL, entry.ID)
		page, err := h.getter.Get(ctx, httputil.Request{
			URL:     url,
			Accept:  arxiv.HTMLAccept,
			Referer: referer,
			Pacer:   h.htmlPacer,
		})
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Failed++
			log.Error().Err(err).Str("step", "html").Str("id", entry.ID).Msg("abstract fetch failed")
			continue
		}
		if err := h.store.Put(key, page); err != nil {
			return res, err
		}
		res.Fetched++
		res.Files = append(res.Files, h.location(key))
		log.Debug().Str("id", entry.ID).Msg("abstract cached")
	}
	return res, nil
}

// location returns the file path for key when the store is on disk, or the
// key itself otherwise.
func (h *Harvester) location(key cache.Key) string {
	if fs, ok := h.store.(*cache.FSStore); ok {
		return fs.Path(key)
	}
	return key.String()
}

// ProcessAuthor runs the full pipeline for one author.
func (h *Harvester) ProcessAuthor(ctx context.Context, rec types.AuthorRecord, mode types.Mode) AuthorResult {
	res := AuthorResult{Author: rec}
	log := logging.WithAuthor(h.log, rec)

	if err := h.store.Prepare(rec); err != nil {
		return res.fail(log, "paths", err)
	}

	body, fetched, err := h.FetchAPI(ctx, rec, mode)
	res.APIFetched = fetched
	if err != nil {
		return res.fail(log, "api", err)
	}
	if fetched {
		log.Info().Int("bytes", len(body)).Msg("API listing fetched")
	} else {
		log.Info().Msg("API listing cached")
	}

	abs, err := h.FetchAbstracts(ctx, body, rec)
	res.Abstracts = abs
	if err != nil {
		if !fetched {
			err = fmt.Errorf("cached API listing: %w (rerun with --sync-remote)", err)
		}
		return res.fail(log, "html", err)
	}
	onDisk, err := h.store.List(rec, cache.KindHTML)
	if err != nil {
		return res.fail(log, "html", err)
	}
	log.Info().
		Int("listed", abs.Listed).
		Int("html_files", len(onDisk)).
		Int("found", abs.Found).
		Int("fetched", abs.Fetched).
		Int("cached", abs.Cached).
		Int("failed", abs.Failed).
		Msg("abstracts done")
	return res
}
