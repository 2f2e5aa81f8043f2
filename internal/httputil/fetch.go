// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/arxiv-authors/pkg/types"
)

// NewPacer returns a limiter allowing one request per interval. A zero or
// negative interval disables pacing.
func NewPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Getter performs paced GET requests with retries.
type Getter struct {
	Client      *http.Client
	UserAgent   string
	RetryDelays []time.Duration
}

// Request describes one GET.
type Request struct {
	URL     string
	Accept  string
	Referer string
	// Pacer, when set, is waited on before the first attempt.
	Pacer *rate.Limiter
}

// Get fetches r.URL and returns the full body. Any failure, including a
// non-200 status after retries, is returned as a *types.FetchError.
func (g *Getter) Get(ctx context.Context, r Request) ([]byte, error) {
	if r.Pacer != nil {
		if err := r.Pacer.Wait(ctx); err != nil {
			return nil, &types.FetchError{URL: r.URL, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, &types.FetchError{URL: r.URL, Err: fmt.Errorf("creating request: %w", err)}
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}
	if r.Accept != "" {
		req.Header.Set("Accept", r.Accept)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if r.Referer != "" {
		req.Header.Set("Referer", r.Referer)
	}

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := DoWithRetry(ctx, client, req, g.RetryDelays)
	if err != nil {
		return nil, &types.FetchError{URL: r.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &types.FetchError{URL: r.URL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.FetchError{URL: r.URL, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}
