// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP helpers used by the harvester: GET with
// a configurable retry schedule, and request pacing.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultRetryDelays is the retry schedule used when none is configured.
var DefaultRetryDelays = []time.Duration{5 * time.Second, 15 * time.Second, 30 * time.Second}

// Retryable reports whether an HTTP status is worth another attempt:
// 429 Too Many Requests and any 5xx.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status <= 599)
}

// DoWithRetry executes req and retries on transport errors and retryable
// statuses. delays[i] is the wait before attempt i+2, so len(delays) is the
// number of retries and an empty slice means a single attempt.
//
// On each retried response the body is drained and closed before sleeping.
// If the context is cancelled during a wait the function returns ctx.Err().
// After exhausting retries the last response is returned so the caller can
// inspect its status, or the last transport error if there was no response.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, delays []time.Duration) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		last := attempt >= len(delays)

		if err == nil && !Retryable(resp.StatusCode) {
			return resp, nil
		}
		if last {
			return resp, err
		}
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
