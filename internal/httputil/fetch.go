// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps the size of a fetched page.
const MaxBodyBytes = 10 << 20

// Client fetches pages with a fixed User-Agent. It makes exactly one
// request per Fetch: no retries and no backoff.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// Fetch implements harvest.Fetcher.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	return Fetch(ctx, c.HTTP, url, c.UserAgent)
}

// Fetch performs a single GET of url and returns the body. Any status
// outside 2xx is an error naming the status and URL. Bodies larger than
// MaxBodyBytes are an error.
func Fetch(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodyBytes))
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body from %s: %w", url, err)
	}
	if len(body) > MaxBodyBytes {
		return nil, fmt.Errorf("body from %s exceeds %d bytes", url, MaxBodyBytes)
	}
	return body, nil
}
