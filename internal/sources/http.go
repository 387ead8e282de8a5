package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultTimeout  = 15 * time.Second
	maxAttempts     = 3
	defaultBackoff  = 2 * time.Second
	userAgentHeader = "remoteindex/1.0 (+https://github.com/remoteindex/remoteindex)"
)

// NewHTTPClient returns the HTTP client shared by all source adapters.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// doGet performs a GET with a small retry loop: 429 and 5xx responses are
// retried up to maxAttempts, honoring Retry-After when the server sends one.
// The caller owns the response body on success.
func doGet(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgentHeader)

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
		} else if resp.StatusCode == http.StatusOK {
			return resp, nil
		} else {
			retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
			wait := parseRetryAfter(resp.Header.Get("Retry-After"))
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			if !retryable {
				return nil, lastErr
			}
			if wait == 0 {
				wait = defaultBackoff
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			continue
		}

		select {
		case <-time.After(defaultBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// getJSON fetches a URL and decodes its JSON body into v.
func getJSON(ctx context.Context, client *http.Client, url string, v interface{}) error {
	resp, err := doGet(ctx, client, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return json.NewDecoder(resp.Body).Decode(v)
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
