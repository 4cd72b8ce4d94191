// Package http provides HTTP-based implementations of apidex.Fetcher
// and apidex.SitemapService, plus a client for the hosted scraping API
// used for JavaScript-heavy documentation sites.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mstanek/apidex"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements apidex.Fetcher at compile time.
var _ apidex.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// It does not execute JavaScript and is suitable for static
// documentation sites only; use ScrapeClient for rendered pages.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL. Rate limiting
// and auth failures are reported with distinct error codes so callers
// can back off or stop instead of retrying blindly.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, url); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases resources. For the plain HTTP fetcher this is a no-op
// since http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// statusError maps an HTTP status to an apidex error. A nil return
// means the status is 200.
func statusError(status int, url string) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return apidex.Errorf(apidex.EUNAVAILABLE, "rate limited fetching %s", url)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apidex.Errorf(apidex.EUNAUTHORIZED, "access denied fetching %s (HTTP %d)", url, status)
	case status == http.StatusNotFound:
		return apidex.Errorf(apidex.ENOTFOUND, "page not found: %s", url)
	default:
		return apidex.Errorf(apidex.EINTERNAL, "HTTP %d for %s", status, url)
	}
}
