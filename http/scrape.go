package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mstanek/apidex"
)

// DefaultScrapeTimeout allows for JavaScript rendering on the remote
// end, which is slower than a plain fetch.
const DefaultScrapeTimeout = 60 * time.Second

// Ensure ScrapeClient implements apidex.Fetcher at compile time.
var _ apidex.Fetcher = (*ScrapeClient)(nil)

// ScrapeClient fetches pages through a hosted scraping API that
// renders JavaScript before returning HTML. It is the fetcher of
// choice for single-page-app documentation sites.
type ScrapeClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	render  bool
}

// ScrapeOption configures a ScrapeClient.
type ScrapeOption func(*ScrapeClient)

// WithScrapeTimeout sets the timeout for scrape requests.
func WithScrapeTimeout(d time.Duration) ScrapeOption {
	return func(c *ScrapeClient) {
		c.client.Timeout = d
	}
}

// WithoutRender disables JavaScript rendering on the remote end,
// which is cheaper and faster for static pages.
func WithoutRender() ScrapeOption {
	return func(c *ScrapeClient) {
		c.render = false
	}
}

// NewScrapeClient creates a client for the scraping service at
// baseURL, authenticating with apiKey.
func NewScrapeClient(baseURL, apiKey string, opts ...ScrapeOption) *ScrapeClient {
	c := &ScrapeClient{
		client:  &http.Client{Timeout: DefaultScrapeTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		render:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type scrapeRequest struct {
	URL    string `json:"url"`
	Render bool   `json:"render"`
}

type scrapeResponse struct {
	HTML  string `json:"html"`
	Error string `json:"error,omitempty"`
}

// Fetch asks the scraping service to retrieve and render the URL.
func (c *ScrapeClient) Fetch(ctx context.Context, url string) (string, error) {
	payload, err := json.Marshal(scrapeRequest{URL: url, Render: c.render})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", apidex.Errorf(apidex.EUNAVAILABLE, "scraping service rate limit exceeded")
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", apidex.Errorf(apidex.EUNAUTHORIZED, "scraping service rejected API key")
	default:
		return "", apidex.Errorf(apidex.EINTERNAL, "scraping service returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result scrapeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding scrape response: %w", err)
	}
	if result.Error != "" {
		return "", apidex.Errorf(apidex.EINTERNAL, "scraping service error: %s", result.Error)
	}

	return result.HTML, nil
}

// Close releases resources. No-op for the scrape client.
func (c *ScrapeClient) Close() error {
	return nil
}
