package apidex

import "context"

// Fetcher retrieves raw HTML for documentation URLs.
// Implementations may issue plain HTTP requests or delegate to a
// hosted scraping service that renders JavaScript.
type Fetcher interface {
	// Fetch returns the HTML content of the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
