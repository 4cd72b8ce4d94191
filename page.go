package apidex

import (
	"context"
	"time"
)

// DocPage represents an ingested documentation page for an API.
type DocPage struct {
	ID          string    `json:"id"`
	APIID       string    `json:"apiId"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	Content     string    `json:"content"` // Markdown
	ContentHash string    `json:"contentHash"`
	Tokens      int       `json:"tokens"`
	Position    int       `json:"position"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the page contains invalid fields.
func (p *DocPage) Validate() error {
	if p.APIID == "" {
		return Errorf(EINVALID, "doc page API ID required")
	}
	if p.SourceURL == "" {
		return Errorf(EINVALID, "doc page source URL required")
	}
	return nil
}

// DocPageSort represents the sort order for doc page queries.
type DocPageSort string

// Sort orders for DocPageFilter.
const (
	SortByFetchedAt DocPageSort = "fetched_at"
	SortByPosition  DocPageSort = "position"
)

// DocPageService represents a service for managing ingested doc pages.
type DocPageService interface {
	// CreateDocPage stores a new doc page.
	CreateDocPage(ctx context.Context, page *DocPage) error

	// FindDocPageByID retrieves a page by ID.
	// Returns ENOTFOUND if the page does not exist.
	FindDocPageByID(ctx context.Context, id string) (*DocPage, error)

	// FindDocPages retrieves pages matching the filter.
	FindDocPages(ctx context.Context, filter DocPageFilter) ([]*DocPage, error)

	// DeleteDocPagesByAPI removes all pages ingested for an API.
	DeleteDocPagesByAPI(ctx context.Context, apiID string) error
}

// DocPageFilter represents a filter for FindDocPages.
type DocPageFilter struct {
	ID        *string `json:"id"`
	APIID     *string `json:"apiId"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	SortBy DocPageSort `json:"sortBy"`
}
