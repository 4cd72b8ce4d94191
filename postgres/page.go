package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mstanek/apidex"
)

// Compile-time interface verification.
var _ apidex.DocPageService = (*DocPageService)(nil)

// DocPageService implements apidex.DocPageService using PostgreSQL.
type DocPageService struct {
	db *DB
}

// NewDocPageService creates a new DocPageService.
func NewDocPageService(db *DB) *DocPageService {
	return &DocPageService{db: db}
}

// CreateDocPage stores a new doc page.
func (s *DocPageService) CreateDocPage(ctx context.Context, page *apidex.DocPage) error {
	if err := page.Validate(); err != nil {
		return err
	}

	page.ID = uuid.New().String()
	if page.FetchedAt.IsZero() {
		page.FetchedAt = time.Now().UTC()
	}

	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO doc_pages (id, api_id, source_url, title, content, content_hash, tokens, position, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, page.ID, page.APIID, page.SourceURL, page.Title, page.Content,
		page.ContentHash, page.Tokens, page.Position, page.FetchedAt)

	return err
}

// FindDocPageByID retrieves a page by ID.
func (s *DocPageService) FindDocPageByID(ctx context.Context, id string) (*apidex.DocPage, error) {
	row := s.db.pool.QueryRow(ctx, `
		SELECT id, api_id, source_url, title, content, content_hash, tokens, position, fetched_at
		FROM doc_pages
		WHERE id = $1
	`, id)

	page, err := scanDocPage(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apidex.Errorf(apidex.ENOTFOUND, "doc page not found")
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// FindDocPages retrieves pages matching the filter.
func (s *DocPageService) FindDocPages(ctx context.Context, filter apidex.DocPageFilter) ([]*apidex.DocPage, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, api_id, source_url, title, content, content_hash, tokens, position, fetched_at
		FROM doc_pages WHERE 1=1`)

	if filter.ID != nil {
		appendWhere(&query, &args, "id =", *filter.ID)
	}
	if filter.APIID != nil {
		appendWhere(&query, &args, "api_id =", *filter.APIID)
	}
	if filter.SourceURL != nil {
		appendWhere(&query, &args, "source_url =", *filter.SourceURL)
	}

	switch filter.SortBy {
	case apidex.SortByFetchedAt:
		query.WriteString(" ORDER BY fetched_at DESC")
	default:
		query.WriteString(" ORDER BY position")
	}

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*apidex.DocPage
	for rows.Next() {
		page, err := scanDocPage(rows.Scan)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	return pages, rows.Err()
}

// DeleteDocPagesByAPI removes all pages ingested for an API.
func (s *DocPageService) DeleteDocPagesByAPI(ctx context.Context, apiID string) error {
	_, err := s.db.pool.Exec(ctx, "DELETE FROM doc_pages WHERE api_id = $1", apiID)
	return err
}

// scanDocPage scans a doc page row.
func scanDocPage(scan func(dest ...any) error) (*apidex.DocPage, error) {
	var page apidex.DocPage

	if err := scan(&page.ID, &page.APIID, &page.SourceURL, &page.Title,
		&page.Content, &page.ContentHash, &page.Tokens, &page.Position,
		&page.FetchedAt); err != nil {
		return nil, err
	}

	return &page, nil
}
