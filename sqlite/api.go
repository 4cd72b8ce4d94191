package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mstanek/apidex"
)

// Compile-time interface verification.
var _ apidex.APIService = (*APIService)(nil)

// APIService implements apidex.APIService using SQLite.
type APIService struct {
	db *DB
}

// NewAPIService creates a new APIService.
func NewAPIService(db *DB) *APIService {
	return &APIService{db: db}
}

const apiColumns = "id, name, base_url, docs_url, auth_type, pricing_model, status, notes, created_at, updated_at"

// CreateAPI registers a new API in the catalog.
func (s *APIService) CreateAPI(ctx context.Context, api *apidex.API) error {
	if api.PricingModel == "" {
		api.PricingModel = apidex.PricingPerCall
	}
	if api.Status == "" {
		api.Status = apidex.APIActive
	}
	if err := api.Validate(); err != nil {
		return err
	}

	api.ID = uuid.New().String()
	now := time.Now().UTC()
	api.CreatedAt = now
	api.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO apis (`+apiColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, api.ID, api.Name, api.BaseURL, api.DocsURL, string(api.AuthType),
		string(api.PricingModel), string(api.Status), api.Notes,
		api.CreatedAt.Format(time.RFC3339), api.UpdatedAt.Format(time.RFC3339))

	if isUniqueViolation(err) {
		return apidex.Errorf(apidex.ECONFLICT, "api %q already exists", api.Name)
	}
	return err
}

// FindAPIByID retrieves an API by ID.
func (s *APIService) FindAPIByID(ctx context.Context, id string) (*apidex.API, error) {
	return s.findOne(ctx, "id = ?", id)
}

// FindAPIByName retrieves an API by its unique name.
func (s *APIService) FindAPIByName(ctx context.Context, name string) (*apidex.API, error) {
	return s.findOne(ctx, "name = ?", name)
}

func (s *APIService) findOne(ctx context.Context, where string, arg any) (*apidex.API, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+apiColumns+" FROM apis WHERE "+where, arg)

	api, err := scanAPI(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apidex.Errorf(apidex.ENOTFOUND, "api not found")
	}
	if err != nil {
		return nil, err
	}
	return api, nil
}

// FindAPIs retrieves APIs matching the filter.
func (s *APIService) FindAPIs(ctx context.Context, filter apidex.APIFilter) ([]*apidex.API, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + apiColumns + " FROM apis WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY name")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apis []*apidex.API
	for rows.Next() {
		api, err := scanAPI(rows.Scan)
		if err != nil {
			return nil, err
		}
		apis = append(apis, api)
	}

	return apis, rows.Err()
}

// UpdateAPI updates an existing API.
func (s *APIService) UpdateAPI(ctx context.Context, id string, upd apidex.APIUpdate) (*apidex.API, error) {
	api, err := s.FindAPIByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		api.Name = *upd.Name
	}
	if upd.BaseURL != nil {
		api.BaseURL = *upd.BaseURL
	}
	if upd.DocsURL != nil {
		api.DocsURL = *upd.DocsURL
	}
	if upd.AuthType != nil {
		api.AuthType = *upd.AuthType
	}
	if upd.PricingModel != nil {
		api.PricingModel = *upd.PricingModel
	}
	if upd.Status != nil {
		api.Status = *upd.Status
	}
	if upd.Notes != nil {
		api.Notes = *upd.Notes
	}

	if err := api.Validate(); err != nil {
		return nil, err
	}

	api.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE apis
		SET name = ?, base_url = ?, docs_url = ?, auth_type = ?,
			pricing_model = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, api.Name, api.BaseURL, api.DocsURL, string(api.AuthType),
		string(api.PricingModel), string(api.Status), api.Notes,
		api.UpdatedAt.Format(time.RFC3339), id)

	if isUniqueViolation(err) {
		return nil, apidex.Errorf(apidex.ECONFLICT, "api %q already exists", api.Name)
	}
	if err != nil {
		return nil, err
	}

	return api, nil
}

// DeleteAPI permanently removes an API. Foreign keys cascade to
// endpoints, parameters, doc pages, quirks, workflow steps,
// relationships, and cost entries.
func (s *APIService) DeleteAPI(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM apis WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apidex.Errorf(apidex.ENOTFOUND, "api not found")
	}

	return nil
}

// scanAPI scans an API row from either *sql.Row or *sql.Rows.
func scanAPI(scan func(dest ...any) error) (*apidex.API, error) {
	var api apidex.API
	var authType, pricingModel, status string
	var createdAt, updatedAt string

	if err := scan(&api.ID, &api.Name, &api.BaseURL, &api.DocsURL,
		&authType, &pricingModel, &status, &api.Notes,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	api.AuthType = apidex.AuthType(authType)
	api.PricingModel = apidex.PricingModel(pricingModel)
	api.Status = apidex.APIStatus(status)

	var err error
	if api.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if api.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &api, nil
}
