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
var _ apidex.APIService = (*APIService)(nil)

// APIService implements apidex.APIService using PostgreSQL.
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

	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO apis (`+apiColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, api.ID, api.Name, api.BaseURL, api.DocsURL, string(api.AuthType),
		string(api.PricingModel), string(api.Status), api.Notes,
		api.CreatedAt, api.UpdatedAt)

	if isUniqueViolation(err) {
		return apidex.Errorf(apidex.ECONFLICT, "api %q already exists", api.Name)
	}
	return err
}

// FindAPIByID retrieves an API by ID.
func (s *APIService) FindAPIByID(ctx context.Context, id string) (*apidex.API, error) {
	return s.findOne(ctx, "id = $1", id)
}

// FindAPIByName retrieves an API by its unique name.
func (s *APIService) FindAPIByName(ctx context.Context, name string) (*apidex.API, error) {
	return s.findOne(ctx, "name = $1", name)
}

func (s *APIService) findOne(ctx context.Context, where string, arg any) (*apidex.API, error) {
	row := s.db.pool.QueryRow(ctx, "SELECT "+apiColumns+" FROM apis WHERE "+where, arg)

	api, err := scanAPI(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
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
		appendWhere(&query, &args, "id =", *filter.ID)
	}
	if filter.Name != nil {
		appendWhere(&query, &args, "name =", *filter.Name)
	}
	if filter.Status != nil {
		appendWhere(&query, &args, "status =", string(*filter.Status))
	}

	query.WriteString(" ORDER BY name")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
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

	_, err = s.db.pool.Exec(ctx, `
		UPDATE apis
		SET name = $1, base_url = $2, docs_url = $3, auth_type = $4,
			pricing_model = $5, status = $6, notes = $7, updated_at = $8
		WHERE id = $9
	`, api.Name, api.BaseURL, api.DocsURL, string(api.AuthType),
		string(api.PricingModel), string(api.Status), api.Notes,
		api.UpdatedAt, id)

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
	tag, err := s.db.pool.Exec(ctx, "DELETE FROM apis WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apidex.Errorf(apidex.ENOTFOUND, "api not found")
	}
	return nil
}

// scanAPI scans an API row from either a single row or a row set.
func scanAPI(scan func(dest ...any) error) (*apidex.API, error) {
	var api apidex.API
	var authType, pricingModel, status string

	if err := scan(&api.ID, &api.Name, &api.BaseURL, &api.DocsURL,
		&authType, &pricingModel, &status, &api.Notes,
		&api.CreatedAt, &api.UpdatedAt); err != nil {
		return nil, err
	}

	api.AuthType = apidex.AuthType(authType)
	api.PricingModel = apidex.PricingModel(pricingModel)
	api.Status = apidex.APIStatus(status)

	return &api, nil
}
