package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mstanek/apidex"
)

// Compile-time interface verification.
var _ apidex.EndpointService = (*EndpointService)(nil)

// EndpointService implements apidex.EndpointService using PostgreSQL.
type EndpointService struct {
	db *DB
}

// NewEndpointService creates a new EndpointService.
func NewEndpointService(db *DB) *EndpointService {
	return &EndpointService{db: db}
}

// CreateEndpoint stores an endpoint with its parameters in a single
// transaction.
func (s *EndpointService) CreateEndpoint(ctx context.Context, endpoint *apidex.Endpoint) error {
	if err := endpoint.Validate(); err != nil {
		return err
	}

	endpoint.ID = uuid.New().String()
	endpoint.CreatedAt = time.Now().UTC()

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO endpoints (id, api_id, method, path, summary, description, deprecated, source_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, endpoint.ID, endpoint.APIID, endpoint.Method, endpoint.Path,
		endpoint.Summary, endpoint.Description, endpoint.Deprecated,
		endpoint.SourceURL, endpoint.CreatedAt)

	if isUniqueViolation(err) {
		return apidex.Errorf(apidex.ECONFLICT, "endpoint %s %s already cataloged", endpoint.Method, endpoint.Path)
	}
	if err != nil {
		return err
	}

	for _, param := range endpoint.Parameters {
		param.ID = uuid.New().String()
		param.EndpointID = endpoint.ID
		if param.Type == "" {
			param.Type = apidex.TypeString
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO parameters (id, endpoint_id, name, location, type, required, example, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, param.ID, param.EndpointID, param.Name, string(param.Location),
			string(param.Type), param.Required, param.Example, param.Description)

		if isUniqueViolation(err) {
			return apidex.Errorf(apidex.ECONFLICT, "duplicate parameter %q in %s", param.Name, param.Location)
		}
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// FindEndpointByID retrieves an endpoint with parameters attached.
func (s *EndpointService) FindEndpointByID(ctx context.Context, id string) (*apidex.Endpoint, error) {
	row := s.db.pool.QueryRow(ctx, `
		SELECT id, api_id, method, path, summary, description, deprecated, source_url, created_at
		FROM endpoints
		WHERE id = $1
	`, id)

	endpoint, err := scanEndpoint(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apidex.Errorf(apidex.ENOTFOUND, "endpoint not found")
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachParameters(ctx, []*apidex.Endpoint{endpoint}); err != nil {
		return nil, err
	}

	return endpoint, nil
}

// FindEndpoints retrieves endpoints matching the filter, with
// parameters attached, ordered by path then method.
func (s *EndpointService) FindEndpoints(ctx context.Context, filter apidex.EndpointFilter) ([]*apidex.Endpoint, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, api_id, method, path, summary, description, deprecated, source_url, created_at
		FROM endpoints WHERE 1=1`)

	if filter.ID != nil {
		appendWhere(&query, &args, "id =", *filter.ID)
	}
	if filter.APIID != nil {
		appendWhere(&query, &args, "api_id =", *filter.APIID)
	}
	if filter.Method != nil {
		appendWhere(&query, &args, "method =", *filter.Method)
	}
	if filter.PathContains != nil {
		appendWhere(&query, &args, "path LIKE", "%"+*filter.PathContains+"%")
	}

	query.WriteString(" ORDER BY path, method")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var endpoints []*apidex.Endpoint
	for rows.Next() {
		endpoint, err := scanEndpoint(rows.Scan)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, endpoint)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachParameters(ctx, endpoints); err != nil {
		return nil, err
	}

	return endpoints, nil
}

// DeleteEndpointsByAPI removes all endpoints for an API. Parameters
// cascade.
func (s *EndpointService) DeleteEndpointsByAPI(ctx context.Context, apiID string) error {
	_, err := s.db.pool.Exec(ctx, "DELETE FROM endpoints WHERE api_id = $1", apiID)
	return err
}

// attachParameters loads parameters for the given endpoints.
func (s *EndpointService) attachParameters(ctx context.Context, endpoints []*apidex.Endpoint) error {
	byID := make(map[string]*apidex.Endpoint, len(endpoints))
	for _, e := range endpoints {
		byID[e.ID] = e
	}
	if len(byID) == 0 {
		return nil
	}

	var query strings.Builder
	var args []any
	query.WriteString(`SELECT id, endpoint_id, name, location, type, required, example, description
		FROM parameters WHERE endpoint_id IN (`)
	i := 0
	for id := range byID {
		if i > 0 {
			query.WriteString(", ")
		}
		args = append(args, id)
		query.WriteString("$" + strconv.Itoa(len(args)))
		i++
	}
	query.WriteString(") ORDER BY location, name")

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var param apidex.Parameter
		var location, typ string

		if err := rows.Scan(&param.ID, &param.EndpointID, &param.Name,
			&location, &typ, &param.Required, &param.Example, &param.Description); err != nil {
			return err
		}

		param.Location = apidex.ParamLocation(location)
		param.Type = apidex.ParamType(typ)

		if endpoint, ok := byID[param.EndpointID]; ok {
			endpoint.Parameters = append(endpoint.Parameters, &param)
		}
	}

	return rows.Err()
}

// scanEndpoint scans an endpoint row.
func scanEndpoint(scan func(dest ...any) error) (*apidex.Endpoint, error) {
	var endpoint apidex.Endpoint

	if err := scan(&endpoint.ID, &endpoint.APIID, &endpoint.Method, &endpoint.Path,
		&endpoint.Summary, &endpoint.Description, &endpoint.Deprecated,
		&endpoint.SourceURL, &endpoint.CreatedAt); err != nil {
		return nil, err
	}

	return &endpoint, nil
}
