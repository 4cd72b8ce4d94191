package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mstanek/apidex"
)

// Compile-time interface verification.
var _ apidex.QuirkService = (*QuirkService)(nil)

// QuirkService implements apidex.QuirkService using PostgreSQL.
type QuirkService struct {
	db *DB
}

// NewQuirkService creates a new QuirkService.
func NewQuirkService(db *DB) *QuirkService {
	return &QuirkService{db: db}
}

// CreateQuirk records a new quirk.
func (s *QuirkService) CreateQuirk(ctx context.Context, quirk *apidex.Quirk) error {
	if quirk.DetectedBy == "" {
		quirk.DetectedBy = apidex.DetectedManual
	}
	if err := quirk.Validate(); err != nil {
		return err
	}

	quirk.ID = uuid.New().String()
	quirk.CreatedAt = time.Now().UTC()

	var endpointID *string
	if quirk.EndpointID != "" {
		endpointID = &quirk.EndpointID
	}

	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO quirks (id, api_id, endpoint_id, field, category, severity, description, example, detected_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, quirk.ID, quirk.APIID, endpointID, quirk.Field, string(quirk.Category),
		string(quirk.Severity), quirk.Description, quirk.Example,
		quirk.DetectedBy, quirk.CreatedAt)

	return err
}

// FindQuirks retrieves quirks matching the filter, newest first.
func (s *QuirkService) FindQuirks(ctx context.Context, filter apidex.QuirkFilter) ([]*apidex.Quirk, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, api_id, endpoint_id, field, category, severity, description, example, detected_by, created_at
		FROM quirks WHERE 1=1`)

	if filter.ID != nil {
		appendWhere(&query, &args, "id =", *filter.ID)
	}
	if filter.APIID != nil {
		appendWhere(&query, &args, "api_id =", *filter.APIID)
	}
	if filter.EndpointID != nil {
		appendWhere(&query, &args, "endpoint_id =", *filter.EndpointID)
	}
	if filter.Category != nil {
		appendWhere(&query, &args, "category =", string(*filter.Category))
	}
	if filter.Severity != nil {
		appendWhere(&query, &args, "severity =", string(*filter.Severity))
	}

	query.WriteString(" ORDER BY created_at DESC, id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quirks []*apidex.Quirk
	for rows.Next() {
		var quirk apidex.Quirk
		var endpointID *string
		var category, severity string

		if err := rows.Scan(&quirk.ID, &quirk.APIID, &endpointID, &quirk.Field,
			&category, &severity, &quirk.Description, &quirk.Example,
			&quirk.DetectedBy, &quirk.CreatedAt); err != nil {
			return nil, err
		}

		if endpointID != nil {
			quirk.EndpointID = *endpointID
		}
		quirk.Category = apidex.QuirkCategory(category)
		quirk.Severity = apidex.Severity(severity)

		quirks = append(quirks, &quirk)
	}

	return quirks, rows.Err()
}

// DeleteQuirk permanently removes a quirk.
func (s *QuirkService) DeleteQuirk(ctx context.Context, id string) error {
	tag, err := s.db.pool.Exec(ctx, "DELETE FROM quirks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apidex.Errorf(apidex.ENOTFOUND, "quirk not found")
	}
	return nil
}
