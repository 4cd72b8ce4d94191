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
var _ apidex.QuirkService = (*QuirkService)(nil)

// QuirkService implements apidex.QuirkService using SQLite.
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

	var endpointID any
	if quirk.EndpointID != "" {
		endpointID = quirk.EndpointID
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quirks (id, api_id, endpoint_id, field, category, severity, description, example, detected_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quirk.ID, quirk.APIID, endpointID, quirk.Field, string(quirk.Category),
		string(quirk.Severity), quirk.Description, quirk.Example,
		quirk.DetectedBy, quirk.CreatedAt.Format(time.RFC3339))

	return err
}

// FindQuirks retrieves quirks matching the filter, newest first.
func (s *QuirkService) FindQuirks(ctx context.Context, filter apidex.QuirkFilter) ([]*apidex.Quirk, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, api_id, endpoint_id, field, category, severity, description, example, detected_by, created_at
		FROM quirks WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.APIID != nil {
		query.WriteString(" AND api_id = ?")
		args = append(args, *filter.APIID)
	}
	if filter.EndpointID != nil {
		query.WriteString(" AND endpoint_id = ?")
		args = append(args, *filter.EndpointID)
	}
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.Severity != nil {
		query.WriteString(" AND severity = ?")
		args = append(args, string(*filter.Severity))
	}

	query.WriteString(" ORDER BY created_at DESC, id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quirks []*apidex.Quirk
	for rows.Next() {
		var quirk apidex.Quirk
		var endpointID sql.NullString
		var category, severity, createdAt string

		if err := rows.Scan(&quirk.ID, &quirk.APIID, &endpointID, &quirk.Field,
			&category, &severity, &quirk.Description, &quirk.Example,
			&quirk.DetectedBy, &createdAt); err != nil {
			return nil, err
		}

		quirk.EndpointID = endpointID.String
		quirk.Category = apidex.QuirkCategory(category)
		quirk.Severity = apidex.Severity(severity)

		var parseErr error
		if quirk.CreatedAt, parseErr = parseRFC3339(createdAt, "created_at"); parseErr != nil {
			return nil, parseErr
		}

		quirks = append(quirks, &quirk)
	}

	return quirks, rows.Err()
}

// DeleteQuirk permanently removes a quirk.
func (s *QuirkService) DeleteQuirk(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM quirks WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apidex.Errorf(apidex.ENOTFOUND, "quirk not found")
	}

	return nil
}
