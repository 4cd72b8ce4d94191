package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mstanek/apidex"
)

// Compile-time interface verification.
var _ apidex.RelationshipService = (*RelationshipService)(nil)

// RelationshipService implements apidex.RelationshipService using SQLite.
type RelationshipService struct {
	db *DB
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(db *DB) *RelationshipService {
	return &RelationshipService{db: db}
}

// CreateRelationship records a relationship between two APIs.
func (s *RelationshipService) CreateRelationship(ctx context.Context, rel *apidex.Relationship) error {
	if err := rel.Validate(); err != nil {
		return err
	}

	rel.ID = uuid.New().String()
	rel.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_relationships (id, api_id, related_api_id, kind, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rel.ID, rel.APIID, rel.RelatedAPIID, string(rel.Kind), rel.Notes,
		rel.CreatedAt.Format(time.RFC3339))

	if isUniqueViolation(err) {
		return apidex.Errorf(apidex.ECONFLICT, "relationship already recorded")
	}
	return err
}

// FindRelationships retrieves relationships matching the filter, with
// API names resolved for display.
func (s *RelationshipService) FindRelationships(ctx context.Context, filter apidex.RelationshipFilter) ([]*apidex.Relationship, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT r.id, r.api_id, r.related_api_id, r.kind, r.notes, r.created_at, a.name, b.name
		FROM api_relationships r
		JOIN apis a ON a.id = r.api_id
		JOIN apis b ON b.id = r.related_api_id
		WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND r.id = ?")
		args = append(args, *filter.ID)
	}
	if filter.APIID != nil {
		query.WriteString(" AND (r.api_id = ? OR r.related_api_id = ?)")
		args = append(args, *filter.APIID, *filter.APIID)
	}
	if filter.Kind != nil {
		query.WriteString(" AND r.kind = ?")
		args = append(args, string(*filter.Kind))
	}

	query.WriteString(" ORDER BY a.name, b.name, r.kind")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []*apidex.Relationship
	for rows.Next() {
		var rel apidex.Relationship
		var kind, createdAt string

		if err := rows.Scan(&rel.ID, &rel.APIID, &rel.RelatedAPIID, &kind,
			&rel.Notes, &createdAt, &rel.APIName, &rel.RelatedAPIName); err != nil {
			return nil, err
		}

		rel.Kind = apidex.RelationKind(kind)

		var parseErr error
		if rel.CreatedAt, parseErr = parseRFC3339(createdAt, "created_at"); parseErr != nil {
			return nil, parseErr
		}

		rels = append(rels, &rel)
	}

	return rels, rows.Err()
}

// DeleteRelationship permanently removes a relationship.
func (s *RelationshipService) DeleteRelationship(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM api_relationships WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apidex.Errorf(apidex.ENOTFOUND, "relationship not found")
	}

	return nil
}
