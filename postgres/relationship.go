package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mstanek/apidex"
)

// Compile-time interface verification.
var _ apidex.RelationshipService = (*RelationshipService)(nil)

// RelationshipService implements apidex.RelationshipService using
// PostgreSQL.
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

	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO api_relationships (id, api_id, related_api_id, kind, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rel.ID, rel.APIID, rel.RelatedAPIID, string(rel.Kind), rel.Notes, rel.CreatedAt)

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
		appendWhere(&query, &args, "r.id =", *filter.ID)
	}
	if filter.APIID != nil {
		args = append(args, *filter.APIID)
		n := strconv.Itoa(len(args))
		query.WriteString(" AND (r.api_id = $" + n + " OR r.related_api_id = $" + n + ")")
	}
	if filter.Kind != nil {
		appendWhere(&query, &args, "r.kind =", string(*filter.Kind))
	}

	query.WriteString(" ORDER BY a.name, b.name, r.kind")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []*apidex.Relationship
	for rows.Next() {
		var rel apidex.Relationship
		var kind string

		if err := rows.Scan(&rel.ID, &rel.APIID, &rel.RelatedAPIID, &kind,
			&rel.Notes, &rel.CreatedAt, &rel.APIName, &rel.RelatedAPIName); err != nil {
			return nil, err
		}

		rel.Kind = apidex.RelationKind(kind)
		rels = append(rels, &rel)
	}

	return rels, rows.Err()
}

// DeleteRelationship permanently removes a relationship.
func (s *RelationshipService) DeleteRelationship(ctx context.Context, id string) error {
	tag, err := s.db.pool.Exec(ctx, "DELETE FROM api_relationships WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apidex.Errorf(apidex.ENOTFOUND, "relationship not found")
	}
	return nil
}
