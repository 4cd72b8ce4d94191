package mock

import (
	"context"

	"github.com/mstanek/apidex"
)

var _ apidex.RelationshipService = (*RelationshipService)(nil)

// RelationshipService is a mock implementation of apidex.RelationshipService.
type RelationshipService struct {
	CreateRelationshipFn func(ctx context.Context, rel *apidex.Relationship) error
	FindRelationshipsFn  func(ctx context.Context, filter apidex.RelationshipFilter) ([]*apidex.Relationship, error)
	DeleteRelationshipFn func(ctx context.Context, id string) error
}

func (s *RelationshipService) CreateRelationship(ctx context.Context, rel *apidex.Relationship) error {
	return s.CreateRelationshipFn(ctx, rel)
}

func (s *RelationshipService) FindRelationships(ctx context.Context, filter apidex.RelationshipFilter) ([]*apidex.Relationship, error) {
	return s.FindRelationshipsFn(ctx, filter)
}

func (s *RelationshipService) DeleteRelationship(ctx context.Context, id string) error {
	return s.DeleteRelationshipFn(ctx, id)
}
