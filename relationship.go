package apidex

import (
	"context"
	"time"
)

// RelationKind classifies how two cataloged APIs relate.
type RelationKind string

// Relationship kinds.
const (
	RelAlternative RelationKind = "alternative" // interchangeable providers
	RelComplement  RelationKind = "complement"  // commonly used together
	RelDependency  RelationKind = "dependency"  // one requires the other
)

// Valid returns true if the kind is one of the known kinds.
func (k RelationKind) Valid() bool {
	switch k {
	case RelAlternative, RelComplement, RelDependency:
		return true
	}
	return false
}

// Relationship records a directed relationship between two APIs
// (api_relationships row).
type Relationship struct {
	ID           string       `json:"id"`
	APIID        string       `json:"apiId"`
	RelatedAPIID string       `json:"relatedApiId"`
	Kind         RelationKind `json:"kind"`
	Notes        string       `json:"notes"`
	CreatedAt    time.Time    `json:"createdAt"`

	// Names populated on reads for display.
	APIName        string `json:"apiName,omitempty"`
	RelatedAPIName string `json:"relatedApiName,omitempty"`
}

// Validate returns an error if the relationship contains invalid
// fields. Self-relationships are rejected.
func (r *Relationship) Validate() error {
	if r.APIID == "" || r.RelatedAPIID == "" {
		return Errorf(EINVALID, "relationship requires two API IDs")
	}
	if r.APIID == r.RelatedAPIID {
		return Errorf(EINVALID, "api cannot relate to itself")
	}
	if !r.Kind.Valid() {
		return Errorf(EINVALID, "unknown relationship kind %q", r.Kind)
	}
	return nil
}

// RelationshipService represents a service for managing API
// relationships.
type RelationshipService interface {
	// CreateRelationship records a relationship.
	// Returns ECONFLICT if the same (api, related, kind) exists.
	CreateRelationship(ctx context.Context, rel *Relationship) error

	// FindRelationships retrieves relationships matching the filter.
	FindRelationships(ctx context.Context, filter RelationshipFilter) ([]*Relationship, error)

	// DeleteRelationship permanently removes a relationship.
	// Returns ENOTFOUND if it does not exist.
	DeleteRelationship(ctx context.Context, id string) error
}

// RelationshipFilter represents a filter for FindRelationships.
type RelationshipFilter struct {
	ID    *string       `json:"id"`
	APIID *string       `json:"apiId"` // matches either side
	Kind  *RelationKind `json:"kind"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
