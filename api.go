package apidex

import (
	"context"
	"time"
)

// AuthType identifies how an API authenticates requests.
type AuthType string

// Supported authentication schemes.
const (
	AuthBearer AuthType = "bearer"
	AuthAPIKey AuthType = "api_key"
	AuthOAuth2 AuthType = "oauth2"
	AuthBasic  AuthType = "basic"
	AuthNone   AuthType = "none"
)

// Valid returns true if the auth type is one of the known schemes.
func (a AuthType) Valid() bool {
	switch a {
	case AuthBearer, AuthAPIKey, AuthOAuth2, AuthBasic, AuthNone:
		return true
	}
	return false
}

// PricingModel identifies how an API charges for usage.
type PricingModel string

// Supported pricing models.
const (
	PricingFree         PricingModel = "free"
	PricingPerCall      PricingModel = "per_call"
	PricingSubscription PricingModel = "subscription"
	PricingTiered       PricingModel = "tiered"
)

// APIStatus identifies the lifecycle state of a cataloged API.
type APIStatus string

// API lifecycle states.
const (
	APIActive     APIStatus = "active"
	APIDeprecated APIStatus = "deprecated"
)

// API represents a third-party API registered in the catalog.
type API struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	BaseURL      string       `json:"baseUrl"`
	DocsURL      string       `json:"docsUrl"`
	AuthType     AuthType     `json:"authType"`
	PricingModel PricingModel `json:"pricingModel"`
	Status       APIStatus    `json:"status"`
	Notes        string       `json:"notes"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Validate returns an error if the API contains invalid fields.
func (a *API) Validate() error {
	if a.Name == "" {
		return Errorf(EINVALID, "api name required")
	}
	if a.DocsURL == "" {
		return Errorf(EINVALID, "api docs URL required")
	}
	if !a.AuthType.Valid() {
		return Errorf(EINVALID, "unknown auth type %q", a.AuthType)
	}
	return nil
}

// APIService represents a service for managing cataloged APIs.
type APIService interface {
	// CreateAPI registers a new API in the catalog.
	// Returns ECONFLICT if an API with the same name exists.
	CreateAPI(ctx context.Context, api *API) error

	// FindAPIByID retrieves an API by ID.
	// Returns ENOTFOUND if the API does not exist.
	FindAPIByID(ctx context.Context, id string) (*API, error)

	// FindAPIByName retrieves an API by its unique name.
	// Returns ENOTFOUND if the API does not exist.
	FindAPIByName(ctx context.Context, name string) (*API, error)

	// FindAPIs retrieves APIs matching the filter.
	FindAPIs(ctx context.Context, filter APIFilter) ([]*API, error)

	// UpdateAPI updates an existing API.
	// Returns ENOTFOUND if the API does not exist.
	UpdateAPI(ctx context.Context, id string, upd APIUpdate) (*API, error)

	// DeleteAPI permanently removes an API and everything recorded
	// against it (endpoints, doc pages, quirks, workflow steps,
	// relationships, cost entries).
	// Returns ENOTFOUND if the API does not exist.
	DeleteAPI(ctx context.Context, id string) error
}

// APIFilter represents a filter for FindAPIs.
type APIFilter struct {
	ID     *string    `json:"id"`
	Name   *string    `json:"name"`
	Status *APIStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// APIUpdate represents fields that can be updated on an API.
type APIUpdate struct {
	Name         *string       `json:"name"`
	BaseURL      *string       `json:"baseUrl"`
	DocsURL      *string       `json:"docsUrl"`
	AuthType     *AuthType     `json:"authType"`
	PricingModel *PricingModel `json:"pricingModel"`
	Status       *APIStatus    `json:"status"`
	Notes        *string       `json:"notes"`
}

// APIOverview is a read model backed by the api_overview view: one row
// per API with counts of everything recorded against it.
type APIOverview struct {
	APIID             string `json:"apiId"`
	Name              string `json:"name"`
	Endpoints         int    `json:"endpoints"`
	Parameters        int    `json:"parameters"`
	Quirks            int    `json:"quirks"`
	DocPages          int    `json:"docPages"`
	MonthlyCostMicros int64  `json:"monthlyCostMicros"`
}

// OverviewService reads aggregate rows from the api_overview view.
type OverviewService interface {
	APIOverviews(ctx context.Context) ([]*APIOverview, error)
}
