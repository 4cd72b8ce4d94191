package apidex

import (
	"context"
	"time"
)

// Known HTTP methods for cataloged endpoints.
var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

// ValidMethod returns true if method is a known HTTP method.
func ValidMethod(method string) bool {
	return knownMethods[method]
}

// Endpoint represents a single operation of a cataloged API.
type Endpoint struct {
	ID          string    `json:"id"`
	APIID       string    `json:"apiId"`
	Method      string    `json:"method"`
	Path        string    `json:"path"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Deprecated  bool      `json:"deprecated"`
	SourceURL   string    `json:"sourceUrl"`
	CreatedAt   time.Time `json:"createdAt"`

	// Parameters are attached by EndpointService lookups.
	Parameters []*Parameter `json:"parameters,omitempty"`
}

// Validate returns an error if the endpoint contains invalid fields.
func (e *Endpoint) Validate() error {
	if e.APIID == "" {
		return Errorf(EINVALID, "endpoint API ID required")
	}
	if !ValidMethod(e.Method) {
		return Errorf(EINVALID, "unknown HTTP method %q", e.Method)
	}
	if e.Path == "" || e.Path[0] != '/' {
		return Errorf(EINVALID, "endpoint path must start with /")
	}
	for _, p := range e.Parameters {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ParamLocation identifies where a parameter is carried in a request.
type ParamLocation string

// Parameter locations.
const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
	InBody   ParamLocation = "body"
)

// Valid returns true if the location is one of the known locations.
func (l ParamLocation) Valid() bool {
	switch l {
	case InPath, InQuery, InHeader, InBody:
		return true
	}
	return false
}

// ParamType identifies the documented type of a parameter.
type ParamType string

// Parameter types.
const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
	TypeArray   ParamType = "array"
)

// Parameter represents a documented request parameter of an endpoint.
type Parameter struct {
	ID          string        `json:"id"`
	EndpointID  string        `json:"endpointId"`
	Name        string        `json:"name"`
	Location    ParamLocation `json:"location"`
	Type        ParamType     `json:"type"`
	Required    bool          `json:"required"`
	Example     string        `json:"example"`
	Description string        `json:"description"`
}

// Validate returns an error if the parameter contains invalid fields.
func (p *Parameter) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "parameter name required")
	}
	if !p.Location.Valid() {
		return Errorf(EINVALID, "unknown parameter location %q", p.Location)
	}
	return nil
}

// EndpointService represents a service for managing endpoints and
// their parameters.
type EndpointService interface {
	// CreateEndpoint stores an endpoint together with its parameters
	// in a single transaction.
	// Returns ECONFLICT if (api, method, path) already exists.
	CreateEndpoint(ctx context.Context, endpoint *Endpoint) error

	// FindEndpointByID retrieves an endpoint with parameters attached.
	// Returns ENOTFOUND if the endpoint does not exist.
	FindEndpointByID(ctx context.Context, id string) (*Endpoint, error)

	// FindEndpoints retrieves endpoints matching the filter, with
	// parameters attached, ordered by path then method.
	FindEndpoints(ctx context.Context, filter EndpointFilter) ([]*Endpoint, error)

	// DeleteEndpointsByAPI removes all endpoints (and parameters)
	// recorded for an API.
	DeleteEndpointsByAPI(ctx context.Context, apiID string) error
}

// EndpointFilter represents a filter for FindEndpoints.
type EndpointFilter struct {
	ID           *string `json:"id"`
	APIID        *string `json:"apiId"`
	Method       *string `json:"method"`
	PathContains *string `json:"pathContains"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
