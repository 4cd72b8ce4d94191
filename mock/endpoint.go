package mock

import (
	"context"

	"github.com/mstanek/apidex"
)

var _ apidex.EndpointService = (*EndpointService)(nil)

// EndpointService is a mock implementation of apidex.EndpointService.
type EndpointService struct {
	CreateEndpointFn       func(ctx context.Context, endpoint *apidex.Endpoint) error
	FindEndpointByIDFn     func(ctx context.Context, id string) (*apidex.Endpoint, error)
	FindEndpointsFn        func(ctx context.Context, filter apidex.EndpointFilter) ([]*apidex.Endpoint, error)
	DeleteEndpointsByAPIFn func(ctx context.Context, apiID string) error
}

func (s *EndpointService) CreateEndpoint(ctx context.Context, endpoint *apidex.Endpoint) error {
	return s.CreateEndpointFn(ctx, endpoint)
}

func (s *EndpointService) FindEndpointByID(ctx context.Context, id string) (*apidex.Endpoint, error) {
	return s.FindEndpointByIDFn(ctx, id)
}

func (s *EndpointService) FindEndpoints(ctx context.Context, filter apidex.EndpointFilter) ([]*apidex.Endpoint, error) {
	return s.FindEndpointsFn(ctx, filter)
}

func (s *EndpointService) DeleteEndpointsByAPI(ctx context.Context, apiID string) error {
	return s.DeleteEndpointsByAPIFn(ctx, apiID)
}
