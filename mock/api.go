package mock

import (
	"context"

	"github.com/mstanek/apidex"
)

var _ apidex.APIService = (*APIService)(nil)

// APIService is a mock implementation of apidex.APIService.
type APIService struct {
	CreateAPIFn     func(ctx context.Context, api *apidex.API) error
	FindAPIByIDFn   func(ctx context.Context, id string) (*apidex.API, error)
	FindAPIByNameFn func(ctx context.Context, name string) (*apidex.API, error)
	FindAPIsFn      func(ctx context.Context, filter apidex.APIFilter) ([]*apidex.API, error)
	UpdateAPIFn     func(ctx context.Context, id string, upd apidex.APIUpdate) (*apidex.API, error)
	DeleteAPIFn     func(ctx context.Context, id string) error
}

func (s *APIService) CreateAPI(ctx context.Context, api *apidex.API) error {
	return s.CreateAPIFn(ctx, api)
}

func (s *APIService) FindAPIByID(ctx context.Context, id string) (*apidex.API, error) {
	return s.FindAPIByIDFn(ctx, id)
}

func (s *APIService) FindAPIByName(ctx context.Context, name string) (*apidex.API, error) {
	return s.FindAPIByNameFn(ctx, name)
}

func (s *APIService) FindAPIs(ctx context.Context, filter apidex.APIFilter) ([]*apidex.API, error) {
	return s.FindAPIsFn(ctx, filter)
}

func (s *APIService) UpdateAPI(ctx context.Context, id string, upd apidex.APIUpdate) (*apidex.API, error) {
	return s.UpdateAPIFn(ctx, id, upd)
}

func (s *APIService) DeleteAPI(ctx context.Context, id string) error {
	return s.DeleteAPIFn(ctx, id)
}

var _ apidex.OverviewService = (*OverviewService)(nil)

// OverviewService is a mock implementation of apidex.OverviewService.
type OverviewService struct {
	APIOverviewsFn func(ctx context.Context) ([]*apidex.APIOverview, error)
}

func (s *OverviewService) APIOverviews(ctx context.Context) ([]*apidex.APIOverview, error) {
	return s.APIOverviewsFn(ctx)
}
