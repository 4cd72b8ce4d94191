package mock

import (
	"context"

	"github.com/mstanek/apidex"
)

var _ apidex.QuirkService = (*QuirkService)(nil)

// QuirkService is a mock implementation of apidex.QuirkService.
type QuirkService struct {
	CreateQuirkFn func(ctx context.Context, quirk *apidex.Quirk) error
	FindQuirksFn  func(ctx context.Context, filter apidex.QuirkFilter) ([]*apidex.Quirk, error)
	DeleteQuirkFn func(ctx context.Context, id string) error
}

func (s *QuirkService) CreateQuirk(ctx context.Context, quirk *apidex.Quirk) error {
	return s.CreateQuirkFn(ctx, quirk)
}

func (s *QuirkService) FindQuirks(ctx context.Context, filter apidex.QuirkFilter) ([]*apidex.Quirk, error) {
	return s.FindQuirksFn(ctx, filter)
}

func (s *QuirkService) DeleteQuirk(ctx context.Context, id string) error {
	return s.DeleteQuirkFn(ctx, id)
}

var _ apidex.QuirkDetector = (*QuirkDetector)(nil)

// QuirkDetector is a mock implementation of apidex.QuirkDetector.
type QuirkDetector struct {
	DetectQuirksFn func(ctx context.Context, api *apidex.API, endpoints []*apidex.Endpoint, existing []*apidex.Quirk) ([]*apidex.Quirk, error)
}

func (d *QuirkDetector) DetectQuirks(ctx context.Context, api *apidex.API, endpoints []*apidex.Endpoint, existing []*apidex.Quirk) ([]*apidex.Quirk, error) {
	return d.DetectQuirksFn(ctx, api, endpoints, existing)
}
