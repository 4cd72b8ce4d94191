package mock

import (
	"context"

	"github.com/mstanek/apidex"
)

var _ apidex.DocPageService = (*DocPageService)(nil)

// DocPageService is a mock implementation of apidex.DocPageService.
type DocPageService struct {
	CreateDocPageFn       func(ctx context.Context, page *apidex.DocPage) error
	FindDocPageByIDFn     func(ctx context.Context, id string) (*apidex.DocPage, error)
	FindDocPagesFn        func(ctx context.Context, filter apidex.DocPageFilter) ([]*apidex.DocPage, error)
	DeleteDocPagesByAPIFn func(ctx context.Context, apiID string) error
}

func (s *DocPageService) CreateDocPage(ctx context.Context, page *apidex.DocPage) error {
	return s.CreateDocPageFn(ctx, page)
}

func (s *DocPageService) FindDocPageByID(ctx context.Context, id string) (*apidex.DocPage, error) {
	return s.FindDocPageByIDFn(ctx, id)
}

func (s *DocPageService) FindDocPages(ctx context.Context, filter apidex.DocPageFilter) ([]*apidex.DocPage, error) {
	return s.FindDocPagesFn(ctx, filter)
}

func (s *DocPageService) DeleteDocPagesByAPI(ctx context.Context, apiID string) error {
	return s.DeleteDocPagesByAPIFn(ctx, apiID)
}
