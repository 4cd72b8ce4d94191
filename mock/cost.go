package mock

import (
	"context"

	"github.com/mstanek/apidex"
)

var _ apidex.CostService = (*CostService)(nil)

// CostService is a mock implementation of apidex.CostService.
type CostService struct {
	CreateCostEntryFn func(ctx context.Context, entry *apidex.CostEntry) error
	FindCostEntriesFn func(ctx context.Context, filter apidex.CostFilter) ([]*apidex.CostEntry, error)
	DeleteCostEntryFn func(ctx context.Context, id string) error
}

func (s *CostService) CreateCostEntry(ctx context.Context, entry *apidex.CostEntry) error {
	return s.CreateCostEntryFn(ctx, entry)
}

func (s *CostService) FindCostEntries(ctx context.Context, filter apidex.CostFilter) ([]*apidex.CostEntry, error) {
	return s.FindCostEntriesFn(ctx, filter)
}

func (s *CostService) DeleteCostEntry(ctx context.Context, id string) error {
	return s.DeleteCostEntryFn(ctx, id)
}
