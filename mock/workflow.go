package mock

import (
	"context"

	"github.com/mstanek/apidex"
)

var _ apidex.WorkflowService = (*WorkflowService)(nil)

// WorkflowService is a mock implementation of apidex.WorkflowService.
type WorkflowService struct {
	CreateWorkflowFn     func(ctx context.Context, workflow *apidex.Workflow) error
	FindWorkflowByIDFn   func(ctx context.Context, id string) (*apidex.Workflow, error)
	FindWorkflowByNameFn func(ctx context.Context, name string) (*apidex.Workflow, error)
	FindWorkflowsFn      func(ctx context.Context, filter apidex.WorkflowFilter) ([]*apidex.Workflow, error)
	DeleteWorkflowFn     func(ctx context.Context, id string) error
}

func (s *WorkflowService) CreateWorkflow(ctx context.Context, workflow *apidex.Workflow) error {
	return s.CreateWorkflowFn(ctx, workflow)
}

func (s *WorkflowService) FindWorkflowByID(ctx context.Context, id string) (*apidex.Workflow, error) {
	return s.FindWorkflowByIDFn(ctx, id)
}

func (s *WorkflowService) FindWorkflowByName(ctx context.Context, name string) (*apidex.Workflow, error) {
	return s.FindWorkflowByNameFn(ctx, name)
}

func (s *WorkflowService) FindWorkflows(ctx context.Context, filter apidex.WorkflowFilter) ([]*apidex.Workflow, error) {
	return s.FindWorkflowsFn(ctx, filter)
}

func (s *WorkflowService) DeleteWorkflow(ctx context.Context, id string) error {
	return s.DeleteWorkflowFn(ctx, id)
}

var _ apidex.SummaryService = (*SummaryService)(nil)

// SummaryService is a mock implementation of apidex.SummaryService.
type SummaryService struct {
	WorkflowSummariesFn func(ctx context.Context) ([]*apidex.WorkflowSummary, error)
}

func (s *SummaryService) WorkflowSummaries(ctx context.Context) ([]*apidex.WorkflowSummary, error) {
	return s.WorkflowSummariesFn(ctx)
}
