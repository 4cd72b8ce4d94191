package apidex

import (
	"context"
	"time"
)

// Workflow represents a named, ordered plan of external API calls.
// Workflows are planning metadata only; apidex never executes them.
type Workflow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	// Steps are attached by WorkflowService lookups, ordered by
	// position.
	Steps []*WorkflowStep `json:"steps,omitempty"`
}

// WorkflowStep is one row of workflow_apis: the use of an API at a
// position within a workflow.
type WorkflowStep struct {
	WorkflowID string `json:"workflowId"`
	APIID      string `json:"apiId"`
	Position   int    `json:"position"` // 1-based
	Operation  string `json:"operation"`
	Notes      string `json:"notes"`

	// APIName is populated on reads for display.
	APIName string `json:"apiName,omitempty"`
}

// Validate returns an error if the workflow or its steps contain
// invalid fields. Step positions must be dense and 1-based.
func (w *Workflow) Validate() error {
	if w.Name == "" {
		return Errorf(EINVALID, "workflow name required")
	}
	if len(w.Steps) == 0 {
		return Errorf(EINVALID, "workflow requires at least one step")
	}
	seen := make(map[int]bool, len(w.Steps))
	for _, step := range w.Steps {
		if step.APIID == "" {
			return Errorf(EINVALID, "workflow step API ID required")
		}
		if step.Operation == "" {
			return Errorf(EINVALID, "workflow step operation required")
		}
		if step.Position < 1 || step.Position > len(w.Steps) {
			return Errorf(EINVALID, "workflow step position %d out of range", step.Position)
		}
		if seen[step.Position] {
			return Errorf(EINVALID, "duplicate workflow step position %d", step.Position)
		}
		seen[step.Position] = true
	}
	return nil
}

// WorkflowService represents a service for managing workflows.
type WorkflowService interface {
	// CreateWorkflow stores a workflow with its steps in a single
	// transaction.
	// Returns ECONFLICT if a workflow with the same name exists.
	CreateWorkflow(ctx context.Context, workflow *Workflow) error

	// FindWorkflowByID retrieves a workflow with steps attached.
	// Returns ENOTFOUND if the workflow does not exist.
	FindWorkflowByID(ctx context.Context, id string) (*Workflow, error)

	// FindWorkflowByName retrieves a workflow by its unique name.
	// Returns ENOTFOUND if the workflow does not exist.
	FindWorkflowByName(ctx context.Context, name string) (*Workflow, error)

	// FindWorkflows retrieves workflows matching the filter, without
	// steps attached.
	FindWorkflows(ctx context.Context, filter WorkflowFilter) ([]*Workflow, error)

	// DeleteWorkflow permanently removes a workflow and its steps.
	// Returns ENOTFOUND if the workflow does not exist.
	DeleteWorkflow(ctx context.Context, id string) error
}

// WorkflowFilter represents a filter for FindWorkflows.
type WorkflowFilter struct {
	ID    *string `json:"id"`
	Name  *string `json:"name"`
	APIID *string `json:"apiId"` // workflows that use this API

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SummaryService reads aggregate rows from the workflow_summary view.
type SummaryService interface {
	WorkflowSummaries(ctx context.Context) ([]*WorkflowSummary, error)
}

// WorkflowSummary is a read model backed by the workflow_summary view.
type WorkflowSummary struct {
	WorkflowID string `json:"workflowId"`
	Name       string `json:"name"`
	Steps      int    `json:"steps"`
	APIs       int    `json:"apis"`     // distinct APIs used
	APINames   string `json:"apiNames"` // in step order, comma separated
}
