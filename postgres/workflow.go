package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mstanek/apidex"
)

// Compile-time interface verification.
var _ apidex.WorkflowService = (*WorkflowService)(nil)

// WorkflowService implements apidex.WorkflowService using PostgreSQL.
type WorkflowService struct {
	db *DB
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(db *DB) *WorkflowService {
	return &WorkflowService{db: db}
}

// CreateWorkflow stores a workflow with its steps in one transaction.
func (s *WorkflowService) CreateWorkflow(ctx context.Context, workflow *apidex.Workflow) error {
	if err := workflow.Validate(); err != nil {
		return err
	}

	workflow.ID = uuid.New().String()
	workflow.CreatedAt = time.Now().UTC()

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO workflows (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`, workflow.ID, workflow.Name, workflow.Description, workflow.CreatedAt)

	if isUniqueViolation(err) {
		return apidex.Errorf(apidex.ECONFLICT, "workflow %q already exists", workflow.Name)
	}
	if err != nil {
		return err
	}

	for _, step := range workflow.Steps {
		step.WorkflowID = workflow.ID

		_, err = tx.Exec(ctx, `
			INSERT INTO workflow_apis (workflow_id, api_id, position, operation, notes)
			VALUES ($1, $2, $3, $4, $5)
		`, step.WorkflowID, step.APIID, step.Position, step.Operation, step.Notes)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// FindWorkflowByID retrieves a workflow with steps attached.
func (s *WorkflowService) FindWorkflowByID(ctx context.Context, id string) (*apidex.Workflow, error) {
	return s.findOne(ctx, "id = $1", id)
}

// FindWorkflowByName retrieves a workflow by its unique name.
func (s *WorkflowService) FindWorkflowByName(ctx context.Context, name string) (*apidex.Workflow, error) {
	return s.findOne(ctx, "name = $1", name)
}

func (s *WorkflowService) findOne(ctx context.Context, where string, arg any) (*apidex.Workflow, error) {
	var workflow apidex.Workflow

	err := s.db.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at
		FROM workflows
		WHERE `+where, arg).Scan(&workflow.ID, &workflow.Name, &workflow.Description, &workflow.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apidex.Errorf(apidex.ENOTFOUND, "workflow not found")
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachSteps(ctx, &workflow); err != nil {
		return nil, err
	}

	return &workflow, nil
}

// attachSteps loads workflow steps ordered by position, with API names
// resolved for display.
func (s *WorkflowService) attachSteps(ctx context.Context, workflow *apidex.Workflow) error {
	rows, err := s.db.pool.Query(ctx, `
		SELECT wa.workflow_id, wa.api_id, wa.position, wa.operation, wa.notes, a.name
		FROM workflow_apis wa
		JOIN apis a ON a.id = wa.api_id
		WHERE wa.workflow_id = $1
		ORDER BY wa.position
	`, workflow.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var step apidex.WorkflowStep
		if err := rows.Scan(&step.WorkflowID, &step.APIID, &step.Position,
			&step.Operation, &step.Notes, &step.APIName); err != nil {
			return err
		}
		workflow.Steps = append(workflow.Steps, &step)
	}

	return rows.Err()
}

// FindWorkflows retrieves workflows matching the filter, without steps.
func (s *WorkflowService) FindWorkflows(ctx context.Context, filter apidex.WorkflowFilter) ([]*apidex.Workflow, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, description, created_at FROM workflows WHERE 1=1")

	if filter.ID != nil {
		appendWhere(&query, &args, "id =", *filter.ID)
	}
	if filter.Name != nil {
		appendWhere(&query, &args, "name =", *filter.Name)
	}
	if filter.APIID != nil {
		appendWhere(&query, &args, "id IN (SELECT workflow_id FROM workflow_apis WHERE api_id =", *filter.APIID)
		query.WriteString(")")
	}

	query.WriteString(" ORDER BY name")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workflows []*apidex.Workflow
	for rows.Next() {
		var workflow apidex.Workflow
		if err := rows.Scan(&workflow.ID, &workflow.Name, &workflow.Description, &workflow.CreatedAt); err != nil {
			return nil, err
		}
		workflows = append(workflows, &workflow)
	}

	return workflows, rows.Err()
}

// DeleteWorkflow permanently removes a workflow and its steps.
func (s *WorkflowService) DeleteWorkflow(ctx context.Context, id string) error {
	tag, err := s.db.pool.Exec(ctx, "DELETE FROM workflows WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apidex.Errorf(apidex.ENOTFOUND, "workflow not found")
	}
	return nil
}

// WorkflowSummaries reads the workflow_summary view.
func (s *WorkflowService) WorkflowSummaries(ctx context.Context) ([]*apidex.WorkflowSummary, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT workflow_id, name, steps, apis, api_names
		FROM workflow_summary
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*apidex.WorkflowSummary
	for rows.Next() {
		var sum apidex.WorkflowSummary
		if err := rows.Scan(&sum.WorkflowID, &sum.Name, &sum.Steps, &sum.APIs, &sum.APINames); err != nil {
			return nil, err
		}
		summaries = append(summaries, &sum)
	}

	return summaries, rows.Err()
}
