package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/mstanek/apidex"
	main "github.com/mstanek/apidex/cmd/apidex"
	"github.com/mstanek/apidex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowAddCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("parses steps and assigns dense positions", func(t *testing.T) {
		t.Parallel()

		apis := &mock.APIService{
			FindAPIByNameFn: func(_ context.Context, name string) (*apidex.API, error) {
				return &apidex.API{ID: "id-" + name, Name: name}, nil
			},
		}

		var created *apidex.Workflow
		workflows := &mock.WorkflowService{
			CreateWorkflowFn: func(_ context.Context, workflow *apidex.Workflow) error {
				workflow.ID = "wf-1"
				created = workflow
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			APIs:      apis,
			Workflows: workflows,
		}

		cmd := &main.WorkflowAddCmd{
			Name:        "charge-and-notify",
			Description: "Charge a card, then send a receipt.",
			Step: []string{
				"stripe:create charge",
				"sendgrid:send receipt:use the charge id in the subject",
			},
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, created)
		require.Len(t, created.Steps, 2)
		assert.Equal(t, "id-stripe", created.Steps[0].APIID)
		assert.Equal(t, 1, created.Steps[0].Position)
		assert.Equal(t, "create charge", created.Steps[0].Operation)
		assert.Equal(t, 2, created.Steps[1].Position)
		assert.Equal(t, "use the charge id in the subject", created.Steps[1].Notes)
		assert.Contains(t, stdout.String(), "2 steps")
	})

	t.Run("rejects malformed step", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		cmd := &main.WorkflowAddCmd{Name: "broken", Step: []string{"no-operation"}}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "api:operation")
	})
}

func TestWorkflowListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists workflow summaries", func(t *testing.T) {
		t.Parallel()

		summaries := &mock.SummaryService{
			WorkflowSummariesFn: func(_ context.Context) ([]*apidex.WorkflowSummary, error) {
				return []*apidex.WorkflowSummary{
					{Name: "charge-and-notify", Steps: 2, APIs: 2, APINames: "stripe, sendgrid"},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Summaries: summaries,
		}

		cmd := &main.WorkflowListCmd{}

		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "charge-and-notify")
		assert.Contains(t, output, "steps=2")
		assert.Contains(t, output, "stripe, sendgrid")
	})

	t.Run("shows helpful message when none recorded", func(t *testing.T) {
		t.Parallel()

		summaries := &mock.SummaryService{
			WorkflowSummariesFn: func(_ context.Context) ([]*apidex.WorkflowSummary, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Summaries: summaries,
		}

		cmd := &main.WorkflowListCmd{}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No workflows recorded")
	})
}

func TestWorkflowShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints ordered steps with api names", func(t *testing.T) {
		t.Parallel()

		workflows := &mock.WorkflowService{
			FindWorkflowByNameFn: func(_ context.Context, name string) (*apidex.Workflow, error) {
				return &apidex.Workflow{
					ID:          "wf-1",
					Name:        name,
					Description: "Charge a card, then send a receipt.",
					Steps: []*apidex.WorkflowStep{
						{Position: 1, APIID: "api-1", APIName: "stripe", Operation: "create charge"},
						{Position: 2, APIID: "api-2", APIName: "sendgrid", Operation: "send receipt", Notes: "include the charge id"},
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Workflows: workflows,
		}

		cmd := &main.WorkflowShowCmd{Name: "charge-and-notify"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "1. stripe: create charge")
		assert.Contains(t, output, "2. sendgrid: send receipt")
		assert.Contains(t, output, "include the charge id")
	})

	t.Run("unknown workflow prints a hint", func(t *testing.T) {
		t.Parallel()

		workflows := &mock.WorkflowService{
			FindWorkflowByNameFn: func(_ context.Context, name string) (*apidex.Workflow, error) {
				return nil, apidex.Errorf(apidex.ENOTFOUND, "workflow %q not found", name)
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Workflows: workflows,
		}

		cmd := &main.WorkflowShowCmd{Name: "nope"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "workflow list")
	})
}

func TestWorkflowDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force flag", func(t *testing.T) {
		t.Parallel()

		workflows := &mock.WorkflowService{
			FindWorkflowByNameFn: func(_ context.Context, name string) (*apidex.Workflow, error) {
				return &apidex.Workflow{ID: "wf-1", Name: name, Steps: []*apidex.WorkflowStep{{Position: 1}}}, nil
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Workflows: workflows,
		}

		cmd := &main.WorkflowDeleteCmd{Name: "charge-and-notify"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("deletes with force", func(t *testing.T) {
		t.Parallel()

		deleted := ""
		workflows := &mock.WorkflowService{
			FindWorkflowByNameFn: func(_ context.Context, name string) (*apidex.Workflow, error) {
				return &apidex.Workflow{ID: "wf-1", Name: name}, nil
			},
			DeleteWorkflowFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Workflows: workflows,
		}

		cmd := &main.WorkflowDeleteCmd{Name: "charge-and-notify", Force: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "wf-1", deleted)
		assert.Contains(t, stdout.String(), "Deleted workflow")
	})
}
