package main

import (
	"fmt"
	"strings"

	"github.com/mstanek/apidex"
)

// Run executes the workflow add command.
func (c *WorkflowAddCmd) Run(deps *Dependencies) error {
	workflow := &apidex.Workflow{
		Name:        c.Name,
		Description: c.Description,
	}

	for i, raw := range c.Step {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			fmt.Fprintf(deps.Stderr, "error: step %q must be api:operation or api:operation:notes\n", raw)
			return apidex.Errorf(apidex.EINVALID, "malformed workflow step %q", raw)
		}

		api, err := lookupAPI(deps, parts[0])
		if err != nil {
			return err
		}

		step := &apidex.WorkflowStep{
			APIID:     api.ID,
			Position:  i + 1,
			Operation: parts[1],
		}
		if len(parts) == 3 {
			step.Notes = parts[2]
		}
		workflow.Steps = append(workflow.Steps, step)
	}

	if err := deps.Workflows.CreateWorkflow(deps.Ctx, workflow); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added workflow %q with %d steps (%s)\n", c.Name, len(workflow.Steps), workflow.ID)
	return nil
}

// Run executes the workflow list command.
func (c *WorkflowListCmd) Run(deps *Dependencies) error {
	summaries, err := deps.Summaries.WorkflowSummaries(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	if len(summaries) == 0 {
		fmt.Fprintln(deps.Stdout, "No workflows recorded. Use 'apidex workflow add' to plan one.")
		return nil
	}

	for _, s := range summaries {
		fmt.Fprintf(deps.Stdout, "%s  steps=%d apis=%d (%s)\n", s.Name, s.Steps, s.APIs, s.APINames)
	}

	return nil
}

// Run executes the workflow show command.
func (c *WorkflowShowCmd) Run(deps *Dependencies) error {
	workflow, err := deps.Workflows.FindWorkflowByName(deps.Ctx, c.Name)
	if err != nil {
		if apidex.ErrorCode(err) == apidex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: workflow %q not found. Use 'apidex workflow list' to see recorded workflows.\n", c.Name)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Workflow: %s\n", workflow.Name)
	if workflow.Description != "" {
		fmt.Fprintf(deps.Stdout, "%s\n", workflow.Description)
	}
	fmt.Fprintln(deps.Stdout)
	for _, step := range workflow.Steps {
		name := step.APIName
		if name == "" {
			name = step.APIID
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s: %s\n", step.Position, name, step.Operation)
		if step.Notes != "" {
			fmt.Fprintf(deps.Stdout, "     %s\n", step.Notes)
		}
	}

	return nil
}

// Run executes the workflow delete command.
func (c *WorkflowDeleteCmd) Run(deps *Dependencies) error {
	workflow, err := deps.Workflows.FindWorkflowByName(deps.Ctx, c.Name)
	if err != nil {
		if apidex.ErrorCode(err) == apidex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: workflow %q not found. Use 'apidex workflow list' to see recorded workflows.\n", c.Name)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	if !c.Force {
		fmt.Fprintf(deps.Stderr, "This will delete workflow %q and its %d steps. Re-run with --force to confirm.\n", c.Name, len(workflow.Steps))
		return apidex.Errorf(apidex.EINVALID, "deletion not confirmed")
	}

	if err := deps.Workflows.DeleteWorkflow(deps.Ctx, workflow.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted workflow %q\n", c.Name)
	return nil
}
