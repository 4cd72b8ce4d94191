package main

import (
	"fmt"

	"github.com/mstanek/apidex"
)

// Run executes the quirk add command.
func (c *QuirkAddCmd) Run(deps *Dependencies) error {
	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}

	quirk := &apidex.Quirk{
		APIID:       api.ID,
		Field:       c.Field,
		Category:    apidex.QuirkCategory(c.Category),
		Severity:    apidex.Severity(c.Severity),
		Description: c.Description,
		Example:     c.Example,
		DetectedBy:  apidex.DetectedManual,
	}

	if err := deps.Quirks.CreateQuirk(deps.Ctx, quirk); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Recorded %s quirk on %q (%s)\n", quirk.Severity, c.Name, quirk.ID)
	return nil
}

// Run executes the quirk list command.
func (c *QuirkListCmd) Run(deps *Dependencies) error {
	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}

	filter := apidex.QuirkFilter{APIID: &api.ID}
	if c.Category != "" {
		category := apidex.QuirkCategory(c.Category)
		if !category.Valid() {
			fmt.Fprintf(deps.Stderr, "error: unknown quirk category %q\n", c.Category)
			return apidex.Errorf(apidex.EINVALID, "unknown quirk category %q", c.Category)
		}
		filter.Category = &category
	}

	quirks, err := deps.Quirks.FindQuirks(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	if len(quirks) == 0 {
		fmt.Fprintf(deps.Stdout, "No quirks recorded for %q. Use 'apidex quirk add' or 'apidex quirk detect'.\n", c.Name)
		return nil
	}

	for _, q := range quirks {
		fmt.Fprintf(deps.Stdout, "[%s] %s", q.Severity, q.Category)
		if q.Field != "" {
			fmt.Fprintf(deps.Stdout, " (%s)", q.Field)
		}
		fmt.Fprintf(deps.Stdout, ": %s", q.Description)
		if q.Example != "" {
			fmt.Fprintf(deps.Stdout, " e.g. %s", q.Example)
		}
		fmt.Fprintf(deps.Stdout, " [%s]\n", q.DetectedBy)
	}

	return nil
}

// Run executes the quirk detect command.
func (c *QuirkDetectCmd) Run(deps *Dependencies) error {
	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}

	endpoints, err := deps.Endpoints.FindEndpoints(deps.Ctx, apidex.EndpointFilter{APIID: &api.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}
	if len(endpoints) == 0 {
		fmt.Fprintf(deps.Stderr, "error: api %q has no cataloged endpoints to inspect. Run 'apidex add %s %s --ingest --force' first.\n", c.Name, c.Name, api.DocsURL)
		return apidex.Errorf(apidex.ENOTFOUND, "api %q has no endpoints", c.Name)
	}

	existing, err := deps.Quirks.FindQuirks(deps.Ctx, apidex.QuirkFilter{APIID: &api.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	detected, err := deps.Detector.DetectQuirks(deps.Ctx, api, endpoints, existing)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	if len(detected) == 0 {
		fmt.Fprintf(deps.Stdout, "No new quirks detected for %q.\n", c.Name)
		return nil
	}

	for _, q := range detected {
		if err := deps.Quirks.CreateQuirk(deps.Ctx, q); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "[%s] %s (%s): %s\n", q.Severity, q.Category, q.Field, q.Description)
	}
	fmt.Fprintf(deps.Stdout, "Recorded %d quirks for %q.\n", len(detected), c.Name)

	return nil
}
