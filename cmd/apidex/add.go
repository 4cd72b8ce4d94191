package main

import (
	"fmt"
	"regexp"

	"github.com/mstanek/apidex"
	"github.com/mstanek/apidex/ingest"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	// Compile filters early so bad patterns fail before any writes.
	var urlFilter *apidex.URLFilter
	if len(c.Filter) > 0 {
		urlFilter = &apidex.URLFilter{}
		for _, pattern := range c.Filter {
			re, err := regexp.Compile(pattern)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: invalid filter pattern %q: %v\n", pattern, err)
				return err
			}
			urlFilter.Include = append(urlFilter.Include, re)
		}
	}

	// Preview mode: show discovered URLs without registering.
	if c.Preview {
		urls, err := deps.Ingester.Investigate(deps.Ctx, &apidex.API{ID: "preview", DocsURL: c.URL}, urlFilter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		return nil
	}

	// Force mode: delete an existing API with the same name first.
	if c.Force {
		existing, err := deps.APIs.FindAPIs(deps.Ctx, apidex.APIFilter{Name: &c.Name})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
			return err
		}
		if len(existing) > 0 {
			if err := deps.APIs.DeleteAPI(deps.Ctx, existing[0].ID); err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
				return err
			}
		}
	}

	api := &apidex.API{
		Name:         c.Name,
		BaseURL:      c.BaseURL,
		DocsURL:      c.URL,
		AuthType:     apidex.AuthType(c.Auth),
		PricingModel: apidex.PricingModel(c.Pricing),
		Notes:        c.Notes,
	}

	if err := deps.APIs.CreateAPI(deps.Ctx, api); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added api %q (%s)\n", c.Name, api.ID)

	if !c.Ingest || deps.Ingester == nil {
		return nil
	}

	if c.Concurrency > 0 {
		deps.Ingester.Concurrency = c.Concurrency
	}

	progress := func(event ingest.ProgressEvent) {
		switch {
		case event.Phase == ingest.PhaseInvestigate && event.Type == ingest.ProgressFinished:
			fmt.Fprintf(deps.Stdout, "  Found %d URLs\n", event.Total)
		case event.Type == ingest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		}
	}

	report, err := deps.Ingester.Run(deps.Ctx, api, urlFilter, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error ingesting: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Saved %d pages (%s, %s)\n",
		report.PagesSaved, ingest.FormatBytes(report.Bytes), ingest.FormatTokens(report.Tokens))
	fmt.Fprintf(deps.Stdout, "  Cataloged %d endpoints (%d parameters), %d quirks detected\n",
		report.Endpoints, report.Parameters, report.Quirks)
	if report.Drifted > 0 {
		fmt.Fprintf(deps.Stdout, "  Warning: %d pages changed between fetch and verify\n", report.Drifted)
	}
	if report.PagesFailed > 0 {
		fmt.Fprintf(deps.Stdout, "  Failed: %d pages\n", report.PagesFailed)
	}

	return nil
}
