package main

import (
	"fmt"
	"strings"

	"github.com/mstanek/apidex"
	"github.com/mstanek/apidex/fs"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}

	pages, err := deps.Pages.FindDocPages(deps.Ctx, apidex.DocPageFilter{
		APIID:  &api.ID,
		SortBy: apidex.SortByPosition,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	if len(pages) == 0 {
		fmt.Fprintf(deps.Stderr, "error: api %q has no ingested documentation. Run 'apidex add %s %s --ingest --force' to ingest it.\n", c.Name, c.Name, api.DocsURL)
		return apidex.Errorf(apidex.ENOTFOUND, "api %q has no doc pages", c.Name)
	}

	if c.Full {
		// Print full page content (same as what ask sends to the LLM)
		for _, page := range pages {
			fmt.Fprintln(deps.Stdout, fs.FormatDocPage(api, page))
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Doc pages for %s (%d total):\n\n", c.Name, len(pages))
	for i, page := range pages {
		title := page.Title
		if title == "" {
			title = page.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s  (%d tokens)\n", i+1, title, page.SourceURL, page.Tokens)
		if c.Outline {
			for _, section := range apidex.ExtractSections(page.Content) {
				indent := strings.Repeat("  ", section.Level)
				fmt.Fprintf(deps.Stdout, "   %s- %s\n", indent, section.Title)
			}
		}
	}

	return nil
}
