package main

import (
	"fmt"

	"github.com/mstanek/apidex"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}

	answer, err := deps.Asker.Ask(deps.Ctx, api.ID, c.Question)
	if err != nil {
		if apidex.ErrorCode(err) == apidex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: api %q has no ingested documentation. Run 'apidex add %s %s --ingest --force' first.\n", c.Name, c.Name, api.DocsURL)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
