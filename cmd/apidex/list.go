package main

import (
	"fmt"

	"github.com/mstanek/apidex"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	overviews, err := deps.Overviews.APIOverviews(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	if len(overviews) == 0 {
		fmt.Fprintln(deps.Stdout, "No APIs cataloged. Use 'apidex add' to register one.")
		return nil
	}

	for _, o := range overviews {
		fmt.Fprintf(deps.Stdout, "%s  endpoints=%d quirks=%d pages=%d cost=%s/mo\n",
			o.Name, o.Endpoints, o.Quirks, o.DocPages, apidex.FormatMicros(o.MonthlyCostMicros))
	}

	return nil
}
