package main

import (
	"fmt"

	"github.com/mstanek/apidex"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	if err := deps.Exporter.Export(deps.Ctx, c.Dir); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported catalog snapshot to %s\n", c.Dir)
	return nil
}
