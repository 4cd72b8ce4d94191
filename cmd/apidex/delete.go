package main

import (
	"fmt"

	"github.com/mstanek/apidex"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return apidex.Errorf(apidex.EINVALID, "use --force to confirm deletion")
	}

	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}

	if err := deps.APIs.DeleteAPI(deps.Ctx, api.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted api %q\n", api.Name)
	return nil
}
