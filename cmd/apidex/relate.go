package main

import (
	"fmt"

	"github.com/mstanek/apidex"
)

// Run executes the relate command.
func (c *RelateCmd) Run(deps *Dependencies) error {
	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}
	related, err := lookupAPI(deps, c.Related)
	if err != nil {
		return err
	}

	rel := &apidex.Relationship{
		APIID:        api.ID,
		RelatedAPIID: related.ID,
		Kind:         apidex.RelationKind(c.Kind),
		Notes:        c.Notes,
	}

	if err := deps.Relationships.CreateRelationship(deps.Ctx, rel); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Recorded: %s is %s of %s\n", c.Name, c.Kind, c.Related)
	return nil
}
