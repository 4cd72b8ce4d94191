package main

import (
	"fmt"

	"github.com/mstanek/apidex"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Name:     %s\n", api.Name)
	fmt.Fprintf(deps.Stdout, "ID:       %s\n", api.ID)
	if api.BaseURL != "" {
		fmt.Fprintf(deps.Stdout, "Base URL: %s\n", api.BaseURL)
	}
	fmt.Fprintf(deps.Stdout, "Docs:     %s\n", api.DocsURL)
	fmt.Fprintf(deps.Stdout, "Auth:     %s\n", api.AuthType)
	fmt.Fprintf(deps.Stdout, "Pricing:  %s\n", api.PricingModel)
	fmt.Fprintf(deps.Stdout, "Status:   %s\n", api.Status)
	if api.Notes != "" {
		fmt.Fprintf(deps.Stdout, "Notes:    %s\n", api.Notes)
	}

	relationships, err := deps.Relationships.FindRelationships(deps.Ctx, apidex.RelationshipFilter{APIID: &api.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}
	if len(relationships) > 0 {
		fmt.Fprintln(deps.Stdout, "\nRelated:")
		for _, rel := range relationships {
			other := rel.RelatedAPIName
			if rel.RelatedAPIID == api.ID {
				other = rel.APIName
			}
			fmt.Fprintf(deps.Stdout, "  %s (%s)", other, rel.Kind)
			if rel.Notes != "" {
				fmt.Fprintf(deps.Stdout, " - %s", rel.Notes)
			}
			fmt.Fprintln(deps.Stdout)
		}
	}

	return nil
}
