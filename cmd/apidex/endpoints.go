package main

import (
	"fmt"
	"strings"

	"github.com/mstanek/apidex"
)

// Run executes the endpoints command.
func (c *EndpointsCmd) Run(deps *Dependencies) error {
	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}

	filter := apidex.EndpointFilter{APIID: &api.ID}
	if c.Method != "" {
		method := strings.ToUpper(c.Method)
		if !apidex.ValidMethod(method) {
			fmt.Fprintf(deps.Stderr, "error: unknown HTTP method %q\n", c.Method)
			return apidex.Errorf(apidex.EINVALID, "unknown HTTP method %q", c.Method)
		}
		filter.Method = &method
	}
	if c.Path != "" {
		filter.PathContains = &c.Path
	}

	endpoints, err := deps.Endpoints.FindEndpoints(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	if len(endpoints) == 0 {
		fmt.Fprintf(deps.Stdout, "No endpoints cataloged for %q. Run 'apidex add %s %s --ingest --force' to ingest its documentation.\n", c.Name, c.Name, api.DocsURL)
		return nil
	}

	for _, ep := range endpoints {
		fmt.Fprintf(deps.Stdout, "%-7s %s", ep.Method, ep.Path)
		if ep.Deprecated {
			fmt.Fprint(deps.Stdout, "  (deprecated)")
		}
		fmt.Fprintln(deps.Stdout)
		if ep.Summary != "" {
			fmt.Fprintf(deps.Stdout, "        %s\n", ep.Summary)
		}
		for _, p := range ep.Parameters {
			req := ""
			if p.Required {
				req = ", required"
			}
			fmt.Fprintf(deps.Stdout, "        %s (%s %s%s)\n", p.Name, p.Location, p.Type, req)
		}
	}

	return nil
}
