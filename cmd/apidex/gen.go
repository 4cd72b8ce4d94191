package main

import (
	"fmt"
	"strings"

	"github.com/mstanek/apidex"
)

// Run executes the gen command.
func (c *GenCmd) Run(deps *Dependencies) error {
	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}

	method := strings.ToUpper(c.Method)
	if !apidex.ValidMethod(method) {
		fmt.Fprintf(deps.Stderr, "error: unknown HTTP method %q\n", c.Method)
		return apidex.Errorf(apidex.EINVALID, "unknown HTTP method %q", c.Method)
	}

	endpoints, err := deps.Endpoints.FindEndpoints(deps.Ctx, apidex.EndpointFilter{
		APIID:  &api.ID,
		Method: &method,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	var endpoint *apidex.Endpoint
	for _, ep := range endpoints {
		if ep.Path == c.Path {
			endpoint = ep
			break
		}
	}
	if endpoint == nil {
		fmt.Fprintf(deps.Stderr, "error: endpoint %s %s not cataloged for %q. Use 'apidex endpoints %s' to see what is.\n", method, c.Path, c.Name, c.Name)
		return apidex.Errorf(apidex.ENOTFOUND, "endpoint %s %s not found", method, c.Path)
	}

	quirks, err := deps.Quirks.FindQuirks(deps.Ctx, apidex.QuirkFilter{APIID: &api.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	code, err := deps.Generator.Generate(api, endpoint, quirks)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, code)
	return nil
}
