package apidex

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// ExtractedEndpoint is an endpoint proposal produced by an
// EndpointExtractor before validation and storage.
type ExtractedEndpoint struct {
	Method     string
	Path       string
	Summary    string
	Parameters []ExtractedParameter
}

// ExtractedParameter is a parameter proposal attached to an
// ExtractedEndpoint.
type ExtractedParameter struct {
	Name        string
	Location    ParamLocation
	Type        ParamType
	Required    bool
	Example     string
	Description string
}

// EndpointExtractor proposes endpoints from raw HTML reference pages.
// Proposals are deduplicated per page by (method, path); validation
// against the domain rules happens later, in the verify phase.
type EndpointExtractor interface {
	ExtractEndpoints(html string) ([]ExtractedEndpoint, error)
}
