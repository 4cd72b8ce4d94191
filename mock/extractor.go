package mock

import "github.com/mstanek/apidex"

var _ apidex.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of apidex.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*apidex.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*apidex.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ apidex.EndpointExtractor = (*EndpointExtractor)(nil)

// EndpointExtractor is a mock implementation of apidex.EndpointExtractor.
type EndpointExtractor struct {
	ExtractEndpointsFn func(html string) ([]apidex.ExtractedEndpoint, error)
}

func (e *EndpointExtractor) ExtractEndpoints(html string) ([]apidex.ExtractedEndpoint, error) {
	return e.ExtractEndpointsFn(html)
}
