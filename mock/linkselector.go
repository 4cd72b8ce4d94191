package mock

import "github.com/mstanek/apidex"

var _ apidex.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of apidex.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]apidex.DiscoveredLink, error)
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]apidex.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}
