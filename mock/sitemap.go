package mock

import (
	"context"

	"github.com/mstanek/apidex"
)

var _ apidex.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of apidex.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *apidex.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *apidex.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
