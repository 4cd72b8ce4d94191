package mock

import (
	"context"

	"github.com/mstanek/apidex"
)

var _ apidex.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of apidex.URLFrontier.
type URLFrontier struct {
	PushFn func(link apidex.DiscoveredLink) bool
	PopFn  func() (apidex.DiscoveredLink, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *URLFrontier) Push(link apidex.DiscoveredLink) bool {
	return f.PushFn(link)
}

func (f *URLFrontier) Pop() (apidex.DiscoveredLink, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}

var _ apidex.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of apidex.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.WaitFn == nil {
		return nil
	}
	return d.WaitFn(ctx, domain)
}
