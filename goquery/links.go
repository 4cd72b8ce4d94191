// Package goquery provides CSS-selector based implementations of
// apidex.LinkSelector and apidex.EndpointExtractor for documentation
// HTML.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mstanek/apidex"
)

// Ensure LinkSelector implements apidex.LinkSelector.
var _ apidex.LinkSelector = (*LinkSelector)(nil)

// SelectorConfig defines a CSS selector with its priority and source
// label.
type SelectorConfig struct {
	Selector string
	Priority apidex.LinkPriority
	Source   string
}

// defaultConfigs cover common HTML patterns across documentation
// frameworks: TOC and sidebar first, then navigation, main content,
// and footer.
var defaultConfigs = []SelectorConfig{
	{".toc a[href], .table-of-contents a[href], .sidebar a[href], aside a[href]", apidex.PriorityTOC, "toc"},
	{`nav a[href], [role="navigation"] a[href], .nav a[href], .menu a[href], .navbar a[href]`, apidex.PriorityNavigation, "nav"},
	{"main a[href], article a[href], .content a[href], .doc-content a[href]", apidex.PriorityContent, "content"},
	{"footer a[href], .footer a[href]", apidex.PriorityFooter, "footer"},
}

// LinkSelector extracts prioritized links from documentation pages
// using universal CSS selectors. A fallback pass over all anchors
// under the base path catches sites with non-semantic markup.
type LinkSelector struct {
	configs  []SelectorConfig
	fallback bool
}

// LinkOption configures a LinkSelector.
type LinkOption func(*LinkSelector)

// WithConfigs replaces the default selector configurations.
func WithConfigs(configs []SelectorConfig) LinkOption {
	return func(s *LinkSelector) {
		s.configs = configs
	}
}

// WithoutFallback disables the low-priority pass over all anchors.
func WithoutFallback() LinkOption {
	return func(s *LinkSelector) {
		s.fallback = false
	}
}

// NewLinkSelector creates a LinkSelector with the default selector set
// and fallback extraction enabled.
func NewLinkSelector(opts ...LinkOption) *LinkSelector {
	s := &LinkSelector{
		configs:  defaultConfigs,
		fallback: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractLinks parses HTML and returns discovered links with priority.
// Links are deduplicated by URL, keeping the highest priority version.
// External links (different host than baseURL) are filtered out.
func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]apidex.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, apidex.Errorf(apidex.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apidex.Errorf(apidex.EINVALID, "failed to parse HTML: %v", err)
	}

	// Track seen URLs with their index in the result slice for O(1)
	// priority updates.
	seen := make(map[string]int)
	var links []apidex.DiscoveredLink

	add := func(sel *goquery.Selection, priority apidex.LinkPriority, source string, pathPrefix string) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if !isSameHost(base, resolved) {
			return
		}

		if pathPrefix != "" {
			resolvedURL, err := url.Parse(resolved)
			if err != nil || !strings.HasPrefix(resolvedURL.Path, pathPrefix) {
				return
			}
		}

		link := apidex.DiscoveredLink{
			URL:      resolved,
			Priority: priority,
			Text:     strings.TrimSpace(sel.Text()),
			Source:   source,
		}

		if idx, ok := seen[resolved]; ok {
			if priority > links[idx].Priority {
				links[idx] = link
			}
		} else {
			seen[resolved] = len(links)
			links = append(links, link)
		}
	}

	for _, config := range s.configs {
		doc.Find(config.Selector).Each(func(_ int, sel *goquery.Selection) {
			add(sel, config.Priority, config.Source, "")
		})
	}

	// Fallback: any anchor under the base path, at low priority.
	// Semantic matches keep their higher priority through dedup.
	if s.fallback {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			add(sel, apidex.PriorityFallback, "fallback", base.Path)
		})
	}

	return links, nil
}

// resolveURL resolves a relative URL against a base URL. Returns empty
// string if the href cannot be parsed or if the resolved URL is
// self-referential. Fragments are stripped for deduplication.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isSameHost checks if the resolved URL has the same host as the base
// URL. Exact host matching; subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be
// skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
