// Package ingest orchestrates the documentation ingest pipeline.
// It coordinates URL discovery, fetching, extraction, endpoint
// proposal, verification, and quirk detection for a cataloged API.
package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mstanek/apidex"
	"golang.org/x/sync/errgroup"
)

// Ingester runs the four-phase ingest pipeline for a single API:
// investigate, extract, verify, report.
type Ingester struct {
	Sitemaps          apidex.SitemapService
	Fetcher           apidex.Fetcher
	Extractor         apidex.Extractor
	Converter         apidex.Converter
	EndpointExtractor apidex.EndpointExtractor
	LinkSelector      apidex.LinkSelector
	TokenCounter      apidex.TokenCounter
	Detector          apidex.QuirkDetector

	Pages     apidex.DocPageService
	Endpoints apidex.EndpointService
	Quirks    apidex.QuirkService

	RateLimiter apidex.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration

	// VerifySample bounds how many stored pages the verify phase
	// re-fetches for drift checking. Zero means defaultVerifySample.
	VerifySample int
}

// Phase identifies a pipeline phase in progress events.
type Phase string

// Pipeline phases.
const (
	PhaseInvestigate Phase = "investigate"
	PhaseExtract     Phase = "extract"
	PhaseVerify      Phase = "verify"
	PhaseReport      Phase = "report"
)

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during an ingest run. Events carry
// the phase they belong to.
type ProgressEvent struct {
	Phase     Phase
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressFunc is a callback for reporting ingest progress.
type ProgressFunc func(event ProgressEvent)

// Report holds the outcome of an ingest run.
type Report struct {
	PagesSaved  int
	PagesFailed int
	Bytes       int
	Tokens      int
	Endpoints   int
	Parameters  int
	Quirks      int
	Drifted     int
}

// Frontier configuration for the link-walking fallback.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
	// maxWalkURLs limits the number of URLs visited to prevent runaway walks.
	maxWalkURLs = 1000

	defaultVerifySample = 5
	defaultConcurrency  = 10
)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	position  int
	url       string
	title     string
	markdown  string
	hash      string
	proposals []apidex.ExtractedEndpoint
	err       error
}

// savedPage pairs a stored page's URL with its content hash for the
// verify phase.
type savedPage struct {
	url  string
	hash string
}

// Investigate discovers documentation URLs for an API without storing
// anything. It tries sitemap discovery first and falls back to
// recursive link walking from the docs URL when the site has no
// usable sitemap. The returned slice is in ingest order.
func (ing *Ingester) Investigate(ctx context.Context, api *apidex.API, filter *apidex.URLFilter) ([]string, error) {
	if api.DocsURL == "" {
		return nil, apidex.Errorf(apidex.EINVALID, "api docs URL required")
	}

	urls, err := ing.Sitemaps.DiscoverURLs(ctx, api.DocsURL, filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}
	if len(urls) > 0 {
		return urls, nil
	}

	if ing.LinkSelector == nil || ing.RateLimiter == nil {
		return []string{}, nil
	}
	return ing.walkLinks(ctx, api.DocsURL, filter)
}

// Run executes the full pipeline for an API and returns the report.
// The progress callback, if provided, receives phase-tagged events as
// the run proceeds.
func (ing *Ingester) Run(ctx context.Context, api *apidex.API, filter *apidex.URLFilter, progress ProgressFunc) (*Report, error) {
	// Phase 1: investigate.
	emit(progress, ProgressEvent{Phase: PhaseInvestigate, Type: ProgressStarted})
	urls, err := ing.Investigate(ctx, api, filter)
	if err != nil {
		return nil, err
	}
	emit(progress, ProgressEvent{Phase: PhaseInvestigate, Type: ProgressFinished, Total: len(urls)})

	report := &Report{}
	if len(urls) == 0 {
		emit(progress, ProgressEvent{Phase: PhaseReport, Type: ProgressFinished})
		return report, nil
	}

	// Phase 2: extract.
	saved, proposals, err := ing.extract(ctx, api, urls, report, progress)
	if err != nil {
		return nil, err
	}

	// Phase 3: verify.
	if err := ing.verify(ctx, api, saved, proposals, report, progress); err != nil {
		return nil, err
	}

	// Phase 4: report.
	emit(progress, ProgressEvent{Phase: PhaseReport, Type: ProgressFinished, Completed: report.PagesSaved, Total: len(urls)})
	return report, nil
}

// extract fetches every discovered URL, stores the pages, and collects
// endpoint proposals from the raw HTML. Proposals are deduplicated
// across pages by (method, path), first page wins.
func (ing *Ingester) extract(ctx context.Context, api *apidex.API, urls []string, report *Report, progress ProgressFunc) ([]savedPage, []apidex.ExtractedEndpoint, error) {
	concurrency := ing.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	total := len(urls)
	emit(progress, ProgressEvent{Phase: PhaseExtract, Type: ProgressStarted, Total: total})

	resultCh := make(chan pageResult, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, pageURL := range urls {
			i, pageURL := i, pageURL
			g.Go(func() error {
				resultCh <- ing.processURL(gctx, i, pageURL)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in order.
	results := make([]pageResult, total)
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		event := ProgressEvent{
			Phase:     PhaseExtract,
			Completed: int(completed.Load()),
			Total:     total,
			URL:       result.url,
		}
		if result.err != nil {
			report.PagesFailed++
			event.Type = ProgressFailed
			event.Error = result.err
		} else {
			event.Type = ProgressCompleted
		}
		emit(progress, event)
	}

	// Save pages and merge proposals in position order.
	var saved []savedPage
	var merged []apidex.ExtractedEndpoint
	seen := make(map[string]bool)

	for _, result := range results {
		if result.err != nil {
			continue
		}

		tokens := 0
		if ing.TokenCounter != nil {
			if n, err := ing.TokenCounter.CountTokens(ctx, result.markdown); err == nil {
				tokens = n
			}
		}

		page := &apidex.DocPage{
			APIID:       api.ID,
			SourceURL:   result.url,
			Title:       result.title,
			Content:     result.markdown,
			ContentHash: result.hash,
			Tokens:      tokens,
			Position:    result.position,
		}
		if err := ing.Pages.CreateDocPage(ctx, page); err != nil {
			report.PagesFailed++
			continue
		}

		report.PagesSaved++
		report.Bytes += len(result.markdown)
		report.Tokens += tokens
		saved = append(saved, savedPage{url: result.url, hash: result.hash})

		for _, prop := range result.proposals {
			key := prop.Method + " " + prop.Path
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, prop)
		}
	}

	emit(progress, ProgressEvent{Phase: PhaseExtract, Type: ProgressFinished, Completed: total, Total: total})
	return saved, merged, nil
}

// processURL fetches and processes a single URL.
func (ing *Ingester) processURL(ctx context.Context, position int, pageURL string) pageResult {
	result := pageResult{position: position, url: pageURL}

	if ing.RateLimiter != nil {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			result.err = err
			return result
		}
		if err := ing.RateLimiter.Wait(ctx, parsed.Host); err != nil {
			result.err = err
			return result
		}
	}

	html, err := ing.fetchWithRetry(ctx, pageURL)
	if err != nil {
		result.err = err
		return result
	}

	extracted, err := ing.Extractor.Extract(html)
	if err != nil {
		result.err = err
		return result
	}

	markdown, err := ing.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		result.err = err
		return result
	}

	result.title = extracted.Title
	result.markdown = markdown
	result.hash = ComputeHash(markdown)

	// Endpoint proposals come from the raw HTML: reference tables and
	// code blocks are often stripped by content extraction.
	if ing.EndpointExtractor != nil {
		if proposals, err := ing.EndpointExtractor.ExtractEndpoints(html); err == nil {
			result.proposals = proposals
		}
	}

	return result
}

// verify re-fetches a bounded sample of stored pages to flag content
// drift, validates and stores the endpoint proposals, and runs quirk
// detection over the stored endpoints.
func (ing *Ingester) verify(ctx context.Context, api *apidex.API, saved []savedPage, proposals []apidex.ExtractedEndpoint, report *Report, progress ProgressFunc) error {
	sample := ing.VerifySample
	if sample <= 0 {
		sample = defaultVerifySample
	}
	if sample > len(saved) {
		sample = len(saved)
	}

	emit(progress, ProgressEvent{Phase: PhaseVerify, Type: ProgressStarted, Total: sample + len(proposals)})

	completed := 0
	for _, page := range saved[:sample] {
		completed++
		event := ProgressEvent{
			Phase:     PhaseVerify,
			Completed: completed,
			Total:     sample + len(proposals),
			URL:       page.url,
		}

		hash, err := ing.refetchHash(ctx, page.url)
		switch {
		case err != nil:
			event.Type = ProgressFailed
			event.Error = err
		case hash != page.hash:
			report.Drifted++
			event.Type = ProgressCompleted
		default:
			event.Type = ProgressCompleted
		}
		emit(progress, event)
	}

	// Validate proposals and store the ones that pass. Invalid
	// proposals are dropped silently; conflicts mean the endpoint was
	// already cataloged.
	for _, prop := range proposals {
		completed++

		endpoint := &apidex.Endpoint{
			APIID:   api.ID,
			Method:  prop.Method,
			Path:    prop.Path,
			Summary: prop.Summary,
		}
		for _, p := range prop.Parameters {
			endpoint.Parameters = append(endpoint.Parameters, &apidex.Parameter{
				Name:        p.Name,
				Location:    p.Location,
				Type:        p.Type,
				Required:    p.Required,
				Example:     p.Example,
				Description: p.Description,
			})
		}

		if err := endpoint.Validate(); err != nil {
			continue
		}
		if err := ing.Endpoints.CreateEndpoint(ctx, endpoint); err != nil {
			if apidex.ErrorCode(err) != apidex.ECONFLICT {
				emit(progress, ProgressEvent{
					Phase:     PhaseVerify,
					Type:      ProgressFailed,
					Completed: completed,
					Total:     sample + len(proposals),
					Error:     err,
				})
			}
			continue
		}

		report.Endpoints++
		report.Parameters += len(endpoint.Parameters)
		emit(progress, ProgressEvent{
			Phase:     PhaseVerify,
			Type:      ProgressCompleted,
			Completed: completed,
			Total:     sample + len(proposals),
		})
	}

	// Quirk detection runs over everything stored for the API, not
	// just this run, so re-ingests pick up earlier endpoints too.
	if ing.Detector != nil && ing.Quirks != nil {
		if err := ing.detectQuirks(ctx, api, report); err != nil {
			return err
		}
	}

	emit(progress, ProgressEvent{Phase: PhaseVerify, Type: ProgressFinished, Completed: completed, Total: sample + len(proposals)})
	return nil
}

func (ing *Ingester) detectQuirks(ctx context.Context, api *apidex.API, report *Report) error {
	endpoints, err := ing.Endpoints.FindEndpoints(ctx, apidex.EndpointFilter{APIID: &api.ID})
	if err != nil {
		return fmt.Errorf("load endpoints for detection: %w", err)
	}
	existing, err := ing.Quirks.FindQuirks(ctx, apidex.QuirkFilter{APIID: &api.ID})
	if err != nil {
		return fmt.Errorf("load quirks for detection: %w", err)
	}

	detected, err := ing.Detector.DetectQuirks(ctx, api, endpoints, existing)
	if err != nil {
		return fmt.Errorf("quirk detection: %w", err)
	}

	for _, quirk := range detected {
		if err := ing.Quirks.CreateQuirk(ctx, quirk); err != nil {
			continue
		}
		report.Quirks++
	}
	return nil
}

// refetchHash fetches a URL again and returns the content hash of the
// converted markdown, for comparison against the stored hash.
func (ing *Ingester) refetchHash(ctx context.Context, pageURL string) (string, error) {
	if ing.RateLimiter != nil {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			return "", err
		}
		if err := ing.RateLimiter.Wait(ctx, parsed.Host); err != nil {
			return "", err
		}
	}

	html, err := ing.fetchWithRetry(ctx, pageURL)
	if err != nil {
		return "", err
	}
	extracted, err := ing.Extractor.Extract(html)
	if err != nil {
		return "", err
	}
	markdown, err := ing.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return "", err
	}
	return ComputeHash(markdown), nil
}

// walkLinks discovers URLs by following links from the start URL.
// Pages are fetched only to harvest links; content is stored later by
// the extract phase. The walk stays on the start URL's host and under
// its path prefix.
func (ing *Ingester) walkLinks(ctx context.Context, startURL string, filter *apidex.URLFilter) ([]string, error) {
	sourceURL, err := url.Parse(startURL)
	if err != nil {
		return nil, apidex.Errorf(apidex.EINVALID, "invalid docs URL %q", startURL)
	}
	pathPrefix := sourceURL.Path

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(apidex.DiscoveredLink{
		URL:      startURL,
		Priority: apidex.PriorityNavigation,
	})

	var discovered []string
	for len(discovered) < maxWalkURLs {
		link, ok := frontier.Pop()
		if !ok {
			break
		}
		if ctx.Err() != nil {
			break
		}

		linkURL, err := url.Parse(link.URL)
		if err != nil {
			continue
		}
		if err := ing.RateLimiter.Wait(ctx, linkURL.Host); err != nil {
			break
		}

		html, err := ing.fetchWithRetry(ctx, link.URL)
		if err != nil {
			continue
		}
		discovered = append(discovered, link.URL)

		links, err := ing.LinkSelector.ExtractLinks(html, link.URL)
		if err != nil {
			continue
		}
		for _, found := range links {
			foundURL, err := url.Parse(found.URL)
			if err != nil {
				continue
			}
			if foundURL.Host != sourceURL.Host {
				continue
			}
			if !strings.HasPrefix(foundURL.Path, pathPrefix) {
				continue
			}
			if !filter.Match(found.URL) {
				continue
			}
			frontier.Push(found)
		}
	}

	if discovered == nil {
		return []string{}, nil
	}
	return discovered, nil
}

func (ing *Ingester) fetchWithRetry(ctx context.Context, pageURL string) (string, error) {
	delays := ing.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetchFn := func(ctx context.Context, u string) (string, error) {
		return ing.Fetcher.Fetch(ctx, u)
	}
	return FetchWithRetryDelays(ctx, pageURL, fetchFn, nil, delays)
}

func emit(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
