// Package fs writes catalog snapshots to the filesystem. Exports are
// staged in a temporary directory and atomically renamed into place,
// so readers never observe a half-written snapshot.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mstanek/apidex"
)

// Exporter writes a catalog snapshot: catalog.md with the API
// overview, quirks, workflows and cost comparison, plus the stored doc
// pages of every API as markdown files.
type Exporter struct {
	APIs      apidex.APIService
	Overviews apidex.OverviewService
	Pages     apidex.DocPageService
	Quirks    apidex.QuirkService
	Workflows apidex.WorkflowService
	Costs     apidex.CostService
}

// Export writes the snapshot to dir. Content is staged in dir.tmp and
// renamed over dir on success; a failed export leaves any previous
// snapshot untouched.
func (e *Exporter) Export(ctx context.Context, dir string) error {
	if dir == "" {
		return apidex.Errorf(apidex.EINVALID, "export directory required")
	}

	tempDir := dir + ".tmp"
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return err
	}

	if err := e.export(ctx, tempDir); err != nil {
		_ = os.RemoveAll(tempDir)
		return err
	}

	if err := os.RemoveAll(dir); err != nil {
		_ = os.RemoveAll(tempDir)
		return err
	}
	return os.Rename(tempDir, dir)
}

func (e *Exporter) export(ctx context.Context, tempDir string) error {
	apis, err := e.APIs.FindAPIs(ctx, apidex.APIFilter{})
	if err != nil {
		return fmt.Errorf("load apis: %w", err)
	}

	catalog, err := e.renderCatalog(ctx, apis)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(tempDir, "catalog.md"), []byte(catalog), 0644); err != nil {
		return err
	}

	for _, api := range apis {
		if err := e.exportPages(ctx, tempDir, api); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) exportPages(ctx context.Context, tempDir string, api *apidex.API) error {
	pages, err := e.Pages.FindDocPages(ctx, apidex.DocPageFilter{
		APIID:  &api.ID,
		SortBy: apidex.SortByPosition,
	})
	if err != nil {
		return fmt.Errorf("load doc pages for %s: %w", api.Name, err)
	}

	for _, page := range pages {
		relPath, err := URLToPath(page.SourceURL)
		if err != nil {
			continue
		}
		fullPath := filepath.Join(tempDir, api.Name, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, []byte(FormatDocPage(api, page)), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) renderCatalog(ctx context.Context, apis []*apidex.API) (string, error) {
	var b strings.Builder
	b.WriteString("# API Catalog\n\n")
	fmt.Fprintf(&b, "Exported: %s\n\n", time.Now().Format("2006-01-02"))

	if err := e.renderOverview(ctx, &b); err != nil {
		return "", err
	}
	if err := e.renderQuirks(ctx, &b, apis); err != nil {
		return "", err
	}
	if err := e.renderWorkflows(ctx, &b); err != nil {
		return "", err
	}
	if err := e.renderCostComparison(ctx, &b, apis); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (e *Exporter) renderOverview(ctx context.Context, b *strings.Builder) error {
	overviews, err := e.Overviews.APIOverviews(ctx)
	if err != nil {
		return fmt.Errorf("load overview: %w", err)
	}

	b.WriteString("## APIs\n\n")
	if len(overviews) == 0 {
		b.WriteString("No APIs cataloged.\n\n")
		return nil
	}

	b.WriteString("| API | Endpoints | Parameters | Quirks | Doc pages | Monthly cost |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, o := range overviews {
		fmt.Fprintf(b, "| %s | %d | %d | %d | %d | %s |\n",
			o.Name, o.Endpoints, o.Parameters, o.Quirks, o.DocPages,
			apidex.FormatMicros(o.MonthlyCostMicros))
	}
	b.WriteString("\n")
	return nil
}

func (e *Exporter) renderQuirks(ctx context.Context, b *strings.Builder, apis []*apidex.API) error {
	b.WriteString("## Quirks\n\n")

	found := false
	for _, api := range apis {
		quirks, err := e.Quirks.FindQuirks(ctx, apidex.QuirkFilter{APIID: &api.ID})
		if err != nil {
			return fmt.Errorf("load quirks for %s: %w", api.Name, err)
		}
		if len(quirks) == 0 {
			continue
		}
		found = true

		fmt.Fprintf(b, "### %s\n\n", api.Name)
		for _, q := range quirks {
			field := q.Field
			if field == "" {
				field = "(endpoint)"
			}
			fmt.Fprintf(b, "- [%s] %s (%s): %s\n", q.Severity, field, q.Category, q.Description)
		}
		b.WriteString("\n")
	}
	if !found {
		b.WriteString("No quirks recorded.\n\n")
	}
	return nil
}

func (e *Exporter) renderWorkflows(ctx context.Context, b *strings.Builder) error {
	workflows, err := e.Workflows.FindWorkflows(ctx, apidex.WorkflowFilter{})
	if err != nil {
		return fmt.Errorf("load workflows: %w", err)
	}

	b.WriteString("## Workflows\n\n")
	if len(workflows) == 0 {
		b.WriteString("No workflows recorded.\n\n")
		return nil
	}

	for _, wf := range workflows {
		full, err := e.Workflows.FindWorkflowByID(ctx, wf.ID)
		if err != nil {
			return fmt.Errorf("load workflow %s: %w", wf.Name, err)
		}

		fmt.Fprintf(b, "### %s\n\n", full.Name)
		if full.Description != "" {
			fmt.Fprintf(b, "%s\n\n", full.Description)
		}
		for _, step := range full.Steps {
			name := step.APIName
			if name == "" {
				name = step.APIID
			}
			fmt.Fprintf(b, "%d. %s: %s", step.Position, name, step.Operation)
			if step.Notes != "" {
				fmt.Fprintf(b, " (%s)", step.Notes)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return nil
}

func (e *Exporter) renderCostComparison(ctx context.Context, b *strings.Builder, apis []*apidex.API) error {
	entries, err := e.Costs.FindCostEntries(ctx, apidex.CostFilter{})
	if err != nil {
		return fmt.Errorf("load cost entries: %w", err)
	}

	b.WriteString("## Cost comparison\n\n")
	if len(entries) == 0 {
		b.WriteString("No cost entries recorded.\n")
		return nil
	}

	names := make(map[string]string, len(apis))
	for _, api := range apis {
		names[api.ID] = api.Name
	}
	lookup := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return id
	}

	for _, cmp := range apidex.CompareCosts(entries, lookup) {
		fmt.Fprintf(b, "### %s\n\n", cmp.Operation)
		for _, opt := range cmp.Options {
			fmt.Fprintf(b, "- %s: %s/mo", opt.APIName, apidex.FormatMicros(opt.MonthlyCostMicros))
			if opt.Cheapest {
				b.WriteString(" (cheapest)")
			} else {
				fmt.Fprintf(b, " (+%s)", apidex.FormatMicros(opt.SavingsMicros))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return nil
}

// URLToPath converts a documentation URL to a relative file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path
	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")
	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}
	return path + ".md", nil
}

// FormatDocPage formats a stored doc page with YAML frontmatter.
func FormatDocPage(api *apidex.API, page *apidex.DocPage) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("api: ")
	b.WriteString(api.Name)
	b.WriteString("\nsource: ")
	b.WriteString(page.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\nfetched: ")
	b.WriteString(page.FetchedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(page.Content)
	return b.String()
}
