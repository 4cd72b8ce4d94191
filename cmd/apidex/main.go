package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mstanek/apidex"
	"github.com/mstanek/apidex/codegen"
	"github.com/mstanek/apidex/detect"
	"github.com/mstanek/apidex/fs"
	"github.com/mstanek/apidex/gemini"
	"github.com/mstanek/apidex/goquery"
	"github.com/mstanek/apidex/htmltomarkdown"
	apidexhttp "github.com/mstanek/apidex/http"
	"github.com/mstanek/apidex/ingest"
	apidexslog "github.com/mstanek/apidex/slog"
	"github.com/mstanek/apidex/sqlite"
	"github.com/mstanek/apidex/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("apidex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'apidex --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Dispatch on the parsed command, not args[0]: global flags like
	// -v may legally precede the subcommand.
	cmd := kongCtx.Command()
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		cmd = cmd[:i]
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	// initdb talks to Postgres only; no local catalog needed.
	if cmd != "initdb" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set APIDEX_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		deps.DB = m.DB
		deps.APIs = sqlite.NewAPIService(m.DB)
		deps.Endpoints = sqlite.NewEndpointService(m.DB)
		deps.Pages = sqlite.NewDocPageService(m.DB)
		deps.Quirks = sqlite.NewQuirkService(m.DB)
		workflows := sqlite.NewWorkflowService(m.DB)
		deps.Workflows = workflows
		deps.Summaries = workflows
		deps.Relationships = sqlite.NewRelationshipService(m.DB)

		costs := sqlite.NewCostService(m.DB)
		deps.Costs = costs
		deps.Overviews = costs

		deps.Detector = detect.NewDetector()
		deps.Generator = codegen.NewGenerator()
		deps.Exporter = &fs.Exporter{
			APIs:      deps.APIs,
			Overviews: deps.Overviews,
			Pages:     deps.Pages,
			Quirks:    deps.Quirks,
			Workflows: deps.Workflows,
			Costs:     deps.Costs,
		}
		deps.Sitemaps = apidexslog.NewLoggingSitemapService(apidexhttp.NewSitemapService(nil), logger)
	}

	// The ingest stack is only needed when add actually crawls; the
	// token counter downloads its model on first use, so a plain
	// registration must not construct it.
	if cmd == "add" && (cli.Add.Ingest || cli.Add.Preview) {
		fetcher := newFetcher()
		defer fetcher.Close()

		deps.Ingester = &ingest.Ingester{
			Sitemaps:          deps.Sitemaps,
			Fetcher:           apidexslog.NewLoggingFetcher(fetcher, logger),
			Extractor:         trafilatura.NewExtractor(),
			Converter:         htmltomarkdown.NewConverter(),
			EndpointExtractor: goquery.NewEndpointExtractor(),
			LinkSelector:      goquery.NewLinkSelector(),
			Detector:          deps.Detector,
			Pages:             deps.Pages,
			Endpoints:         deps.Endpoints,
			Quirks:            deps.Quirks,
			RateLimiter:       ingest.NewDomainLimiter(1.0),
			Concurrency:       cli.Add.Concurrency,
		}

		if cli.Add.Ingest {
			tokenCounter, err := gemini.NewTokenCounter(tokenizerModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			deps.Ingester.TokenCounter = tokenCounter
		}
	}

	if cmd == "ask" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		deps.Asker = apidexslog.NewLoggingAsker(gemini.NewAsker(client, deps.Pages, deps.Quirks), logger)
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for token counting during ingest reporting.
const tokenizerModel = "gemini-2.5-flash"

// newFetcher picks the hosted scraping client when configured and
// plain HTTP otherwise.
func newFetcher() apidex.Fetcher {
	scrapeURL := os.Getenv("SCRAPE_API_URL")
	scrapeKey := os.Getenv("SCRAPE_API_KEY")
	if scrapeURL != "" && scrapeKey != "" {
		return apidexhttp.NewScrapeClient(scrapeURL, scrapeKey)
	}
	return apidexhttp.NewFetcher()
}

func defaultDBPath() string {
	if path := os.Getenv("APIDEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "apidex.db"
	}
	dir := filepath.Join(home, ".apidex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "apidex.db")
}
