package main

import (
	"context"
	"fmt"
	"io"

	"github.com/mstanek/apidex"
	"github.com/mstanek/apidex/codegen"
	"github.com/mstanek/apidex/fs"
	"github.com/mstanek/apidex/ingest"
	"github.com/mstanek/apidex/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	DB     *sqlite.DB

	APIs          apidex.APIService
	Endpoints     apidex.EndpointService
	Pages         apidex.DocPageService
	Quirks        apidex.QuirkService
	Workflows     apidex.WorkflowService
	Summaries     apidex.SummaryService
	Relationships apidex.RelationshipService
	Costs         apidex.CostService
	Overviews     apidex.OverviewService
	Sitemaps      apidex.SitemapService
	Detector      apidex.QuirkDetector
	Asker         apidex.Asker

	Ingester  *ingest.Ingester
	Generator *codegen.Generator
	Exporter  *fs.Exporter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log service calls to stderr"`

	Add       AddCmd       `cmd:"" help:"Register an API in the catalog"`
	List      ListCmd      `cmd:"" help:"List cataloged APIs"`
	Show      ShowCmd      `cmd:"" help:"Show details of a cataloged API"`
	Delete    DeleteCmd    `cmd:"" help:"Delete an API and everything recorded against it"`
	Endpoints EndpointsCmd `cmd:"" help:"List cataloged endpoints of an API"`
	Docs      DocsCmd      `cmd:"" help:"List ingested doc pages of an API"`
	Quirk     QuirkCmd     `cmd:"" help:"Manage recorded quirks"`
	Workflow  WorkflowCmd  `cmd:"" help:"Manage multi-API workflows"`
	Relate    RelateCmd    `cmd:"" help:"Record a relationship between two APIs"`
	Cost      CostCmd      `cmd:"" help:"Track and compare API costs"`
	Ask       AskCmd       `cmd:"" help:"Ask a question about an API's documentation"`
	Gen       GenCmd       `cmd:"" help:"Generate an example Go client for an endpoint"`
	Export    ExportCmd    `cmd:"" help:"Export a catalog snapshot to a directory"`
	Initdb    InitDBCmd    `cmd:"" name:"initdb" help:"Apply the schema to a hosted Postgres database"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Name        string   `arg:"" help:"API name"`
	URL         string   `arg:"" help:"Documentation URL"`
	BaseURL     string   `help:"API base URL for generated clients"`
	Auth        string   `default:"none" enum:"bearer,api_key,oauth2,basic,none" help:"Authentication scheme"`
	Pricing     string   `default:"" help:"Pricing model (free, per_call, subscription, tiered)"`
	Notes       string   `help:"Free-form notes"`
	Ingest      bool     `short:"i" help:"Run the ingest pipeline after registering"`
	Preview     bool     `short:"p" help:"Show discovered URLs without registering"`
	Force       bool     `short:"f" help:"Delete an existing API with the same name first"`
	Filter      []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
	Concurrency int      `short:"c" default:"10" help:"Concurrent fetch limit"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Name string `arg:"" help:"API name"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"API name"`
	Force bool   `help:"Confirm deletion"`
}

// EndpointsCmd is the "endpoints" subcommand.
type EndpointsCmd struct {
	Name   string `arg:"" help:"API name"`
	Method string `help:"Filter by HTTP method"`
	Path   string `help:"Filter by path substring"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Name    string `arg:"" help:"API name"`
	Full    bool   `help:"Show full page content"`
	Outline bool   `help:"Show page section outlines"`
}

// QuirkCmd groups the quirk subcommands.
type QuirkCmd struct {
	Add    QuirkAddCmd    `cmd:"" help:"Record a quirk manually"`
	List   QuirkListCmd   `cmd:"" help:"List recorded quirks of an API"`
	Detect QuirkDetectCmd `cmd:"" help:"Run rule-based quirk detection over an API"`
}

// QuirkAddCmd is "quirk add".
type QuirkAddCmd struct {
	Name        string `arg:"" help:"API name"`
	Description string `arg:"" help:"What the quirk is"`
	Category    string `default:"other" help:"Quirk category"`
	Severity    string `default:"info" enum:"info,warning,critical" help:"Severity"`
	Field       string `help:"Affected field name"`
	Example     string `help:"Example value showing the quirk"`
}

// QuirkListCmd is "quirk list".
type QuirkListCmd struct {
	Name     string `arg:"" help:"API name"`
	Category string `help:"Filter by category"`
}

// QuirkDetectCmd is "quirk detect".
type QuirkDetectCmd struct {
	Name string `arg:"" help:"API name"`
}

// WorkflowCmd groups the workflow subcommands.
type WorkflowCmd struct {
	Add    WorkflowAddCmd    `cmd:"" help:"Record a workflow with ordered steps"`
	List   WorkflowListCmd   `cmd:"" help:"List recorded workflows"`
	Show   WorkflowShowCmd   `cmd:"" help:"Show a workflow's steps"`
	Delete WorkflowDeleteCmd `cmd:"" help:"Delete a workflow"`
}

// WorkflowAddCmd is "workflow add". Steps are given as
// "api:operation" or "api:operation:notes", in order.
type WorkflowAddCmd struct {
	Name        string   `arg:"" help:"Workflow name"`
	Step        []string `short:"s" required:"" help:"Step as api:operation[:notes] (repeatable, in order)"`
	Description string   `help:"What the workflow does"`
}

// WorkflowListCmd is "workflow list".
type WorkflowListCmd struct{}

// WorkflowShowCmd is "workflow show".
type WorkflowShowCmd struct {
	Name string `arg:"" help:"Workflow name"`
}

// WorkflowDeleteCmd is "workflow delete".
type WorkflowDeleteCmd struct {
	Name  string `arg:"" help:"Workflow name"`
	Force bool   `help:"Confirm deletion"`
}

// RelateCmd is the "relate" subcommand.
type RelateCmd struct {
	Name    string `arg:"" help:"API name"`
	Related string `arg:"" help:"Related API name"`
	Kind    string `required:"" enum:"alternative,complement,dependency" help:"Relationship kind"`
	Notes   string `help:"Why the APIs relate"`
}

// CostCmd groups the cost subcommands.
type CostCmd struct {
	Add     CostAddCmd     `cmd:"" help:"Record a cost entry for an API operation"`
	Compare CostCompareCmd `cmd:"" help:"Compare providers by projected monthly cost"`
}

// CostAddCmd is "cost add".
type CostAddCmd struct {
	Name          string `arg:"" help:"API name"`
	Operation     string `arg:"" help:"Operation the cost applies to"`
	UnitCost      int64  `name:"unit-cost" required:"" help:"Unit cost in USD micro-dollars"`
	Unit          string `default:"call" help:"Billing unit (call, 1k_tokens, month, ...)"`
	MonthlyVolume int64  `name:"volume" help:"Expected monthly volume"`
	Notes         string `help:"Free-form notes"`
}

// CostCompareCmd is "cost compare".
type CostCompareCmd struct {
	Operation string `help:"Compare a single operation only"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Name     string `arg:"" help:"API name"`
	Question string `arg:"" help:"Question to ask about the documentation"`
}

// GenCmd is the "gen" subcommand.
type GenCmd struct {
	Name   string `arg:"" help:"API name"`
	Method string `arg:"" help:"HTTP method"`
	Path   string `arg:"" help:"Endpoint path"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir string `arg:"" help:"Output directory"`
}

// InitDBCmd is the "initdb" subcommand.
type InitDBCmd struct {
	DSN string `env:"APIDEX_PG_DSN" help:"Postgres connection string"`
}

// lookupAPI resolves an API name, printing a friendly error when the
// API is not cataloged.
func lookupAPI(deps *Dependencies, name string) (*apidex.API, error) {
	api, err := deps.APIs.FindAPIByName(deps.Ctx, name)
	if err != nil {
		if apidex.ErrorCode(err) == apidex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: api %q not found. Use 'apidex list' to see cataloged APIs.\n", name)
			return nil, err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return nil, err
	}
	return api, nil
}
