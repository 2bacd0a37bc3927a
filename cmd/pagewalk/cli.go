package main

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Dependencies holds everything commands need to execute.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run  RunCmd  `cmd:"" help:"Crawl one or more paginated sources"`
	Plan PlanCmd `cmd:"" help:"Resolve and print page URLs for a template without fetching"`

	Verbose bool `short:"v" help:"Enable debug logging"`
}

// RunCmd is the "run" subcommand. A single source can be configured
// entirely from flags; several sources go in a YAML profile file.
type RunCmd struct {
	URL     string `arg:"" optional:"" help:"URL template, e.g. 'https://example.com/blog?page={page}'"`
	Profile string `short:"p" type:"path" help:"YAML profile file with one or more sources"`

	Parser     string            `default:"links" enum:"links,articles,content,feed" help:"Record extraction strategy"`
	Sink       string            `default:"json:./data" help:"Where to store batches: json:<dir> or sqlite:<path>"`
	Header     map[string]string `short:"H" help:"Request header (repeatable), e.g. -H 'User-Agent=bot'"`
	Client     string            `default:"http" enum:"http,resty" help:"HTTP client implementation"`
	Timeout    time.Duration     `default:"10s" help:"Per-request timeout"`
	StartPage  int               `default:"1" help:"First page number"`
	MinDelay   time.Duration     `default:"1s" help:"Minimum inter-page delay"`
	MaxDelay   time.Duration     `default:"3s" help:"Maximum inter-page delay"`
	Retries    int               `default:"3" help:"Retry attempts per page"`
	EmptyLimit int               `default:"3" help:"Consecutive empty/failed pages before stopping"`
	Checkpoint int               `default:"10" help:"Pages between periodic saves"`
	MaxPages   int               `default:"10000000" help:"Hard page-count ceiling"`
	RateLimit  float64           `default:"0" help:"Requests per second per domain (0 disables)"`
	Dedup      bool              `help:"Drop records already stored in earlier batches"`
}

// PlanCmd is the "plan" subcommand.
type PlanCmd struct {
	URL       string `arg:"" help:"URL template to resolve"`
	StartPage int    `default:"1" help:"First page number"`
	Pages     int    `short:"n" default:"5" help:"Number of URLs to print"`
}
