package internal

import (
	"io"
	"log/slog"

	"github.com/starford/kitscan/internal/report"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	logger  *slog.Logger
	root    string
	record  bool
	version string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger overrides the logger built from the configured level.
func WithLogger(l *slog.Logger) Option {
	return func(a *application) {
		a.logger = l
	}
}

// WithRoot sets the project root, bypassing configuration and discovery.
func WithRoot(dir string) Option {
	return func(a *application) {
		a.root = dir
	}
}

// WithRecording turns on catalog recording regardless of configuration.
func WithRecording(enabled bool) Option {
	return func(a *application) {
		a.record = a.record || enabled
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// ScanRequest describes one scan-and-report run of the CLI.
type ScanRequest struct {
	Selector  string
	Scenarios bool
	Format    report.Format
	Out       io.Writer
	// Color forces colored text output on or off; nil follows the terminal.
	Color *bool
}

func (r ScanRequest) reporter() *report.Reporter {
	var opts []report.Option
	if r.Color != nil {
		opts = append(opts, report.WithColor(*r.Color))
	}
	return report.New(r.Out, r.Format, opts...)
}
