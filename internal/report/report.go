// Package report renders scan results as JSON, YAML, or a terminal summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/starford/kitscan/internal/apperr"
	"github.com/starford/kitscan/internal/models"
)

// Format selects the output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultLimit is how many names per category the summary lists.
const DefaultLimit = 10

const (
	banner      = "============================================================"
	title       = "Component Scan"
	markOK      = "✓"
	markSkipped = "○"
)

// ParseFormat validates a format name. An empty name means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", apperr.ErrUnknownFormat, s)
	}
}

// Reporter writes scan results to w.
type Reporter struct {
	w      io.Writer
	format Format
	limit  int

	ok      *color.Color
	skipped *color.Color
	heading *color.Color
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLimit sets how many names per category the summary lists.
func WithLimit(n int) Option {
	return func(r *Reporter) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithColor forces colored markers on or off. By default color follows
// whether stdout is a terminal.
func WithColor(enabled bool) Option {
	return func(r *Reporter) {
		for _, c := range []*color.Color{r.ok, r.skipped, r.heading} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// New creates a Reporter.
func New(w io.Writer, format Format, opts ...Option) *Reporter {
	r := &Reporter{
		w:       w,
		format:  format,
		limit:   DefaultLimit,
		ok:      color.New(color.FgGreen),
		skipped: color.New(color.Faint),
		heading: color.New(color.Bold),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes res in the configured format. Category order and item order
// are taken from res unchanged.
func (r *Reporter) Render(res models.Result) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(res)
	case FormatYAML:
		return r.renderYAML(res)
	default:
		return r.renderText(res)
	}
}

func (r *Reporter) renderJSON(res models.Result) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

func (r *Reporter) renderYAML(res models.Result) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("report: encode yaml: %w", err)
	}
	return enc.Close()
}

func (r *Reporter) renderText(res models.Result) error {
	var b strings.Builder
	fmt.Fprintln(&b, banner)
	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b, banner)

	for _, c := range models.Categories {
		if !res.Has(c) {
			continue
		}
		items := res.Items(c)
		testable := 0
		for _, it := range items {
			if it.Testable {
				testable++
			}
		}
		fmt.Fprintf(&b, "\n%s: %d total, %d testable\n",
			r.heading.Sprint(strings.ToUpper(string(c))), len(items), testable)

		for i, it := range items {
			if i == r.limit {
				break
			}
			mark := r.skipped.Sprint(markSkipped)
			if it.Testable {
				mark = r.ok.Sprint(markOK)
			}
			fmt.Fprintf(&b, "  %s %s\n", mark, it.Name)
		}
		if len(items) > r.limit {
			fmt.Fprintf(&b, "  ... and %d more\n", len(items)-r.limit)
		}
	}

	if res.ScenariosRequested {
		fmt.Fprintf(&b, "\n%s: %d generated\n", r.heading.Sprint("TEST SCENARIOS"), len(res.Scenarios))
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// RenderChanges writes a catalog change line. Only the text format prints it;
// structured formats stay a pure serialization of the scan.
func (r *Reporter) RenderChanges(ch models.Changes) error {
	if r.format != FormatText {
		return nil
	}
	line := "no changes since last record"
	if !ch.Empty() {
		line = fmt.Sprintf("+%d added, ~%d updated, -%d removed since last record",
			len(ch.Added), len(ch.Updated), len(ch.Removed))
	}
	_, err := fmt.Fprintf(r.w, "\n%s: %s\n", r.heading.Sprint("CHANGES"), line)
	return err
}
