// Package output provides output formatting interfaces.
// This package produces human and machine-readable invoice reports.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"roommates/core/invoice"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"

	// FormatText is the plain "X owes $Y" listing
	FormatText Format = "text"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report contains the complete output of an invoice run
type Report struct {
	// Invoices holds one invoice per roommate in name order
	Invoices []invoice.Invoice `json:"invoices"`

	// Bills describes every bill that went into the invoices
	Bills []BillSummary `json:"bills"`

	// Warnings lists non-fatal problems found while loading input
	Warnings []string `json:"warnings,omitempty"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// BillSummary describes one bill of the run
type BillSummary struct {
	// Label is the bill category, e.g. "water"
	Label string `json:"label"`

	// Period is the usage period
	Period string `json:"period"`

	// AmountDue is the total charged
	AmountDue string `json:"amount_due"`

	// SharedAmount is the part divided evenly
	SharedAmount string `json:"shared_amount"`

	// Sharing is the policy that decided SharedAmount
	Sharing string `json:"sharing"`
}

// Metadata contains execution context
type Metadata struct {
	// GeneratedAt is when the report was produced
	GeneratedAt string `json:"generated_at,omitempty"`

	// InputHash is a hash of the input files
	InputHash string `json:"input_hash,omitempty"`

	// Version is the tool version
	Version string `json:"version,omitempty"`
}

// Registry holds the formatters by format
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry creates a registry with the given formatters
func NewRegistry(formatters ...Formatter) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	for _, f := range formatters {
		_ = r.Register(f)
	}
	return r
}

// DefaultRegistry returns a registry with every built-in formatter
func DefaultRegistry(noColor bool) *Registry {
	return NewRegistry(
		NewTableFormatter(noColor),
		NewJSONFormatter(),
		NewMarkdownFormatter(),
		NewTextFormatter(),
	)
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	if _, exists := r.formatters[f.Format()]; exists {
		return fmt.Errorf("formatter %q already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, bool) {
	f, ok := r.formatters[format]
	return f, ok
}

// Formats returns the registered formats sorted by name
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render renders report in the named format
func (r *Registry) Render(w io.Writer, format Format, report *Report) error {
	f, ok := r.Get(format)
	if !ok {
		names := make([]string, 0, len(r.formatters))
		for _, f := range r.Formats() {
			names = append(names, string(f))
		}
		return fmt.Errorf("unknown output format %q (available: %s)", format, strings.Join(names, ", "))
	}
	return f.Render(w, report)
}
