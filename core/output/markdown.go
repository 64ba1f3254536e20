package output

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter renders a markdown report, e.g. for a shared note
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a MarkdownFormatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter
func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render implements Formatter
func (f *MarkdownFormatter) Render(w io.Writer, report *Report) error {
	var sb strings.Builder

	sb.WriteString("# Household Invoices\n\n")
	sb.WriteString("| Roommate | Owes |\n")
	sb.WriteString("|----------|-----:|\n")
	for _, inv := range report.Invoices {
		fmt.Fprintf(&sb, "| %s | %s |\n", inv.To, inv.Total)
	}

	if len(report.Bills) > 0 {
		sb.WriteString("\n## Bills\n\n")
		sb.WriteString("| Bill | Period | Due | Shared | Sharing |\n")
		sb.WriteString("|------|--------|----:|-------:|---------|\n")
		for _, b := range report.Bills {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n", b.Label, b.Period, b.AmountDue, b.SharedAmount, b.Sharing)
		}
	}

	for _, inv := range report.Invoices {
		fmt.Fprintf(&sb, "\n## %s\n\n", inv.To)
		sb.WriteString("| Bill | Responsibility | Amount |\n")
		sb.WriteString("|------|---------------:|-------:|\n")
		for _, c := range inv.Components {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", c.Label, c.Ratio.RatString(), c.Amount)
		}
		fmt.Fprintf(&sb, "| **Total** | | **%s** |\n", inv.Total)
	}

	if len(report.Warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(&sb, "- %s\n", warning)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
