package output

import (
	"fmt"
	"io"

	"roommates/core/money"
	"roommates/core/ui"
)

// TableFormatter renders a colored terminal report
type TableFormatter struct {
	noColor bool
}

// NewTableFormatter creates a TableFormatter
func NewTableFormatter(noColor bool) *TableFormatter {
	return &TableFormatter{noColor: noColor}
}

// Format implements Formatter
func (f *TableFormatter) Format() Format { return FormatCLI }

// Render implements Formatter
func (f *TableFormatter) Render(w io.Writer, report *Report) error {
	out := ui.NewWriter(w, f.noColor)

	out.Header("Bills")
	bills := out.NewTable("BILL", "PERIOD", "DUE", "SHARED", "SHARING").AlignRight(2, 3)
	for _, b := range report.Bills {
		bills.AddRow(b.Label, b.Period, b.AmountDue, b.SharedAmount, b.Sharing)
	}
	bills.Render()

	degenerate := 0
	var total money.Money
	for i, inv := range report.Invoices {
		if i == 0 {
			total = money.Zero(inv.Total.Currency())
		}
		total = total.Add(inv.Total)

		out.Header(fmt.Sprintf("%s owes %s", inv.To, inv.Total))
		t := out.NewTable("BILL", "RESPONSIBILITY", "NON-SHARED", "AMOUNT").AlignRight(2, 3)
		for _, c := range inv.Components {
			ratio := c.Ratio.RatString()
			if c.Degenerate {
				ratio += " (even)"
				if i == 0 {
					degenerate++
				}
			}
			t.AddRow(c.Label, ratio, c.VariableAmount().String(), c.Amount.String())
		}
		t.Render()
	}

	for _, warning := range report.Warnings {
		out.Warning("%s", warning)
	}

	if len(report.Invoices) > 0 {
		s := out.NewInvoiceSummary()
		s.Total = total.String()
		s.Roommates = len(report.Invoices)
		s.Bills = len(report.Bills)
		s.Degenerate = degenerate
		s.Render()
	}
	if report.Metadata.InputHash != "" {
		out.Debug("input %s", report.Metadata.InputHash)
	}
	return nil
}

// TextFormatter renders each invoice in its plain text form
type TextFormatter struct{}

// NewTextFormatter creates a TextFormatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format implements Formatter
func (f *TextFormatter) Format() Format { return FormatText }

// Render implements Formatter
func (f *TextFormatter) Render(w io.Writer, report *Report) error {
	for _, inv := range report.Invoices {
		if _, err := fmt.Fprintln(w, inv.String()); err != nil {
			return err
		}
	}
	return nil
}
