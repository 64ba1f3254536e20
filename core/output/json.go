package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter renders the report as indented JSON
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format implements Formatter
func (f *JSONFormatter) Format() Format { return FormatJSON }

type jsonComponent struct {
	Label          string `json:"label"`
	AmountDue      string `json:"amount_due"`
	SharedAmount   string `json:"shared_amount"`
	Responsibility string `json:"responsibility"`
	Amount         string `json:"amount"`
	Even           bool   `json:"even,omitempty"`
}

type jsonInvoice struct {
	ID         string          `json:"id"`
	To         string          `json:"to"`
	Total      string          `json:"total"`
	Currency   string          `json:"currency"`
	Components []jsonComponent `json:"components"`
}

type jsonReport struct {
	Invoices []jsonInvoice `json:"invoices"`
	Bills    []BillSummary `json:"bills"`
	Warnings []string      `json:"warnings,omitempty"`
	Metadata Metadata      `json:"metadata"`
}

// Render implements Formatter. Amounts are plain decimal strings so
// consumers never parse currency symbols.
func (f *JSONFormatter) Render(w io.Writer, report *Report) error {
	out := jsonReport{
		Invoices: make([]jsonInvoice, 0, len(report.Invoices)),
		Bills:    report.Bills,
		Warnings: report.Warnings,
		Metadata: report.Metadata,
	}
	for _, inv := range report.Invoices {
		ji := jsonInvoice{
			ID:         inv.ID.String(),
			To:         string(inv.To),
			Total:      inv.Total.StringPlain(),
			Currency:   inv.Total.Currency().String(),
			Components: make([]jsonComponent, 0, len(inv.Components)),
		}
		for _, c := range inv.Components {
			ji.Components = append(ji.Components, jsonComponent{
				Label:          c.Label,
				AmountDue:      c.AmountDue.StringPlain(),
				SharedAmount:   c.SharedAmount.StringPlain(),
				Responsibility: c.Ratio.RatString(),
				Amount:         c.Amount.StringPlain(),
				Even:           c.Degenerate,
			})
		}
		out.Invoices = append(out.Invoices, ji)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
