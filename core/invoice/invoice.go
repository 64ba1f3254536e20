// Package invoice assembles per-roommate invoices from a set of labeled
// bills and the household's occupancy record.
package invoice

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"roommates/core/bill"
	"roommates/core/determinism"
	"roommates/core/estimate"
	"roommates/core/household"
	"roommates/core/money"
	"roommates/core/responsibility"
	"roommates/core/split"
	"roommates/internal/logging"
)

// Item is a bill whose shared amount is already decided
type Item struct {
	Label string
	Bill  bill.SharedBill
}

// Source is one bill category before its shared amount is decided.
// TemperatureIndex values are ignored unless Sharing needs weather.
type Source struct {
	Label   string
	Sharing bill.Sharing
	Current estimate.TemperatureBill
	History []estimate.TemperatureBill
}

// Resolve applies the source's sharing policy
func Resolve(est *estimate.Estimator, record *household.Record, src Source) (Item, error) {
	var (
		sb  bill.SharedBill
		err error
	)
	switch src.Sharing {
	case bill.SharingFixedCost:
		sb = bill.FromFixed(src.Current.Bill)
	case bill.SharingFullyShared:
		sb = bill.FromFullyFixed(src.Current.Bill)
	case bill.SharingEstimated:
		history := make([]bill.Bill, len(src.History))
		for i, h := range src.History {
			history[i] = h.Bill
		}
		sb, err = estimate.FromOccupancy(est, src.Current.Bill, history, record)
	case bill.SharingEstimatedWithTemperature:
		sb, err = estimate.FromOccupancyAndTemperature(est, src.Current, src.History, record)
	default:
		err = fmt.Errorf("unsupported sharing policy %s", src.Sharing)
	}
	if err != nil {
		return Item{}, fmt.Errorf("%s bill: %w", src.Label, err)
	}
	return Item{Label: src.Label, Bill: sb}, nil
}

// Component describes one bill on an invoice
type Component struct {
	Label        string
	AmountDue    money.Money
	SharedAmount money.Money
	Ratio        *big.Rat
	Amount       money.Money
	Degenerate   bool
}

// VariableAmount returns the part of the bill divided by occupancy
func (c Component) VariableAmount() money.Money {
	return c.AmountDue.Sub(c.SharedAmount)
}

// String renders the component as one tab-indented line
func (c Component) String() string {
	return fmt.Sprintf("\t%s of the responsibility for the %s non-shared portion of the %s %s bill",
		c.Ratio.RatString(), c.VariableAmount(), c.AmountDue, c.Label)
}

// Invoice is what one roommate owes for a set of bills
type Invoice struct {
	ID         uuid.UUID
	To         household.Roommate
	Total      money.Money
	Components []Component
}

// String renders the invoice as text
func (inv Invoice) String() string {
	lines := make([]string, len(inv.Components))
	for i, c := range inv.Components {
		lines[i] = c.String()
	}
	return fmt.Sprintf("%s owes %s\n%s", inv.To, inv.Total, strings.Join(lines, "\n"))
}

// Option customizes Generate
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = logging.OrNop(l) }
}

var ids = determinism.NewIDGenerator("invoice")

// Generate splits every item over its own billing period, accumulates the
// splits and returns one invoice per roommate in name order. Invoice totals
// add up to the sum of the amounts due.
func Generate(group *household.Group, record *household.Record, items []Item, opts ...Option) ([]Invoice, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	acc := split.NewAccumulator()
	components := make(map[household.Roommate][]Component, group.Len())
	idParts := make([]string, 0, len(items))

	for _, item := range items {
		period := item.Bill.Period()
		s, err := responsibility.Compute(group, record, period)
		if err != nil {
			return nil, fmt.Errorf("%s bill: %w", item.Label, err)
		}
		cs, err := split.SplitBill(item.Bill, s)
		if err != nil {
			return nil, fmt.Errorf("%s bill: %w", item.Label, err)
		}
		if err := acc.Add(cs); err != nil {
			return nil, fmt.Errorf("%s bill: %w", item.Label, err)
		}

		o.logger.Debug("split bill",
			zap.String("label", item.Label),
			zap.String("period", period.String()),
			zap.String("amount_due", item.Bill.AmountDue().String()),
			zap.String("shared", item.Bill.SharedAmount().String()),
			zap.String("split", s.String()),
			zap.Bool("degenerate", s.IsDegenerate()))

		for _, r := range group.Members() {
			components[r] = append(components[r], Component{
				Label:        item.Label,
				AmountDue:    item.Bill.AmountDue(),
				SharedAmount: item.Bill.SharedAmount(),
				Ratio:        s.Ratio(r),
				Amount:       cs.Amount(r),
				Degenerate:   s.IsDegenerate(),
			})
		}
		idParts = append(idParts, item.Label, period.String(), item.Bill.AmountDue().StringPlain())
	}

	if acc.Len() == 0 {
		return nil, nil
	}

	totals := acc.Totals()
	invoices := make([]Invoice, 0, group.Len())
	for _, r := range group.Members() {
		invoices = append(invoices, Invoice{
			ID:         ids.Generate(append([]string{string(r)}, idParts...)...),
			To:         r,
			Total:      totals[r],
			Components: components[r],
		})
	}
	return invoices, nil
}
