package split

import (
	"math/big"

	"roommates/core/household"
	"roommates/core/money"
	"roommates/internal/errors"
)

// Accumulator sums cost splits of several bills in one currency.
// Exact shares and the total are summed separately and reconciled once, so
// rounding never compounds across bills.
type Accumulator struct {
	currency money.Currency
	total    int64
	exact    map[household.Roommate]*big.Rat
	bills    int
}

// NewAccumulator creates an empty Accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{exact: make(map[household.Roommate]*big.Rat)}
}

// Add folds cs into the running totals. The first split fixes the currency.
func (a *Accumulator) Add(cs *CostSplit) error {
	if a.bills > 0 && cs.Currency() != a.currency {
		return errors.MismatchedCurrencies(a.currency.String(), cs.Currency().String())
	}
	a.currency = cs.Currency()
	a.total += cs.total.Minor()
	for r, s := range cs.shares {
		sum, ok := a.exact[r]
		if !ok {
			sum = new(big.Rat)
			a.exact[r] = sum
		}
		sum.Add(sum, s.Exact)
	}
	a.bills++
	return nil
}

// Len returns the number of splits added
func (a *Accumulator) Len() int {
	return a.bills
}

// Total returns the sum of every amount due
func (a *Accumulator) Total() money.Money {
	return money.OfMinor(a.currency, a.total)
}

// Shares returns the reconciled per-roommate entries
func (a *Accumulator) Shares() map[household.Roommate]Share {
	return reconcile(a.exact, a.total)
}

// Totals returns each roommate's reconciled amount. The amounts add up to
// Total exactly.
func (a *Accumulator) Totals() map[household.Roommate]money.Money {
	out := make(map[household.Roommate]money.Money, len(a.exact))
	for r, s := range a.Shares() {
		out[r] = money.OfMinor(a.currency, s.Minor())
	}
	return out
}

// Accumulate folds splits in order and returns the per-roommate totals
func Accumulate(splits ...*CostSplit) (map[household.Roommate]money.Money, error) {
	acc := NewAccumulator()
	for _, cs := range splits {
		if err := acc.Add(cs); err != nil {
			return nil, err
		}
	}
	return acc.Totals(), nil
}
