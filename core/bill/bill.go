// Package bill defines household bills and the portion of each bill that is
// shared evenly among roommates.
package bill

import (
	"roommates/core/household"
	"roommates/core/money"
	"roommates/internal/errors"
)

// Bill is a charge for a usage period. FixedCost is the explicitly known
// usage-independent part of the amount due, such as a service fee.
type Bill struct {
	amountDue money.Money
	period    household.DateInterval
	fixedCost money.Money
}

// New creates a Bill without an explicit fixed cost
func New(amountDue money.Money, period household.DateInterval) (Bill, error) {
	return NewWithFixedCost(amountDue, period, money.Zero(amountDue.Currency()))
}

// NewWithFixedCost creates a Bill; fixedCost must lie within [0, amountDue]
// and share its currency
func NewWithFixedCost(amountDue money.Money, period household.DateInterval, fixedCost money.Money) (Bill, error) {
	if err := checkPortion("fixed_cost", amountDue, fixedCost); err != nil {
		return Bill{}, err
	}
	return Bill{amountDue: amountDue, period: period, fixedCost: fixedCost}, nil
}

// MustNew is like New but panics on error. Intended for tests.
func MustNew(amountDue money.Money, period household.DateInterval) Bill {
	b, err := New(amountDue, period)
	if err != nil {
		panic(err)
	}
	return b
}

// AmountDue returns the total charged
func (b Bill) AmountDue() money.Money {
	return b.amountDue
}

// Period returns the usage period the bill covers
func (b Bill) Period() household.DateInterval {
	return b.period
}

// FixedCost returns the explicitly declared usage-independent charge
func (b Bill) FixedCost() money.Money {
	return b.fixedCost
}

// VariableCost returns the amount due minus the fixed cost
func (b Bill) VariableCost() money.Money {
	return b.amountDue.Sub(b.fixedCost)
}

// Currency returns the currency of the bill
func (b Bill) Currency() money.Currency {
	return b.amountDue.Currency()
}

// SharedBill pairs a Bill with the amount divided equally among roommates.
// The remainder is divided in proportion to occupancy.
type SharedBill struct {
	Bill
	sharedAmount money.Money
}

// NewShared creates a SharedBill; sharedAmount must lie within
// [0, amount due] and share its currency
func NewShared(b Bill, sharedAmount money.Money) (SharedBill, error) {
	if err := checkPortion("shared_amount", b.amountDue, sharedAmount); err != nil {
		return SharedBill{}, err
	}
	return SharedBill{Bill: b, sharedAmount: sharedAmount}, nil
}

// FromFixed creates a SharedBill that shares exactly the fixed cost
func FromFixed(b Bill) SharedBill {
	// the fixed cost of a Bill is always a valid shared amount
	return SharedBill{Bill: b, sharedAmount: b.fixedCost}
}

// FromFullyFixed creates a SharedBill that shares the whole amount due
func FromFullyFixed(b Bill) SharedBill {
	return SharedBill{Bill: b, sharedAmount: b.amountDue}
}

// SharedAmount returns the portion divided equally
func (sb SharedBill) SharedAmount() money.Money {
	return sb.sharedAmount
}

// VariableAmount returns the portion divided by occupancy
func (sb SharedBill) VariableAmount() money.Money {
	return sb.amountDue.Sub(sb.sharedAmount)
}

func checkPortion(what string, due, portion money.Money) error {
	if !due.SameCurrency(portion) {
		return errors.MismatchedCurrencies(due.Currency().String(), portion.Currency().String())
	}
	if portion.IsNegative() {
		return errors.Negative(what, portion.StringPlain())
	}
	if portion.Cmp(due) > 0 {
		return errors.ExceedsAmountDue(what, portion.StringPlain(), due.StringPlain())
	}
	return nil
}
