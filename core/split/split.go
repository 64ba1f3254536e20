// Package split converts responsibility ratios into money and accumulates
// the result of several bills. Per-roommate amounts always add up to the
// amount due to the last minor unit.
package split

import (
	"math/big"
	"sort"

	"roommates/core/bill"
	"roommates/core/household"
	"roommates/core/money"
	"roommates/core/responsibility"
	"roommates/internal/errors"
)

// Adjustment is the rounding correction of one entry, in minor units
type Adjustment int8

const (
	// AdjustBelow takes one minor unit off the rounded amount
	AdjustBelow Adjustment = -1

	// AdjustNone keeps the rounded amount
	AdjustNone Adjustment = 0

	// AdjustAbove adds one minor unit to the rounded amount
	AdjustAbove Adjustment = 1
)

func (a Adjustment) String() string {
	switch a {
	case AdjustBelow:
		return "below"
	case AdjustAbove:
		return "above"
	default:
		return "none"
	}
}

// Share is one roommate's part of a bill
type Share struct {
	Roommate   household.Roommate
	Exact      *big.Rat // minor units
	Base       int64    // Exact rounded half away from zero
	Adjustment Adjustment
}

// Minor returns the corrected amount in minor units
func (s Share) Minor() int64 {
	return s.Base + int64(s.Adjustment)
}

// CostSplit maps each roommate to their part of one bill
type CostSplit struct {
	total  money.Money
	shares map[household.Roommate]Share
}

// SplitBill divides sb among the roommates of s. The shared amount is
// divided evenly and the rest in proportion to each ratio.
func SplitBill(sb bill.SharedBill, s *responsibility.Split) (*CostSplit, error) {
	if s == nil || s.Len() == 0 {
		return nil, errors.InvalidSplit("no roommates to split between")
	}

	n := int64(s.Len())
	even := big.NewRat(sb.SharedAmount().Minor(), n)
	variable := sb.VariableAmount().MinorRat()

	exact := make(map[household.Roommate]*big.Rat, n)
	for _, r := range s.Roommates() {
		share := new(big.Rat).Mul(variable, s.Ratio(r))
		exact[r] = share.Add(share, even)
	}

	return &CostSplit{
		total:  sb.AmountDue(),
		shares: reconcile(exact, sb.AmountDue().Minor()),
	}, nil
}

// reconcile rounds each exact share and hands the leftover minor units to
// the roommates whose rounding cost them the most. Ties go to the roommate
// whose name sorts first.
func reconcile(exact map[household.Roommate]*big.Rat, total int64) map[household.Roommate]Share {
	shares := make([]Share, 0, len(exact))
	var sum int64
	for r, e := range exact {
		base := money.RoundRat(e)
		shares = append(shares, Share{Roommate: r, Exact: new(big.Rat).Set(e), Base: base})
		sum += base
	}

	remainder := make(map[household.Roommate]*big.Rat, len(shares))
	for _, s := range shares {
		remainder[s.Roommate] = new(big.Rat).Sub(s.Exact, new(big.Rat).SetInt64(s.Base))
	}

	leftover := total - sum
	sort.Slice(shares, func(i, j int) bool {
		ri, rj := remainder[shares[i].Roommate], remainder[shares[j].Roommate]
		if c := ri.Cmp(rj); c != 0 {
			if leftover >= 0 {
				return c > 0
			}
			return c < 0
		}
		return shares[i].Roommate < shares[j].Roommate
	})

	adjust, count := AdjustAbove, leftover
	if leftover < 0 {
		adjust, count = AdjustBelow, -leftover
	}
	for i := int64(0); i < count && i < int64(len(shares)); i++ {
		shares[i].Adjustment = adjust
	}

	out := make(map[household.Roommate]Share, len(shares))
	for _, s := range shares {
		out[s.Roommate] = s
	}
	return out
}

// Currency returns the currency of the split bill
func (cs *CostSplit) Currency() money.Currency {
	return cs.total.Currency()
}

// Total returns the amount due of the split bill
func (cs *CostSplit) Total() money.Money {
	return cs.total
}

// Amount returns the roommate's corrected amount, zero for non-members
func (cs *CostSplit) Amount(r household.Roommate) money.Money {
	s, ok := cs.shares[r]
	if !ok {
		return money.Zero(cs.Currency())
	}
	return money.OfMinor(cs.Currency(), s.Minor())
}

// Share returns the roommate's entry
func (cs *CostSplit) Share(r household.Roommate) (Share, bool) {
	s, ok := cs.shares[r]
	return s, ok
}

// Shares returns every entry sorted by roommate
func (cs *CostSplit) Shares() []Share {
	out := make([]Share, 0, len(cs.shares))
	for _, s := range cs.shares {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Roommate < out[j].Roommate })
	return out
}

// Amounts returns the corrected amount of every roommate
func (cs *CostSplit) Amounts() map[household.Roommate]money.Money {
	out := make(map[household.Roommate]money.Money, len(cs.shares))
	for r := range cs.shares {
		out[r] = cs.Amount(r)
	}
	return out
}
