// Package responsibility turns occupancy totals into exact per-roommate
// shares of a billing window.
package responsibility

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"roommates/core/household"
	"roommates/internal/errors"
)

var (
	ratZero = new(big.Rat)
	ratOne  = big.NewRat(1, 1)
)

// Split maps every roommate of a group to an exact fraction of
// responsibility. The fractions sum to exactly one.
type Split struct {
	ratios     map[household.Roommate]*big.Rat
	degenerate bool
}

// Compute derives the split of window from the record. Each roommate's share
// is their person-days over everyone's person-days. A window in which nobody
// was recorded splits evenly.
func Compute(group *household.Group, record *household.Record, window household.DateInterval) (*Split, error) {
	if group == nil || group.Len() == 0 {
		return nil, errors.ErrEmptyGroup
	}

	total := record.OccupancyOver(window)
	if total == 0 {
		return even(group), nil
	}

	ratios := make(map[household.Roommate]*big.Rat, group.Len())
	for _, r := range group.Members() {
		ratios[r] = big.NewRat(record.OccupancyOf(r, window), total)
	}
	return Build(group, ratios)
}

// Build validates a caller supplied ratio map. Every member must be present
// with a non-negative ratio and no other keys are allowed. Ratios summing to
// one are kept; ratios summing to zero become the even split.
func Build(group *household.Group, ratios map[household.Roommate]*big.Rat) (*Split, error) {
	if group == nil || group.Len() == 0 {
		return nil, errors.ErrEmptyGroup
	}

	for r := range ratios {
		if !group.Contains(r) {
			return nil, errors.InvalidSplit(fmt.Sprintf("%q is not a member of the group", r))
		}
	}

	sum := new(big.Rat)
	out := make(map[household.Roommate]*big.Rat, group.Len())
	for _, r := range group.Members() {
		ratio, ok := ratios[r]
		if !ok || ratio == nil {
			return nil, errors.InvalidSplit(fmt.Sprintf("no ratio for %q", r))
		}
		if ratio.Sign() < 0 {
			return nil, errors.InvalidSplit(fmt.Sprintf("negative ratio %s for %q", ratio.RatString(), r))
		}
		out[r] = new(big.Rat).Set(ratio)
		sum.Add(sum, ratio)
	}

	switch {
	case sum.Cmp(ratOne) == 0:
		return &Split{ratios: out}, nil
	case sum.Cmp(ratZero) == 0:
		return even(group), nil
	default:
		return nil, errors.InvalidSplit(fmt.Sprintf("ratios sum to %s", sum.RatString())).
			WithContext("sum", sum.RatString())
	}
}

func even(group *household.Group) *Split {
	n := int64(group.Len())
	ratios := make(map[household.Roommate]*big.Rat, n)
	for _, r := range group.Members() {
		ratios[r] = big.NewRat(1, n)
	}
	return &Split{ratios: ratios, degenerate: true}
}

// Ratio returns a copy of the roommate's share, zero for non-members
func (s *Split) Ratio(r household.Roommate) *big.Rat {
	if ratio, ok := s.ratios[r]; ok {
		return new(big.Rat).Set(ratio)
	}
	return new(big.Rat)
}

// Roommates returns the members of the split sorted by name
func (s *Split) Roommates() []household.Roommate {
	out := make([]household.Roommate, 0, len(s.ratios))
	for r := range s.ratios {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of roommates in the split
func (s *Split) Len() int {
	return len(s.ratios)
}

// Sum returns the total of all ratios
func (s *Split) Sum() *big.Rat {
	sum := new(big.Rat)
	for _, ratio := range s.ratios {
		sum.Add(sum, ratio)
	}
	return sum
}

// IsDegenerate reports whether the split fell back to even shares because
// nobody was present during the window
func (s *Split) IsDegenerate() bool {
	return s.degenerate
}

// String formats the split as "name=ratio" pairs in name order
func (s *Split) String() string {
	parts := make([]string, 0, len(s.ratios))
	for _, r := range s.Roommates() {
		parts = append(parts, fmt.Sprintf("%s=%s", r, s.ratios[r].RatString()))
	}
	return strings.Join(parts, " ")
}
