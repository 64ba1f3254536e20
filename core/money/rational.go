package money

import (
	"math/big"
)

// RoundRat rounds r to the nearest integer, halves away from zero
func RoundRat(r *big.Rat) int64 {
	num := new(big.Int).Abs(r.Num())
	den := r.Denom()

	// floor((2|p| + q) / 2q)
	twice := new(big.Int).Lsh(num, 1)
	twice.Add(twice, den)
	q := new(big.Int).Quo(twice, new(big.Int).Lsh(den, 1))
	if r.Sign() < 0 {
		q.Neg(q)
	}
	return q.Int64()
}

// OfMinorRat creates Money from a rational count of minor units, rounded
// to the nearest minor unit
func OfMinorRat(currency Currency, minor *big.Rat) Money {
	return OfMinor(currency, RoundRat(minor))
}

// MulRat multiplies m by an exact ratio and rounds to the nearest minor unit
func (m Money) MulRat(r *big.Rat) Money {
	exact := new(big.Rat).Mul(m.MinorRat(), r)
	return OfMinorRat(m.currency, exact)
}
