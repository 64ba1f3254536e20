// Package money provides currency-aware monetary amounts.
// Amounts are held as decimals quantized to the currency's minor unit.
// NEVER use float64 for money calculations.
package money

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents an ISO 4217 currency code
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	CHF Currency = "CHF"
	JPY Currency = "JPY"
	KRW Currency = "KRW"
)

var exponents = map[Currency]int32{
	USD: 2,
	EUR: 2,
	GBP: 2,
	CAD: 2,
	AUD: 2,
	CHF: 2,
	JPY: 0,
	KRW: 0,
}

var symbols = map[Currency]string{
	USD: "$",
	EUR: "€",
	GBP: "£",
	CAD: "CA$",
	AUD: "A$",
	CHF: "CHF ",
	JPY: "¥",
	KRW: "₩",
}

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Known reports whether the currency has a registered minor unit
func (c Currency) Known() bool {
	_, ok := exponents[c]
	return ok
}

// Exponent returns the number of decimal places of the minor unit
func (c Currency) Exponent() int32 {
	if e, ok := exponents[c]; ok {
		return e
	}
	return 2
}

// Money represents a monetary amount with full precision
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// OfMinor creates Money from an integer count of minor units (cents)
func OfMinor(currency Currency, minor int64) Money {
	return Money{amount: decimal.New(minor, -currency.Exponent()), currency: currency}
}

// OfMajorMinor creates Money from whole units and minor units, e.g. (USD, 99, 99)
func OfMajorMinor(currency Currency, major, minor int64) Money {
	scale := decimal.New(1, currency.Exponent()).IntPart()
	if major < 0 {
		return OfMinor(currency, major*scale-minor)
	}
	return OfMinor(currency, major*scale+minor)
}

// Zero creates zero money
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Parse creates Money from a decimal string such as "99.99", "$1,024.50" or
// "(3.20)". Amounts finer than the minor unit are rejected rather than rounded.
func Parse(s string, currency Currency) (Money, error) {
	raw := strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		negative = true
		raw = strings.TrimSuffix(strings.TrimPrefix(raw, "("), ")")
	}
	if strings.HasPrefix(raw, "-") {
		negative = !negative
		raw = strings.TrimPrefix(raw, "-")
	}
	raw = strings.TrimPrefix(raw, strings.TrimSpace(symbols[currency]))
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.TrimSpace(raw)

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money format %q: %w", s, err)
	}
	if !d.Equal(d.Truncate(currency.Exponent())) {
		return Money{}, fmt.Errorf("invalid money format %q: more precise than the %s minor unit", s, currency)
	}
	if negative {
		d = d.Neg()
	}
	return Money{amount: d, currency: currency}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string, currency Currency) Money {
	m, err := Parse(s, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Minor returns the amount as an integer count of minor units
func (m Money) Minor() int64 {
	return m.amount.Shift(m.currency.Exponent()).IntPart()
}

// MinorRat returns the amount in minor units as an exact rational
func (m Money) MinorRat() *big.Rat {
	return new(big.Rat).SetInt64(m.Minor())
}

// SameCurrency reports whether both amounts use the same currency
func (m Money) SameCurrency(other Money) bool {
	return m.currency == other.currency
}

// Add adds two monetary amounts
func (m Money) Add(other Money) Money {
	if m.currency != other.currency {
		panic(fmt.Sprintf("cannot add %s and %s", m.currency, other.currency))
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}
}

// Sub subtracts monetary amounts
func (m Money) Sub(other Money) Money {
	if m.currency != other.currency {
		panic(fmt.Sprintf("cannot subtract %s and %s", m.currency, other.currency))
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}
}

// Cmp compares two monetary amounts
func (m Money) Cmp(other Money) int {
	if m.currency != other.currency {
		panic(fmt.Sprintf("cannot compare %s and %s", m.currency, other.currency))
	}
	return m.amount.Cmp(other.amount)
}

// Equal reports whether both amounts have the same value and currency
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Min returns the smaller amount
func (m Money) Min(other Money) Money {
	if m.Cmp(other) <= 0 {
		return m
	}
	return other
}

// Max returns the larger amount
func (m Money) Max(other Money) Money {
	if m.Cmp(other) >= 0 {
		return m
	}
	return other
}

// IsZero returns true if amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// String returns the amount with its currency symbol, e.g. "$99.99"
func (m Money) String() string {
	sym, ok := symbols[m.currency]
	if !ok {
		return fmt.Sprintf("%s %s", m.amount.StringFixed(m.currency.Exponent()), m.currency)
	}
	if m.amount.IsNegative() {
		return "-" + sym + m.amount.Neg().StringFixed(m.currency.Exponent())
	}
	return sym + m.amount.StringFixed(m.currency.Exponent())
}

// StringPlain returns the amount without symbol, e.g. "99.99"
func (m Money) StringPlain() string {
	return m.amount.StringFixed(m.currency.Exponent())
}

// MarshalText encodes Money as "<amount> <currency>" for JSON output
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.StringPlain() + " " + string(m.currency)), nil
}

// Float64 returns float64 (only for regression input and display, never for splitting)
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}
