// Package core holds the transaction domain types shared by the store, the
// aggregator and the HTTP layer.
//
// This file contains the Money type. Amounts are kept as signed int64 minor
// units (cents) so that summation is exact; decimal parsing happens only at
// the JSON boundary.
package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmountUnits bounds the magnitude of a single transaction in major
// currency units. Anything larger is treated as an input error.
const MaxAmountUnits = 1_000_000

const maxAmountCents = MaxAmountUnits * 100

// Money is a signed monetary value in minor units. Positive means income,
// negative means expense.
type Money struct {
	Cents int64
}

// NewMoney builds a Money from whole cents.
func NewMoney(cents int64) Money {
	return Money{Cents: cents}
}

// ParseAmount converts a decimal amount in major units to Money, rounding
// half-up on the third decimal place. Zero and out-of-range values are
// rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("-150")   -> -15000 cents
//	ParseAmount("0")      -> ErrZeroAmount
func ParseAmount(d decimal.Decimal) (Money, error) {
	cents := d.Shift(2).Round(0)
	if !cents.IsInteger() || !cents.BigInt().IsInt64() {
		return Money{}, ErrAmountOutOfRange
	}
	m := Money{Cents: cents.IntPart()}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// Validate checks the zero and magnitude rules. A zero amount is not a
// meaningful transaction.
func (m Money) Validate() error {
	if m.Cents == 0 {
		return ErrZeroAmount
	}
	if m.Cents > maxAmountCents || m.Cents < -maxAmountCents {
		return ErrAmountOutOfRange
	}
	return nil
}

// Decimal returns the amount in major units as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Neg returns the arithmetic negation.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// String renders the amount in major units without trailing zeros
// ("-150", "12.34", "12.3").
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if neg {
		s = "-" + s
	}
	return s
}

// MarshalJSON renders the amount as a plain JSON number in major units,
// matching what API consumers send.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return ErrValidation
	}
	cents := d.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return ErrAmountOutOfRange
	}
	m.Cents = cents.IntPart()
	return nil
}
