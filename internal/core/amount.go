// Package core holds the transaction domain model plus the pure validation,
// aggregation and formatting functions the rest of the application composes.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount reports a value that does not parse as a decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a signed decimal expense value. The sign carries no business
// meaning; every display and aggregate takes the absolute value. Amount
// round-trips through JSON as a bare number to keep the persisted layout
// identical to `{"amount": 45.5}`.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal value.
func NewAmount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

// AmountFromString parses a decimal string such as "45.50" or "-12".
func AmountFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{Decimal: d}, nil
}

// AmountFromFloat converts a float, mainly for tests and seed data.
func AmountFromFloat(f float64) Amount { return Amount{Decimal: decimal.NewFromFloat(f)} }

// Abs returns the magnitude of the amount.
func (a Amount) Abs() Amount { return Amount{Decimal: a.Decimal.Abs()} }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return Amount{Decimal: a.Decimal.Add(b.Decimal)} }

// Equal reports numeric equality regardless of exponent representation.
func (a Amount) Equal(b Amount) bool { return a.Decimal.Equal(b.Decimal) }

// MarshalJSON emits the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidAmount
	}
	a.Decimal = d
	return nil
}
