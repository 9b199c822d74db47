// Package money models currency amounts as exact decimals.
package money

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotPositive = errors.New("amount must be greater than zero")

	hundred = decimal.NewFromInt(100)
)

// Amount is a value in major currency units (cedi, not pesewas).
type Amount struct {
	d decimal.Decimal
}

func New(d decimal.Decimal) Amount { return Amount{d: d} }

func FromFloat(f float64) Amount { return Amount{d: decimal.NewFromFloat(f)} }

// Parse reads a decimal string such as "5", "5.00" or "12.5".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// FromSubunits converts an integer count of subunits back to an Amount.
func FromSubunits(n int64) Amount { return Amount{d: decimal.New(n, -2)} }

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) IsZero() bool { return a.d.IsZero() }

func (a Amount) Positive() bool { return a.d.IsPositive() }

// Subunits returns the amount in the smallest denomination, rounded half away
// from zero: GHS 5.00 -> 500, GHS 2.345 -> 235.
func (a Amount) Subunits() int64 {
	return a.d.Mul(hundred).Round(0).IntPart()
}

// Format renders the amount with two decimals and the currency code prefix.
func (a Amount) Format(currency string) string {
	return currency + " " + a.d.StringFixed(2)
}

func (a Amount) String() string { return a.d.StringFixed(2) }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// MarshalJSON writes a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null (zero).
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		a.d = decimal.Zero
		return nil
	}
	b = bytes.Trim(b, `"`)
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("decode amount: %w", err)
	}
	a.d = d
	return nil
}
