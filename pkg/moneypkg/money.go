// Package moneypkg provides the exact decimal amount type used for balances and transactions.
package moneypkg

import (
	"bytes"
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// Places is the maximum number of fractional digits an amount may carry.
const Places = 2

// maxIntegerDigits matches the NUMERIC(20,2) columns amounts are stored in.
const maxIntegerDigits = 18

var (
	// ErrInvalidAmount indicates that the value is not a decimal with at most 2 fractional digits.
	ErrInvalidAmount = errorspkg.New(errorspkg.ErrValidation,
		"amount must be a valid decimal number with at most 2 decimal places")
	// ErrAmountOutOfRange indicates that the value does not fit the storage precision.
	ErrAmountOutOfRange = errorspkg.New(errorspkg.ErrValidation, "amount is out of range")
)

var upperBound = decimal.New(1, maxIntegerDigits)

// Money is an exact decimal amount with at most 2 fractional digits.
//
// The zero value is 0.00.
type Money struct {
	d decimal.Decimal
}

// Zero is 0.00.
var Zero = Money{}

// Parse parses s into Money.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}

	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("moneypkg.MustParse(%q): %v", s, err))
	}

	return m
}

// FromDecimal validates d and returns it as Money.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Round(Places)) {
		return Money{}, ErrInvalidAmount
	}

	if d.Abs().GreaterThanOrEqual(upperBound) {
		return Money{}, ErrAmountOutOfRange
	}

	return Money{d: d.Round(Places)}, nil
}

// NewFromInt returns a whole amount.
func NewFromInt(v int64) Money {
	return Money{d: decimal.New(v, 0).Round(Places)}
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.d }

// Add returns m + o.
func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

// Sub returns m - o.
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

// Neg returns -m.
func (m Money) Neg() Money { return Money{d: m.d.Neg()} }

// Cmp returns -1, 0 or +1 when m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

// Equal reports whether m == o.
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

// GreaterThan reports whether m > o.
func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }

// GreaterThanOrEqual reports whether m >= o.
func (m Money) GreaterThanOrEqual(o Money) bool { return m.d.GreaterThanOrEqual(o.d) }

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool { return m.d.IsPositive() }

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.d.IsNegative() }

// IsZero reports whether m == 0.
func (m Money) IsZero() bool { return m.d.IsZero() }

// String returns the amount with exactly 2 fractional digits.
func (m Money) String() string { return m.d.StringFixed(Places) }

// MarshalJSON encodes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if bytes.Equal(data, []byte("null")) {
		return ErrInvalidAmount
	}

	v, err := Parse(string(data))
	if err != nil {
		return err
	}

	*m = v

	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("moneypkg: scan: %w", err)
	}

	v, err := FromDecimal(d)
	if err != nil {
		return fmt.Errorf("moneypkg: scan %v: %w", d, err)
	}

	*m = v

	return nil
}
