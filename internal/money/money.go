package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of decimal places used at display boundaries
// for INR/USD-like currencies.
const DisplayPlaces = 2

func init() {
	// Engine-wide division precision. All ratio math routes through this
	// package, so setting it once here covers every strategy.
	decimal.DivisionPrecision = 20
}

// Money is an exact decimal amount. All monetary arithmetic in the engine
// goes through this type; native floats are only accepted at the boundary
// via NewFromFloat. Rounding is half-up and happens only at explicit
// Round/Display calls, never inside arithmetic.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero amount.
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// NewFromFloat converts a boundary float (e.g. a JSON number) into Money.
func NewFromFloat(f float64) Money {
	return Money{amount: decimal.NewFromFloat(f)}
}

// NewFromInt creates Money from a whole amount.
func NewFromInt(i int64) Money {
	return Money{amount: decimal.NewFromInt(i)}
}

// NewFromString parses a decimal string like "33.34".
func NewFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

// MustParse parses a decimal string and panics on failure. For constants
// and tests.
func MustParse(s string) Money {
	m, err := NewFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

func (m Money) Mul(other Money) Money {
	return Money{amount: m.amount.Mul(other.amount)}
}

// MulFloat scales by a unitless ratio (percentage/100, weight share, ...).
func (m Money) MulFloat(f float64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromFloat(f))}
}

func (m Money) Div(other Money) Money {
	return Money{amount: m.amount.Div(other.amount)}
}

// DivInt divides by a member count.
func (m Money) DivInt(n int64) Money {
	return Money{amount: m.amount.Div(decimal.NewFromInt(n))}
}

func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs()}
}

// Round rounds half-up to the given number of decimal places.
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places)}
}

// Display rounds to the display precision (2dp).
func (m Money) Display() Money {
	return m.Round(DisplayPlaces)
}

// Cmp returns -1, 0 or 1 comparing m against other.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// WithinTolerance reports whether |m - other| <= tol.
func (m Money) WithinTolerance(other, tol Money) bool {
	return m.Sub(other).Abs().Cmp(tol) <= 0
}

// Float64 returns the nearest float64. Display/reporting only.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String returns the exact decimal representation.
func (m Money) String() string {
	return m.amount.String()
}

// StringFixed returns the amount with exactly 2 decimal places.
func (m Money) StringFixed() string {
	return m.amount.StringFixed(DisplayPlaces)
}

// MarshalJSON encodes Money as a plain JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.String()), nil
}

// UnmarshalJSON accepts both quoted and unquoted decimal values.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		m.amount = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	m.amount = d
	return nil
}

// Tolerance is the engine-wide reconciliation tolerance: one display cent.
func Tolerance() Money {
	return MustParse("0.01")
}
