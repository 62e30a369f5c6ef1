package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a real-dollar amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NetOfTax returns the amount left after a flat tax rate (fraction, not percent)
func (m Money) NetOfTax(rate decimal.Decimal) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(1).Sub(rate))}
}

// GrossUp returns the pre-tax amount needed to net m after a flat tax rate.
// A rate of 1 or more cannot be grossed up and returns m unchanged.
func (m Money) GrossUp(rate decimal.Decimal) Money {
	keep := decimal.NewFromInt(1).Sub(rate)
	if !keep.IsPositive() {
		return m
	}
	return Money{m.Decimal.Div(keep)}
}

// String returns the amount with two decimals
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount as dollars with thousands separators, e.g. "$1,176,470.59"
func (m Money) Format() string {
	return "$" + groupThousands(m.Decimal.StringFixed(2))
}

// FormatWhole renders the amount rounded to whole dollars, e.g. "$1,176,471"
func (m Money) FormatWhole() string {
	return "$" + groupThousands(m.Decimal.StringFixed(0))
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	pre := len(intPart) % 3
	if pre > 0 {
		b.WriteString(intPart[:pre])
	}
	for i := pre; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	out := b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}
