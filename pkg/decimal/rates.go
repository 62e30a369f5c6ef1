package decimal

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// RatePlaces is the fractional precision kept on per-period rates.
	RatePlaces = 12
	// AmountPlaces is the fractional precision kept on stored dollar amounts.
	// Multiplying unrounded decimals keeps every digit, so balances that
	// compound each period must be rounded to stay a fixed size.
	AmountPlaces = 8
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// FromPercent converts a percent (10 = 10%) into a fraction.
func FromPercent(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}

// ToPercent converts a fraction into a percent.
func ToPercent(r decimal.Decimal) decimal.Decimal {
	return r.Mul(hundred)
}

// RealRate converts a nominal rate into a real rate: (1+nominal)/(1+inflation)-1.
// Both inputs and the result are fractions.
func RealRate(nominal, inflation decimal.Decimal) decimal.Decimal {
	denom := one.Add(inflation)
	if denom.IsZero() {
		return nominal
	}
	return one.Add(nominal).Div(denom).Sub(one)
}

// MonthlyCompoundRate converts an annual rate into the monthly rate that
// compounds to it over twelve months: (1+annual)^(1/12)-1.
func MonthlyCompoundRate(annual decimal.Decimal) decimal.Decimal {
	a, _ := annual.Float64()
	if a <= -1 {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromFloat(math.Pow(1+a, 1.0/12) - 1).Round(RatePlaces)
}

// MonthlySimpleRate splits an annual rate evenly across twelve months.
func MonthlySimpleRate(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(twelve).Round(RatePlaces)
}

// RoundAmount rounds a dollar amount to AmountPlaces.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}
