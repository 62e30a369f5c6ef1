package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AssetClass identifies one of the three modeled asset classes
type AssetClass string

const (
	Stocks AssetClass = "stocks"
	Bonds  AssetClass = "bonds"
	Cash   AssetClass = "cash"
)

// LiquidationOrder is the order in which asset classes are sold to fund withdrawals
var LiquidationOrder = []AssetClass{Cash, Bonds, Stocks}

// AssetClasses lists every asset class in reporting order
var AssetClasses = []AssetClass{Stocks, Bonds, Cash}

// AssetValues holds one decimal per asset class. It is used both for rates
// (fractions) and for dollar amounts.
type AssetValues struct {
	Stocks decimal.Decimal `json:"stocks" yaml:"stocks"`
	Bonds  decimal.Decimal `json:"bonds" yaml:"bonds"`
	Cash   decimal.Decimal `json:"cash" yaml:"cash"`
}

// Get returns the value for an asset class
func (v AssetValues) Get(c AssetClass) decimal.Decimal {
	switch c {
	case Stocks:
		return v.Stocks
	case Bonds:
		return v.Bonds
	case Cash:
		return v.Cash
	}
	return decimal.Zero
}

// Set assigns the value for an asset class
func (v *AssetValues) Set(c AssetClass, d decimal.Decimal) {
	switch c {
	case Stocks:
		v.Stocks = d
	case Bonds:
		v.Bonds = d
	case Cash:
		v.Cash = d
	}
}

// Add returns the element-wise sum
func (v AssetValues) Add(o AssetValues) AssetValues {
	return AssetValues{
		Stocks: v.Stocks.Add(o.Stocks),
		Bonds:  v.Bonds.Add(o.Bonds),
		Cash:   v.Cash.Add(o.Cash),
	}
}

// Equal reports whether every class value is equal
func (v AssetValues) Equal(o AssetValues) bool {
	return v.Stocks.Equal(o.Stocks) && v.Bonds.Equal(o.Bonds) && v.Cash.Equal(o.Cash)
}

// Total sums all asset classes
func (v AssetValues) Total() decimal.Decimal {
	return v.Stocks.Add(v.Bonds).Add(v.Cash)
}

// Map applies f to each class value
func (v AssetValues) Map(f func(decimal.Decimal) decimal.Decimal) AssetValues {
	return AssetValues{Stocks: f(v.Stocks), Bonds: f(v.Bonds), Cash: f(v.Cash)}
}

// Weights normalizes the values so they sum to 1.
func (v AssetValues) Weights() (AssetValues, error) {
	total := v.Total()
	if !total.IsPositive() {
		return AssetValues{}, ErrZeroBalance
	}
	return v.Map(func(d decimal.Decimal) decimal.Decimal { return d.Div(total) }), nil
}

// AllocationFromPercents builds fractional weights from percent inputs and
// checks they sum to 100 within 0.01.
func AllocationFromPercents(stocks, bonds, cash decimal.Decimal) (AssetValues, error) {
	sum := stocks.Add(bonds).Add(cash)
	if sum.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(AllocationEpsilonPercent) {
		return AssetValues{}, fmt.Errorf("%w: allocation sums to %s%%, expected 100%%", ErrInvalidPlan, sum.String())
	}
	for _, p := range []decimal.Decimal{stocks, bonds, cash} {
		if p.IsNegative() {
			return AssetValues{}, fmt.Errorf("%w: allocation percentages cannot be negative", ErrInvalidPlan)
		}
	}
	hundred := decimal.NewFromInt(100)
	return AssetValues{
		Stocks: stocks.Div(hundred),
		Bonds:  bonds.Div(hundred),
		Cash:   cash.Div(hundred),
	}, nil
}

// AllocationEpsilonPercent is the tolerance on allocation sums, in percent
var AllocationEpsilonPercent = decimal.NewFromFloat(0.01)

// Asset tracks one asset class inside an account. Returns accrue to Growth,
// contributions to Principal.
type Asset struct {
	Principal decimal.Decimal `json:"principal"`
	Growth    decimal.Decimal `json:"growth"`
}

// Value returns principal plus growth
func (a Asset) Value() decimal.Decimal {
	return a.Principal.Add(a.Growth)
}
