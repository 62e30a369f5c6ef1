package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

// ReturnsProvider supplies one year of market data. year is the 1-based simulation year.
type ReturnsProvider interface {
	GetReturns(year int) domain.ReturnsWithMetadata
}

// RangeReporter is implemented by providers that replay dataset years.
type RangeReporter interface {
	HistoricalRanges() []domain.HistoricalRange
}

// FixedReturnsProvider returns the plan's assumptions converted to real rates, every year.
type FixedReturnsProvider struct {
	data domain.ReturnsWithMetadata
}

// NewFixedReturnsProvider builds a provider from the plan's market assumptions
func NewFixedReturnsProvider(m domain.MarketAssumptions) *FixedReturnsProvider {
	inflation := rates.FromPercent(m.InflationRate)
	nominal := domain.AssetValues{
		Stocks: rates.FromPercent(m.StockReturn),
		Bonds:  rates.FromPercent(m.BondReturn),
		Cash:   rates.FromPercent(m.CashReturn),
	}
	return &FixedReturnsProvider{
		data: domain.ReturnsWithMetadata{
			Returns:       realReturns(nominal, inflation),
			Yields:        yieldRates(m, nominal.Cash),
			InflationRate: m.InflationRate,
			Extras:        domain.ReturnsExtras{NominalReturns: &nominal},
		},
	}
}

// GetReturns returns the same rates for every year
func (p *FixedReturnsProvider) GetReturns(year int) domain.ReturnsWithMetadata {
	out := p.data
	out.Extras.SimulationYear = year
	return out
}

func realReturns(nominal domain.AssetValues, inflation decimal.Decimal) domain.AssetValues {
	return nominal.Map(func(n decimal.Decimal) decimal.Decimal {
		return rates.RealRate(n, inflation)
	})
}

// yieldRates takes stock and bond yields from the assumptions. Cash yields its nominal rate.
func yieldRates(m domain.MarketAssumptions, cash decimal.Decimal) domain.AssetValues {
	if cash.IsNegative() {
		cash = decimal.Zero
	}
	return domain.AssetValues{
		Stocks: rates.FromPercent(m.StockYield),
		Bonds:  rates.FromPercent(m.BondYield),
		Cash:   cash,
	}
}

// NewReturnsProvider builds the provider selected by the plan's simulation mode.
// dataset is only used in historical mode and defaults to the built-in table.
func NewReturnsProvider(plan *domain.PlanInputs, seed uint32, dataset *HistoricalDataset) (ReturnsProvider, error) {
	switch plan.Simulation.Mode {
	case domain.ModeFixed, "":
		return NewFixedReturnsProvider(plan.MarketAssumptions), nil
	case domain.ModeMonteCarlo:
		return NewMonteCarloReturnsProvider(plan.MarketAssumptions, seed), nil
	case domain.ModeHistorical:
		if dataset == nil {
			dataset = DefaultHistoricalDataset()
		}
		return NewHistoricalReturnsProvider(dataset, plan.MarketAssumptions, seed, plan.Simulation.HistoricalStartYear)
	}
	return nil, fmt.Errorf("%w: unknown simulation mode %q", domain.ErrInvalidPlan, plan.Simulation.Mode)
}
