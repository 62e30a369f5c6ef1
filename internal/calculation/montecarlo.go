package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

// Default annual standard deviations, in percent, used when a plan leaves a volatility at zero.
var (
	DefaultStockVolatility     = decimal.NewFromFloat(17.44)
	DefaultBondVolatility      = decimal.NewFromFloat(5.65)
	DefaultCashVolatility      = decimal.NewFromFloat(1.65)
	DefaultInflationVolatility = decimal.NewFromFloat(1.37)
)

// MonteCarloReturnsProvider samples normally distributed nominal returns around the
// plan's assumptions and converts them to real rates against the sampled inflation.
type MonteCarloReturnsProvider struct {
	rng        *SeededRandom
	mean       domain.AssetValues
	stdDev     domain.AssetValues
	inflMean   float64
	inflStdDev float64
	yields     domain.MarketAssumptions
}

// NewMonteCarloReturnsProvider creates a provider whose generator is seeded once with seed
func NewMonteCarloReturnsProvider(m domain.MarketAssumptions, seed uint32) *MonteCarloReturnsProvider {
	return &MonteCarloReturnsProvider{
		rng: NewSeededRandom(seed),
		mean: domain.AssetValues{
			Stocks: rates.FromPercent(m.StockReturn),
			Bonds:  rates.FromPercent(m.BondReturn),
			Cash:   rates.FromPercent(m.CashReturn),
		},
		stdDev: domain.AssetValues{
			Stocks: rates.FromPercent(orDefault(m.StockVolatility, DefaultStockVolatility)),
			Bonds:  rates.FromPercent(orDefault(m.BondVolatility, DefaultBondVolatility)),
			Cash:   rates.FromPercent(orDefault(m.CashVolatility, DefaultCashVolatility)),
		},
		inflMean:   rates.FromPercent(m.InflationRate).InexactFloat64(),
		inflStdDev: rates.FromPercent(orDefault(m.InflationVolatility, DefaultInflationVolatility)).InexactFloat64(),
		yields:     m,
	}
}

func orDefault(v, def decimal.Decimal) decimal.Decimal {
	if v.IsZero() {
		return def
	}
	return v
}

// GetReturns draws one year. Samples are taken in the fixed order stocks, bonds, cash, inflation.
func (p *MonteCarloReturnsProvider) GetReturns(year int) domain.ReturnsWithMetadata {
	var nominal domain.AssetValues
	for _, c := range domain.AssetClasses {
		z := decimal.NewFromFloat(p.rng.NormFloat64())
		nominal.Set(c, p.mean.Get(c).Add(z.Mul(p.stdDev.Get(c))))
	}
	inflation := decimal.NewFromFloat(p.inflMean + p.rng.NormFloat64()*p.inflStdDev)

	return domain.ReturnsWithMetadata{
		Returns:       realReturns(nominal, inflation),
		Yields:        yieldRates(p.yields, nominal.Cash),
		InflationRate: rates.ToPercent(inflation),
		Extras: domain.ReturnsExtras{
			SimulationYear: year,
			NominalReturns: &nominal,
		},
	}
}
