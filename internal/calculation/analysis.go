package calculation

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Percentile returns the p-th quantile (0..1) of sorted values using linear
// interpolation between closest ranks: rank = p*(n-1).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n == 1 || p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// NewDistribution summarizes values. An empty sample yields NoData.
func NewDistribution(values []decimal.Decimal) domain.Distribution {
	if len(values) == 0 {
		return domain.Distribution{NoData: true}
	}
	floats := make([]float64, len(values))
	sum := decimal.Zero
	for i, v := range values {
		floats[i] = v.InexactFloat64()
		sum = sum.Add(v)
	}
	sort.Float64s(floats)

	pct := func(p float64) decimal.Decimal { return decimal.NewFromFloat(Percentile(floats, p)) }
	return domain.Distribution{
		Count: len(values),
		Mean:  sum.Div(decimal.NewFromInt(int64(len(values)))),
		Min:   decimal.NewFromFloat(floats[0]),
		Max:   decimal.NewFromFloat(floats[len(floats)-1]),
		Percentiles: domain.PercentileRanges{
			P10: pct(0.10),
			P25: pct(0.25),
			P50: pct(0.50),
			P75: pct(0.75),
			P90: pct(0.90),
		},
	}
}

// yearSlice is one simulation year of a run: its closing snapshot and summed flows
type yearSlice struct {
	Year  int
	End   domain.PeriodSnapshot
	Flows domain.CashFlowBreakdown
}

// yearlySlices groups a result's snapshots by simulation year. Year 0 is the initial state.
// It works for monthly and yearly resolution.
func yearlySlices(r *domain.SimulationResult) []yearSlice {
	if len(r.Data) == 0 {
		return nil
	}
	out := []yearSlice{{Year: 0, End: r.Data[0]}}
	for _, s := range r.Data[1:] {
		year := (s.Period + 11) / 12
		last := &out[len(out)-1]
		if last.Year == year {
			last.End = s
			last.Flows = last.Flows.Add(s.CashFlow)
			continue
		}
		out = append(out, yearSlice{Year: year, End: s, Flows: s.CashFlow})
	}
	return out
}

// averageReturns returns a run's mean real returns and inflation across simulated years, in percent.
// ok is false when no year carries returns.
func averageReturns(r *domain.SimulationResult) (domain.ReturnsSummary, bool) {
	var sum domain.ReturnsSummary
	count := 0
	for _, y := range yearlySlices(r) {
		if y.Year == 0 || y.End.Returns == nil {
			continue
		}
		ret := y.End.Returns
		sum.Stocks = sum.Stocks.Add(ret.Returns.Stocks)
		sum.Bonds = sum.Bonds.Add(ret.Returns.Bonds)
		sum.Cash = sum.Cash.Add(ret.Returns.Cash)
		sum.Inflation = sum.Inflation.Add(ret.InflationRate)
		count++
	}
	if count == 0 {
		return domain.ReturnsSummary{}, false
	}
	n := decimal.NewFromInt(int64(count))
	return domain.ReturnsSummary{
		Stocks:    sum.Stocks.Div(n).Mul(hundred),
		Bonds:     sum.Bonds.Div(n).Mul(hundred),
		Cash:      sum.Cash.Div(n).Mul(hundred),
		Inflation: sum.Inflation.Div(n),
	}, true
}

// Analyze aggregates a batch. An empty batch yields NoData rather than an error.
func Analyze(m *domain.MultiSimulationResult) domain.Analysis {
	runs := m.Ordered()
	if len(runs) == 0 {
		return domain.Analysis{
			NoData:         true,
			FinalPortfolio: domain.Distribution{NoData: true},
			FireAge:        domain.Distribution{NoData: true},
			YearsToFire:    domain.Distribution{NoData: true},
			BankruptcyAge:  domain.Distribution{NoData: true},
		}
	}

	var (
		finals, fireAges, yearsToFire, bankruptAges []decimal.Decimal
		taxes, penalties                            decimal.Decimal
		returns                                     domain.ReturnsSummary
		withReturns, successes, bankrupt            int
	)
	for _, r := range runs {
		finals = append(finals, r.Final().TotalValue)
		if r.Success {
			successes++
		}
		if r.RetirementAge != nil {
			fireAges = append(fireAges, decimal.NewFromFloat(*r.RetirementAge))
			yearsToFire = append(yearsToFire, decimal.NewFromFloat(*r.RetirementAge-r.Context.StartAge))
		}
		if r.BankruptcyAge != nil {
			bankrupt++
			bankruptAges = append(bankruptAges, decimal.NewFromFloat(*r.BankruptcyAge))
		}
		taxes = taxes.Add(r.LifetimeTaxes())
		penalties = penalties.Add(r.LifetimePenalties())
		if avg, ok := averageReturns(r); ok {
			returns.Stocks = returns.Stocks.Add(avg.Stocks)
			returns.Bonds = returns.Bonds.Add(avg.Bonds)
			returns.Cash = returns.Cash.Add(avg.Cash)
			returns.Inflation = returns.Inflation.Add(avg.Inflation)
			withReturns++
		}
	}

	n := decimal.NewFromInt(int64(len(runs)))
	if withReturns > 0 {
		w := decimal.NewFromInt(int64(withReturns))
		returns = domain.ReturnsSummary{
			Stocks:    returns.Stocks.Div(w),
			Bonds:     returns.Bonds.Div(w),
			Cash:      returns.Cash.Div(w),
			Inflation: returns.Inflation.Div(w),
		}
	}

	return domain.Analysis{
		Runs:              len(runs),
		SuccessfulRuns:    successes,
		SuccessRate:       decimal.NewFromInt(int64(successes)).Div(n).Mul(hundred),
		BankruptcyRate:    decimal.NewFromInt(int64(bankrupt)).Div(n).Mul(hundred),
		FinalPortfolio:    NewDistribution(finals),
		FireAge:           NewDistribution(fireAges),
		YearsToFire:       NewDistribution(yearsToFire),
		BankruptcyAge:     NewDistribution(bankruptAges),
		MeanLifetimeTaxes: taxes.Div(n),
		MeanPenalties:     penalties.Div(n),
		MeanReturns:       returns,
		YearlyProgression: yearlyProgression(runs),
	}
}

// yearlyProgression builds the per-year cross-run portfolio distribution and phase shares
func yearlyProgression(runs []*domain.SimulationResult) []domain.YearProgression {
	byYear := make(map[int][]yearSlice)
	maxYear := 0
	for _, r := range runs {
		for _, y := range yearlySlices(r) {
			byYear[y.Year] = append(byYear[y.Year], y)
			if y.Year > maxYear {
				maxYear = y.Year
			}
		}
	}

	out := make([]domain.YearProgression, 0, maxYear+1)
	for year := 0; year <= maxYear; year++ {
		slices := byYear[year]
		if len(slices) == 0 {
			continue
		}
		values := make([]decimal.Decimal, len(slices))
		counts := make(map[domain.PhaseName]int64)
		for i, y := range slices {
			values[i] = y.End.TotalValue
			counts[y.End.Phase]++
		}
		total := decimal.NewFromInt(int64(len(slices)))
		share := func(p domain.PhaseName) decimal.Decimal {
			return decimal.NewFromInt(counts[p]).Div(total).Mul(hundred)
		}
		out = append(out, domain.YearProgression{
			Year:      year,
			Age:       slices[0].End.Age,
			Portfolio: NewDistribution(values),
			Phases: domain.PhasePercentages{
				Accumulation: share(domain.PhaseAccumulation),
				Retirement:   share(domain.PhaseRetirement),
				Bankrupt:     share(domain.PhaseBankrupt),
			},
		})
	}
	return out
}

// Drill-down sort keys
const (
	SortByFinalPortfolio     = "final_portfolio_value"
	SortByRetirementAge      = "retirement_age"
	SortByBankruptcyAge      = "bankruptcy_age"
	SortByAverageStockReturn = "average_stock_return"
)

// SortKeys lists the accepted drill-down keys
var SortKeys = []string{SortByFinalPortfolio, SortByRetirementAge, SortByBankruptcyAge, SortByAverageStockReturn}

// SortStochasticRows stable-sorts rows by key. Ties are broken by ascending seed and
// rows without a value always sort last, in either direction.
func SortStochasticRows(rows []domain.StochasticTableRow, key string, descending bool) error {
	value, err := sortValue(key)
	if err != nil {
		return err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		vi, oki := value(rows[i])
		vj, okj := value(rows[j])
		switch {
		case oki != okj:
			return oki
		case !oki || vi == vj:
			return rows[i].Seed < rows[j].Seed
		case descending:
			return vi > vj
		}
		return vi < vj
	})
	return nil
}

func sortValue(key string) (func(domain.StochasticTableRow) (float64, bool), error) {
	switch key {
	case SortByFinalPortfolio:
		return func(r domain.StochasticTableRow) (float64, bool) {
			return r.FinalPortfolioValue.InexactFloat64(), true
		}, nil
	case SortByRetirementAge:
		return func(r domain.StochasticTableRow) (float64, bool) { return floatPtr(r.FireAge) }, nil
	case SortByBankruptcyAge:
		return func(r domain.StochasticTableRow) (float64, bool) { return floatPtr(r.BankruptcyAge) }, nil
	case SortByAverageStockReturn:
		return func(r domain.StochasticTableRow) (float64, bool) {
			if r.AverageStocksReturn == nil {
				return 0, false
			}
			return r.AverageStocksReturn.InexactFloat64(), true
		}, nil
	}
	return nil, fmt.Errorf("unknown sort key %q (want one of %v)", key, SortKeys)
}

func floatPtr(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
