package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// ExtractSimulationTable returns one row per simulation year of a run, starting with the initial state
func ExtractSimulationTable(r *domain.SimulationResult) []domain.SimulationTableRow {
	years := yearlySlices(r)
	rows := make([]domain.SimulationTableRow, 0, len(years))
	for _, y := range years {
		s := y.End
		row := domain.SimulationTableRow{
			Year:           y.Year,
			Age:            s.Age,
			Phase:          s.Phase,
			PortfolioValue: s.TotalValue,
			StocksValue:    s.AssetValues.Stocks,
			BondsValue:     s.AssetValues.Bonds,
			CashValue:      s.AssetValues.Cash,
			Income:         y.Flows.Income.Add(y.Flows.PassiveIncome),
			Expenses:       y.Flows.Expenses,
			Taxes:          y.Flows.Taxes,
			Contributions:  y.Flows.Contributions.Add(y.Flows.EmployerMatch),
			Withdrawals:    y.Flows.Withdrawals,
		}
		if y.Year > 0 && s.Returns != nil {
			row.StocksReturn = percentPtr(s.Returns.Returns.Stocks)
			row.BondsReturn = percentPtr(s.Returns.Returns.Bonds)
			row.CashReturn = percentPtr(s.Returns.Returns.Cash)
			inflation := s.Returns.InflationRate
			row.InflationRate = &inflation
			row.HistoricalYear = s.Returns.Extras.HistoricalYear
		}
		rows = append(rows, row)
	}
	return rows
}

func percentPtr(fraction decimal.Decimal) *decimal.Decimal {
	v := fraction.Mul(hundred)
	return &v
}

// ExtractStochasticTable returns one row per run in run-index order
func ExtractStochasticTable(m *domain.MultiSimulationResult) []domain.StochasticTableRow {
	runs := m.Ordered()
	rows := make([]domain.StochasticTableRow, 0, len(runs))
	for _, r := range runs {
		final := r.Final()
		row := domain.StochasticTableRow{
			Seed:                r.Seed,
			Success:             r.Success,
			FireAge:             r.RetirementAge,
			BankruptcyAge:       r.BankruptcyAge,
			FinalPhase:          final.Phase,
			FinalPortfolioValue: final.TotalValue,
			HistoricalRanges:    r.HistoricalRanges,
		}
		if avg, ok := averageReturns(r); ok {
			row.AverageStocksReturn = &avg.Stocks
			row.AverageBondsReturn = &avg.Bonds
			row.AverageCashReturn = &avg.Cash
			row.AverageInflationRate = &avg.Inflation
		}
		rows = append(rows, row)
	}
	return rows
}

// ExtractYearlyAggregateTable flattens an analysis into one row per simulation year
func ExtractYearlyAggregateTable(a domain.Analysis) []domain.YearlyAggregateTableRow {
	rows := make([]domain.YearlyAggregateTableRow, 0, len(a.YearlyProgression))
	for _, y := range a.YearlyProgression {
		row := domain.YearlyAggregateTableRow{
			Year:                y.Year,
			Age:                 y.Age,
			PercentAccumulation: y.Phases.Accumulation,
			PercentRetirement:   y.Phases.Retirement,
			PercentBankrupt:     y.Phases.Bankrupt,
		}
		if !y.Portfolio.NoData {
			p := y.Portfolio.Percentiles
			row.P10Portfolio, row.P25Portfolio, row.P50Portfolio = p.P10, p.P25, p.P50
			row.P75Portfolio, row.P90Portfolio = p.P75, p.P90
			lo, hi := y.Portfolio.Min, y.Portfolio.Max
			row.MinPortfolio = &lo
			row.MaxPortfolio = &hi
		}
		rows = append(rows, row)
	}
	return rows
}
