package domain

import "github.com/shopspring/decimal"

// SimulationTableRow is one year of a single run. Return fields are percents.
type SimulationTableRow struct {
	Year           int              `json:"year"`
	Age            float64          `json:"age"`
	Phase          PhaseName        `json:"phase"`
	PortfolioValue decimal.Decimal  `json:"portfolio_value"`
	StocksValue    decimal.Decimal  `json:"stocks_value"`
	StocksReturn   *decimal.Decimal `json:"stocks_return"`
	BondsValue     decimal.Decimal  `json:"bonds_value"`
	BondsReturn    *decimal.Decimal `json:"bonds_return"`
	CashValue      decimal.Decimal  `json:"cash_value"`
	CashReturn     *decimal.Decimal `json:"cash_return"`
	InflationRate  *decimal.Decimal `json:"inflation_rate"`
	Income         decimal.Decimal  `json:"income"`
	Expenses       decimal.Decimal  `json:"expenses"`
	Taxes          decimal.Decimal  `json:"taxes"`
	Contributions  decimal.Decimal  `json:"contributions"`
	Withdrawals    decimal.Decimal  `json:"withdrawals"`
	HistoricalYear *int             `json:"historical_year,omitempty"`
}

// StochasticTableRow summarizes one run of a batch. Average returns are percents.
type StochasticTableRow struct {
	Seed                 uint32            `json:"seed"`
	Success              bool              `json:"success"`
	FireAge              *float64          `json:"fire_age"`
	BankruptcyAge        *float64          `json:"bankruptcy_age"`
	FinalPhase           PhaseName         `json:"final_phase"`
	FinalPortfolioValue  decimal.Decimal   `json:"final_portfolio_value"`
	AverageStocksReturn  *decimal.Decimal  `json:"average_stocks_return"`
	AverageBondsReturn   *decimal.Decimal  `json:"average_bonds_return"`
	AverageCashReturn    *decimal.Decimal  `json:"average_cash_return"`
	AverageInflationRate *decimal.Decimal  `json:"average_inflation_rate"`
	HistoricalRanges     []HistoricalRange `json:"historical_ranges,omitempty"`
}

// YearlyAggregateTableRow is one year of a batch analysis. Phase shares are percents.
type YearlyAggregateTableRow struct {
	Year                int              `json:"year"`
	Age                 float64          `json:"age"`
	PercentAccumulation decimal.Decimal  `json:"percent_accumulation"`
	PercentRetirement   decimal.Decimal  `json:"percent_retirement"`
	PercentBankrupt     decimal.Decimal  `json:"percent_bankrupt"`
	P10Portfolio        decimal.Decimal  `json:"p10_portfolio"`
	P25Portfolio        decimal.Decimal  `json:"p25_portfolio"`
	P50Portfolio        decimal.Decimal  `json:"p50_portfolio"`
	P75Portfolio        decimal.Decimal  `json:"p75_portfolio"`
	P90Portfolio        decimal.Decimal  `json:"p90_portfolio"`
	MinPortfolio        *decimal.Decimal `json:"min_portfolio"`
	MaxPortfolio        *decimal.Decimal `json:"max_portfolio"`
}
