package domain

import "github.com/shopspring/decimal"

// PercentileRanges holds the reported percentiles of a distribution
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// Distribution summarizes a sample. NoData is set for an empty sample and all other fields are zero.
type Distribution struct {
	NoData      bool             `json:"no_data"`
	Count       int              `json:"count"`
	Mean        decimal.Decimal  `json:"mean"`
	Min         decimal.Decimal  `json:"min"`
	Max         decimal.Decimal  `json:"max"`
	Percentiles PercentileRanges `json:"percentiles"`
}

// PhasePercentages is the share of runs in each phase, in percent
type PhasePercentages struct {
	Accumulation decimal.Decimal `json:"accumulation"`
	Retirement   decimal.Decimal `json:"retirement"`
	Bankrupt     decimal.Decimal `json:"bankrupt"`
}

// YearProgression is the cross-run picture of one simulation year
type YearProgression struct {
	Year      int              `json:"year"`
	Age       float64          `json:"age"`
	Portfolio Distribution     `json:"portfolio"`
	Phases    PhasePercentages `json:"phases"`
}

// ReturnsSummary holds mean realized rates across runs, in percent
type ReturnsSummary struct {
	Stocks    decimal.Decimal `json:"stocks"`
	Bonds     decimal.Decimal `json:"bonds"`
	Cash      decimal.Decimal `json:"cash"`
	Inflation decimal.Decimal `json:"inflation"`
}

// Analysis aggregates a batch of runs. NoData is set when the batch is empty.
type Analysis struct {
	NoData            bool              `json:"no_data"`
	Runs              int               `json:"runs"`
	SuccessfulRuns    int               `json:"successful_runs"`
	SuccessRate       decimal.Decimal   `json:"success_rate"`
	BankruptcyRate    decimal.Decimal   `json:"bankruptcy_rate"`
	FinalPortfolio    Distribution      `json:"final_portfolio"`
	FireAge           Distribution      `json:"fire_age"`
	YearsToFire       Distribution      `json:"years_to_fire"`
	BankruptcyAge     Distribution      `json:"bankruptcy_age"`
	MeanLifetimeTaxes decimal.Decimal   `json:"mean_lifetime_taxes"`
	MeanPenalties     decimal.Decimal   `json:"mean_lifetime_penalties"`
	MeanReturns       ReturnsSummary    `json:"mean_returns"`
	YearlyProgression []YearProgression `json:"yearly_progression"`
}
