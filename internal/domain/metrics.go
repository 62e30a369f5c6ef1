package domain

import "github.com/shopspring/decimal"

// KeyMetrics summarizes one run, or averages a batch of runs.
// For a batch, Success is the success rate and each optional field is the
// mean of its non-nil values across runs.
type KeyMetrics struct {
	Success               decimal.Decimal  `json:"success"`
	StartAge              float64          `json:"start_age"`
	RetirementAge         *float64         `json:"retirement_age"`
	YearsToRetirement     *float64         `json:"years_to_retirement"`
	BankruptcyAge         *float64         `json:"bankruptcy_age"`
	YearsToBankruptcy     *float64         `json:"years_to_bankruptcy"`
	PortfolioAtRetirement *decimal.Decimal `json:"portfolio_at_retirement"`
	FinalPortfolio        decimal.Decimal  `json:"final_portfolio"`
	ProgressToRetirement  *decimal.Decimal `json:"progress_to_retirement"`
	LifetimeTaxes         decimal.Decimal  `json:"lifetime_taxes"`
	LifetimePenalties     decimal.Decimal  `json:"lifetime_penalties"`
	Runs                  int              `json:"runs"`
}

// Succeeded reports whether a single-run metric counts as a success
func (k KeyMetrics) Succeeded() bool {
	return k.Success.GreaterThanOrEqual(decimal.NewFromInt(1))
}
