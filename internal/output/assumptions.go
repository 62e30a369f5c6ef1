package output

import (
	"fmt"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// DefaultAssumptions lists the modeling assumptions every report shares.
var DefaultAssumptions = []string{
	"Monthly periods; market returns drawn once per simulation year",
	"All values in today's dollars (real terms)",
	"Withdrawals come from cash, then bonds, then stocks",
	"10% penalty on tax-deferred and Roth growth withdrawn before age 59.5",
	"IRS contribution limits: 2025 levels held constant",
}

// GenerateAssumptions creates the assumptions list from the plan's actual values
func GenerateAssumptions(plan *domain.PlanInputs) []string {
	if plan == nil {
		return DefaultAssumptions
	}
	m := plan.MarketAssumptions
	out := []string{
		fmt.Sprintf("Returns (nominal): stocks %s, bonds %s, cash %s", FormatPercentage(m.StockReturn), FormatPercentage(m.BondReturn), FormatPercentage(m.CashReturn)),
		fmt.Sprintf("Inflation: %s annually", FormatPercentage(m.InflationRate)),
	}
	switch plan.Simulation.Mode {
	case domain.ModeMonteCarlo:
		out = append(out, "Returns: normally distributed per asset class (Monte Carlo)")
	case domain.ModeHistorical:
		out = append(out, "Returns: replayed from the historical dataset, looping past its last year")
	default:
		out = append(out, "Returns: fixed at the assumed rates every year")
	}

	switch plan.Retirement.Strategy {
	case domain.StrategySWRTarget:
		out = append(out, fmt.Sprintf("Retire when the portfolio reaches %s (%s withdrawal rate)",
			FormatCurrencyWhole(plan.RequiredPortfolio()), FormatPercentage(plan.SafeWithdrawalRate().Mul(decimalHundred))))
	case domain.StrategyFixedAge:
		if plan.Retirement.RetirementAge != nil {
			out = append(out, fmt.Sprintf("Retire at age %.1f", *plan.Retirement.RetirementAge))
		}
	}
	out = append(out, fmt.Sprintf("Retirement spending: %s per year", FormatCurrencyWhole(plan.RetirementExpenses())))

	if plan.Taxes.Mode == domain.TaxModeBrackets {
		out = append(out, fmt.Sprintf("Taxes: 2025 federal brackets, %s", plan.Taxes.FilingStatus))
	} else {
		out = append(out, fmt.Sprintf("Taxes: flat %s effective rate", FormatPercentage(plan.EffectiveTaxRate().Mul(decimalHundred))))
	}
	return append(out, DefaultAssumptions...)
}
