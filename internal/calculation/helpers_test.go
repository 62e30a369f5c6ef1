package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fire-calculator/internal/domain"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func dp(v float64) *decimal.Decimal {
	x := decimal.NewFromFloat(v)
	return &x
}

func fp(v float64) *float64 { return &v }

func ip(v int) *int { return &v }

func assertDecimal(t *testing.T, want float64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want, got.InexactFloat64(), 1e-6, msgAndArgs...)
}

func weights(t *testing.T, stocks, bonds, cash float64) domain.AssetValues {
	t.Helper()
	w, err := domain.AllocationFromPercents(d(stocks), d(bonds), d(cash))
	require.NoError(t, err)
	return w
}

func quickPlan() *domain.PlanInputs {
	plan := domain.QuickPlan{
		CurrentAge:         30,
		AnnualIncome:       d(100000),
		AnnualExpenses:     d(60000),
		InvestedAssets:     d(100000),
		StockAllocation:    d(70),
		BondAllocation:     d(30),
		StockReturn:        d(10),
		BondReturn:         d(5),
		CashReturn:         d(3),
		InflationRate:      d(3),
		RetirementExpenses: d(40000),
		SafeWithdrawalRate: d(4),
		EffectiveTaxRate:   d(15),
	}.ToPlanInputs()
	plan.Timeline.StartDate = "2030-01-01"
	return &plan
}

// zeroMarketPlan has no returns, yields or inflation, so balances move only with cash flows
func zeroMarketPlan() *domain.PlanInputs {
	return &domain.PlanInputs{
		Timeline: domain.Timeline{CurrentAge: 30, LifeExpectancy: 33, StartDate: "2030-01-01"},
		Retirement: domain.RetirementSettings{
			Strategy:      domain.StrategyFixedAge,
			RetirementAge: fp(60),
		},
		Taxes: domain.TaxSettings{Mode: domain.TaxModeFlat, EffectiveTaxRate: dp(0)},
		Incomes: []domain.CashFlowInput{{
			ID: "salary", Name: "Salary", Amount: d(10000), Frequency: domain.FrequencyMonthly,
			Timeframe: domain.Timeframe{Start: domain.TimePoint{Type: domain.TimePointNow}},
		}},
		Accounts: []domain.AccountInput{
			{ID: "k", Name: "401k", Type: domain.Account401k, Allocation: domain.AllocationInput{Stocks: d(100)}},
			{ID: "sav", Name: "Savings", Type: domain.AccountSavings, Allocation: domain.AllocationInput{Cash: d(100)}},
		},
		ContributionRules: []domain.ContributionRuleInput{
			{ID: "r1", AccountID: "k", Rank: 1, Type: domain.ContributionUnlimited},
		},
		BaseContributionRule: domain.BaseRuleSave,
		Simulation:           domain.SimulationSettings{Mode: domain.ModeFixed},
	}
}
