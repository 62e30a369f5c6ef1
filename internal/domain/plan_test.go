package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleQuickPlan() QuickPlan {
	return QuickPlan{
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
	}
}

func TestQuickPlanToPlanInputs(t *testing.T) {
	plan := exampleQuickPlan().ToPlanInputs()

	assert.Equal(t, StrategySWRTarget, plan.Retirement.Strategy)
	assert.Equal(t, BaseRuleSave, plan.BaseContributionRule)
	assert.Equal(t, float64(DefaultQuickPlanLifeExpectancy), plan.Timeline.LifeExpectancy)
	require.Len(t, plan.Incomes, 1)
	require.Len(t, plan.Expenses, 1)
	require.Len(t, plan.Accounts, 1)
	assert.False(t, plan.Incomes[0].Gross)
	assert.True(t, plan.Incomes[0].GrowthRate.Equal(d(3)))

	target, err := plan.Accounts[0].TargetAllocation()
	require.NoError(t, err)
	assertDecimal(t, 0.7, target.Stocks)

	assert.InDelta(t, 1176470.588, plan.RequiredPortfolio().InexactFloat64(), 0.01)
	assert.Equal(t, 55*12, plan.TotalPeriods())
}

func TestRetirementExpensesFallback(t *testing.T) {
	plan := PlanInputs{
		Retirement: RetirementSettings{Strategy: StrategyFixedAge},
		Expenses: []CashFlowInput{
			{ID: "rent", Amount: d(2000), Frequency: FrequencyMonthly},
			{ID: "car", Amount: d(30000), Frequency: FrequencyOneTime},
			{ID: "old", Amount: d(999), Frequency: FrequencyYearly, Disabled: true},
			{ID: "gym", Amount: d(50), Frequency: FrequencyWeekly},
		},
	}
	assertDecimal(t, 24000+2600, plan.RetirementExpenses())
	assert.True(t, plan.RequiredPortfolio().IsZero())
}

func TestFrequencyTimesPerYear(t *testing.T) {
	tests := map[Frequency]int64{
		FrequencyYearly:   1,
		FrequencyMonthly:  12,
		FrequencyBiweekly: 26,
		FrequencyWeekly:   52,
		FrequencyOneTime:  0,
	}
	for f, want := range tests {
		assert.True(t, f.Valid())
		assert.True(t, f.TimesPerYear().Equal(decimal.NewFromInt(want)), string(f))
	}
	assert.False(t, Frequency("daily").Valid())
}

func TestPlanStartDate(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 4, 5, 0, time.UTC)

	plan := PlanInputs{}
	start, err := plan.StartDate(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), start)

	// the default month is taken in UTC
	east := time.FixedZone("UTC+10", 10*60*60)
	start, err = plan.StartDate(time.Date(2026, 11, 1, 5, 0, 0, 0, east))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), start)

	plan.Timeline.StartDate = "2030-01-01"
	start, err = plan.StartDate(now)
	require.NoError(t, err)
	assert.Equal(t, 2030, start.Year())

	plan.Timeline.StartDate = "01/01/2030"
	_, err = plan.StartDate(now)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestTotalBalance(t *testing.T) {
	plan := exampleQuickPlan().ToPlanInputs()
	plan.Accounts = append(plan.Accounts, AccountInput{ID: "cash", Balance: d(2500)})
	assert.True(t, plan.TotalBalance().Equal(d(102500)), plan.TotalBalance().String())
	assert.True(t, (&PlanInputs{}).TotalBalance().IsZero())
}
