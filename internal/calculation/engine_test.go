package calculation

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fire-calculator/internal/domain"
	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

var phaseOrder = map[domain.PhaseName]int{
	domain.PhaseAccumulation: 0,
	domain.PhaseRetirement:   1,
	domain.PhaseBankrupt:     2,
}

func runPlan(t *testing.T, plan *domain.PlanInputs, seed uint32) *domain.SimulationResult {
	t.Helper()
	engine, err := NewSimulationEngineForPlan(plan, seed, nil)
	require.NoError(t, err)
	result, err := engine.Run(context.Background())
	require.NoError(t, err)
	return result
}

func accountBalance(t *testing.T, snap domain.PeriodSnapshot, id string) float64 {
	t.Helper()
	for _, a := range snap.Accounts {
		if a.ID == id {
			return a.Balance.InexactFloat64()
		}
	}
	t.Fatalf("account %s not in snapshot %d", id, snap.Period)
	return 0
}

func TestQuickPlanReachesFire(t *testing.T) {
	result := runPlan(t, quickPlan(), 1)

	require.Len(t, result.Data, 55*12+1)
	initial := result.Initial()
	assert.Equal(t, 0, initial.Period)
	assert.Equal(t, domain.PhaseAccumulation, initial.Phase)
	assertDecimal(t, 100000, initial.TotalValue)
	assert.Equal(t, 2030, initial.Date.Year())

	require.NotNil(t, result.RetirementAge)
	assert.GreaterOrEqual(t, *result.RetirementAge, 44.5)
	assert.LessOrEqual(t, *result.RetirementAge, 46.5)
	assert.Nil(t, result.BankruptcyAge)
	assert.True(t, result.Success)

	first, ok := result.FirstInPhase(domain.PhaseRetirement)
	require.True(t, ok)
	assert.InDelta(t, *result.RetirementAge, first.Age, 1e-9)
	assert.True(t, first.TotalValue.GreaterThanOrEqual(result.Context.RequiredPortfolio))

	// surplus of 40000 a year is saved before retirement
	year1 := result.Data[1]
	assert.InDelta(t, 100000.0/12, year1.CashFlow.Income.InexactFloat64(), 1e-6)
	assert.InDelta(t, 40000.0/12, year1.CashFlow.Contributions.InexactFloat64(), 1e-6)
	assert.True(t, year1.CashFlow.Taxes.IsZero())

	// retirement spending is grossed up for tax
	last := result.Final()
	assert.Equal(t, domain.PhaseRetirement, last.Phase)
	assert.InDelta(t, 40000.0/12/0.85, last.CashFlow.Withdrawals.InexactFloat64(), 1e-6)
	assert.InDelta(t, 40000.0/12/0.85*0.15, last.CashFlow.Taxes.InexactFloat64(), 1e-6)
	assert.True(t, result.LifetimeTaxes().IsPositive())
}

func TestYearlyResolution(t *testing.T) {
	engine, err := NewSimulationEngineForPlan(quickPlan(), 1, nil)
	require.NoError(t, err)
	engine.Resolution = domain.ResolutionYearly

	result, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Data, 56)

	year1 := result.Data[1]
	assert.Equal(t, 12, year1.Period)
	assert.InDelta(t, 31, year1.Age, 1e-9)
	assertDecimal(t, 100000, year1.CashFlow.Income)
	assertDecimal(t, 60000, year1.CashFlow.Expenses)
	assert.Empty(t, year1.Accounts)
	require.NotNil(t, year1.Returns)
	assert.Equal(t, 1, year1.Returns.Extras.SimulationYear)
}

func TestSWRTargetAlreadyMet(t *testing.T) {
	plan := quickPlan()
	plan.Accounts[0].Balance = d(2000000)

	result := runPlan(t, plan, 1)
	assert.Equal(t, domain.PhaseRetirement, result.Initial().Phase)
	require.NotNil(t, result.RetirementAge)
	assert.Equal(t, 30.0, *result.RetirementAge)
}

func TestFixedAgeTransition(t *testing.T) {
	plan := zeroMarketPlan()
	plan.Retirement.RetirementAge = fp(31)

	result := runPlan(t, plan, 1)
	require.NotNil(t, result.RetirementAge)
	assert.InDelta(t, 31, *result.RetirementAge, 1e-9)

	first, ok := result.FirstInPhase(domain.PhaseRetirement)
	require.True(t, ok)
	assert.Equal(t, 12, first.Period)
	assert.Equal(t, domain.PhaseAccumulation, result.Data[11].Phase)
}

func TestContributionLimitsResetEachYear(t *testing.T) {
	result := runPlan(t, zeroMarketPlan(), 1)
	require.Len(t, result.Data, 37)

	// three months fill the 24500 limit, the rest of the year goes to savings
	assert.InDelta(t, 20000, accountBalance(t, result.Data[2], "k"), 1e-6)
	assert.InDelta(t, 24500, accountBalance(t, result.Data[3], "k"), 1e-6)
	assert.InDelta(t, 24500, accountBalance(t, result.Data[12], "k"), 1e-6)
	assert.InDelta(t, 120000-24500, accountBalance(t, result.Data[12], "sav"), 1e-6)
	assert.InDelta(t, 34500, accountBalance(t, result.Data[13], "k"), 1e-6)
	assert.InDelta(t, 49000, accountBalance(t, result.Data[24], "k"), 1e-6)
	assert.InDelta(t, 73500, accountBalance(t, result.Data[36], "k"), 1e-6)
	assertDecimal(t, 360000, result.Final().TotalValue)
}

func TestBankruptcyIsTerminal(t *testing.T) {
	retirementExpenses := d(12000)
	plan := &domain.PlanInputs{
		Timeline: domain.Timeline{CurrentAge: 40, LifeExpectancy: 42, StartDate: "2030-01-01"},
		Retirement: domain.RetirementSettings{
			Strategy:           domain.StrategyFixedAge,
			RetirementAge:      fp(40),
			RetirementExpenses: &retirementExpenses,
		},
		Taxes: domain.TaxSettings{Mode: domain.TaxModeFlat},
		Accounts: []domain.AccountInput{
			{ID: "sav", Name: "Savings", Type: domain.AccountSavings, Balance: d(10000), Allocation: domain.AllocationInput{Cash: d(100)}},
		},
		BaseContributionRule: domain.BaseRuleSave,
	}

	result := runPlan(t, plan, 1)
	assert.Equal(t, domain.PhaseRetirement, result.Initial().Phase)
	require.NotNil(t, result.RetirementAge)
	assert.Equal(t, 40.0, *result.RetirementAge)

	// ten months of 1000 drain the account, the eleventh cannot be funded
	require.NotNil(t, result.BankruptcyAge)
	assert.InDelta(t, 40+11.0/12, *result.BankruptcyAge, 1e-9)
	assert.False(t, result.Success)

	assert.Equal(t, domain.PhaseRetirement, result.Data[10].Phase)
	assertDecimal(t, 1000, result.Data[11].CashFlow.Shortfall)
	for _, snap := range result.Data[11:] {
		assert.Equal(t, domain.PhaseBankrupt, snap.Phase)
		assert.True(t, snap.TotalValue.IsZero())
	}
	assert.True(t, result.Final().CashFlow.Withdrawals.IsZero())
}

func TestMonteCarloRunsAreReproducible(t *testing.T) {
	plan := quickPlan()
	plan.Simulation.Mode = domain.ModeMonteCarlo

	a := runPlan(t, plan, 4242)
	b := runPlan(t, plan, 4242)
	assert.Equal(t, a, b)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, ja, jb)

	c := runPlan(t, plan, 4243)
	assert.False(t, a.Final().TotalValue.Equal(c.Final().TotalValue))
}

func TestLongRunKeepsAmountsAtFixedPrecision(t *testing.T) {
	plan := quickPlan()
	plan.Timeline.LifeExpectancy = 90
	plan.Simulation.Mode = domain.ModeMonteCarlo

	result := runPlan(t, plan, 11)
	require.Len(t, result.Data, 60*12+1)
	minExp := int32(-rates.AmountPlaces)
	for _, snap := range result.Data {
		require.GreaterOrEqual(t, snap.TotalValue.Exponent(), minExp, "period %d", snap.Period)
		for _, acct := range snap.Accounts {
			require.GreaterOrEqual(t, acct.Balance.Exponent(), minExp, "period %d account %s", snap.Period, acct.ID)
		}
	}
}

func TestPhasesOnlyMoveForward(t *testing.T) {
	plan := quickPlan()
	plan.Simulation.Mode = domain.ModeMonteCarlo
	plan.Retirement.RetirementExpenses = dp(70000)

	for seed := uint32(1); seed <= 20; seed++ {
		engine, err := NewSimulationEngineForPlan(plan, seed, nil)
		require.NoError(t, err)
		engine.Resolution = domain.ResolutionYearly
		result, err := engine.Run(context.Background())
		require.NoError(t, err)

		prev := 0
		for _, snap := range result.Data {
			order := phaseOrder[snap.Phase]
			assert.GreaterOrEqual(t, order, prev, "seed %d period %d", seed, snap.Period)
			prev = order
			assert.False(t, snap.TotalValue.IsNegative(), "seed %d period %d", seed, snap.Period)
			if snap.Phase == domain.PhaseBankrupt {
				assert.True(t, snap.TotalValue.IsZero())
			}
		}
		if result.BankruptcyAge != nil {
			assert.False(t, result.Success)
		}
	}
}

func TestHistoricalRunReportsRanges(t *testing.T) {
	plan := quickPlan()
	plan.Timeline.LifeExpectancy = 40
	plan.Simulation.Mode = domain.ModeHistorical
	plan.Simulation.HistoricalStartYear = ip(2020)

	result := runPlan(t, plan, 1)
	assert.Equal(t, []domain.HistoricalRange{
		{StartYear: 2020, EndYear: 2024},
		{StartYear: 1928, EndYear: 1932},
	}, result.HistoricalRanges)

	snap := result.Data[12]
	require.NotNil(t, snap.Returns)
	require.NotNil(t, snap.Returns.Extras.HistoricalYear)
	assert.Equal(t, 2020, *snap.Returns.Extras.HistoricalYear)
}

func TestBracketTaxModeRuns(t *testing.T) {
	plan := quickPlan()
	plan.Taxes = domain.TaxSettings{Mode: domain.TaxModeBrackets, FilingStatus: domain.FilingMarriedFilingJointly}

	result := runPlan(t, plan, 1)
	require.NotNil(t, result.RetirementAge)
	assert.True(t, result.LifetimeTaxes().IsPositive())
}

func TestRunHonorsCancellation(t *testing.T) {
	engine, err := NewSimulationEngineForPlan(quickPlan(), 1, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := engine.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestRunDoesNotMutatePlan(t *testing.T) {
	plan := quickPlan()
	before := plan.Accounts[0].Balance
	runPlan(t, plan, 1)
	runPlan(t, plan, 1)
	assert.True(t, before.Equal(plan.Accounts[0].Balance))
}

func TestValidateForRun(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.PlanInputs)
	}{
		{"life expectancy not after current age", func(p *domain.PlanInputs) { p.Timeline.LifeExpectancy = 30 }},
		{"fixed age without age", func(p *domain.PlanInputs) { p.Retirement.Strategy = domain.StrategyFixedAge }},
		{"swr without rate", func(p *domain.PlanInputs) { p.Retirement.SafeWithdrawalRate = nil }},
		{"unknown strategy", func(p *domain.PlanInputs) { p.Retirement.Strategy = "lottery" }},
		{"tax rate of 100 percent", func(p *domain.PlanInputs) { p.Taxes.EffectiveTaxRate = dp(100) }},
		{"allocation not summing to 100", func(p *domain.PlanInputs) { p.Accounts[0].Allocation.Bonds = d(10) }},
		{"bad start date", func(p *domain.PlanInputs) { p.Timeline.StartDate = "January 2030" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := quickPlan()
			tt.mutate(plan)
			_, err := NewSimulationEngineForPlan(plan, 1, nil)
			assert.ErrorIs(t, err, domain.ErrInvalidPlan)
		})
	}

	assert.ErrorIs(t, ValidateForRun(nil), domain.ErrInvalidPlan)

	plan := quickPlan()
	plan.Simulation.Mode = domain.ModeHistorical
	plan.Simulation.HistoricalStartYear = ip(1850)
	_, err := NewSimulationEngineForPlan(plan, 1, nil)
	assert.ErrorIs(t, err, domain.ErrDataRange)

	_, err = NewSimulationEngine(quickPlan(), nil, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}
