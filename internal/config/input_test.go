package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fire-calculator/internal/domain"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_YAMLAndTOMLAgree(t *testing.T) {
	parser := NewInputParser()

	fromYAML, err := parser.LoadFromFile(filepath.Join("testdata", "plan.yaml"))
	require.NoError(t, err)
	fromTOML, err := parser.LoadFromFile(filepath.Join("testdata", "plan.toml"))
	require.NoError(t, err)

	for name, plan := range map[string]*domain.PlanInputs{"yaml": fromYAML, "toml": fromTOML} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, "Two accounts", plan.Name)
			assert.Equal(t, 35.0, plan.Timeline.CurrentAge)
			assert.Equal(t, "2030-01-01", plan.Timeline.StartDate)
			assert.Equal(t, domain.StrategyFixedAge, plan.Retirement.Strategy)
			require.NotNil(t, plan.Retirement.RetirementAge)
			assert.Equal(t, 55.0, *plan.Retirement.RetirementAge)
			assert.True(t, plan.Retirement.PassiveIncome.Equal(decimal.NewFromInt(12000)))
			assert.True(t, plan.MarketAssumptions.StockYield.Equal(decimal.NewFromFloat(1.5)))
			assert.Equal(t, domain.TaxModeBrackets, plan.Taxes.Mode)
			assert.Equal(t, domain.FilingMarriedFilingJointly, plan.Taxes.FilingStatus)

			require.Len(t, plan.Incomes, 2)
			assert.True(t, plan.Incomes[0].Gross)
			require.NotNil(t, plan.Incomes[0].Timeframe.End)
			assert.Equal(t, domain.TimePointAtRetirement, plan.Incomes[0].Timeframe.End.Type)
			assert.Equal(t, domain.FrequencyOneTime, plan.Incomes[1].Frequency)
			require.NotNil(t, plan.Incomes[1].Timeframe.Start.Month)
			assert.Equal(t, 6, *plan.Incomes[1].Timeframe.Start.Month)

			require.Len(t, plan.Accounts, 2)
			assert.Equal(t, domain.Account401k, plan.Accounts[0].Type)
			assert.True(t, plan.Accounts[1].Allocation.Cash.Equal(decimal.NewFromInt(100)))

			require.Len(t, plan.ContributionRules, 2)
			assert.Equal(t, []string{"salary"}, plan.ContributionRules[0].IncomeIDs)
			require.NotNil(t, plan.ContributionRules[0].EmployerMatch)
			assert.True(t, plan.ContributionRules[0].EmployerMatch.Equal(decimal.NewFromInt(6000)))
			assert.Equal(t, domain.BaseRuleSpend, plan.BaseContributionRule)

			assert.Equal(t, domain.ModeMonteCarlo, plan.Simulation.Mode)
			assert.Equal(t, uint32(42), plan.Simulation.Seed)
			assert.Equal(t, 200, plan.Simulation.NumSimulations)
			assert.Equal(t, domain.RebalanceAnnually, plan.Simulation.Rebalance)
		})
	}
}

func TestLoadFromFile_QuickPlan(t *testing.T) {
	plan, err := NewInputParser().LoadFromFile(filepath.Join("testdata", "quick.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.StrategySWRTarget, plan.Retirement.Strategy)
	assert.Equal(t, "2030-01-01", plan.Timeline.StartDate)
	assert.Equal(t, float64(domain.DefaultQuickPlanLifeExpectancy), plan.Timeline.LifeExpectancy)
	assert.Equal(t, domain.ModeFixed, plan.Simulation.Mode)
	assert.Equal(t, DefaultNumSimulations, plan.Simulation.NumSimulations)
	assert.InDelta(t, 1176470.588, plan.RequiredPortfolio().InexactFloat64(), 0.01)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	plan, err := NewInputParser().LoadFromFile("nonexistent_file.yaml")

	assert.Error(t, err)
	assert.Nil(t, plan)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o644))

	_, err := NewInputParser().LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported plan file extension")
}

func TestParse_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		doc     string
		wantMsg string
	}{
		{"bad yaml", FormatYAML, "timeline:\n\tcurrent_age: 30\n", "failed to parse YAML"},
		{"unknown yaml key", FormatYAML, "timline:\n  current_age: 30\n", "failed to parse YAML"},
		{"bad toml", FormatTOML, "[timeline\ncurrent_age = 30\n", "failed to parse TOML"},
		{"bad json", FormatJSON, `{"timeline": {"current_age": }`, "failed to parse JSON"},
		{"unknown format", "ini", "", "unsupported plan format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewInputParser().Parse([]byte(tt.doc), tt.format)
			require.Error(t, err)
			assert.Nil(t, plan)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_JSONPlan(t *testing.T) {
	doc := `{
		"timeline": {"current_age": 40, "life_expectancy": 80},
		"retirement": {"strategy": "fixed_age", "retirement_age": 50},
		"market_assumptions": {"stock_return": 7, "bond_return": 4, "cash_return": 2, "inflation_rate": 2},
		"taxes": {"effective_tax_rate": "20"},
		"accounts": [{"id": "b", "type": "taxable_brokerage", "balance": 500000,
			"allocation": {"stocks": 60, "bonds": 40, "cash": 0}}]
	}`
	plan, err := NewInputParser().Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, domain.TaxModeFlat, plan.Taxes.Mode)
	assert.InDelta(t, 0.2, plan.EffectiveTaxRate().InexactFloat64(), 1e-9)
	assert.Equal(t, "b", plan.Accounts[0].Name)
	assert.Equal(t, domain.BaseRuleSave, plan.BaseContributionRule)
}

func TestApplyDefaults(t *testing.T) {
	plan := &domain.PlanInputs{
		Taxes:   domain.TaxSettings{Mode: domain.TaxModeBrackets},
		Incomes: []domain.CashFlowInput{{ID: "a"}},
	}
	NewInputParser().ApplyDefaults(plan)

	assert.Equal(t, domain.FilingSingle, plan.Taxes.FilingStatus)
	assert.Equal(t, domain.BaseRuleSave, plan.BaseContributionRule)
	assert.Equal(t, domain.ModeFixed, plan.Simulation.Mode)
	assert.Equal(t, DefaultNumSimulations, plan.Simulation.NumSimulations)
	assert.Equal(t, domain.RebalanceNone, plan.Simulation.Rebalance)
	assert.Equal(t, domain.TimePointNow, plan.Incomes[0].Timeframe.Start.Type)
}

func TestCreateExamplePlanIsValid(t *testing.T) {
	parser := NewInputParser()
	plan := parser.CreateExamplePlan()
	assert.NoError(t, parser.ValidatePlan(plan))
}

func TestValidatePlan_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *domain.PlanInputs)
		wantErr error
		wantMsg string
	}{
		{"zero age", func(p *domain.PlanInputs) { p.Timeline.CurrentAge = 0 }, domain.ErrInvalidPlan, "current_age"},
		{"life before age", func(p *domain.PlanInputs) { p.Timeline.LifeExpectancy = 20 }, domain.ErrInvalidPlan, "life_expectancy"},
		{"life too long", func(p *domain.PlanInputs) { p.Timeline.LifeExpectancy = 130 }, domain.ErrInvalidPlan, "cannot exceed"},
		{"unknown strategy", func(p *domain.PlanInputs) { p.Retirement.Strategy = "someday" }, domain.ErrInvalidPlan, "strategy"},
		{"swr missing", func(p *domain.PlanInputs) { p.Retirement.SafeWithdrawalRate = nil }, domain.ErrInvalidPlan, "safe_withdrawal_rate"},
		{"swr zero", func(p *domain.PlanInputs) {
			z := decimal.Zero
			p.Retirement.SafeWithdrawalRate = &z
		}, domain.ErrInvalidPlan, "safe_withdrawal_rate"},
		{"retirement expenses missing", func(p *domain.PlanInputs) { p.Retirement.RetirementExpenses = nil }, domain.ErrInvalidPlan, "retirement_expenses"},
		{"fixed age without age", func(p *domain.PlanInputs) { p.Retirement.Strategy = domain.StrategyFixedAge }, domain.ErrInvalidPlan, "retirement_age"},
		{"stock return total loss", func(p *domain.PlanInputs) {
			p.MarketAssumptions.StockReturn = decimal.NewFromInt(-100)
		}, domain.ErrInvalidPlan, "stock_return"},
		{"extreme deflation", func(p *domain.PlanInputs) {
			p.MarketAssumptions.InflationRate = decimal.NewFromInt(-11)
		}, domain.ErrInvalidPlan, "deflation"},
		{"negative volatility", func(p *domain.PlanInputs) {
			p.MarketAssumptions.StockVolatility = decimal.NewFromInt(-1)
		}, domain.ErrInvalidPlan, "stock_volatility"},
		{"tax rate 100", func(p *domain.PlanInputs) {
			r := decimal.NewFromInt(100)
			p.Taxes.EffectiveTaxRate = &r
		}, domain.ErrInvalidPlan, "effective_tax_rate"},
		{"unknown tax mode", func(p *domain.PlanInputs) { p.Taxes.Mode = "vat" }, domain.ErrInvalidPlan, "mode"},
		{"unknown filing status", func(p *domain.PlanInputs) {
			p.Taxes.Mode = domain.TaxModeBrackets
			p.Taxes.FilingStatus = "married_filing_separately"
		}, domain.ErrInvalidPlan, "filing_status"},
		{"income frequency", func(p *domain.PlanInputs) { p.Incomes[0].Frequency = "daily" }, domain.ErrInvalidPlan, "frequency"},
		{"income negative", func(p *domain.PlanInputs) { p.Incomes[0].Amount = decimal.NewFromInt(-1) }, domain.ErrInvalidPlan, "amount"},
		{"custom age without age", func(p *domain.PlanInputs) {
			p.Incomes[0].Timeframe.Start = domain.TimePoint{Type: domain.TimePointCustomAge}
		}, domain.ErrInvalidPlan, "custom_age"},
		{"custom date bad month", func(p *domain.PlanInputs) {
			y, m := 2030, 13
			p.Expenses[0].Timeframe.End = &domain.TimePoint{Type: domain.TimePointCustomDate, Year: &y, Month: &m}
		}, domain.ErrInvalidPlan, "month"},
		{"gross expense", func(p *domain.PlanInputs) { p.Expenses[0].Gross = true }, domain.ErrInvalidPlan, "gross"},
		{"duplicate account", func(p *domain.PlanInputs) { p.Accounts[1].ID = p.Accounts[0].ID }, domain.ErrInvalidPlan, "duplicate"},
		{"unknown account type", func(p *domain.PlanInputs) { p.Accounts[0].Type = "pension" }, domain.ErrInvalidPlan, "account type"},
		{"negative balance", func(p *domain.PlanInputs) { p.Accounts[0].Balance = decimal.NewFromInt(-1) }, domain.ErrInvalidPlan, "balance"},
		{"allocation sum", func(p *domain.PlanInputs) {
			p.Accounts[0].Allocation.Stocks = decimal.NewFromInt(50)
		}, domain.ErrInvalidPlan, "allocation"},
		{"savings not cash", func(p *domain.PlanInputs) {
			p.Accounts[3].Allocation = domain.AllocationInput{Stocks: decimal.NewFromInt(100)}
		}, domain.ErrInvalidPlan, "100% cash"},
		{"cost basis on 401k", func(p *domain.PlanInputs) { p.Accounts[0].CostBasis = p.Accounts[2].CostBasis }, domain.ErrInvalidPlan, "cost_basis"},
		{"rule unknown account", func(p *domain.PlanInputs) { p.ContributionRules[0].AccountID = "nope" }, domain.ErrInvalidPlan, "unknown account"},
		{"dollar rule without amount", func(p *domain.PlanInputs) {
			p.ContributionRules[0].Type = domain.ContributionDollarAmount
		}, domain.ErrInvalidPlan, "dollar_amount"},
		{"percent over 100", func(p *domain.PlanInputs) {
			v := decimal.NewFromInt(101)
			p.ContributionRules[3].Percent = &v
		}, domain.ErrInvalidPlan, "percent_remaining"},
		{"mega backdoor on 401k", func(p *domain.PlanInputs) { p.ContributionRules[0].MegaBackdoorRoth = true }, domain.ErrInvalidPlan, "mega_backdoor_roth"},
		{"unknown income id", func(p *domain.PlanInputs) { p.ContributionRules[0].IncomeIDs = []string{"bonus"} }, domain.ErrInvalidPlan, "unknown income"},
		{"base rule", func(p *domain.PlanInputs) { p.BaseContributionRule = "invest" }, domain.ErrInvalidPlan, "base_contribution_rule"},
		{"unknown mode", func(p *domain.PlanInputs) { p.Simulation.Mode = "bootstrap" }, domain.ErrInvalidPlan, "mode"},
		{"too many simulations", func(p *domain.PlanInputs) { p.Simulation.NumSimulations = MaxNumSimulations + 1 }, domain.ErrInvalidPlan, "num_simulations"},
		{"rebalance", func(p *domain.PlanInputs) { p.Simulation.Rebalance = "quarterly" }, domain.ErrInvalidPlan, "rebalance"},
		{"historical year", func(p *domain.PlanInputs) {
			y := 1850
			p.Simulation.Mode = domain.ModeHistorical
			p.Simulation.HistoricalStartYear = &y
		}, domain.ErrDataRange, "1850"},
		{"start date", func(p *domain.PlanInputs) { p.Timeline.StartDate = "2030/01/01" }, domain.ErrInvalidPlan, "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewInputParser()
			plan := parser.CreateExamplePlan()
			tt.mutate(plan)

			err := parser.ValidatePlan(plan)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidatePlan_Nil(t *testing.T) {
	assert.ErrorIs(t, NewInputParser().ValidatePlan(nil), domain.ErrInvalidPlan)
}

func TestApplyDefaults_ParserSimulations(t *testing.T) {
	parser := NewInputParser()
	parser.DefaultSimulations = 250
	plan, err := parser.LoadFromFile(filepath.Join("testdata", "quick.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 250, plan.Simulation.NumSimulations)

	// an explicit value wins
	plan, err = parser.LoadFromFile(filepath.Join("testdata", "plan.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 200, plan.Simulation.NumSimulations)
}

func TestLoadFromFile_ShippedExamplePlan(t *testing.T) {
	plan, err := NewInputParser().LoadFromFile(filepath.Join("..", "..", "example_plan.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Example household", plan.Name)
	assert.Equal(t, domain.ModeMonteCarlo, plan.Simulation.Mode)
	assert.Len(t, plan.Accounts, 4)
	assert.Len(t, plan.ContributionRules, 4)
	assert.Equal(t, domain.TaxModeBrackets, plan.Taxes.Mode)
	require.NotNil(t, plan.Taxes.EffectiveTaxRate)
	assert.InDelta(t, 55000/0.85/0.04, plan.RequiredPortfolio().InexactFloat64(), 0.01)
}
