package domain

import (
	"github.com/shopspring/decimal"
)

// QuickPlan is the flat convenience input for a single-account plan
type QuickPlan struct {
	CurrentAge         float64          `yaml:"current_age" json:"current_age" toml:"current_age"`
	LifeExpectancy     float64          `yaml:"life_expectancy,omitempty" json:"life_expectancy,omitempty" toml:"life_expectancy,omitempty"`
	AnnualIncome       decimal.Decimal  `yaml:"annual_income" json:"annual_income" toml:"annual_income"`
	AnnualExpenses     decimal.Decimal  `yaml:"annual_expenses" json:"annual_expenses" toml:"annual_expenses"`
	InvestedAssets     decimal.Decimal  `yaml:"invested_assets" json:"invested_assets" toml:"invested_assets"`
	StockAllocation    decimal.Decimal  `yaml:"stock_allocation" json:"stock_allocation" toml:"stock_allocation"`
	BondAllocation     decimal.Decimal  `yaml:"bond_allocation" json:"bond_allocation" toml:"bond_allocation"`
	CashAllocation     decimal.Decimal  `yaml:"cash_allocation" json:"cash_allocation" toml:"cash_allocation"`
	StockReturn        decimal.Decimal  `yaml:"stock_return" json:"stock_return" toml:"stock_return"`
	BondReturn         decimal.Decimal  `yaml:"bond_return" json:"bond_return" toml:"bond_return"`
	CashReturn         decimal.Decimal  `yaml:"cash_return" json:"cash_return" toml:"cash_return"`
	InflationRate      decimal.Decimal  `yaml:"inflation_rate" json:"inflation_rate" toml:"inflation_rate"`
	IncomeGrowthRate   *decimal.Decimal `yaml:"income_growth_rate,omitempty" json:"income_growth_rate,omitempty" toml:"income_growth_rate,omitempty"`
	ExpenseGrowthRate  *decimal.Decimal `yaml:"expense_growth_rate,omitempty" json:"expense_growth_rate,omitempty" toml:"expense_growth_rate,omitempty"`
	RetirementExpenses decimal.Decimal  `yaml:"retirement_expenses" json:"retirement_expenses" toml:"retirement_expenses"`
	RetirementIncome   decimal.Decimal  `yaml:"retirement_income,omitempty" json:"retirement_income,omitempty" toml:"retirement_income,omitempty"`
	SafeWithdrawalRate decimal.Decimal  `yaml:"safe_withdrawal_rate" json:"safe_withdrawal_rate" toml:"safe_withdrawal_rate"`
	EffectiveTaxRate   decimal.Decimal  `yaml:"effective_tax_rate" json:"effective_tax_rate" toml:"effective_tax_rate"`
}

// DefaultQuickPlanLifeExpectancy is used when a quick plan leaves life expectancy unset
const DefaultQuickPlanLifeExpectancy = 85

// ToPlanInputs expands the quick plan into a full plan: one net salary, one
// expense, one taxable brokerage account, an SWR target and the save base rule.
func (q QuickPlan) ToPlanInputs() PlanInputs {
	life := q.LifeExpectancy
	if life == 0 {
		life = DefaultQuickPlanLifeExpectancy
	}
	incomeGrowth := q.InflationRate
	if q.IncomeGrowthRate != nil {
		incomeGrowth = *q.IncomeGrowthRate
	}
	expenseGrowth := q.InflationRate
	if q.ExpenseGrowthRate != nil {
		expenseGrowth = *q.ExpenseGrowthRate
	}
	swr := q.SafeWithdrawalRate
	tax := q.EffectiveTaxRate
	retirementExpenses := q.RetirementExpenses

	return PlanInputs{
		Name: "Quick plan",
		Timeline: Timeline{
			CurrentAge:     q.CurrentAge,
			LifeExpectancy: life,
		},
		Retirement: RetirementSettings{
			Strategy:           StrategySWRTarget,
			SafeWithdrawalRate: &swr,
			RetirementExpenses: &retirementExpenses,
			PassiveIncome:      q.RetirementIncome,
		},
		MarketAssumptions: MarketAssumptions{
			StockReturn:   q.StockReturn,
			BondReturn:    q.BondReturn,
			CashReturn:    q.CashReturn,
			InflationRate: q.InflationRate,
		},
		Taxes: TaxSettings{
			Mode:             TaxModeFlat,
			EffectiveTaxRate: &tax,
		},
		Incomes: []CashFlowInput{{
			ID:         "salary",
			Name:       "Salary",
			Amount:     q.AnnualIncome,
			Frequency:  FrequencyYearly,
			GrowthRate: &incomeGrowth,
			Timeframe: Timeframe{
				Start: TimePoint{Type: TimePointNow},
				End:   &TimePoint{Type: TimePointAtRetirement},
			},
		}},
		Expenses: []CashFlowInput{{
			ID:         "living",
			Name:       "Living expenses",
			Amount:     q.AnnualExpenses,
			Frequency:  FrequencyYearly,
			GrowthRate: &expenseGrowth,
			Timeframe: Timeframe{
				Start: TimePoint{Type: TimePointNow},
				End:   &TimePoint{Type: TimePointAtRetirement},
			},
		}},
		Accounts: []AccountInput{{
			ID:      "brokerage",
			Name:    "Brokerage",
			Type:    AccountTaxableBrokerage,
			Balance: q.InvestedAssets,
			Allocation: AllocationInput{
				Stocks: q.StockAllocation,
				Bonds:  q.BondAllocation,
				Cash:   q.CashAllocation,
			},
		}},
		BaseContributionRule: BaseRuleSave,
		Simulation: SimulationSettings{
			Mode:      ModeFixed,
			Rebalance: RebalanceNone,
		},
	}
}
