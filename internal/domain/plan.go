package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/pkg/dateutil"
	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

// RetirementStrategy selects how the accumulation phase ends
type RetirementStrategy string

const (
	StrategyFixedAge  RetirementStrategy = "fixed_age"
	StrategySWRTarget RetirementStrategy = "swr_target"
)

// TaxMode selects the tax approximation
type TaxMode string

const (
	TaxModeFlat     TaxMode = "flat"
	TaxModeBrackets TaxMode = "brackets"
)

// FilingStatus is used by the bracket tax mode
type FilingStatus string

const (
	FilingSingle               FilingStatus = "single"
	FilingMarriedFilingJointly FilingStatus = "married_filing_jointly"
	FilingHeadOfHousehold      FilingStatus = "head_of_household"
)

// Frequency is how often an income or expense occurs
type Frequency string

const (
	FrequencyYearly   Frequency = "yearly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyOneTime  Frequency = "one_time"
)

// TimesPerYear returns the number of occurrences in a year; zero for one-time flows
func (f Frequency) TimesPerYear() decimal.Decimal {
	switch f {
	case FrequencyYearly:
		return decimal.NewFromInt(1)
	case FrequencyMonthly:
		return decimal.NewFromInt(12)
	case FrequencyBiweekly:
		return decimal.NewFromInt(26)
	case FrequencyWeekly:
		return decimal.NewFromInt(52)
	}
	return decimal.Zero
}

// Valid reports whether f is a known frequency
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyYearly, FrequencyMonthly, FrequencyBiweekly, FrequencyWeekly, FrequencyOneTime:
		return true
	}
	return false
}

// TimePointType names a point on the simulation timeline
type TimePointType string

const (
	TimePointNow              TimePointType = "now"
	TimePointCustomAge        TimePointType = "custom_age"
	TimePointCustomDate       TimePointType = "custom_date"
	TimePointAtRetirement     TimePointType = "at_retirement"
	TimePointAtLifeExpectancy TimePointType = "at_life_expectancy"
)

// TimePoint is the start or end of a timeframe
type TimePoint struct {
	Type  TimePointType `yaml:"type" json:"type" toml:"type"`
	Age   *float64      `yaml:"age,omitempty" json:"age,omitempty" toml:"age,omitempty"`
	Year  *int          `yaml:"year,omitempty" json:"year,omitempty" toml:"year,omitempty"`
	Month *int          `yaml:"month,omitempty" json:"month,omitempty" toml:"month,omitempty"`
}

// Timeframe bounds when a cash flow is active. A nil End means until life expectancy.
type Timeframe struct {
	Start TimePoint  `yaml:"start" json:"start" toml:"start"`
	End   *TimePoint `yaml:"end,omitempty" json:"end,omitempty" toml:"end,omitempty"`
}

// CashFlowInput describes an income or an expense. Gross only applies to incomes.
type CashFlowInput struct {
	ID          string           `yaml:"id" json:"id" toml:"id"`
	Name        string           `yaml:"name" json:"name" toml:"name"`
	Amount      decimal.Decimal  `yaml:"amount" json:"amount" toml:"amount"`
	Frequency   Frequency        `yaml:"frequency" json:"frequency" toml:"frequency"`
	Gross       bool             `yaml:"gross,omitempty" json:"gross,omitempty" toml:"gross,omitempty"`
	GrowthRate  *decimal.Decimal `yaml:"growth_rate,omitempty" json:"growth_rate,omitempty" toml:"growth_rate,omitempty"` // nominal percent
	GrowthLimit *decimal.Decimal `yaml:"growth_limit,omitempty" json:"growth_limit,omitempty" toml:"growth_limit,omitempty"`
	Timeframe   Timeframe        `yaml:"timeframe" json:"timeframe" toml:"timeframe"`
	Disabled    bool             `yaml:"disabled,omitempty" json:"disabled,omitempty" toml:"disabled,omitempty"`
}

// AllocationInput is an allocation in percent
type AllocationInput struct {
	Stocks decimal.Decimal `yaml:"stocks" json:"stocks" toml:"stocks"`
	Bonds  decimal.Decimal `yaml:"bonds" json:"bonds" toml:"bonds"`
	Cash   decimal.Decimal `yaml:"cash" json:"cash" toml:"cash"`
}

// AccountInput describes an account's opening state
type AccountInput struct {
	ID                string           `yaml:"id" json:"id" toml:"id"`
	Name              string           `yaml:"name" json:"name" toml:"name"`
	Type              AccountType      `yaml:"type" json:"type" toml:"type"`
	Balance           decimal.Decimal  `yaml:"balance" json:"balance" toml:"balance"`
	Allocation        AllocationInput  `yaml:"allocation" json:"allocation" toml:"allocation"`
	CostBasis         *decimal.Decimal `yaml:"cost_basis,omitempty" json:"cost_basis,omitempty" toml:"cost_basis,omitempty"`
	ContributionBasis *decimal.Decimal `yaml:"contribution_basis,omitempty" json:"contribution_basis,omitempty" toml:"contribution_basis,omitempty"`
}

// TargetAllocation converts the percent allocation into weights
func (a AccountInput) TargetAllocation() (AssetValues, error) {
	return AllocationFromPercents(a.Allocation.Stocks, a.Allocation.Bonds, a.Allocation.Cash)
}

// ContributionType selects how a rule sizes its contribution
type ContributionType string

const (
	ContributionDollarAmount     ContributionType = "dollar_amount"
	ContributionPercentRemaining ContributionType = "percent_remaining"
	ContributionUnlimited        ContributionType = "unlimited"
)

// ContributionRuleInput is one ranked contribution rule
type ContributionRuleInput struct {
	ID               string           `yaml:"id" json:"id" toml:"id"`
	AccountID        string           `yaml:"account_id" json:"account_id" toml:"account_id"`
	Rank             int              `yaml:"rank" json:"rank" toml:"rank"`
	Type             ContributionType `yaml:"type" json:"type" toml:"type"`
	Amount           *decimal.Decimal `yaml:"amount,omitempty" json:"amount,omitempty" toml:"amount,omitempty"`    // annual dollars for dollar_amount
	Percent          *decimal.Decimal `yaml:"percent,omitempty" json:"percent,omitempty" toml:"percent,omitempty"` // percent for percent_remaining
	MaxBalance       *decimal.Decimal `yaml:"max_balance,omitempty" json:"max_balance,omitempty" toml:"max_balance,omitempty"`
	IncomeIDs        []string         `yaml:"income_ids,omitempty" json:"income_ids,omitempty" toml:"income_ids,omitempty"`
	EmployerMatch    *decimal.Decimal `yaml:"employer_match,omitempty" json:"employer_match,omitempty" toml:"employer_match,omitempty"`
	MegaBackdoorRoth bool             `yaml:"mega_backdoor_roth,omitempty" json:"mega_backdoor_roth,omitempty" toml:"mega_backdoor_roth,omitempty"`
	Disabled         bool             `yaml:"disabled,omitempty" json:"disabled,omitempty" toml:"disabled,omitempty"`
}

// BaseContributionRule decides what happens to cash left after all rules
type BaseContributionRule string

const (
	BaseRuleSave  BaseContributionRule = "save"
	BaseRuleSpend BaseContributionRule = "spend"
)

// SimulationMode selects the returns provider
type SimulationMode string

const (
	ModeFixed      SimulationMode = "fixed"
	ModeMonteCarlo SimulationMode = "monte_carlo"
	ModeHistorical SimulationMode = "historical"
)

// RebalancePolicy controls periodic rebalancing
type RebalancePolicy string

const (
	RebalanceNone     RebalancePolicy = "none"
	RebalanceAnnually RebalancePolicy = "annually"
)

// Timeline anchors the simulation
type Timeline struct {
	CurrentAge     float64 `yaml:"current_age" json:"current_age" toml:"current_age"`
	LifeExpectancy float64 `yaml:"life_expectancy" json:"life_expectancy" toml:"life_expectancy"`
	StartDate      string  `yaml:"start_date,omitempty" json:"start_date,omitempty" toml:"start_date,omitempty"` // YYYY-MM-DD
}

// RetirementSettings configures the accumulation to retirement transition
type RetirementSettings struct {
	Strategy           RetirementStrategy `yaml:"strategy" json:"strategy" toml:"strategy"`
	RetirementAge      *float64           `yaml:"retirement_age,omitempty" json:"retirement_age,omitempty" toml:"retirement_age,omitempty"`
	SafeWithdrawalRate *decimal.Decimal   `yaml:"safe_withdrawal_rate,omitempty" json:"safe_withdrawal_rate,omitempty" toml:"safe_withdrawal_rate,omitempty"`
	RetirementExpenses *decimal.Decimal   `yaml:"retirement_expenses,omitempty" json:"retirement_expenses,omitempty" toml:"retirement_expenses,omitempty"`
	PassiveIncome      decimal.Decimal    `yaml:"passive_income,omitempty" json:"passive_income,omitempty" toml:"passive_income,omitempty"`
}

// MarketAssumptions holds nominal percents
type MarketAssumptions struct {
	StockReturn         decimal.Decimal `yaml:"stock_return" json:"stock_return" toml:"stock_return"`
	StockYield          decimal.Decimal `yaml:"stock_yield" json:"stock_yield" toml:"stock_yield"`
	BondReturn          decimal.Decimal `yaml:"bond_return" json:"bond_return" toml:"bond_return"`
	BondYield           decimal.Decimal `yaml:"bond_yield" json:"bond_yield" toml:"bond_yield"`
	CashReturn          decimal.Decimal `yaml:"cash_return" json:"cash_return" toml:"cash_return"`
	InflationRate       decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate" toml:"inflation_rate"`
	StockVolatility     decimal.Decimal `yaml:"stock_volatility,omitempty" json:"stock_volatility,omitempty" toml:"stock_volatility,omitempty"`
	BondVolatility      decimal.Decimal `yaml:"bond_volatility,omitempty" json:"bond_volatility,omitempty" toml:"bond_volatility,omitempty"`
	CashVolatility      decimal.Decimal `yaml:"cash_volatility,omitempty" json:"cash_volatility,omitempty" toml:"cash_volatility,omitempty"`
	InflationVolatility decimal.Decimal `yaml:"inflation_volatility,omitempty" json:"inflation_volatility,omitempty" toml:"inflation_volatility,omitempty"`
}

// TaxSettings configures the tax approximation
type TaxSettings struct {
	Mode             TaxMode          `yaml:"mode,omitempty" json:"mode,omitempty" toml:"mode,omitempty"`
	EffectiveTaxRate *decimal.Decimal `yaml:"effective_tax_rate,omitempty" json:"effective_tax_rate,omitempty" toml:"effective_tax_rate,omitempty"`
	FilingStatus     FilingStatus     `yaml:"filing_status,omitempty" json:"filing_status,omitempty" toml:"filing_status,omitempty"`
}

// SimulationSettings selects provider and batch size
type SimulationSettings struct {
	Mode                SimulationMode  `yaml:"mode,omitempty" json:"mode,omitempty" toml:"mode,omitempty"`
	Seed                uint32          `yaml:"seed,omitempty" json:"seed,omitempty" toml:"seed,omitempty"`
	NumSimulations      int             `yaml:"num_simulations,omitempty" json:"num_simulations,omitempty" toml:"num_simulations,omitempty"`
	HistoricalStartYear *int            `yaml:"historical_start_year,omitempty" json:"historical_start_year,omitempty" toml:"historical_start_year,omitempty"`
	Rebalance           RebalancePolicy `yaml:"rebalance,omitempty" json:"rebalance,omitempty" toml:"rebalance,omitempty"`
}

// PlanInputs is the validated input bundle for a simulation run. The engine never mutates it.
type PlanInputs struct {
	Name                 string                  `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Timeline             Timeline                `yaml:"timeline" json:"timeline" toml:"timeline"`
	Retirement           RetirementSettings      `yaml:"retirement" json:"retirement" toml:"retirement"`
	MarketAssumptions    MarketAssumptions       `yaml:"market_assumptions" json:"market_assumptions" toml:"market_assumptions"`
	Taxes                TaxSettings             `yaml:"taxes" json:"taxes" toml:"taxes"`
	Incomes              []CashFlowInput         `yaml:"incomes" json:"incomes" toml:"incomes"`
	Expenses             []CashFlowInput         `yaml:"expenses" json:"expenses" toml:"expenses"`
	Accounts             []AccountInput          `yaml:"accounts" json:"accounts" toml:"accounts"`
	ContributionRules    []ContributionRuleInput `yaml:"contribution_rules" json:"contribution_rules" toml:"contribution_rules"`
	BaseContributionRule BaseContributionRule    `yaml:"base_contribution_rule" json:"base_contribution_rule" toml:"base_contribution_rule"`
	Simulation           SimulationSettings      `yaml:"simulation" json:"simulation" toml:"simulation"`
}

// StartDate parses the configured start date, or returns the first of the month of now.
func (p *PlanInputs) StartDate(now time.Time) (time.Time, error) {
	if p.Timeline.StartDate == "" {
		return dateutil.FirstOfMonth(now.UTC()), nil
	}
	t, err := time.Parse("2006-01-02", p.Timeline.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start_date %q: %v", ErrInvalidPlan, p.Timeline.StartDate, err)
	}
	return t, nil
}

// TotalPeriods returns the number of monthly periods from current age to life expectancy
func (p *PlanInputs) TotalPeriods() int {
	months := (p.Timeline.LifeExpectancy - p.Timeline.CurrentAge) * 12
	n := int(months + 0.5)
	if n < 0 {
		return 0
	}
	return n
}

// EffectiveTaxRate returns the flat tax rate as a fraction
func (p *PlanInputs) EffectiveTaxRate() decimal.Decimal {
	if p.Taxes.EffectiveTaxRate == nil {
		return decimal.Zero
	}
	return p.Taxes.EffectiveTaxRate.Div(decimal.NewFromInt(100))
}

// SafeWithdrawalRate returns the SWR as a fraction
func (p *PlanInputs) SafeWithdrawalRate() decimal.Decimal {
	if p.Retirement.SafeWithdrawalRate == nil {
		return decimal.Zero
	}
	return p.Retirement.SafeWithdrawalRate.Div(decimal.NewFromInt(100))
}

// InflationRate returns the assumed inflation as a fraction
func (p *PlanInputs) InflationRate() decimal.Decimal {
	return p.MarketAssumptions.InflationRate.Div(decimal.NewFromInt(100))
}

// ActiveIncomes returns incomes that are not disabled
func (p *PlanInputs) ActiveIncomes() []CashFlowInput { return enabled(p.Incomes) }

// ActiveExpenses returns expenses that are not disabled
func (p *PlanInputs) ActiveExpenses() []CashFlowInput { return enabled(p.Expenses) }

func enabled(in []CashFlowInput) []CashFlowInput {
	out := make([]CashFlowInput, 0, len(in))
	for _, c := range in {
		if !c.Disabled {
			out = append(out, c)
		}
	}
	return out
}

// AnnualAmount returns the yearly amount of a recurring flow, or the lump sum for one-time flows
func (c CashFlowInput) AnnualAmount() decimal.Decimal {
	if c.Frequency == FrequencyOneTime {
		return c.Amount
	}
	return c.Amount.Mul(c.Frequency.TimesPerYear())
}

// RetirementExpenses returns the annual retirement spending. For fixed_age plans without
// an explicit figure it falls back to the sum of active recurring expenses.
func (p *PlanInputs) RetirementExpenses() decimal.Decimal {
	if p.Retirement.RetirementExpenses != nil {
		return *p.Retirement.RetirementExpenses
	}
	total := decimal.Zero
	for _, e := range p.ActiveExpenses() {
		if e.Frequency == FrequencyOneTime {
			continue
		}
		total = total.Add(e.AnnualAmount())
	}
	return total
}

// RequiredPortfolio is the portfolio value at which an swr_target plan retires:
// (retirement expenses / (1 - tax)) / SWR. Zero when the SWR is unset.
func (p *PlanInputs) RequiredPortfolio() decimal.Decimal {
	swr := p.SafeWithdrawalRate()
	if !swr.IsPositive() {
		return decimal.Zero
	}
	gross := rates.NewMoneyFromDecimal(p.RetirementExpenses()).GrossUp(p.EffectiveTaxRate())
	return gross.Decimal.Div(swr)
}

// TotalBalance sums the opening balances of all accounts
func (p *PlanInputs) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}
