package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/fire-calculator/internal/calculation"
	"github.com/rpgo/fire-calculator/internal/domain"
)

const (
	// DefaultNumSimulations is used when a plan leaves num_simulations unset
	DefaultNumSimulations = 500
	// MaxNumSimulations bounds a single batch
	MaxNumSimulations = 10000
	// MaxLifeExpectancy bounds the timeline
	MaxLifeExpectancy = 120
)

// Document formats accepted by Parse
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// planDocument is the on-disk shape: either a full plan or a quick_plan block
type planDocument struct {
	domain.PlanInputs `yaml:",inline"`
	QuickPlan         *domain.QuickPlan `yaml:"quick_plan,omitempty" json:"quick_plan,omitempty" toml:"quick_plan,omitempty"`
}

// InputParser handles parsing of plan files
type InputParser struct {
	// Dataset bounds historical_start_year; nil means the built-in dataset
	Dataset *calculation.HistoricalDataset
	// DefaultSimulations replaces DefaultNumSimulations when positive
	DefaultSimulations int
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML, TOML or JSON file, applies defaults and validates it
func (ip *InputParser) LoadFromFile(filename string) (*domain.PlanInputs, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	format, err := FormatForPath(filename)
	if err != nil {
		return nil, err
	}
	return ip.Parse(data, format)
}

// FormatForPath maps a file extension onto a document format
func FormatForPath(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported plan file extension %q", filepath.Ext(filename))
}

// Parse decodes a plan document, expands a quick plan, applies defaults and validates the result
func (ip *InputParser) Parse(data []byte, format string) (*domain.PlanInputs, error) {
	var doc planDocument
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported plan format %q", format)
	}

	plan := doc.PlanInputs
	if doc.QuickPlan != nil {
		plan = doc.QuickPlan.ToPlanInputs()
		// a quick plan may still carry simulation settings alongside it
		if doc.Simulation != (domain.SimulationSettings{}) {
			plan.Simulation = doc.Simulation
		}
		if doc.Timeline.StartDate != "" {
			plan.Timeline.StartDate = doc.Timeline.StartDate
		}
		if doc.Name != "" {
			plan.Name = doc.Name
		}
	}

	ip.ApplyDefaults(&plan)
	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// ApplyDefaults fills in optional settings left empty
func (ip *InputParser) ApplyDefaults(plan *domain.PlanInputs) {
	if plan.Taxes.Mode == "" {
		plan.Taxes.Mode = domain.TaxModeFlat
	}
	if plan.Taxes.Mode == domain.TaxModeBrackets && plan.Taxes.FilingStatus == "" {
		plan.Taxes.FilingStatus = domain.FilingSingle
	}
	if plan.BaseContributionRule == "" {
		plan.BaseContributionRule = domain.BaseRuleSave
	}
	if plan.Simulation.Mode == "" {
		plan.Simulation.Mode = domain.ModeFixed
	}
	if plan.Simulation.NumSimulations == 0 {
		plan.Simulation.NumSimulations = DefaultNumSimulations
		if ip.DefaultSimulations > 0 {
			plan.Simulation.NumSimulations = ip.DefaultSimulations
		}
	}
	if plan.Simulation.Rebalance == "" {
		plan.Simulation.Rebalance = domain.RebalanceNone
	}
	for i := range plan.Incomes {
		defaultTimeframe(&plan.Incomes[i].Timeframe)
	}
	for i := range plan.Expenses {
		defaultTimeframe(&plan.Expenses[i].Timeframe)
	}
	for i := range plan.Accounts {
		if plan.Accounts[i].Name == "" {
			plan.Accounts[i].Name = plan.Accounts[i].ID
		}
	}
}

func defaultTimeframe(tf *domain.Timeframe) {
	if tf.Start.Type == "" {
		tf.Start.Type = domain.TimePointNow
	}
}

// ValidatePlan validates a plan. Every error wraps domain.ErrInvalidPlan, except an
// out-of-range historical start year which wraps domain.ErrDataRange.
func (ip *InputParser) ValidatePlan(plan *domain.PlanInputs) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is nil", domain.ErrInvalidPlan)
	}
	if err := ip.validateTimeline(&plan.Timeline); err != nil {
		return invalid("timeline", err)
	}
	if err := ip.validateRetirement(plan); err != nil {
		return invalid("retirement", err)
	}
	if err := ip.validateMarketAssumptions(&plan.MarketAssumptions); err != nil {
		return invalid("market_assumptions", err)
	}
	if err := ip.validateTaxes(plan); err != nil {
		return invalid("taxes", err)
	}
	for i := range plan.Incomes {
		if err := ip.validateCashFlow(&plan.Incomes[i]); err != nil {
			return invalid(fmt.Sprintf("incomes[%d]", i), err)
		}
	}
	for i := range plan.Expenses {
		if plan.Expenses[i].Gross {
			return invalid(fmt.Sprintf("expenses[%d]", i), fmt.Errorf("gross only applies to incomes"))
		}
		if err := ip.validateCashFlow(&plan.Expenses[i]); err != nil {
			return invalid(fmt.Sprintf("expenses[%d]", i), err)
		}
	}
	if err := ip.validateAccounts(plan.Accounts); err != nil {
		return invalid("accounts", err)
	}
	if err := ip.validateContributionRules(plan); err != nil {
		return invalid("contribution_rules", err)
	}
	switch plan.BaseContributionRule {
	case domain.BaseRuleSave, domain.BaseRuleSpend:
	default:
		return fmt.Errorf("%w: base_contribution_rule must be 'save' or 'spend'", domain.ErrInvalidPlan)
	}
	if err := ip.validateSimulation(&plan.Simulation); err != nil {
		return err
	}
	return calculation.ValidateForRun(plan)
}

func invalid(section string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrInvalidPlan, section, err)
}

// validateTimeline validates the ages
func (ip *InputParser) validateTimeline(tl *domain.Timeline) error {
	if tl.CurrentAge <= 0 {
		return fmt.Errorf("current_age must be positive")
	}
	if tl.LifeExpectancy <= tl.CurrentAge {
		return fmt.Errorf("life_expectancy must exceed current_age")
	}
	if tl.LifeExpectancy > MaxLifeExpectancy {
		return fmt.Errorf("life_expectancy cannot exceed %d", MaxLifeExpectancy)
	}
	return nil
}

// validateRetirement validates the fields each strategy requires
func (ip *InputParser) validateRetirement(plan *domain.PlanInputs) error {
	r := &plan.Retirement
	switch r.Strategy {
	case domain.StrategyFixedAge:
		if r.RetirementAge == nil {
			return fmt.Errorf("retirement_age is required for fixed_age strategy")
		}
		if *r.RetirementAge < plan.Timeline.CurrentAge || *r.RetirementAge > plan.Timeline.LifeExpectancy {
			return fmt.Errorf("retirement_age must be between current_age and life_expectancy")
		}
	case domain.StrategySWRTarget:
		if r.SafeWithdrawalRate == nil {
			return fmt.Errorf("safe_withdrawal_rate is required for swr_target strategy")
		}
		if !r.SafeWithdrawalRate.IsPositive() || r.SafeWithdrawalRate.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("safe_withdrawal_rate must be in (0, 100]")
		}
		if r.RetirementExpenses == nil {
			return fmt.Errorf("retirement_expenses is required for swr_target strategy")
		}
		if plan.Taxes.EffectiveTaxRate == nil {
			return fmt.Errorf("effective_tax_rate is required for swr_target strategy")
		}
	default:
		return fmt.Errorf("strategy must be 'fixed_age' or 'swr_target'")
	}
	if r.RetirementExpenses != nil && r.RetirementExpenses.IsNegative() {
		return fmt.Errorf("retirement_expenses cannot be negative")
	}
	if r.PassiveIncome.IsNegative() {
		return fmt.Errorf("passive_income cannot be negative")
	}
	return nil
}

// validateMarketAssumptions validates return, yield and volatility percents
func (ip *InputParser) validateMarketAssumptions(m *domain.MarketAssumptions) error {
	floor := decimal.NewFromInt(-100)
	for name, v := range map[string]decimal.Decimal{
		"stock_return": m.StockReturn,
		"bond_return":  m.BondReturn,
		"cash_return":  m.CashReturn,
	} {
		if v.LessThanOrEqual(floor) {
			return fmt.Errorf("%s must be greater than -100%%", name)
		}
	}
	if m.InflationRate.LessThan(decimal.NewFromInt(-10)) {
		return fmt.Errorf("inflation_rate cannot be less than -10%% (extreme deflation)")
	}
	for name, v := range map[string]decimal.Decimal{
		"stock_yield":          m.StockYield,
		"bond_yield":           m.BondYield,
		"stock_volatility":     m.StockVolatility,
		"bond_volatility":      m.BondVolatility,
		"cash_volatility":      m.CashVolatility,
		"inflation_volatility": m.InflationVolatility,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	return nil
}

// validateTaxes validates the tax mode and its settings
func (ip *InputParser) validateTaxes(plan *domain.PlanInputs) error {
	t := &plan.Taxes
	if t.EffectiveTaxRate != nil {
		if t.EffectiveTaxRate.IsNegative() || t.EffectiveTaxRate.GreaterThanOrEqual(decimal.NewFromInt(100)) {
			return fmt.Errorf("effective_tax_rate must be in [0, 100)")
		}
	}
	switch t.Mode {
	case domain.TaxModeFlat:
		if t.EffectiveTaxRate == nil {
			return fmt.Errorf("effective_tax_rate is required for flat mode")
		}
	case domain.TaxModeBrackets:
		switch t.FilingStatus {
		case domain.FilingSingle, domain.FilingMarriedFilingJointly, domain.FilingHeadOfHousehold:
		default:
			return fmt.Errorf("unknown filing_status %q", t.FilingStatus)
		}
	default:
		return fmt.Errorf("mode must be 'flat' or 'brackets'")
	}
	return nil
}

// validateCashFlow validates one income or expense
func (ip *InputParser) validateCashFlow(c *domain.CashFlowInput) error {
	if c.ID == "" {
		return fmt.Errorf("id is required")
	}
	if !c.Frequency.Valid() {
		return fmt.Errorf("%s: unknown frequency %q", c.ID, c.Frequency)
	}
	if c.Amount.IsNegative() {
		return fmt.Errorf("%s: amount cannot be negative", c.ID)
	}
	if c.GrowthLimit != nil && c.GrowthLimit.IsNegative() {
		return fmt.Errorf("%s: growth_limit cannot be negative", c.ID)
	}
	if err := validateTimePoint(c.Timeframe.Start); err != nil {
		return fmt.Errorf("%s: timeframe.start: %w", c.ID, err)
	}
	if c.Timeframe.End != nil {
		if err := validateTimePoint(*c.Timeframe.End); err != nil {
			return fmt.Errorf("%s: timeframe.end: %w", c.ID, err)
		}
	}
	return nil
}

func validateTimePoint(tp domain.TimePoint) error {
	switch tp.Type {
	case domain.TimePointNow, domain.TimePointAtRetirement, domain.TimePointAtLifeExpectancy:
	case domain.TimePointCustomAge:
		if tp.Age == nil {
			return fmt.Errorf("custom_age requires age")
		}
	case domain.TimePointCustomDate:
		if tp.Year == nil || tp.Month == nil {
			return fmt.Errorf("custom_date requires year and month")
		}
		if *tp.Month < 1 || *tp.Month > 12 {
			return fmt.Errorf("month must be between 1 and 12")
		}
	default:
		return fmt.Errorf("unknown type %q", tp.Type)
	}
	return nil
}

// validateAccounts validates types, balances and allocations
func (ip *InputParser) validateAccounts(accounts []domain.AccountInput) error {
	seen := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if a.ID == "" {
			return fmt.Errorf("account id is required")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate account id %q", a.ID)
		}
		seen[a.ID] = true
		if !a.Type.Valid() {
			return fmt.Errorf("%s: unknown account type %q", a.ID, a.Type)
		}
		if a.Balance.IsNegative() {
			return fmt.Errorf("%s: balance cannot be negative", a.ID)
		}
		if _, err := a.TargetAllocation(); err != nil {
			return fmt.Errorf("%s: %v", a.ID, err)
		}
		if a.Type == domain.AccountSavings &&
			a.Allocation.Cash.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(domain.AllocationEpsilonPercent) {
			return fmt.Errorf("%s: savings accounts must be 100%% cash", a.ID)
		}
		if a.CostBasis != nil && a.Type != domain.AccountTaxableBrokerage {
			return fmt.Errorf("%s: cost_basis only applies to taxable_brokerage", a.ID)
		}
		if a.ContributionBasis != nil && !a.Type.IsRoth() {
			return fmt.Errorf("%s: contribution_basis only applies to roth accounts", a.ID)
		}
	}
	return nil
}

// validateContributionRules validates rule references and per-type fields
func (ip *InputParser) validateContributionRules(plan *domain.PlanInputs) error {
	accounts := make(map[string]domain.AccountType, len(plan.Accounts))
	for _, a := range plan.Accounts {
		accounts[a.ID] = a.Type
	}
	incomes := make(map[string]bool, len(plan.Incomes))
	for _, in := range plan.Incomes {
		incomes[in.ID] = true
	}
	for _, r := range plan.ContributionRules {
		typ, ok := accounts[r.AccountID]
		if !ok {
			return fmt.Errorf("%s: unknown account %q", r.ID, r.AccountID)
		}
		switch r.Type {
		case domain.ContributionDollarAmount:
			if r.Amount == nil || r.Amount.IsNegative() {
				return fmt.Errorf("%s: dollar_amount requires a non-negative amount", r.ID)
			}
		case domain.ContributionPercentRemaining:
			if r.Percent == nil || r.Percent.IsNegative() || r.Percent.GreaterThan(decimal.NewFromInt(100)) {
				return fmt.Errorf("%s: percent_remaining requires a percent in [0, 100]", r.ID)
			}
		case domain.ContributionUnlimited:
		default:
			return fmt.Errorf("%s: unknown type %q", r.ID, r.Type)
		}
		if r.MaxBalance != nil && r.MaxBalance.IsNegative() {
			return fmt.Errorf("%s: max_balance cannot be negative", r.ID)
		}
		if r.EmployerMatch != nil && r.EmployerMatch.IsNegative() {
			return fmt.Errorf("%s: employer_match cannot be negative", r.ID)
		}
		if r.MegaBackdoorRoth && !typ.SupportsMegaBackdoor() {
			return fmt.Errorf("%s: mega_backdoor_roth requires a roth_401k or roth_403b account", r.ID)
		}
		for _, id := range r.IncomeIDs {
			if !incomes[id] {
				return fmt.Errorf("%s: unknown income %q", r.ID, id)
			}
		}
	}
	return nil
}

// validateSimulation validates the provider settings
func (ip *InputParser) validateSimulation(s *domain.SimulationSettings) error {
	switch s.Mode {
	case domain.ModeFixed, domain.ModeMonteCarlo, domain.ModeHistorical:
	default:
		return fmt.Errorf("%w: simulation: unknown mode %q", domain.ErrInvalidPlan, s.Mode)
	}
	if s.NumSimulations < 1 || s.NumSimulations > MaxNumSimulations {
		return fmt.Errorf("%w: simulation: num_simulations must be between 1 and %d", domain.ErrInvalidPlan, MaxNumSimulations)
	}
	switch s.Rebalance {
	case domain.RebalanceNone, domain.RebalanceAnnually:
	default:
		return fmt.Errorf("%w: simulation: rebalance must be 'none' or 'annually'", domain.ErrInvalidPlan)
	}
	if s.HistoricalStartYear != nil {
		dataset := ip.Dataset
		if dataset == nil {
			dataset = calculation.DefaultHistoricalDataset()
		}
		if !dataset.Contains(*s.HistoricalStartYear) {
			first, last := dataset.Range()
			return fmt.Errorf("%w: historical_start_year %d outside %d-%d",
				domain.ErrDataRange, *s.HistoricalStartYear, first, last)
		}
	}
	return nil
}

// CreateExamplePlan creates an example plan: two earners' worth of salary feeding a
// 401k, a Roth IRA and a brokerage account, retiring on a 4% withdrawal target
func (ip *InputParser) CreateExamplePlan() *domain.PlanInputs {
	dec := decimal.NewFromInt
	ptr := func(v decimal.Decimal) *decimal.Decimal { return &v }
	match := dec(4500)

	return &domain.PlanInputs{
		Name: "Example plan",
		Timeline: domain.Timeline{
			CurrentAge:     32,
			LifeExpectancy: 90,
		},
		Retirement: domain.RetirementSettings{
			Strategy:           domain.StrategySWRTarget,
			SafeWithdrawalRate: ptr(dec(4)),
			RetirementExpenses: ptr(dec(55000)),
			PassiveIncome:      dec(18000),
		},
		MarketAssumptions: domain.MarketAssumptions{
			StockReturn:   dec(10),
			StockYield:    decimal.NewFromFloat(1.5),
			BondReturn:    dec(5),
			BondYield:     dec(4),
			CashReturn:    dec(3),
			InflationRate: dec(3),
		},
		Taxes: domain.TaxSettings{
			Mode:             domain.TaxModeFlat,
			EffectiveTaxRate: ptr(dec(18)),
		},
		Incomes: []domain.CashFlowInput{{
			ID:        "salary",
			Name:      "Salary",
			Amount:    dec(120000),
			Frequency: domain.FrequencyYearly,
			Gross:     true,
			Timeframe: domain.Timeframe{
				Start: domain.TimePoint{Type: domain.TimePointNow},
				End:   &domain.TimePoint{Type: domain.TimePointAtRetirement},
			},
		}},
		Expenses: []domain.CashFlowInput{{
			ID:        "living",
			Name:      "Living expenses",
			Amount:    dec(5000),
			Frequency: domain.FrequencyMonthly,
			Timeframe: domain.Timeframe{
				Start: domain.TimePoint{Type: domain.TimePointNow},
				End:   &domain.TimePoint{Type: domain.TimePointAtRetirement},
			},
		}},
		Accounts: []domain.AccountInput{
			{ID: "401k", Name: "Workplace 401k", Type: domain.Account401k, Balance: dec(85000),
				Allocation: domain.AllocationInput{Stocks: dec(90), Bonds: dec(10)}},
			{ID: "roth", Name: "Roth IRA", Type: domain.AccountRothIRA, Balance: dec(30000),
				Allocation: domain.AllocationInput{Stocks: dec(100)}, ContributionBasis: ptr(dec(21000))},
			{ID: "brokerage", Name: "Brokerage", Type: domain.AccountTaxableBrokerage, Balance: dec(40000),
				Allocation: domain.AllocationInput{Stocks: dec(80), Bonds: dec(20)}, CostBasis: ptr(dec(32000))},
			{ID: "cash", Name: "Emergency fund", Type: domain.AccountSavings, Balance: dec(20000),
				Allocation: domain.AllocationInput{Cash: dec(100)}},
		},
		ContributionRules: []domain.ContributionRuleInput{
			{ID: "k", AccountID: "401k", Rank: 1, Type: domain.ContributionUnlimited, EmployerMatch: &match},
			{ID: "ira", AccountID: "roth", Rank: 2, Type: domain.ContributionUnlimited},
			{ID: "emergency", AccountID: "cash", Rank: 3, Type: domain.ContributionUnlimited, MaxBalance: ptr(dec(30000))},
			{ID: "taxable", AccountID: "brokerage", Rank: 4, Type: domain.ContributionPercentRemaining, Percent: ptr(dec(100))},
		},
		BaseContributionRule: domain.BaseRuleSave,
		Simulation: domain.SimulationSettings{
			Mode:           domain.ModeMonteCarlo,
			NumSimulations: DefaultNumSimulations,
			Rebalance:      domain.RebalanceAnnually,
		},
	}
}
