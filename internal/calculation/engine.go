package calculation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
	"github.com/rpgo/fire-calculator/pkg/dateutil"
	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

// SimulationEngine runs one plan against one returns provider
type SimulationEngine struct {
	Plan       *domain.PlanInputs
	Provider   ReturnsProvider
	Taxes      TaxCalculator
	Seed       uint32
	Resolution domain.Resolution
	Logger     Logger
}

// NewSimulationEngine validates the plan and pairs it with provider. The plan is never mutated.
func NewSimulationEngine(plan *domain.PlanInputs, provider ReturnsProvider, seed uint32) (*SimulationEngine, error) {
	if err := ValidateForRun(plan); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: no returns provider", domain.ErrInvalidPlan)
	}
	return &SimulationEngine{
		Plan:       plan,
		Provider:   provider,
		Taxes:      NewTaxCalculator(plan),
		Seed:       seed,
		Resolution: domain.ResolutionMonthly,
		Logger:     NopLogger{},
	}, nil
}

// NewSimulationEngineForPlan builds the provider selected by the plan's mode. dataset may be nil.
func NewSimulationEngineForPlan(plan *domain.PlanInputs, seed uint32, dataset *HistoricalDataset) (*SimulationEngine, error) {
	if err := ValidateForRun(plan); err != nil {
		return nil, err
	}
	provider, err := NewReturnsProvider(plan, seed, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to create returns provider: %w", err)
	}
	return NewSimulationEngine(plan, provider, seed)
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *SimulationEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// ValidateForRun checks what the engine needs to run. Errors wrap domain.ErrInvalidPlan.
func ValidateForRun(plan *domain.PlanInputs) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is nil", domain.ErrInvalidPlan)
	}
	if plan.Timeline.LifeExpectancy <= plan.Timeline.CurrentAge {
		return fmt.Errorf("%w: life expectancy %.1f must exceed current age %.1f",
			domain.ErrInvalidPlan, plan.Timeline.LifeExpectancy, plan.Timeline.CurrentAge)
	}
	switch plan.Retirement.Strategy {
	case domain.StrategyFixedAge:
		if plan.Retirement.RetirementAge == nil {
			return fmt.Errorf("%w: fixed_age strategy requires retirement_age", domain.ErrInvalidPlan)
		}
	case domain.StrategySWRTarget:
		if !plan.SafeWithdrawalRate().IsPositive() {
			return fmt.Errorf("%w: swr_target strategy requires a positive safe_withdrawal_rate", domain.ErrInvalidPlan)
		}
	default:
		return fmt.Errorf("%w: unknown retirement strategy %q", domain.ErrInvalidPlan, plan.Retirement.Strategy)
	}
	if plan.Taxes.Mode == domain.TaxModeFlat || plan.Taxes.Mode == "" {
		rate := plan.EffectiveTaxRate()
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: effective_tax_rate must be in [0, 100)", domain.ErrInvalidPlan)
		}
	}
	for _, a := range plan.Accounts {
		if _, err := domain.NewAccountFromInput(a); err != nil {
			return err
		}
	}
	if _, err := plan.StartDate(nowFunc()); err != nil {
		return err
	}
	return nil
}

// Run simulates every monthly period from current age to life expectancy.
// ctx is checked once per simulated year; a cancelled run returns ctx.Err() and no result.
func (e *SimulationEngine) Run(ctx context.Context) (*domain.SimulationResult, error) {
	plan := e.Plan
	start, err := plan.StartDate(nowFunc())
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(plan.Accounts))
	for _, in := range plan.Accounts {
		acct, err := domain.NewAccountFromInput(in)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}

	env := newPhaseEnv(plan)
	s := &SimulationState{
		Start:        start,
		Date:         start,
		Age:          plan.Timeline.CurrentAge,
		Phase:        AccumulationPhase{env: env},
		Portfolio:    domain.NewPortfolio(accounts...),
		Limits:       NewLimitTracker(start.Year()),
		OneTimeFired: make(map[string]bool),
	}

	result := &domain.SimulationResult{
		Seed: e.Seed,
		Context: domain.SimulationContext{
			StartAge:          plan.Timeline.CurrentAge,
			LifeExpectancy:    plan.Timeline.LifeExpectancy,
			StartDate:         start,
			Strategy:          plan.Retirement.Strategy,
			RetirementAge:     plan.Retirement.RetirementAge,
			RequiredPortfolio: env.requiredPortfolio,
			InitialPortfolio:  s.Portfolio.TotalValue(),
			Mode:              plan.Simulation.Mode,
			Resolution:        e.Resolution,
		},
	}

	// A plan may already satisfy its retirement condition.
	if s.Phase.ShouldTransition(s) {
		e.transition(s)
	}

	periods := plan.TotalPeriods()
	result.Data = make([]domain.PeriodSnapshot, 0, e.capacity(periods))
	result.Data = append(result.Data, e.snapshot(s, domain.CashFlowBreakdown{}, nil))

	e.Logger.Debugf("simulation start: seed=%d periods=%d mode=%s", e.Seed, periods, plan.Simulation.Mode)

	var yearReturns *domain.ReturnsWithMetadata
	var yearFlows domain.CashFlowBreakdown
	for p := 1; p <= periods; p++ {
		prev := s.Date
		s.Period = p
		s.Years = float64(p) / 12
		s.Date = dateutil.AddMonths(start, p-1)
		s.Age = dateutil.AgeAtPeriod(plan.Timeline.CurrentAge, p)
		if dateutil.CrossesYearBoundary(prev, s.Date) {
			s.Limits.AdvanceTo(s.Date.Year())
		}

		if (p-1)%12 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			s.SimulationYear = (p-1)/12 + 1
			ret := e.Provider.GetReturns(s.SimulationYear)
			yearReturns = &ret
			e.beginYear(s, env, ret)
		}

		cf := s.Phase.ProcessPeriod(s)
		s.CumulativeTaxes = s.CumulativeTaxes.Add(cf.Taxes)
		s.CumulativePenalties = s.CumulativePenalties.Add(cf.Penalties)
		if s.Phase.Name() != domain.PhaseBankrupt {
			env.processor.RebalanceAtYearEnd(s)
		}

		if s.Phase.ShouldTransition(s) {
			e.transition(s)
		}

		if e.Resolution == domain.ResolutionYearly {
			yearFlows = yearFlows.Add(cf)
			if p%12 != 0 && p != periods {
				continue
			}
			result.Data = append(result.Data, e.snapshot(s, yearFlows, yearReturns))
			yearFlows = domain.CashFlowBreakdown{}
			continue
		}
		result.Data = append(result.Data, e.snapshot(s, cf, yearReturns))
	}

	final := result.Final()
	result.RetirementAge = s.RetirementAge
	result.BankruptcyAge = s.BankruptcyAge
	result.Success = s.RetirementAge != nil && s.BankruptcyAge == nil && final.TotalValue.GreaterThan(successThreshold)
	if rr, ok := e.Provider.(RangeReporter); ok {
		result.HistoricalRanges = rr.HistoricalRanges()
	}

	e.Logger.Debugf("simulation done: seed=%d success=%t final=%s", e.Seed, result.Success, final.TotalValue.StringFixed(2))
	return result, nil
}

// successThreshold is the final portfolio value a successful run must exceed
var successThreshold = decimal.NewFromFloat(0.1)

func (e *SimulationEngine) capacity(periods int) int {
	if e.Resolution == domain.ResolutionYearly {
		return periods/12 + 2
	}
	return periods + 1
}

// beginYear installs the year's rates and re-estimates the tax rate
func (e *SimulationEngine) beginYear(s *SimulationState, env *phaseEnv, ret domain.ReturnsWithMetadata) {
	s.Returns = ret
	s.MonthlyReturns = ret.Returns.Map(rates.MonthlyCompoundRate)
	s.MonthlyYields = ret.Yields.Map(rates.MonthlySimpleRate)
	s.TaxRate = e.Taxes.EffectiveRate(e.taxYearInput(s, env))
}

// taxYearInput estimates the coming year's income from the current position
func (e *SimulationEngine) taxYearInput(s *SimulationState, env *phaseEnv) TaxYearInput {
	in := TaxYearInput{Age: s.Age}
	pos := s.Position()
	for _, f := range env.plan.ActiveIncomes() {
		if f.Frequency == domain.FrequencyOneTime || !IsActive(f.Timeframe, pos) {
			continue
		}
		in.OrdinaryIncome = in.OrdinaryIncome.Add(env.incomes.AnnualAmount(f, pos.YearsElapsed))
	}
	for _, acct := range s.Portfolio.Accounts {
		switch acct.TaxCategory() {
		case domain.TaxCategoryTaxable, domain.TaxCategoryCashSavings:
			for _, c := range domain.AssetClasses {
				in.OrdinaryIncome = in.OrdinaryIncome.Add(acct.AssetValue(c).Mul(s.Returns.Yields.Get(c)))
			}
		}
	}
	if s.Phase.Name() == domain.PhaseRetirement {
		in.OrdinaryIncome = in.OrdinaryIncome.Add(env.plan.RetirementExpenses())
		if dateutil.IsPassiveIncomeAge(s.Age) {
			in.PassiveIncome = env.plan.Retirement.PassiveIncome
		}
	}
	return in
}

// transition moves to the next phase and records the age at which it happened
func (e *SimulationEngine) transition(s *SimulationState) {
	from := s.Phase.Name()
	s.Phase = s.Phase.Next(s)
	age := s.Age
	switch s.Phase.Name() {
	case domain.PhaseRetirement:
		s.RetirementAge = &age
	case domain.PhaseBankrupt:
		s.BankruptcyAge = &age
	}
	e.Logger.Debugf("phase transition: %s -> %s at age %.2f (period %d)", from, s.Phase.Name(), age, s.Period)
}

func (e *SimulationEngine) snapshot(s *SimulationState, cf domain.CashFlowBreakdown, ret *domain.ReturnsWithMetadata) domain.PeriodSnapshot {
	snap := domain.PeriodSnapshot{
		Period:   s.Period,
		Years:    s.Years,
		Date:     dateutil.AddMonths(s.Start, s.Period),
		Age:      s.Age,
		Phase:    s.Phase.Name(),
		CashFlow: cf,
		Returns:  ret,
	}
	if snap.Phase == domain.PhaseBankrupt {
		return snap
	}
	snap.TotalValue = s.Portfolio.TotalValue()
	snap.AssetValues = s.Portfolio.AssetClassValues()
	if e.Resolution == domain.ResolutionMonthly {
		snap.Accounts = s.Portfolio.Snapshots()
	}
	return snap
}
