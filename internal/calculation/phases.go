package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
	"github.com/rpgo/fire-calculator/pkg/dateutil"
	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

// Phase is one state of the run's life-cycle machine
type Phase interface {
	Name() domain.PhaseName
	ProcessPeriod(s *SimulationState) domain.CashFlowBreakdown
	ShouldTransition(s *SimulationState) bool
	Next(s *SimulationState) Phase
}

// phaseEnv holds the plan-derived components shared by the phases of one run
type phaseEnv struct {
	plan              *domain.PlanInputs
	incomes           *CashFlows
	expenses          *CashFlows
	rules             *ContributionRules
	processor         *PortfolioProcessor
	requiredPortfolio decimal.Decimal
	retirementMonthly decimal.Decimal
	passiveMonthly    decimal.Decimal
}

func newPhaseEnv(plan *domain.PlanInputs) *phaseEnv {
	inflation := plan.InflationRate()
	return &phaseEnv{
		plan:              plan,
		incomes:           NewCashFlows("income", plan.Incomes, inflation),
		expenses:          NewCashFlows("expense", plan.Expenses, inflation),
		rules:             NewContributionRules(plan.ContributionRules, plan.BaseContributionRule),
		processor:         NewPortfolioProcessor(plan.Simulation.Rebalance),
		requiredPortfolio: plan.RequiredPortfolio(),
		retirementMonthly: plan.RetirementExpenses().Div(twelve),
		passiveMonthly:    plan.Retirement.PassiveIncome.Div(twelve),
	}
}

// market applies returns and yields and starts the period's breakdown
func (e *phaseEnv) market(s *SimulationState) (domain.CashFlowBreakdown, decimal.Decimal) {
	var cf domain.CashFlowBreakdown
	cf.Returns = e.processor.ApplyReturns(s)
	yields, taxable := e.processor.ApplyYields(s)
	cf.Yields = yields
	return cf, taxable
}

// activeIncomes adds this period's incomes to cf and returns the net amount and gross per income
func (e *phaseEnv) activeIncomes(s *SimulationState, cf *domain.CashFlowBreakdown) (decimal.Decimal, map[string]decimal.Decimal) {
	gross := make(map[string]decimal.Decimal)
	net := decimal.Zero
	for _, in := range e.incomes.Period(s.Position(), s.OneTimeFired) {
		cf.Income = cf.Income.Add(in.Amount)
		gross[in.ID] = gross[in.ID].Add(in.Amount)
		if in.Gross {
			after := rates.NewMoneyFromDecimal(in.Amount).NetOfTax(s.TaxRate).Decimal
			cf.Taxes = cf.Taxes.Add(in.Amount.Sub(after))
			net = net.Add(after)
		} else {
			net = net.Add(in.Amount)
		}
	}
	return net, gross
}

// settle routes a surplus to contributions or funds a deficit with a grossed-up withdrawal
func (e *phaseEnv) settle(s *SimulationState, cf *domain.CashFlowBreakdown, cash decimal.Decimal, gross map[string]decimal.Decimal) {
	s.LastShortfall = decimal.Zero
	switch {
	case cash.IsPositive():
		out := e.rules.Apply(s.Portfolio, s.Limits, ContributionInput{Cash: cash, GrossIncome: gross, Age: s.Age})
		cf.Contributions = out.Contributed()
		cf.EmployerMatch = out.EmployerMatch
	case cash.IsNegative():
		need := rates.NewMoneyFromDecimal(cash.Neg())
		w := e.processor.Withdraw(s, need.GrossUp(s.TaxRate).Decimal)
		cf.Withdrawals = w.Withdrawn
		cf.Taxes = cf.Taxes.Add(w.Withdrawn.Mul(s.TaxRate))
		cf.Penalties = w.Penalty
		cf.Shortfall = rates.NewMoneyFromDecimal(w.Shortfall).NetOfTax(s.TaxRate).Decimal
		s.LastShortfall = cf.Shortfall
	}
}

// AccumulationPhase saves surplus income until the retirement condition is met
type AccumulationPhase struct{ env *phaseEnv }

func (AccumulationPhase) Name() domain.PhaseName { return domain.PhaseAccumulation }

// ProcessPeriod: net incomes - expenses - taxes on gross incomes and yields
func (p AccumulationPhase) ProcessPeriod(s *SimulationState) domain.CashFlowBreakdown {
	cf, taxableYields := p.env.market(s)
	net, gross := p.env.activeIncomes(s, &cf)

	cf.Expenses = Sum(p.env.expenses.Period(s.Position(), s.OneTimeFired))
	yieldTax := taxableYields.Mul(s.TaxRate)
	cf.Taxes = cf.Taxes.Add(yieldTax)

	p.env.settle(s, &cf, net.Sub(cf.Expenses).Sub(yieldTax), gross)
	return cf
}

// ShouldTransition is true on insolvency or when the retirement condition holds
func (p AccumulationPhase) ShouldTransition(s *SimulationState) bool {
	return s.Insolvent() || p.retirementReached(s)
}

func (p AccumulationPhase) retirementReached(s *SimulationState) bool {
	plan := p.env.plan
	switch plan.Retirement.Strategy {
	case domain.StrategyFixedAge:
		return plan.Retirement.RetirementAge != nil && s.Age >= *plan.Retirement.RetirementAge
	case domain.StrategySWRTarget:
		return s.Portfolio.TotalValue().GreaterThanOrEqual(p.env.requiredPortfolio)
	}
	return false
}

func (p AccumulationPhase) Next(s *SimulationState) Phase {
	if s.Insolvent() {
		return BankruptPhase{}
	}
	return RetirementPhase{env: p.env}
}

// RetirementPhase funds retirement expenses from passive income and withdrawals
type RetirementPhase struct{ env *phaseEnv }

func (RetirementPhase) Name() domain.PhaseName { return domain.PhaseRetirement }

// ProcessPeriod: need = retirement expenses + yield taxes - net active incomes - net passive income
func (p RetirementPhase) ProcessPeriod(s *SimulationState) domain.CashFlowBreakdown {
	cf, taxableYields := p.env.market(s)
	net, gross := p.env.activeIncomes(s, &cf)

	cf.Expenses = p.env.retirementMonthly
	yieldTax := taxableYields.Mul(s.TaxRate)
	cf.Taxes = cf.Taxes.Add(yieldTax)

	if dateutil.IsPassiveIncomeAge(s.Age) && p.env.passiveMonthly.IsPositive() {
		cf.PassiveIncome = p.env.passiveMonthly
		passiveTax := cf.PassiveIncome.Mul(s.TaxRate)
		cf.Taxes = cf.Taxes.Add(passiveTax)
		net = net.Add(cf.PassiveIncome.Sub(passiveTax))
	}

	need := cf.Expenses.Add(yieldTax).Sub(net)
	p.env.settle(s, &cf, need.Neg(), gross)
	return cf
}

func (RetirementPhase) ShouldTransition(s *SimulationState) bool { return s.Insolvent() }

func (RetirementPhase) Next(*SimulationState) Phase { return BankruptPhase{} }

// BankruptPhase is terminal. Nothing is processed and the portfolio is reported as zero.
type BankruptPhase struct{}

func (BankruptPhase) Name() domain.PhaseName { return domain.PhaseBankrupt }

func (BankruptPhase) ProcessPeriod(*SimulationState) domain.CashFlowBreakdown {
	return domain.CashFlowBreakdown{}
}

func (BankruptPhase) ShouldTransition(*SimulationState) bool { return false }

func (b BankruptPhase) Next(*SimulationState) Phase { return b }
