package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
	"github.com/rpgo/fire-calculator/pkg/dateutil"
)

// EarlyWithdrawalPenaltyRate applies before age 59.5
var EarlyWithdrawalPenaltyRate = decimal.NewFromFloat(0.10)

// WithdrawalOutcome records one liquidation pass
type WithdrawalOutcome struct {
	Requested decimal.Decimal
	Withdrawn decimal.Decimal
	Shortfall decimal.Decimal
	Penalty   decimal.Decimal // penalty paid from the portfolio
}

// PortfolioProcessor applies market movements and cash flows to a portfolio
type PortfolioProcessor struct {
	Rebalance domain.RebalancePolicy
}

// NewPortfolioProcessor creates a processor for the rebalance policy
func NewPortfolioProcessor(policy domain.RebalancePolicy) *PortfolioProcessor {
	return &PortfolioProcessor{Rebalance: policy}
}

// ApplyReturns grows every account by this month's rates and returns the total change
func (pp *PortfolioProcessor) ApplyReturns(s *SimulationState) decimal.Decimal {
	total := decimal.Zero
	for _, acct := range s.Portfolio.Accounts {
		total = total.Add(acct.ApplyReturns(s.MonthlyReturns).Total())
	}
	return total
}

// ApplyYields records this month's yields without changing balances. It returns all
// yields and the part that is taxable income (taxable and cash savings accounts).
func (pp *PortfolioProcessor) ApplyYields(s *SimulationState) (total, taxable decimal.Decimal) {
	for _, acct := range s.Portfolio.Accounts {
		y := acct.ApplyYields(s.MonthlyYields).Total()
		total = total.Add(y)
		switch acct.TaxCategory() {
		case domain.TaxCategoryTaxable, domain.TaxCategoryCashSavings:
			taxable = taxable.Add(y)
		}
	}
	return total, taxable
}

// Withdraw liquidates amount: cash first, then bonds, then stocks, and within a class
// accounts in tax-category order. Before age 59.5 the early withdrawal penalty is
// withdrawn in one follow-up pass.
func (pp *PortfolioProcessor) Withdraw(s *SimulationState, amount decimal.Decimal) WithdrawalOutcome {
	out := WithdrawalOutcome{Requested: amount}
	if !amount.IsPositive() {
		return out
	}

	order := s.Portfolio.WithdrawalOrder()
	withdrawn, penaltyBase := liquidate(order, amount)
	out.Withdrawn = withdrawn
	out.Shortfall = amount.Sub(withdrawn)

	if penaltyBase.IsPositive() && !dateutil.IsPenaltyFree(s.Age) {
		penalty := penaltyBase.Mul(EarlyWithdrawalPenaltyRate)
		paid, _ := liquidate(order, penalty)
		out.Penalty = paid
		out.Shortfall = out.Shortfall.Add(penalty.Sub(paid))
	}
	return out
}

func liquidate(order []*domain.Account, amount decimal.Decimal) (withdrawn, penaltyBase decimal.Decimal) {
	remaining := amount
	for _, class := range domain.LiquidationOrder {
		for _, acct := range order {
			if !remaining.IsPositive() {
				return withdrawn, penaltyBase
			}
			w := acct.WithdrawFromClass(class, remaining)
			remaining = remaining.Sub(w.Amount)
			withdrawn = withdrawn.Add(w.Amount)
			penaltyBase = penaltyBase.Add(w.PenaltyBase)
		}
	}
	return withdrawn, penaltyBase
}

// RebalanceAtYearEnd restores target allocations in December when the policy asks for it
func (pp *PortfolioProcessor) RebalanceAtYearEnd(s *SimulationState) bool {
	if pp.Rebalance != domain.RebalanceAnnually || s.Date.Month() != 12 {
		return false
	}
	for _, acct := range s.Portfolio.Accounts {
		acct.Rebalance()
	}
	return true
}
