package calculation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rpgo/fire-calculator/internal/domain"
)

func sampleState(t *testing.T, age float64) *SimulationState {
	t.Helper()
	return &SimulationState{
		Date: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Age:  age,
		Portfolio: domain.NewPortfolio(
			domain.NewAccount("roth", "Roth IRA", domain.AccountRothIRA, d(2000), weights(t, 100, 0, 0)),
			domain.NewAccount("k", "401k", domain.Account401k, d(5000), weights(t, 60, 40, 0)),
			domain.NewAccount("brk", "Brokerage", domain.AccountTaxableBrokerage, d(3000), weights(t, 50, 30, 20)),
			domain.NewAccount("sav", "Savings", domain.AccountSavings, d(1000), weights(t, 0, 0, 100)),
		),
	}
}

func holding(s *SimulationState, id string, c domain.AssetClass) float64 {
	a, _ := s.Portfolio.Account(id)
	return a.AssetValue(c).InexactFloat64()
}

func TestWithdrawCashFirst(t *testing.T) {
	s := sampleState(t, 65)
	pp := NewPortfolioProcessor(domain.RebalanceNone)

	out := pp.Withdraw(s, d(1200))
	assertDecimal(t, 1200, out.Withdrawn)
	assert.True(t, out.Shortfall.IsZero())
	assert.True(t, out.Penalty.IsZero())
	assert.InDelta(t, 0, holding(s, "sav", domain.Cash), 1e-6)
	assert.InDelta(t, 400, holding(s, "brk", domain.Cash), 1e-6)
	assert.InDelta(t, 900, holding(s, "brk", domain.Bonds), 1e-6)
}

func TestWithdrawBondsBeforeStocks(t *testing.T) {
	s := sampleState(t, 65)
	pp := NewPortfolioProcessor(domain.RebalanceNone)

	pp.Withdraw(s, d(2000))
	// 1600 of cash, then 400 of bonds from the taxable account
	assert.InDelta(t, 500, holding(s, "brk", domain.Bonds), 1e-6)
	assert.InDelta(t, 2000, holding(s, "k", domain.Bonds), 1e-6)
	assert.InDelta(t, 1500, holding(s, "brk", domain.Stocks), 1e-6)
	assertDecimal(t, 9000, s.Portfolio.TotalValue())
}

func TestWithdrawBeyondPortfolio(t *testing.T) {
	s := sampleState(t, 65)
	out := NewPortfolioProcessor(domain.RebalanceNone).Withdraw(s, d(20000))
	assertDecimal(t, 11000, out.Withdrawn)
	assertDecimal(t, 9000, out.Shortfall)
	assert.True(t, s.Portfolio.TotalValue().IsZero())
}

func TestEarlyWithdrawalPenalty(t *testing.T) {
	ira := func(t *testing.T, balance float64, age float64) *SimulationState {
		return &SimulationState{
			Age: age,
			Portfolio: domain.NewPortfolio(
				domain.NewAccount("ira", "IRA", domain.AccountIRA, d(balance), weights(t, 0, 100, 0)),
			),
		}
	}
	pp := NewPortfolioProcessor(domain.RebalanceNone)

	t.Run("before 59.5", func(t *testing.T) {
		s := ira(t, 10000, 40)
		out := pp.Withdraw(s, d(1000))
		assertDecimal(t, 1000, out.Withdrawn)
		assertDecimal(t, 100, out.Penalty)
		assert.True(t, out.Shortfall.IsZero())
		assertDecimal(t, 8900, s.Portfolio.TotalValue())
	})

	t.Run("unpaid penalty becomes shortfall", func(t *testing.T) {
		s := ira(t, 1000, 40)
		out := pp.Withdraw(s, d(1000))
		assert.True(t, out.Penalty.IsZero())
		assertDecimal(t, 100, out.Shortfall)
	})

	t.Run("penalty free from 59.5", func(t *testing.T) {
		s := ira(t, 10000, 59.5)
		out := pp.Withdraw(s, d(1000))
		assert.True(t, out.Penalty.IsZero())
		assertDecimal(t, 9000, s.Portfolio.TotalValue())
	})

	t.Run("taxable accounts carry no penalty", func(t *testing.T) {
		s := sampleState(t, 40)
		out := pp.Withdraw(s, d(1500))
		assert.True(t, out.Penalty.IsZero())
	})
}

func TestApplyReturnsAndYields(t *testing.T) {
	s := sampleState(t, 40)
	pp := NewPortfolioProcessor(domain.RebalanceNone)

	s.MonthlyReturns = domain.AssetValues{Stocks: d(0.01)}
	change := pp.ApplyReturns(s)
	assertDecimal(t, 20+30+15, change)
	assertDecimal(t, 11065, s.Portfolio.TotalValue())

	s.MonthlyYields = domain.AssetValues{Stocks: d(0.01), Cash: d(0.01)}
	total, taxable := pp.ApplyYields(s)
	// stocks now 2020 + 3030 + 1515, cash 600 + 1000
	assertDecimal(t, 20.2+30.3+15.15+6+10, total)
	assertDecimal(t, 15.15+6+10, taxable)
	assertDecimal(t, 11065, s.Portfolio.TotalValue())
}

func TestRebalanceAtYearEnd(t *testing.T) {
	s := sampleState(t, 40)
	s.MonthlyReturns = domain.AssetValues{Stocks: d(0.5)}
	NewPortfolioProcessor(domain.RebalanceNone).ApplyReturns(s)

	assert.False(t, NewPortfolioProcessor(domain.RebalanceAnnually).RebalanceAtYearEnd(s))

	s.Date = time.Date(2030, 12, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, NewPortfolioProcessor(domain.RebalanceNone).RebalanceAtYearEnd(s))
	assert.True(t, NewPortfolioProcessor(domain.RebalanceAnnually).RebalanceAtYearEnd(s))

	k, _ := s.Portfolio.Account("k")
	alloc, err := k.Allocation()
	assert.NoError(t, err)
	assertDecimal(t, 0.6, alloc.Stocks)
}
