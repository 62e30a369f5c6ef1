package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func weights(t *testing.T, stocks, bonds, cash float64) AssetValues {
	t.Helper()
	w, err := AllocationFromPercents(d(stocks), d(bonds), d(cash))
	require.NoError(t, err)
	return w
}

func assertDecimal(t *testing.T, want float64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want, got.InexactFloat64(), 1e-6, msgAndArgs...)
}

func TestAccountTypeMapping(t *testing.T) {
	tests := []struct {
		typ      AccountType
		category TaxCategory
		group    LimitGroup
	}{
		{AccountSavings, TaxCategoryCashSavings, LimitGroupNone},
		{AccountTaxableBrokerage, TaxCategoryTaxable, LimitGroupNone},
		{Account401k, TaxCategoryTaxDeferred, LimitGroup401kCombined},
		{Account403b, TaxCategoryTaxDeferred, LimitGroup401kCombined},
		{AccountRoth401k, TaxCategoryTaxFree, LimitGroup401kCombined},
		{AccountRoth403b, TaxCategoryTaxFree, LimitGroup401kCombined},
		{AccountIRA, TaxCategoryTaxDeferred, LimitGroupIRACombined},
		{AccountRothIRA, TaxCategoryTaxFree, LimitGroupIRACombined},
		{AccountHSA, TaxCategoryTaxFree, LimitGroupHSA},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.True(t, tt.typ.Valid())
			assert.Equal(t, tt.category, tt.typ.TaxCategory())
			assert.Equal(t, tt.group, tt.typ.LimitGroup())
		})
	}
	assert.False(t, AccountType("pension").Valid())
}

func TestAccountAllocationDriftsWithReturns(t *testing.T) {
	acct := NewAccount("a", "Brokerage", AccountTaxableBrokerage, d(1000), weights(t, 60, 40, 0))

	amounts := acct.ApplyReturns(AssetValues{Stocks: d(0.10), Bonds: d(0.01)})
	assertDecimal(t, 60, amounts.Stocks)
	assertDecimal(t, 4, amounts.Bonds)
	assertDecimal(t, 1064, acct.Balance())

	alloc, err := acct.Allocation()
	require.NoError(t, err)
	assert.InDelta(t, 0.3797, alloc.Bonds.InexactFloat64(), 1e-4)
	assert.InDelta(t, 1.0, alloc.Total().InexactFloat64(), 1e-9)
}

func TestApplyYieldsNeverChangesBalance(t *testing.T) {
	rates := []AssetValues{
		{Stocks: d(0.02), Bonds: d(0.04), Cash: d(0.05)},
		{Stocks: d(0.5), Bonds: d(0), Cash: d(1)},
		{Stocks: d(-0.1), Bonds: d(0.3), Cash: d(0)},
	}
	for i, r := range rates {
		acct := NewAccount("a", "Brokerage", AccountTaxableBrokerage, d(10000), weights(t, 50, 30, 20))
		before := acct.Balance()
		yields := acct.ApplyYields(r)
		assert.True(t, before.Equal(acct.Balance()), "case %d", i)
		assertDecimal(t, 5000*r.Stocks.InexactFloat64(), yields.Stocks)
		assert.True(t, acct.CumulativeYields().Equal(yields), "case %d", i)
	}
}

func TestApplyReturnsChangesBalance(t *testing.T) {
	acct := NewAccount("a", "401k", Account401k, d(10000), weights(t, 50, 30, 20))
	before := acct.Balance()
	acct.ApplyReturns(AssetValues{Stocks: d(0.001)})
	assert.False(t, before.Equal(acct.Balance()))
	assertDecimal(t, 5, acct.CumulativeReturns().Stocks)
}

func TestAmountsStayAtFixedPrecision(t *testing.T) {
	acct := NewAccount("a", "Brokerage", AccountTaxableBrokerage, d(10000), weights(t, 33.33, 33.33, 33.34))
	monthly := AssetValues{
		Stocks: decimal.RequireFromString("0.007974140429"),
		Bonds:  decimal.RequireFromString("0.004074123784"),
		Cash:   decimal.RequireFromString("0.002466269772"),
	}
	for i := 0; i < 720; i++ {
		acct.ApplyReturns(monthly)
		acct.Contribute(decimal.RequireFromString("333.333333333333"))
		acct.WithdrawFromClass(Cash, decimal.RequireFromString("17.777777777777"))
		if i%12 == 11 {
			acct.Rebalance()
		}
	}
	for _, c := range AssetClasses {
		h := acct.Holding(c)
		assert.GreaterOrEqual(t, h.Principal.Exponent(), int32(-8), "%s principal", c)
		assert.GreaterOrEqual(t, h.Growth.Exponent(), int32(-8), "%s growth", c)
	}
}

func TestContributeSplitSumsToAmount(t *testing.T) {
	acct := NewAccount("a", "IRA", AccountIRA, d(0), weights(t, 33.33, 66.67, 0))
	amount := decimal.RequireFromString("1000.123456789")
	acct.Contribute(amount)

	assert.True(t, acct.Balance().Equal(amount.Round(8)))
	assert.True(t, acct.AssetValue(Cash).IsZero())
}

func TestApplyReturnsClampsAtZero(t *testing.T) {
	acct := NewAccount("a", "IRA", AccountIRA, d(1000), weights(t, 100, 0, 0))
	amounts := acct.ApplyReturns(AssetValues{Stocks: d(-1.5)})
	assertDecimal(t, -1000, amounts.Stocks)
	assert.True(t, acct.Balance().IsZero())
}

func TestContributeUpdatesBasis(t *testing.T) {
	t.Run("taxable raises cost basis", func(t *testing.T) {
		acct := NewAccount("a", "Brokerage", AccountTaxableBrokerage, d(1000), weights(t, 70, 30, 0))
		acct.Contribute(d(500))
		assertDecimal(t, 1500, acct.Balance())
		assertDecimal(t, 1050, acct.AssetValue(Stocks))
		assertDecimal(t, 450, acct.AssetValue(Bonds))
		assertDecimal(t, 1500, acct.CostBasis)
	})
	t.Run("roth raises contribution basis", func(t *testing.T) {
		acct := NewAccount("r", "Roth IRA", AccountRothIRA, d(0), weights(t, 100, 0, 0))
		acct.Contribute(d(7000))
		assertDecimal(t, 7000, acct.ContributionBasis)
	})
	t.Run("non-positive is ignored", func(t *testing.T) {
		acct := NewAccount("s", "Savings", AccountSavings, d(100), weights(t, 0, 0, 100))
		acct.Contribute(d(-5))
		assertDecimal(t, 100, acct.Balance())
	})
}

func TestWithdrawFromClassIsProRata(t *testing.T) {
	acct := NewAccount("a", "Brokerage", AccountTaxableBrokerage, d(1000), weights(t, 100, 0, 0))
	acct.ApplyReturns(AssetValues{Stocks: d(0.5)})

	w := acct.WithdrawFromClass(Stocks, d(300))
	assertDecimal(t, 300, w.Amount)
	assertDecimal(t, 200, w.Principal)
	assertDecimal(t, 100, w.Growth)
	assert.True(t, w.PenaltyBase.IsZero())

	h := acct.Holding(Stocks)
	assertDecimal(t, 800, h.Principal)
	assertDecimal(t, 400, h.Growth)
	assertDecimal(t, 800, acct.CostBasis)
}

func TestWithdrawFromClassClampsAtZero(t *testing.T) {
	acct := NewAccount("a", "Brokerage", AccountTaxableBrokerage, d(1000), weights(t, 50, 50, 0))
	w := acct.WithdrawFromClass(Bonds, d(900))
	assertDecimal(t, 500, w.Amount)
	assert.True(t, acct.AssetValue(Bonds).IsZero())
	assertDecimal(t, 500, acct.AssetValue(Stocks))

	empty := acct.WithdrawFromClass(Cash, d(10))
	assert.True(t, empty.Amount.IsZero())
}

func TestWithdrawalPenaltyBase(t *testing.T) {
	t.Run("tax deferred is fully penalized", func(t *testing.T) {
		acct := NewAccount("i", "IRA", AccountIRA, d(1000), weights(t, 0, 100, 0))
		w := acct.WithdrawFromClass(Bonds, d(400))
		assertDecimal(t, 400, w.PenaltyBase)
	})
	t.Run("roth contributions come out first", func(t *testing.T) {
		acct := NewAccount("r", "Roth", AccountRothIRA, d(1000), weights(t, 100, 0, 0))
		acct.ApplyReturns(AssetValues{Stocks: d(0.5)})
		w := acct.WithdrawFromClass(Stocks, d(1200))
		assertDecimal(t, 200, w.PenaltyBase)
		assert.True(t, acct.ContributionBasis.IsZero())
	})
}

func TestRebalanceRestoresTarget(t *testing.T) {
	acct := NewAccount("a", "Brokerage", AccountTaxableBrokerage, d(1000), weights(t, 60, 40, 0))
	acct.ApplyReturns(AssetValues{Stocks: d(0.5)})
	acct.Rebalance()

	assertDecimal(t, 1300, acct.Balance())
	alloc, err := acct.Allocation()
	require.NoError(t, err)
	assertDecimal(t, 0.6, alloc.Stocks)
	assertDecimal(t, 0.4, alloc.Bonds)
}

func TestAllocationZeroBalance(t *testing.T) {
	acct := NewAccount("a", "Empty", AccountHSA, d(0), weights(t, 100, 0, 0))
	_, err := acct.Allocation()
	assert.ErrorIs(t, err, ErrZeroBalance)
}

func TestCloneIsIndependent(t *testing.T) {
	acct := NewAccount("a", "Brokerage", AccountTaxableBrokerage, d(1000), weights(t, 60, 40, 0))
	c := acct.Clone()
	c.ApplyReturns(AssetValues{Stocks: d(1)})
	assertDecimal(t, 1000, acct.Balance())
	assertDecimal(t, 1600, c.Balance())
}

func TestAllocationFromPercents(t *testing.T) {
	_, err := AllocationFromPercents(d(70), d(30), d(0.005))
	assert.NoError(t, err)

	_, err = AllocationFromPercents(d(70), d(20), d(0))
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = AllocationFromPercents(d(110), d(-10), d(0))
	assert.ErrorIs(t, err, ErrInvalidPlan)
}
