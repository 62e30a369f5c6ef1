package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

// AccountType identifies the legal wrapper of an account
type AccountType string

const (
	AccountSavings          AccountType = "savings"
	AccountTaxableBrokerage AccountType = "taxable_brokerage"
	Account401k             AccountType = "401k"
	Account403b             AccountType = "403b"
	AccountRoth401k         AccountType = "roth_401k"
	AccountRoth403b         AccountType = "roth_403b"
	AccountIRA              AccountType = "ira"
	AccountRothIRA          AccountType = "roth_ira"
	AccountHSA              AccountType = "hsa"
)

// AccountTypes lists all supported account types
var AccountTypes = []AccountType{
	AccountSavings, AccountTaxableBrokerage,
	Account401k, Account403b, AccountRoth401k, AccountRoth403b,
	AccountIRA, AccountRothIRA, AccountHSA,
}

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	for _, at := range AccountTypes {
		if at == t {
			return true
		}
	}
	return false
}

// TaxCategory classifies how yields and withdrawals of an account are taxed
type TaxCategory string

const (
	TaxCategoryCashSavings TaxCategory = "cash_savings"
	TaxCategoryTaxable     TaxCategory = "taxable"
	TaxCategoryTaxDeferred TaxCategory = "tax_deferred"
	TaxCategoryTaxFree     TaxCategory = "tax_free"
)

// WithdrawalRank orders tax categories for withdrawals within one asset class
func (c TaxCategory) WithdrawalRank() int {
	switch c {
	case TaxCategoryCashSavings:
		return 0
	case TaxCategoryTaxable:
		return 1
	case TaxCategoryTaxDeferred:
		return 2
	default:
		return 3
	}
}

// TaxCategory maps an account type to its tax treatment
func (t AccountType) TaxCategory() TaxCategory {
	switch t {
	case AccountSavings:
		return TaxCategoryCashSavings
	case AccountTaxableBrokerage:
		return TaxCategoryTaxable
	case Account401k, Account403b, AccountIRA:
		return TaxCategoryTaxDeferred
	default:
		return TaxCategoryTaxFree
	}
}

// LimitGroup identifies a shared annual contribution cap
type LimitGroup string

const (
	LimitGroupNone         LimitGroup = ""
	LimitGroup401kCombined LimitGroup = "401k_combined"
	LimitGroupIRACombined  LimitGroup = "ira_combined"
	LimitGroupHSA          LimitGroup = "hsa"
)

// LimitGroup maps an account type to its contribution-limit group
func (t AccountType) LimitGroup() LimitGroup {
	switch t {
	case Account401k, Account403b, AccountRoth401k, AccountRoth403b:
		return LimitGroup401kCombined
	case AccountIRA, AccountRothIRA:
		return LimitGroupIRACombined
	case AccountHSA:
		return LimitGroupHSA
	}
	return LimitGroupNone
}

// SupportsMegaBackdoor reports whether after-tax contributions above the elective limit are allowed
func (t AccountType) SupportsMegaBackdoor() bool {
	return t == AccountRoth401k || t == AccountRoth403b
}

// IsRoth reports whether the account tracks a contribution basis
func (t AccountType) IsRoth() bool {
	return t == AccountRoth401k || t == AccountRoth403b || t == AccountRothIRA
}

// Withdrawal describes what a withdrawal from one asset class took out
type Withdrawal struct {
	Amount    decimal.Decimal
	Principal decimal.Decimal
	Growth    decimal.Decimal
	// PenaltyBase is the part subject to an early-withdrawal penalty before age 59.5
	PenaltyBase decimal.Decimal
}

// Account holds per-asset-class balances for one tax wrapper.
// Returns change the balance; yields are bookkeeping only.
type Account struct {
	ID                string
	Name              string
	Type              AccountType
	Target            AssetValues // target weights, sum to 1
	CostBasis         decimal.Decimal
	ContributionBasis decimal.Decimal

	holdings          map[AssetClass]*Asset
	cumulativeReturns AssetValues
	cumulativeYields  AssetValues
}

// NewAccount creates an account whose opening balance is split by the target weights.
func NewAccount(id, name string, typ AccountType, balance decimal.Decimal, target AssetValues) *Account {
	a := &Account{
		ID:       id,
		Name:     name,
		Type:     typ,
		Target:   target,
		holdings: make(map[AssetClass]*Asset, len(AssetClasses)),
	}
	parts := a.splitByTarget(balance)
	for _, c := range AssetClasses {
		a.holdings[c] = &Asset{Principal: parts.Get(c)}
	}
	a.CostBasis = balance
	if typ.IsRoth() {
		a.ContributionBasis = balance
	}
	return a
}

// NewAccountFromInput builds an account from validated plan input
func NewAccountFromInput(in AccountInput) (*Account, error) {
	target, err := in.TargetAllocation()
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", in.ID, err)
	}
	a := NewAccount(in.ID, in.Name, in.Type, in.Balance, target)
	if in.CostBasis != nil {
		a.CostBasis = *in.CostBasis
	}
	if in.ContributionBasis != nil {
		a.ContributionBasis = *in.ContributionBasis
	}
	return a, nil
}

// TaxCategory returns the account's tax treatment
func (a *Account) TaxCategory() TaxCategory { return a.Type.TaxCategory() }

// Holding returns the asset for a class
func (a *Account) Holding(c AssetClass) Asset { return *a.holdings[c] }

// AssetValue returns the value held in one asset class
func (a *Account) AssetValue(c AssetClass) decimal.Decimal {
	return a.holdings[c].Value()
}

// AssetValues returns the value held per asset class
func (a *Account) AssetValues() AssetValues {
	var v AssetValues
	for _, c := range AssetClasses {
		v.Set(c, a.holdings[c].Value())
	}
	return v
}

// Balance returns the account value
func (a *Account) Balance() decimal.Decimal {
	return a.AssetValues().Total()
}

// Allocation returns the current weights, which drift with returns
func (a *Account) Allocation() (AssetValues, error) {
	return a.AssetValues().Weights()
}

// CumulativeReturns returns the total return amounts applied so far
func (a *Account) CumulativeReturns() AssetValues { return a.cumulativeReturns }

// CumulativeYields returns the total yield amounts recorded so far
func (a *Account) CumulativeYields() AssetValues { return a.cumulativeYields }

// ApplyReturns grows each holding by its class rate and returns the amounts.
// A holding never drops below zero.
func (a *Account) ApplyReturns(classRates AssetValues) AssetValues {
	var amounts AssetValues
	for _, c := range AssetClasses {
		h := a.holdings[c]
		value := h.Value()
		amount := rates.RoundAmount(value.Mul(classRates.Get(c)))
		if amount.Neg().GreaterThan(value) {
			amount = value.Neg()
		}
		h.Growth = h.Growth.Add(amount)
		amounts.Set(c, amount)
	}
	a.cumulativeReturns = a.cumulativeReturns.Add(amounts)
	return amounts
}

// ApplyYields computes the yield generated by each holding. Balances are not touched.
func (a *Account) ApplyYields(classRates AssetValues) AssetValues {
	var amounts AssetValues
	for _, c := range AssetClasses {
		value := a.holdings[c].Value()
		if !value.IsPositive() {
			continue
		}
		amounts.Set(c, rates.RoundAmount(value.Mul(classRates.Get(c))))
	}
	a.cumulativeYields = a.cumulativeYields.Add(amounts)
	return amounts
}

// Contribute adds new principal split by the target weights and records basis.
func (a *Account) Contribute(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	amount = rates.RoundAmount(amount)
	parts := a.splitByTarget(amount)
	for _, c := range AssetClasses {
		h := a.holdings[c]
		h.Principal = h.Principal.Add(parts.Get(c))
	}
	switch {
	case a.Type == AccountTaxableBrokerage:
		a.CostBasis = a.CostBasis.Add(amount)
	case a.Type.IsRoth():
		a.ContributionBasis = a.ContributionBasis.Add(amount)
		a.CostBasis = a.CostBasis.Add(amount)
	default:
		a.CostBasis = a.CostBasis.Add(amount)
	}
}

// WithdrawFromClass sells up to amount from one asset class, pro-rata between
// principal and growth, and never below zero.
func (a *Account) WithdrawFromClass(c AssetClass, amount decimal.Decimal) Withdrawal {
	h := a.holdings[c]
	value := h.Value()
	if !amount.IsPositive() || !value.IsPositive() {
		return Withdrawal{Amount: decimal.Zero, Principal: decimal.Zero, Growth: decimal.Zero, PenaltyBase: decimal.Zero}
	}

	amount = rates.RoundAmount(amount)
	var w Withdrawal
	if amount.GreaterThanOrEqual(value) {
		w = Withdrawal{Amount: value, Principal: h.Principal, Growth: h.Growth}
		h.Principal = decimal.Zero
		h.Growth = decimal.Zero
	} else {
		fraction := amount.Div(value)
		principal := rates.RoundAmount(h.Principal.Mul(fraction))
		growth := amount.Sub(principal)
		h.Principal = h.Principal.Sub(principal)
		h.Growth = h.Growth.Sub(growth)
		w = Withdrawal{Amount: amount, Principal: principal, Growth: growth}
	}

	switch a.TaxCategory() {
	case TaxCategoryTaxDeferred:
		w.PenaltyBase = w.Amount
	case TaxCategoryTaxFree:
		// contributions come out first; only earnings beyond basis are penalized
		fromBasis := decimal.Min(w.Amount, a.ContributionBasis)
		if fromBasis.IsNegative() {
			fromBasis = decimal.Zero
		}
		a.ContributionBasis = a.ContributionBasis.Sub(fromBasis)
		w.PenaltyBase = w.Amount.Sub(fromBasis)
	default:
		w.PenaltyBase = decimal.Zero
	}
	a.CostBasis = decimal.Max(decimal.Zero, a.CostBasis.Sub(w.Principal))
	return w
}

// Rebalance resets holdings to the target weights, keeping total principal and growth.
func (a *Account) Rebalance() {
	var principal, growth decimal.Decimal
	for _, c := range AssetClasses {
		principal = principal.Add(a.holdings[c].Principal)
		growth = growth.Add(a.holdings[c].Growth)
	}
	if !principal.Add(growth).IsPositive() {
		return
	}
	ps, gs := a.splitByTarget(principal), a.splitByTarget(growth)
	for _, c := range AssetClasses {
		a.holdings[c].Principal = ps.Get(c)
		a.holdings[c].Growth = gs.Get(c)
	}
}

// splitByTarget divides total by the target weights. Rounding leftovers go to
// the last class with a positive weight so the parts always sum to total.
func (a *Account) splitByTarget(total decimal.Decimal) AssetValues {
	var parts AssetValues
	last := AssetClasses[len(AssetClasses)-1]
	for _, c := range AssetClasses {
		if a.Target.Get(c).IsPositive() {
			last = c
		}
	}
	remaining := total
	for _, c := range AssetClasses {
		if c == last {
			continue
		}
		part := rates.RoundAmount(total.Mul(a.Target.Get(c)))
		parts.Set(c, part)
		remaining = remaining.Sub(part)
	}
	parts.Set(last, remaining)
	return parts
}

// Clone returns a deep copy
func (a *Account) Clone() *Account {
	c := *a
	c.holdings = make(map[AssetClass]*Asset, len(a.holdings))
	for k, v := range a.holdings {
		h := *v
		c.holdings[k] = &h
	}
	return &c
}

// Snapshot captures the account's current state for a result record
func (a *Account) Snapshot() AccountSnapshot {
	values := a.AssetValues()
	return AccountSnapshot{
		ID:          a.ID,
		Name:        a.Name,
		Type:        a.Type,
		TaxCategory: a.TaxCategory(),
		Balance:     values.Total(),
		Holdings:    values,
	}
}
