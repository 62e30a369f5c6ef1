package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Portfolio is an ordered collection of accounts
type Portfolio struct {
	Accounts []*Account
}

// NewPortfolio creates a portfolio from accounts, keeping their order
func NewPortfolio(accounts ...*Account) *Portfolio {
	return &Portfolio{Accounts: accounts}
}

// TotalValue sums every account balance
func (p *Portfolio) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Accounts {
		total = total.Add(a.Balance())
	}
	return total
}

// AssetClassValues sums each asset class across accounts
func (p *Portfolio) AssetClassValues() AssetValues {
	var v AssetValues
	for _, a := range p.Accounts {
		v = v.Add(a.AssetValues())
	}
	return v
}

// Allocation returns portfolio-wide weights. It fails with ErrZeroBalance for an empty portfolio.
func (p *Portfolio) Allocation() (AssetValues, error) {
	return p.AssetClassValues().Weights()
}

// ByTaxCategory sums balances per tax category
func (p *Portfolio) ByTaxCategory() map[TaxCategory]decimal.Decimal {
	out := make(map[TaxCategory]decimal.Decimal, 4)
	for _, a := range p.Accounts {
		cat := a.TaxCategory()
		out[cat] = out[cat].Add(a.Balance())
	}
	return out
}

// Account looks up an account by ID
func (p *Portfolio) Account(id string) (*Account, bool) {
	for _, a := range p.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// FirstOfCategory returns the first account with the given tax category
func (p *Portfolio) FirstOfCategory(cat TaxCategory) (*Account, bool) {
	for _, a := range p.Accounts {
		if a.TaxCategory() == cat {
			return a, true
		}
	}
	return nil, false
}

// WithdrawalOrder returns the accounts sorted by tax-category rank, keeping
// declaration order within a category.
func (p *Portfolio) WithdrawalOrder() []*Account {
	out := make([]*Account, len(p.Accounts))
	copy(out, p.Accounts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TaxCategory().WithdrawalRank() < out[j].TaxCategory().WithdrawalRank()
	})
	return out
}

// Clone deep-copies every account
func (p *Portfolio) Clone() *Portfolio {
	c := &Portfolio{Accounts: make([]*Account, len(p.Accounts))}
	for i, a := range p.Accounts {
		c.Accounts[i] = a.Clone()
	}
	return c
}

// Snapshots captures every account
func (p *Portfolio) Snapshots() []AccountSnapshot {
	out := make([]AccountSnapshot, len(p.Accounts))
	for i, a := range p.Accounts {
		out[i] = a.Snapshot()
	}
	return out
}
