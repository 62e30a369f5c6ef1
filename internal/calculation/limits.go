package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
	"github.com/rpgo/fire-calculator/pkg/dateutil"
)

// Annual contribution limits
var (
	Limit401k             = decimal.NewFromInt(24500)
	Limit401kCatchUp      = decimal.NewFromInt(32500)
	Limit401kSuperCatchUp = decimal.NewFromInt(35750)
	LimitIRA              = decimal.NewFromInt(7500)
	LimitIRACatchUp       = decimal.NewFromInt(8600)
	LimitHSA              = decimal.NewFromInt(4400)
	LimitHSACatchUp       = decimal.NewFromInt(5400)
	Limit415c             = decimal.NewFromInt(72000)
	Limit415cCatchUp      = decimal.NewFromInt(80000)
	Limit415cSuperCatchUp = decimal.NewFromInt(83250)
)

// GroupLimit returns the annual elective limit of a group at age. ok is false for unlimited groups.
func GroupLimit(group domain.LimitGroup, age float64) (limit decimal.Decimal, ok bool) {
	switch group {
	case domain.LimitGroup401kCombined:
		switch {
		case dateutil.IsSuperCatchUpEligible(age):
			return Limit401kSuperCatchUp, true
		case dateutil.IsCatchUpEligible(age):
			return Limit401kCatchUp, true
		}
		return Limit401k, true
	case domain.LimitGroupIRACombined:
		if dateutil.IsCatchUpEligible(age) {
			return LimitIRACatchUp, true
		}
		return LimitIRA, true
	case domain.LimitGroupHSA:
		if dateutil.IsHSACatchUpEligible(age) {
			return LimitHSACatchUp, true
		}
		return LimitHSA, true
	}
	return decimal.Zero, false
}

// TotalAdditionsLimit returns the 415(c) limit on employee, employer and after-tax additions
func TotalAdditionsLimit(age float64) decimal.Decimal {
	switch {
	case dateutil.IsSuperCatchUpEligible(age):
		return Limit415cSuperCatchUp
	case dateutil.IsCatchUpEligible(age):
		return Limit415cCatchUp
	}
	return Limit415c
}

// accountTotals are the year-to-date amounts of one account
type accountTotals struct {
	employee decimal.Decimal
	employer decimal.Decimal
	afterTax decimal.Decimal
}

func (t accountTotals) all() decimal.Decimal {
	return t.employee.Add(t.employer).Add(t.afterTax)
}

// LimitTracker records year-to-date contributions per account and per limit group
type LimitTracker struct {
	year     int
	accounts map[string]accountTotals
	groups   map[domain.LimitGroup]decimal.Decimal
	resets   int
}

// NewLimitTracker creates a tracker for the given calendar year
func NewLimitTracker(year int) *LimitTracker {
	return &LimitTracker{
		year:     year,
		accounts: make(map[string]accountTotals),
		groups:   make(map[domain.LimitGroup]decimal.Decimal),
	}
}

// Year returns the calendar year being tracked
func (t *LimitTracker) Year() int { return t.year }

// Resets returns how many times the tracker has been reset
func (t *LimitTracker) Resets() int { return t.resets }

// AdvanceTo clears all totals when year differs from the tracked year. It reports whether a reset happened.
func (t *LimitTracker) AdvanceTo(year int) bool {
	if year == t.year {
		return false
	}
	t.year = year
	t.accounts = make(map[string]accountTotals)
	t.groups = make(map[domain.LimitGroup]decimal.Decimal)
	t.resets++
	return true
}

// GroupUsed returns the year-to-date elective contributions to a group
func (t *LimitTracker) GroupUsed(group domain.LimitGroup) decimal.Decimal {
	return t.groups[group]
}

// Remaining returns the elective headroom for an account type at age; ok is false when unlimited
func (t *LimitTracker) Remaining(typ domain.AccountType, age float64) (decimal.Decimal, bool) {
	limit, ok := GroupLimit(typ.LimitGroup(), age)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.Max(decimal.Zero, limit.Sub(t.groups[typ.LimitGroup()])), true
}

// EmployeeYTD returns the employee contributions to an account this year
func (t *LimitTracker) EmployeeYTD(accountID string) decimal.Decimal {
	return t.accounts[accountID].employee
}

// EmployerYTD returns the employer match deposited into an account this year
func (t *LimitTracker) EmployerYTD(accountID string) decimal.Decimal {
	return t.accounts[accountID].employer
}

// AfterTaxYTD returns the after-tax contributions to an account this year
func (t *LimitTracker) AfterTaxYTD(accountID string) decimal.Decimal {
	return t.accounts[accountID].afterTax
}

// TotalAdditionsRemaining returns the 415(c) headroom of an account
func (t *LimitTracker) TotalAdditionsRemaining(accountID string, age float64) decimal.Decimal {
	return decimal.Max(decimal.Zero, TotalAdditionsLimit(age).Sub(t.accounts[accountID].all()))
}

// AddEmployee records an elective contribution
func (t *LimitTracker) AddEmployee(acct *domain.Account, amount decimal.Decimal) {
	tot := t.accounts[acct.ID]
	tot.employee = tot.employee.Add(amount)
	t.accounts[acct.ID] = tot
	if g := acct.Type.LimitGroup(); g != domain.LimitGroupNone {
		t.groups[g] = t.groups[g].Add(amount)
	}
}

// AddEmployer records an employer match deposit
func (t *LimitTracker) AddEmployer(acct *domain.Account, amount decimal.Decimal) {
	tot := t.accounts[acct.ID]
	tot.employer = tot.employer.Add(amount)
	t.accounts[acct.ID] = tot
}

// AddAfterTax records a mega-backdoor contribution
func (t *LimitTracker) AddAfterTax(acct *domain.Account, amount decimal.Decimal) {
	tot := t.accounts[acct.ID]
	tot.afterTax = tot.afterTax.Add(amount)
	t.accounts[acct.ID] = tot
}
