package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

// ContributionRules allocates surplus cash to accounts in rank order
type ContributionRules struct {
	rules []domain.ContributionRuleInput
	base  domain.BaseContributionRule
}

// NewContributionRules drops disabled rules and orders the rest by ascending rank
func NewContributionRules(in []domain.ContributionRuleInput, base domain.BaseContributionRule) *ContributionRules {
	rules := make([]domain.ContributionRuleInput, 0, len(in))
	for _, r := range in {
		if !r.Disabled {
			rules = append(rules, r)
		}
	}
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Rank < rules[j].Rank })
	return &ContributionRules{rules: rules, base: base}
}

// Rules returns the active rules in application order
func (c *ContributionRules) Rules() []domain.ContributionRuleInput { return c.rules }

// BaseRule returns the policy for cash left after all rules
func (c *ContributionRules) BaseRule() domain.BaseContributionRule { return c.base }

// ContributionOutcome records where one period's surplus went
type ContributionOutcome struct {
	Employee      decimal.Decimal
	AfterTax      decimal.Decimal
	EmployerMatch decimal.Decimal
	Saved         decimal.Decimal
	Spent         decimal.Decimal
}

// Contributed returns everything paid in from the household's own cash
func (o ContributionOutcome) Contributed() decimal.Decimal {
	return o.Employee.Add(o.AfterTax).Add(o.Saved)
}

// ContributionInput is the context of one allocation pass
type ContributionInput struct {
	Cash        decimal.Decimal
	GrossIncome map[string]decimal.Decimal // this period's gross amount per income ID
	Age         float64
}

// Apply allocates in.Cash across the rules, then applies the base rule to the leftover
func (c *ContributionRules) Apply(p *domain.Portfolio, t *LimitTracker, in ContributionInput) ContributionOutcome {
	var out ContributionOutcome
	remaining := in.Cash
	if !remaining.IsPositive() {
		return out
	}

	for _, rule := range c.rules {
		if !remaining.IsPositive() {
			break
		}
		acct, ok := p.Account(rule.AccountID)
		if !ok {
			continue
		}

		budget := decimal.Min(requestedAmount(rule, t, acct, remaining), remaining)
		if rule.MaxBalance != nil {
			budget = decimal.Min(budget, decimal.Max(decimal.Zero, rule.MaxBalance.Sub(acct.Balance())))
		}
		if len(rule.IncomeIDs) > 0 {
			budget = decimal.Min(budget, eligibleIncome(rule.IncomeIDs, in.GrossIncome))
		}
		if !budget.IsPositive() {
			continue
		}

		elective := budget
		if headroom, limited := t.Remaining(acct.Type, in.Age); limited {
			elective = decimal.Min(elective, headroom)
		}
		if acct.Type.LimitGroup() == domain.LimitGroup401kCombined {
			elective = decimal.Min(elective, t.TotalAdditionsRemaining(acct.ID, in.Age))
		}
		if elective.IsPositive() {
			acct.Contribute(elective)
			t.AddEmployee(acct, elective)
			out.Employee = out.Employee.Add(elective)
			out.EmployerMatch = out.EmployerMatch.Add(applyEmployerMatch(rule, t, acct, elective, in.Age))
		}

		afterTax := decimal.Zero
		if rule.MegaBackdoorRoth && acct.Type.SupportsMegaBackdoor() {
			afterTax = decimal.Min(budget.Sub(elective), t.TotalAdditionsRemaining(acct.ID, in.Age))
			if afterTax.IsPositive() {
				acct.Contribute(afterTax)
				t.AddAfterTax(acct, afterTax)
				out.AfterTax = out.AfterTax.Add(afterTax)
			} else {
				afterTax = decimal.Zero
			}
		}

		remaining = remaining.Sub(elective).Sub(afterTax)
	}

	if remaining.IsPositive() {
		if target := c.baseTarget(p); target != nil {
			target.Contribute(remaining)
			out.Saved = remaining
		} else {
			out.Spent = remaining
		}
	}
	return out
}

// requestedAmount sizes a rule before caps are applied
func requestedAmount(rule domain.ContributionRuleInput, t *LimitTracker, acct *domain.Account, remaining decimal.Decimal) decimal.Decimal {
	switch rule.Type {
	case domain.ContributionDollarAmount:
		if rule.Amount == nil {
			return decimal.Zero
		}
		ytd := t.EmployeeYTD(acct.ID).Add(t.AfterTaxYTD(acct.ID))
		return decimal.Max(decimal.Zero, rule.Amount.Sub(ytd))
	case domain.ContributionPercentRemaining:
		if rule.Percent == nil {
			return decimal.Zero
		}
		return remaining.Mul(rates.FromPercent(*rule.Percent))
	case domain.ContributionUnlimited:
		return remaining
	}
	return decimal.Zero
}

func eligibleIncome(ids []string, gross map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, id := range ids {
		total = total.Add(gross[id])
	}
	return total
}

// applyEmployerMatch deposits min(employee contribution, annual match - YTD match), bounded by 415(c)
func applyEmployerMatch(rule domain.ContributionRuleInput, t *LimitTracker, acct *domain.Account, employee decimal.Decimal, age float64) decimal.Decimal {
	if rule.EmployerMatch == nil {
		return decimal.Zero
	}
	match := decimal.Min(employee, rule.EmployerMatch.Sub(t.EmployerYTD(acct.ID)))
	if acct.Type.LimitGroup() == domain.LimitGroup401kCombined {
		match = decimal.Min(match, t.TotalAdditionsRemaining(acct.ID, age))
	}
	if !match.IsPositive() {
		return decimal.Zero
	}
	acct.Contribute(match)
	t.AddEmployer(acct, match)
	return match
}

// baseTarget returns the account that receives leftover cash under the save policy
func (c *ContributionRules) baseTarget(p *domain.Portfolio) *domain.Account {
	if c.base != domain.BaseRuleSave {
		return nil
	}
	if a, ok := p.FirstOfCategory(domain.TaxCategoryCashSavings); ok {
		return a
	}
	if a, ok := p.FirstOfCategory(domain.TaxCategoryTaxable); ok {
		return a
	}
	return nil
}
