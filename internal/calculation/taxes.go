package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// TAX APPROXIMATION:
//
// 1. Every tax is applied as a single effective rate on gross amounts.
//    flat mode uses the plan's effective_tax_rate for the whole run.
//
// 2. brackets mode re-estimates the rate once per simulation year from
//    2025 federal brackets and standard deductions for the filing status.
//    - No inflation indexing: balances are real, so today's brackets stand in
//    - Additional standard deduction from age 65
//    - Passive income is taxed like Social Security via provisional income
//
// 3. State and local taxes are not modeled.

// TaxBracket represents a federal tax bracket. Max is zero for the top bracket.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// FederalTaxCalculator handles federal income tax calculations
type FederalTaxCalculator struct {
	Year              int
	StandardDeduction map[domain.FilingStatus]decimal.Decimal
	AdditionalStdDed  map[domain.FilingStatus]decimal.Decimal // age 65+
	Brackets          map[domain.FilingStatus][]TaxBracket
}

func brackets(bounds []int64, rates []float64) []TaxBracket {
	out := make([]TaxBracket, 0, len(rates))
	lower := decimal.Zero
	for i, r := range rates {
		b := TaxBracket{Min: lower, Rate: decimal.NewFromFloat(r)}
		if i < len(bounds) {
			b.Max = decimal.NewFromInt(bounds[i])
			lower = b.Max
		}
		out = append(out, b)
	}
	return out
}

// NewFederalTaxCalculator2025 creates a calculator with the 2025 brackets
func NewFederalTaxCalculator2025() *FederalTaxCalculator {
	rates := []float64{0.10, 0.12, 0.22, 0.24, 0.32, 0.35, 0.37}
	return &FederalTaxCalculator{
		Year: 2025,
		StandardDeduction: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:               decimal.NewFromInt(15000),
			domain.FilingMarriedFilingJointly: decimal.NewFromInt(30000),
			domain.FilingHeadOfHousehold:      decimal.NewFromInt(22500),
		},
		AdditionalStdDed: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:               decimal.NewFromInt(2000),
			domain.FilingMarriedFilingJointly: decimal.NewFromInt(1600),
			domain.FilingHeadOfHousehold:      decimal.NewFromInt(2000),
		},
		Brackets: map[domain.FilingStatus][]TaxBracket{
			domain.FilingSingle:               brackets([]int64{11925, 48475, 103350, 197300, 250525, 626350}, rates),
			domain.FilingMarriedFilingJointly: brackets([]int64{23850, 96950, 206700, 394600, 501050, 751600}, rates),
			domain.FilingHeadOfHousehold:      brackets([]int64{17000, 64850, 103350, 197300, 250500, 626350}, rates),
		},
	}
}

// CalculateFederalTax calculates federal income tax on gross income for the filing status
func (ftc *FederalTaxCalculator) CalculateFederalTax(grossIncome decimal.Decimal, status domain.FilingStatus, age float64) decimal.Decimal {
	table, ok := ftc.Brackets[status]
	if !ok {
		status = domain.FilingSingle
		table = ftc.Brackets[status]
	}

	standardDed := ftc.StandardDeduction[status]
	if age >= 65 {
		standardDed = standardDed.Add(ftc.AdditionalStdDed[status])
	}

	taxableIncome := grossIncome.Sub(standardDed)
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var totalTax decimal.Decimal
	for _, bracket := range table {
		if taxableIncome.LessThanOrEqual(bracket.Min) {
			break
		}
		top := taxableIncome
		if !bracket.Max.IsZero() {
			top = decimal.Min(taxableIncome, bracket.Max)
		}
		totalTax = totalTax.Add(top.Sub(bracket.Min).Mul(bracket.Rate))
	}
	return totalTax
}

// TaxYearInput is the annual income picture used to estimate an effective rate
type TaxYearInput struct {
	OrdinaryIncome decimal.Decimal // wages, taxable yields, and expected withdrawals
	PassiveIncome  decimal.Decimal
	Age            float64
}

// TaxCalculator estimates the effective rate applied to gross amounts for one year
type TaxCalculator interface {
	EffectiveRate(in TaxYearInput) decimal.Decimal
}

// FlatTaxCalculator applies the same rate every year
type FlatTaxCalculator struct {
	Rate decimal.Decimal
}

// EffectiveRate returns the flat rate
func (f FlatTaxCalculator) EffectiveRate(TaxYearInput) decimal.Decimal { return f.Rate }

// BracketTaxCalculator derives the rate from federal brackets
type BracketTaxCalculator struct {
	Federal        *FederalTaxCalculator
	SocialSecurity *SSTaxCalculator
	Status         domain.FilingStatus
}

// maxEffectiveRate keeps gross-up divisions finite
var maxEffectiveRate = decimal.NewFromFloat(0.95)

// EffectiveRate returns total tax divided by total gross income, or zero without income
func (b BracketTaxCalculator) EffectiveRate(in TaxYearInput) decimal.Decimal {
	gross := in.OrdinaryIncome.Add(in.PassiveIncome)
	if !gross.IsPositive() {
		return decimal.Zero
	}

	taxable := in.OrdinaryIncome
	if in.PassiveIncome.IsPositive() {
		provisional := b.SocialSecurity.CalculateProvisionalIncome(in.OrdinaryIncome, decimal.Zero, in.PassiveIncome)
		taxable = taxable.Add(b.SocialSecurity.CalculateTaxablePassiveIncome(b.Status, in.PassiveIncome, provisional))
	}

	rate := b.Federal.CalculateFederalTax(taxable, b.Status, in.Age).Div(gross)
	return decimal.Min(rate, maxEffectiveRate)
}

// NewTaxCalculator builds the calculator selected by the plan's tax mode
func NewTaxCalculator(plan *domain.PlanInputs) TaxCalculator {
	if plan.Taxes.Mode == domain.TaxModeBrackets {
		status := plan.Taxes.FilingStatus
		if status == "" {
			status = domain.FilingSingle
		}
		return BracketTaxCalculator{
			Federal:        NewFederalTaxCalculator2025(),
			SocialSecurity: NewSSTaxCalculator(),
			Status:         status,
		}
	}
	return FlatTaxCalculator{Rate: plan.EffectiveTaxRate()}
}
