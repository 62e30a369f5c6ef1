package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// SSTaxCalculator determines how much passive retirement income is federally taxable.
// Passive income follows the Social Security benefit rules.
type SSTaxCalculator struct{}

// NewSSTaxCalculator creates a new passive income tax calculator
func NewSSTaxCalculator() *SSTaxCalculator {
	return &SSTaxCalculator{}
}

// thresholds returns the provisional income thresholds for the filing status
func (sstc *SSTaxCalculator) thresholds(status domain.FilingStatus) (decimal.Decimal, decimal.Decimal) {
	if status == domain.FilingMarriedFilingJointly {
		return decimal.NewFromInt(32000), decimal.NewFromInt(44000)
	}
	return decimal.NewFromInt(25000), decimal.NewFromInt(34000)
}

// CalculateTaxablePassiveIncome returns the taxable part of annual passive income.
// Provisional Income <= threshold 1: nothing is taxable.
// Up to threshold 2: the lesser of 50% of the excess and 50% of the benefit.
// Above threshold 2: the lesser of 85% of the benefit and
// 85% of the excess over threshold 2 plus 50% of the band between the thresholds.
func (sstc *SSTaxCalculator) CalculateTaxablePassiveIncome(status domain.FilingStatus, annualBenefit, provisionalIncome decimal.Decimal) decimal.Decimal {
	threshold1, threshold2 := sstc.thresholds(status)
	half := decimal.NewFromFloat(0.5)
	eightyFive := decimal.NewFromFloat(0.85)

	if provisionalIncome.LessThanOrEqual(threshold1) {
		return decimal.Zero
	}
	if provisionalIncome.LessThanOrEqual(threshold2) {
		return decimal.Min(provisionalIncome.Sub(threshold1).Mul(half), annualBenefit.Mul(half))
	}

	band := decimal.Min(threshold2.Sub(threshold1).Mul(half), annualBenefit.Mul(half))
	taxableAmountA := annualBenefit.Mul(eightyFive)
	taxableAmountB := provisionalIncome.Sub(threshold2).Mul(eightyFive).Add(band)
	return decimal.Min(taxableAmountA, taxableAmountB)
}

// CalculateProvisionalIncome calculates the provisional income for benefit taxation
func (sstc *SSTaxCalculator) CalculateProvisionalIncome(agi, nontaxableInterest, benefits decimal.Decimal) decimal.Decimal {
	// Provisional Income = AGI + Non-taxable interest + 1/2 of benefits
	return agi.Add(nontaxableInterest).Add(benefits.Mul(decimal.NewFromFloat(0.5)))
}
