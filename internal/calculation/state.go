package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// insolvencyThreshold is the smallest unmet need that counts as running out of money
var insolvencyThreshold = decimal.NewFromFloat(0.01)

// SimulationState is the mutable state of one run. It is owned by a single
// engine run and never shared.
type SimulationState struct {
	Start  time.Time
	Period int
	Years  float64
	Date   time.Time // first day of the month being simulated
	Age    float64   // age at the end of the period
	Phase  Phase

	Portfolio    *domain.Portfolio
	Limits       *LimitTracker
	OneTimeFired map[string]bool

	SimulationYear int
	Returns        domain.ReturnsWithMetadata
	MonthlyReturns domain.AssetValues
	MonthlyYields  domain.AssetValues
	TaxRate        decimal.Decimal

	CumulativeTaxes     decimal.Decimal
	CumulativePenalties decimal.Decimal
	LastShortfall       decimal.Decimal

	RetirementAge *float64
	BankruptcyAge *float64
}

// Position returns the point on the timeline used to evaluate timeframes
func (s *SimulationState) Position() TimelinePosition {
	return TimelinePosition{
		Age:          s.Age,
		Date:         s.Date,
		Phase:        s.Phase.Name(),
		YearsElapsed: s.SimulationYear - 1,
	}
}

// Insolvent reports whether the last period left a withdrawal need unmet
func (s *SimulationState) Insolvent() bool {
	return s.LastShortfall.GreaterThanOrEqual(insolvencyThreshold)
}
