package dateutil

import (
	"math"
	"time"
)

const (
	// CatchUpAge is the age at which retirement-plan catch-up contributions apply
	CatchUpAge = 50
	// HSACatchUpAge is the age at which HSA catch-up contributions apply
	HSACatchUpAge = 55
	// SuperCatchUpMinAge and SuperCatchUpMaxAge bound the SECURE 2.0 enhanced 401(k) catch-up window
	SuperCatchUpMinAge = 60
	SuperCatchUpMaxAge = 63
	// PenaltyFreeAge is the age after which early-withdrawal penalties no longer apply
	PenaltyFreeAge = 59.5
	// PassiveIncomeAge is the earliest age passive retirement income (e.g. Social Security) is counted
	PassiveIncomeAge = 62
)

// AgeAtPeriod returns the fractional age after a number of monthly periods
func AgeAtPeriod(startAge float64, period int) float64 {
	return startAge + float64(period)/12
}

// WholeAge floors a fractional age. A tiny epsilon absorbs float drift from
// summing twelfths so that 49 + 12/12 is treated as 50.
func WholeAge(age float64) int {
	return int(math.Floor(age + 1e-9))
}

// IsCatchUpEligible reports whether retirement-plan catch-up limits apply
func IsCatchUpEligible(age float64) bool {
	return WholeAge(age) >= CatchUpAge
}

// IsSuperCatchUpEligible reports whether the age 60-63 enhanced catch-up applies
func IsSuperCatchUpEligible(age float64) bool {
	a := WholeAge(age)
	return a >= SuperCatchUpMinAge && a <= SuperCatchUpMaxAge
}

// IsHSACatchUpEligible reports whether the HSA catch-up applies
func IsHSACatchUpEligible(age float64) bool {
	return WholeAge(age) >= HSACatchUpAge
}

// IsPenaltyFree reports whether retirement-account withdrawals are free of the early-withdrawal penalty
func IsPenaltyFree(age float64) bool {
	return age+1e-9 >= PenaltyFreeAge
}

// IsPassiveIncomeAge reports whether passive retirement income is counted at this age
func IsPassiveIncomeAge(age float64) bool {
	return age+1e-9 >= PassiveIncomeAge
}

// AddMonths adds a specified number of months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// FirstOfMonth truncates a date to midnight on the first of its month
func FirstOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// CrossesYearBoundary reports whether moving from prev to next enters a new calendar year
func CrossesYearBoundary(prev, next time.Time) bool {
	return next.Year() != prev.Year()
}
