package output

import (
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// Outlook grades a report's headline result
type Outlook string

const (
	OutlookOnTrack    Outlook = "on track"
	OutlookBorderline Outlook = "borderline"
	OutlookAtRisk     Outlook = "at risk"
	OutlookNotRetired Outlook = "never retires"
)

// Verdict is the one-line reading of a report
type Verdict struct {
	Outlook     Outlook
	SuccessRate decimal.Decimal // percent
	Headline    string
}

var (
	onTrackRate    = decimal.NewFromInt(90)
	borderlineRate = decimal.NewFromInt(75)
)

// AnalyzeOutcome grades a report. A single run is 100% or 0%; a batch uses its success rate.
func AnalyzeOutcome(r *Report) Verdict {
	rate := r.KeyMetrics.Success.Mul(decimalHundred)
	if r.Analysis != nil && !r.Analysis.NoData {
		rate = r.Analysis.SuccessRate
	}
	v := Verdict{SuccessRate: rate}

	switch {
	case r.KeyMetrics.RetirementAge == nil:
		v.Outlook = OutlookNotRetired
		v.Headline = "The plan never reaches retirement before life expectancy"
		return v
	case rate.GreaterThanOrEqual(onTrackRate):
		v.Outlook = OutlookOnTrack
	case rate.GreaterThanOrEqual(borderlineRate):
		v.Outlook = OutlookBorderline
	default:
		v.Outlook = OutlookAtRisk
	}
	v.Headline = "Retire at " + formatAge(r.KeyMetrics.RetirementAge) + ", success " + FormatPercentage(rate)
	return v
}
