package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

var twelve = decimal.NewFromInt(12)

// TimelinePosition is what a timeframe is evaluated against
type TimelinePosition struct {
	Age          float64
	Date         time.Time
	Phase        domain.PhaseName
	YearsElapsed int
}

// CashFlowAmount is one flow's amount for a period
type CashFlowAmount struct {
	ID     string
	Amount decimal.Decimal
	Gross  bool
}

// CashFlows evaluates a list of incomes or expenses period by period
type CashFlows struct {
	kind      string
	flows     []domain.CashFlowInput
	inflation decimal.Decimal
}

// NewCashFlows keeps the enabled flows. kind namespaces one-time bookkeeping ("income", "expense").
// inflation is the assumed annual rate as a fraction, used to turn nominal growth into real growth.
func NewCashFlows(kind string, flows []domain.CashFlowInput, inflation decimal.Decimal) *CashFlows {
	active := make([]domain.CashFlowInput, 0, len(flows))
	for _, f := range flows {
		if !f.Disabled {
			active = append(active, f)
		}
	}
	return &CashFlows{kind: kind, flows: active, inflation: inflation}
}

// Period returns the amounts due this period. fired records one-time flows that have been paid
// and is updated in place.
func (c *CashFlows) Period(pos TimelinePosition, fired map[string]bool) []CashFlowAmount {
	var out []CashFlowAmount
	for _, f := range c.flows {
		if f.Frequency == domain.FrequencyOneTime {
			key := c.kind + ":" + f.ID
			if fired[key] || !startReached(f.Timeframe.Start, pos) {
				continue
			}
			fired[key] = true
			out = append(out, CashFlowAmount{ID: f.ID, Amount: c.AnnualAmount(f, pos.YearsElapsed), Gross: f.Gross})
			continue
		}
		if !IsActive(f.Timeframe, pos) {
			continue
		}
		out = append(out, CashFlowAmount{ID: f.ID, Amount: c.AnnualAmount(f, pos.YearsElapsed).Div(twelve), Gross: f.Gross})
	}
	return out
}

// AnnualAmount returns the real annual amount after years of growth, or the lump sum for one-time flows.
// Growth is nominal and is deflated with the assumed inflation. growth_limit caps rising amounts
// and floors falling ones.
func (c *CashFlows) AnnualAmount(f domain.CashFlowInput, years int) decimal.Decimal {
	amount := f.Amount
	nominal := decimal.Zero
	if f.GrowthRate != nil {
		nominal = rates.FromPercent(*f.GrowthRate)
	}
	if years > 0 && !nominal.IsZero() {
		realRate := rates.RealRate(nominal, c.inflation)
		growth := decimal.NewFromInt(1).Add(realRate.Round(rates.RatePlaces)).Pow(decimal.NewFromInt(int64(years)))
		amount = rates.RoundAmount(amount.Mul(growth))
	}
	if f.GrowthLimit != nil {
		if nominal.IsPositive() {
			amount = decimal.Min(amount, *f.GrowthLimit)
		} else if nominal.IsNegative() {
			amount = decimal.Max(amount, *f.GrowthLimit)
		}
	}
	if f.Frequency == domain.FrequencyOneTime {
		return amount
	}
	return amount.Mul(f.Frequency.TimesPerYear())
}

// IsActive reports whether pos falls inside the timeframe. Both ends are inclusive.
func IsActive(tf domain.Timeframe, pos TimelinePosition) bool {
	return startReached(tf.Start, pos) && endNotPassed(tf.End, pos)
}

func startReached(tp domain.TimePoint, pos TimelinePosition) bool {
	switch tp.Type {
	case domain.TimePointNow, "":
		return true
	case domain.TimePointCustomAge:
		return tp.Age != nil && pos.Age >= *tp.Age
	case domain.TimePointCustomDate:
		d, ok := timePointDate(tp)
		return ok && !pos.Date.Before(d)
	case domain.TimePointAtRetirement:
		return pos.Phase == domain.PhaseRetirement
	}
	return false
}

func endNotPassed(tp *domain.TimePoint, pos TimelinePosition) bool {
	if tp == nil {
		return true
	}
	switch tp.Type {
	case domain.TimePointCustomAge:
		return tp.Age != nil && pos.Age <= *tp.Age
	case domain.TimePointCustomDate:
		d, ok := timePointDate(*tp)
		return ok && !pos.Date.After(d)
	case domain.TimePointAtRetirement:
		return pos.Phase != domain.PhaseRetirement
	case domain.TimePointNow:
		return false
	}
	return true
}

func timePointDate(tp domain.TimePoint) (time.Time, bool) {
	if tp.Year == nil {
		return time.Time{}, false
	}
	month := 1
	if tp.Month != nil {
		month = *tp.Month
	}
	return time.Date(*tp.Year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}

// Sum totals a list of amounts
func Sum(amounts []CashFlowAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Amount)
	}
	return total
}
