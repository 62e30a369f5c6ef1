package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// ExtractKeyMetrics summarizes one run
func ExtractKeyMetrics(r *domain.SimulationResult) domain.KeyMetrics {
	final := r.Final().TotalValue
	km := domain.KeyMetrics{
		Success:           decimal.Zero,
		StartAge:          r.Context.StartAge,
		BankruptcyAge:     r.BankruptcyAge,
		FinalPortfolio:    final,
		LifetimeTaxes:     r.LifetimeTaxes(),
		LifetimePenalties: r.LifetimePenalties(),
		Runs:              1,
	}

	var retirementAge *float64
	var atRetirement *decimal.Decimal
	retirementSnap, retired := r.FirstInPhase(domain.PhaseRetirement)
	if retired {
		v := retirementSnap.TotalValue
		atRetirement = &v
	}

	switch r.Context.Strategy {
	case domain.StrategyFixedAge:
		retirementAge = r.Context.RetirementAge
		if retirementAge != nil && *retirementAge > 0 {
			p := decimal.Min(decimal.NewFromFloat(r.Context.StartAge/(*retirementAge)), decimal.NewFromInt(1))
			km.ProgressToRetirement = &p
		}
	default:
		if retired {
			age := retirementSnap.Age
			retirementAge = &age
			if atRetirement.IsPositive() {
				p := decimal.Min(r.Context.InitialPortfolio.Div(*atRetirement), decimal.NewFromInt(1))
				km.ProgressToRetirement = &p
			}
		}
	}

	km.RetirementAge = retirementAge
	km.PortfolioAtRetirement = atRetirement
	if retirementAge != nil {
		years := *retirementAge - r.Context.StartAge
		km.YearsToRetirement = &years
	}
	if r.BankruptcyAge != nil {
		years := *r.BankruptcyAge - r.Context.StartAge
		km.YearsToBankruptcy = &years
	}
	if retirementAge != nil && final.GreaterThan(successThreshold) {
		km.Success = decimal.NewFromInt(1)
	}
	return km
}

// AggregateKeyMetrics averages per-run metrics. Success becomes the success rate and each
// optional field is the mean of its non-nil values, staying nil when no run has one.
func AggregateKeyMetrics(all []domain.KeyMetrics) domain.KeyMetrics {
	if len(all) == 0 {
		return domain.KeyMetrics{}
	}
	var (
		success, final, taxes, penalties, startAge decimal.Decimal
		retAge, yearsRet, bankAge, yearsBank       floatMean
		atRet, progress                            decimalMean
	)
	for _, k := range all {
		success = success.Add(k.Success)
		final = final.Add(k.FinalPortfolio)
		taxes = taxes.Add(k.LifetimeTaxes)
		penalties = penalties.Add(k.LifetimePenalties)
		startAge = startAge.Add(decimal.NewFromFloat(k.StartAge))
		retAge.add(k.RetirementAge)
		yearsRet.add(k.YearsToRetirement)
		bankAge.add(k.BankruptcyAge)
		yearsBank.add(k.YearsToBankruptcy)
		atRet.add(k.PortfolioAtRetirement)
		progress.add(k.ProgressToRetirement)
	}
	n := decimal.NewFromInt(int64(len(all)))
	return domain.KeyMetrics{
		Success:               success.Div(n),
		StartAge:              startAge.Div(n).InexactFloat64(),
		RetirementAge:         retAge.mean(),
		YearsToRetirement:     yearsRet.mean(),
		BankruptcyAge:         bankAge.mean(),
		YearsToBankruptcy:     yearsBank.mean(),
		PortfolioAtRetirement: atRet.mean(),
		FinalPortfolio:        final.Div(n),
		ProgressToRetirement:  progress.mean(),
		LifetimeTaxes:         taxes.Div(n),
		LifetimePenalties:     penalties.Div(n),
		Runs:                  len(all),
	}
}

// BatchKeyMetrics extracts and averages the key metrics of every run in a batch
func BatchKeyMetrics(m *domain.MultiSimulationResult) domain.KeyMetrics {
	runs := m.Ordered()
	all := make([]domain.KeyMetrics, 0, len(runs))
	for _, r := range runs {
		all = append(all, ExtractKeyMetrics(r))
	}
	return AggregateKeyMetrics(all)
}

type floatMean struct {
	sum float64
	n   int
}

func (m *floatMean) add(v *float64) {
	if v != nil {
		m.sum += *v
		m.n++
	}
}

func (m floatMean) mean() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}

type decimalMean struct {
	sum decimal.Decimal
	n   int64
}

func (m *decimalMean) add(v *decimal.Decimal) {
	if v != nil {
		m.sum = m.sum.Add(*v)
		m.n++
	}
}

func (m decimalMean) mean() *decimal.Decimal {
	if m.n == 0 {
		return nil
	}
	v := m.sum.Div(decimal.NewFromInt(m.n))
	return &v
}
