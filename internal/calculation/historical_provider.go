package calculation

import (
	"fmt"

	"github.com/rpgo/fire-calculator/internal/domain"
	rates "github.com/rpgo/fire-calculator/pkg/decimal"
)

// HistoricalReturnsProvider replays dataset years in order from a start year,
// looping back to the first dataset year after the last one.
type HistoricalReturnsProvider struct {
	dataset   *HistoricalDataset
	first     int
	span      int
	startYear int
	yields    domain.MarketAssumptions

	ranges  []domain.HistoricalRange
	lastSim int
}

// NewHistoricalReturnsProvider creates a backtest provider. When startYear is nil the
// start year is drawn from a generator seeded with seed.
func NewHistoricalReturnsProvider(dataset *HistoricalDataset, m domain.MarketAssumptions, seed uint32, startYear *int) (*HistoricalReturnsProvider, error) {
	if dataset == nil || dataset.Len() == 0 {
		return nil, fmt.Errorf("%w: historical dataset is empty", domain.ErrDataRange)
	}
	if missing := dataset.missingYears(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: historical dataset has gaps: %v", domain.ErrDataRange, missing)
	}

	first, last := dataset.Range()
	p := &HistoricalReturnsProvider{
		dataset: dataset,
		first:   first,
		span:    dataset.Len(),
		yields:  m,
	}

	if startYear != nil {
		if !dataset.Contains(*startYear) {
			return nil, fmt.Errorf("%w: start year %d outside %d-%d", domain.ErrDataRange, *startYear, first, last)
		}
		p.startYear = *startYear
	} else {
		rng := NewSeededRandom(seed)
		p.startYear = first + int(rng.Next()*float64(p.span))
	}
	return p, nil
}

// StartYear returns the dataset year used for simulation year 1
func (p *HistoricalReturnsProvider) StartYear() int { return p.startYear }

// HistoricalYearFor maps a 1-based simulation year onto the dataset
func (p *HistoricalReturnsProvider) HistoricalYearFor(simYear int) int {
	if simYear < 1 {
		simYear = 1
	}
	offset := (p.startYear - p.first + simYear - 1) % p.span
	return p.first + offset
}

// GetReturns returns the real returns of the mapped dataset year and records the range walked
func (p *HistoricalReturnsProvider) GetReturns(year int) domain.ReturnsWithMetadata {
	hy := p.HistoricalYearFor(year)
	p.track(year, hy)

	data, _ := p.dataset.Year(hy) // contiguous range checked at construction
	nominal := data.Returns()
	historicalYear := hy
	start := p.startYear

	return domain.ReturnsWithMetadata{
		Returns:       realReturns(nominal, data.Inflation),
		Yields:        yieldRates(p.yields, data.Cash),
		InflationRate: rates.ToPercent(data.Inflation),
		Extras: domain.ReturnsExtras{
			SimulationYear:    year,
			HistoricalYear:    &historicalYear,
			OriginalStartYear: &start,
			NominalReturns:    &nominal,
		},
	}
}

func (p *HistoricalReturnsProvider) track(simYear, hy int) {
	n := len(p.ranges)
	switch {
	case n > 0 && simYear == p.lastSim && p.ranges[n-1].EndYear == hy:
		// repeated query for the same year
	case n > 0 && p.ranges[n-1].EndYear+1 == hy:
		p.ranges[n-1].EndYear = hy
	default:
		p.ranges = append(p.ranges, domain.HistoricalRange{StartYear: hy, EndYear: hy})
	}
	p.lastSim = simYear
}

// HistoricalRanges returns a copy of the contiguous dataset ranges used so far
func (p *HistoricalReturnsProvider) HistoricalRanges() []domain.HistoricalRange {
	out := make([]domain.HistoricalRange, len(p.ranges))
	copy(out, p.ranges)
	return out
}
