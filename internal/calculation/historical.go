package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// Series names accepted by Statistics
const (
	SeriesStocks    = "stocks"
	SeriesBonds     = "bonds"
	SeriesCash      = "cash"
	SeriesInflation = "inflation"
)

type historyRow struct {
	year                           int
	stocks, bonds, cash, inflation float64
}

// HistoricalYear is one dataset year. All values are nominal annual fractions.
type HistoricalYear struct {
	Year      int             `json:"year"`
	Stocks    decimal.Decimal `json:"stocks"`
	Bonds     decimal.Decimal `json:"bonds"`
	Cash      decimal.Decimal `json:"cash"`
	Inflation decimal.Decimal `json:"inflation"`
}

// Returns returns the nominal asset class returns of the year
func (y HistoricalYear) Returns() domain.AssetValues {
	return domain.AssetValues{Stocks: y.Stocks, Bonds: y.Bonds, Cash: y.Cash}
}

// HistoricalStatistics provides statistical summary of one series
type HistoricalStatistics struct {
	Mean         decimal.Decimal `json:"mean"`
	Median       decimal.Decimal `json:"median"`
	StdDev       decimal.Decimal `json:"std_dev"`
	Min          decimal.Decimal `json:"min"`
	Max          decimal.Decimal `json:"max"`
	Count        int             `json:"count"`
	MissingYears []int           `json:"missing_years"`
}

// HistoricalDataset is an immutable table of annual market data. It is safe for concurrent use.
type HistoricalDataset struct {
	Name    string
	Version string
	years   []HistoricalYear // sorted by year
	index   map[int]int
}

var (
	defaultDatasetOnce sync.Once
	defaultDataset     *HistoricalDataset
)

// DefaultHistoricalDataset returns the built-in 1928-2024 table
func DefaultHistoricalDataset() *HistoricalDataset {
	defaultDatasetOnce.Do(func() {
		years := make([]HistoricalYear, 0, len(builtinHistory))
		for _, r := range builtinHistory {
			years = append(years, HistoricalYear{
				Year:      r.year,
				Stocks:    percent(r.stocks),
				Bonds:     percent(r.bonds),
				Cash:      percent(r.cash),
				Inflation: percent(r.inflation),
			})
		}
		defaultDataset = newHistoricalDataset("builtin", HistoricalDatasetVersion, years)
	})
	return defaultDataset
}

func percent(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Div(decimal.NewFromInt(100))
}

func newHistoricalDataset(name, version string, years []HistoricalYear) *HistoricalDataset {
	sort.SliceStable(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	index := make(map[int]int, len(years))
	for i, y := range years {
		index[y.Year] = i
	}
	return &HistoricalDataset{Name: name, Version: version, years: years, index: index}
}

// Range returns the first and last year of the dataset
func (h *HistoricalDataset) Range() (first, last int) {
	if len(h.years) == 0 {
		return 0, 0
	}
	return h.years[0].Year, h.years[len(h.years)-1].Year
}

// Len returns the number of years spanned by the dataset
func (h *HistoricalDataset) Len() int {
	first, last := h.Range()
	if len(h.years) == 0 {
		return 0
	}
	return last - first + 1
}

// Contains reports whether year is inside the dataset range
func (h *HistoricalDataset) Contains(year int) bool {
	first, last := h.Range()
	return len(h.years) > 0 && year >= first && year <= last
}

// Year returns the data for a single year
func (h *HistoricalDataset) Year(year int) (HistoricalYear, error) {
	i, ok := h.index[year]
	if !ok {
		first, last := h.Range()
		return HistoricalYear{}, fmt.Errorf("%w: year %d not in dataset %d-%d", domain.ErrDataRange, year, first, last)
	}
	return h.years[i], nil
}

// Years returns a copy of every dataset year in order
func (h *HistoricalDataset) Years() []HistoricalYear {
	out := make([]HistoricalYear, len(h.years))
	copy(out, h.years)
	return out
}

func (h *HistoricalDataset) series(name string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(h.years))
	for _, y := range h.years {
		switch name {
		case SeriesStocks:
			out = append(out, y.Stocks)
		case SeriesBonds:
			out = append(out, y.Bonds)
		case SeriesCash:
			out = append(out, y.Cash)
		case SeriesInflation:
			out = append(out, y.Inflation)
		default:
			return nil, fmt.Errorf("unknown series: %s", name)
		}
	}
	return out, nil
}

// Statistics summarizes one series: stocks, bonds, cash or inflation
func (h *HistoricalDataset) Statistics(name string) (HistoricalStatistics, error) {
	values, err := h.series(name)
	if err != nil {
		return HistoricalStatistics{}, err
	}
	if len(values) == 0 {
		return HistoricalStatistics{}, nil
	}

	var sum decimal.Decimal
	min, max := values[0], values[0]
	for _, v := range values {
		sum = sum.Add(v)
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}
	n := decimal.NewFromInt(int64(len(values)))
	mean := sum.Div(n)

	var varianceSum decimal.Decimal
	for _, v := range values {
		diff := v.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance, _ := varianceSum.Div(n).Float64()

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		median = sorted[len(sorted)/2-1].Add(sorted[len(sorted)/2]).Div(decimal.NewFromInt(2))
	}

	return HistoricalStatistics{
		Mean:         mean,
		Median:       median,
		StdDev:       decimal.NewFromFloat(math.Sqrt(variance)),
		Min:          min,
		Max:          max,
		Count:        len(values),
		MissingYears: h.missingYears(),
	}, nil
}

func (h *HistoricalDataset) missingYears() []int {
	var missing []int
	first, last := h.Range()
	for y := first; len(h.years) > 0 && y <= last; y++ {
		if _, ok := h.index[y]; !ok {
			missing = append(missing, y)
		}
	}
	return missing
}

// ValidateDataQuality reports gaps and implausible values. An empty dataset is an error.
func (h *HistoricalDataset) ValidateDataQuality() ([]string, error) {
	if len(h.years) == 0 {
		return nil, errors.New("historical dataset is empty")
	}

	var issues []string
	if missing := h.missingYears(); len(missing) > 0 {
		issues = append(issues, fmt.Sprintf("Missing years: %v", missing))
	}

	limit := decimal.NewFromInt(1)
	floor := decimal.NewFromFloat(-0.5)
	for _, y := range h.years {
		if y.Stocks.GreaterThan(limit) {
			issues = append(issues, fmt.Sprintf("Extreme positive stock return for year %d: %s", y.Year, y.Stocks))
		}
		if y.Stocks.LessThan(floor) {
			issues = append(issues, fmt.Sprintf("Extreme negative stock return for year %d: %s", y.Year, y.Stocks))
		}
		if y.Cash.IsNegative() {
			issues = append(issues, fmt.Sprintf("Negative cash return for year %d: %s", y.Year, y.Cash))
		}
		if y.Inflation.Abs().GreaterThan(decimal.NewFromFloat(0.25)) {
			issues = append(issues, fmt.Sprintf("Extreme inflation for year %d: %s", y.Year, y.Inflation))
		}
	}
	return issues, nil
}

// LoadHistoricalCSVFile loads a custom dataset from a CSV file
func LoadHistoricalCSVFile(path string) (*HistoricalDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	return LoadHistoricalCSV(file, path)
}

// LoadHistoricalCSV reads rows of year,stocks,bonds,cash,inflation with values in percent.
// The header row is required; rows whose year does not parse are skipped.
func LoadHistoricalCSV(r io.Reader, name string) (*HistoricalDataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := csvColumns(header)
	if err != nil {
		return nil, err
	}

	var years []HistoricalYear
	seen := make(map[int]bool)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[cols[0]]))
		if err != nil {
			continue
		}
		if seen[year] {
			return nil, fmt.Errorf("duplicate year %d in %s", year, name)
		}
		seen[year] = true

		values := make([]decimal.Decimal, 4)
		for i := range values {
			v, err := decimal.NewFromString(strings.TrimSpace(record[cols[i+1]]))
			if err != nil {
				return nil, fmt.Errorf("invalid %s value for year %d: %w", header[cols[i+1]], year, err)
			}
			values[i] = v.Div(decimal.NewFromInt(100))
		}
		years = append(years, HistoricalYear{
			Year:      year,
			Stocks:    values[0],
			Bonds:     values[1],
			Cash:      values[2],
			Inflation: values[3],
		})
	}

	if len(years) == 0 {
		return nil, fmt.Errorf("no valid data points found in %s", name)
	}
	return newHistoricalDataset(name, "custom", years), nil
}

// csvColumns maps year, stocks, bonds, cash, inflation to their header positions
func csvColumns(header []string) ([]int, error) {
	want := []string{"year", SeriesStocks, SeriesBonds, SeriesCash, SeriesInflation}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make([]int, len(want))
	for i, w := range want {
		p, ok := pos[w]
		if !ok {
			return nil, fmt.Errorf("invalid CSV format: missing column %q", w)
		}
		cols[i] = p
	}
	return cols, nil
}
