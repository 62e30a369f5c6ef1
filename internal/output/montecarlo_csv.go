package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// StochasticCSVFormatter writes one row per run of a batch, in the report's sort order
type StochasticCSVFormatter struct{}

func (s StochasticCSVFormatter) Name() string { return "stochastic-csv" }

func (s StochasticCSVFormatter) Format(r *Report) ([]byte, error) {
	if !r.IsBatch() {
		return nil, fmt.Errorf("stochastic-csv needs a batch of runs")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Seed",
		"Success",
		"FireAge",
		"BankruptcyAge",
		"FinalPhase",
		"FinalPortfolioValue",
		"AverageStocksReturn",
		"AverageBondsReturn",
		"AverageCashReturn",
		"AverageInflationRate",
		"HistoricalRanges",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range r.Runs {
		record := []string{
			fmt.Sprintf("%d", row.Seed),
			boolToString(row.Success),
			optionalFloatCell(row.FireAge),
			optionalFloatCell(row.BankruptcyAge),
			string(row.FinalPhase),
			row.FinalPortfolioValue.StringFixed(2),
			optionalCell(row.AverageStocksReturn, 4),
			optionalCell(row.AverageBondsReturn, 4),
			optionalCell(row.AverageCashReturn, 4),
			optionalCell(row.AverageInflationRate, 4),
			formatRanges(row.HistoricalRanges),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write data row: %w", err)
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// formatRanges renders backtest ranges as "1928-1950;1951-1960"
func formatRanges(ranges []domain.HistoricalRange) string {
	parts := make([]string, 0, len(ranges))
	for _, hr := range ranges {
		parts = append(parts, fmt.Sprintf("%d-%d", hr.StartYear, hr.EndYear))
	}
	return strings.Join(parts, ";")
}
