package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVSummarizer writes the yearly table: one row per simulation year for a single run,
// or one row of cross-run percentiles per year for a batch.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(r *Report) ([]byte, error) {
	if r.IsBatch() {
		return c.formatAggregates(r)
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "Age", "Phase", "PortfolioValue", "StocksValue", "StocksReturn", "BondsValue", "BondsReturn",
		"CashValue", "CashReturn", "InflationRate", "Income", "Expenses", "Taxes", "Contributions", "Withdrawals", "HistoricalYear"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, y := range r.Years {
		historical := ""
		if y.HistoricalYear != nil {
			historical = intToString(*y.HistoricalYear)
		}
		row := []string{
			intToString(y.Year),
			strconv.FormatFloat(y.Age, 'f', 2, 64),
			string(y.Phase),
			y.PortfolioValue.StringFixed(2),
			y.StocksValue.StringFixed(2),
			optionalCell(y.StocksReturn, 4),
			y.BondsValue.StringFixed(2),
			optionalCell(y.BondsReturn, 4),
			y.CashValue.StringFixed(2),
			optionalCell(y.CashReturn, 4),
			optionalCell(y.InflationRate, 4),
			y.Income.StringFixed(2),
			y.Expenses.StringFixed(2),
			y.Taxes.StringFixed(2),
			y.Contributions.StringFixed(2),
			y.Withdrawals.StringFixed(2),
			historical,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (c CSVSummarizer) formatAggregates(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "Age", "PercentAccumulation", "PercentRetirement", "PercentBankrupt",
		"P10Portfolio", "P25Portfolio", "P50Portfolio", "P75Portfolio", "P90Portfolio", "MinPortfolio", "MaxPortfolio"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, y := range r.Aggregates {
		row := []string{
			intToString(y.Year),
			strconv.FormatFloat(y.Age, 'f', 2, 64),
			y.PercentAccumulation.StringFixed(2),
			y.PercentRetirement.StringFixed(2),
			y.PercentBankrupt.StringFixed(2),
			y.P10Portfolio.StringFixed(2),
			y.P25Portfolio.StringFixed(2),
			y.P50Portfolio.StringFixed(2),
			y.P75Portfolio.StringFixed(2),
			y.P90Portfolio.StringFixed(2),
			optionalCell(y.MinPortfolio, 2),
			optionalCell(y.MaxPortfolio, 2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
