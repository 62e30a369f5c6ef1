package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVDetailedExporter writes every recorded period of a single run, one row per account
// per period. Batches have no per-period data to export.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(r *Report) ([]byte, error) {
	if r.Result == nil {
		return nil, fmt.Errorf("detailed-csv needs a single run")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Period", "Date", "Age", "Phase", "TotalValue", "Income", "PassiveIncome", "Expenses", "Taxes",
		"Penalties", "Contributions", "EmployerMatch", "Withdrawals", "Shortfall", "Account", "AccountType", "Balance",
		"Stocks", "Bonds", "Cash"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range r.Result.Data {
		cf := s.CashFlow
		base := []string{
			intToString(s.Period),
			s.Date.Format("2006-01-02"),
			strconv.FormatFloat(s.Age, 'f', 4, 64),
			string(s.Phase),
			s.TotalValue.StringFixed(2),
			cf.Income.StringFixed(2),
			cf.PassiveIncome.StringFixed(2),
			cf.Expenses.StringFixed(2),
			cf.Taxes.StringFixed(2),
			cf.Penalties.StringFixed(2),
			cf.Contributions.StringFixed(2),
			cf.EmployerMatch.StringFixed(2),
			cf.Withdrawals.StringFixed(2),
			cf.Shortfall.StringFixed(2),
		}
		if len(s.Accounts) == 0 {
			row := append(append([]string(nil), base...), "", "", "", "", "", "")
			if err := w.Write(row); err != nil {
				return nil, err
			}
			continue
		}
		for _, a := range s.Accounts {
			row := append(append([]string(nil), base...),
				a.ID,
				string(a.Type),
				a.Balance.StringFixed(2),
				a.Holdings.Stocks.StringFixed(2),
				a.Holdings.Bonds.StringFixed(2),
				a.Holdings.Cash.StringFixed(2),
			)
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
