package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// ConsoleVerboseFormatter renders the full text report: assumptions, key metrics and the
// yearly table for a single run, or the distribution and yearly percentiles for a batch.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	rule := strings.Repeat("=", 81)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "FIRE SIMULATION REPORT: %s\n", r.PlanName)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Mode: %s", r.Mode)
	if r.IsBatch() {
		fmt.Fprintf(&buf, "  Runs: %d  Batch: %s", r.Batch.Len(), r.BatchID)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	assumptions := r.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	writeKeyMetrics(&buf, r)

	if r.IsBatch() {
		writeBatchAnalysis(&buf, r)
	} else {
		writeYearlyTable(&buf, r.Years)
	}
	return buf.Bytes(), nil
}

func writeKeyMetrics(w io.Writer, r *Report) {
	km := r.KeyMetrics
	v := AnalyzeOutcome(r)

	fmt.Fprintln(w, "KEY METRICS")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Outlook:                 %s\n", v.Outlook)
	fmt.Fprintf(w, "Success:                 %s\n", FormatPercentage(v.SuccessRate))
	fmt.Fprintf(w, "Start age:               %.1f\n", km.StartAge)
	fmt.Fprintf(w, "Retirement age:          %s\n", formatAge(km.RetirementAge))
	fmt.Fprintf(w, "Years to retirement:     %s\n", formatAge(km.YearsToRetirement))
	if km.PortfolioAtRetirement != nil {
		fmt.Fprintf(w, "Portfolio at retirement: %s\n", FormatCurrencyWhole(*km.PortfolioAtRetirement))
	}
	if km.ProgressToRetirement != nil {
		fmt.Fprintf(w, "Progress to retirement:  %s\n", FormatPercentage(km.ProgressToRetirement.Mul(decimalHundred)))
	}
	fmt.Fprintf(w, "Bankruptcy age:          %s\n", formatAge(km.BankruptcyAge))
	fmt.Fprintf(w, "Final portfolio:         %s\n", FormatCurrencyWhole(km.FinalPortfolio))
	fmt.Fprintf(w, "Lifetime taxes:          %s\n", FormatCurrencyWhole(km.LifetimeTaxes))
	if km.LifetimePenalties.IsPositive() {
		fmt.Fprintf(w, "Early withdrawal fees:   %s\n", FormatCurrencyWhole(km.LifetimePenalties))
	}
	fmt.Fprintln(w)
}

func writeYearlyTable(w io.Writer, rows []domain.SimulationTableRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(w, "YEAR BY YEAR (today's dollars)")
	fmt.Fprintln(w, strings.Repeat("-", 81))
	fmt.Fprintf(w, "%4s %6s %-12s %14s %12s %12s %10s %9s\n",
		"Year", "Age", "Phase", "Portfolio", "Income", "Expenses", "Taxes", "Stocks")
	for _, row := range rows {
		fmt.Fprintf(w, "%4d %6.1f %-12s %14s %12s %12s %10s %9s\n",
			row.Year, row.Age, row.Phase,
			FormatCurrencyWhole(row.PortfolioValue),
			FormatCurrencyWhole(row.Income),
			FormatCurrencyWhole(row.Expenses),
			FormatCurrencyWhole(row.Taxes),
			optionalPercent(row.StocksReturn),
		)
	}
	fmt.Fprintln(w)
}

func writeBatchAnalysis(w io.Writer, r *Report) {
	a := r.Analysis
	if a == nil || a.NoData {
		fmt.Fprintln(w, "No simulation runs to analyze.")
		return
	}
	fmt.Fprintln(w, "BATCH ANALYSIS")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Runs:            %d (%d successful)\n", a.Runs, a.SuccessfulRuns)
	fmt.Fprintf(w, "Success rate:    %s\n", FormatPercentage(a.SuccessRate))
	fmt.Fprintf(w, "Bankruptcy rate: %s\n", FormatPercentage(a.BankruptcyRate))
	fmt.Fprintln(w)

	writeDistribution(w, "Final portfolio", a.FinalPortfolio, true)
	writeDistribution(w, "FIRE age", a.FireAge, false)
	writeDistribution(w, "Years to FIRE", a.YearsToFire, false)
	writeDistribution(w, "Bankruptcy age", a.BankruptcyAge, false)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Mean realized returns: stocks %s, bonds %s, cash %s, inflation %s\n",
		FormatPercentage(a.MeanReturns.Stocks), FormatPercentage(a.MeanReturns.Bonds),
		FormatPercentage(a.MeanReturns.Cash), FormatPercentage(a.MeanReturns.Inflation))
	fmt.Fprintln(w)

	if len(r.Aggregates) > 0 {
		fmt.Fprintln(w, "PORTFOLIO PERCENTILES BY YEAR")
		fmt.Fprintln(w, strings.Repeat("-", 81))
		fmt.Fprintf(w, "%4s %6s %12s %12s %12s %7s %7s %7s\n", "Year", "Age", "P10", "P50", "P90", "%Acc", "%Ret", "%Bank")
		for _, row := range r.Aggregates {
			fmt.Fprintf(w, "%4d %6.1f %12s %12s %12s %7s %7s %7s\n",
				row.Year, row.Age,
				FormatCurrencyWhole(row.P10Portfolio),
				FormatCurrencyWhole(row.P50Portfolio),
				FormatCurrencyWhole(row.P90Portfolio),
				row.PercentAccumulation.StringFixed(1),
				row.PercentRetirement.StringFixed(1),
				row.PercentBankrupt.StringFixed(1),
			)
		}
		fmt.Fprintln(w)
	}
}

func writeDistribution(w io.Writer, label string, d domain.Distribution, money bool) {
	if d.NoData {
		fmt.Fprintf(w, "%-16s no data\n", label+":")
		return
	}
	p := d.Percentiles
	if money {
		fmt.Fprintf(w, "%-16s P10 %s  P50 %s  P90 %s\n", label+":",
			FormatCurrencyWhole(p.P10), FormatCurrencyWhole(p.P50), FormatCurrencyWhole(p.P90))
		return
	}
	fmt.Fprintf(w, "%-16s P10 %s  P50 %s  P90 %s  (n=%d)\n", label+":",
		p.P10.StringFixed(1), p.P50.StringFixed(1), p.P90.StringFixed(1), d.Count)
}
