package output

import (
	"bytes"
	"fmt"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	km := r.KeyMetrics
	v := AnalyzeOutcome(r)

	fmt.Fprintln(&buf, "FIRE SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "%s (%s)\n", r.PlanName, r.Mode)
	fmt.Fprintf(&buf, "%s: %s\n", v.Outlook, v.Headline)
	fmt.Fprintf(&buf, "RetirementAge=%s YearsToRetirement=%s BankruptcyAge=%s\n",
		formatAge(km.RetirementAge), formatAge(km.YearsToRetirement), formatAge(km.BankruptcyAge))
	fmt.Fprintf(&buf, "FinalPortfolio=%s LifetimeTaxes=%s\n",
		FormatCurrencyWhole(km.FinalPortfolio), FormatCurrencyWhole(km.LifetimeTaxes))
	if r.IsBatch() && r.Analysis != nil && !r.Analysis.NoData {
		p := r.Analysis.FinalPortfolio.Percentiles
		fmt.Fprintf(&buf, "Runs=%d Success=%s Final P10=%s P50=%s P90=%s\n",
			r.Analysis.Runs, FormatPercentage(r.Analysis.SuccessRate),
			FormatCurrencyWhole(p.P10), FormatCurrencyWhole(p.P50), FormatCurrencyWhole(p.P90))
	}
	return buf.Bytes(), nil
}
