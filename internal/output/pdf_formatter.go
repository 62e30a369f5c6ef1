package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDFFormatter renders a printable A4 report: summary page, then the yearly table
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(r *Report) ([]byte, error) {
	doc := &pdfReport{pdf: fpdf.New("P", "mm", "A4", ""), report: r}
	doc.tr = doc.pdf.UnicodeTranslatorFromDescriptor("")
	doc.pdf.SetMargins(marginLeft, marginTop, marginRight)
	doc.pdf.SetAutoPageBreak(true, marginBottom)
	doc.pdf.SetCreationDate(r.GeneratedAt)
	doc.pdf.SetTitle(doc.tr(r.PlanName), false)
	doc.pdf.AliasNbPages("")
	doc.pdf.SetFooterFunc(doc.footer)

	doc.addSummaryPage()
	if r.IsBatch() {
		doc.addAggregateTable()
	} else {
		doc.addYearlyTable()
	}

	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pdfReport struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	report *Report
}

func (d *pdfReport) footer() {
	d.pdf.SetY(-15)
	d.pdf.SetFont("Arial", "I", 8)
	d.pdf.SetTextColor(120, 120, 120)
	d.pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", d.pdf.PageNo()), "", 0, "C", false, 0, "")
}

func (d *pdfReport) sectionHeader(title string) {
	d.pdf.SetFont("Arial", "B", 14)
	d.pdf.SetTextColor(0, 51, 102)
	d.pdf.CellFormat(contentWidth, 10, d.tr(title), "B", 1, "L", false, 0, "")
	d.pdf.Ln(3)
}

func (d *pdfReport) keyValue(key, value string) {
	d.pdf.SetFont("Arial", "", 10)
	d.pdf.SetTextColor(50, 50, 50)
	d.pdf.CellFormat(70, 6, d.tr(key), "", 0, "L", false, 0, "")
	d.pdf.SetFont("Arial", "B", 10)
	d.pdf.CellFormat(contentWidth-70, 6, d.tr(value), "", 1, "L", false, 0, "")
}

func (d *pdfReport) addSummaryPage() {
	r := d.report
	km := r.KeyMetrics
	v := AnalyzeOutcome(r)

	d.pdf.AddPage()
	d.pdf.SetFont("Arial", "B", 22)
	d.pdf.SetTextColor(0, 51, 102)
	d.pdf.CellFormat(contentWidth, 12, d.tr(r.PlanName), "", 1, "C", false, 0, "")
	d.pdf.SetFont("Arial", "I", 10)
	d.pdf.SetTextColor(80, 80, 80)
	d.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("%s simulation, generated %s", r.Mode, r.GeneratedAt.Format("2 January 2006")), "", 1, "C", false, 0, "")
	d.pdf.Ln(8)

	d.sectionHeader("Key metrics")
	d.keyValue("Outlook", string(v.Outlook))
	d.keyValue("Success", FormatPercentage(v.SuccessRate))
	d.keyValue("Retirement age", formatAge(km.RetirementAge))
	d.keyValue("Years to retirement", formatAge(km.YearsToRetirement))
	if km.PortfolioAtRetirement != nil {
		d.keyValue("Portfolio at retirement", FormatCurrencyWhole(*km.PortfolioAtRetirement))
	}
	d.keyValue("Bankruptcy age", formatAge(km.BankruptcyAge))
	d.keyValue("Final portfolio", FormatCurrencyWhole(km.FinalPortfolio))
	d.keyValue("Lifetime taxes", FormatCurrencyWhole(km.LifetimeTaxes))
	if r.IsBatch() && r.Analysis != nil && !r.Analysis.NoData {
		a := r.Analysis
		d.keyValue("Runs", fmt.Sprintf("%d (%d successful)", a.Runs, a.SuccessfulRuns))
		d.keyValue("Bankruptcy rate", FormatPercentage(a.BankruptcyRate))
		if !a.FinalPortfolio.NoData {
			pct := a.FinalPortfolio.Percentiles
			d.keyValue("Final portfolio P10 / P50 / P90", fmt.Sprintf("%s / %s / %s",
				FormatCurrencyWhole(pct.P10), FormatCurrencyWhole(pct.P50), FormatCurrencyWhole(pct.P90)))
		}
	}
	d.pdf.Ln(6)

	d.sectionHeader("Assumptions")
	d.pdf.SetFont("Arial", "", 9)
	d.pdf.SetTextColor(50, 50, 50)
	for _, a := range r.Assumptions {
		d.pdf.MultiCell(contentWidth, 5, d.tr("- "+a), "", "L", false)
	}

	d.pdf.Ln(8)
	d.pdf.SetFont("Arial", "I", 8)
	d.pdf.SetTextColor(120, 120, 120)
	d.pdf.MultiCell(contentWidth, 4,
		"This document is for informational purposes only and does not constitute financial advice. "+
			"Projections use simplified tax and market models.", "", "C", false)
}

func (d *pdfReport) tableHeader(cols []string, widths []float64) {
	d.pdf.SetFont("Arial", "B", 8)
	d.pdf.SetFillColor(0, 51, 102)
	d.pdf.SetTextColor(255, 255, 255)
	for i, c := range cols {
		d.pdf.CellFormat(widths[i], 6, c, "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont("Arial", "", 8)
	d.pdf.SetTextColor(50, 50, 50)
}

func (d *pdfReport) tableRow(cells []string, widths []float64, fill bool) {
	if fill {
		d.pdf.SetFillColor(245, 247, 250)
	}
	for i, c := range cells {
		align := "R"
		if i == 2 {
			align = "L"
		}
		d.pdf.CellFormat(widths[i], 5, c, "LR", 0, align, fill, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *pdfReport) addYearlyTable() {
	d.pdf.AddPage()
	d.sectionHeader("Year by year (today's dollars)")
	cols := []string{"Year", "Age", "Phase", "Portfolio", "Income", "Expenses", "Taxes", "Stocks"}
	widths := []float64{12, 14, 26, 30, 28, 28, 22, 20}
	d.tableHeader(cols, widths)
	for i, y := range d.report.Years {
		d.tableRow([]string{
			intToString(y.Year),
			fmt.Sprintf("%.1f", y.Age),
			string(y.Phase),
			FormatCurrencyWhole(y.PortfolioValue),
			FormatCurrencyWhole(y.Income),
			FormatCurrencyWhole(y.Expenses),
			FormatCurrencyWhole(y.Taxes),
			optionalPercent(y.StocksReturn),
		}, widths, i%2 == 1)
	}
}

func (d *pdfReport) addAggregateTable() {
	d.pdf.AddPage()
	d.sectionHeader("Portfolio percentiles by year")
	cols := []string{"Year", "Age", "% Retired", "P10", "P25", "P50", "P75", "P90"}
	widths := []float64{12, 14, 20, 27, 27, 27, 27, 26}
	d.tableHeader(cols, widths)
	for i, y := range d.report.Aggregates {
		d.tableRow([]string{
			intToString(y.Year),
			fmt.Sprintf("%.1f", y.Age),
			y.PercentRetirement.StringFixed(1),
			FormatCurrencyWhole(y.P10Portfolio),
			FormatCurrencyWhole(y.P25Portfolio),
			FormatCurrencyWhole(y.P50Portfolio),
			FormatCurrencyWhole(y.P75Portfolio),
			FormatCurrencyWhole(y.P90Portfolio),
		}, widths, i%2 == 1)
	}
}
