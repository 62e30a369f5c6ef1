package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpgo/fire-calculator/internal/calculation"
	"github.com/rpgo/fire-calculator/internal/domain"
)

// Report is everything a formatter may render. Single-run reports carry Result and
// Years; batch reports carry Batch, Analysis, Runs and Aggregates.
type Report struct {
	PlanName    string
	Mode        domain.SimulationMode
	GeneratedAt time.Time
	Assumptions []string
	KeyMetrics  domain.KeyMetrics

	Result *domain.SimulationResult
	Years  []domain.SimulationTableRow

	BatchID    uuid.UUID
	Batch      *domain.MultiSimulationResult
	Analysis   *domain.Analysis
	Runs       []domain.StochasticTableRow
	Aggregates []domain.YearlyAggregateTableRow
}

// IsBatch reports whether the report describes a multi-run batch
func (r *Report) IsBatch() bool { return r.Batch != nil }

// NewSingleRunReport builds a report for one engine run
func NewSingleRunReport(plan *domain.PlanInputs, res *domain.SimulationResult) *Report {
	return &Report{
		PlanName:    planName(plan),
		Mode:        res.Context.Mode,
		GeneratedAt: time.Now().UTC(),
		Assumptions: GenerateAssumptions(plan),
		KeyMetrics:  calculation.ExtractKeyMetrics(res),
		Result:      res,
		Years:       calculation.ExtractSimulationTable(res),
	}
}

// NewBatchReport builds a report for a batch. Runs are sorted by sortBy when it is set.
func NewBatchReport(plan *domain.PlanInputs, batch *domain.MultiSimulationResult, sortBy string, descending bool) (*Report, error) {
	analysis := calculation.Analyze(batch)
	runs := calculation.ExtractStochasticTable(batch)
	if sortBy != "" {
		if err := calculation.SortStochasticRows(runs, sortBy, descending); err != nil {
			return nil, err
		}
	}
	return &Report{
		PlanName:    planName(plan),
		Mode:        batch.Mode,
		GeneratedAt: batch.GeneratedAt,
		Assumptions: GenerateAssumptions(plan),
		KeyMetrics:  calculation.BatchKeyMetrics(batch),
		BatchID:     batch.BatchID,
		Batch:       batch,
		Analysis:    &analysis,
		Runs:        runs,
		Aggregates:  calculation.ExtractYearlyAggregateTable(analysis),
	}, nil
}

func planName(plan *domain.PlanInputs) string {
	if plan == nil || plan.Name == "" {
		return "FIRE plan"
	}
	return plan.Name
}

// extensions maps formatter names to output file extensions
var extensions = map[string]string{
	"console":        "txt",
	"console-lite":   "txt",
	"csv":            "csv",
	"detailed-csv":   "csv",
	"stochastic-csv": "csv",
	"json":           "json",
	"pdf":            "pdf",
}

// GenerateReport renders report in format and writes it under dir. Returns the file written.
func GenerateReport(report *Report, format, dir string) (string, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return "", fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	ext, ok := extensions[f.Name()]
	if !ok {
		ext = "txt"
	}
	return WriteFormatted(f, report, filepath.Join(dir, "fire_report"), ext)
}
