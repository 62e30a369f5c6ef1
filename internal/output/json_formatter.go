package output

import (
	json "github.com/goccy/go-json"

	"github.com/rpgo/fire-calculator/internal/domain"
)

// JSONFormatter serializes the report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

// jsonReport is the wire shape; raw snapshots are left out in favour of the tables
type jsonReport struct {
	PlanName    string                           `json:"plan_name"`
	Mode        domain.SimulationMode            `json:"mode"`
	GeneratedAt string                           `json:"generated_at"`
	BatchID     string                           `json:"batch_id,omitempty"`
	Assumptions []string                         `json:"assumptions"`
	Outlook     Outlook                          `json:"outlook"`
	KeyMetrics  domain.KeyMetrics                `json:"key_metrics"`
	Years       []domain.SimulationTableRow      `json:"years,omitempty"`
	Analysis    *domain.Analysis                 `json:"analysis,omitempty"`
	Runs        []domain.StochasticTableRow      `json:"runs,omitempty"`
	Aggregates  []domain.YearlyAggregateTableRow `json:"yearly_aggregates,omitempty"`
}

func (j JSONFormatter) Format(r *Report) ([]byte, error) {
	out := jsonReport{
		PlanName:    r.PlanName,
		Mode:        r.Mode,
		GeneratedAt: r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Assumptions: r.Assumptions,
		Outlook:     AnalyzeOutcome(r).Outlook,
		KeyMetrics:  r.KeyMetrics,
		Years:       r.Years,
		Analysis:    r.Analysis,
		Runs:        r.Runs,
		Aggregates:  r.Aggregates,
	}
	if r.IsBatch() {
		out.BatchID = r.BatchID.String()
	}
	return json.MarshalIndent(out, "", "  ")
}
