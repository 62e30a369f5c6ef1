package output

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/domain"
)

func TestAnalyzeOutcomeSingleRun(t *testing.T) {
	age := 45.0
	r := &Report{KeyMetrics: domain.KeyMetrics{Success: decimal.NewFromInt(1), RetirementAge: &age}}

	v := AnalyzeOutcome(r)
	if v.Outlook != OutlookOnTrack {
		t.Fatalf("outlook = %q, want %q", v.Outlook, OutlookOnTrack)
	}
	if v.Headline != "Retire at 45.0, success 100.00%" {
		t.Fatalf("headline = %q", v.Headline)
	}

	r.KeyMetrics.Success = decimal.Zero
	if v := AnalyzeOutcome(r); v.Outlook != OutlookAtRisk {
		t.Fatalf("failed run graded %q, want %q", v.Outlook, OutlookAtRisk)
	}
}

func TestAnalyzeOutcomeNeverRetires(t *testing.T) {
	r := &Report{KeyMetrics: domain.KeyMetrics{Success: decimal.Zero}}
	v := AnalyzeOutcome(r)
	if v.Outlook != OutlookNotRetired {
		t.Fatalf("outlook = %q, want %q", v.Outlook, OutlookNotRetired)
	}
}

func TestAnalyzeOutcomeUsesBatchSuccessRate(t *testing.T) {
	age := 50.0
	cases := []struct {
		rate float64
		want Outlook
	}{
		{95, OutlookOnTrack},
		{90, OutlookOnTrack},
		{80, OutlookBorderline},
		{75, OutlookBorderline},
		{50, OutlookAtRisk},
	}
	for _, tc := range cases {
		r := &Report{
			KeyMetrics: domain.KeyMetrics{Success: decimal.Zero, RetirementAge: &age},
			Analysis:   &domain.Analysis{Runs: 100, SuccessRate: decimal.NewFromFloat(tc.rate)},
		}
		v := AnalyzeOutcome(r)
		if v.Outlook != tc.want {
			t.Errorf("rate %v: outlook = %q, want %q", tc.rate, v.Outlook, tc.want)
		}
		if !v.SuccessRate.Equal(decimal.NewFromFloat(tc.rate)) {
			t.Errorf("rate %v: success = %s", tc.rate, v.SuccessRate)
		}
	}
}
