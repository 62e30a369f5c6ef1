package output

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-calculator/internal/calculation"
	"github.com/rpgo/fire-calculator/internal/domain"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func testPlan(mode domain.SimulationMode) *domain.PlanInputs {
	plan := domain.QuickPlan{
		CurrentAge:         30,
		AnnualIncome:       d(100000),
		AnnualExpenses:     d(60000),
		InvestedAssets:     d(100000),
		StockAllocation:    d(70),
		BondAllocation:     d(30),
		StockReturn:        d(10),
		BondReturn:         d(5),
		CashReturn:         d(3),
		InflationRate:      d(3),
		RetirementExpenses: d(40000),
		SafeWithdrawalRate: d(4),
		EffectiveTaxRate:   d(15),
	}.ToPlanInputs()
	plan.Name = "Test plan"
	plan.Timeline.StartDate = "2030-01-01"
	plan.Simulation.Mode = mode
	return &plan
}

func singleRunReport(t *testing.T) *Report {
	t.Helper()
	plan := testPlan(domain.ModeFixed)
	engine, err := calculation.NewSimulationEngineForPlan(plan, 1, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	res, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return NewSingleRunReport(plan, res)
}

func batchReport(t *testing.T, runs int) *Report {
	t.Helper()
	plan := testPlan(domain.ModeMonteCarlo)
	engine, err := calculation.NewMultiSimulationEngine(plan, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	engine.Workers = 2
	batch, err := engine.Run(context.Background(), 7, runs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	r, err := NewBatchReport(plan, batch, calculation.SortByFinalPortfolio, true)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	return r
}
