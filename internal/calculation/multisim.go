package calculation

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rpgo/fire-calculator/internal/domain"
	"github.com/rpgo/fire-calculator/internal/metrics"
)

// DefaultWorkers returns max(1, NumCPU-1)
func DefaultWorkers() int {
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

// MultiSimulationEngine runs a plan many times with derived seeds on a bounded worker pool
type MultiSimulationEngine struct {
	Plan       *domain.PlanInputs
	Dataset    *HistoricalDataset
	Workers    int
	Resolution domain.Resolution
	Logger     Logger
	Metrics    *metrics.Collector
}

// NewMultiSimulationEngine validates the plan once for the whole batch
func NewMultiSimulationEngine(plan *domain.PlanInputs, dataset *HistoricalDataset) (*MultiSimulationEngine, error) {
	if err := ValidateForRun(plan); err != nil {
		return nil, err
	}
	if plan.Simulation.Mode == domain.ModeHistorical {
		if dataset == nil {
			dataset = DefaultHistoricalDataset()
		}
		if y := plan.Simulation.HistoricalStartYear; y != nil && !dataset.Contains(*y) {
			first, last := dataset.Range()
			return nil, fmt.Errorf("%w: start year %d outside %d-%d", domain.ErrDataRange, *y, first, last)
		}
	}
	return &MultiSimulationEngine{
		Plan:       plan,
		Dataset:    dataset,
		Workers:    DefaultWorkers(),
		Resolution: domain.ResolutionYearly,
		Logger:     NopLogger{},
	}, nil
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (m *MultiSimulationEngine) SetLogger(l Logger) {
	if l == nil {
		m.Logger = NopLogger{}
		return
	}
	m.Logger = l
}

// Run executes n runs seeded baseSeed + i*1009. Each run owns its state and provider.
// Cancelling ctx drops pending and in-flight runs and Run returns ctx.Err().
func (m *MultiSimulationEngine) Run(ctx context.Context, baseSeed uint32, n int) (*domain.MultiSimulationResult, error) {
	started := time.Now()
	mode := string(m.Plan.Simulation.Mode)

	if n < 0 {
		n = 0
	}
	seeds := make([]uint32, n)
	results := make([]*domain.SimulationResult, n)
	for i := range seeds {
		seeds[i] = DeriveSeed(baseSeed, i)
	}

	workers := m.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	m.Logger.Infof("batch start: mode=%s runs=%d workers=%d base_seed=%d", mode, n, workers, baseSeed)
	for i := range seeds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := m.runOne(gctx, seeds[i])
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, seeds[i], err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			m.Logger.Warnf("batch cancelled: %v", ctxErr)
			return nil, ctxErr
		}
		return nil, err
	}

	out := &domain.MultiSimulationResult{
		BatchID:     uuid.New(),
		BaseSeed:    baseSeed,
		Mode:        m.Plan.Simulation.Mode,
		Seeds:       seeds,
		Results:     make(map[uint32]*domain.SimulationResult, n),
		GeneratedAt: nowFunc(),
	}
	for i, s := range seeds {
		out.Results[s] = results[i]
	}

	m.Metrics.ObserveBatch(mode, n, time.Since(started))
	m.Logger.Infof("batch done: id=%s runs=%d elapsed=%s", out.BatchID, n, time.Since(started))
	return out, nil
}

func (m *MultiSimulationEngine) runOne(ctx context.Context, seed uint32) (*domain.SimulationResult, error) {
	mode := string(m.Plan.Simulation.Mode)
	started := time.Now()
	m.Metrics.RunStarted()

	eng, err := NewSimulationEngineForPlan(m.Plan, seed, m.Dataset)
	if err != nil {
		m.Metrics.ObserveRun(mode, metrics.OutcomeError, time.Since(started))
		return nil, err
	}
	eng.Resolution = m.Resolution
	eng.SetLogger(m.Logger)

	res, err := eng.Run(ctx)
	if err != nil {
		m.Metrics.ObserveRun(mode, metrics.OutcomeError, time.Since(started))
		return nil, err
	}
	m.Metrics.ObserveRun(mode, RunOutcome(res), time.Since(started))
	return res, nil
}

// RunOutcome classifies a finished run with the metrics outcome labels
func RunOutcome(r *domain.SimulationResult) string {
	switch {
	case r.BankruptcyAge != nil:
		return metrics.OutcomeBankrupt
	case r.Success:
		return metrics.OutcomeSuccess
	}
	return metrics.OutcomeFailure
}
