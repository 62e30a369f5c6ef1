package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/fire-calculator/internal/calculation"
	"github.com/rpgo/fire-calculator/internal/domain"
	"github.com/rpgo/fire-calculator/internal/log"
	"github.com/rpgo/fire-calculator/internal/output"
)

var batchDescriptions = map[domain.SimulationMode]string{
	domain.ModeMonteCarlo: "Run a Monte Carlo batch with normally distributed yearly returns",
	domain.ModeHistorical: "Backtest against market history from seeded random start years",
}

// batchCmd builds montecarlo and backtest, which differ only in the mode they force
func (a *app) batchCmd(use string, mode domain.SimulationMode) *cobra.Command {
	var (
		rf          reportFlags
		seed        uint32
		simulations int
		workers     int
	)
	cmd := &cobra.Command{
		Use:   use + " PLAN_FILE",
		Short: batchDescriptions[mode],
		Long: batchDescriptions[mode] + `.
Run i uses seed base+i*1009, so a batch is reproducible from its base seed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.loadPlan(args[0])
			if err != nil {
				return err
			}
			plan.Simulation.Mode = mode
			// every backtest run picks its own start year
			plan.Simulation.HistoricalStartYear = nil
			if cmd.Flags().Changed("simulations") {
				plan.Simulation.NumSimulations = simulations
			}
			if err := a.parser.ValidatePlan(plan); err != nil {
				return fmt.Errorf("plan validation failed: %w", err)
			}

			engine, err := calculation.NewMultiSimulationEngine(plan, a.parser.Dataset)
			if err != nil {
				return err
			}
			switch {
			case workers > 0:
				engine.Workers = workers
			case a.settings.Workers > 0:
				engine.Workers = a.settings.Workers
			}
			engine.SetLogger(a.logger.WithComponent(log.ComponentMultiSim))

			base := calculation.ResolveSeed(plan, seedFlag(cmd, seed))
			batch, err := engine.Run(cmd.Context(), base, plan.Simulation.NumSimulations)
			if err != nil {
				return fmt.Errorf("%s failed: %w", use, err)
			}
			report, err := output.NewBatchReport(plan, batch, rf.sortBy, rf.descending)
			if err != nil {
				return err
			}
			a.logger.Info("batch finished",
				log.FieldBatchID, batch.BatchID.String(),
				log.FieldMode, string(mode),
				log.FieldSeed, base,
				log.FieldSimulations, batch.Len(),
				log.FieldSuccessRate, report.Analysis.SuccessRate.StringFixed(2),
			)
			return a.emit(cmd, report, rf)
		},
	}
	cmd.Flags().Uint32Var(&seed, "seed", 0, "Base seed (default: plan seed, else random)")
	cmd.Flags().IntVarP(&simulations, "simulations", "n", 0, "Number of runs (default: plan num_simulations, else FIRE_SIMULATIONS)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent runs (default: FIRE_WORKERS, else one per CPU less one)")
	rf.register(cmd, true)
	return cmd
}
