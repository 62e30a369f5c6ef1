package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/fire-calculator/internal/calculation"
	"github.com/rpgo/fire-calculator/internal/domain"
	"github.com/rpgo/fire-calculator/internal/log"
	"github.com/rpgo/fire-calculator/internal/output"
)

func (a *app) simulateCmd() *cobra.Command {
	var (
		rf        reportFlags
		seed      uint32
		startYear int
	)
	cmd := &cobra.Command{
		Use:   "simulate PLAN_FILE",
		Short: "Run a plan once",
		Long: `Run a plan once in its configured mode and print the yearly report.
With --start-year the run replays market history from that year instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.loadPlan(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("start-year") {
				plan.Simulation.Mode = domain.ModeHistorical
				plan.Simulation.HistoricalStartYear = &startYear
				if err := a.parser.ValidatePlan(plan); err != nil {
					return fmt.Errorf("plan validation failed: %w", err)
				}
			}

			s := calculation.ResolveSeed(plan, seedFlag(cmd, seed))
			engine, err := calculation.NewSimulationEngineForPlan(plan, s, a.parser.Dataset)
			if err != nil {
				return err
			}
			engine.SetLogger(a.logger.WithComponent(log.ComponentEngine))

			res, err := engine.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}
			a.logger.Info("simulation finished",
				log.FieldMode, string(plan.Simulation.Mode),
				log.FieldSeed, s,
				"success", res.Success,
			)
			return a.emit(cmd, output.NewSingleRunReport(plan, res), rf)
		},
	}
	cmd.Flags().Uint32Var(&seed, "seed", 0, "Seed for monte_carlo and historical runs (default: plan seed, else random)")
	cmd.Flags().IntVar(&startYear, "start-year", 0, "Replay market history from this year")
	rf.register(cmd, false)
	return cmd
}
