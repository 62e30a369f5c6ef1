package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/fire-calculator/internal/domain"
	"github.com/rpgo/fire-calculator/internal/output"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate PLAN_FILE",
		Short: "Check a plan file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.loadPlan(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			name := plan.Name
			if name == "" {
				name = args[0]
			}
			fmt.Fprintf(w, "Plan %s is valid\n", name)
			fmt.Fprintf(w, "  Ages:        %.1f to %.1f\n", plan.Timeline.CurrentAge, plan.Timeline.LifeExpectancy)
			fmt.Fprintf(w, "  Accounts:    %d (%s invested)\n", len(plan.Accounts), output.FormatCurrencyWhole(plan.TotalBalance()))
			fmt.Fprintf(w, "  Incomes:     %d, expenses: %d, rules: %d\n", len(plan.Incomes), len(plan.Expenses), len(plan.ContributionRules))
			fmt.Fprintf(w, "  Mode:        %s (%d runs)\n", plan.Simulation.Mode, plan.Simulation.NumSimulations)
			switch plan.Retirement.Strategy {
			case domain.StrategySWRTarget:
				fmt.Fprintf(w, "  Retirement:  when the portfolio reaches %s\n", output.FormatCurrencyWhole(plan.RequiredPortfolio()))
			case domain.StrategyFixedAge:
				fmt.Fprintf(w, "  Retirement:  at age %.1f\n", *plan.Retirement.RetirementAge)
			}
			return nil
		},
	}
}
