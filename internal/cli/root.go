// Package cli implements the fire-calculator command line.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpgo/fire-calculator/internal/calculation"
	"github.com/rpgo/fire-calculator/internal/config"
	"github.com/rpgo/fire-calculator/internal/domain"
	"github.com/rpgo/fire-calculator/internal/log"
	"github.com/rpgo/fire-calculator/internal/output"
)

// app is the state shared by every command, filled in before a command runs
type app struct {
	envFiles []string
	logLevel string

	settings *config.Settings
	logger   *log.Logger
	parser   *config.InputParser
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "fire-calculator",
		Short: "Simulate financial independence and early retirement plans",
		Long: `fire-calculator projects a savings plan month by month until life expectancy.
Runs use fixed returns, seeded Monte Carlo draws or replayed market history, and
batches report success rates and portfolio percentiles.

Runtime settings come from FIRE_* environment variables, optionally loaded from a .env file.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "Environment files to load (default .env)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides FIRE_LOG_LEVEL)")

	root.AddCommand(
		a.simulateCmd(),
		a.batchCmd("montecarlo", domain.ModeMonteCarlo),
		a.batchCmd("backtest", domain.ModeHistorical),
		a.validateCmd(),
		a.exampleCmd(),
		a.serveCmd(),
	)
	return root
}

// Execute runs the command line until ctx is cancelled
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.settings = config.LoadSettings(a.envFiles...)
	if a.logLevel != "" {
		a.settings.LogLevel = a.logLevel
	}
	if err := a.settings.Validate(); err != nil {
		return err
	}

	a.logger = log.New(log.Config{
		Level:     log.ParseLevel(a.settings.LogLevel),
		Format:    a.settings.LogFormat,
		Component: log.ComponentApp,
		Output:    cmd.ErrOrStderr(),
	})
	log.SetDefault(a.logger)

	a.parser = config.NewInputParser()
	a.parser.DefaultSimulations = a.settings.Simulations
	if a.settings.HistoricalCSV != "" {
		ds, err := calculation.LoadHistoricalCSVFile(a.settings.HistoricalCSV)
		if err != nil {
			return fmt.Errorf("failed to load historical dataset: %w", err)
		}
		first, last := ds.Range()
		a.logger.WithComponent(log.ComponentHistorical).Info("historical dataset loaded",
			"path", a.settings.HistoricalCSV, "first_year", first, "last_year", last)
		a.parser.Dataset = ds
	}
	return nil
}

func (a *app) loadPlan(path string) (*domain.PlanInputs, error) {
	plan, err := a.parser.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	a.logger.WithComponent(log.ComponentConfig).Debug("plan loaded",
		log.FieldPlanFile, path, log.FieldMode, string(plan.Simulation.Mode))
	return plan, nil
}

// reportFlags are the output flags shared by the run commands
type reportFlags struct {
	format     string
	outputDir  string
	sortBy     string
	descending bool
}

func (rf *reportFlags) register(cmd *cobra.Command, batch bool) {
	cmd.Flags().StringVarP(&rf.format, "format", "f", "console",
		fmt.Sprintf("Output format: %s", strings.Join(output.AvailableFormatterNames(), ", ")))
	cmd.Flags().StringVarP(&rf.outputDir, "output", "o", "", "Write the report to a timestamped file in this directory instead of stdout")
	if batch {
		cmd.Flags().StringVar(&rf.sortBy, "sort-by", "", fmt.Sprintf("Sort runs by one of: %s", strings.Join(calculation.SortKeys, ", ")))
		cmd.Flags().BoolVar(&rf.descending, "desc", false, "Sort runs in descending order")
	}
}

// emit renders report to stdout, or to a file when an output directory is set
func (a *app) emit(cmd *cobra.Command, report *output.Report, rf reportFlags) error {
	if rf.outputDir != "" {
		path, err := output.GenerateReport(report, rf.format, rf.outputDir)
		if err != nil {
			return err
		}
		a.logger.WithComponent(log.ComponentOutput).Info("report written", "path", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}

	f := output.GetFormatterByName(rf.format)
	if f == nil {
		return fmt.Errorf("%w: %q. Try one of: %s", output.ErrUnsupportedFormat, rf.format,
			strings.Join(output.AvailableFormatterNames(), ", "))
	}
	if f.Name() == "pdf" {
		return fmt.Errorf("pdf reports need --output")
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// seedFlag returns the --seed value when it was set on the command line
func seedFlag(cmd *cobra.Command, seed uint32) *uint32 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}
	return &seed
}
