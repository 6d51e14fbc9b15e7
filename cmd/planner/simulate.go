package main

import (
	"fmt"
	"log/slog"

	"github.com/rpgo/wealth-planner/internal/calculation"
	"github.com/rpgo/wealth-planner/internal/config"
	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/internal/output"
	"github.com/spf13/cobra"
)

type simulateOptions struct {
	configFile   string
	personalFile string
	format       string
	outputFile   string
	verbose      bool
}

func newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run every configured scenario and print the projection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "configuration file layered over the built-in defaults")
	cmd.Flags().StringVarP(&opts.personalFile, "personal", "p", "", "personal override file layered over --config")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format (table, summary, csv, json, html)")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log each simulated year")
	return cmd
}

func runSimulate(cmd *cobra.Command, opts *simulateOptions) error {
	formatter, err := output.ResolveFormatter(opts.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfiguration(opts.configFile, opts.personalFile)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	engine := calculation.NewCalculationEngine()
	engine.SetLogger(calculation.NewSlogLogger(logger))

	results, err := engine.RunScenarios(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Info("simulation complete", "run_id", results.RunID, "scenarios", len(results.Scenarios))

	if opts.outputFile != "" {
		path, err := output.WriteFormatted(formatter, results, opts.outputFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	data, err := formatter.Format(results)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func loadConfiguration(configFile, personalFile string) (*domain.Configuration, error) {
	parser := config.NewInputParser()
	switch {
	case configFile == "" && personalFile == "":
		return parser.LoadDefault()
	case configFile == "":
		return parser.LoadFromFile(personalFile)
	default:
		return parser.LoadWithOverride(configFile, personalFile)
	}
}
