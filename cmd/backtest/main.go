package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"backtest/internal/chart"
	"backtest/internal/config"
	"backtest/internal/csvdata"
	"backtest/internal/engine"
	"backtest/internal/repository"
	"backtest/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:           "backtest",
		Short:         "Run configured portfolio strategy backtests and compare them",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, verbose)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "backtest.yaml", "path to the YAML run file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func run(configPath string, verbose bool) error {
	level := "info"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true})

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	runs, err := cfg.ToRunConfigs()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("no strategies configured in %s", configPath)
	}
	if len(runs) == 1 {
		runs[0].Progress = true
	}

	var store engine.MarketData
	switch cfg.Data.Source {
	case "postgres":
		db, err := repository.NewDatabase(cfg.Data.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()
		store = &db
	case "csv", "":
		store = csvdata.New(cfg.Data.CSVDir)
	default:
		return fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}

	eng := engine.NewEngine(store, log)
	results, err := eng.RunAll(context.Background(), runs)
	if err != nil {
		return err
	}

	printSummary(results)

	if cfg.Output.ChartPath != "" {
		png, err := chart.RenderComparison("Strategy Comparison", results)
		if err != nil {
			return fmt.Errorf("rendering chart: %w", err)
		}
		if err := os.WriteFile(cfg.Output.ChartPath, png, 0o644); err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		log.Info().Str("path", cfg.Output.ChartPath).Msg("comparison chart written")
	}
	return nil
}

func printSummary(results []*engine.Result) {
	fmt.Println("\n===== Strategy Comparison =====")
	fmt.Printf("%-28s %14s %8s %8s %10s %8s %8s\n",
		"Strategy", "Final Value", "CAGR", "Max DD", "Ann. Vol", "Sharpe", "Skipped")
	for _, r := range results {
		rep := r.Report
		sharpe := "n/a"
		if !math.IsNaN(rep.Sharpe) {
			sharpe = fmt.Sprintf("%.2f", rep.Sharpe)
		}
		fmt.Printf("%-28s %14s %7.2f%% %7.2f%% %9.2f%% %8s %8d\n",
			r.Name,
			"$"+rep.FinalValue.StringFixed(2),
			rep.CAGR*100,
			rep.MaxDrawdown*100,
			rep.AnnualizedVolatility*100,
			sharpe,
			r.SkippedEvents)
	}
	fmt.Println("===============================")
}
