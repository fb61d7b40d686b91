// Command dewpoint-report runs the dew point pitch-movement analysis:
// it loads a pitch-tracking CSV, derives movement-deviation features and a
// bounded "dew point affected" label, fits a linear and an ensemble model,
// and writes the submission file plus diagnostic reports and plots.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"dewcli/internal/config"
	"dewcli/internal/dewpoint"
	"dewcli/internal/exporter"
	"dewcli/internal/infrastructure"
	"dewcli/internal/pitch"
)

func main() {
	configPath := flag.String("config", "dewpoint.yaml", "optional YAML config file")
	dataPath := flag.String("data", "", "input pitch CSV (overrides config)")
	outputDir := flag.String("out", "", "output directory (overrides config)")
	seed := flag.Int64("seed", -1, "random seed (overrides config when >= 0)")
	trainFraction := flag.Float64("train-frac", 0, "training fraction (overrides config when > 0)")
	treeCount := flag.Int("trees", 0, "ensemble tree count (overrides config when > 0)")
	skipPlots := flag.Bool("no-plots", false, "skip histogram and diagnostic plot rendering")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// CLI flags take precedence over file and environment values.
	if *dataPath != "" {
		cfg.Input.DataPath = *dataPath
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *seed >= 0 {
		cfg.Pipeline.Seed = *seed
	}
	if *trainFraction > 0 {
		cfg.Pipeline.TrainFraction = *trainFraction
	}
	if *treeCount > 0 {
		cfg.Pipeline.TreeCount = *treeCount
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration after flag overrides", "error", err)
		os.Exit(1)
	}

	logger, cleanup, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	runID := uuid.NewString()
	logger.Info("starting dew point report",
		"run_id", runID,
		"data", cfg.Input.DataPath,
		"output_dir", cfg.Output.Dir,
	)

	records, err := pitch.LoadCSV(cfg.Input.DataPath, logger)
	if err != nil {
		logger.Error("Failed to load pitch data", "error", err)
		os.Exit(1)
	}

	params := dewpoint.Params{
		TrainFraction: cfg.Pipeline.TrainFraction,
		Seed:          cfg.Pipeline.Seed,
		TreeCount:     cfg.Pipeline.TreeCount,
		MissingPolicy: dewpoint.MissingPolicy(cfg.Pipeline.MissingPolicy),
	}

	engine := dewpoint.NewEngine(params, logger)
	ctx := context.Background()

	result, err := engine.Run(ctx, records)
	if err != nil {
		logger.Error("Analysis failed", "error", err)
		os.Exit(1)
	}

	if !*skipPlots && cfg.Output.PlotsDir != "" {
		plotsDir := filepath.Join(cfg.Output.Dir, cfg.Output.PlotsDir)
		if err := dewpoint.RenderHistograms(records, plotsDir); err != nil {
			logger.Error("Failed to render histograms", "error", err)
			os.Exit(1)
		}
		if err := dewpoint.RenderEvaluationPlots(result, plotsDir); err != nil {
			logger.Error("Failed to render evaluation plots", "error", err)
			os.Exit(1)
		}
		logger.Info("rendered plots", "dir", plotsDir)
	}

	writer := exporter.NewCSVWriter(cfg.Output.Dir, logger)
	if err := dewpoint.WriteSubmission(result, writer, cfg.Output.SubmissionFile); err != nil {
		logger.Error("Failed to write submission", "error", err)
		os.Exit(1)
	}

	summaryPath := filepath.Join(cfg.Output.Dir, cfg.Output.SummaryFile)
	if err := dewpoint.SaveSummaryReport(result, runID, summaryPath); err != nil {
		logger.Error("Failed to save summary report", "error", err)
		os.Exit(1)
	}

	if cfg.Output.WorkbookFile != "" {
		workbookPath := filepath.Join(cfg.Output.Dir, cfg.Output.WorkbookFile)
		if err := dewpoint.WriteWorkbook(result, runID, workbookPath); err != nil {
			logger.Error("Failed to write workbook", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("dew point report completed",
		"run_id", runID,
		"submission", filepath.Join(cfg.Output.Dir, cfg.Output.SubmissionFile),
		"summary", summaryPath,
	)

	printSummaryStats(result)
}

// printSummaryStats prints the headline numbers to stdout for quick review.
func printSummaryStats(result *dewpoint.Result) {
	ev := result.Evaluation

	fmt.Println("\n=== DEW POINT ANALYSIS SUMMARY ===")
	fmt.Printf("Pitches: %d | Pitchers: %d | Profiles: %d | Modeled: %d\n",
		result.Summary.Rows, result.Summary.PitcherCount,
		len(result.Profiles), len(result.ModelRows))

	fmt.Println("\nModel      | Test Corr | Test RMSE | Test R2")
	fmt.Println("-----------|-----------|-----------|--------")
	for _, score := range []dewpoint.ModelScore{ev.Linear, ev.Ensemble} {
		fmt.Printf("%-10s | %9.4f | %9.4f | %7.4f\n",
			score.Name, score.Correlation, score.RMSE, score.R2)
	}

	fmt.Printf("\nLinear coefficients: intercept=%.4f", ev.LinearIntercept)
	for j, name := range dewpoint.FeatureNames {
		fmt.Printf(" %s=%.4f", name, ev.LinearCoefficients[j])
	}
	fmt.Printf("\nEnsemble OOB MSE: %.6f (%d rows)\n", ev.EnsembleOOBMSE, ev.EnsembleOOBRows)
}
