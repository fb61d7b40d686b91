package dewpoint

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"dewcli/internal/exporter"
)

// WriteSubmission applies the full-set ensemble predictions to the
// submission file: one row per input pitch, PID plus the predicted label.
// Rows whose deviations were missing carry NA, matching the aggregation
// policy that excluded them from modeling.
func WriteSubmission(result *Result, writer *exporter.CSVWriter, path string) error {
	if result == nil || len(result.Enriched) == 0 {
		return fmt.Errorf("no predictions to save")
	}

	records := make([][]string, 0, len(result.Enriched))
	for i, rec := range result.Enriched {
		records = append(records, []string{
			rec.PID,
			formatPrediction(result.Predictions[i]),
		})
	}

	return writer.WriteSimpleCSV(path, []string{"PID", "DEWPOINT_AFFECTED"}, records)
}

// formatPrediction renders a prediction for CSV output, mapping NaN to NA.
func formatPrediction(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// SaveSummaryReport writes a human-readable run summary: dataset overview,
// descriptive statistics, model diagnostics and the most affected pitches.
func SaveSummaryReport(result *Result, runID, outputPath string) error {
	if result == nil || result.Evaluation == nil {
		return fmt.Errorf("no evaluation to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	ev := result.Evaluation

	fmt.Fprintf(file, "Dew Point Pitch-Movement Analysis - Summary Report\n")
	fmt.Fprintf(file, "==================================================\n\n")
	fmt.Fprintf(file, "Run ID: %s\n", runID)
	fmt.Fprintf(file, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(file, "DATASET OVERVIEW\n")
	fmt.Fprintf(file, "----------------\n")
	fmt.Fprintf(file, "Total Pitches: %d\n", result.Summary.Rows)
	fmt.Fprintf(file, "Pitchers: %d\n", result.Summary.PitcherCount)
	fmt.Fprintf(file, "Pitch Types: %d\n", result.Summary.PitchTypeCount)
	fmt.Fprintf(file, "Movement Profiles: %d\n", len(result.Profiles))
	fmt.Fprintf(file, "Modeled Rows: %d (train %d / test %d)\n\n",
		len(result.ModelRows), len(result.Split.Train), len(result.Split.Test))

	fmt.Fprintf(file, "COLUMN STATISTICS\n")
	fmt.Fprintf(file, "-----------------\n")
	for _, col := range result.Summary.Columns {
		fmt.Fprintf(file, "%-26s mean=%9.3f median=%9.3f sd=%8.3f skew=%7.3f missing=%d\n",
			col.Name, col.Mean, col.Median, col.StdDev, col.Skewness, col.Missing)
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "LINEAR MODEL\n")
	fmt.Fprintf(file, "------------\n")
	fmt.Fprintf(file, "Intercept: %.6f\n", ev.LinearIntercept)
	for j, name := range FeatureNames {
		fmt.Fprintf(file, "%s: %.6f\n", name, ev.LinearCoefficients[j])
	}
	fmt.Fprintf(file, "Train R2: %.4f\n", ev.LinearTrainR2)
	fmt.Fprintf(file, "Test Correlation: %.4f\n", ev.Linear.Correlation)
	fmt.Fprintf(file, "Test RMSE: %.4f\n\n", ev.Linear.RMSE)

	fmt.Fprintf(file, "ENSEMBLE MODEL\n")
	fmt.Fprintf(file, "--------------\n")
	fmt.Fprintf(file, "OOB MSE: %.6f (over %d rows)\n", ev.EnsembleOOBMSE, ev.EnsembleOOBRows)
	fmt.Fprintf(file, "Test Correlation: %.4f\n", ev.Ensemble.Correlation)
	fmt.Fprintf(file, "Test RMSE: %.4f\n\n", ev.Ensemble.RMSE)

	fmt.Fprintf(file, "TOP 10 MOST AFFECTED PITCHES (Predicted)\n")
	fmt.Fprintf(file, "----------------------------------------\n")
	for i, row := range topAffected(result, 10) {
		fmt.Fprintf(file, "%2d. PID %s (pitcher %s, %s): %.4f\n",
			i+1, row.PID, row.PitcherKey, row.PitchType, row.prediction)
	}

	return nil
}

// affectedRow pairs an enriched record with its ensemble prediction for
// ranking in the report.
type affectedRow struct {
	EnrichedRecord
	prediction float64
}

// topAffected returns the n records with the highest predicted labels.
func topAffected(result *Result, n int) []affectedRow {
	rows := make([]affectedRow, 0, len(result.ModelRows))
	for _, i := range result.ModelRows {
		rows = append(rows, affectedRow{
			EnrichedRecord: result.Enriched[i],
			prediction:     result.Predictions[i],
		})
	}
	sort.Slice(rows, func(a, b int) bool {
		return rows[a].prediction > rows[b].prediction
	})
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}
