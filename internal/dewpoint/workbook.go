package dewpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook saves the run's descriptive statistics and model
// evaluation to an Excel workbook for analysts who review runs outside
// the terminal.
func WriteWorkbook(result *Result, runID, outputPath string) error {
	if result == nil || result.Evaluation == nil {
		return fmt.Errorf("no results to export")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const (
		sheetOverview = "Overview"
		sheetColumns  = "Column Stats"
		sheetModels   = "Evaluation"
	)

	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return fmt.Errorf("rename overview sheet: %w", err)
	}
	for _, name := range []string{sheetColumns, sheetModels} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	overview := [][]interface{}{
		{"Run ID", runID},
		{"Generated", time.Now().Format(time.RFC3339)},
		{"Total Pitches", result.Summary.Rows},
		{"Pitchers", result.Summary.PitcherCount},
		{"Pitch Types", result.Summary.PitchTypeCount},
		{"Movement Profiles", len(result.Profiles)},
		{"Modeled Rows", len(result.ModelRows)},
		{"Training Rows", len(result.Split.Train)},
		{"Test Rows", len(result.Split.Test)},
	}
	if err := writeRows(f, sheetOverview, overview); err != nil {
		return err
	}

	columns := [][]interface{}{
		{"Column", "Count", "Missing", "Mean", "Median", "StdDev", "Min", "Max", "Skewness"},
	}
	for _, col := range result.Summary.Columns {
		columns = append(columns, []interface{}{
			col.Name, col.Count, col.Missing, col.Mean, col.Median,
			col.StdDev, col.Min, col.Max, col.Skewness,
		})
	}
	if err := writeRows(f, sheetColumns, columns); err != nil {
		return err
	}

	ev := result.Evaluation
	models := [][]interface{}{
		{"Model", "Test Correlation", "Test RMSE", "Test R2"},
		{ev.Linear.Name, ev.Linear.Correlation, ev.Linear.RMSE, ev.Linear.R2},
		{ev.Ensemble.Name, ev.Ensemble.Correlation, ev.Ensemble.RMSE, ev.Ensemble.R2},
		{},
		{"Linear Intercept", ev.LinearIntercept},
		{"Linear " + FeatureNames[0], ev.LinearCoefficients[0]},
		{"Linear " + FeatureNames[1], ev.LinearCoefficients[1]},
		{"Linear Train R2", ev.LinearTrainR2},
		{"Ensemble OOB MSE", ev.EnsembleOOBMSE},
		{"Ensemble OOB Rows", ev.EnsembleOOBRows},
	}
	if err := writeRows(f, sheetModels, models); err != nil {
		return err
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	return nil
}

// writeRows fills a sheet row by row starting at A1.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name (%d,%d): %w", c+1, r+1, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
