package dewpoint

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"dewcli/internal/pitch"
)

// RenderHistograms writes one distribution histogram PNG per numeric
// column into outDir, skipping missing values.
func RenderHistograms(records []pitch.Record, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create plot directory: %w", err)
	}

	for _, col := range numericColumns {
		values := make(plotter.Values, 0, len(records))
		for _, rec := range records {
			v := col.extract(rec)
			if math.IsNaN(v) {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue // nothing to plot for an all-missing column
		}

		p := plot.New()
		p.Title.Text = col.name
		p.X.Label.Text = col.name
		p.Y.Label.Text = "count"

		hist, err := plotter.NewHist(values, 30)
		if err != nil {
			return fmt.Errorf("histogram for %s: %w", col.name, err)
		}
		hist.FillColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
		p.Add(hist)

		outPath := filepath.Join(outDir, histFileName(col.name))
		if err := p.Save(6*vg.Inch, 4*vg.Inch, outPath); err != nil {
			return fmt.Errorf("save histogram %s: %w", outPath, err)
		}
	}

	return nil
}

// RenderEvaluationPlots writes the model diagnostic plots: predicted vs
// actual scatter for both models on the test set, and the linear model's
// residuals against fitted values.
func RenderEvaluationPlots(result *Result, outDir string) error {
	if result == nil || result.Evaluation == nil {
		return fmt.Errorf("no evaluation to plot")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create plot directory: %w", err)
	}

	ev := result.Evaluation

	scatterPlots := []struct {
		title, file string
		predicted   []float64
	}{
		{"Linear model: predicted vs actual (test)", "linear_pred_vs_actual.png", ev.Linear.Predicted},
		{"Ensemble model: predicted vs actual (test)", "ensemble_pred_vs_actual.png", ev.Ensemble.Predicted},
	}
	for _, sp := range scatterPlots {
		if err := saveScatter(sp.title, "actual", "predicted",
			ev.TestActual, sp.predicted, filepath.Join(outDir, sp.file)); err != nil {
			return err
		}
	}

	return saveScatter("Linear model residuals", "fitted", "residual",
		result.Linear.Fitted(), result.Linear.Residuals(),
		filepath.Join(outDir, "linear_residuals.png"))
}

// saveScatter renders a single scatter plot of ys against xs.
func saveScatter(title, xLabel, yLabel string, xs, ys []float64, outPath string) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("scatter %s: x (%d) and y (%d) length mismatch", title, len(xs), len(ys))
	}

	xys := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: xs[i], Y: ys[i]})
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("scatter %s: %w", title, err)
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 200, G: 30, B: 30, A: 180}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)
	p.Add(plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save plot %s: %w", outPath, err)
	}
	return nil
}

// histFileName converts a column name to a stable lowercase file name.
func histFileName(col string) string {
	return "hist_" + strings.ToLower(col) + ".png"
}
