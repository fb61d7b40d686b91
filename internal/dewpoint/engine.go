package dewpoint

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"dewcli/internal/pitch"
	"dewcli/internal/regress"
)

// Params are the run parameters for the analysis pipeline.
type Params struct {
	TrainFraction float64
	Seed          int64
	TreeCount     int
	MissingPolicy MissingPolicy
}

// DefaultParams returns the study's fixed parameters.
func DefaultParams() Params {
	return Params{
		TrainFraction: DefaultTrainFraction,
		Seed:          DefaultSeed,
		TreeCount:     DefaultTreeCount,
		MissingPolicy: MissingSkip,
	}
}

// IsValid checks the parameters are usable.
func (p Params) IsValid() bool {
	return p.TrainFraction > 0 && p.TrainFraction < 1 &&
		p.TreeCount > 0 && p.MissingPolicy.IsValid()
}

// Engine runs the dew point analysis pipeline: descriptive statistics,
// feature engineering, target construction, split, model fitting,
// evaluation and full-set prediction. Stages execute strictly in sequence
// and any failure aborts the run.
type Engine struct {
	params Params
	logger *slog.Logger
}

// NewEngine creates a pipeline engine with the given parameters.
func NewEngine(params Params, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{params: params, logger: logger}
}

// Result is everything a run produces, handed to persistence and plotting.
type Result struct {
	Summary  DatasetSummary
	Profiles map[ProfileKey]Profile
	Enriched []EnrichedRecord
	Split    Split

	Linear     *regress.OLS
	Ensemble   *regress.Forest
	Evaluation *Evaluation

	// ModelRows indexes the enriched records that carried both deviation
	// features; the split partitions positions within this slice.
	ModelRows []int
	// Predictions holds the ensemble prediction per enriched record, NaN
	// where a deviation feature was missing.
	Predictions []float64
}

// Run executes the full pipeline over the loaded records.
func (e *Engine) Run(ctx context.Context, records []pitch.Record) (*Result, error) {
	start := time.Now()

	if !e.params.IsValid() {
		return nil, fmt.Errorf("invalid pipeline parameters: %+v", e.params)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no pitch records provided")
	}

	e.logger.InfoContext(ctx, "starting dew point analysis",
		"records", len(records),
		"train_fraction", e.params.TrainFraction,
		"seed", e.params.Seed,
		"trees", e.params.TreeCount,
	)

	result := &Result{}

	// Stage 2: descriptive statistics.
	result.Summary = Describe(records)
	e.logger.InfoContext(ctx, "described dataset",
		"rows", result.Summary.Rows,
		"pitchers", result.Summary.PitcherCount,
		"pitch_types", result.Summary.PitchTypeCount,
	)

	// Stage 3: movement profiles and deviation features.
	profiles, err := BuildProfiles(records, e.params.MissingPolicy)
	if err != nil {
		return nil, fmt.Errorf("build movement profiles: %w", err)
	}
	result.Profiles = profiles

	enriched, err := Enrich(records, profiles)
	if err != nil {
		return nil, fmt.Errorf("enrich records: %w", err)
	}
	if len(enriched) != len(records) {
		return nil, fmt.Errorf("join lost rows: %d enriched from %d input", len(enriched), len(records))
	}
	result.Enriched = enriched
	e.logger.InfoContext(ctx, "built movement profiles",
		"profiles", len(profiles),
		"enriched", len(enriched),
	)

	// Stage 4: label construction.
	if err := ConstructTarget(enriched); err != nil {
		return nil, fmt.Errorf("construct target: %w", err)
	}

	// Rows usable for modeling: both deviation features present.
	for i, rec := range enriched {
		if rec.HasDeviations() {
			result.ModelRows = append(result.ModelRows, i)
		}
	}
	if skipped := len(enriched) - len(result.ModelRows); skipped > 0 {
		e.logger.WarnContext(ctx, "rows excluded from modeling for missing deviations",
			"excluded", skipped,
		)
	}

	X := make([][]float64, len(result.ModelRows))
	y := make([]float64, len(result.ModelRows))
	for pos, i := range result.ModelRows {
		X[pos] = enriched[i].Features()
		y[pos] = enriched[i].Affected
	}

	// Stage 5: train/test split.
	rng := rand.New(rand.NewSource(e.params.Seed))
	split, err := SplitIndices(len(result.ModelRows), e.params.TrainFraction, rng)
	if err != nil {
		return nil, fmt.Errorf("split rows: %w", err)
	}
	result.Split = split
	e.logger.InfoContext(ctx, "split rows",
		"train", len(split.Train),
		"test", len(split.Test),
	)

	trainX, trainY := gather(X, y, split.Train)
	testX, testY := gather(X, y, split.Test)

	// Stage 6: model fitting.
	linear, err := regress.FitOLS(trainX, trainY, FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("fit linear model: %w", err)
	}
	result.Linear = linear
	e.logger.InfoContext(ctx, "fitted linear model",
		"intercept", linear.Intercept,
		"coefficients", linear.Coefficients,
		"train_r2", linear.R2,
	)

	ensemble := regress.NewForest(e.params.TreeCount, e.params.Seed)
	if err := ensemble.Fit(trainX, trainY); err != nil {
		return nil, fmt.Errorf("fit ensemble model: %w", err)
	}
	result.Ensemble = ensemble
	oobMSE, oobRows := ensemble.OOBError()
	e.logger.InfoContext(ctx, "fitted ensemble model",
		"trees", e.params.TreeCount,
		"oob_mse", oobMSE,
		"oob_rows", oobRows,
	)

	// Stage 7: held-out evaluation.
	evaluation, err := Evaluate(linear, ensemble, testX, testY)
	if err != nil {
		return nil, fmt.Errorf("evaluate models: %w", err)
	}
	result.Evaluation = evaluation
	e.logger.InfoContext(ctx, "evaluated models on test set",
		"linear_correlation", evaluation.Linear.Correlation,
		"linear_rmse", evaluation.Linear.RMSE,
		"ensemble_correlation", evaluation.Ensemble.Correlation,
		"ensemble_rmse", evaluation.Ensemble.RMSE,
	)

	// Stage 8: ensemble prediction over the whole enriched set.
	modelPreds, err := ensemble.PredictBatch(X)
	if err != nil {
		return nil, fmt.Errorf("predict full set: %w", err)
	}
	result.Predictions = make([]float64, len(enriched))
	for i := range result.Predictions {
		result.Predictions[i] = math.NaN()
	}
	for pos, i := range result.ModelRows {
		result.Predictions[i] = modelPreds[pos]
	}

	e.logger.InfoContext(ctx, "analysis completed",
		"duration", time.Since(start),
		"predictions", len(result.ModelRows),
	)

	return result, nil
}

// gather selects rows of X and y by index.
func gather(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	outX := make([][]float64, len(idx))
	outY := make([]float64, len(idx))
	for pos, i := range idx {
		outX[pos] = X[i]
		outY[pos] = y[i]
	}
	return outX, outY
}
