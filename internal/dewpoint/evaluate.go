package dewpoint

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"dewcli/internal/regress"
)

// ModelScore holds held-out metrics for one fitted model.
type ModelScore struct {
	Name        string
	Correlation float64 // Pearson correlation, predicted vs actual
	RMSE        float64
	R2          float64
	Predicted   []float64 // test-set predictions, aligned with the actuals
}

// Evaluation compares both models on the test partition and carries the
// fit diagnostics reported in the summary.
type Evaluation struct {
	TestActual []float64
	Linear     ModelScore
	Ensemble   ModelScore

	// Linear fit diagnostics (training rows).
	LinearIntercept    float64
	LinearCoefficients []float64
	LinearTrainR2      float64

	// Ensemble diagnostic: out-of-bag mean squared error.
	EnsembleOOBMSE  float64
	EnsembleOOBRows int
}

// Evaluate applies both fitted models to the test rows and scores the
// predictions against the actual labels.
func Evaluate(linear *regress.OLS, ensemble *regress.Forest, testX [][]float64, testY []float64) (*Evaluation, error) {
	if len(testX) == 0 {
		return nil, fmt.Errorf("empty test set")
	}
	if len(testX) != len(testY) {
		return nil, fmt.Errorf("test rows (%d) and labels (%d) mismatch", len(testX), len(testY))
	}

	linearPreds := linear.PredictBatch(testX)
	ensemblePreds, err := ensemble.PredictBatch(testX)
	if err != nil {
		return nil, fmt.Errorf("ensemble test predictions: %w", err)
	}

	oobMSE, oobRows := ensemble.OOBError()

	return &Evaluation{
		TestActual:         testY,
		Linear:             scoreModel("linear", linearPreds, testY),
		Ensemble:           scoreModel("ensemble", ensemblePreds, testY),
		LinearIntercept:    linear.Intercept,
		LinearCoefficients: linear.Coefficients,
		LinearTrainR2:      linear.R2,
		EnsembleOOBMSE:     oobMSE,
		EnsembleOOBRows:    oobRows,
	}, nil
}

// scoreModel computes the held-out metrics for one prediction vector.
func scoreModel(name string, predicted, actual []float64) ModelScore {
	score := ModelScore{
		Name:      name,
		Predicted: predicted,
		RMSE:      rmse(predicted, actual),
		R2:        stat.RSquaredFrom(predicted, actual, nil),
	}

	// Correlation is undefined when either side is constant.
	if stat.StdDev(predicted, nil) > 0 && stat.StdDev(actual, nil) > 0 {
		score.Correlation = stat.Correlation(predicted, actual, nil)
	} else {
		score.Correlation = math.NaN()
	}

	return score
}

func rmse(predicted, actual []float64) float64 {
	if len(predicted) == 0 {
		return math.NaN()
	}
	sumSq := 0.0
	for i := range predicted {
		d := predicted[i] - actual[i]
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(predicted)))
}
