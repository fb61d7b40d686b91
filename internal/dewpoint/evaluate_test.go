package dewpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dewcli/internal/regress"
)

// fittedModels trains both models on a small exact linear problem so test
// metrics are predictable.
func fittedModels(t *testing.T) (*regress.OLS, *regress.Forest, [][]float64, []float64) {
	t.Helper()

	var X [][]float64
	var y []float64
	for i := 0; i < 30; i++ {
		x1 := float64(i%6) - 2
		x2 := float64(i%5) - 2
		X = append(X, []float64{x1, x2})
		y = append(y, 0.5+0.2*x1-0.1*x2)
	}

	linear, err := regress.FitOLS(X, y, FeatureNames)
	require.NoError(t, err)

	ensemble := regress.NewForest(20, DefaultSeed)
	require.NoError(t, ensemble.Fit(X, y))

	return linear, ensemble, X, y
}

func TestEvaluate_ScoresBothModels(t *testing.T) {
	linear, ensemble, X, y := fittedModels(t)

	ev, err := Evaluate(linear, ensemble, X, y)
	require.NoError(t, err)

	assert.Equal(t, "linear", ev.Linear.Name)
	assert.Equal(t, "ensemble", ev.Ensemble.Name)
	assert.Len(t, ev.Linear.Predicted, len(y))
	assert.Len(t, ev.Ensemble.Predicted, len(y))
	assert.Equal(t, y, ev.TestActual)

	// The linear model fits the exact relationship.
	assert.InDelta(t, 1.0, ev.Linear.Correlation, 1e-9)
	assert.InDelta(t, 0.0, ev.Linear.RMSE, 1e-9)
	assert.InDelta(t, 1.0, ev.LinearTrainR2, 1e-9)

	assert.False(t, math.IsNaN(ev.Ensemble.RMSE))
	assert.GreaterOrEqual(t, ev.Ensemble.RMSE, 0.0)
	assert.Greater(t, ev.EnsembleOOBRows, 0)

	require.Len(t, ev.LinearCoefficients, 2)
	assert.InDelta(t, 0.2, ev.LinearCoefficients[0], 1e-9)
	assert.InDelta(t, -0.1, ev.LinearCoefficients[1], 1e-9)
	assert.InDelta(t, 0.5, ev.LinearIntercept, 1e-9)
}

func TestEvaluate_ConstantActualsGiveNaNCorrelation(t *testing.T) {
	linear, ensemble, X, _ := fittedModels(t)

	constant := make([]float64, len(X))
	ev, err := Evaluate(linear, ensemble, X, constant)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(ev.Linear.Correlation))
	assert.True(t, math.IsNaN(ev.Ensemble.Correlation))
	assert.False(t, math.IsNaN(ev.Linear.RMSE), "rmse stays defined")
}

func TestEvaluate_InputValidation(t *testing.T) {
	linear, ensemble, X, y := fittedModels(t)

	_, err := Evaluate(linear, ensemble, nil, nil)
	assert.Error(t, err)

	_, err = Evaluate(linear, ensemble, X, y[:len(y)-1])
	assert.Error(t, err)
}
