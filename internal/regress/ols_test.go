package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitOLS_RecoversExactLinearRelationship(t *testing.T) {
	// y = 2 + 3*x1 - 0.5*x2 with no noise: QR must recover the
	// coefficients to machine precision.
	X := [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2}, {3, 2}, {2, 3},
	}
	y := make([]float64, len(X))
	for i, row := range X {
		y[i] = 2 + 3*row[0] - 0.5*row[1]
	}

	m, err := FitOLS(X, y, []string{"x1", "x2"})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, m.Intercept, 1e-9)
	require.Len(t, m.Coefficients, 2)
	assert.InDelta(t, 3.0, m.Coefficients[0], 1e-9)
	assert.InDelta(t, -0.5, m.Coefficients[1], 1e-9)
	assert.InDelta(t, 1.0, m.R2, 1e-9)

	assert.InDelta(t, 2+3*5-0.5*4, m.Predict([]float64{5, 4}), 1e-9)
}

func TestFitOLS_ResidualsSumNearZero(t *testing.T) {
	X := [][]float64{{1, 2}, {2, 1}, {3, 4}, {4, 3}, {5, 6}, {6, 5}}
	y := []float64{1.1, 1.9, 3.2, 3.8, 5.1, 5.9}

	m, err := FitOLS(X, y, []string{"a", "b"})
	require.NoError(t, err)

	// With an intercept column the residuals sum to zero.
	sum := 0.0
	for _, r := range m.Residuals() {
		sum += r
	}
	assert.InDelta(t, 0.0, sum, 1e-9)
	assert.Len(t, m.Fitted(), len(y))
}

func TestFitOLS_InputValidation(t *testing.T) {
	tests := []struct {
		name  string
		X     [][]float64
		y     []float64
		names []string
	}{
		{"empty", nil, nil, []string{"a"}},
		{"length mismatch", [][]float64{{1}, {2}}, []float64{1}, []string{"a"}},
		{"feature count mismatch", [][]float64{{1, 2}, {3, 4}}, []float64{1, 2}, []string{"a"}},
		{"too few rows", [][]float64{{1, 2}, {3, 4}}, []float64{1, 2}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitOLS(tt.X, tt.y, tt.names)
			assert.Error(t, err)
		})
	}
}

func TestOLS_PredictBatch(t *testing.T) {
	X := [][]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 1}, {1, 4}}
	y := []float64{1, 3, 5, 7, 6, 4}

	m, err := FitOLS(X, y, []string{"a", "b"})
	require.NoError(t, err)

	preds := m.PredictBatch(X)
	require.Len(t, preds, len(X))
	for i, x := range X {
		assert.Equal(t, m.Predict(x), preds[i])
	}
}
