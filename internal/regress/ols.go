package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// OLS is an ordinary least squares fit of a target on a fixed feature set.
// Coefficients are solved once by QR decomposition; the model is immutable
// after FitOLS returns.
type OLS struct {
	FeatureNames []string
	Intercept    float64
	Coefficients []float64 // aligned with FeatureNames
	R2           float64   // coefficient of determination on the training rows

	residuals []float64
	fitted    []float64
}

// FitOLS solves min ||Xb - y|| over the training rows with an intercept
// column prepended to the design matrix.
func FitOLS(X [][]float64, y []float64, featureNames []string) (*OLS, error) {
	n := len(X)
	if n == 0 {
		return nil, fmt.Errorf("ols fit: empty training set")
	}
	if len(y) != n {
		return nil, fmt.Errorf("ols fit: feature rows (%d) and targets (%d) mismatch", n, len(y))
	}
	p := len(featureNames)
	if p == 0 || len(X[0]) != p {
		return nil, fmt.Errorf("ols fit: feature count (%d) does not match names (%d)", len(X[0]), p)
	}
	if n <= p {
		return nil, fmt.Errorf("ols fit: need more than %d rows to fit %d features", p, p)
	}

	design := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		design.Set(i, 0, 1) // intercept
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, target); err != nil {
		return nil, fmt.Errorf("ols solve: %w", err)
	}

	m := &OLS{
		FeatureNames: featureNames,
		Intercept:    beta.At(0, 0),
		Coefficients: make([]float64, p),
	}
	for j := 0; j < p; j++ {
		m.Coefficients[j] = beta.At(j+1, 0)
	}

	m.fitted = make([]float64, n)
	m.residuals = make([]float64, n)
	for i, row := range X {
		m.fitted[i] = m.Predict(row)
		m.residuals[i] = y[i] - m.fitted[i]
	}
	m.R2 = stat.RSquaredFrom(m.fitted, y, nil)

	return m, nil
}

// Predict evaluates the linear model for a single feature vector.
func (m *OLS) Predict(x []float64) float64 {
	yhat := m.Intercept
	for j, v := range x {
		yhat += m.Coefficients[j] * v
	}
	return yhat
}

// PredictBatch evaluates the model for every row of X.
func (m *OLS) PredictBatch(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = m.Predict(x)
	}
	return out
}

// Residuals returns the training residuals (actual minus fitted), used for
// the residual diagnostic plot.
func (m *OLS) Residuals() []float64 {
	return m.residuals
}

// Fitted returns the fitted training values.
func (m *OLS) Fitted() []float64 {
	return m.fitted
}
