package regress

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Default forest hyperparameters. Depth and leaf limits keep individual
// trees modest for a two-feature problem.
const (
	DefaultTreeCount       = 100
	DefaultMinSamplesSplit = 5
	DefaultMinSamplesLeaf  = 2
	DefaultMaxDepth        = 0 // unlimited
)

// Forest is a bagged regression-tree ensemble. Each tree is grown on a
// bootstrap sample of the training rows; Predict averages the trees.
// Immutable once Fit has returned.
type Forest struct {
	TreeCount       int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            int64

	trees  []*regressionTree
	oobMSE float64
	oobN   int
	fitted bool
}

// NewForest returns a forest with default hyperparameters, treeCount trees
// and a fixed seed for reproducible bagging.
func NewForest(treeCount int, seed int64) *Forest {
	if treeCount <= 0 {
		treeCount = DefaultTreeCount
	}
	return &Forest{
		TreeCount:       treeCount,
		MaxDepth:        DefaultMaxDepth,
		MinSamplesSplit: DefaultMinSamplesSplit,
		MinSamplesLeaf:  DefaultMinSamplesLeaf,
		Seed:            seed,
	}
}

// Fit grows the ensemble on X (n rows of features) and y (n targets).
// Trees are grown concurrently, one goroutine per tree, each with its own
// deterministic random source so results are reproducible for a fixed seed.
// The out-of-bag mean squared error is computed as a training diagnostic.
func (f *Forest) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return fmt.Errorf("forest fit: empty training set")
	}
	if len(y) != n {
		return fmt.Errorf("forest fit: feature rows (%d) and targets (%d) mismatch", n, len(y))
	}
	for i := range X {
		if len(X[i]) != len(X[0]) {
			return fmt.Errorf("forest fit: inconsistent feature count at row %d", i)
		}
	}

	f.trees = make([]*regressionTree, f.TreeCount)
	inBag := make([][]bool, f.TreeCount)

	var g errgroup.Group
	for ti := 0; ti < f.TreeCount; ti++ {
		g.Go(func() error {
			// Per-tree source keeps bagging deterministic under concurrency.
			rng := rand.New(rand.NewSource(f.Seed + int64(ti)))

			bag := make([]bool, n)
			sample := make([]int, n)
			for j := 0; j < n; j++ {
				k := rng.Intn(n)
				sample[j] = k
				bag[k] = true
			}

			tree := &regressionTree{
				maxDepth:        f.MaxDepth,
				minSamplesSplit: f.MinSamplesSplit,
				minSamplesLeaf:  f.MinSamplesLeaf,
			}
			tree.fit(X, y, sample)

			f.trees[ti] = tree
			inBag[ti] = bag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.computeOOB(X, y, inBag)
	f.fitted = true
	return nil
}

// computeOOB scores every row using only the trees that never saw it, the
// standard bagging error estimate.
func (f *Forest) computeOOB(X [][]float64, y []float64, inBag [][]bool) {
	var sumSq float64
	var counted int

	var mu sync.Mutex
	var g errgroup.Group
	rows := len(X)
	workers := 4
	chunk := (rows + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > rows {
			hi = rows
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			localSq := 0.0
			localN := 0
			for i := lo; i < hi; i++ {
				sum := 0.0
				votes := 0
				for ti, tree := range f.trees {
					if inBag[ti][i] {
						continue
					}
					sum += tree.predict(X[i])
					votes++
				}
				if votes == 0 {
					continue
				}
				d := sum/float64(votes) - y[i]
				localSq += d * d
				localN++
			}
			mu.Lock()
			sumSq += localSq
			counted += localN
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if counted > 0 {
		f.oobMSE = sumSq / float64(counted)
	} else {
		f.oobMSE = math.NaN()
	}
	f.oobN = counted
}

// Predict returns the ensemble mean for a single feature vector.
func (f *Forest) Predict(x []float64) (float64, error) {
	if !f.fitted {
		return 0, fmt.Errorf("forest predict: model not fitted")
	}
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(f.trees)), nil
}

// PredictBatch predicts every row of X.
func (f *Forest) PredictBatch(X [][]float64) ([]float64, error) {
	if !f.fitted {
		return nil, fmt.Errorf("forest predict: model not fitted")
	}
	out := make([]float64, len(X))
	for i, x := range X {
		p, err := f.Predict(x)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// OOBError returns the out-of-bag mean squared error and the number of rows
// it was computed over.
func (f *Forest) OOBError() (float64, int) {
	return f.oobMSE, f.oobN
}
