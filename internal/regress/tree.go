package regress

import (
	"math"
	"sort"
)

// treeNode holds one node of a regression tree. Internal nodes route on
// x[feature] <= threshold; leaves carry the mean target of their samples.
type treeNode struct {
	isLeaf    bool
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	n         int
}

// regressionTree is a CART-style regression tree grown by variance
// reduction. It is only ever used inside a Forest, so hyperparameters are
// plain fields set by the forest before Fit.
type regressionTree struct {
	maxDepth        int // 0 means no depth limit
	minSamplesSplit int
	minSamplesLeaf  int

	root *treeNode
}

// fit grows the tree over the sample indices idx into X and y.
func (t *regressionTree) fit(X [][]float64, y []float64, idx []int) {
	t.root = t.grow(X, y, idx, 0)
}

// grow recursively builds nodes. Splits stop at depth/size limits or when
// no split reduces the sum of squared errors.
func (t *regressionTree) grow(X [][]float64, y []float64, idx []int, depth int) *treeNode {
	node := &treeNode{
		value: meanAt(y, idx),
		n:     len(idx),
	}

	if len(idx) < t.minSamplesSplit {
		node.isLeaf = true
		return node
	}
	if t.maxDepth > 0 && depth >= t.maxDepth {
		node.isLeaf = true
		return node
	}

	feature, threshold, ok := t.bestSplit(X, y, idx)
	if !ok {
		node.isLeaf = true
		return node
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.minSamplesLeaf || len(right) < t.minSamplesLeaf {
		node.isLeaf = true
		return node
	}

	node.feature = feature
	node.threshold = threshold
	node.left = t.grow(X, y, left, depth+1)
	node.right = t.grow(X, y, right, depth+1)
	return node
}

// bestSplit finds the (feature, threshold) pair minimizing the combined
// SSE of the two children. Thresholds are midpoints between consecutive
// distinct feature values, evaluated with prefix sums over the sorted
// sample so the scan is a single pass per feature.
func (t *regressionTree) bestSplit(X [][]float64, y []float64, idx []int) (int, float64, bool) {
	if len(idx) < 2 {
		return 0, 0, false
	}

	nFeatures := len(X[idx[0]])
	bestSSE := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	order := make([]int, len(idx))
	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			return X[order[a]][f] < X[order[b]][f]
		})

		// prefix sums of y and y^2 over the sorted order
		var sumL, sumSqL float64
		sumR, sumSqR := 0.0, 0.0
		for _, i := range order {
			sumR += y[i]
			sumSqR += y[i] * y[i]
		}

		n := len(order)
		for k := 0; k < n-1; k++ {
			yi := y[order[k]]
			sumL += yi
			sumSqL += yi * yi
			sumR -= yi
			sumSqR -= yi * yi

			vk := X[order[k]][f]
			vNext := X[order[k+1]][f]
			if vk == vNext {
				continue // no boundary between identical values
			}
			if k+1 < t.minSamplesLeaf || n-k-1 < t.minSamplesLeaf {
				continue
			}

			nL := float64(k + 1)
			nR := float64(n - k - 1)
			sse := (sumSqL - sumL*sumL/nL) + (sumSqR - sumR*sumR/nR)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (vk + vNext) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}

	// Reject splits that do not improve on the parent SSE.
	parentSSE := sseAt(y, idx)
	if bestSSE >= parentSSE {
		return 0, 0, false
	}

	return bestFeature, bestThreshold, true
}

// predict walks the tree for a single feature vector.
func (t *regressionTree) predict(x []float64) float64 {
	node := t.root
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sseAt(y []float64, idx []int) float64 {
	m := meanAt(y, idx)
	sse := 0.0
	for _, i := range idx {
		d := y[i] - m
		sse += d * d
	}
	return sse
}
