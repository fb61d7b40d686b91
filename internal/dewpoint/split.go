package dewpoint

import (
	"fmt"
	"math/rand"
	"sort"
)

// Split partitions row indices into disjoint training and test sets.
// Every index appears in exactly one of the two slices.
type Split struct {
	Train []int
	Test  []int
}

// IsValid checks the partition invariants: both sides non-empty, disjoint,
// and jointly covering 0..n-1.
func (s Split) IsValid(n int) bool {
	if len(s.Train) == 0 || len(s.Test) == 0 {
		return false
	}
	if len(s.Train)+len(s.Test) != n {
		return false
	}
	seen := make(map[int]bool, n)
	for _, i := range append(append([]int{}, s.Train...), s.Test...) {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

// SplitIndices draws a uniform random sample of trainFraction*n indices
// without replacement as the training set; the remainder is the test set.
// No stratification by pitcher or pitch type is applied.
//
// The random source is injected so callers control reproducibility; the
// pipeline seeds it from configuration.
func SplitIndices(n int, trainFraction float64, rng *rand.Rand) (Split, error) {
	if n <= 0 {
		return Split{}, fmt.Errorf("cannot split %d rows", n)
	}
	if trainFraction <= 0 || trainFraction >= 1 {
		return Split{}, fmt.Errorf("train fraction %.3f outside (0, 1)", trainFraction)
	}
	if rng == nil {
		return Split{}, fmt.Errorf("nil random source")
	}

	trainSize := int(float64(n) * trainFraction)
	if trainSize == 0 || trainSize == n {
		return Split{}, fmt.Errorf("%w: %d rows at fraction %.3f leaves train=%d test=%d",
			ErrDegenerateSplit, n, trainFraction, trainSize, n-trainSize)
	}

	perm := rng.Perm(n)
	split := Split{
		Train: append([]int{}, perm[:trainSize]...),
		Test:  append([]int{}, perm[trainSize:]...),
	}

	// Sorted index sets make downstream iteration and logs deterministic.
	sort.Ints(split.Train)
	sort.Ints(split.Test)

	return split, nil
}
