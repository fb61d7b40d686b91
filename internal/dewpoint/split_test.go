package dewpoint

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIndices_PartitionInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(DefaultSeed))

	split, err := SplitIndices(100, 0.7, rng)
	require.NoError(t, err)

	assert.Len(t, split.Train, 70)
	assert.Len(t, split.Test, 30)
	assert.True(t, split.IsValid(100))
}

func TestSplitIndices_ReproducibleForFixedSeed(t *testing.T) {
	a, err := SplitIndices(50, 0.7, rand.New(rand.NewSource(10)))
	require.NoError(t, err)
	b, err := SplitIndices(50, 0.7, rand.New(rand.NewSource(10)))
	require.NoError(t, err)

	assert.Equal(t, a.Train, b.Train)
	assert.Equal(t, a.Test, b.Test)
}

func TestSplitIndices_TrainSizeTruncates(t *testing.T) {
	// int(7 * 0.7) == 4: truncation, not rounding.
	split, err := SplitIndices(7, 0.7, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Len(t, split.Train, 4)
	assert.Len(t, split.Test, 3)
}

func TestSplitIndices_DegenerateSplit(t *testing.T) {
	// One row cannot produce a non-empty train and test set.
	_, err := SplitIndices(1, 0.7, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateSplit))
}

func TestSplitIndices_InvalidArguments(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name     string
		n        int
		fraction float64
	}{
		{"zero rows", 0, 0.7},
		{"negative rows", -5, 0.7},
		{"zero fraction", 10, 0},
		{"full fraction", 10, 1},
		{"fraction above one", 10, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitIndices(tt.n, tt.fraction, rng)
			assert.Error(t, err)
		})
	}

	_, err := SplitIndices(10, 0.7, nil)
	assert.Error(t, err)
}

func TestSplit_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		split Split
		n     int
		want  bool
	}{
		{"valid", Split{Train: []int{0, 2}, Test: []int{1}}, 3, true},
		{"empty test", Split{Train: []int{0, 1, 2}, Test: nil}, 3, false},
		{"overlap", Split{Train: []int{0, 1}, Test: []int{1}}, 3, false},
		{"out of range", Split{Train: []int{0, 3}, Test: []int{1}}, 3, false},
		{"wrong total", Split{Train: []int{0}, Test: []int{1}}, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.split.IsValid(tt.n))
		})
	}
}
