package dewpoint

import (
	"errors"
	"math"

	"dewcli/internal/pitch"
)

// Fixed analysis parameters of the study design.
const (
	// DefaultTrainFraction is the share of rows sampled into the training set.
	DefaultTrainFraction = 0.7
	// DefaultSeed seeds the split and bagging random sources.
	DefaultSeed = 10
	// DefaultTreeCount is the ensemble size.
	DefaultTreeCount = 100
)

// FeatureNames are the two model inputs, in design-matrix order.
var FeatureNames = []string{"DIFF_IVB", "DIFF_HB"}

// Sentinel errors for the guard conditions the pipeline must fail fast on.
var (
	// ErrNoNegativeLabels means rescaling would divide by zero because no
	// pitch showed reduced combined movement.
	ErrNoNegativeLabels = errors.New("no negative raw labels: cannot rescale dew point target")
	// ErrDegenerateSplit means the train or test partition came out empty.
	ErrDegenerateSplit = errors.New("degenerate train/test split")
	// ErrProfileMiss means an enriched record found no movement profile for
	// its (pitcher, pitch type) key, which well-formed grouping rules out.
	ErrProfileMiss = errors.New("pitch has no matching movement profile")
)

// MissingPolicy controls how missing break measurements are treated when
// profiles are aggregated.
type MissingPolicy string

const (
	// MissingSkip excludes NaN measurements from group means.
	MissingSkip MissingPolicy = "skip"
	// MissingFail aborts profiling when any measurement is missing.
	MissingFail MissingPolicy = "fail"
)

// IsValid reports whether the policy is one of the supported modes.
func (p MissingPolicy) IsValid() bool {
	return p == MissingSkip || p == MissingFail
}

// ProfileKey identifies a pitcher's typical movement for one pitch type.
type ProfileKey struct {
	PitcherKey string
	PitchType  string
}

// Profile holds the mean movement for a (pitcher, pitch type) group,
// computed over non-missing measurements.
type Profile struct {
	Key     ProfileKey
	MeanIVB float64
	MeanHB  float64
	// Count is the number of records in the group; IVBCount and HBCount are
	// the non-missing measurements each mean was computed over.
	Count    int
	IVBCount int
	HBCount  int
}

// EnrichedRecord is a pitch joined with its movement profile plus the
// derived deviation features and the constructed label.
type EnrichedRecord struct {
	pitch.Record

	MeanIVB float64
	MeanHB  float64

	// DeviationIVB = |IVB| - |MeanIVB|; positive means the pitch moved more
	// than the pitcher's typical pitch of this type. DeviationHB analogous.
	DeviationIVB float64
	DeviationHB  float64

	// RawAffected is DeviationIVB+DeviationHB clamped to the negative
	// region (non-negative sums become 0). Affected is RawAffected rescaled
	// into [0,1] by the global minimum raw label.
	RawAffected float64
	Affected    float64
}

// Features returns the model input vector for this record.
func (e EnrichedRecord) Features() []float64 {
	return []float64{e.DeviationIVB, e.DeviationHB}
}

// HasDeviations reports whether both deviation features are present.
// Records with a missing break measurement carry NaN deviations and are
// excluded from model fitting.
func (e EnrichedRecord) HasDeviations() bool {
	return !math.IsNaN(e.DeviationIVB) && !math.IsNaN(e.DeviationHB)
}
