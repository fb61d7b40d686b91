package dewpoint

import (
	"fmt"
	"math"
)

// ConstructTarget derives the dew-point-affected label for every enriched
// record, in place.
//
// The raw label is DeviationIVB + DeviationHB when that sum is negative and
// 0 otherwise: only pitches with reduced combined movement are candidates
// for a dew point effect. Raw labels are then rescaled by the global
// minimum (the most negative sum), mapping the most extreme case to 1.0,
// unaffected pitches to 0.0 and everything else into (0, 1).
//
// Records with a missing deviation keep NaN labels and are excluded from
// the minimum. If no record has a negative raw label the rescale divisor
// would be zero; ConstructTarget fails with ErrNoNegativeLabels instead of
// emitting NaN or Inf labels.
func ConstructTarget(enriched []EnrichedRecord) error {
	if len(enriched) == 0 {
		return fmt.Errorf("no enriched records to label")
	}

	minRaw := 0.0
	for i := range enriched {
		e := &enriched[i]
		if !e.HasDeviations() {
			e.RawAffected = math.NaN()
			e.Affected = math.NaN()
			continue
		}

		sum := e.DeviationIVB + e.DeviationHB
		if sum < 0 {
			e.RawAffected = sum
			if sum < minRaw {
				minRaw = sum
			}
		} else {
			e.RawAffected = 0
		}
	}

	if minRaw == 0 {
		return ErrNoNegativeLabels
	}

	for i := range enriched {
		e := &enriched[i]
		if math.IsNaN(e.RawAffected) {
			continue
		}
		e.Affected = e.RawAffected / minRaw
	}

	return nil
}
