package dewpoint

import (
	"fmt"
	"math"

	"dewcli/internal/pitch"
)

// BuildProfiles groups records by (pitcher, pitch type) and computes the
// mean induced vertical break and horizontal break per group.
//
// Under MissingSkip, NaN measurements are excluded from the means (a group
// whose measurements are all missing gets a NaN mean). Under MissingFail,
// the first missing measurement aborts profiling.
func BuildProfiles(records []pitch.Record, policy MissingPolicy) (map[ProfileKey]Profile, error) {
	if !policy.IsValid() {
		return nil, fmt.Errorf("unknown missing-value policy %q", policy)
	}

	type accumulator struct {
		sumIVB, sumHB     float64
		ivbCount, hbCount int
		count             int
	}
	groups := make(map[ProfileKey]*accumulator)

	for i, rec := range records {
		key := ProfileKey{PitcherKey: rec.PitcherKey, PitchType: rec.PitchType}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
		}
		acc.count++

		if math.IsNaN(rec.IVB) || math.IsNaN(rec.HB) {
			if policy == MissingFail {
				return nil, fmt.Errorf("missing break measurement at record %d (pitcher %s, pid %s)",
					i, rec.PitcherKey, rec.PID)
			}
		}
		if !math.IsNaN(rec.IVB) {
			acc.sumIVB += rec.IVB
			acc.ivbCount++
		}
		if !math.IsNaN(rec.HB) {
			acc.sumHB += rec.HB
			acc.hbCount++
		}
	}

	profiles := make(map[ProfileKey]Profile, len(groups))
	for key, acc := range groups {
		p := Profile{
			Key:      key,
			MeanIVB:  math.NaN(),
			MeanHB:   math.NaN(),
			Count:    acc.count,
			IVBCount: acc.ivbCount,
			HBCount:  acc.hbCount,
		}
		if acc.ivbCount > 0 {
			p.MeanIVB = acc.sumIVB / float64(acc.ivbCount)
		}
		if acc.hbCount > 0 {
			p.MeanHB = acc.sumHB / float64(acc.hbCount)
		}
		profiles[key] = p
	}

	return profiles, nil
}

// Enrich joins every record with its group profile and derives the
// deviation features. The join is exact on (pitcher, pitch type); a missing
// profile is an error rather than a silently dropped row, since every
// record contributes to its own group and a miss means corrupted state.
//
// The enriched set preserves input order and row count.
func Enrich(records []pitch.Record, profiles map[ProfileKey]Profile) ([]EnrichedRecord, error) {
	enriched := make([]EnrichedRecord, 0, len(records))

	for _, rec := range records {
		key := ProfileKey{PitcherKey: rec.PitcherKey, PitchType: rec.PitchType}
		profile, ok := profiles[key]
		if !ok {
			return nil, fmt.Errorf("%w: pitcher %s, pitch type %s",
				ErrProfileMiss, rec.PitcherKey, rec.PitchType)
		}

		e := EnrichedRecord{
			Record:       rec,
			MeanIVB:      profile.MeanIVB,
			MeanHB:       profile.MeanHB,
			DeviationIVB: math.Abs(rec.IVB) - math.Abs(profile.MeanIVB),
			DeviationHB:  math.Abs(rec.HB) - math.Abs(profile.MeanHB),
		}
		enriched = append(enriched, e)
	}

	return enriched, nil
}
