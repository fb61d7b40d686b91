package dewpoint

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dewcli/internal/pitch"
)

func TestBuildProfiles_GroupMeans(t *testing.T) {
	records := []pitch.Record{
		{PitcherKey: "p1", PID: "a", PitchType: "FB", IVB: 16, HB: -8},
		{PitcherKey: "p1", PID: "b", PitchType: "FB", IVB: 14, HB: -6},
		{PitcherKey: "p1", PID: "c", PitchType: "SL", IVB: 2, HB: 4},
		{PitcherKey: "p2", PID: "d", PitchType: "FB", IVB: 12, HB: -10},
	}

	profiles, err := BuildProfiles(records, MissingSkip)
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	fb := profiles[ProfileKey{PitcherKey: "p1", PitchType: "FB"}]
	assert.InDelta(t, 15.0, fb.MeanIVB, 1e-9)
	assert.InDelta(t, -7.0, fb.MeanHB, 1e-9)
	assert.Equal(t, 2, fb.Count)
	assert.Equal(t, 2, fb.IVBCount)
	assert.Equal(t, 2, fb.HBCount)

	sl := profiles[ProfileKey{PitcherKey: "p1", PitchType: "SL"}]
	assert.InDelta(t, 2.0, sl.MeanIVB, 1e-9)
	assert.Equal(t, 1, sl.Count)
}

func TestBuildProfiles_SkipPolicyExcludesMissing(t *testing.T) {
	records := []pitch.Record{
		{PitcherKey: "p1", PID: "a", PitchType: "FB", IVB: 16, HB: math.NaN()},
		{PitcherKey: "p1", PID: "b", PitchType: "FB", IVB: 14, HB: -6},
	}

	profiles, err := BuildProfiles(records, MissingSkip)
	require.NoError(t, err)

	fb := profiles[ProfileKey{PitcherKey: "p1", PitchType: "FB"}]
	assert.InDelta(t, 15.0, fb.MeanIVB, 1e-9)
	// Mean over the single present HB measurement.
	assert.InDelta(t, -6.0, fb.MeanHB, 1e-9)
	assert.Equal(t, 2, fb.Count)
	assert.Equal(t, 1, fb.HBCount)
}

func TestBuildProfiles_AllMissingGroupGetsNaNMean(t *testing.T) {
	records := []pitch.Record{
		{PitcherKey: "p1", PID: "a", PitchType: "FB", IVB: math.NaN(), HB: -6},
	}

	profiles, err := BuildProfiles(records, MissingSkip)
	require.NoError(t, err)

	fb := profiles[ProfileKey{PitcherKey: "p1", PitchType: "FB"}]
	assert.True(t, math.IsNaN(fb.MeanIVB))
	assert.InDelta(t, -6.0, fb.MeanHB, 1e-9)
}

func TestBuildProfiles_FailPolicy(t *testing.T) {
	records := []pitch.Record{
		{PitcherKey: "p1", PID: "a", PitchType: "FB", IVB: 16, HB: -8},
		{PitcherKey: "p1", PID: "b", PitchType: "FB", IVB: math.NaN(), HB: -6},
	}

	_, err := BuildProfiles(records, MissingFail)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing break measurement")
}

func TestBuildProfiles_UnknownPolicy(t *testing.T) {
	_, err := BuildProfiles(nil, MissingPolicy("drop"))
	assert.Error(t, err)
}

func TestEnrich_DeviationsUseAbsoluteMovement(t *testing.T) {
	records := []pitch.Record{
		// Negative HB: deviations compare magnitudes, not signed values.
		{PitcherKey: "p1", PID: "a", PitchType: "FB", IVB: 16, HB: -8},
		{PitcherKey: "p1", PID: "b", PitchType: "FB", IVB: 14, HB: -6},
	}
	profiles, err := BuildProfiles(records, MissingSkip)
	require.NoError(t, err)

	enriched, err := Enrich(records, profiles)
	require.NoError(t, err)
	require.Len(t, enriched, 2)

	// Group means: IVB 15, HB -7.
	assert.InDelta(t, 1.0, enriched[0].DeviationIVB, 1e-9)  // |16|-|15|
	assert.InDelta(t, 1.0, enriched[0].DeviationHB, 1e-9)   // |-8|-|-7|
	assert.InDelta(t, -1.0, enriched[1].DeviationIVB, 1e-9) // |14|-|15|
	assert.InDelta(t, -1.0, enriched[1].DeviationHB, 1e-9)  // |-6|-|-7|

	assert.Equal(t, "a", enriched[0].PID, "enrichment preserves input order")
}

func TestEnrich_MissingMovementYieldsNaNDeviation(t *testing.T) {
	records := []pitch.Record{
		{PitcherKey: "p1", PID: "a", PitchType: "FB", IVB: math.NaN(), HB: -8},
		{PitcherKey: "p1", PID: "b", PitchType: "FB", IVB: 14, HB: -6},
	}
	profiles, err := BuildProfiles(records, MissingSkip)
	require.NoError(t, err)

	enriched, err := Enrich(records, profiles)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(enriched[0].DeviationIVB))
	assert.False(t, math.IsNaN(enriched[0].DeviationHB))
	assert.False(t, enriched[0].HasDeviations())
	assert.True(t, enriched[1].HasDeviations())
}

func TestEnrich_ProfileMiss(t *testing.T) {
	records := []pitch.Record{
		{PitcherKey: "p1", PID: "a", PitchType: "FB", IVB: 16, HB: -8},
	}

	_, err := Enrich(records, map[ProfileKey]Profile{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProfileMiss))
}
