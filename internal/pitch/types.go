package pitch

import "math"

// Record represents a single tracked pitch from the input dataset.
// Numeric fields use NaN to mark measurements that were missing in the
// source CSV; consumers decide how missing values are handled.
type Record struct {
	PitcherKey     string  `json:"pitcher_key"`
	PID            string  `json:"pid"`
	PitchType      string  `json:"pitch_type"`
	IVB            float64 `json:"induced_vertical_break"`
	HB             float64 `json:"horizontal_break"`
	SpinRate       float64 `json:"spin_rate"`
	ReleaseSpeed   float64 `json:"release_speed"`
	HApproachAngle float64 `json:"horizontal_approach_angle"`
	VApproachAngle float64 `json:"vertical_approach_angle"`
}

// IsValid checks that the record carries the identifiers every downstream
// stage keys on. Movement fields may legitimately be NaN.
func (r Record) IsValid() bool {
	return r.PitcherKey != "" && r.PID != "" && r.PitchType != ""
}

// HasMovement reports whether both break measurements are present.
// Records without movement cannot contribute to profiles or deviations.
func (r Record) HasMovement() bool {
	return !math.IsNaN(r.IVB) && !math.IsNaN(r.HB)
}
