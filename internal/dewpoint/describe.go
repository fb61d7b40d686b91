package dewpoint

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"dewcli/internal/pitch"
)

// ColumnSummary holds descriptive statistics for one numeric column,
// computed over non-missing values only.
type ColumnSummary struct {
	Name     string
	Count    int
	Missing  int
	Mean     float64
	Median   float64
	StdDev   float64
	Min      float64
	Max      float64
	Skewness float64
}

// DatasetSummary is the descriptive-analysis output for the loaded data.
type DatasetSummary struct {
	Rows            int
	Columns         []ColumnSummary
	PitcherCount    int
	PitchTypeCount  int
	PitchTypeCounts map[string]int
}

// numericColumns maps column names to their extractors, in report order.
var numericColumns = []struct {
	name    string
	extract func(pitch.Record) float64
}{
	{pitch.ColIVB, func(r pitch.Record) float64 { return r.IVB }},
	{pitch.ColHB, func(r pitch.Record) float64 { return r.HB }},
	{pitch.ColSpinRate, func(r pitch.Record) float64 { return r.SpinRate }},
	{pitch.ColReleaseSpeed, func(r pitch.Record) float64 { return r.ReleaseSpeed }},
	{pitch.ColHApproachAngle, func(r pitch.Record) float64 { return r.HApproachAngle }},
	{pitch.ColVApproachAngle, func(r pitch.Record) float64 { return r.VApproachAngle }},
}

// Describe computes summary statistics, missingness and cardinality counts
// for the dataset.
func Describe(records []pitch.Record) DatasetSummary {
	summary := DatasetSummary{
		Rows:            len(records),
		PitchTypeCounts: make(map[string]int),
	}

	pitchers := make(map[string]bool)
	for _, rec := range records {
		pitchers[rec.PitcherKey] = true
		summary.PitchTypeCounts[rec.PitchType]++
	}
	summary.PitcherCount = len(pitchers)
	summary.PitchTypeCount = len(summary.PitchTypeCounts)

	for _, col := range numericColumns {
		values := make([]float64, 0, len(records))
		missing := 0
		for _, rec := range records {
			v := col.extract(rec)
			if math.IsNaN(v) {
				missing++
				continue
			}
			values = append(values, v)
		}
		summary.Columns = append(summary.Columns, summarizeColumn(col.name, values, missing))
	}

	return summary
}

// summarizeColumn computes the per-column statistics over present values.
func summarizeColumn(name string, values []float64, missing int) ColumnSummary {
	cs := ColumnSummary{
		Name:     name,
		Count:    len(values),
		Missing:  missing,
		Mean:     math.NaN(),
		Median:   math.NaN(),
		StdDev:   math.NaN(),
		Min:      math.NaN(),
		Max:      math.NaN(),
		Skewness: math.NaN(),
	}
	if len(values) == 0 {
		return cs
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	cs.Mean = stat.Mean(values, nil)
	cs.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	cs.Min = sorted[0]
	cs.Max = sorted[len(sorted)-1]
	if len(values) > 1 {
		cs.StdDev = stat.StdDev(values, nil)
	}
	if len(values) > 2 {
		cs.Skewness = stat.Skew(values, nil)
	}

	return cs
}
