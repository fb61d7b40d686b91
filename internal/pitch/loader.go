package pitch

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

// Column names required in the input CSV. The loader fails fast when any
// of them is absent from the header row.
const (
	ColPitcherKey     = "PITCHER_KEY"
	ColPID            = "PID"
	ColPitchType      = "PITCH_TYPE_TRACKED_KEY"
	ColIVB            = "INDUCED_VERTICAL_BREAK"
	ColHB             = "HORIZONTAL_BREAK"
	ColSpinRate       = "SPIN_RATE_ABSOLUTE"
	ColReleaseSpeed   = "RELEASE_SPEED"
	ColHApproachAngle = "HORIZONTAL_APPROACH_ANGLE"
	ColVApproachAngle = "VERTICAL_APPROACH_ANGLE"
)

// RequiredColumns lists every column the pipeline depends on, in the order
// they are reported when validation fails.
var RequiredColumns = []string{
	ColPitcherKey,
	ColPID,
	ColPitchType,
	ColIVB,
	ColHB,
	ColSpinRate,
	ColReleaseSpeed,
	ColHApproachAngle,
	ColVApproachAngle,
}

// MissingColumnError reports a required column absent from the CSV header.
type MissingColumnError struct {
	Column string
}

// Error implements the error interface.
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("input is missing required column %q", e.Column)
}

// LoadCSV reads the pitch dataset from csvPath.
//
// Behavior:
//   - a required column missing from the header is a *MissingColumnError
//   - an empty numeric cell becomes NaN (missing measurement)
//   - a malformed numeric cell is an error naming the column and line
//   - empty identifier cells (pitcher, PID, pitch type) are an error
//
// Unlike lenient loaders that skip bad rows, any malformed row aborts the
// load: a single-shot analysis must not silently thin its input.
func LoadCSV(csvPath string, logger *slog.Logger) ([]Record, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record (line %d): %w", line+1, err)
		}
		line++

		rec, err := parseRecord(row, idx, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no pitch records found in %s", csvPath)
	}

	logger.Info("loaded pitch data",
		"path", csvPath,
		"records", len(records),
	)

	return records, nil
}

// indexColumns maps required column names to their header positions and
// validates that every required column is present.
func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}

	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}

	return idx, nil
}

// parseRecord converts a single CSV row into a Record.
func parseRecord(row []string, idx map[string]int, line int) (Record, error) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := Record{
		PitcherKey: cell(ColPitcherKey),
		PID:        cell(ColPID),
		PitchType:  cell(ColPitchType),
	}
	if !rec.IsValid() {
		return Record{}, fmt.Errorf("empty identifier field (line %d)", line)
	}

	numeric := []struct {
		col string
		dst *float64
	}{
		{ColIVB, &rec.IVB},
		{ColHB, &rec.HB},
		{ColSpinRate, &rec.SpinRate},
		{ColReleaseSpeed, &rec.ReleaseSpeed},
		{ColHApproachAngle, &rec.HApproachAngle},
		{ColVApproachAngle, &rec.VApproachAngle},
	}

	for _, f := range numeric {
		v, err := parseFloatCell(cell(f.col), f.col, line)
		if err != nil {
			return Record{}, err
		}
		*f.dst = v
	}

	return rec, nil
}

// parseFloatCell parses a numeric cell, treating empty and "NA" cells as a
// missing measurement (NaN).
func parseFloatCell(s, col string, line int) (float64, error) {
	if s == "" || strings.EqualFold(s, "NA") {
		return math.NaN(), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s (line %d): %w", col, line, err)
	}

	return v, nil
}
