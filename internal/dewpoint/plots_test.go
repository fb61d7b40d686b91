package dewpoint

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dewcli/internal/pitch"
)

func TestRenderHistograms(t *testing.T) {
	outDir := t.TempDir()

	require.NoError(t, RenderHistograms(syntheticPitches(), outDir))

	for _, col := range []string{pitch.ColIVB, pitch.ColHB, pitch.ColSpinRate} {
		path := filepath.Join(outDir, histFileName(col))
		info, err := os.Stat(path)
		require.NoError(t, err, "expected %s", path)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRenderHistograms_SkipsAllMissingColumn(t *testing.T) {
	records := syntheticPitches()
	for i := range records {
		records[i].SpinRate = math.NaN()
	}
	outDir := t.TempDir()

	require.NoError(t, RenderHistograms(records, outDir))

	_, err := os.Stat(filepath.Join(outDir, histFileName(pitch.ColSpinRate)))
	assert.True(t, os.IsNotExist(err), "all-missing column renders nothing")

	_, err = os.Stat(filepath.Join(outDir, histFileName(pitch.ColIVB)))
	assert.NoError(t, err)
}

func TestRenderEvaluationPlots(t *testing.T) {
	result := runPipeline(t)
	outDir := t.TempDir()

	require.NoError(t, RenderEvaluationPlots(result, outDir))

	for _, name := range []string{
		"linear_pred_vs_actual.png",
		"ensemble_pred_vs_actual.png",
		"linear_residuals.png",
	} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, "expected %s", name)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRenderEvaluationPlots_NoResult(t *testing.T) {
	assert.Error(t, RenderEvaluationPlots(nil, t.TempDir()))
	assert.Error(t, RenderEvaluationPlots(&Result{}, t.TempDir()))
}
