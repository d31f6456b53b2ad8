package scales_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gradflow/scales"
)

// TestThresholdInterpolate_Identity verifies the exact-inverse property:
// interpolating the identity curve v[i] = t[i] to a threshold T inside
// the range returns T itself.
func TestThresholdInterpolate_Identity(t *testing.T) {
	times := make([]float64, 11)
	row := make([]float64, 11)
	for i := range times {
		times[i] = float64(i)
		row[i] = float64(i)
	}

	for _, threshold := range []float64{0.5, 2.5, 7.25, 9.9} {
		cross, err := scales.ThresholdInterpolate(times, [][]float64{row}, threshold)
		require.NoError(t, err)
		require.Len(t, cross.Times, 1)
		assert.InDelta(t, threshold, cross.Times[0], 1e-12, "threshold %g", threshold)
		assert.Equal(t, 0.0, cross.DroppedFraction)
	}
}

// TestThresholdInterpolate_AdaptiveGrid verifies that a non-uniform grid
// uses the local spacing in each bracket.
func TestThresholdInterpolate_AdaptiveGrid(t *testing.T) {
	times := []float64{0, 0.1, 0.3, 0.7, 1.5}
	row := []float64{0, 1, 2, 3, 4} // linear in index, not in time

	cross, err := scales.ThresholdInterpolate(times, [][]float64{row}, 2.5)
	require.NoError(t, err)
	require.Len(t, cross.Times, 1)
	// Halfway between v=2 (t=0.3) and v=3 (t=0.7).
	assert.InDelta(t, 0.5, cross.Times[0], 1e-12)
}

// TestThresholdInterpolate_StartsAbove verifies rejection of rows whose
// first sample already meets the threshold.
func TestThresholdInterpolate_StartsAbove(t *testing.T) {
	times := []float64{0, 1, 2}
	values := [][]float64{
		{0.0, 0.2, 0.6},
		{0.5, 0.6, 0.7}, // starts at the threshold
	}

	_, err := scales.ThresholdInterpolate(times, values, 0.5)
	assert.ErrorIs(t, err, scales.ErrStartsAboveThreshold)
}

// TestThresholdInterpolate_DroppedRows verifies that non-crossing rows
// are dropped with an observable fraction, not an error.
func TestThresholdInterpolate_DroppedRows(t *testing.T) {
	var captured []slog.Record
	scales.SetLogger(slog.New(recordHandler{records: &captured}))
	defer scales.SetLogger(nil)

	times := []float64{0, 1, 2, 3}
	values := [][]float64{
		{0, 1, 2, 3},       // crosses
		{0, 0.1, 0.2, 0.3}, // never crosses
		{0, 2, 2, 2},       // crosses
		{0, 0.3, 0.1, 0.2}, // never crosses
	}

	cross, err := scales.ThresholdInterpolate(times, values, 1.5)
	require.NoError(t, err)
	assert.Len(t, cross.Times, 2, "surviving rows only")
	assert.InDelta(t, 0.5, cross.DroppedFraction, 1e-12)
	require.Len(t, captured, 1, "one diagnostic warning")
	assert.Equal(t, slog.LevelWarn, captured[0].Level)
}

// TestThresholdInterpolate_NoneCross verifies the all-rows-fail error.
func TestThresholdInterpolate_NoneCross(t *testing.T) {
	times := []float64{0, 1, 2}
	values := [][]float64{{0, 0.1, 0.2}, {0, 0.2, 0.3}}

	cross, err := scales.ThresholdInterpolate(times, values, 5)
	assert.ErrorIs(t, err, scales.ErrThresholdNotReached)
	assert.Equal(t, 1.0, cross.DroppedFraction, "the whole input was dropped")
}

// TestThresholdInterpolate_ShapeMismatch verifies the row-shape guard.
func TestThresholdInterpolate_ShapeMismatch(t *testing.T) {
	_, err := scales.ThresholdInterpolate([]float64{0, 1, 2}, [][]float64{{0, 1}}, 0.5)
	assert.ErrorIs(t, err, scales.ErrShapeMismatch)

	_, err = scales.ThresholdInterpolate([]float64{0, 1, 2}, nil, 0.5)
	assert.ErrorIs(t, err, scales.ErrShapeMismatch)
}

// recordHandler captures slog records for assertions.
type recordHandler struct {
	records *[]slog.Record
}

func (h recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)

	return nil
}

func (h recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h recordHandler) WithGroup(string) slog.Handler { return h }
