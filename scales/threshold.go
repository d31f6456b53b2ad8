package scales

import (
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors for threshold interpolation.
var (
	// ErrStartsAboveThreshold indicates a row whose first sample already
	// meets the threshold, which the flow cannot have evolved up to.
	ErrStartsAboveThreshold = errors.New("scales: flow starts above threshold")

	// ErrThresholdNotReached indicates no row ever exceeds the threshold.
	ErrThresholdNotReached = errors.New("scales: threshold never reached")

	// ErrShapeMismatch indicates a values row whose length disagrees with
	// the time grid.
	ErrShapeMismatch = errors.New("scales: values shape does not match time grid")
)

// logger is the destination for non-fatal diagnostics. nil falls back to
// slog.Default at call time.
var logger *slog.Logger

// SetLogger routes the package's non-fatal diagnostics (dropped-row
// warnings) to l. Pass nil to restore slog.Default.
func SetLogger(l *slog.Logger) { logger = l }

func warn(msg string, args ...any) {
	l := logger
	if l == nil {
		l = slog.Default()
	}
	l.Warn(msg, args...)
}

// Crossing is the result of a threshold interpolation.
type Crossing struct {
	// Times holds one interpolated crossing time per surviving row, in
	// row order.
	Times []float64

	// DroppedFraction is the fraction of rows discarded because their
	// curve never exceeded the threshold.
	DroppedFraction float64
}

// ThresholdInterpolate finds, for each row of values, the flow time at
// which the row first crosses threshold, linearly interpolating between
// the bracketing samples. Row r of values samples a curve on the grid
// times; rows are bootstrap draws or individual configurations.
//
// Steps:
//  1. Reject the input if any row's first sample is already at or above
//     the threshold (ErrStartsAboveThreshold).
//  2. Per row, locate the first index whose value strictly exceeds the
//     threshold.
//  3. Rows that never cross are dropped; the dropped fraction is reported
//     via the package logger and in the result. If every row fails,
//     ErrThresholdNotReached.
//  4. For each surviving row solve the linear interpolation between the
//     bracketing samples: t_cross = t[i-1] + Δt·(threshold - v[i-1])/(v[i] - v[i-1]),
//     with Δt the local grid spacing (exact for adaptive grids too).
func ThresholdInterpolate(times []float64, values [][]float64, threshold float64) (Crossing, error) {
	if len(values) == 0 {
		return Crossing{}, fmt.Errorf("%w: no rows", ErrShapeMismatch)
	}
	for r, row := range values {
		if len(row) != len(times) {
			return Crossing{}, fmt.Errorf("%w: row %d has %d points, grid has %d",
				ErrShapeMismatch, r, len(row), len(times))
		}
		if row[0] >= threshold {
			return Crossing{}, fmt.Errorf("%w: row %d starts at %g, threshold %g",
				ErrStartsAboveThreshold, r, row[0], threshold)
		}
	}

	crossed := make([]float64, 0, len(values))
	dropped := 0
	for _, row := range values {
		idx := -1
		for i, v := range row {
			if v > threshold {
				idx = i

				break
			}
		}
		if idx < 0 {
			dropped++

			continue
		}

		// idx ≥ 1 because row[0] is below threshold.
		lo, hi := row[idx-1], row[idx]
		dt := times[idx] - times[idx-1]
		crossed = append(crossed, times[idx-1]+dt*(threshold-lo)/(hi-lo))
	}

	frac := float64(dropped) / float64(len(values))
	if len(crossed) == 0 {
		return Crossing{DroppedFraction: frac}, fmt.Errorf("%w: threshold %g",
			ErrThresholdNotReached, threshold)
	}
	if dropped > 0 {
		warn("some samples do not reach threshold",
			"threshold", threshold,
			"dropped_fraction", frac,
			"dropped", dropped,
			"total", len(values))
	}

	return Crossing{Times: crossed, DroppedFraction: frac}, nil
}
