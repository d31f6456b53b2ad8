// Package scales implements gradient-flow scale setting: it locates the
// flow time at which a derived observable first crosses a fixed threshold
// and turns that crossing into the scale observables √(8t₀) and w₀.
//
// The interpolation primitive works row-wise — one row per bootstrap
// draw (or per configuration) — so uncertainties propagate through the
// exposed resample axis:
//
//	√(8t₀): bootstrap-resample t²E(t), solve t²E(t_cross) = E₀ per draw,
//	        report √(8·t_cross) finalized over draws.
//	w₀:     same pattern with the curve t·d(t²E)/dt (centered finite
//	        difference) against W₀, reporting √t_cross.
//
// Rows whose curve never crosses the threshold are dropped with a warning
// (see SetLogger) and the dropped fraction is returned alongside the
// crossing times; losing every row is ErrThresholdNotReached.
//
// Errors:
//
//	ErrStartsAboveThreshold - some row begins at or above the threshold,
//	                          so the flow never evolves up to it.
//	ErrThresholdNotReached  - no row crosses the threshold.
//	ErrShapeMismatch        - a values row disagrees with the time grid.
package scales
