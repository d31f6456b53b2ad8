// Package stats provides the resampling and autocorrelation machinery
// shared by all gradflow observables.
//
// Every public statistic is reported as an Estimate: a (central value,
// standard uncertainty) pair.
//
// Bootstrap contract:
//
//	Given an observable computed from N independent configurations, the
//	engine estimates its mean and standard error by drawing
//	DefaultResamples resamples of size N with replacement and reducing
//	the per-draw statistics, without assuming a parametric error model.
//
// Determinism:
//
//	All resampling functions accept an explicit *rand.Rand. Pass the
//	generator from FlowEnsemble.RNG for reproducible draws. A nil
//	generator falls back to a process-wide default that is seeded once
//	from the wall clock and is NOT reproducible across runs.
//
// Errors:
//
//	ErrEmptySeries - a statistic was requested of an empty series.
//	ErrRaggedInput - rows of a [member][time] array differ in length.
//	ErrShortSeries - the series is too short for the requested lags.
package stats
