// Package gradflow extracts physical observables from gradient-flow
// time-series data recorded for ensembles of lattice field-theory
// configurations.
//
// 🚀 What is gradflow?
//
//	A small, deterministic statistics library that brings together:
//		• Time-series containers: per-configuration flows aggregated into
//		  write-once-then-frozen ensembles on one shared time grid
//		• Bootstrap resampling: nonparametric errors for scalar and
//		  vector-valued observables, seeded per ensemble
//		• Scale setting: threshold-crossing interpolation for √(8t₀) and w₀
//		• Autocorrelation: empirical ACF + exponential decay-time fit
//		• Topological charge: integer binning and Gaussian distribution fits
//
// ✨ Why choose gradflow?
//
//   - Reproducible – every resampling draw uses a generator seeded from the
//     ensemble's own identity, never ambient global state
//   - Explicit errors – sentinel errors per failure mode, checked with errors.Is
//   - Careful numerics – exact constants for grid tolerance and degenerate-fit
//     policies, preserved from production analyses of real noisy data
//
// Under the hood, everything is organized under five subpackages:
//
//	flow/   — Flow, FlowEnsemble and the shared-time-grid data model
//	stats/  — bootstrap engine, Estimate pairs, autocorrelation estimator
//	fit/    — model forms and weighted Levenberg–Marquardt least squares
//	scales/ — threshold interpolation, t²E(t) curves, √(8t₀) and w₀
//	qtop/   — topological-charge history statistics and distribution fits
//
// Readers for specific log formats are intentionally external: anything that
// can produce Flow records with a consistent time grid can feed this library.
//
// Dive into examples/ for a complete synthetic-ensemble walkthrough.
//
//	go get github.com/katalvlaran/gradflow
package gradflow
