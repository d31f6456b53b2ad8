// Package flow defines the gradient-flow time-series data model:
// per-configuration Flow records and the FlowEnsemble container that
// aggregates them over one shared flow-time grid.
//
// Lifecycle:
//
//  1. A reader builds a Flow incrementally, one FlowStep per flow time.
//  2. Each completed Flow is handed to FlowEnsemble.Append exactly once;
//     Append validates the time grid and per-array lengths, then takes
//     ownership of the numeric data.
//  3. Freeze makes the ensemble immutable; column accessors (Es, QHistory)
//     become available and further appends fail with ErrFrozen.
//
// Determinism:
//
//	RNG returns a fresh generator seeded from the ensemble's identity
//	(its source filename or equivalent handle), so any resampling driven
//	by it reproduces exactly on repeated runs over the same input.
//	The seed never depends on process-global random state.
//
// Errors:
//
//	ErrConsistency         - time grid or array lengths mismatch on Append.
//	ErrFrozen              - mutation attempted after Freeze.
//	ErrNotFrozen           - column accessor used before Freeze.
//	ErrBackwardsFlow       - a Flow's time sequence strictly decreases.
//	ErrInvalidOperator     - unrecognized energy-density operator.
//	ErrMissingMetadata     - lattice geometry absent when required.
//	ErrNonUniformStep      - scalar step queried on an adaptive grid.
//	ErrDuplicateTrajectory - repeated trajectory index within one stream.
//	ErrTimeBeforeFlow      - no sampled flow time at or below the query.
//	ErrMissingQ            - topological charge absent at the query time.
package flow
