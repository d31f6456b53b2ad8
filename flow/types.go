package flow

import (
	"errors"
	"fmt"
)

// Sentinel errors for the flow data model.
var (
	// ErrConsistency indicates a Flow whose time grid or array lengths
	// disagree with the ensemble. The wrapping error names the trajectory.
	ErrConsistency = errors.New("flow: inconsistent flow")

	// ErrFrozen indicates an append attempted after Freeze.
	ErrFrozen = errors.New("flow: ensemble is frozen")

	// ErrNotFrozen indicates a column accessor used before Freeze.
	ErrNotFrozen = errors.New("flow: ensemble is not frozen")

	// ErrBackwardsFlow indicates a flow-time sequence that strictly decreases.
	ErrBackwardsFlow = errors.New("flow: flow time goes backwards")

	// ErrInvalidOperator indicates an unrecognized energy-density operator.
	ErrInvalidOperator = errors.New("flow: invalid energy-density operator")

	// ErrMissingMetadata indicates absent lattice geometry where it is required.
	ErrMissingMetadata = errors.New("flow: lattice geometry metadata missing")

	// ErrNonUniformStep indicates a scalar step-size query on an adaptive grid.
	ErrNonUniformStep = errors.New("flow: time grid is not uniform")

	// ErrDuplicateTrajectory indicates a repeated trajectory index in one stream.
	ErrDuplicateTrajectory = errors.New("flow: duplicate trajectory in stream")

	// ErrTimeBeforeFlow indicates no sampled time at or below the query time.
	ErrTimeBeforeFlow = errors.New("flow: query time precedes first flow time")

	// ErrMissingQ indicates the topological charge is absent at the query time.
	ErrMissingQ = errors.New("flow: topological charge missing")
)

// Operator selects which discretization of the energy density to read.
// The two discretizations measure the same continuum observable and are
// used as a cross-check on each other.
type Operator int

const (
	// OpPlaquette selects the plaquette energy density ("plaq").
	OpPlaquette Operator = iota

	// OpClover selects the clover/symmetric energy density ("sym").
	OpClover
)

// String returns the canonical short tag for the operator.
func (op Operator) String() string {
	switch op {
	case OpPlaquette:
		return "plaq"
	case OpClover:
		return "sym"
	default:
		return fmt.Sprintf("operator(%d)", int(op))
	}
}

// ParseOperator maps the canonical short tags to Operator values.
// Any other tag fails with ErrInvalidOperator.
func ParseOperator(tag string) (Operator, error) {
	switch tag {
	case "plaq":
		return OpPlaquette, nil
	case "sym":
		return OpClover, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOperator, tag)
	}
}

// FlowStep is one flow-time sample of a single configuration.
//
//   - T  — flow time (monotonically non-decreasing within a Flow).
//   - Ep — plaquette energy density.
//   - Ec — clover/symmetric energy density.
//   - Q  — topological charge; nil when the log format omits it.
//     A present zero charge is distinct from an absent one.
type FlowStep struct {
	T  float64
	Ep float64
	Ec float64
	Q  *float64
}

// Metadata holds lattice geometry and optional run parameters for an ensemble.
// A zero spatial or temporal extent means the geometry is unknown.
type Metadata struct {
	NX, NY, NZ, NT int

	// Extra carries run parameters (couplings, masses, ...) verbatim.
	Extra map[string]string
}

// Member identifies one ensemble member by stream label and trajectory index.
type Member struct {
	Ensemble   string
	Trajectory int
}

// Group is one stream of an ensemble: all members sharing a label, in
// append order, with their row indices into the ensemble arrays.
type Group struct {
	Label   string
	Indices []int
}

// DefaultStepRelTol is the relative tolerance within which the time grid
// must be uniform for the scalar step size H to be defined.
const DefaultStepRelTol = 1e-5
