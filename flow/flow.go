package flow

import (
	"fmt"
	"math"
)

// Flow accumulates the gradient-flow series of a single configuration.
// It is built incrementally by a reader, one FlowStep at a time, and is
// consumed exactly once by FlowEnsemble.Append.
type Flow struct {
	// Trajectory is the Monte Carlo trajectory index of the configuration.
	Trajectory int

	// Ensemble is an optional stream label ("" when the source has none).
	Ensemble string

	times []float64
	eps   []float64
	ecs   []float64
	qs    []float64 // NaN marks an absent topological charge
}

// NewFlow returns an empty Flow for the given trajectory index.
func NewFlow(trajectory int) *Flow {
	return &Flow{Trajectory: trajectory}
}

// Append adds one flow-time sample to the configuration.
//
// The flow time must be monotonically non-decreasing across the sequence;
// a strictly decreasing step is a fatal construction error
// (ErrBackwardsFlow). A nil step charge is recorded as absent.
func (f *Flow) Append(step FlowStep) error {
	if n := len(f.times); n > 0 && step.T < f.times[n-1] {
		return fmt.Errorf("%w: trajectory %d: t=%g after t=%g",
			ErrBackwardsFlow, f.Trajectory, step.T, f.times[n-1])
	}

	f.times = append(f.times, step.T)
	f.eps = append(f.eps, step.Ep)
	f.ecs = append(f.ecs, step.Ec)
	if step.Q != nil {
		f.qs = append(f.qs, *step.Q)
	} else {
		f.qs = append(f.qs, math.NaN())
	}

	return nil
}

// Len reports the number of flow-time samples accumulated so far.
func (f *Flow) Len() int { return len(f.times) }

// Times returns a copy of the flow-time grid accumulated so far.
func (f *Flow) Times() []float64 {
	out := make([]float64, len(f.times))
	copy(out, f.times)

	return out
}
