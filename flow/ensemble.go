package flow

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// FlowEnsemble aggregates the flows of many configurations sharing one
// common flow-time grid into [member][time] arrays.
//
// The container is write-once-then-frozen: Append validates and absorbs
// Flow data until Freeze is called, after which the ensemble is immutable
// and the column accessors (Es, QHistory) become available.
type FlowEnsemble struct {
	// Metadata holds lattice geometry and run parameters.
	Metadata Metadata

	// identity is the source filename (or equivalent handle) of the
	// ensemble; it deterministically seeds the private RNG.
	identity string

	members []Member
	times   []float64
	eps     [][]float64
	ecs     [][]float64
	qs      [][]float64

	frozen bool
}

// NewFlowEnsemble returns an empty ensemble whose resampling generator is
// seeded from identity (typically the source filename).
func NewFlowEnsemble(identity string) *FlowEnsemble {
	return &FlowEnsemble{identity: identity}
}

// Identity returns the handle the ensemble's RNG seed derives from.
func (fe *FlowEnsemble) Identity() string { return fe.identity }

// Append validates one configuration's Flow against the ensemble and
// absorbs its numeric data. The Flow is not retained.
//
// Validation:
//   - the ensemble must not be frozen (ErrFrozen);
//   - the flow's time grid must equal the established grid by value
//     (ErrConsistency naming the trajectory);
//   - all per-step arrays must match the flow's own grid length
//     (ErrConsistency naming the trajectory).
//
// The first appended flow establishes the common grid.
func (fe *FlowEnsemble) Append(f *Flow) error {
	if fe.frozen {
		return fmt.Errorf("%w: cannot append trajectory %d", ErrFrozen, f.Trajectory)
	}

	if len(f.eps) != len(f.times) || len(f.ecs) != len(f.times) || len(f.qs) != len(f.times) {
		return fmt.Errorf("%w: trajectory %d: arrays not a consistent length",
			ErrConsistency, f.Trajectory)
	}

	if fe.times == nil {
		fe.times = append([]float64(nil), f.times...)
	} else if !floats.Equal(f.times, fe.times) {
		return fmt.Errorf("%w: trajectory %d: time grid differs from ensemble",
			ErrConsistency, f.Trajectory)
	}

	fe.members = append(fe.members, Member{Ensemble: f.Ensemble, Trajectory: f.Trajectory})
	fe.eps = append(fe.eps, append([]float64(nil), f.eps...))
	fe.ecs = append(fe.ecs, append([]float64(nil), f.ecs...))
	fe.qs = append(fe.qs, append([]float64(nil), f.qs...))

	return nil
}

// Freeze makes the ensemble immutable. After Freeze, Append fails with
// ErrFrozen and the column accessors become available.
//
// Freezing an already-frozen ensemble is a no-op.
func (fe *FlowEnsemble) Freeze() {
	fe.frozen = true
}

// Frozen reports whether Freeze has been called.
func (fe *FlowEnsemble) Frozen() bool { return fe.frozen }

// NMembers reports the number of configurations in the ensemble.
func (fe *FlowEnsemble) NMembers() int { return len(fe.members) }

// NTimes reports the number of points on the shared flow-time grid.
func (fe *FlowEnsemble) NTimes() int { return len(fe.times) }

// Members returns a copy of the (stream label, trajectory) pairs in
// append order, one per ensemble member.
func (fe *FlowEnsemble) Members() []Member {
	out := make([]Member, len(fe.members))
	copy(out, fe.members)

	return out
}

// Times returns a copy of the shared flow-time grid.
func (fe *FlowEnsemble) Times() []float64 {
	out := make([]float64, len(fe.times))
	copy(out, fe.times)

	return out
}

// H returns the scalar step size of a uniform time grid.
//
// The grid counts as uniform when every spacing equals the first one to
// within DefaultStepRelTol relative tolerance; otherwise ErrNonUniformStep
// is returned and callers must fall back to StepSizes.
func (fe *FlowEnsemble) H() (float64, error) {
	if len(fe.times) < 2 {
		return 0, fmt.Errorf("%w: fewer than two flow times", ErrNonUniformStep)
	}

	h := fe.times[1] - fe.times[0]
	for i := 2; i < len(fe.times); i++ {
		if !scalar.EqualWithinRel(fe.times[i]-fe.times[i-1], h, DefaultStepRelTol) {
			return 0, fmt.Errorf("%w: spacing %g at index %d vs step %g",
				ErrNonUniformStep, fe.times[i]-fe.times[i-1], i, h)
		}
	}

	return h, nil
}

// StepSizes returns the element-wise spacings of the time grid
// (length NTimes-1). It is valid for adaptive grids.
func (fe *FlowEnsemble) StepSizes() []float64 {
	if len(fe.times) < 2 {
		return nil
	}
	out := make([]float64, len(fe.times)-1)
	for i := range out {
		out[i] = fe.times[i+1] - fe.times[i]
	}

	return out
}

// Es returns the [member][time] energy-density array selected by op.
// The returned rows are the frozen internal arrays; callers must treat
// them as read-only.
func (fe *FlowEnsemble) Es(op Operator) ([][]float64, error) {
	if !fe.frozen {
		return nil, ErrNotFrozen
	}

	switch op {
	case OpPlaquette:
		return fe.eps, nil
	case OpClover:
		return fe.ecs, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidOperator, op)
	}
}

// QHistory returns, for every ensemble member, the topological charge
// sampled at the flow time nearest to but not exceeding t.
//
// Fails with ErrTimeBeforeFlow if no sampled time is ≤ t, and with
// ErrMissingQ if the charge is absent at the selected time for any member.
func (fe *FlowEnsemble) QHistory(t float64) ([]float64, error) {
	if !fe.frozen {
		return nil, ErrNotFrozen
	}

	idx := -1
	for i, ti := range fe.times {
		if ti <= t {
			idx = i
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: t=%g", ErrTimeBeforeFlow, t)
	}

	out := make([]float64, len(fe.qs))
	for m, row := range fe.qs {
		if math.IsNaN(row[idx]) {
			return nil, fmt.Errorf("%w: trajectory %d at t=%g",
				ErrMissingQ, fe.members[m].Trajectory, fe.times[idx])
		}
		out[m] = row[idx]
	}

	return out, nil
}

// HalfLatticeTime computes the flow time t = min(NX,NY,NZ)²/32 implied by
// the half-lattice rule √(8t) ≤ L/2, where L is the shortest spatial
// extent. This defines the physical regularization scale for charge
// measurements. Fails with ErrMissingMetadata when geometry is unknown.
func (fe *FlowEnsemble) HalfLatticeTime() (float64, error) {
	nx, ny, nz := fe.Metadata.NX, fe.Metadata.NY, fe.Metadata.NZ
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return 0, fmt.Errorf("%w: NX,NY,NZ required for the half-lattice rule",
			ErrMissingMetadata)
	}

	l := float64(min(nx, ny, nz))

	return l * l / 32, nil
}

// QHistoryL2 is QHistory evaluated at the half-lattice flow time.
func (fe *FlowEnsemble) QHistoryL2() ([]float64, error) {
	t, err := fe.HalfLatticeTime()
	if err != nil {
		return nil, err
	}

	return fe.QHistory(t)
}

// GroupByEnsemble partitions the members by stream label, in sorted-label
// order, for downstream per-stream statistics. A repeated trajectory
// index within one stream fails with ErrDuplicateTrajectory.
func (fe *FlowEnsemble) GroupByEnsemble() ([]Group, error) {
	byLabel := make(map[string][]int)
	for i, m := range fe.members {
		byLabel[m.Ensemble] = append(byLabel[m.Ensemble], i)
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	groups := make([]Group, 0, len(labels))
	for _, label := range labels {
		indices := byLabel[label]
		seen := make(map[int]struct{}, len(indices))
		for _, i := range indices {
			traj := fe.members[i].Trajectory
			if _, dup := seen[traj]; dup {
				return nil, fmt.Errorf("%w: trajectory %d in stream %q",
					ErrDuplicateTrajectory, traj, label)
			}
			seen[traj] = struct{}{}
		}
		groups = append(groups, Group{Label: label, Indices: indices})
	}

	return groups, nil
}

// Seed returns the deterministic 64-bit seed derived from the ensemble
// identity (FNV-1a). Equal identities always yield equal seeds.
func (fe *FlowEnsemble) Seed() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fe.identity))

	return h.Sum64()
}

// RNG returns a fresh random generator seeded from the ensemble identity.
// Every call restarts the stream, so repeated runs over the same input
// reproduce identical resampling draws. The seed does not depend on
// process-global random state or on how many workers are running.
func (fe *FlowEnsemble) RNG() *rand.Rand {
	return rand.New(rand.NewSource(fe.Seed()))
}
