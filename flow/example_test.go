package flow_test

import (
	"fmt"

	"github.com/katalvlaran/gradflow/flow"
)

// ExampleFlowEnsemble demonstrates the full lifecycle: build flows step
// by step, aggregate them on one grid, freeze, then read a charge history.
func ExampleFlowEnsemble() {
	fe := flow.NewFlowEnsemble("runs/demo.log")
	fe.Metadata = flow.Metadata{NX: 4, NY: 4, NZ: 4, NT: 8}

	for traj := 0; traj < 3; traj++ {
		f := flow.NewFlow(traj)
		for i := 0; i < 6; i++ {
			q := float64(traj - 1)
			_ = f.Append(flow.FlowStep{
				T:  0.1 * float64(i),
				Ep: 0.02 * float64(i),
				Ec: 0.019 * float64(i),
				Q:  &q,
			})
		}
		if err := fe.Append(f); err != nil {
			fmt.Println("append:", err)

			return
		}
	}
	fe.Freeze()

	// The half-lattice rule places t = min(L)²/32 = 0.5.
	halfL, _ := fe.HalfLatticeTime()
	qs, _ := fe.QHistory(halfL)
	fmt.Printf("members=%d times=%d t=%.2f Q=%v\n", fe.NMembers(), fe.NTimes(), halfL, qs)
	// Output:
	// members=3 times=6 t=0.50 Q=[-1 0 1]
}
