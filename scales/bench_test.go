package scales_test

import (
	"testing"

	"github.com/katalvlaran/gradflow/flow"
	"github.com/katalvlaran/gradflow/scales"
)

// benchmarkEnsemble builds a frozen 100-member ensemble on a 21-point grid.
func benchmarkEnsemble(b *testing.B) *flow.FlowEnsemble {
	b.Helper()

	fe := flow.NewFlowEnsemble("runs/bench.log")
	for m := 0; m < 100; m++ {
		f := flow.NewFlow(m)
		offset := (float64(m%10) - 4.5) / 100
		for j := 0; j <= 20; j++ {
			t := 0.1 * float64(j)
			e := 1.0
			if j > 0 {
				e = 0.25 * (1 + offset) / t
			}
			if err := f.Append(flow.FlowStep{T: t, Ep: e, Ec: e}); err != nil {
				b.Fatalf("append step: %v", err)
			}
		}
		if err := fe.Append(f); err != nil {
			b.Fatalf("append flow: %v", err)
		}
	}
	fe.Freeze()

	return fe
}

// BenchmarkMeasureSqrt8T0 measures the full resample-and-interpolate
// pipeline for the t₀ scale.
func BenchmarkMeasureSqrt8T0(b *testing.B) {
	fe := benchmarkEnsemble(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := scales.MeasureSqrt8T0(fe, 0.3, flow.OpClover); err != nil {
			b.Fatalf("MeasureSqrt8T0 failed: %v", err)
		}
	}
}

// BenchmarkMeasureW0 measures the derivative-curve pipeline for w₀.
func BenchmarkMeasureW0(b *testing.B) {
	fe := benchmarkEnsemble(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := scales.MeasureW0(fe, 0.3, flow.OpClover); err != nil {
			b.Fatalf("MeasureW0 failed: %v", err)
		}
	}
}
