package scales

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gradflow/flow"
	"github.com/katalvlaran/gradflow/stats"
)

// T2ESamples bootstrap-resamples the energy density selected by op and
// returns the curve 𝓔(t) = t²E(t) per resample, shape [resample][time].
// The resampling generator derives from the ensemble identity.
func T2ESamples(fe *flow.FlowEnsemble, op flow.Operator) ([][]float64, error) {
	es, err := fe.Es(op)
	if err != nil {
		return nil, err
	}
	bs, err := stats.SampleBootstrap1D(es, fe.RNG())
	if err != nil {
		return nil, err
	}

	times := fe.Times()
	for _, row := range bs {
		for t := range row {
			row[t] *= times[t] * times[t]
		}
	}

	return bs, nil
}

// T2ECurve reduces the resampled t²E(t) curve to one Estimate per flow
// time: the curve consumers plot against the threshold E₀.
func T2ECurve(fe *flow.FlowEnsemble, op flow.Operator) ([]stats.Estimate, error) {
	t2e, err := T2ESamples(fe, op)
	if err != nil {
		return nil, err
	}

	return stats.BootstrapFinalizeND(t2e), nil
}

// Sqrt8T0Samples solves t²E(t₀) = e0 per bootstrap draw and returns
// √(8·t₀) for each surviving draw.
func Sqrt8T0Samples(fe *flow.FlowEnsemble, e0 float64, op flow.Operator) ([]float64, error) {
	t2e, err := T2ESamples(fe, op)
	if err != nil {
		return nil, err
	}
	cross, err := ThresholdInterpolate(fe.Times(), t2e, e0)
	if err != nil {
		return nil, err
	}

	out := cross.Times
	for i, t0 := range out {
		out[i] = math.Sqrt(8 * t0)
	}

	return out, nil
}

// MeasureSqrt8T0 computes the ensemble average of the scale √(8t₀)
// defined by the threshold e0, with its bootstrap uncertainty.
func MeasureSqrt8T0(fe *flow.FlowEnsemble, e0 float64, op flow.Operator) (stats.Estimate, error) {
	samples, err := Sqrt8T0Samples(fe, e0, op)
	if err != nil {
		return stats.Estimate{}, err
	}

	return stats.BootstrapFinalize(samples), nil
}

// WTSamples bootstrap-resamples the energy density selected by op and
// returns the derivative curve W(t) = t·d(t²E)/dt per resample, computed
// with a centered finite difference over the time axis. The returned
// rows live on the interior grid Times()[1:n-1]; use WTTimes for it.
//
// The centered difference needs the scalar step size, so adaptive-grid
// ensembles fail with flow.ErrNonUniformStep.
func WTSamples(fe *flow.FlowEnsemble, op flow.Operator) ([][]float64, error) {
	if fe.NTimes() < 3 {
		return nil, fmt.Errorf("%w: %d flow times, need 3 for the centered difference",
			ErrShapeMismatch, fe.NTimes())
	}
	h, err := fe.H()
	if err != nil {
		return nil, err
	}
	t2e, err := T2ESamples(fe, op)
	if err != nil {
		return nil, err
	}

	times := fe.Times()
	out := make([][]float64, len(t2e))
	for s, row := range t2e {
		wt := make([]float64, len(times)-2)
		for j := range wt {
			wt[j] = times[j+1] * (row[j+2] - row[j]) / (2 * h)
		}
		out[s] = wt
	}

	return out, nil
}

// WTTimes returns the interior time grid on which WTSamples rows live.
func WTTimes(fe *flow.FlowEnsemble) []float64 {
	times := fe.Times()
	if len(times) < 3 {
		return nil
	}

	return times[1 : len(times)-1]
}

// WTCurve reduces the resampled t·d(t²E)/dt curve to one Estimate per
// interior flow time.
func WTCurve(fe *flow.FlowEnsemble, op flow.Operator) ([]stats.Estimate, error) {
	wt, err := WTSamples(fe, op)
	if err != nil {
		return nil, err
	}

	return stats.BootstrapFinalizeND(wt), nil
}

// W0Samples solves t·d(t²E)/dt = w0 per bootstrap draw and returns
// √t_cross for each surviving draw.
func W0Samples(fe *flow.FlowEnsemble, w0 float64, op flow.Operator) ([]float64, error) {
	wt, err := WTSamples(fe, op)
	if err != nil {
		return nil, err
	}
	cross, err := ThresholdInterpolate(WTTimes(fe), wt, w0)
	if err != nil {
		return nil, err
	}

	out := cross.Times
	for i, tc := range out {
		out[i] = math.Sqrt(tc)
	}

	return out, nil
}

// MeasureW0 computes the ensemble average of the scale w₀ defined by the
// threshold w0, with its bootstrap uncertainty.
func MeasureW0(fe *flow.FlowEnsemble, w0 float64, op flow.Operator) (stats.Estimate, error) {
	samples, err := W0Samples(fe, w0, op)
	if err != nil {
		return stats.Estimate{}, err
	}

	return stats.BootstrapFinalize(samples), nil
}
