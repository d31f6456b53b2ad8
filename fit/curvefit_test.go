package fit_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gradflow/fit"
)

// TestCurveFit_ExpDecayExact verifies that the solver recovers the decay
// constant of noiseless exponential data.
func TestCurveFit_ExpDecayExact(t *testing.T) {
	const tau = 3.0
	xs := make([]float64, 12)
	ys := make([]float64, 12)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = math.Exp(-xs[i] / tau)
	}

	opts := fit.DefaultOptions()
	opts.InitialGuess = []float64{1}
	res, err := fit.CurveFit(fit.ExpDecay, xs, ys, opts)
	require.NoError(t, err)
	assert.InDelta(t, tau, res.Params[0], 1e-5)
	assert.Less(t, res.ChiSq, 1e-10, "noiseless data fits exactly")
	assert.Less(t, res.Stderr(0), 1e-3, "tight covariance on exact data")
}

// TestCurveFit_GaussianExact verifies the three-parameter Gaussian
// recovery from noiseless data, starting away from the solution.
func TestCurveFit_GaussianExact(t *testing.T) {
	truth := []float64{12.0, 1.5, 2.0} // A, x0, sigma
	xs := make([]float64, 17)
	ys := make([]float64, 17)
	for i := range xs {
		xs[i] = float64(i) - 8
		ys[i] = fit.Gaussian(xs[i], truth)
	}

	opts := fit.DefaultOptions()
	opts.InitialGuess = []float64{8, 0, 1.2}
	res, err := fit.CurveFit(fit.Gaussian, xs, ys, opts)
	require.NoError(t, err)
	assert.InDelta(t, truth[0], res.Params[0], 1e-4, "amplitude")
	assert.InDelta(t, truth[1], res.Params[1], 1e-4, "center")
	assert.InDelta(t, math.Abs(truth[2]), math.Abs(res.Params[2]), 1e-4, "width")
}

// TestCurveFit_WeightedPull verifies that per-point sigmas steer the fit:
// an outlier with a huge sigma must barely influence the result.
func TestCurveFit_WeightedPull(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := make([]float64, len(xs))
	sigma := make([]float64, len(xs))
	for i := range xs {
		ys[i] = math.Exp(-xs[i] / 2)
		sigma[i] = 0.01
	}
	ys[3] = 5.0     // corrupted point
	sigma[3] = 1000 // effectively ignored

	opts := fit.DefaultOptions()
	opts.InitialGuess = []float64{1}
	opts.Sigma = sigma
	res, err := fit.CurveFit(fit.ExpDecay, xs, ys, opts)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Params[0], 1e-3, "outlier downweighted away")
}

// TestCurveFit_BadInput verifies the input validation failures.
func TestCurveFit_BadInput(t *testing.T) {
	opts := fit.DefaultOptions()
	opts.InitialGuess = []float64{1}

	_, err := fit.CurveFit(fit.ExpDecay, nil, nil, opts)
	assert.ErrorIs(t, err, fit.ErrBadInput, "empty data")

	_, err = fit.CurveFit(fit.ExpDecay, []float64{1, 2}, []float64{1}, opts)
	assert.ErrorIs(t, err, fit.ErrBadInput, "length mismatch")

	noGuess := fit.DefaultOptions()
	_, err = fit.CurveFit(fit.ExpDecay, []float64{1, 2}, []float64{1, 2}, noGuess)
	assert.ErrorIs(t, err, fit.ErrBadInput, "missing initial guess")

	short := fit.DefaultOptions()
	short.InitialGuess = []float64{1, 2, 3}
	_, err = fit.CurveFit(fit.Gaussian, []float64{1, 2}, []float64{1, 2}, short)
	assert.ErrorIs(t, err, fit.ErrBadInput, "fewer points than parameters")

	badSigma := fit.DefaultOptions()
	badSigma.InitialGuess = []float64{1}
	badSigma.Sigma = []float64{1}
	_, err = fit.CurveFit(fit.ExpDecay, []float64{1, 2}, []float64{1, 2}, badSigma)
	assert.ErrorIs(t, err, fit.ErrBadInput, "sigma length mismatch")
}

// TestResult_Stderr verifies the covariance diagonal accessor.
func TestResult_Stderr(t *testing.T) {
	res := fit.Result{Covariance: [][]float64{{4, 0}, {0, 9}}}
	assert.Equal(t, 2.0, res.Stderr(0))
	assert.Equal(t, 3.0, res.Stderr(1))
}
