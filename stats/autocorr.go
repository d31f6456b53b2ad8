package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/gradflow/fit"
)

// DefaultFitRange is the number of leading lags used by the exponential
// autocorrelation-time fit.
const DefaultFitRange = 10

// ErrShortSeries indicates the series is too short for the requested lags.
var ErrShortSeries = errors.New("stats: series too short")

// Autocorr computes the empirical normalized autocorrelation function of
// series up to lag cutoff-1. A cutoff ≤ 0 defaults to len(series)/2.
//
// The series is zero-centered and normalized by its own population
// variance; lag 0 is exactly 1.
func Autocorr(series []float64, cutoff int) ([]float64, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: autocorrelation", ErrEmptySeries)
	}
	if cutoff <= 0 {
		cutoff = len(series) / 2
	}
	if cutoff < 2 || cutoff > len(series) {
		return nil, fmt.Errorf("%w: cutoff %d for %d samples",
			ErrShortSeries, cutoff, len(series))
	}

	centered := make([]float64, len(series))
	mean := stat.Mean(series, nil)
	for i, v := range series {
		centered[i] = v - mean
	}
	variance := popVariance(centered)

	acf := make([]float64, cutoff-1)
	acf[0] = 1
	for lag := 1; lag < cutoff-1; lag++ {
		var sum float64
		n := len(centered) - lag
		for i := 0; i < n; i++ {
			sum += centered[i] * centered[i+lag]
		}
		acf[lag] = sum / float64(n) / variance
	}

	return acf, nil
}

// ExpAutocorrelationFit fits the single-exponential decay exp(-x/τ) to
// the first fitRange lags of the autocorrelation function of series via
// nonlinear least squares and returns the decay time constant τ with its
// covariance-derived standard error. A fitRange ≤ 0 defaults to
// DefaultFitRange.
//
// Degenerate-case policy: when the fitted τ is below 1 lag unit AND its
// uncertainty exceeds 10·τ AND the lags beyond 0 are noise-dominated
// (their standard deviation exceeds their mean), the autocorrelation time
// is unresolvable at this time resolution and the result is overridden to
// Estimate{0, 0.5} instead of reporting a numerically unstable fit.
func ExpAutocorrelationFit(series []float64, fitRange int) (Estimate, error) {
	if fitRange <= 0 {
		fitRange = DefaultFitRange
	}

	acf, err := Autocorr(series, 0)
	if err != nil {
		return Estimate{}, err
	}
	if len(acf) < fitRange {
		return Estimate{}, fmt.Errorf("%w: %d lags available, fit range %d",
			ErrShortSeries, len(acf), fitRange)
	}

	xs := make([]float64, fitRange)
	for i := range xs {
		xs[i] = float64(i)
	}

	opts := fit.DefaultOptions()
	opts.InitialGuess = []float64{1}
	res, err := fit.CurveFit(fit.ExpDecay, xs, acf[:fitRange], opts)
	if err != nil {
		return Estimate{}, err
	}

	tau := res.Params[0]
	tauErr := res.Stderr(0)

	if tau < 1 && tauErr > 10*tau {
		tail := acf[1:fitRange]
		if popStd(tail) > stat.Mean(tail, nil) {
			// Autocorrelation time is much less than one lag unit; the
			// fitter cannot resolve its location at this resolution.
			return Estimate{Value: 0, Err: 0.5}, nil
		}
	}

	return Estimate{Value: tau, Err: tauErr}, nil
}

// IntegratedRange reports the first lag at which the autocorrelation
// function drops below 1/e, a quick sanity cross-check on the fitted τ.
// Returns len(acf) when the function never drops that far.
func IntegratedRange(acf []float64) int {
	for lag, v := range acf {
		if v < 1/math.E {
			return lag
		}
	}

	return len(acf)
}
