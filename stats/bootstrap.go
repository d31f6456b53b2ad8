package stats

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// DefaultResamples is the number of bootstrap draws per statistic.
const DefaultResamples = 200

// Sentinel errors for the bootstrap engine.
var (
	// ErrEmptySeries indicates a statistic was requested of an empty series.
	ErrEmptySeries = errors.New("stats: empty series")

	// ErrRaggedInput indicates rows of a [member][time] array differ in length.
	ErrRaggedInput = errors.New("stats: ragged [member][time] input")
)

// defaultRNG is the process-wide fallback generator. It is seeded once
// from the wall clock and is not reproducible across runs; callers that
// need reproducibility must pass an ensemble-derived generator instead.
var (
	defaultRNGOnce sync.Once
	defaultRNG     *rand.Rand
)

func generator(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	defaultRNGOnce.Do(func() {
		defaultRNG = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	})

	return defaultRNG
}

// popVariance is the population variance (second moment minus squared
// first moment), matching the resample-distribution convention. A series
// of length < 2 has zero variance.
func popVariance(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}

	return stat.Variance(xs, nil) * float64(n-1) / float64(n)
}

func popStd(xs []float64) float64 { return math.Sqrt(popVariance(xs)) }

// resample fills dst with a size-len(values) draw of values with replacement.
func resample(dst, values []float64, rng *rand.Rand) {
	for i := range dst {
		dst[i] = values[rng.Intn(len(values))]
	}
}

// BasicBootstrap estimates the mean of values and its standard error.
//
// It draws DefaultResamples resamples of size len(values) with
// replacement, computes each draw's mean, and reduces the draws to an
// Estimate (mean of draws, standard deviation of draws).
//
// A constant series of any length N ≥ 1 yields Estimate{constant, 0}.
func BasicBootstrap(values []float64, rng *rand.Rand) (Estimate, error) {
	if len(values) == 0 {
		return Estimate{}, fmt.Errorf("%w: basic bootstrap", ErrEmptySeries)
	}
	rng = generator(rng)

	draw := make([]float64, len(values))
	samples := make([]float64, DefaultResamples)
	for s := range samples {
		resample(draw, values, rng)
		samples[s] = stat.Mean(draw, nil)
	}

	return BootstrapFinalize(samples), nil
}

// BootstrapSusceptibility estimates the empirical variance of values
// (a susceptibility-like quantity) and its standard error, by the same
// resampling procedure as BasicBootstrap with the per-draw statistic
// replaced by the draw's population variance.
//
// Volume normalization is the caller's responsibility.
func BootstrapSusceptibility(values []float64, rng *rand.Rand) (Estimate, error) {
	if len(values) == 0 {
		return Estimate{}, fmt.Errorf("%w: bootstrap susceptibility", ErrEmptySeries)
	}
	rng = generator(rng)

	draw := make([]float64, len(values))
	samples := make([]float64, DefaultResamples)
	for s := range samples {
		resample(draw, values, rng)
		samples[s] = popVariance(draw)
	}

	return BootstrapFinalize(samples), nil
}

// SampleBootstrap1D produces the full bootstrap sample set for a
// [member][time] array: a [resample][time] array where each resample draws
// one set of member indices with replacement and averages over members at
// every time point.
//
// All time points of one resample share the same member draw, preserving
// time correlation within that draw; the resample axis stays exposed for
// downstream threshold interpolation.
func SampleBootstrap1D(values [][]float64, rng *rand.Rand) ([][]float64, error) {
	n := len(values)
	if n == 0 {
		return nil, fmt.Errorf("%w: sample bootstrap", ErrEmptySeries)
	}
	nt := len(values[0])
	for m, row := range values {
		if len(row) != nt {
			return nil, fmt.Errorf("%w: row %d has %d points, want %d",
				ErrRaggedInput, m, len(row), nt)
		}
	}
	rng = generator(rng)

	out := make([][]float64, DefaultResamples)
	idx := make([]int, n)
	for s := range out {
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		row := make([]float64, nt)
		for _, m := range idx {
			member := values[m]
			for t := range row {
				row[t] += member[t]
			}
		}
		for t := range row {
			row[t] /= float64(n)
		}
		out[s] = row
	}

	return out, nil
}

// BootstrapFinalize reduces a resample array to its Estimate:
// the mean across draws with the standard deviation across draws.
func BootstrapFinalize(samples []float64) Estimate {
	return Estimate{Value: stat.Mean(samples, nil), Err: popStd(samples)}
}

// BootstrapFinalizeND reduces a [resample][time] array along the resample
// axis, yielding one Estimate per time point.
func BootstrapFinalizeND(samples [][]float64) []Estimate {
	if len(samples) == 0 {
		return nil
	}

	nt := len(samples[0])
	out := make([]Estimate, nt)
	col := make([]float64, len(samples))
	for t := 0; t < nt; t++ {
		for s, row := range samples {
			col[s] = row[t]
		}
		out[t] = BootstrapFinalize(col)
	}

	return out
}
