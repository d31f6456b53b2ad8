package qtop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/gradflow/fit"
	"github.com/katalvlaran/gradflow/flow"
	"github.com/katalvlaran/gradflow/stats"
)

// QMean computes the mean topological charge of a frozen ensemble with
// its bootstrap error, sampling Q at the half-lattice flow time.
func QMean(fe *flow.FlowEnsemble) (stats.Estimate, error) {
	history, err := fe.QHistoryL2()
	if err != nil {
		return stats.Estimate{}, err
	}

	return stats.BasicBootstrap(history, fe.RNG())
}

// ChiTop computes the naive topological susceptibility ⟨Q²⟩-⟨Q⟩² of a
// frozen ensemble, normalized by the lattice volume NX·NY·NZ·NT, with
// its bootstrap error.
func ChiTop(fe *flow.FlowEnsemble) (stats.Estimate, error) {
	md := fe.Metadata
	if md.NX <= 0 || md.NY <= 0 || md.NZ <= 0 || md.NT <= 0 {
		return stats.Estimate{}, fmt.Errorf("%w: NX,NY,NZ,NT required for volume",
			flow.ErrMissingMetadata)
	}

	history, err := fe.QHistoryL2()
	if err != nil {
		return stats.Estimate{}, err
	}
	suscept, err := stats.BootstrapSusceptibility(history, fe.RNG())
	if err != nil {
		return stats.Estimate{}, err
	}

	volume := float64(md.NX) * float64(md.NY) * float64(md.NZ) * float64(md.NT)

	return suscept.Scale(volume), nil
}

// FlatBinQs rounds a Monte Carlo charge history to integers and counts
// occurrences over a dense, symmetric support.
//
// The support spans min(observed_min, -observed_max)-1 up to its
// negation, inclusive, so the negative mirror of the observed extreme is
// always covered; unobserved integers carry a zero count.
func FlatBinQs(history []float64) (support []int, counts []int) {
	if len(history) == 0 {
		return nil, nil
	}

	bins := make(map[int]int, len(history))
	lo, hi := math.MaxInt, math.MinInt
	for _, q := range history {
		k := int(math.Round(q))
		bins[k]++
		lo = min(lo, k)
		hi = max(hi, k)
	}

	rangeMin := min(lo, -hi) - 1
	n := -rangeMin - rangeMin + 1
	support = make([]int, n)
	counts = make([]int, n)
	for i := range support {
		q := rangeMin + i
		support[i] = q
		counts[i] = bins[q]
	}

	return support, counts
}

// GaussianFit is the result of fitting the binned charge distribution.
type GaussianFit struct {
	Amplitude stats.Estimate
	Center    stats.Estimate
	Width     stats.Estimate
}

// QFit fits a three-parameter Gaussian to the binned topological charge
// distribution of a frozen ensemble and returns its estimated center and
// width (and amplitude), each with its fit-covariance uncertainty.
//
// The fit weights each bin with sigma = √(count+1), a Poisson-like
// weighting that never assigns an infinite weight to empty bins, and
// starts from (peak count, sample mean, sample standard deviation).
func QFit(fe *flow.FlowEnsemble) (GaussianFit, error) {
	history, err := fe.QHistoryL2()
	if err != nil {
		return GaussianFit{}, err
	}

	support, counts := FlatBinQs(history)
	xs := make([]float64, len(support))
	ys := make([]float64, len(support))
	sigma := make([]float64, len(support))
	peak := 0.0
	for i := range support {
		xs[i] = float64(support[i])
		ys[i] = float64(counts[i])
		sigma[i] = math.Sqrt(ys[i] + 1)
		peak = math.Max(peak, ys[i])
	}

	width := stat.StdDev(history, nil)
	if width == 0 || math.IsNaN(width) {
		width = 1 // all charges identical; any nonzero width starts the fit
	}

	opts := fit.DefaultOptions()
	opts.InitialGuess = []float64{peak, stat.Mean(history, nil), width}
	opts.Sigma = sigma
	res, err := fit.CurveFit(fit.Gaussian, xs, ys, opts)
	if err != nil {
		return GaussianFit{}, err
	}

	return GaussianFit{
		Amplitude: stats.Estimate{Value: res.Params[0], Err: res.Stderr(0)},
		Center:    stats.Estimate{Value: res.Params[1], Err: res.Stderr(1)},
		Width:     stats.Estimate{Value: res.Params[2], Err: res.Stderr(2)},
	}, nil
}

// QTauExp fits the exponential autocorrelation time of the charge history
// at the half-lattice flow time.
func QTauExp(fe *flow.FlowEnsemble) (stats.Estimate, error) {
	history, err := fe.QHistoryL2()
	if err != nil {
		return stats.Estimate{}, err
	}

	return stats.ExpAutocorrelationFit(history, 0)
}
