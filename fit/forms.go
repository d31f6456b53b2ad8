package fit

import "math"

// Model evaluates a fit form at x for the given parameter vector.
type Model func(x float64, params []float64) float64

// Gaussian is the three-parameter Gaussian fit form
// A·exp(-(x-x₀)²/(2σ²)) with params [A, x₀, σ].
func Gaussian(x float64, params []float64) float64 {
	a, x0, sigma := params[0], params[1], params[2]
	d := x - x0

	return a * math.Exp(-d*d/(2*sigma*sigma))
}

// ExpDecay is the single-parameter exponential decay fit form
// exp(-x/τ) with params [τ].
func ExpDecay(x float64, params []float64) float64 {
	return math.Exp(-x / params[0])
}
