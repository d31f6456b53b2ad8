// Package fit provides the nonlinear least-squares machinery behind
// gradflow's distribution and autocorrelation fits.
//
// The solver is a damped Gauss–Newton (Levenberg–Marquardt) iteration
// over the normal equations, with a numerical central-difference
// Jacobian. Per-point standard deviations can weight the residuals; the
// parameter covariance is the inverse of JᵀWJ scaled by the reduced
// chi-square, so uncertainties match the conventional curve-fit defaults.
//
// Model forms:
//
//	Gaussian — A·exp(-(x-x₀)²/(2σ²)), params [A, x₀, σ]
//	ExpDecay — exp(-x/τ),             params [τ]
//
// Errors:
//
//	ErrBadInput        - empty data, missing initial guess, or shape mismatch.
//	ErrFitNotConverged - iteration limit reached before convergence.
//	ErrSingularFit     - normal equations singular at the solution.
package fit
