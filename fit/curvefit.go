package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for the least-squares solver.
var (
	// ErrBadInput indicates empty data, a missing initial guess, or a
	// shape mismatch between the data and weight arrays.
	ErrBadInput = errors.New("fit: bad input")

	// ErrFitNotConverged indicates the iteration limit was reached before
	// the chi-square stabilized.
	ErrFitNotConverged = errors.New("fit: not converged")

	// ErrSingularFit indicates the normal equations are singular at the
	// solution, so no covariance can be derived.
	ErrSingularFit = errors.New("fit: singular normal equations")
)

// Options configures CurveFit.
//
//   - InitialGuess — starting parameter vector; required, its length
//     fixes the number of fit parameters.
//   - Sigma        — optional per-point standard deviations; residuals are
//     scaled by 1/Sigma[i]. nil means unit weights.
//   - MaxIterations, Tolerance, Damping — Levenberg–Marquardt controls;
//     zero values take the defaults.
type Options struct {
	InitialGuess  []float64
	Sigma         []float64
	MaxIterations int
	Tolerance     float64
	Damping       float64
}

// DefaultOptions returns the solver defaults: 200 iterations, relative
// chi-square tolerance 1e-10, initial damping 1e-3.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 200,
		Tolerance:     1e-10,
		Damping:       1e-3,
	}
}

// Result holds the fitted parameters with their covariance.
type Result struct {
	// Params is the best-fit parameter vector.
	Params []float64

	// Covariance is the parameter covariance matrix, inv(JᵀWJ) scaled by
	// the reduced chi-square.
	Covariance [][]float64

	// ChiSq is the weighted sum of squared residuals at the solution.
	ChiSq float64

	// Iterations is the number of accepted Levenberg–Marquardt steps.
	Iterations int
}

// Stderr returns the covariance-derived standard error of parameter i.
func (r Result) Stderr(i int) float64 {
	return math.Sqrt(r.Covariance[i][i])
}

// CurveFit fits model to the points (xs, ys) by weighted nonlinear least
// squares, starting from opts.InitialGuess.
//
// Steps:
//  1. Scale residuals rᵢ = wᵢ·(yᵢ - f(xᵢ, p)) with wᵢ = 1/Sigma[i] (1 if nil).
//  2. Build the numerical central-difference Jacobian J of the weighted model.
//  3. Solve the damped normal equations (JᵀJ + λ·diag(JᵀJ))·δ = Jᵀr;
//     accept steps that reduce chi-square, shrinking λ, otherwise grow λ.
//  4. Stop when the chi-square improvement falls below Tolerance (relative)
//     or the step becomes negligible; ErrFitNotConverged past MaxIterations.
//  5. Invert JᵀJ at the solution for the covariance, scaled by χ²/(n-p)
//     when there are spare degrees of freedom.
//
// Complexity: O(iterations · n·p²) time, O(n·p) memory.
func CurveFit(model Model, xs, ys []float64, opts Options) (Result, error) {
	n := len(xs)
	p := len(opts.InitialGuess)
	switch {
	case n == 0 || len(ys) != n:
		return Result{}, fmt.Errorf("%w: %d x values, %d y values", ErrBadInput, n, len(ys))
	case p == 0:
		return Result{}, fmt.Errorf("%w: initial guess required", ErrBadInput)
	case n < p:
		return Result{}, fmt.Errorf("%w: %d points for %d parameters", ErrBadInput, n, p)
	case opts.Sigma != nil && len(opts.Sigma) != n:
		return Result{}, fmt.Errorf("%w: %d sigmas for %d points", ErrBadInput, len(opts.Sigma), n)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 200
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = 1e-10
	}
	if opts.Damping <= 0 {
		opts.Damping = 1e-3
	}

	weights := make([]float64, n)
	for i := range weights {
		if opts.Sigma != nil {
			weights[i] = 1 / opts.Sigma[i]
		} else {
			weights[i] = 1
		}
	}

	chisq := func(params []float64) float64 {
		var sum float64
		for i := range xs {
			r := weights[i] * (ys[i] - model(xs[i], params))
			sum += r * r
		}

		return sum
	}

	params := append([]float64(nil), opts.InitialGuess...)
	chi := chisq(params)
	lambda := opts.Damping

	jac := mat.NewDense(n, p, nil)
	resid := mat.NewVecDense(n, nil)
	normal := mat.NewSymDense(p, nil)
	grad := mat.NewVecDense(p, nil)
	var step mat.VecDense

	converged := false
	accepted := 0
	for iter := 0; iter < opts.MaxIterations && !converged; iter++ {
		fillJacobian(jac, model, xs, weights, params)
		for i := range xs {
			resid.SetVec(i, weights[i]*(ys[i]-model(xs[i], params)))
		}
		normalEquations(normal, grad, jac, resid)

		// Inner damping loop: grow lambda until a step reduces chi-square.
		improved := false
		for attempt := 0; attempt < 40; attempt++ {
			if !solveDamped(&step, normal, grad, lambda) {
				lambda *= 10

				continue
			}

			trial := make([]float64, p)
			for j := range trial {
				trial[j] = params[j] + step.AtVec(j)
			}
			trialChi := chisq(trial)
			if math.IsNaN(trialChi) || math.IsInf(trialChi, 0) || trialChi >= chi {
				lambda *= 10

				continue
			}

			improvement := chi - trialChi
			params = trial
			chi = trialChi
			lambda = math.Max(lambda/10, 1e-12)
			accepted++
			improved = true
			if improvement <= opts.Tolerance*(chi+opts.Tolerance) || maxAbs(&step) < 1e-14 {
				converged = true
			}

			break
		}
		if !improved {
			// No downhill step exists at any damping: local minimum.
			converged = true
		}
	}
	if !converged {
		return Result{}, fmt.Errorf("%w: chi-square %g after %d iterations",
			ErrFitNotConverged, chi, opts.MaxIterations)
	}

	fillJacobian(jac, model, xs, weights, params)
	for i := range xs {
		resid.SetVec(i, weights[i]*(ys[i]-model(xs[i], params)))
	}
	normalEquations(normal, grad, jac, resid)

	cov, err := covariance(normal, chi, n, p)
	if err != nil {
		return Result{}, err
	}

	return Result{Params: params, Covariance: cov, ChiSq: chi, Iterations: accepted}, nil
}

// fillJacobian writes the weighted central-difference Jacobian of model
// at params into jac.
func fillJacobian(jac *mat.Dense, model Model, xs, weights, params []float64) {
	p := len(params)
	perturbed := append([]float64(nil), params...)
	for j := 0; j < p; j++ {
		h := 1e-6 * math.Max(math.Abs(params[j]), 1)
		perturbed[j] = params[j] + h
		for i := range xs {
			jac.Set(i, j, model(xs[i], perturbed))
		}
		perturbed[j] = params[j] - h
		for i := range xs {
			jac.Set(i, j, weights[i]*(jac.At(i, j)-model(xs[i], perturbed))/(2*h))
		}
		perturbed[j] = params[j]
	}
}

// normalEquations fills normal = JᵀJ and grad = Jᵀr.
func normalEquations(normal *mat.SymDense, grad *mat.VecDense, jac *mat.Dense, resid *mat.VecDense) {
	n, p := jac.Dims()
	for a := 0; a < p; a++ {
		for b := a; b < p; b++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += jac.At(i, a) * jac.At(i, b)
			}
			normal.SetSym(a, b, sum)
		}
		var g float64
		for i := 0; i < n; i++ {
			g += jac.At(i, a) * resid.AtVec(i)
		}
		grad.SetVec(a, g)
	}
}

// solveDamped solves (normal + λ·diag(normal))·step = grad; reports
// whether the damped system factorized.
func solveDamped(step *mat.VecDense, normal *mat.SymDense, grad *mat.VecDense, lambda float64) bool {
	p, _ := normal.Dims()
	damped := mat.NewSymDense(p, nil)
	damped.CopySym(normal)
	for j := 0; j < p; j++ {
		d := normal.At(j, j) * (1 + lambda)
		if d == 0 {
			d = lambda
		}
		damped.SetSym(j, j, d)
	}

	var ch mat.Cholesky
	if !ch.Factorize(damped) {
		return false
	}

	return ch.SolveVecTo(step, grad) == nil
}

// covariance inverts the normal equations at the solution and applies the
// reduced chi-square scale, matching conventional curve-fit defaults.
func covariance(normal *mat.SymDense, chi float64, n, p int) ([][]float64, error) {
	var ch mat.Cholesky
	if !ch.Factorize(normal) {
		return nil, fmt.Errorf("%w: %d-parameter fit", ErrSingularFit, p)
	}
	var inv mat.SymDense
	if err := ch.InverseTo(&inv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularFit, err)
	}

	scale := 1.0
	if n > p {
		scale = chi / float64(n-p)
	}

	cov := make([][]float64, p)
	for a := range cov {
		cov[a] = make([]float64, p)
		for b := range cov[a] {
			cov[a][b] = inv.At(a, b) * scale
		}
	}

	return cov, nil
}

func maxAbs(v *mat.VecDense) float64 {
	var m float64
	for i := 0; i < v.Len(); i++ {
		m = math.Max(m, math.Abs(v.AtVec(i)))
	}

	return m
}
