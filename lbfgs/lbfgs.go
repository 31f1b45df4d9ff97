// Package lbfgs minimizes smooth unconstrained functions with limited-memory
// BFGS and a backtracking Armijo line search.
package lbfgs

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrNotConverged = errors.New("lbfgs: maximum iterations reached")
	ErrLineSearch   = errors.New("lbfgs: line search failed to decrease the objective")
	ErrNonFinite    = errors.New("lbfgs: objective is not finite at the starting point")
)

// Function is an objective with gradient.
type Function interface {
	// Evaluate returns f(x) and writes the gradient of f at x into grad.
	Evaluate(x, grad []float64) float64
}

// FunctionFunc adapts a plain function to Function.
type FunctionFunc func(x, grad []float64) float64

func (f FunctionFunc) Evaluate(x, grad []float64) float64 {
	return f(x, grad)
}

// Settings controls the solver.
type Settings struct {
	Memory        int     // number of correction pairs kept
	Epsilon       float64 // stop when |grad| / max(1, |x|) <= Epsilon
	MaxIterations int
	MaxLineSearch int     // backtracking steps per iteration
	MaxStep       float64 // largest change of any coordinate in one iteration, 0 for no limit
}

// DefaultSettings returns the solver defaults.
func DefaultSettings() Settings {
	return Settings{
		Memory:        6,
		Epsilon:       1e-5,
		MaxIterations: 1000,
		MaxLineSearch: 40,
		MaxStep:       5,
	}
}

// Result summarizes a minimization.
type Result struct {
	F           float64
	GradNorm    float64
	Iterations  int
	Evaluations int
}

const (
	armijo         = 1e-4
	machineEpsilon = 2.220446049250313e-16

	// A failed line search whose best trial stays within this relative
	// distance of f has run into rounding noise, not into a bad direction.
	roundoff = 1e4 * machineEpsilon
)

// Minimize minimizes fn starting from x, which is updated in place. onStep,
// if not nil, is called with the new point after every accepted step.
//
// fn may return +Inf or NaN to reject a point; the line search then
// backtracks. When no trial step changes f by more than rounding noise, x
// is taken as converged.
func Minimize(fn Function, x []float64, s Settings, onStep func(x []float64)) (Result, error) {
	n := len(x)
	g := make([]float64, n)
	f := fn.Evaluate(x, g)
	res := Result{F: f, Evaluations: 1}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return res, ErrNonFinite
	}

	mem := newMemory(n, s.Memory)
	dir := make([]float64, n)
	xNew := make([]float64, n)
	gNew := make([]float64, n)
	sk := make([]float64, n)
	yk := make([]float64, n)

	for res.Iterations < s.MaxIterations {
		gnorm := floats.Norm(g, 2)
		res.GradNorm = gnorm
		if gnorm/math.Max(1, floats.Norm(x, 2)) <= s.Epsilon {
			return res, nil
		}

		mem.direction(dir, g)
		slope := floats.Dot(dir, g)
		if !(slope < 0) {
			// Not a descent direction; fall back to steepest descent.
			mem.reset()
			mem.direction(dir, g)
			slope = -gnorm * gnorm
		}

		step := 1.0
		if mem.size == 0 {
			step = 1 / gnorm
		}
		if s.MaxStep > 0 {
			if longest := step * floats.Norm(dir, math.Inf(1)); longest > s.MaxStep {
				step *= s.MaxStep / longest
			}
		}
		fNew, evals, ok := lineSearch(fn, x, dir, f, slope, step, s.MaxLineSearch, xNew, gNew)
		res.Evaluations += evals
		if !ok {
			if fNew-f <= roundoff*math.Max(1, math.Abs(f)) {
				return res, nil
			}
			if mem.size > 0 {
				mem.reset()
				continue
			}
			return res, ErrLineSearch
		}

		floats.SubTo(sk, xNew, x)
		floats.SubTo(yk, gNew, g)
		mem.update(sk, yk)

		fOld := f
		copy(x, xNew)
		copy(g, gNew)
		f = fNew
		res.F = f
		res.Iterations++
		if onStep != nil {
			onStep(x)
		}

		if math.Abs(fOld-f) <= machineEpsilon*math.Max(1, math.Max(math.Abs(fOld), math.Abs(f))) {
			res.GradNorm = floats.Norm(g, 2)
			return res, nil
		}
	}
	res.GradNorm = floats.Norm(g, 2)
	return res, ErrNotConverged
}

// lineSearch backtracks from step along dir until the Armijo condition
// holds. On success xNew and gNew hold the accepted point and its gradient.
// On failure it returns the smallest finite trial value, or +Inf.
func lineSearch(fn Function, x, dir []float64, f, slope, step float64, maxTrials int, xNew, gNew []float64) (float64, int, bool) {
	best := math.Inf(1)
	for trial := range maxTrials {
		floats.AddScaledTo(xNew, x, step, dir)
		fNew := fn.Evaluate(xNew, gNew)
		if math.IsNaN(fNew) || math.IsInf(fNew, 0) {
			step *= 0.5
			continue
		}
		if fNew <= f+armijo*step*slope {
			return fNew, trial + 1, true
		}
		best = min(best, fNew)
		step *= 0.5
	}
	return best, maxTrials, false
}
