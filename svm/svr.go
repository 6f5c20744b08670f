// Package svm provides epsilon-support vector regression.
//
// The dual problem is solved with the SMO decomposition used by LIBSVM:
// the n regression multipliers are split into 2n box-constrained variables
// (α for the upper tube side, α* for the lower), the working pair is picked
// with second-order information, and the bias is averaged over free
// support vectors. The full Gram matrix is kept in memory.
package svm

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

const (
	modelName = "SVR"
	tau       = 1e-12
)

// Option is a function that configures SVR
type Option func(*SVR)

// WithKernel selects KernelRBF, KernelLinear or KernelPoly.
func WithKernel(kernel string) Option {
	return func(s *SVR) { s.kernel = kernel }
}

// WithC sets the regularization strength.
func WithC(c float64) Option {
	return func(s *SVR) { s.c = c }
}

// WithGamma sets the kernel coefficient. Zero or negative selects "scale",
// 1 / (n_features * Var(X)).
func WithGamma(gamma float64) Option {
	return func(s *SVR) { s.gamma = gamma }
}

// WithEpsilon sets the width of the insensitive tube.
func WithEpsilon(eps float64) Option {
	return func(s *SVR) { s.epsilon = eps }
}

// WithDegree sets the degree of the polynomial kernel.
func WithDegree(d int) Option {
	return func(s *SVR) { s.degree = d }
}

// WithCoef0 sets the independent term of the polynomial kernel.
func WithCoef0(c float64) Option {
	return func(s *SVR) { s.coef0 = c }
}

// WithTol sets the KKT violation tolerance used as stopping criterion.
func WithTol(tol float64) Option {
	return func(s *SVR) { s.tol = tol }
}

// WithMaxIter caps the number of SMO iterations. Zero means
// max(10_000_000, 100*2n).
func WithMaxIter(n int) Option {
	return func(s *SVR) { s.maxIter = n }
}

// SVR is an epsilon-insensitive support vector regressor.
type SVR struct {
	state *model.StateManager

	kernel  string
	c       float64
	gamma   float64
	epsilon float64
	degree  int
	coef0   float64
	tol     float64
	maxIter int

	gammaFit  float64
	supportX  *mat.Dense
	dualCoef  []float64
	intercept float64
	nIter     int
	kfn       kernelFunc
}

// NewSVR creates an unfitted regressor. Defaults: RBF kernel, C=1,
// gamma="scale", epsilon=0.1, tol=1e-3.
func NewSVR(opts ...Option) *SVR {
	s := &SVR{
		state:   model.NewStateManager(),
		kernel:  KernelRBF,
		c:       1.0,
		epsilon: 0.1,
		degree:  3,
		tol:     1e-3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SVR) validate() error {
	switch {
	case s.kernel != KernelRBF && s.kernel != KernelLinear && s.kernel != KernelPoly:
		return errors.NewValidationError("kernel", "must be rbf, linear or poly", s.kernel)
	case !(s.c > 0):
		return errors.NewValidationError("C", "must be positive", s.c)
	case s.epsilon < 0:
		return errors.NewValidationError("epsilon", "must be non-negative", s.epsilon)
	case !(s.tol > 0):
		return errors.NewValidationError("tol", "must be positive", s.tol)
	case s.kernel == KernelPoly && s.degree < 1:
		return errors.NewValidationError("degree", "must be at least 1", s.degree)
	case s.maxIter < 0:
		return errors.NewValidationError("max_iter", "must be non-negative", s.maxIter)
	}
	return nil
}

// Fit solves the dual problem on X, y.
func (s *SVR) Fit(X, y mat.Matrix) error {
	n, c, err := model.CheckFitInput(modelName, X, y)
	if err != nil {
		return err
	}
	if err := s.validate(); err != nil {
		return errors.NewFitError(modelName, "invalid hyperparameters", err)
	}
	s.state.Reset()

	Xd := mat.DenseCopyOf(X)
	s.gammaFit = s.gamma
	if s.gammaFit <= 0 {
		s.gammaFit = scaleGamma(Xd)
	}
	s.kfn = newKernel(s.kernel, s.gammaFit, s.coef0, s.degree)
	K := gramMatrix(Xd, s.kfn)

	target := make([]float64, n)
	for i := range target {
		target[i] = y.At(i, 0)
	}

	beta, rho, iter := s.solve(K, target)
	s.nIter = iter

	// keep only support vectors
	var sv []int
	for i, b := range beta {
		if b != 0 {
			sv = append(sv, i)
		}
	}
	s.dualCoef = make([]float64, len(sv))
	for k, i := range sv {
		s.dualCoef[k] = beta[i]
	}
	if len(sv) > 0 {
		s.supportX = model.RowsOf(Xd, sv)
	} else {
		s.supportX = nil
	}
	s.intercept = -rho

	if err := errors.CheckScalar(modelName+".Fit", s.intercept, iter); err != nil {
		return errors.NewFitError(modelName, "non-finite intercept", err)
	}

	s.state.SetDimensions(c, n)
	s.state.SetFitted()
	return nil
}

// solve runs SMO over the 2n-variable formulation and returns
// β = α - α*, the offset ρ and the iteration count.
func (s *SVR) solve(K *mat.SymDense, target []float64) (beta []float64, rho float64, iter int) {
	n := len(target)
	l := 2 * n

	sign := make([]float64, l)
	alpha := make([]float64, l)
	grad := make([]float64, l)
	for t := 0; t < n; t++ {
		sign[t] = 1
		sign[t+n] = -1
		grad[t] = s.epsilon - target[t]
		grad[t+n] = s.epsilon + target[t]
	}

	kAt := func(a, b int) float64 { return K.At(a%n, b%n) }
	upper := func(t int) bool { return alpha[t] >= s.c }
	lower := func(t int) bool { return alpha[t] <= 0 }

	maxIter := s.maxIter
	if maxIter == 0 {
		maxIter = max(10_000_000, 100*l)
	}

	for iter = 0; iter < maxIter; iter++ {
		i, j, ok := s.selectWorkingSet(alpha, grad, sign, kAt, upper, lower)
		if !ok {
			break
		}

		oldI, oldJ := alpha[i], alpha[j]
		kii, kjj, kij := kAt(i, i), kAt(j, j), kAt(i, j)
		if sign[i] != sign[j] {
			quad := kii + kjj + 2*sign[i]*sign[j]*kij
			if quad <= 0 {
				quad = tau
			}
			delta := (-grad[i] - grad[j]) / quad
			diff := alpha[i] - alpha[j]
			alpha[i] += delta
			alpha[j] += delta
			if diff > 0 {
				if alpha[j] < 0 {
					alpha[j] = 0
					alpha[i] = diff
				}
			} else if alpha[i] < 0 {
				alpha[i] = 0
				alpha[j] = -diff
			}
			if diff > 0 {
				if alpha[i] > s.c {
					alpha[i] = s.c
					alpha[j] = s.c - diff
				}
			} else if alpha[j] > s.c {
				alpha[j] = s.c
				alpha[i] = s.c + diff
			}
		} else {
			quad := kii + kjj - 2*sign[i]*sign[j]*kij
			if quad <= 0 {
				quad = tau
			}
			delta := (grad[i] - grad[j]) / quad
			sum := alpha[i] + alpha[j]
			alpha[i] -= delta
			alpha[j] += delta
			if sum > s.c {
				if alpha[i] > s.c {
					alpha[i] = s.c
					alpha[j] = sum - s.c
				}
			} else if alpha[j] < 0 {
				alpha[j] = 0
				alpha[i] = sum
			}
			if sum > s.c {
				if alpha[j] > s.c {
					alpha[j] = s.c
					alpha[i] = sum - s.c
				}
			} else if alpha[i] < 0 {
				alpha[i] = 0
				alpha[j] = sum
			}
		}

		dI, dJ := alpha[i]-oldI, alpha[j]-oldJ
		for t := 0; t < l; t++ {
			grad[t] += sign[i]*sign[t]*kAt(i, t)*dI + sign[j]*sign[t]*kAt(j, t)*dJ
		}
	}

	if iter >= maxIter {
		errors.Warn(errors.NewConvergenceWarning(modelName, iter,
			"solver terminated early; consider preprocessing the data or increasing max_iter"))
	}

	rho = s.offset(alpha, grad, sign, upper, lower)

	beta = make([]float64, n)
	for t := 0; t < n; t++ {
		beta[t] = alpha[t] - alpha[t+n]
	}
	return beta, rho, iter
}

// selectWorkingSet picks i as the maximal violator and j by the largest
// second-order decrease of the objective. ok is false once the maximal
// KKT violation drops below tol.
func (s *SVR) selectWorkingSet(alpha, grad, sign []float64, kAt func(a, b int) float64,
	upper, lower func(t int) bool) (i, j int, ok bool) {
	l := len(alpha)

	gmax := math.Inf(-1)
	i = -1
	for t := 0; t < l; t++ {
		if sign[t] > 0 {
			if !upper(t) && -grad[t] >= gmax {
				gmax = -grad[t]
				i = t
			}
		} else if !lower(t) && grad[t] >= gmax {
			gmax = grad[t]
			i = t
		}
	}

	gmax2 := math.Inf(-1)
	j = -1
	objMin := math.Inf(1)
	for t := 0; t < l; t++ {
		var gradDiff float64
		if sign[t] > 0 {
			if lower(t) {
				continue
			}
			gradDiff = gmax + grad[t]
			if grad[t] >= gmax2 {
				gmax2 = grad[t]
			}
		} else {
			if upper(t) {
				continue
			}
			gradDiff = gmax - grad[t]
			if -grad[t] >= gmax2 {
				gmax2 = -grad[t]
			}
		}
		if gradDiff <= 0 || i < 0 {
			continue
		}
		quad := kAt(i, i) + kAt(t, t) - 2*kAt(i, t)
		if quad <= 0 {
			quad = tau
		}
		obj := -(gradDiff * gradDiff) / quad
		if obj <= objMin {
			objMin = obj
			j = t
		}
	}

	if i < 0 || j < 0 || gmax+gmax2 < s.tol {
		return -1, -1, false
	}
	return i, j, true
}

// offset computes ρ as the mean of y_t·G_t over free variables, or the
// midpoint of the feasible interval when none is free.
func (s *SVR) offset(alpha, grad, sign []float64, upper, lower func(t int) bool) float64 {
	ub, lb := math.Inf(1), math.Inf(-1)
	var sumFree float64
	nFree := 0
	for t := range alpha {
		yG := sign[t] * grad[t]
		switch {
		case upper(t):
			if sign[t] < 0 {
				ub = math.Min(ub, yG)
			} else {
				lb = math.Max(lb, yG)
			}
		case lower(t):
			if sign[t] > 0 {
				ub = math.Min(ub, yG)
			} else {
				lb = math.Max(lb, yG)
			}
		default:
			nFree++
			sumFree += yG
		}
	}
	if nFree > 0 {
		return sumFree / float64(nFree)
	}
	return (ub + lb) / 2
}

// Predict evaluates Σ β_i k(sv_i, x) + b for every row of X.
func (s *SVR) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, err := s.state.CheckPredictInput(modelName, X)
	if err != nil {
		return nil, err
	}
	_, c := X.Dims()
	out := mat.NewVecDense(r, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		v := s.intercept
		for k, coef := range s.dualCoef {
			v += coef * s.kfn(s.supportX.RawRowView(k), row)
		}
		out.SetVec(i, v)
	}
	if err := errors.CheckNumericalStability(modelName+".Predict", out.RawVector().Data, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// NSupport returns the number of support vectors.
func (s *SVR) NSupport() int { return len(s.dualCoef) }

// DualCoef returns β for each support vector.
func (s *SVR) DualCoef() []float64 { return append([]float64(nil), s.dualCoef...) }

// Intercept returns the fitted bias.
func (s *SVR) Intercept() float64 { return s.intercept }

// NIter returns the number of SMO iterations of the last fit.
func (s *SVR) NIter() int { return s.nIter }

// GetParams returns the regressor's hyperparameters.
func (s *SVR) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"kernel":   s.kernel,
		"C":        s.c,
		"gamma":    s.gamma,
		"epsilon":  s.epsilon,
		"degree":   s.degree,
		"coef0":    s.coef0,
		"tol":      s.tol,
		"max_iter": s.maxIter,
	}
}
