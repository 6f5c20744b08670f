package svm

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Kernel names accepted by WithKernel.
const (
	KernelRBF    = "rbf"
	KernelLinear = "linear"
	KernelPoly   = "poly"
)

// kernelFunc evaluates k(a, b) on two rows.
type kernelFunc func(a, b []float64) float64

func newKernel(name string, gamma, coef0 float64, degree int) kernelFunc {
	switch name {
	case KernelLinear:
		return func(a, b []float64) float64 {
			return floats.Dot(a, b)
		}
	case KernelPoly:
		return func(a, b []float64) float64 {
			return math.Pow(gamma*floats.Dot(a, b)+coef0, float64(degree))
		}
	default:
		return func(a, b []float64) float64 {
			var d float64
			for k := range a {
				diff := a[k] - b[k]
				d += diff * diff
			}
			return math.Exp(-gamma * d)
		}
	}
}

// scaleGamma is 1 / (n_features * Var(X)), computed over every entry of X.
func scaleGamma(X *mat.Dense) float64 {
	r, c := X.Dims()
	all := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		all = append(all, X.RawRowView(i)...)
	}
	_, v := stat.PopMeanVariance(all, nil)
	if v == 0 {
		return 1
	}
	return 1 / (float64(c) * v)
}

// gramMatrix returns K with K[i][j] = k(x_i, x_j).
func gramMatrix(X *mat.Dense, k kernelFunc) *mat.SymDense {
	n, _ := X.Dims()
	K := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		xi := X.RawRowView(i)
		for j := i; j < n; j++ {
			K.SetSym(i, j, k(xi, X.RawRowView(j)))
		}
	}
	return K
}
