// Package featureselection implements univariate filter selection of
// predictor columns by their F-statistic against the target.
package featureselection

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// ScoreFunc scores every column of X against y. Larger scores are better.
type ScoreFunc func(X, y mat.Matrix) (scores, pvalues []float64, err error)

// FRegression computes, for every column x_j of X, the F-statistic of the
// univariate linear regression of y on x_j and its p-value:
//
//	r_j = corr(x_j, y)
//	F_j = r_j² / (1 - r_j²) · (n - 2)
//	p_j = P(F(1, n-2) > F_j)
//
// A constant column or constant target scores 0 with p-value 1. A perfectly
// correlated column scores math.MaxFloat64 with p-value 0.
func FRegression(X, y mat.Matrix) (scores, pvalues []float64, err error) {
	n, p := X.Dims()
	ny, cy := y.Dims()
	if n == 0 || p == 0 {
		return nil, nil, errors.NewValueError("FRegression", "empty input")
	}
	if ny != n {
		return nil, nil, errors.NewDimensionError("FRegression", n, ny, 0)
	}
	if cy != 1 {
		return nil, nil, errors.NewValueError("FRegression", "y must be a column vector")
	}
	if n < 3 {
		return nil, nil, errors.NewValueError("FRegression", "at least 3 samples are required")
	}

	target := mat.Col(nil, 0, y)
	_, yVar := stat.PopMeanVariance(target, nil)

	dof := float64(n - 2)
	fdist := distuv.F{D1: 1, D2: dof}

	scores = make([]float64, p)
	pvalues = make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, X)
		_, xVar := stat.PopMeanVariance(col, nil)
		if xVar == 0 || yVar == 0 {
			scores[j], pvalues[j] = 0, 1
			errors.Warn(errors.NewUndefinedMetricWarning("f_regression", "zero variance", 0))
			continue
		}

		r := stat.Correlation(col, target, nil)
		r2 := r * r
		if r2 >= 1 {
			scores[j], pvalues[j] = math.MaxFloat64, 0
			continue
		}
		f := r2 / (1 - r2) * dof
		scores[j] = f
		pvalues[j] = fdist.Survival(f)
	}
	return scores, pvalues, nil
}
