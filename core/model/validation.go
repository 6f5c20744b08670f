package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// CheckFitInput validates the training pair shared by every Fit: X must be
// non-empty, y must be a column vector with one entry per row of X, and
// neither may contain NaN or Inf.
func CheckFitInput(modelName string, X, y mat.Matrix) (rows, cols int, err error) {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return 0, 0, errors.NewFitError(modelName, "empty input", errors.ErrEmptyData)
	}
	if cy != 1 {
		return 0, 0, errors.NewFitError(modelName, "y must be a column vector",
			errors.NewDimensionError(modelName+".Fit", 1, cy, 1))
	}
	if ry != r {
		return 0, 0, errors.NewFitError(modelName, "shape mismatch",
			errors.NewDimensionError(modelName+".Fit", r, ry, 0))
	}
	if err := errors.CheckMatrix(modelName+".Fit", X, r, c, 0); err != nil {
		return 0, 0, errors.NewFitError(modelName, "non-finite feature value", err)
	}
	if err := errors.CheckMatrix(modelName+".Fit", y, ry, 1, 0); err != nil {
		return 0, 0, errors.NewFitError(modelName, "non-finite target value", err)
	}
	return r, c, nil
}

// ColumnToVec copies column 0 of m into a new vector.
func ColumnToVec(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}

// RowsOf copies the given rows of X, in order, into a new matrix.
func RowsOf(X mat.Matrix, idx []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for i, row := range idx {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(row, j))
		}
	}
	return out
}
