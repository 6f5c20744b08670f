// Package modelselection partitions rows into holdout groups and k folds
// and runs k-fold cross-validation.
package modelselection

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// Split is a train/validation/test partition of the rows of X and y.
type Split struct {
	TrainIndices []int
	ValIndices   []int
	TestIndices  []int

	XTrain, XVal, XTest *mat.Dense
	YTrain, YVal, YTest *mat.Dense
}

// ceilFrac is ceil(x) with a tolerance for products like 0.3*100 that land
// a few ulps above an integer.
func ceilFrac(x float64) int {
	return int(math.Ceil(x - 1e-9))
}

// SplitSizes returns the group sizes for n rows. The held-out share
// (1 - trainFrac) is rounded up first, then the test share of the held-out
// rows, valFrac/(1-trainFrac) of them going to validation, is rounded up.
func SplitSizes(n int, trainFrac, valFrac float64) (nTrain, nVal, nTest int, err error) {
	if !(trainFrac > 0 && trainFrac < 1) {
		return 0, 0, 0, errors.NewValidationError("train", "must be in (0, 1)", trainFrac)
	}
	if !(valFrac > 0 && trainFrac+valFrac < 1) {
		return 0, 0, 0, errors.NewValidationError("validation", "must be positive with train+validation < 1", valFrac)
	}

	holdout := ceilFrac((1 - trainFrac) * float64(n))
	nTrain = n - holdout
	testShare := 1 - valFrac/(1-trainFrac)
	nTest = ceilFrac(testShare * float64(holdout))
	nVal = holdout - nTest

	if nTrain < 1 || nVal < 1 || nTest < 1 {
		return 0, 0, 0, errors.NewDataQualityError("split",
			"too few rows for a non-empty train/validation/test partition", errors.ErrEmptyData)
	}
	return nTrain, nVal, nTest, nil
}

// TrainValTestSplit draws one seeded permutation of the rows and cuts it
// into train, validation and test groups. The same seed and row count
// always yield the same partition.
func TrainValTestSplit(X, y mat.Matrix, trainFrac, valFrac float64, seed uint64) (*Split, error) {
	n, _ := X.Dims()
	ny, _ := y.Dims()
	if ny != n {
		return nil, errors.NewDimensionError("TrainValTestSplit", n, ny, 0)
	}
	nTrain, nVal, _, err := SplitSizes(n, trainFrac, valFrac)
	if err != nil {
		return nil, err
	}

	perm := Permutation(n, seed)
	s := &Split{
		TrainIndices: perm[:nTrain],
		ValIndices:   perm[nTrain : nTrain+nVal],
		TestIndices:  perm[nTrain+nVal:],
	}
	s.XTrain, s.YTrain = model.RowsOf(X, s.TrainIndices), model.RowsOf(y, s.TrainIndices)
	s.XVal, s.YVal = model.RowsOf(X, s.ValIndices), model.RowsOf(y, s.ValIndices)
	s.XTest, s.YTest = model.RowsOf(X, s.TestIndices), model.RowsOf(y, s.TestIndices)
	return s, nil
}

// Permutation returns a seeded permutation of 0..n-1.
func Permutation(n int, seed uint64) []int {
	r := rand.New(rand.NewPCG(seed, seed))
	return r.Perm(n)
}
