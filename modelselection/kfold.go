package modelselection

import (
	"sort"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// Fold holds the row indices of one cross-validation round.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter produces cross-validation folds for n rows.
type Splitter interface {
	Split(n int) ([]Fold, error)
	GetNSplits() int
}

// KFold implements k-fold cross-validation splitter
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed uint64
}

// NewKFold creates a new k-fold splitter
func NewKFold(nSplits int, shuffle bool, randomSeed uint64) *KFold {
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (kf *KFold) GetNSplits() int {
	return kf.NSplits
}

// Split generates train/test indices for each fold. The first n mod k folds
// hold one extra row; every row is held out exactly once. Indices within a
// fold are ascending.
func (kf *KFold) Split(n int) ([]Fold, error) {
	if kf.NSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", kf.NSplits)
	}
	if n < kf.NSplits {
		return nil, errors.NewValidationError("n_splits", "cannot exceed the number of samples", kf.NSplits)
	}

	// Create indices
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		indices = Permutation(n, kf.RandomSeed)
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := n / kf.NSplits
	remainder := n % kf.NSplits

	current := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		held := make([]bool, n)
		test := make([]int, testSize)
		copy(test, indices[current:current+testSize])
		for _, idx := range test {
			held[idx] = true
		}
		sort.Ints(test)

		train := make([]int, 0, n-testSize)
		for idx := 0; idx < n; idx++ {
			if !held[idx] {
				train = append(train, idx)
			}
		}

		folds[i] = Fold{TrainIndices: train, TestIndices: test}
		current += testSize
	}
	return folds, nil
}
