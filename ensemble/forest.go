// Package ensemble provides bagged tree ensembles.
package ensemble

import (
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/core/parallel"
	"github.com/YuminosukeSato/regeval/pkg/errors"
	"github.com/YuminosukeSato/regeval/tree"
)

const modelName = "RandomForestRegressor"

// RandomForestRegressor averages DecisionTreeRegressor predictions, each tree
// grown on a bootstrap sample of the training rows.
//
// Trees are built concurrently. Tree i draws its bootstrap sample and its
// feature subsets from a generator seeded with seed+i, so the fitted forest
// is identical for a given seed regardless of scheduling.
type RandomForestRegressor struct {
	state *model.StateManager

	nEstimators     int
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	bootstrap       bool
	seed            uint64

	trees []*tree.DecisionTreeRegressor
}

// NewRandomForestRegressor creates an unfitted forest of 100 fully grown
// trees considering all features at each split.
func NewRandomForestRegressor(opts ...Option) *RandomForestRegressor {
	rf := &RandomForestRegressor{
		state:           model.NewStateManager(),
		nEstimators:     100,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		bootstrap:       true,
	}
	for _, opt := range opts {
		opt(rf)
	}
	return rf
}

// Fit grows all trees.
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) error {
	r, c, err := model.CheckFitInput(modelName, X, y)
	if err != nil {
		return err
	}
	if rf.nEstimators < 1 {
		return errors.NewFitError(modelName, "invalid hyperparameters",
			errors.NewValidationError("n_estimators", "must be at least 1", rf.nEstimators))
	}
	rf.state.Reset()

	Xd := mat.DenseCopyOf(X)
	yd := mat.DenseCopyOf(y)

	trees := make([]*tree.DecisionTreeRegressor, rf.nEstimators)
	err = parallel.Parallelize(rf.nEstimators, func(start, end int) error {
		for i := start; i < end; i++ {
			seed := rf.seed + uint64(i)
			t := tree.NewDecisionTreeRegressor(
				tree.WithMaxDepth(rf.maxDepth),
				tree.WithMinSamplesSplit(rf.minSamplesSplit),
				tree.WithMinSamplesLeaf(rf.minSamplesLeaf),
				tree.WithMaxFeatures(rf.maxFeatures),
				tree.WithRandomState(seed),
			)
			if err := t.FitIndices(Xd, yd, rf.sampleRows(r, seed)); err != nil {
				return errors.NewFitError(modelName, "tree "+strconv.Itoa(i)+" failed", err)
			}
			trees[i] = t
		}
		return nil
	})
	if err != nil {
		return err
	}

	rf.trees = trees
	rf.state.SetDimensions(c, r)
	rf.state.SetFitted()
	return nil
}

// sampleRows returns the training rows for one tree: n draws with
// replacement when bootstrapping, otherwise every row once.
func (rf *RandomForestRegressor) sampleRows(n int, seed uint64) []int {
	idx := make([]int, n)
	if !rf.bootstrap {
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	rng := rand.New(rand.NewPCG(seed, ^seed))
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// Predict averages the predictions of all trees.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, err := rf.state.CheckPredictInput(modelName, X)
	if err != nil {
		return nil, err
	}
	sum := mat.NewVecDense(r, nil)
	for _, t := range rf.trees {
		p, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < r; i++ {
			sum.SetVec(i, sum.AtVec(i)+p.At(i, 0))
		}
	}
	sum.ScaleVec(1/float64(len(rf.trees)), sum)
	return sum, nil
}

// FeatureImportances returns the mean of the per-tree importances.
func (rf *RandomForestRegressor) FeatureImportances() ([]float64, error) {
	if err := rf.state.RequireFitted(modelName, "FeatureImportances"); err != nil {
		return nil, err
	}
	nFeatures, _ := rf.state.GetDimensions()
	out := make([]float64, nFeatures)
	for _, t := range rf.trees {
		imp, err := t.FeatureImportances()
		if err != nil {
			return nil, err
		}
		for j, v := range imp {
			out[j] += v / float64(len(rf.trees))
		}
	}
	return out, nil
}

// Estimators returns the fitted trees.
func (rf *RandomForestRegressor) Estimators() []*tree.DecisionTreeRegressor {
	return rf.trees
}

// GetParams returns the forest's hyperparameters.
func (rf *RandomForestRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      rf.nEstimators,
		"max_depth":         rf.maxDepth,
		"min_samples_split": rf.minSamplesSplit,
		"min_samples_leaf":  rf.minSamplesLeaf,
		"max_features":      rf.maxFeatures,
		"bootstrap":         rf.bootstrap,
		"random_state":      rf.seed,
	}
}
