package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

func stepData() (*mat.Dense, *mat.Dense) {
	// y = 10 when x0 > 2.5, else 0; x1 is noise
	X := mat.NewDense(6, 2, []float64{
		0, 5,
		1, 3,
		2, 9,
		3, 1,
		4, 7,
		5, 2,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 10, 10, 10})
	return X, y
}

func TestDecisionTree_LearnsStep(t *testing.T) {
	X, y := stepData()
	tr := NewDecisionTreeRegressor()
	require.NoError(t, tr.Fit(X, y))

	assert.Equal(t, 3, tr.NodeCount())
	assert.Equal(t, 1, tr.Depth())

	pred, err := tr.Predict(mat.NewDense(2, 2, []float64{2.4, 0, 2.6, 0}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, pred.At(0, 0))
	assert.Equal(t, 10.0, pred.At(1, 0))

	imp, err := tr.FeatureImportances()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, imp[0], 1e-12)
	assert.InDelta(t, 0.0, imp[1], 1e-12)
}

func TestDecisionTree_FullyGrownInterpolatesTraining(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{3, 1, 4, 1, 5})

	tr := NewDecisionTreeRegressor()
	require.NoError(t, tr.Fit(X, y))
	pred, err := tr.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.Equal(t, y.At(i, 0), pred.At(i, 0))
	}
}

func TestDecisionTree_MaxDepth(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{3, 1, 4, 1, 5})

	tr := NewDecisionTreeRegressor(WithMaxDepth(1))
	require.NoError(t, tr.Fit(X, y))
	assert.Equal(t, 1, tr.Depth())
	assert.Equal(t, 3, tr.NodeCount())
}

func TestDecisionTree_MinSamplesLeaf(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{0, 0, 0, 100})

	tr := NewDecisionTreeRegressor(WithMinSamplesLeaf(2))
	require.NoError(t, tr.Fit(X, y))
	pred, err := tr.Predict(mat.NewDense(1, 1, []float64{4}))
	require.NoError(t, err)
	assert.Equal(t, 50.0, pred.At(0, 0))
}

func TestDecisionTree_FitIndicesWithRepeats(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	tr := NewDecisionTreeRegressor(WithMaxDepth(1))
	require.NoError(t, tr.FitIndices(X, y, []int{0, 0, 0, 2}))
	pred, err := tr.Predict(mat.NewDense(1, 1, []float64{1}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred.At(0, 0))

	err = tr.FitIndices(X, y, []int{0, 7})
	var fitErr *errors.FitError
	assert.True(t, errors.As(err, &fitErr))
}

func TestDecisionTree_SeededFeatureSampling(t *testing.T) {
	X, y := stepData()
	a := NewDecisionTreeRegressor(WithMaxFeatures(1), WithRandomState(7))
	b := NewDecisionTreeRegressor(WithMaxFeatures(1), WithRandomState(7))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	pa, err := a.Predict(X)
	require.NoError(t, err)
	pb, err := b.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(pa, pb))
}

func TestDecisionTree_Errors(t *testing.T) {
	_, err := NewDecisionTreeRegressor().Predict(mat.NewDense(1, 1, nil))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	err = NewDecisionTreeRegressor(WithMinSamplesSplit(1)).Fit(stepData())
	var fitErr *errors.FitError
	assert.True(t, errors.As(err, &fitErr))
}
