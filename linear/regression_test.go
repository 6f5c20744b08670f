package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

func TestLinearRegression_RecoversExactCoefficients(t *testing.T) {
	// y = 1 + 2*x1 - 3*x2
	X := mat.NewDense(5, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
		2, 3,
	})
	y := mat.NewDense(5, 1, []float64{1, 3, -2, 0, -4})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	w := lr.GetWeights()
	assert.InDelta(t, 2.0, w[0], 1e-9)
	assert.InDelta(t, -3.0, w[1], 1e-9)
	assert.InDelta(t, 1.0, lr.GetIntercept(), 1e-9)
	assert.Equal(t, 2, lr.Rank)

	pred, err := lr.Predict(mat.NewDense(1, 2, []float64{3, 1}))
	require.NoError(t, err)
	assert.InDelta(t, 4.0, pred.At(0, 0), 1e-9)
}

func TestLinearRegression_WithoutIntercept(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})

	lr := NewLinearRegression(WithFitIntercept(false))
	require.NoError(t, lr.Fit(X, y))
	assert.InDelta(t, 2.0, lr.GetWeights()[0], 1e-12)
	assert.Zero(t, lr.GetIntercept())
}

func TestLinearRegression_RankDeficient(t *testing.T) {
	// x2 = 2*x1: 最小ノルム解を返し、失敗しない
	X := mat.NewDense(4, 2, []float64{1, 2, 2, 4, 3, 6, 4, 8})
	y := mat.NewDense(4, 1, []float64{5, 10, 15, 20})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, 1, lr.Rank)

	pred, err := lr.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, y.At(i, 0), pred.At(i, 0), 1e-9)
	}
	w := lr.GetWeights()
	assert.InDelta(t, 1.0, w[0], 1e-9)
	assert.InDelta(t, 2.0, w[1], 1e-9)
}

func TestLinearRegression_ConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	assert.Zero(t, lr.Rank)
	assert.InDelta(t, 2.0, lr.GetIntercept(), 1e-12)
}

func TestLinearRegression_Errors(t *testing.T) {
	t.Run("predict before fit", func(t *testing.T) {
		_, err := NewLinearRegression().Predict(mat.NewDense(1, 1, nil))
		var nf *errors.NotFittedError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("shape mismatch", func(t *testing.T) {
		err := NewLinearRegression().Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, []float64{1, 2}))
		var fitErr *errors.FitError
		assert.True(t, errors.As(err, &fitErr))
	})

	t.Run("nan input", func(t *testing.T) {
		err := NewLinearRegression().Fit(mat.NewDense(2, 1, []float64{1, math.NaN()}), mat.NewDense(2, 1, []float64{1, 2}))
		var fitErr *errors.FitError
		assert.True(t, errors.As(err, &fitErr))
	})

	t.Run("wrong feature count at predict", func(t *testing.T) {
		lr := NewLinearRegression()
		require.NoError(t, lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{1, 2, 4})))
		_, err := lr.Predict(mat.NewDense(1, 2, nil))
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})
}

func TestLinearRegression_Deterministic(t *testing.T) {
	X, y := createBenchmarkData(50, 3)
	a, b := NewLinearRegression(), NewLinearRegression()
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))
	assert.Equal(t, a.GetWeights(), b.GetWeights())
	assert.Equal(t, a.GetIntercept(), b.GetIntercept())
}
