package neighbors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

func lineData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(6, 1, []float64{0, 1, 2, 3, 4, 5})
	y := mat.NewDense(6, 1, []float64{0, 10, 20, 30, 40, 50})
	return X, y
}

func TestKNeighbors_UniformMean(t *testing.T) {
	X, y := lineData()
	kn := NewKNeighborsRegressor(WithNNeighbors(3))
	require.NoError(t, kn.Fit(X, y))

	pred, err := kn.Predict(mat.NewDense(2, 1, []float64{2.1, 10}))
	require.NoError(t, err)
	// 2.1 -> {2, 3, 1}
	assert.InDelta(t, 20.0, pred.At(0, 0), 1e-12)
	// 10 -> {5, 4, 3}
	assert.InDelta(t, 40.0, pred.At(1, 0), 1e-12)
}

func TestKNeighbors_TiesBrokenByTrainingOrder(t *testing.T) {
	X, y := lineData()
	kn := NewKNeighborsRegressor(WithNNeighbors(2))
	require.NoError(t, kn.Fit(X, y))

	// 2.5 is equidistant from 2 and 3, and 1.5 from 1 and 2
	idx, dist, err := kn.KNeighbors(mat.NewDense(1, 1, []float64{2.5}))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, idx[0])
	assert.Equal(t, []float64{0.5, 0.5}, dist[0])
}

func TestKNeighbors_DistanceWeights(t *testing.T) {
	X, y := lineData()
	kn := NewKNeighborsRegressor(WithNNeighbors(2), WithWeights(WeightsDistance))
	require.NoError(t, kn.Fit(X, y))

	pred, err := kn.Predict(mat.NewDense(2, 1, []float64{1.25, 3}))
	require.NoError(t, err)
	// weights 1/0.25 and 1/0.75 on 10 and 20
	assert.InDelta(t, 12.5, pred.At(0, 0), 1e-9)
	// exact match returns the matching target
	assert.Equal(t, 30.0, pred.At(1, 0))
}

func TestKNeighbors_Multivariate(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{0, 0, 3, 4, 0, 1, 10, 10})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	kn := NewKNeighborsRegressor(WithNNeighbors(1))
	require.NoError(t, kn.Fit(X, y))

	_, dist, err := kn.KNeighbors(mat.NewDense(1, 2, []float64{3, 4}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, dist[0][0])

	idx, dist, err := kn.KNeighbors(mat.NewDense(1, 2, []float64{0, 0.4}))
	require.NoError(t, err)
	assert.Equal(t, 0, idx[0][0])
	assert.InDelta(t, 0.4, dist[0][0], 1e-12)
}

func TestKNeighbors_Errors(t *testing.T) {
	X, y := lineData()

	tests := []struct {
		name string
		kn   *KNeighborsRegressor
	}{
		{"k larger than samples", NewKNeighborsRegressor(WithNNeighbors(7))},
		{"k zero", NewKNeighborsRegressor(WithNNeighbors(0))},
		{"unknown weights", NewKNeighborsRegressor(WithWeights("gaussian"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.kn.Fit(X, y)
			var fitErr *errors.FitError
			assert.True(t, errors.As(err, &fitErr))
		})
	}

	_, err := NewKNeighborsRegressor().Predict(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}
