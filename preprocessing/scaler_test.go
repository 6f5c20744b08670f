package preprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

type recordingRegressor struct {
	seen mat.Matrix
}

func (r *recordingRegressor) Fit(X, _ mat.Matrix) error {
	r.seen = mat.DenseCopyOf(X)
	return nil
}

func (r *recordingRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		out.SetVec(i, X.At(i, 0))
	}
	return out, nil
}

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})
	s := NewStandardScalerDefault()
	Xt, err := s.FitTransform(X)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2.5, 10}, s.Mean, 1e-12)
	// population std of 1..4, constant column gets scale 1
	assert.InDeltaSlice(t, []float64{1.118033988749895, 1}, s.Scale, 1e-12)
	assert.InDelta(t, -1.3416407864998738, Xt.At(0, 0), 1e-12)
	assert.Equal(t, 0.0, Xt.At(2, 1))

	back, err := s.InverseTransform(Xt)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))
}

func TestStandardScaler_Errors(t *testing.T) {
	s := NewStandardScalerDefault()
	_, err := s.Transform(mat.NewDense(1, 1, nil))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	require.NoError(t, s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = s.Transform(mat.NewDense(1, 3, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	var fitErr *errors.FitError
	assert.True(t, errors.As(s.Fit(&mat.Dense{}), &fitErr))
}

func TestMinMaxScaler(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{2, 4, 6})
	m := NewMinMaxScalerDefault()
	Xt, err := m.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, mat.Col(nil, 0, Xt))

	back, err := m.InverseTransform(Xt)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))
}

func TestPipeline_ScalerFittedOnTrainingOnly(t *testing.T) {
	reg := &recordingRegressor{}
	p := NewPipeline(NewStandardScalerDefault(), reg)

	train := mat.NewDense(2, 1, []float64{0, 2})
	require.NoError(t, p.Fit(train, mat.NewDense(2, 1, []float64{0, 0})))
	assert.Equal(t, []float64{-1, 1}, mat.Col(nil, 0, reg.seen))

	pred, err := p.Predict(mat.NewDense(1, 1, []float64{4}))
	require.NoError(t, err)
	// (4 - 1) / 1
	assert.Equal(t, 3.0, pred.At(0, 0))
}

func TestPipeline_GetParams(t *testing.T) {
	p := NewPipeline(NewMinMaxScalerDefault(), &recordingRegressor{})
	params := p.GetParams()
	assert.Contains(t, params, "scaler__feature_range")
	for k := range params {
		assert.True(t, strings.HasPrefix(k, "scaler__"), k)
	}
}
