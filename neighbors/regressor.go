// Package neighbors provides brute-force k-nearest-neighbors regression.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/core/parallel"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

const modelName = "KNeighborsRegressor"

// Weighting schemes for neighbor targets.
const (
	WeightsUniform  = "uniform"
	WeightsDistance = "distance"
)

// Option is a function that configures KNeighborsRegressor
type Option func(*KNeighborsRegressor)

// WithNNeighbors sets k.
func WithNNeighbors(k int) Option {
	return func(kn *KNeighborsRegressor) {
		kn.nNeighbors = k
	}
}

// WithWeights selects WeightsUniform or WeightsDistance.
func WithWeights(w string) Option {
	return func(kn *KNeighborsRegressor) {
		kn.weights = w
	}
}

// KNeighborsRegressor predicts the (optionally distance-weighted) mean
// target of the k training rows closest in Euclidean distance. Equidistant
// neighbors are ordered by training row index.
type KNeighborsRegressor struct {
	state *model.StateManager

	nNeighbors int
	weights    string

	x *mat.Dense
	y []float64
}

// NewKNeighborsRegressor creates an unfitted regressor with k=5 and uniform weights.
func NewKNeighborsRegressor(opts ...Option) *KNeighborsRegressor {
	kn := &KNeighborsRegressor{
		state:      model.NewStateManager(),
		nNeighbors: 5,
		weights:    WeightsUniform,
	}
	for _, opt := range opts {
		opt(kn)
	}
	return kn
}

// Fit stores the training data.
func (kn *KNeighborsRegressor) Fit(X, y mat.Matrix) error {
	r, c, err := model.CheckFitInput(modelName, X, y)
	if err != nil {
		return err
	}
	if kn.nNeighbors < 1 {
		return errors.NewFitError(modelName, "invalid hyperparameters",
			errors.NewValidationError("n_neighbors", "must be at least 1", kn.nNeighbors))
	}
	if kn.weights != WeightsUniform && kn.weights != WeightsDistance {
		return errors.NewFitError(modelName, "invalid hyperparameters",
			errors.NewValidationError("weights", "must be uniform or distance", kn.weights))
	}
	if kn.nNeighbors > r {
		return errors.NewFitError(modelName,
			"n_neighbors exceeds the number of training samples",
			errors.NewValidationError("n_neighbors", "must be <= n_samples", kn.nNeighbors))
	}
	kn.state.Reset()
	kn.x = mat.DenseCopyOf(X)
	kn.y = make([]float64, r)
	for i := 0; i < r; i++ {
		kn.y[i] = y.At(i, 0)
	}
	kn.state.SetDimensions(c, r)
	kn.state.SetFitted()
	return nil
}

type neighbor struct {
	index int
	dist  float64
}

// KNeighbors returns, for every row of X, the indices of and distances to
// its k nearest training rows, nearest first.
func (kn *KNeighborsRegressor) KNeighbors(X mat.Matrix) ([][]int, [][]float64, error) {
	r, err := kn.state.CheckPredictInput(modelName, X)
	if err != nil {
		return nil, nil, err
	}
	indices := make([][]int, r)
	dists := make([][]float64, r)
	err = parallel.ParallelizeWithThreshold(r, 256, func(start, end int) error {
		for i := start; i < end; i++ {
			nb := kn.nearest(X, i)
			indices[i] = make([]int, len(nb))
			dists[i] = make([]float64, len(nb))
			for j, n := range nb {
				indices[i][j] = n.index
				dists[i][j] = n.dist
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return indices, dists, nil
}

func (kn *KNeighborsRegressor) nearest(X mat.Matrix, i int) []neighbor {
	n, c := kn.x.Dims()
	query := make([]float64, c)
	mat.Row(query, i, X)

	all := make([]neighbor, n)
	for j := 0; j < n; j++ {
		all[j] = neighbor{index: j, dist: floats.Distance(query, kn.x.RawRowView(j), 2)}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].dist < all[b].dist })
	return all[:kn.nNeighbors]
}

// Predict returns the neighbor-averaged target for every row of X.
func (kn *KNeighborsRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	indices, dists, err := kn.KNeighbors(X)
	if err != nil {
		return nil, err
	}

	out := mat.NewVecDense(len(indices), nil)
	for i := range indices {
		out.SetVec(i, kn.aggregate(indices[i], dists[i]))
	}
	return out, nil
}

func (kn *KNeighborsRegressor) aggregate(idx []int, dist []float64) float64 {
	if kn.weights == WeightsUniform {
		var sum float64
		for _, j := range idx {
			sum += kn.y[j]
		}
		return sum / float64(len(idx))
	}

	// 距離0の近傍があればそれらの平均を返す
	var exactSum float64
	exact := 0
	for k, j := range idx {
		if dist[k] == 0 {
			exactSum += kn.y[j]
			exact++
		}
	}
	if exact > 0 {
		return exactSum / float64(exact)
	}

	var num, den float64
	for k, j := range idx {
		w := 1 / dist[k]
		num += w * kn.y[j]
		den += w
	}
	if den == 0 || math.IsInf(den, 0) {
		return math.NaN()
	}
	return num / den
}

// GetParams returns the regressor's hyperparameters.
func (kn *KNeighborsRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": kn.nNeighbors,
		"weights":     kn.weights,
	}
}
