// Package tree implements CART regression trees with the squared-error
// criterion. Trees are the base learners of ensemble.RandomForestRegressor.
package tree

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

const modelName = "DecisionTreeRegressor"

// node is one entry of the flattened tree. Leaves have left == -1.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	nSamples  int
}

// DecisionTreeRegressor is a binary regression tree grown greedily by
// minimizing the weighted sum of squared errors of the two children.
type DecisionTreeRegressor struct {
	state *model.StateManager

	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	seed            uint64

	nodes       []node
	importances []float64
	depth       int

	// fit-time scratch
	x   *mat.Dense
	y   []float64
	rng *rand.Rand
}

// NewDecisionTreeRegressor creates an unfitted tree. Defaults grow the tree
// until every leaf is pure or holds a single sample.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	t := &DecisionTreeRegressor{
		state:           model.NewStateManager(),
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fit grows the tree on all rows of X.
func (t *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	r, _, err := model.CheckFitInput(modelName, X, y)
	if err != nil {
		return err
	}
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(X, y, idx)
}

// FitIndices grows the tree on the given rows of X. Repeated indices act as
// sample weights, which is how bootstrap samples are passed in.
func (t *DecisionTreeRegressor) FitIndices(X, y mat.Matrix, idx []int) error {
	r, c, err := model.CheckFitInput(modelName, X, y)
	if err != nil {
		return err
	}
	if len(idx) == 0 {
		return errors.NewFitError(modelName, "empty sample", errors.ErrEmptyData)
	}
	if t.minSamplesSplit < 2 || t.minSamplesLeaf < 1 || t.maxDepth < 0 || t.maxFeatures < 0 {
		return errors.NewFitError(modelName, "invalid hyperparameters",
			errors.NewValidationError("min_samples_split/min_samples_leaf/max_depth/max_features", "out of range", nil))
	}
	for _, i := range idx {
		if i < 0 || i >= r {
			return errors.NewFitError(modelName, "sample index out of range",
				errors.NewDimensionError(modelName+".FitIndices", r, i, 0))
		}
	}

	t.state.Reset()
	t.x = mat.DenseCopyOf(X)
	t.y = make([]float64, r)
	for i := 0; i < r; i++ {
		t.y[i] = y.At(i, 0)
	}
	t.rng = rand.New(rand.NewPCG(t.seed, t.seed))
	t.nodes = t.nodes[:0]
	t.importances = make([]float64, c)
	t.depth = 0

	rows := append([]int(nil), idx...)
	t.grow(rows, 0)

	// 不純度減少量の合計で正規化
	var total float64
	for _, v := range t.importances {
		total += v
	}
	if total > 0 {
		for j := range t.importances {
			t.importances[j] /= total
		}
	}

	t.x, t.y, t.rng = nil, nil, nil
	t.state.SetDimensions(c, len(idx))
	t.state.SetFitted()
	return nil
}

// grow builds the subtree for rows and returns its node index.
func (t *DecisionTreeRegressor) grow(rows []int, depth int) int {
	if depth > t.depth {
		t.depth = depth
	}

	var sum, sumSq float64
	for _, i := range rows {
		sum += t.y[i]
		sumSq += t.y[i] * t.y[i]
	}
	n := float64(len(rows))
	sse := sumSq - sum*sum/n

	id := len(t.nodes)
	t.nodes = append(t.nodes, node{left: -1, right: -1, value: sum / n, nSamples: len(rows)})

	if len(rows) < t.minSamplesSplit || len(rows) < 2*t.minSamplesLeaf ||
		(t.maxDepth > 0 && depth >= t.maxDepth) || sse <= 1e-12*max(1, sumSq) {
		return id
	}

	feature, threshold, childSSE, ok := t.bestSplit(rows)
	if !ok {
		return id
	}

	left := make([]int, 0, len(rows))
	right := make([]int, 0, len(rows))
	for _, i := range rows {
		if t.x.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	t.importances[feature] += sse - childSSE

	l := t.grow(left, depth+1)
	r := t.grow(right, depth+1)
	t.nodes[id].feature = feature
	t.nodes[id].threshold = threshold
	t.nodes[id].left = l
	t.nodes[id].right = r
	return id
}

// bestSplit scans candidate features and returns the split with the lowest
// total child SSE. Ties keep the first candidate seen.
func (t *DecisionTreeRegressor) bestSplit(rows []int) (feature int, threshold, bestSSE float64, ok bool) {
	_, c := t.x.Dims()
	features := make([]int, c)
	for j := range features {
		features[j] = j
	}
	if t.maxFeatures > 0 && t.maxFeatures < c {
		t.rng.Shuffle(c, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:t.maxFeatures]
	}

	n := len(rows)
	sorted := make([]int, n)
	bestSSE = 0
	for _, f := range features {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(a, b int) bool {
			return t.x.At(sorted[a], f) < t.x.At(sorted[b], f)
		})

		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += t.y[i]
			totalSq += t.y[i] * t.y[i]
		}

		var leftSum, leftSq float64
		for k := 0; k < n-1; k++ {
			yi := t.y[sorted[k]]
			leftSum += yi
			leftSq += yi * yi

			nl := k + 1
			nr := n - nl
			if nl < t.minSamplesLeaf || nr < t.minSamplesLeaf {
				continue
			}
			xv := t.x.At(sorted[k], f)
			xn := t.x.At(sorted[k+1], f)
			if xn <= xv {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			s := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
			if !ok || s < bestSSE {
				ok = true
				bestSSE = s
				feature = f
				threshold = xv + (xn-xv)/2
				if threshold >= xn {
					threshold = xv
				}
			}
		}
	}
	return feature, threshold, bestSSE, ok
}

// Predict returns the leaf mean for every row of X.
func (t *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, err := t.state.CheckPredictInput(modelName, X)
	if err != nil {
		return nil, err
	}
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetVec(i, t.predictRow(X, i))
	}
	return out, nil
}

func (t *DecisionTreeRegressor) predictRow(X mat.Matrix, i int) float64 {
	id := 0
	for t.nodes[id].left >= 0 {
		nd := t.nodes[id]
		if X.At(i, nd.feature) <= nd.threshold {
			id = nd.left
		} else {
			id = nd.right
		}
	}
	return t.nodes[id].value
}

// FeatureImportances returns the normalized total squared-error reduction
// contributed by each feature.
func (t *DecisionTreeRegressor) FeatureImportances() ([]float64, error) {
	if err := t.state.RequireFitted(modelName, "FeatureImportances"); err != nil {
		return nil, err
	}
	return append([]float64(nil), t.importances...), nil
}

// NodeCount returns the number of nodes, leaves included.
func (t *DecisionTreeRegressor) NodeCount() int { return len(t.nodes) }

// Depth returns the depth of the deepest leaf.
func (t *DecisionTreeRegressor) Depth() int { return t.depth }

// GetParams returns the tree's hyperparameters.
func (t *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_depth":         t.maxDepth,
		"min_samples_split": t.minSamplesSplit,
		"min_samples_leaf":  t.minSamplesLeaf,
		"max_features":      t.maxFeatures,
		"random_state":      t.seed,
	}
}
