package featureselection

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// SelectKBest keeps the k columns with the highest scores.
//
// Columns are ranked by descending score with a stable sort, so equal
// scores favour the earlier column; NaN scores rank last. The kept columns
// are reported in their original order.
type SelectKBest struct {
	state *model.StateManager

	K         int
	ScoreFunc ScoreFunc

	scores  []float64
	pvalues []float64
	support []int
}

// NewSelectKBest creates a selector that scores columns with FRegression.
func NewSelectKBest(k int) *SelectKBest {
	return &SelectKBest{state: model.NewStateManager(), K: k, ScoreFunc: FRegression}
}

// Fit scores every column and picks the top K.
func (s *SelectKBest) Fit(X, y mat.Matrix) error {
	_, p := X.Dims()
	if s.K < 1 {
		return errors.NewValidationError("k", "must be at least 1", s.K)
	}
	if p < s.K {
		return errors.NewInsufficientFeaturesError(s.K, p)
	}

	scoreFunc := s.ScoreFunc
	if scoreFunc == nil {
		scoreFunc = FRegression
	}
	scores, pvalues, err := scoreFunc(X, y)
	if err != nil {
		return err
	}

	s.state.Reset()
	s.scores = scores
	s.pvalues = pvalues
	s.support = topK(scores, s.K)
	s.state.SetDimensions(p, 0)
	s.state.SetFitted()
	return nil
}

// topK returns the indices of the k best scores in ascending index order.
func topK(scores []float64, k int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if math.IsNaN(sb) {
			return !math.IsNaN(sa)
		}
		return sa > sb
	})
	support := append([]int(nil), order[:k]...)
	sort.Ints(support)
	return support
}

// Transform keeps the selected columns of X.
func (s *SelectKBest) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.state.RequireFitted("SelectKBest", "Transform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := s.state.GetDimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("SelectKBest.Transform", nFeatures, c, 1)
	}
	out := mat.NewDense(r, len(s.support), nil)
	col := make([]float64, r)
	for k, j := range s.support {
		mat.Col(col, j, X)
		out.SetCol(k, col)
	}
	return out, nil
}

// FitTransform fits on X, y and returns the reduced X.
func (s *SelectKBest) FitTransform(X, y mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X, y); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// Support returns the selected column indices in original order.
func (s *SelectKBest) Support() []int { return append([]int(nil), s.support...) }

// Scores returns the score of every input column.
func (s *SelectKBest) Scores() []float64 { return append([]float64(nil), s.scores...) }

// PValues returns the p-value of every input column.
func (s *SelectKBest) PValues() []float64 { return append([]float64(nil), s.pvalues...) }

// FeatureScore is the score and p-value of one named predictor.
type FeatureScore struct {
	Name     string  `json:"name"`
	Score    float64 `json:"f_score"`
	PValue   float64 `json:"p_value"`
	Selected bool    `json:"selected"`
}

// Result is the outcome of selecting k of the named predictors.
type Result struct {
	Features []string       `json:"features"`
	X        *mat.Dense     `json:"-"`
	Scores   []FeatureScore `json:"scores"`
}

// Select ranks the named columns of X against y and returns the k best
// names in original column order together with the reduced matrix and the
// scores of every predictor. It fails with InsufficientFeaturesError when
// fewer than k columns are available.
func Select(names []string, X, y mat.Matrix, k int) (*Result, error) {
	_, p := X.Dims()
	if len(names) != p {
		return nil, errors.NewDimensionError("featureselection.Select", p, len(names), 1)
	}
	sel := NewSelectKBest(k)
	Xk, err := sel.FitTransform(X, y)
	if err != nil {
		return nil, err
	}

	res := &Result{X: Xk, Scores: make([]FeatureScore, p)}
	chosen := make(map[int]bool, k)
	for _, j := range sel.support {
		chosen[j] = true
		res.Features = append(res.Features, names[j])
	}
	for j := range names {
		res.Scores[j] = FeatureScore{Name: names[j], Score: sel.scores[j], PValue: sel.pvalues[j], Selected: chosen[j]}
	}
	return res, nil
}
