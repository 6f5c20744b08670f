package evaluation

import (
	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/ensemble"
	"github.com/YuminosukeSato/regeval/linear"
	"github.com/YuminosukeSato/regeval/neighbors"
	"github.com/YuminosukeSato/regeval/pkg/errors"
	"github.com/YuminosukeSato/regeval/svm"
)

// Model kinds accepted in configuration.
const (
	KindLinear       = "linear"
	KindRandomForest = "random_forest"
	KindKNN          = "knn"
	KindSVR          = "svr"
)

// Params is the hyperparameter record of one model variant. The set of
// implementations is closed: LinearParams, ForestParams, KNNParams and
// SVRParams.
type Params interface {
	Kind() string
	Validate() error
	newRegressor() model.Regressor
}

// LinearParams configures ordinary least squares.
type LinearParams struct {
	FitIntercept bool `json:"fit_intercept"`
}

func (LinearParams) Kind() string { return KindLinear }

func (p LinearParams) Validate() error { return nil }

func (p LinearParams) newRegressor() model.Regressor {
	return linear.NewLinearRegression(linear.WithFitIntercept(p.FitIntercept))
}

// ForestParams configures the random forest. Zero MaxDepth and MaxFeatures
// mean unlimited and all features.
type ForestParams struct {
	NEstimators    int    `json:"n_estimators"`
	MaxDepth       int    `json:"max_depth"`
	MinSamplesLeaf int    `json:"min_samples_leaf"`
	MaxFeatures    int    `json:"max_features"`
	Bootstrap      bool   `json:"bootstrap"`
	Seed           uint64 `json:"seed"`
}

func (ForestParams) Kind() string { return KindRandomForest }

func (p ForestParams) Validate() error {
	if p.NEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", p.NEstimators)
	}
	if p.MaxDepth < 0 {
		return errors.NewValidationError("max_depth", "must be non-negative", p.MaxDepth)
	}
	if p.MinSamplesLeaf < 0 {
		return errors.NewValidationError("min_samples_leaf", "must be non-negative", p.MinSamplesLeaf)
	}
	if p.MaxFeatures < 0 {
		return errors.NewValidationError("max_features", "must be non-negative", p.MaxFeatures)
	}
	return nil
}

func (p ForestParams) newRegressor() model.Regressor {
	opts := []ensemble.Option{
		ensemble.WithNEstimators(p.NEstimators),
		ensemble.WithBootstrap(p.Bootstrap),
		ensemble.WithRandomState(p.Seed),
	}
	if p.MaxDepth > 0 {
		opts = append(opts, ensemble.WithMaxDepth(p.MaxDepth))
	}
	if p.MinSamplesLeaf > 0 {
		opts = append(opts, ensemble.WithMinSamplesLeaf(p.MinSamplesLeaf))
	}
	if p.MaxFeatures > 0 {
		opts = append(opts, ensemble.WithMaxFeatures(p.MaxFeatures))
	}
	return ensemble.NewRandomForestRegressor(opts...)
}

// KNNParams configures k-nearest-neighbors regression.
type KNNParams struct {
	NNeighbors int    `json:"n_neighbors"`
	Weights    string `json:"weights"`
}

func (KNNParams) Kind() string { return KindKNN }

func (p KNNParams) Validate() error {
	if p.NNeighbors < 1 {
		return errors.NewValidationError("n_neighbors", "must be at least 1", p.NNeighbors)
	}
	switch p.Weights {
	case "", neighbors.WeightsUniform, neighbors.WeightsDistance:
		return nil
	}
	return errors.NewValidationError("weights", "must be uniform or distance", p.Weights)
}

func (p KNNParams) newRegressor() model.Regressor {
	opts := []neighbors.Option{neighbors.WithNNeighbors(p.NNeighbors)}
	if p.Weights != "" {
		opts = append(opts, neighbors.WithWeights(p.Weights))
	}
	return neighbors.NewKNeighborsRegressor(opts...)
}

// SVRParams configures epsilon-SVR. Gamma <= 0 selects the "scale" heuristic.
type SVRParams struct {
	Kernel  string  `json:"kernel"`
	C       float64 `json:"c"`
	Gamma   float64 `json:"gamma"`
	Epsilon float64 `json:"epsilon"`
	Degree  int     `json:"degree"`
	Coef0   float64 `json:"coef0"`
}

func (SVRParams) Kind() string { return KindSVR }

func (p SVRParams) Validate() error {
	switch p.Kernel {
	case svm.KernelRBF, svm.KernelLinear, svm.KernelPoly:
	default:
		return errors.NewValidationError("kernel", "must be rbf, linear or poly", p.Kernel)
	}
	if !(p.C > 0) {
		return errors.NewValidationError("c", "must be positive", p.C)
	}
	if p.Epsilon < 0 {
		return errors.NewValidationError("epsilon", "must be non-negative", p.Epsilon)
	}
	if p.Kernel == svm.KernelPoly && p.Degree < 1 {
		return errors.NewValidationError("degree", "must be at least 1", p.Degree)
	}
	return nil
}

func (p SVRParams) newRegressor() model.Regressor {
	opts := []svm.Option{
		svm.WithKernel(p.Kernel),
		svm.WithC(p.C),
		svm.WithGamma(p.Gamma),
		svm.WithEpsilon(p.Epsilon),
		svm.WithCoef0(p.Coef0),
	}
	if p.Degree > 0 {
		opts = append(opts, svm.WithDegree(p.Degree))
	}
	return svm.NewSVR(opts...)
}

// ModelSpec names one model variant and carries its hyperparameters.
type ModelSpec struct {
	Name   string
	Params Params
}

// Factory returns a constructor of fresh, unfitted regressors described by s.
// When scaler is not ScalerNone every regressor is wrapped in a
// scaler→model pipeline.
func (s ModelSpec) Factory(scaler string) model.Factory {
	return func() model.Regressor {
		return wrapScaler(scaler, s.Params.newRegressor())
	}
}

// DefaultModels returns the four variants in evaluation order with the
// hyperparameters of the reference run.
func DefaultModels() []ModelSpec {
	return []ModelSpec{
		{Name: "Random Forest", Params: ForestParams{NEstimators: 100, Bootstrap: true, Seed: 42}},
		{Name: "Linear Regression", Params: LinearParams{FitIntercept: true}},
		{Name: "K-Nearest Neighbors", Params: KNNParams{NNeighbors: 5, Weights: neighbors.WeightsUniform}},
		{Name: "Support Vector Machine", Params: SVRParams{Kernel: svm.KernelRBF, C: 1.0, Gamma: 0.1, Epsilon: 0.1, Degree: 3}},
	}
}
