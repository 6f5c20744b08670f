// Package model defines the estimator contracts shared by every regressor,
// transformer and pipeline in the harness.
package model

// Regressor is the capability set of every model variant: fit on a
// training matrix, then predict one value per row.
type Regressor interface {
	Fitter
	Predictor
}

// Factory builds a fresh, unfitted Regressor. Cross-validation calls it once
// per fold so that no fitted state leaks between folds.
type Factory func() Regressor

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
