package evaluation

import (
	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/pkg/errors"
	"github.com/YuminosukeSato/regeval/preprocessing"
)

// Scaler choices for the optional preprocessing stage.
const (
	ScalerNone     = "none"
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// Config is the full set of knobs for one evaluation run.
type Config struct {
	// Target is the numeric column to predict.
	Target string
	// K is the number of predictors kept by the F-statistic filter.
	K int

	TrainFrac float64
	ValFrac   float64
	SplitSeed uint64

	Folds   int
	Shuffle bool
	CVSeed  uint64

	// Scaler is ScalerNone, ScalerStandard or ScalerMinMax. The scaler is
	// fitted on training rows only.
	Scaler string

	// Models are evaluated in this order; the summary keeps it.
	Models []ModelSpec
}

// DefaultConfig reproduces the reference run: target "Food supply (kcal)",
// k=4, a 70/20/10 split and shuffled 5-fold CV, all seeded with 42.
func DefaultConfig() Config {
	return Config{
		Target:    "Food supply (kcal)",
		K:         4,
		TrainFrac: 0.7,
		ValFrac:   0.2,
		SplitSeed: 42,
		Folds:     5,
		Shuffle:   true,
		CVSeed:    42,
		Scaler:    ScalerNone,
		Models:    DefaultModels(),
	}
}

// Validate checks the configuration before any data is touched.
func (c Config) Validate() error {
	if c.Target == "" {
		return errors.NewValidationError("target", "must not be empty", c.Target)
	}
	if c.K < 1 {
		return errors.NewValidationError("k", "must be at least 1", c.K)
	}
	if !(c.TrainFrac > 0 && c.TrainFrac < 1) {
		return errors.NewValidationError("train", "must be in (0, 1)", c.TrainFrac)
	}
	if !(c.ValFrac > 0 && c.TrainFrac+c.ValFrac < 1) {
		return errors.NewValidationError("validation", "must be positive with train+validation < 1", c.ValFrac)
	}
	if c.Folds < 2 {
		return errors.NewValidationError("folds", "must be at least 2", c.Folds)
	}
	switch c.Scaler {
	case "", ScalerNone, ScalerStandard, ScalerMinMax:
	default:
		return errors.NewValidationError("scaler", "must be none, standard or minmax", c.Scaler)
	}
	if len(c.Models) == 0 {
		return errors.NewValidationError("models", "at least one model is required", 0)
	}
	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if m.Name == "" {
			return errors.NewValidationError("models.name", "must not be empty", m.Name)
		}
		if seen[m.Name] {
			return errors.NewValidationError("models.name", "must be unique", m.Name)
		}
		seen[m.Name] = true
		if m.Params == nil {
			return errors.NewValidationError("models.params", "missing hyperparameters", m.Name)
		}
		if err := m.Params.Validate(); err != nil {
			return errors.Wrapf(err, "model %q", m.Name)
		}
	}
	return nil
}

func wrapScaler(scaler string, r model.Regressor) model.Regressor {
	switch scaler {
	case ScalerStandard:
		return preprocessing.NewPipeline(preprocessing.NewStandardScalerDefault(), r)
	case ScalerMinMax:
		return preprocessing.NewPipeline(preprocessing.NewMinMaxScalerDefault(), r)
	default:
		return r
	}
}
