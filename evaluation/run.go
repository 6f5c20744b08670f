// Package evaluation runs the model comparison: feature filtering, a seeded
// train/validation/test split, holdout metrics and k-fold cross-validation
// for every configured model, collected into a Summary.
package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/dataset"
	"github.com/YuminosukeSato/regeval/featureselection"
	"github.com/YuminosukeSato/regeval/metrics"
	"github.com/YuminosukeSato/regeval/modelselection"
	"github.com/YuminosukeSato/regeval/pkg/errors"
	"github.com/YuminosukeSato/regeval/pkg/log"
)

// headRows is how many leading rows are logged after loading.
const headRows = 5

// Option configures a Run.
type Option func(*runner)

// WithLogger sets the logger. The default is the global logger.
func WithLogger(l log.Logger) Option {
	return func(r *runner) { r.logger = l }
}

// WithRunID fixes the run identifier instead of generating a UUID.
func WithRunID(id string) Option {
	return func(r *runner) { r.runID = id }
}

// WithModelDone registers a callback invoked after each model finishes,
// in evaluation order.
func WithModelDone(fn func(Row)) Option {
	return func(r *runner) { r.onModel = fn }
}

type runner struct {
	cfg     Config
	logger  log.Logger
	runID   string
	onModel func(Row)
}

// Run evaluates every model of cfg on the frame and returns the summary.
// Any failing stage aborts the run; no partial summary is returned.
func Run(ctx context.Context, frame *dataset.Frame, cfg Config, opts ...Option) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Scaler == "" {
		cfg.Scaler = ScalerNone
	}
	r := &runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	if r.logger == nil {
		r.logger = log.GetLoggerWithName("evaluation")
	}
	r.logger = r.logger.With(log.RunIDKey, r.runID)

	restore := errors.PushZerologWarnFunc(func(w error) {
		r.logger.Warn(w.Error(), log.WarningKey, w)
	})
	defer restore()
	return r.run(ctx, frame)
}

func (r *runner) run(ctx context.Context, frame *dataset.Frame) (*Summary, error) {
	info := frame.Describe()
	r.logger.Info("Dataset loaded",
		log.SourceKey, info.Source,
		log.SamplesKey, info.Rows,
		log.ColumnsKey, frame.Columns(),
	)
	for _, c := range info.Columns {
		r.logger.Debug("Column", "name", c.Name, "dtype", c.Kind, "non_null", c.NonNull)
	}
	for i, row := range frame.Head(headRows) {
		r.logger.Debug("Head", "row", i, "values", row)
	}

	clean, dropped := frame.DropMissing()
	if clean.Rows() == 0 {
		return nil, errors.NewDataQualityError(frame.Source, "no complete rows after dropping missing values", errors.ErrEmptyData)
	}
	r.logger.Info("Dropped incomplete rows", log.DroppedRowsKey, dropped, log.SamplesKey, clean.Rows())

	names, X, y, err := clean.XY(r.cfg.Target)
	if err != nil {
		var ife *errors.InsufficientFeaturesError
		if errors.As(err, &ife) {
			return nil, errors.NewInsufficientFeaturesError(r.cfg.K, 0)
		}
		return nil, err
	}

	sel, err := featureselection.Select(names, X, y, r.cfg.K)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Selected features",
		log.OperationKey, log.OperationSelect,
		log.FeaturesKey, sel.Features,
		log.TargetKey, r.cfg.Target,
	)
	for _, fs := range sel.Scores {
		r.logger.Debug("F-score", "feature", fs.Name, "f_score", fs.Score, "p_value", fs.PValue, "selected", fs.Selected)
	}

	split, err := modelselection.TrainValTestSplit(sel.X, y, r.cfg.TrainFrac, r.cfg.ValFrac, r.cfg.SplitSeed)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Split dataset",
		log.OperationKey, log.OperationSplit,
		"train", len(split.TrainIndices),
		"validation", len(split.ValIndices),
		"test", len(split.TestIndices),
		log.RandomSeedKey, r.cfg.SplitSeed,
	)

	summary := &Summary{
		RunID:        r.runID,
		Source:       frame.Source,
		Target:       r.cfg.Target,
		Samples:      clean.Rows(),
		DroppedRows:  dropped,
		FeatureScore: sel.Scores,
		Features:     sel.Features,
		Split: SplitSizes{
			Train:      len(split.TrainIndices),
			Validation: len(split.ValIndices),
			Test:       len(split.TestIndices),
		},
		Folds: r.cfg.Folds,
		Rows:  make([]Row, 0, len(r.cfg.Models)),
	}

	cv := modelselection.NewKFold(r.cfg.Folds, r.cfg.Shuffle, r.cfg.CVSeed)
	for _, spec := range r.cfg.Models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var row Row
		err := errors.SafeExecute("evaluate "+spec.Name, func() error {
			var err error
			row, err = r.evaluateModel(ctx, spec, split, sel.X, y, cv)
			return err
		})
		if err != nil {
			r.logger.Error("Model evaluation failed", log.ModelNameKey, spec.Name, log.ErrAttrKey, err)
			return nil, errors.Wrapf(err, "model %q", spec.Name)
		}
		summary.Rows = append(summary.Rows, row)
		if r.onModel != nil {
			r.onModel(row)
		}
	}

	r.logger.Info("Evaluation finished", "models", len(summary.Rows))
	return summary, nil
}

// evaluateModel fits one model on the training rows, scores it on the
// validation and test rows, then cross-validates fresh instances on the
// whole filtered dataset.
func (r *runner) evaluateModel(ctx context.Context, spec ModelSpec, split *modelselection.Split,
	X, y *mat.Dense, cv modelselection.Splitter) (Row, error) {
	logger := r.logger.With(log.ModelNameKey, spec.Name, log.ModelKindKey, spec.Params.Kind())
	factory := spec.Factory(r.cfg.Scaler)
	row := Row{Model: spec.Name, Kind: spec.Params.Kind()}

	m := factory()
	if pg, ok := m.(model.ParameterGetter); ok {
		logger.Debug("Model configured", log.HyperParamsKey, pg.GetParams())
	}
	start := time.Now()
	if err := m.Fit(split.XTrain, split.YTrain); err != nil {
		return row, err
	}
	logger.Info("Model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, len(split.TrainIndices),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	var err error
	if row.Validation, err = r.score(logger, m, split.XVal, split.YVal, log.PhaseValidation); err != nil {
		return row, err
	}
	if row.Test, err = r.score(logger, m, split.XTest, split.YTest, log.PhaseTesting); err != nil {
		return row, err
	}

	start = time.Now()
	res, err := modelselection.CrossValScore(ctx, factory, X, y, cv, metrics.NegMeanSquaredError)
	if err != nil {
		return row, err
	}
	row.CVScores = res.Scores
	row.CVMeanMSE = -res.Mean
	row.CVStdMSE = res.Std
	logger.Info("Cross-validation finished",
		log.OperationKey, log.OperationCV,
		log.CVMeanKey, row.CVMeanMSE,
		log.CVStdKey, row.CVStdMSE,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return row, nil
}

func (r *runner) score(logger log.Logger, m model.Predictor, X, y *mat.Dense, phase string) (metrics.Bundle, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return metrics.Bundle{}, err
	}
	n, _ := pred.Dims()
	if err := errors.CheckMatrix("predict", pred, n, 1, 0); err != nil {
		return metrics.Bundle{}, err
	}
	b, err := metrics.Evaluate(y, pred)
	if err != nil {
		return metrics.Bundle{}, err
	}
	logger.Info("Holdout metrics",
		log.OperationKey, log.OperationScore,
		log.PhaseKey, phase,
		log.MAEKey, b.MAE,
		log.MSEKey, b.MSE,
		log.R2ScoreKey, b.R2,
	)
	return b, nil
}
