package modelselection

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/metrics"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// CVResult stores cross-validation results. Scores[i] belongs to fold i.
type CVResult struct {
	Scores   []float64
	FitTimes []time.Duration
	Mean     float64
	Std      float64
}

// CrossValScore fits a fresh model from factory on every training fold and
// scores it on the held-out fold. Folds run concurrently; each writes only
// its own slot, so the result does not depend on scheduling. Mean and Std
// (population) are computed from the fold scores only.
//
// The first failing fold cancels the others and its error is returned.
func CrossValScore(ctx context.Context, factory model.Factory, X, y mat.Matrix,
	cv Splitter, scorer metrics.Scorer) (*CVResult, error) {
	n, _ := X.Dims()
	ny, _ := y.Dims()
	if ny != n {
		return nil, errors.NewDimensionError("CrossValScore", n, ny, 0)
	}
	if scorer == nil {
		scorer = metrics.NegMeanSquaredError
	}

	folds, err := cv.Split(n)
	if err != nil {
		return nil, err
	}

	res := &CVResult{
		Scores:   make([]float64, len(folds)),
		FitTimes: make([]time.Duration, len(folds)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, fold := range folds {
		g.Go(func() (err error) {
			defer errors.Recover(&err, fmt.Sprintf("fold %d", i))
			if err := gctx.Err(); err != nil {
				return err
			}
			m := factory()
			start := time.Now()
			if err := m.Fit(model.RowsOf(X, fold.TrainIndices), model.RowsOf(y, fold.TrainIndices)); err != nil {
				return errors.Wrapf(err, "fold %d", i)
			}
			res.FitTimes[i] = time.Since(start)

			pred, err := m.Predict(model.RowsOf(X, fold.TestIndices))
			if err != nil {
				return errors.Wrapf(err, "fold %d", i)
			}
			score, err := scorer(model.RowsOf(y, fold.TestIndices), pred)
			if err != nil {
				return errors.Wrapf(err, "fold %d", i)
			}
			res.Scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Mean, res.Std = stat.PopMeanStdDev(res.Scores, nil)
	return res, nil
}
