// Package regeval compares regression models on a tabular dataset.
//
// A run loads a CSV file, keeps the k numeric predictors with the highest
// F-statistic against the target, splits the rows 70/20/10 into train,
// validation and test sets, and fits four regressors (random forest,
// linear regression, k-nearest neighbors and an RBF support vector
// machine). Each model is scored on the holdout sets (MAE, MSE, R²) and
// with k-fold cross-validation on negative MSE. The results are printed as
// a table and rendered as bar charts.
//
// # Installation
//
//	go install github.com/YuminosukeSato/regeval/cmd/regeval@latest
//
// # Quick Start
//
// From the command line, with the defaults of the reference run:
//
//	regeval --data data/ASEAN_cleaned.csv --out out
//
// From Go:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/regeval/dataset"
//	    "github.com/YuminosukeSato/regeval/evaluation"
//	    "github.com/YuminosukeSato/regeval/report"
//	)
//
//	func main() {
//	    frame, err := dataset.Load("data/ASEAN_cleaned.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    summary, err := evaluation.Run(context.Background(), frame, evaluation.DefaultConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    report.WriteSummary(os.Stdout, summary)
//	    report.SaveCharts(summary, "out", "png")
//	}
//
// # Packages
//
//   - dataset: CSV loading, column typing, missing-row removal
//   - featureselection: F-regression scores and SelectKBest
//   - modelselection: train/validation/test split, KFold, CrossValScore
//   - linear, tree, ensemble, neighbors, svm: the regressors
//   - preprocessing: StandardScaler, MinMaxScaler and Pipeline
//   - metrics: MAE, MSE, R²
//   - evaluation: the end-to-end run and its Summary
//   - report: console tables, bar charts, CSV/JSON export
//   - config: YAML configuration
//   - core/model: Fitter/Predictor interfaces and fitted-state tracking
//   - core/parallel: parallel loops over index ranges
//   - pkg/errors, pkg/log: error types and structured logging
//
// # Reproducibility
//
// The split, the fold assignment and the random forest are all seeded, so
// two runs with the same configuration and data produce identical summaries.
package regeval
