package evaluation

import (
	"github.com/YuminosukeSato/regeval/featureselection"
	"github.com/YuminosukeSato/regeval/metrics"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// Metric names one numeric column of the summary table.
type Metric string

// Summary table columns, in display order.
const (
	ValidationMAE Metric = "Validation MAE"
	TestMAE       Metric = "Test MAE"
	ValidationMSE Metric = "Validation MSE"
	TestMSE       Metric = "Test MSE"
	ValidationR2  Metric = "Validation R²"
	TestR2        Metric = "Test R²"
	KFoldMeanMSE  Metric = "K-Fold Mean MSE"
	KFoldStdMSE   Metric = "K-Fold Std MSE"
)

// Metrics lists every numeric summary column in display order.
var Metrics = []Metric{
	ValidationMAE, TestMAE,
	ValidationMSE, TestMSE,
	ValidationR2, TestR2,
	KFoldMeanMSE, KFoldStdMSE,
}

// ModelColumn is the header of the model name column.
const ModelColumn = "Model"

// Columns returns the summary header: the model name followed by Metrics.
func Columns() []string {
	cols := make([]string, 0, len(Metrics)+1)
	cols = append(cols, ModelColumn)
	for _, m := range Metrics {
		cols = append(cols, string(m))
	}
	return cols
}

// Unit returns the axis label for charts of m.
func (m Metric) Unit() string {
	switch m {
	case ValidationMAE, TestMAE:
		return "MAE"
	case ValidationR2, TestR2:
		return "R²"
	default:
		return "MSE"
	}
}

// Row is the outcome of one model: holdout bundles on the validation and
// test groups and the cross-validated MSE.
type Row struct {
	Model      string         `json:"model"`
	Kind       string         `json:"kind"`
	Validation metrics.Bundle `json:"validation"`
	Test       metrics.Bundle `json:"test"`
	// CVMeanMSE is the mean held-out MSE, the negated mean of CVScores.
	CVMeanMSE float64 `json:"kfold_mean_mse"`
	// CVStdMSE is the population standard deviation of CVScores.
	CVStdMSE float64 `json:"kfold_std_mse"`
	// CVScores are the per-fold negative MSE scores.
	CVScores []float64 `json:"kfold_scores"`
}

// Value returns the row's value for metric m.
func (r Row) Value(m Metric) (float64, error) {
	switch m {
	case ValidationMAE:
		return r.Validation.MAE, nil
	case TestMAE:
		return r.Test.MAE, nil
	case ValidationMSE:
		return r.Validation.MSE, nil
	case TestMSE:
		return r.Test.MSE, nil
	case ValidationR2:
		return r.Validation.R2, nil
	case TestR2:
		return r.Test.R2, nil
	case KFoldMeanMSE:
		return r.CVMeanMSE, nil
	case KFoldStdMSE:
		return r.CVStdMSE, nil
	}
	return 0, errors.NewValidationError("metric", "unknown summary metric", string(m))
}

// Values returns the row's metrics in the order of Metrics.
func (r Row) Values() []float64 {
	out := make([]float64, len(Metrics))
	for i, m := range Metrics {
		out[i], _ = r.Value(m)
	}
	return out
}

// SplitSizes records the row counts of the holdout groups.
type SplitSizes struct {
	Train      int `json:"train"`
	Validation int `json:"validation"`
	Test       int `json:"test"`
}

// Summary is the read-only result of a run. Rows follow the configured
// model order.
type Summary struct {
	RunID        string                          `json:"run_id"`
	Source       string                          `json:"source"`
	Target       string                          `json:"target"`
	Samples      int                             `json:"samples"`
	DroppedRows  int                             `json:"dropped_rows"`
	FeatureScore []featureselection.FeatureScore `json:"feature_scores"`
	Features     []string                        `json:"selected_features"`
	Split        SplitSizes                      `json:"split"`
	Folds        int                             `json:"folds"`
	Rows         []Row                           `json:"models"`
}

// Models returns the model names in row order.
func (s *Summary) Models() []string {
	names := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		names[i] = r.Model
	}
	return names
}

// Column returns one metric across all rows, in row order.
func (s *Summary) Column(m Metric) ([]float64, error) {
	out := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		v, err := r.Value(m)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
