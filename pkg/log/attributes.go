// Package log defines standard attribute keys for evaluation runs.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that log output can be filtered per model, per phase
// and per metric.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the model variant.
	// Examples: "Linear Regression", "Random Forest"
	ModelNameKey = "model.name"

	// ModelKindKey is the config kind of the variant: "linear", "random_forest", "knn", "svr".
	ModelKindKey = "model.kind"

	// RunIDKey identifies one evaluation run.
	RunIDKey = "run.id"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "dataset", "featureselection", "evaluation", "report"
	ComponentKey = "ml.component"

	// PhaseKey indicates the data group being scored.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of rows.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// ColumnsKey lists column names.
	ColumnsKey = "data.columns"

	// TargetKey is the name of the target column.
	TargetKey = "data.target"

	// DroppedRowsKey is the number of rows removed because of missing values.
	DroppedRowsKey = "data.dropped_rows"

	// SourceKey is the dataset file path.
	SourceKey = "data.source"
)

// Performance and Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// MAEKey records mean absolute error.
	MAEKey = "metrics.mae"

	// MSEKey records mean squared error.
	MSEKey = "metrics.mse"

	// R2ScoreKey records R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// CVMeanKey and CVStdKey record cross-validated MSE mean and standard deviation.
	CVMeanKey = "metrics.cv_mean_mse"
	CVStdKey  = "metrics.cv_std_mse"

	// FoldKey records the fold index during cross-validation.
	FoldKey = "cv.fold"

	// IterationKey records the current iteration number in iterative solvers.
	IterationKey = "training.iteration"
)

// Configuration
const (
	// HyperParamsKey contains model hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// OutputPathKey records a file written by the run.
	OutputPathKey = "output.path"
)

// Error Context
const (
	// ErrAttrKey is the key under which errors are logged; its stack trace is
	// emitted under StacktraceAttrKey.
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// WarningKey carries a warning raised through errors.Warn.
	WarningKey = "warning"
)

// Standard attribute values.
const (
	OperationLoad      = "load"
	OperationSelect    = "select_features"
	OperationSplit     = "split"
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationScore     = "score"
	OperationCV        = "cross_validate"
	OperationRender    = "render"
	OperationTransform = "transform"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseTesting    = "testing"
)
