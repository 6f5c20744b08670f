// Package config loads the YAML run configuration and maps it onto an
// evaluation.Config. Defaults reproduce the reference run, so every field
// of the file is optional.
package config

import (
	"bytes"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/regeval/evaluation"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// Config is the on-disk configuration.
type Config struct {
	Dataset         DatasetConfig       `yaml:"dataset"`
	Features        FeaturesConfig      `yaml:"features"`
	Split           SplitConfig         `yaml:"split"`
	CrossValidation CVConfig            `yaml:"cross_validation"`
	Preprocessing   PreprocessingConfig `yaml:"preprocessing"`
	Models          []ModelConfig       `yaml:"models" validate:"required,min=1,dive"`
	Output          OutputConfig        `yaml:"output"`
	Log             LogConfig           `yaml:"log"`
}

type DatasetConfig struct {
	Path   string `yaml:"path" validate:"required"`
	Target string `yaml:"target" validate:"required"`
}

type FeaturesConfig struct {
	K int `yaml:"k" validate:"min=1"`
}

type SplitConfig struct {
	Train      float64 `yaml:"train" validate:"gt=0,lt=1"`
	Validation float64 `yaml:"validation" validate:"gt=0,lt=1"`
	Seed       uint64  `yaml:"seed"`
}

type CVConfig struct {
	Folds   int    `yaml:"folds" validate:"min=2"`
	Shuffle bool   `yaml:"shuffle"`
	Seed    uint64 `yaml:"seed"`
}

type PreprocessingConfig struct {
	// Scaler is none, standard or minmax.
	Scaler string `yaml:"scaler" validate:"oneof=none standard minmax"`
}

// ModelConfig is one entry of the models list. Only the fields of its
// kind are read; zero values fall back to that kind's defaults.
type ModelConfig struct {
	Kind string `yaml:"kind" validate:"required,oneof=linear random_forest knn svr"`
	Name string `yaml:"name" validate:"required"`

	// linear
	FitIntercept *bool `yaml:"fit_intercept,omitempty"`

	// random_forest
	NEstimators    int    `yaml:"n_estimators,omitempty" validate:"min=0"`
	MaxDepth       int    `yaml:"max_depth,omitempty" validate:"min=0"`
	MinSamplesLeaf int    `yaml:"min_samples_leaf,omitempty" validate:"min=0"`
	MaxFeatures    int    `yaml:"max_features,omitempty" validate:"min=0"`
	Bootstrap      *bool  `yaml:"bootstrap,omitempty"`
	Seed           uint64 `yaml:"seed,omitempty"`

	// knn
	NNeighbors int    `yaml:"n_neighbors,omitempty" validate:"min=0"`
	Weights    string `yaml:"weights,omitempty" validate:"omitempty,oneof=uniform distance"`

	// svr
	Kernel  string   `yaml:"kernel,omitempty" validate:"omitempty,oneof=rbf linear poly"`
	C       float64  `yaml:"c,omitempty" validate:"min=0"`
	Gamma   float64  `yaml:"gamma,omitempty"`
	Epsilon *float64 `yaml:"epsilon,omitempty"`
	Degree  int      `yaml:"degree,omitempty" validate:"min=0"`
	Coef0   float64  `yaml:"coef0,omitempty"`
}

type OutputConfig struct {
	Dir         string `yaml:"dir" validate:"required"`
	Format      string `yaml:"format" validate:"oneof=png svg pdf jpg"`
	Charts      bool   `yaml:"charts"`
	SummaryCSV  bool   `yaml:"summary_csv"`
	SummaryJSON bool   `yaml:"summary_json"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func ptr[T any](v T) *T { return &v }

// Default returns the configuration of the reference run.
func Default() *Config {
	return &Config{
		Dataset:         DatasetConfig{Path: "data/ASEAN_cleaned.csv", Target: "Food supply (kcal)"},
		Features:        FeaturesConfig{K: 4},
		Split:           SplitConfig{Train: 0.7, Validation: 0.2, Seed: 42},
		CrossValidation: CVConfig{Folds: 5, Shuffle: true, Seed: 42},
		Preprocessing:   PreprocessingConfig{Scaler: evaluation.ScalerNone},
		Models: []ModelConfig{
			{Kind: evaluation.KindRandomForest, Name: "Random Forest", NEstimators: 100, Bootstrap: ptr(true), Seed: 42},
			{Kind: evaluation.KindLinear, Name: "Linear Regression", FitIntercept: ptr(true)},
			{Kind: evaluation.KindKNN, Name: "K-Nearest Neighbors", NNeighbors: 5, Weights: "uniform"},
			{Kind: evaluation.KindSVR, Name: "Support Vector Machine", Kernel: "rbf", C: 1.0, Gamma: 0.1, Epsilon: ptr(0.1)},
		},
		Output: OutputConfig{Dir: "out", Format: "png", Charts: true, SummaryCSV: true, SummaryJSON: true},
		Log:    LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads a YAML file over Default and validates the result. Unknown
// keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the cross-field rules of the
// evaluation run. Failures are reported as ValidationError.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.NewValidationError(fieldPath(fe.Namespace()), ruleText(fe), fe.Value())
		}
		return errors.Wrap(err, "validate config")
	}
	ec, err := c.Evaluation()
	if err != nil {
		return err
	}
	return ec.Validate()
}

// fieldPath drops the root type name: "Config.split.train" → "split.train".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleText(fe validator.FieldError) string {
	if fe.Param() == "" {
		return "failed " + fe.Tag()
	}
	return "failed " + fe.Tag() + "=" + fe.Param()
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Evaluation converts the file configuration to an evaluation.Config.
func (c *Config) Evaluation() (evaluation.Config, error) {
	ec := evaluation.Config{
		Target:    c.Dataset.Target,
		K:         c.Features.K,
		TrainFrac: c.Split.Train,
		ValFrac:   c.Split.Validation,
		SplitSeed: c.Split.Seed,
		Folds:     c.CrossValidation.Folds,
		Shuffle:   c.CrossValidation.Shuffle,
		CVSeed:    c.CrossValidation.Seed,
		Scaler:    c.Preprocessing.Scaler,
		Models:    make([]evaluation.ModelSpec, 0, len(c.Models)),
	}
	for _, m := range c.Models {
		params, err := m.Params()
		if err != nil {
			return evaluation.Config{}, err
		}
		ec.Models = append(ec.Models, evaluation.ModelSpec{Name: m.Name, Params: params})
	}
	return ec, nil
}

// Params builds the hyperparameter record of the entry's kind, filling
// unset fields with defaults.
func (m ModelConfig) Params() (evaluation.Params, error) {
	switch m.Kind {
	case evaluation.KindLinear:
		return evaluation.LinearParams{FitIntercept: boolOr(m.FitIntercept, true)}, nil
	case evaluation.KindRandomForest:
		return evaluation.ForestParams{
			NEstimators:    intOr(m.NEstimators, 100),
			MaxDepth:       m.MaxDepth,
			MinSamplesLeaf: m.MinSamplesLeaf,
			MaxFeatures:    m.MaxFeatures,
			Bootstrap:      boolOr(m.Bootstrap, true),
			Seed:           m.Seed,
		}, nil
	case evaluation.KindKNN:
		return evaluation.KNNParams{NNeighbors: intOr(m.NNeighbors, 5), Weights: m.Weights}, nil
	case evaluation.KindSVR:
		kernel := m.Kernel
		if kernel == "" {
			kernel = "rbf"
		}
		c := m.C
		if c == 0 {
			c = 1
		}
		eps := 0.1
		if m.Epsilon != nil {
			eps = *m.Epsilon
		}
		return evaluation.SVRParams{
			Kernel:  kernel,
			C:       c,
			Gamma:   m.Gamma,
			Epsilon: eps,
			Degree:  intOr(m.Degree, 3),
			Coef0:   m.Coef0,
		}, nil
	}
	return nil, errors.NewValidationError("models.kind", "must be linear, random_forest, knn or svr", m.Kind)
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intOr(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
