package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/regeval/evaluation"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

func TestDefaultMatchesEvaluationDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	ec, err := cfg.Evaluation()
	require.NoError(t, err)
	assert.Equal(t, evaluation.DefaultConfig(), ec)
}

func TestParse_EmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Overrides(t *testing.T) {
	data := []byte(`
dataset:
  path: other.csv
features:
  k: 3
preprocessing:
  scaler: standard
models:
  - kind: knn
    name: KNN-7
    n_neighbors: 7
    weights: distance
  - kind: svr
    name: SVR linear
    kernel: linear
    epsilon: 0
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "other.csv", cfg.Dataset.Path)
	assert.Equal(t, "Food supply (kcal)", cfg.Dataset.Target, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.Features.K)
	require.Len(t, cfg.Models, 2)

	ec, err := cfg.Evaluation()
	require.NoError(t, err)
	assert.Equal(t, evaluation.ScalerStandard, ec.Scaler)
	assert.Equal(t, evaluation.KNNParams{NNeighbors: 7, Weights: "distance"}, ec.Models[0].Params)
	assert.Equal(t, evaluation.SVRParams{Kernel: "linear", C: 1, Epsilon: 0, Degree: 3}, ec.Models[1].Params)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		param string
	}{
		{"k zero", "features: {k: 0}", "features.k"},
		{"train out of range", "split: {train: 1.5}", "split.train"},
		{"fractions overflow", "split: {train: 0.7, validation: 0.4}", "validation"},
		{"one fold", "cross_validation: {folds: 1}", "cross_validation.folds"},
		{"unknown scaler", "preprocessing: {scaler: robust}", "preprocessing.scaler"},
		{"unknown kind", "models: [{kind: lasso, name: L}]", "models[0].kind"},
		{"missing name", "models: [{kind: linear}]", "models[0].name"},
		{"duplicate names", "models: [{kind: linear, name: A}, {kind: knn, name: A}]", "models.name"},
		{"bad format", "output: {format: gif}", "output.format"},
		{"bad log level", "log: {level: trace}", "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			var verr *errors.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.param, verr.ParamName)
		})
	}
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("dataset: {path: a.csv, taget: y}"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regeval.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features: {k: 2}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Features.K)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "cross_validation:")
	assert.Contains(t, string(data), "n_estimators: 100")

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
