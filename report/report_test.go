package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/regeval/dataset"
	"github.com/YuminosukeSato/regeval/evaluation"
	"github.com/YuminosukeSato/regeval/featureselection"
	"github.com/YuminosukeSato/regeval/metrics"
)

func fixtureSummary() *evaluation.Summary {
	row := func(name string, base float64) evaluation.Row {
		return evaluation.Row{
			Model:      name,
			Validation: metrics.Bundle{MAE: base, MSE: base * base, R2: 0.9},
			Test:       metrics.Bundle{MAE: base + 1, MSE: (base + 1) * (base + 1), R2: -0.25},
			CVMeanMSE:  base * 3,
			CVStdMSE:   base / 2,
			CVScores:   []float64{-base, -base * 2},
		}
	}
	return &evaluation.Summary{
		RunID:  "run",
		Target: "Food supply (kcal)",
		FeatureScore: []featureselection.FeatureScore{
			{Name: "Fat", Score: 12.5, PValue: 0.001, Selected: true},
			{Name: "Year", Score: 0.3, PValue: 0.58},
		},
		Features: []string{"Fat"},
		Rows: []evaluation.Row{
			row("Random Forest", 10),
			row("Linear Regression", 20),
			row("K-Nearest Neighbors", 30),
			row("Support Vector Machine", 40),
		},
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Validation MAE":  "validation_mae",
		"K-Fold Mean MSE": "k_fold_mean_mse",
		"Test R²":         "test_r2",
		"R²":              "r2",
	}
	for in, want := range tests {
		assert.Equal(t, want, slug(in), in)
	}
}

func TestMetricChart(t *testing.T) {
	s := fixtureSummary()
	for _, m := range evaluation.Metrics {
		t.Run(string(m), func(t *testing.T) {
			p, err := MetricChart(s, m)
			require.NoError(t, err)
			assert.Equal(t, string(m), p.Title.Text)
			assert.Equal(t, m.Unit(), p.Y.Label.Text)
		})
	}

	_, err := MetricChart(&evaluation.Summary{}, evaluation.TestMAE)
	assert.Error(t, err)
	_, err = MetricChart(s, "Train MAE")
	assert.Error(t, err)
}

func TestSaveCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := SaveCharts(fixtureSummary(), dir, "png")
	require.NoError(t, err)
	require.Len(t, paths, len(evaluation.Metrics)+len(Pairs)+1)

	assert.Contains(t, paths, filepath.Join(dir, "k_fold_std_mse.png"))
	assert.Contains(t, paths, filepath.Join(dir, "mae_validation_vs_test.png"))
	assert.Contains(t, paths, filepath.Join(dir, "overview.png"))
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0), p)
	}
}

func TestSaveOverview_SVG(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveOverview(fixtureSummary(), dir, "svg")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	_, err = SaveOverview(fixtureSummary(), dir, "bmp")
	assert.Error(t, err)
}

func TestSummaryTable(t *testing.T) {
	out := SummaryTable(fixtureSummary())
	for _, col := range evaluation.Columns() {
		assert.Contains(t, out, col)
	}
	assert.Contains(t, out, "Support Vector Machine")
	assert.Contains(t, out, "-0.2500")

	// rows keep evaluation order
	assert.Less(t, strings.Index(out, "Random Forest"), strings.Index(out, "Linear Regression"))
	assert.Less(t, strings.Index(out, "K-Nearest Neighbors"), strings.Index(out, "Support Vector Machine"))

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, fixtureSummary()))
	assert.Contains(t, buf.String(), "Model Evaluation Summary")
}

func TestModelReport(t *testing.T) {
	out := ModelReport(fixtureSummary().Rows[1])
	assert.Contains(t, out, "Linear Regression")
	assert.Contains(t, out, "Validation")
	assert.Contains(t, out, "20.0000")
	assert.Contains(t, out, "60.0000")
	assert.Contains(t, out, "10.0000")
}

func TestDatasetViews(t *testing.T) {
	frame, err := dataset.Read(strings.NewReader("Country,Fat,Year\nA,1.5,2000\nB,,2001\n"), "mini.csv")
	require.NoError(t, err)

	info := DatasetInfo(frame.Describe())
	assert.Contains(t, info, "mini.csv")
	assert.Contains(t, info, "object")
	assert.Contains(t, info, "float64")

	head := HeadTable(frame.Columns(), frame.Head(5))
	assert.Contains(t, head, "2001")

	scores := FeatureScores(fixtureSummary().FeatureScore)
	assert.Contains(t, scores, "12.5000")
	assert.Contains(t, scores, "✓")
}

func TestWriteSummaryCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSummaryCSV(fixtureSummary(), dir)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 5)
	assert.Equal(t, evaluation.Columns(), records[0])
	assert.Equal(t, []string{"Random Forest", "10", "11", "100", "121", "0.9", "-0.25", "30", "5"}, records[1])
}

func TestWriteSummaryJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSummaryJSON(fixtureSummary(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got evaluation.Summary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, fixtureSummary(), &got)
}
