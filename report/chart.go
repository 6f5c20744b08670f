package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg" // png, jpg, tiff
	_ "gonum.org/v1/plot/vg/vgpdf" // pdf
	_ "gonum.org/v1/plot/vg/vgsvg" // svg

	"github.com/YuminosukeSato/regeval/evaluation"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// Chart sizes.
const (
	chartWidth              = 10 * vg.Inch
	chartHeight             = 6 * vg.Inch
	overviewWidth           = 15 * vg.Inch
	overviewHigh            = 10 * vg.Inch
	barWidth      vg.Length = 40 // points
)

// OverviewMetrics are the four panels of the overview figure, row-major.
var OverviewMetrics = [2][2]evaluation.Metric{
	{evaluation.ValidationMAE, evaluation.TestMAE},
	{evaluation.KFoldMeanMSE, evaluation.KFoldStdMSE},
}

// Pairs are the validation/test metric pairs drawn as grouped charts.
var Pairs = [][2]evaluation.Metric{
	{evaluation.ValidationMAE, evaluation.TestMAE},
	{evaluation.ValidationMSE, evaluation.TestMSE},
	{evaluation.ValidationR2, evaluation.TestR2},
}

// MetricChart builds a bar chart of one summary metric with one bar per
// model, in summary row order.
func MetricChart(s *evaluation.Summary, m evaluation.Metric) (*plot.Plot, error) {
	values, err := chartValues(s, m)
	if err != nil {
		return nil, err
	}

	p := newModelPlot(s, string(m), m.Unit())
	bars, err := plotter.NewBarChart(plotter.Values(values), barWidth)
	if err != nil {
		return nil, errors.Wrapf(err, "bar chart %q", m)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	return p, nil
}

// PairChart draws two metrics side by side per model, e.g. validation
// versus test MAE.
func PairChart(s *evaluation.Summary, left, right evaluation.Metric) (*plot.Plot, error) {
	pair := []evaluation.Metric{left, right}
	values := make([][]float64, len(pair))
	for i, m := range pair {
		var err error
		if values[i], err = chartValues(s, m); err != nil {
			return nil, err
		}
	}

	title := strings.TrimPrefix(string(left), "Validation ") + ": validation vs test"
	p := newModelPlot(s, title, left.Unit())
	for i, m := range pair {
		bars, err := plotter.NewBarChart(plotter.Values(values[i]), barWidth)
		if err != nil {
			return nil, errors.Wrapf(err, "bar chart %q", m)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(2*i-1) * barWidth / 2
		p.Add(bars)
		p.Legend.Add(string(m), bars)
	}
	p.Legend.Top = true
	return p, nil
}

func newModelPlot(s *evaluation.Summary, title, unit string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = evaluation.ModelColumn
	p.Y.Label.Text = unit
	p.NominalX(s.Models()...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Add(plotter.NewGrid())
	return p
}

func chartValues(s *evaluation.Summary, m evaluation.Metric) ([]float64, error) {
	if s == nil || len(s.Rows) == 0 {
		return nil, errors.NewValueError("report", "summary has no rows to chart")
	}
	return s.Column(m)
}

// SaveMetricChart renders MetricChart to dir in the given format and
// returns the file path.
func SaveMetricChart(s *evaluation.Summary, m evaluation.Metric, dir, format string) (string, error) {
	p, err := MetricChart(s, m)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, slug(string(m))+"."+format)
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return "", errors.Wrapf(err, "save chart %s", path)
	}
	return path, nil
}

// SavePairChart renders PairChart to dir and returns the file path.
func SavePairChart(s *evaluation.Summary, left, right evaluation.Metric, dir, format string) (string, error) {
	p, err := PairChart(s, left, right)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, slug(left.Unit())+"_validation_vs_test."+format)
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return "", errors.Wrapf(err, "save chart %s", path)
	}
	return path, nil
}

// SaveOverview draws the 2×2 grid of OverviewMetrics into one figure.
func SaveOverview(s *evaluation.Summary, dir, format string) (path string, err error) {
	plots := make([][]*plot.Plot, len(OverviewMetrics))
	for r, row := range OverviewMetrics {
		plots[r] = make([]*plot.Plot, len(row))
		for c, m := range row {
			if plots[r][c], err = MetricChart(s, m); err != nil {
				return "", err
			}
		}
	}

	canvas, err := draw.NewFormattedCanvas(overviewWidth, overviewHigh, format)
	if err != nil {
		return "", errors.Wrapf(err, "overview format %q", format)
	}
	tiles := draw.Tiles{
		Rows:      len(OverviewMetrics),
		Cols:      len(OverviewMetrics[0]),
		PadX:      vg.Millimeter * 5,
		PadY:      vg.Millimeter * 5,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, draw.New(canvas))
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}

	path = filepath.Join(dir, "overview."+format)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if _, err = canvas.WriteTo(f); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}

// SaveCharts writes every chart of the run: one per summary metric, the
// grouped validation/test charts and the overview grid.
func SaveCharts(s *evaluation.Summary, dir, format string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", dir)
	}

	var paths []string
	for _, m := range evaluation.Metrics {
		path, err := SaveMetricChart(s, m, dir, format)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	for _, pair := range Pairs {
		path, err := SavePairChart(s, pair[0], pair[1], dir, format)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	path, err := SaveOverview(s, dir, format)
	if err != nil {
		return nil, err
	}
	return append(paths, path), nil
}

// slug turns "K-Fold Mean MSE" into "k_fold_mean_mse" and "Test R²" into "test_r2".
func slug(name string) string {
	name = strings.ReplaceAll(name, "²", "2")
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
