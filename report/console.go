// Package report renders an evaluation Summary: console tables, per-model
// reports, CSV/JSON exports and bar charts.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/YuminosukeSato/regeval/dataset"
	"github.com/YuminosukeSato/regeval/evaluation"
	"github.com/YuminosukeSato/regeval/featureselection"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorBorder = lipgloss.Color("#16858E")
	colorMuted  = lipgloss.Color("#2C4A54")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

// FormatFloat prints metric values the way they appear in reports.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func newTable(headers []string, rows [][]string, numericFrom int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= numericFrom:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

// SummaryTable renders the summary as a console table: the model name
// followed by every metric column.
func SummaryTable(s *evaluation.Summary) string {
	rows := make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		cells := []string{r.Model}
		for _, v := range r.Values() {
			cells = append(cells, FormatFloat(v))
		}
		rows[i] = cells
	}
	return newTable(evaluation.Columns(), rows, 1).Render()
}

// WriteSummary prints the titled summary table.
func WriteSummary(w io.Writer, s *evaluation.Summary) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render("Model Evaluation Summary"), SummaryTable(s))
	return err
}

// ModelReport renders the holdout and cross-validation metrics of one model.
func ModelReport(r evaluation.Row) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Model) + "\n")
	rows := [][]string{
		{"Validation", FormatFloat(r.Validation.MAE), FormatFloat(r.Validation.MSE), FormatFloat(r.Validation.R2)},
		{"Test", FormatFloat(r.Test.MAE), FormatFloat(r.Test.MSE), FormatFloat(r.Test.R2)},
	}
	b.WriteString(newTable([]string{"Holdout", "MAE", "MSE", "R²"}, rows, 1).Render() + "\n")
	fmt.Fprintf(&b, "%s %s   %s %s",
		labelStyle.Render("K-Fold mean MSE:"), FormatFloat(r.CVMeanMSE),
		labelStyle.Render("std:"), FormatFloat(r.CVStdMSE))
	return boxStyle.Render(b.String())
}

// WriteModelReport prints ModelReport followed by a newline.
func WriteModelReport(w io.Writer, r evaluation.Row) error {
	_, err := fmt.Fprintln(w, ModelReport(r))
	return err
}

// DatasetInfo renders column kinds and non-null counts like DataFrame.info.
func DatasetInfo(info dataset.Info) string {
	rows := make([][]string, len(info.Columns))
	for i, c := range info.Columns {
		rows[i] = []string{strconv.Itoa(i), c.Name, strconv.Itoa(c.NonNull), c.Kind}
	}
	head := fmt.Sprintf("%s  %s %d rows × %d columns",
		titleStyle.Render(info.Source), labelStyle.Render("shape:"), info.Rows, len(info.Columns))
	return head + "\n" + newTable([]string{"#", "Column", "Non-Null", "Dtype"}, rows, 2).Render()
}

// HeadTable renders the first rows of a frame.
func HeadTable(columns []string, head [][]string) string {
	return newTable(columns, head, len(columns)).Render()
}

// FeatureScores renders the F-statistic ranking, marking selected columns.
func FeatureScores(scores []featureselection.FeatureScore) string {
	rows := make([][]string, len(scores))
	for i, fs := range scores {
		mark := ""
		if fs.Selected {
			mark = "✓"
		}
		rows[i] = []string{fs.Name, FormatFloat(fs.Score), strconv.FormatFloat(fs.PValue, 'g', 4, 64), mark}
	}
	return newTable([]string{"Feature", "F-score", "p-value", "Selected"}, rows, 1).Render()
}
