package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/YuminosukeSato/regeval/evaluation"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// Export file names inside the output directory.
const (
	SummaryCSVName  = "summary.csv"
	SummaryJSONName = "summary.json"
)

// WriteSummaryCSV writes the summary table, header first, with full
// float precision.
func WriteSummaryCSV(s *evaluation.Summary, dir string) (path string, err error) {
	path = filepath.Join(dir, SummaryCSVName)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(evaluation.Columns()); err != nil {
		return "", err
	}
	for _, r := range s.Rows {
		rec := []string{r.Model}
		for _, v := range r.Values() {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}

// WriteSummaryJSON writes the whole summary, including feature scores and
// per-fold CV scores, as indented JSON.
func WriteSummaryJSON(s *evaluation.Summary, dir string) (string, error) {
	path := filepath.Join(dir, SummaryJSONName)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode summary")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}
