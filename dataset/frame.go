// Package dataset loads tabular CSV data into a column-oriented Frame and
// prepares the numeric predictor matrix and target vector for evaluation.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// Kind is the inferred type of a column.
type Kind int

const (
	// Text columns hold at least one non-missing cell that is not a number.
	Text Kind = iota
	// Numeric columns parse as float64 in every non-missing cell.
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "float64"
	}
	return "object"
}

// Column is one named column. Values is populated for numeric columns;
// Raw always holds the original cell text.
type Column struct {
	Name    string
	Kind    Kind
	Raw     []string
	Values  []float64
	Missing []bool
}

// NonNull counts the cells that are not missing.
func (c *Column) NonNull() int {
	n := 0
	for _, m := range c.Missing {
		if !m {
			n++
		}
	}
	return n
}

// Frame is an immutable table of equally long columns.
type Frame struct {
	Source  string
	columns []*Column
	index   map[string]int
	rows    int
}

func newFrame(source string, cols []*Column, rows int) *Frame {
	f := &Frame{Source: source, columns: cols, rows: rows, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		f.index[c.Name] = i
	}
	return f
}

// Rows returns the number of rows.
func (f *Frame) Rows() int { return f.rows }

// Columns returns the column names in file order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil.
func (f *Frame) Column(name string) *Column {
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	return f.columns[i]
}

// NumericColumns returns the names of numeric columns in file order.
func (f *Frame) NumericColumns() []string {
	var names []string
	for _, c := range f.columns {
		if c.Kind == Numeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// DropMissing returns a new Frame without the rows that have a missing
// cell in any column, and the number of rows removed.
func (f *Frame) DropMissing() (*Frame, int) {
	keep := make([]int, 0, f.rows)
	for i := 0; i < f.rows; i++ {
		complete := true
		for _, c := range f.columns {
			if c.Missing[i] {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}

	cols := make([]*Column, len(f.columns))
	for j, c := range f.columns {
		nc := &Column{Name: c.Name, Kind: c.Kind,
			Raw: make([]string, len(keep)), Missing: make([]bool, len(keep))}
		if c.Values != nil {
			nc.Values = make([]float64, len(keep))
		}
		for k, i := range keep {
			nc.Raw[k] = c.Raw[i]
			if c.Values != nil {
				nc.Values[k] = c.Values[i]
			}
		}
		cols[j] = nc
	}
	return newFrame(f.Source, cols, len(keep)), f.rows - len(keep)
}

// Matrix copies the named numeric columns into an n×len(names) matrix.
func (f *Frame) Matrix(names []string) (*mat.Dense, error) {
	if f.rows == 0 {
		return nil, errors.NewDataQualityError(f.Source, "no rows", errors.ErrEmptyData)
	}
	if len(names) == 0 {
		return nil, errors.NewDataQualityError(f.Source, "no columns selected", nil)
	}
	m := mat.NewDense(f.rows, len(names), nil)
	for j, name := range names {
		c := f.Column(name)
		if c == nil {
			return nil, errors.NewDataQualityError(f.Source, "column "+quote(name)+" not found", nil)
		}
		if c.Kind != Numeric {
			return nil, errors.NewDataQualityError(f.Source, "column "+quote(name)+" is not numeric", nil)
		}
		if c.NonNull() != f.rows {
			return nil, errors.NewDataQualityError(f.Source, "column "+quote(name)+" has missing values", nil)
		}
		m.SetCol(j, c.Values)
	}
	return m, nil
}

// XY splits the numeric columns into the predictor matrix (all numeric
// columns except target, in file order) and the n×1 target matrix.
func (f *Frame) XY(target string) (features []string, X, y *mat.Dense, err error) {
	tc := f.Column(target)
	if tc == nil {
		return nil, nil, nil, errors.NewDataQualityError(f.Source, "target column "+quote(target)+" not found", nil)
	}
	if tc.Kind != Numeric {
		return nil, nil, nil, errors.NewDataQualityError(f.Source, "target column "+quote(target)+" is not numeric", nil)
	}
	for _, name := range f.NumericColumns() {
		if name != target {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return nil, nil, nil, errors.NewInsufficientFeaturesError(1, 0)
	}
	X, err = f.Matrix(features)
	if err != nil {
		return nil, nil, nil, err
	}
	y, err = f.Matrix([]string{target})
	if err != nil {
		return nil, nil, nil, err
	}
	return features, X, y, nil
}

func quote(s string) string { return "\"" + s + "\"" }
