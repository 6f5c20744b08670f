package dataset

// ColumnInfo summarizes one column the way pandas DataFrame.info does.
type ColumnInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"dtype"`
	NonNull int    `json:"non_null"`
}

// Info is the shape and per-column summary of a Frame.
type Info struct {
	Source  string       `json:"source"`
	Rows    int          `json:"rows"`
	Columns []ColumnInfo `json:"columns"`
}

// Describe returns the frame's shape, column kinds and non-null counts.
func (f *Frame) Describe() Info {
	info := Info{Source: f.Source, Rows: f.rows, Columns: make([]ColumnInfo, len(f.columns))}
	for i, c := range f.columns {
		info.Columns[i] = ColumnInfo{Name: c.Name, Kind: c.Kind.String(), NonNull: c.NonNull()}
	}
	return info
}

// Head returns the raw cells of the first n rows.
func (f *Frame) Head(n int) [][]string {
	if n > f.rows {
		n = f.rows
	}
	if n < 0 {
		n = 0
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(f.columns))
		for j, c := range f.columns {
			row[j] = c.Raw[i]
		}
		out[i] = row
	}
	return out
}

// Select returns a Frame holding only the named columns, in the given order.
func (f *Frame) Select(names []string) *Frame {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		if c := f.Column(name); c != nil {
			cols = append(cols, c)
		}
	}
	return newFrame(f.Source, cols, f.rows)
}
