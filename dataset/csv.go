package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// missingTokens are the cell values read as missing, after trimming spaces.
var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#NA": {},
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(cell string) bool {
	_, ok := missingTokens[strings.TrimSpace(cell)]
	return ok
}

// Load reads a CSV file with a header row.
func Load(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataQualityError(path, "cannot open dataset", err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses CSV from r. source names the data in errors.
//
// Column kinds are inferred: a column is numeric when every non-missing
// cell parses as a float. A column whose cells are mostly numeric but not
// entirely raises a DataConversionWarning and is kept as text.
func Read(r io.Reader, source string) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewDataQualityError(source, "empty file", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.NewDataQualityError(source, "malformed header", err)
	}
	// Excel の UTF-8 BOM を除去
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, dup := seen[h]; dup {
			return nil, errors.NewDataQualityError(source, "duplicate column "+quote(h), nil)
		}
		seen[h] = struct{}{}
	}

	cols := make([]*Column, len(header))
	for j, h := range header {
		cols[j] = &Column{Name: h}
	}

	rows := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewDataQualityError(source, "malformed row "+strconv.Itoa(rows+2), err)
		}
		for j, cell := range rec {
			cols[j].Raw = append(cols[j].Raw, cell)
		}
		rows++
	}

	for _, c := range cols {
		inferKind(c)
	}
	return newFrame(source, cols, rows), nil
}

func inferKind(c *Column) {
	c.Missing = make([]bool, len(c.Raw))
	values := make([]float64, len(c.Raw))
	parsed, failed := 0, 0
	firstBad := ""
	for i, cell := range c.Raw {
		if IsMissing(cell) {
			c.Missing[i] = true
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			failed++
			if firstBad == "" {
				firstBad = cell
			}
			continue
		}
		values[i] = v
		parsed++
	}

	switch {
	case failed == 0 && parsed > 0:
		c.Kind = Numeric
		c.Values = values
	case parsed > failed:
		c.Kind = Text
		errors.Warn(errors.NewDataConversionWarning(c.Name, "float64", "object",
			"non-numeric value "+quote(firstBad)+" in a mostly numeric column"))
	default:
		c.Kind = Text
	}
}
