package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyTable    = errors.New("table has no data rows")
	ErrNoHeader      = errors.New("table has no header row")
	ErrUnknownColumn = errors.New("unknown column")
)

// RawTable is an immutable in-memory table of rows by named columns as loaded
// from the source file. Cells are kept as raw text; typing is decided later
// by the column role inference and series normalization stages.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// NewRawTable builds a RawTable from a header row and data rows. Short rows
// are padded with empty cells so every row spans all columns.
func NewRawTable(columns []string, rows [][]string) (*RawTable, error) {
	if len(columns) == 0 {
		return nil, ErrNoHeader
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}

	padded := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) >= len(columns) {
			padded[i] = row[:len(columns)]
			continue
		}
		r := make([]string, len(columns))
		copy(r, row)
		padded[i] = r
	}
	return &RawTable{Columns: columns, Rows: padded}, nil
}

func (t *RawTable) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column in row order.
func (t *RawTable) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownColumn)
	}
	cells := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells, nil
}

// IsNullCell reports whether a raw cell is a null marker. Matches the set of
// markers pandas treats as NA on read.
func IsNullCell(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NA", "N/A", "NaN", "nan", "null", "NULL":
		return true
	}
	return false
}

// ParseNumericCell parses a non-null cell as a float, tolerating surrounding
// whitespace and thousands separators.
func ParseNumericCell(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// IsNumericColumn reports whether every non-null cell of the column at idx
// parses as a number, with at least one non-null cell present. This mirrors
// dataframe dtype semantics: a single non-numeric entry makes the whole
// column textual.
func (t *RawTable) IsNumericColumn(idx int) bool {
	var nonNull int
	for _, row := range t.Rows {
		cell := row[idx]
		if IsNullCell(cell) {
			continue
		}
		nonNull++
		if _, ok := ParseNumericCell(cell); !ok {
			return false
		}
	}
	return nonNull > 0
}
