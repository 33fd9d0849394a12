package ingest

import (
	"errors"
	"fmt"

	"github.com/araddon/dateparse"
)

var (
	ErrNoDateColumn  = errors.New("no column with enough parseable dates")
	ErrNoValueColumn = errors.New("no numeric value column")
)

// DateParseThreshold is the fraction of non-null cells that must parse as
// dates for a column to qualify as the timestamp axis in automatic mode.
const DateParseThreshold = 0.9

// ColumnMode selects how the timestamp and value columns are chosen.
type ColumnMode string

const (
	ColumnModeManual ColumnMode = "manual"
	ColumnModeAuto   ColumnMode = "auto"
)

// Roles names the two columns feeding the series normalizer.
type Roles struct {
	DateColumn  string
	ValueColumn string
}

// InferRoles resolves the timestamp and value columns for a table. Manual
// mode only checks that the named columns exist. Automatic mode picks the
// first column, in table order, where at least DateParseThreshold of the
// non-null cells parse as dates, then the first remaining numeric column.
// The first-match tie-break is deliberate: it keeps auto-detection
// reproducible across runs on the same table.
func InferRoles(t *RawTable, mode ColumnMode, manual Roles) (Roles, error) {
	if mode == ColumnModeManual {
		if t.ColumnIndex(manual.DateColumn) < 0 {
			return Roles{}, fmt.Errorf("date column %q, %w", manual.DateColumn, ErrUnknownColumn)
		}
		if t.ColumnIndex(manual.ValueColumn) < 0 {
			return Roles{}, fmt.Errorf("value column %q, %w", manual.ValueColumn, ErrUnknownColumn)
		}
		return manual, nil
	}

	dateIdx := -1
	for i := range t.Columns {
		if columnDateFraction(t, i) >= DateParseThreshold {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return Roles{}, ErrNoDateColumn
	}

	for i := range t.Columns {
		if i == dateIdx {
			continue
		}
		if t.IsNumericColumn(i) {
			return Roles{
				DateColumn:  t.Columns[dateIdx],
				ValueColumn: t.Columns[i],
			}, nil
		}
	}
	return Roles{}, ErrNoValueColumn
}

// columnDateFraction returns the fraction of non-null cells in column idx
// that parse as dates. Columns with no non-null cells never qualify.
func columnDateFraction(t *RawTable, idx int) float64 {
	var nonNull, parsed int
	for _, row := range t.Rows {
		cell := row[idx]
		if IsNullCell(cell) {
			continue
		}
		nonNull++
		if _, err := dateparse.ParseAny(cell); err == nil {
			parsed++
		}
	}
	if nonNull == 0 {
		return 0
	}
	return float64(parsed) / float64(nonNull)
}
