package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/araddon/dateparse"

	"github.com/6ogo/Forecast-app/ingest"
)

// ErrUnparseableDate rejects the whole load when any timestamp cell fails to
// parse. Partial series are never produced.
var ErrUnparseableDate = errors.New("unparseable dates, ensure the date column is in a valid format")

// Normalized is the output of the series normalization stage.
type Normalized struct {
	Series *Series
	Freq   Frequency

	// FreqInferred is false when inference found no consistent frequency and
	// the daily fallback was applied. Callers surface this as a warning; it
	// is never an error.
	FreqInferred bool
}

// Warning describes the non-fatal outcome of the lossy daily fallback.
func (n *Normalized) Warning() string {
	if n.FreqInferred {
		return ""
	}
	return "frequency not inferred, defaulting to daily"
}

// Normalize coerces the chosen columns of a table into a strictly-typed
// series. Timestamps are parsed permissively with unparseable entries kept
// as explicit nulls; any null rejects the whole load with
// ErrUnparseableDate. Null or non-numeric value cells become NaN
// observations. On success the series is sorted ascending and the sampling
// frequency inferred over the full series.
func Normalize(t *ingest.RawTable, roles ingest.Roles) (*Normalized, error) {
	dates, err := t.Column(roles.DateColumn)
	if err != nil {
		return nil, err
	}
	values, err := t.Column(roles.ValueColumn)
	if err != nil {
		return nil, err
	}

	ts := make([]time.Time, len(dates))
	var badRows int
	var firstBad string
	for i, cell := range dates {
		if ingest.IsNullCell(cell) {
			badRows++
			if firstBad == "" {
				firstBad = cell
			}
			continue
		}
		parsed, err := dateparse.ParseAny(cell)
		if err != nil {
			badRows++
			if firstBad == "" {
				firstBad = cell
			}
			continue
		}
		ts[i] = parsed
	}
	if badRows > 0 {
		return nil, fmt.Errorf("%d rows (first %q), %w", badRows, firstBad, ErrUnparseableDate)
	}

	ys := make([]float64, len(values))
	for i, cell := range values {
		v, ok := ingest.ParseNumericCell(cell)
		if !ok || ingest.IsNullCell(cell) {
			v = math.NaN()
		}
		ys[i] = v
	}

	idx := make([]int, len(ts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return ts[idx[i]].Before(ts[idx[j]]) })

	sortedT := make([]time.Time, len(ts))
	sortedY := make([]float64, len(ys))
	for i, j := range idx {
		sortedT[i] = ts[j]
		sortedY[i] = ys[j]
	}

	s, err := NewSeries(sortedT, sortedY)
	if err != nil {
		return nil, err
	}

	freq, ok := InferFrequency(s.T)
	if !ok {
		freq = FreqDaily
	}
	return &Normalized{Series: s, Freq: freq, FreqInferred: ok}, nil
}
