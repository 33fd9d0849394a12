// Package timeseries holds the normalized (timestamp, value) series produced
// from a RawTable and the sampling frequency inference over it.
package timeseries

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoData             = errors.New("no series data")
	ErrLenMismatch        = errors.New("timestamps have a different length than values")
	ErrDuplicateTimestamp = errors.New("duplicate timestamp in series")
)

// Point is a single observation of the series.
type Point struct {
	T time.Time `json:"t"`
	Y float64   `json:"y"`
}

// Series is an ordered univariate time series. Timestamps are strictly
// ascending; values may be NaN where the source cell was null or
// non-numeric.
type Series struct {
	T []time.Time
	Y []float64
}

// NewSeries validates and wraps a timestamp and value slice. Input slices
// must be sorted ascending with no duplicate timestamps and are copied so
// the caller cannot mutate the series afterwards.
func NewSeries(t []time.Time, y []float64) (*Series, error) {
	if len(t) == 0 {
		return nil, ErrNoData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf("%d timestamps, %d values, %w", len(t), len(y), ErrLenMismatch)
	}
	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return nil, fmt.Errorf("at row %d (%s), %w", i, t[i].Format(time.RFC3339), ErrDuplicateTimestamp)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(y))
	copy(tSeries, t)
	copy(ySeries, y)
	return &Series{T: tSeries, Y: ySeries}, nil
}

func (s *Series) Len() int {
	return len(s.T)
}

// Last returns the greatest timestamp of the series.
func (s *Series) Last() time.Time {
	return s.T[len(s.T)-1]
}

func (s *Series) Points() []Point {
	pts := make([]Point, len(s.T))
	for i := range s.T {
		pts[i] = Point{T: s.T[i], Y: s.Y[i]}
	}
	return pts
}

func (s *Series) Copy() *Series {
	tSeries := make([]time.Time, len(s.T))
	ySeries := make([]float64, len(s.Y))
	copy(tSeries, s.T)
	copy(ySeries, s.Y)
	return &Series{T: tSeries, Y: ySeries}
}
