package timeseries

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Frequency is the regular interval between consecutive series points.
type Frequency int

const (
	FreqUnknown Frequency = iota
	FreqHourly
	FreqDaily
	FreqWeekly
	FreqMonthly
	FreqYearly
)

func (f Frequency) String() string {
	switch f {
	case FreqHourly:
		return "hourly"
	case FreqDaily:
		return "daily"
	case FreqWeekly:
		return "weekly"
	case FreqMonthly:
		return "monthly"
	case FreqYearly:
		return "yearly"
	}
	return "unknown"
}

// Next returns the timestamp n steps of the frequency after t. Monthly and
// yearly steps follow the calendar rather than a fixed duration.
func (f Frequency) Next(t time.Time, n int) time.Time {
	switch f {
	case FreqHourly:
		return t.Add(time.Duration(n) * time.Hour)
	case FreqDaily:
		return t.AddDate(0, 0, n)
	case FreqWeekly:
		return t.AddDate(0, 0, 7*n)
	case FreqMonthly:
		return t.AddDate(0, n, 0)
	case FreqYearly:
		return t.AddDate(n, 0, 0)
	}
	return t
}

// DateOnly reports whether timestamps at this frequency carry no meaningful
// clock component, deciding how they are formatted for display and export.
func (f Frequency) DateOnly() bool {
	return f != FreqHourly
}

var durationFreqs = []struct {
	freq Frequency
	d    time.Duration
}{
	{FreqHourly, time.Hour},
	{FreqDaily, 24 * time.Hour},
	{FreqWeekly, 7 * 24 * time.Hour},
}

// InferFrequency determines the sampling frequency of sorted timestamps. The
// dominant gap picks the candidate and the whole series must then step
// regularly at it; a series that is only locally regular does not qualify.
// Requires at least 2 points. The boolean is false when no candidate holds,
// in which case callers fall back to daily.
func InferFrequency(t []time.Time) (Frequency, bool) {
	if len(t) < 2 {
		return FreqUnknown, false
	}

	gaps := make([]float64, len(t)-1)
	for i := 1; i < len(t); i++ {
		gaps[i-1] = t[i].Sub(t[i-1]).Seconds()
	}
	sort.Float64s(gaps) // stat.Mode expects sorted input
	dominant, _ := stat.Mode(gaps, nil)

	for _, cand := range durationFreqs {
		if time.Duration(dominant)*time.Second != cand.d {
			continue
		}
		if stepsRegularly(t, cand.freq) {
			return cand.freq, true
		}
		return FreqUnknown, false
	}

	// Calendar frequencies have varying gap durations so the dominant gap
	// only gates rough scale.
	switch {
	case dominant >= 28*86400 && dominant <= 31*86400:
		if stepsRegularly(t, FreqMonthly) {
			return FreqMonthly, true
		}
	case dominant >= 365*86400 && dominant <= 366*86400:
		if stepsRegularly(t, FreqYearly) {
			return FreqYearly, true
		}
	}
	return FreqUnknown, false
}

func stepsRegularly(t []time.Time, f Frequency) bool {
	for i := 1; i < len(t); i++ {
		if !f.Next(t[i-1], 1).Equal(t[i]) {
			return false
		}
	}
	return true
}
