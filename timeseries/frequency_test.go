package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func steps(start time.Time, f Frequency, n int) []time.Time {
	t := make([]time.Time, n)
	t[0] = start
	for i := 1; i < n; i++ {
		t[i] = f.Next(t[i-1], 1)
	}
	return t
}

func TestInferFrequency(t *testing.T) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	testData := map[string]struct {
		t        []time.Time
		expected Frequency
		ok       bool
	}{
		"too short": {
			t: steps(start, FreqDaily, 1),
		},
		"hourly": {
			t:        steps(start, FreqHourly, 48),
			expected: FreqHourly,
			ok:       true,
		},
		"daily": {
			t:        steps(start, FreqDaily, 30),
			expected: FreqDaily,
			ok:       true,
		},
		"weekly": {
			t:        steps(start, FreqWeekly, 10),
			expected: FreqWeekly,
			ok:       true,
		},
		"monthly across varying month lengths": {
			t:        steps(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), FreqMonthly, 12),
			expected: FreqMonthly,
			ok:       true,
		},
		"yearly": {
			t:        steps(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), FreqYearly, 5),
			expected: FreqYearly,
			ok:       true,
		},
		"irregular": {
			t: []time.Time{
				start,
				start.AddDate(0, 0, 1),
				start.AddDate(0, 0, 5),
				start.AddDate(0, 0, 6),
			},
		},
		"mostly daily with one gap": {
			t: []time.Time{
				start,
				start.AddDate(0, 0, 1),
				start.AddDate(0, 0, 2),
				start.AddDate(0, 0, 4),
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			freq, ok := InferFrequency(td.t)
			assert.Equal(t, td.ok, ok)
			if td.ok {
				assert.Equal(t, td.expected, freq)
			} else {
				assert.Equal(t, FreqUnknown, freq)
			}
		})
	}
}

func TestFrequencyNext(t *testing.T) {
	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, jan31.Add(time.Hour), FreqHourly.Next(jan31, 1))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), FreqDaily.Next(jan31, 1))
	assert.Equal(t, time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC), FreqWeekly.Next(jan31, 1))
	// calendar stepping: Jan 31 + 1 month normalizes per time.AddDate
	assert.Equal(t, jan31.AddDate(0, 1, 0), FreqMonthly.Next(jan31, 1))
	assert.Equal(t, jan31.AddDate(1, 0, 0), FreqYearly.Next(jan31, 1))
}

func TestFrequencyString(t *testing.T) {
	assert.Equal(t, "daily", FreqDaily.String())
	assert.Equal(t, "unknown", FreqUnknown.String())
}
