package forecast

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/araddon/dateparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/6ogo/Forecast-app/timeseries"
)

func sampleResult() *Result {
	return &Result{
		Future: []Point{
			{T: day(4), Forecast: 107.25, Lower: 101.5, Upper: 113.75},
			{T: day(5), Forecast: 108.5, Lower: 102.25, Upper: 114.125},
		},
		LastHistorical: day(3),
		Freq:           timeseries.FreqDaily,
	}
}

func TestHeader(t *testing.T) {
	assert.Equal(t, []string{"Date", "Forecast", "Lower CI", "Upper CI"}, Header())
}

func TestRowsMatchFuture(t *testing.T) {
	res := sampleResult()
	rows := res.Rows()

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-01-04", "107.25", "101.5", "113.75"}, rows[0])
	assert.Equal(t, []string{"2024-01-05", "108.5", "102.25", "114.125"}, rows[1])
}

// Exporting then re-parsing the table yields the same values: display and
// export share one rendering, so the CSV is a lossless view of the result.
func TestExportRoundTrip(t *testing.T) {
	res := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, res.WriteCSV(&buf))

	r := csv.NewReader(&buf)
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header(), records[0])

	for i, rec := range records[1:] {
		parsedT, err := dateparse.ParseAny(rec[0])
		require.NoError(t, err)
		assert.True(t, parsedT.Equal(res.Future[i].T))

		forecastVal, err := strconv.ParseFloat(rec[1], 64)
		require.NoError(t, err)
		lower, err := strconv.ParseFloat(rec[2], 64)
		require.NoError(t, err)
		upper, err := strconv.ParseFloat(rec[3], 64)
		require.NoError(t, err)

		assert.Equal(t, res.Future[i].Forecast, forecastVal)
		assert.Equal(t, res.Future[i].Lower, lower)
		assert.Equal(t, res.Future[i].Upper, upper)
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 1, 4, 13, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-04", FormatTime(ts, timeseries.FreqDaily))
	assert.Equal(t, "2024-01-04", FormatTime(ts, timeseries.FreqWeekly))
	assert.Equal(t, "2024-01-04 13:30:00", FormatTime(ts, timeseries.FreqHourly))
}
