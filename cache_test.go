package forecastapp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/6ogo/Forecast-app/ingest"
	"github.com/6ogo/Forecast-app/timeseries"
)

func TestLoadKeySensitivity(t *testing.T) {
	base := LoadRequest{
		Filename:   "sales.csv",
		Data:       []byte(salesCSV),
		Mode:       ingest.ColumnModeAuto,
		DateColumn: "",
	}
	baseKey := loadKey(base, ingest.EncodingUTF8, ',')

	testData := map[string]func(LoadRequest) (LoadRequest, ingest.Encoding, rune){
		"same input": func(r LoadRequest) (LoadRequest, ingest.Encoding, rune) {
			return r, ingest.EncodingUTF8, ','
		},
		"different bytes": func(r LoadRequest) (LoadRequest, ingest.Encoding, rune) {
			r.Data = []byte("other")
			return r, ingest.EncodingUTF8, ','
		},
		"different encoding": func(r LoadRequest) (LoadRequest, ingest.Encoding, rune) {
			return r, ingest.EncodingLatin1, ','
		},
		"different delimiter": func(r LoadRequest) (LoadRequest, ingest.Encoding, rune) {
			return r, ingest.EncodingUTF8, ';'
		},
		"different columns": func(r LoadRequest) (LoadRequest, ingest.Encoding, rune) {
			r.Mode = ingest.ColumnModeManual
			r.DateColumn = "date"
			r.ValueColumn = "sales"
			return r, ingest.EncodingUTF8, ','
		},
	}

	for name, mutate := range testData {
		t.Run(name, func(t *testing.T) {
			req, enc, delim := mutate(base)
			key := loadKey(req, enc, delim)
			if name == "same input" {
				assert.Equal(t, baseKey, key)
				return
			}
			assert.NotEqual(t, baseKey, key)
		})
	}
}

func TestSeriesKeySensitivity(t *testing.T) {
	mk := func(ys []float64) *timeseries.Series {
		ts := make([]time.Time, len(ys))
		for i := range ts {
			ts[i] = time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)
		}
		s, err := timeseries.NewSeries(ts, ys)
		require.NoError(t, err)
		return s
	}

	a := mk([]float64{1, 2, 3})
	b := mk([]float64{1, 2, 3})
	c := mk([]float64{1, 2, 4})

	assert.Equal(t, seriesKey(a, timeseries.FreqDaily), seriesKey(b, timeseries.FreqDaily))
	assert.NotEqual(t, seriesKey(a, timeseries.FreqDaily), seriesKey(c, timeseries.FreqDaily))
	assert.NotEqual(t, seriesKey(a, timeseries.FreqDaily), seriesKey(a, timeseries.FreqWeekly))
}

func TestSingleSlotEviction(t *testing.T) {
	var c loadCache
	first := &LoadResult{}
	second := &LoadResult{}

	c.put(1, first)
	got, ok := c.get(1)
	require.True(t, ok)
	assert.Same(t, first, got)

	// a new key evicts the previous entry; nothing else does
	c.put(2, second)
	_, ok = c.get(1)
	assert.False(t, ok)
	got, ok = c.get(2)
	require.True(t, ok)
	assert.Same(t, second, got)
}
