package forecastapp

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/6ogo/Forecast-app/forecast"
	"github.com/6ogo/Forecast-app/ingest"
	"github.com/6ogo/Forecast-app/timeseries"
)

// The pipeline memoizes its two expensive stages with single-slot caches:
// the previous result is kept until the key, a hash of the stage's full
// input, changes. A new input evicts the old entry; nothing else does.

type loadCache struct {
	key uint64
	res *LoadResult
}

func (c *loadCache) get(key uint64) (*LoadResult, bool) {
	if c.res == nil || c.key != key {
		return nil, false
	}
	return c.res, true
}

func (c *loadCache) put(key uint64, res *LoadResult) {
	c.key = key
	c.res = res
}

type fitCache struct {
	key  uint64
	pred *forecast.Prediction
}

func (c *fitCache) get(key uint64) (*forecast.Prediction, bool) {
	if c.pred == nil || c.key != key {
		return nil, false
	}
	return c.pred, true
}

func (c *fitCache) put(key uint64, pred *forecast.Prediction) {
	c.key = key
	c.pred = pred
}

// loadKey hashes everything the load stage depends on: file identity and
// all resolved parse settings.
func loadKey(req LoadRequest, enc ingest.Encoding, delimiter rune) uint64 {
	d := xxhash.New()
	_, _ = d.Write(req.Data)
	_, _ = d.WriteString("\x00" + req.Filename)
	_, _ = d.WriteString("\x00" + string(enc))
	_, _ = d.WriteString("\x00" + string(delimiter))
	_, _ = d.WriteString("\x00" + string(req.Mode))
	_, _ = d.WriteString("\x00" + req.DateColumn)
	_, _ = d.WriteString("\x00" + req.ValueColumn)
	return d.Sum64()
}

// seriesKey hashes the normalized series content plus its frequency, the
// full input of the model-fit stage.
func seriesKey(s *timeseries.Series, freq timeseries.Frequency) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for i := range s.T {
		binary.LittleEndian.PutUint64(buf[:], uint64(s.T[i].UnixNano()))
		_, _ = d.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(s.Y[i]))
		_, _ = d.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(freq))
	_, _ = d.Write(buf[:])
	return d.Sum64()
}
