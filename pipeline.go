// Package forecastapp runs the upload-to-forecast pipeline behind the
// dashboard: settings resolution, tabular load, column role inference,
// series normalization, model fitting and forecast window slicing, with
// explicit memoization of the load and fit stages.
package forecastapp

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/6ogo/Forecast-app/forecast"
	"github.com/6ogo/Forecast-app/ingest"
	"github.com/6ogo/Forecast-app/timeseries"
)

// AutoEncoding and AutoDelimiter request detection instead of an explicit
// setting.
const (
	AutoEncoding  = ""
	AutoDelimiter = rune(0)
)

// LoadRequest carries one uploaded file plus its parse settings. Zero-value
// settings mean automatic resolution.
type LoadRequest struct {
	Filename string
	Data     []byte

	Encoding  string // IANA name, or AutoEncoding
	Delimiter rune   // delimited text only, or AutoDelimiter

	Mode        ingest.ColumnMode
	DateColumn  string // manual mode only
	ValueColumn string // manual mode only
}

// LoadResult is the validated, display-ready outcome of the load stage.
type LoadResult struct {
	Table      *ingest.RawTable
	Roles      ingest.Roles
	Normalized *timeseries.Normalized

	Encoding  ingest.Encoding
	Delimiter rune
	Warnings  []string
}

// ModelFactory builds a forecasting model for a timeline spanning
// [start, end]. Swapped out in tests for a deterministic fake.
type ModelFactory func(start, end time.Time) (forecast.Model, error)

// Pipeline executes pipeline runs for a single session. It is not safe for
// concurrent use; the execution model is one synchronous run per user
// action. Each session owns its own Pipeline so cached state never crosses
// users.
type Pipeline struct {
	log      zerolog.Logger
	newModel ModelFactory

	loads loadCache
	fits  fitCache
}

// New creates a Pipeline backed by the seasonal model adapter.
func New(log zerolog.Logger) *Pipeline {
	return &Pipeline{
		log: log,
		newModel: func(start, end time.Time) (forecast.Model, error) {
			return forecast.NewSeasonalModel(start, end)
		},
	}
}

// NewWithModelFactory creates a Pipeline with a caller-supplied model
// factory.
func NewWithModelFactory(log zerolog.Logger, factory ModelFactory) *Pipeline {
	return &Pipeline{log: log, newModel: factory}
}

// Load resolves encoding and delimiter, parses the file, infers column
// roles and normalizes the series. The result is memoized on the full input
// so re-running with unchanged settings skips every stage.
func (p *Pipeline) Load(req LoadRequest) (*LoadResult, error) {
	format, err := ingest.FormatFromFilename(req.Filename)
	if err != nil {
		return nil, err
	}

	var warnings []string
	enc := ingest.Encoding(req.Encoding)
	delimiter := req.Delimiter
	if format == ingest.FormatDelimited {
		if req.Encoding == AutoEncoding {
			det := ingest.DetectEncoding(req.Data)
			enc = det.Encoding
			if det.Warning != "" {
				warnings = append(warnings, det.Warning)
				p.log.Warn().Str("filename", req.Filename).Msg(det.Warning)
			}
		}
		if delimiter == AutoDelimiter {
			delimiter = ingest.DetectDelimiter(req.Data)
		}
	}

	mode := req.Mode
	if mode == "" {
		mode = ingest.ColumnModeAuto
	}

	// The key hashes fully resolved settings so requesting a default
	// explicitly never misses the cache.
	req.Mode = mode
	key := loadKey(req, enc, delimiter)
	if res, ok := p.loads.get(key); ok {
		p.log.Debug().Str("filename", req.Filename).Msg("load cache hit")
		return res, nil
	}

	table, err := ingest.Load(req.Data, format, enc, delimiter)
	if err != nil {
		return nil, err
	}

	roles, err := ingest.InferRoles(table, mode, ingest.Roles{
		DateColumn:  req.DateColumn,
		ValueColumn: req.ValueColumn,
	})
	if err != nil {
		return nil, err
	}

	normalized, err := timeseries.Normalize(table, roles)
	if err != nil {
		return nil, err
	}
	if w := normalized.Warning(); w != "" {
		warnings = append(warnings, w)
		p.log.Warn().Str("filename", req.Filename).Msg(w)
	}

	res := &LoadResult{
		Table:      table,
		Roles:      roles,
		Normalized: normalized,
		Encoding:   enc,
		Delimiter:  delimiter,
		Warnings:   warnings,
	}
	p.loads.put(key, res)

	p.log.Info().
		Str("filename", req.Filename).
		Str("date_column", roles.DateColumn).
		Str("value_column", roles.ValueColumn).
		Str("frequency", normalized.Freq.String()).
		Int("rows", normalized.Series.Len()).
		Msg("loaded series")
	return res, nil
}

// Forecast slices a forecast window out of the model predictions for the
// loaded series. The fit and its full-horizon predictions are memoized on
// the series content, so changing only the horizon or the fitted toggle
// never refits the model.
func (p *Pipeline) Forecast(lr *LoadResult, horizon int, includeFitted bool) (*forecast.Result, error) {
	if err := forecast.ValidateHorizon(horizon); err != nil {
		return nil, err
	}

	s := lr.Normalized.Series
	freq := lr.Normalized.Freq

	key := seriesKey(s, freq)
	pred, ok := p.fits.get(key)
	if !ok {
		timeline := forecast.ExtendTimeline(s.T, freq, forecast.MaxHorizon)
		model, err := p.newModel(timeline[0], timeline[len(timeline)-1])
		if err != nil {
			return nil, err
		}

		start := time.Now()
		pred, err = forecast.Run(model, s, freq)
		if err != nil {
			return nil, err
		}
		p.fits.put(key, pred)
		p.log.Info().
			Dur("fit_duration", time.Since(start)).
			Int("points", s.Len()).
			Msg("fitted forecast model")
	}

	return forecast.Partition(pred, s.Last(), freq, horizon, includeFitted)
}
