package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/6ogo/Forecast-app/timeseries"
)

// MaxHorizon is the library-internal maximum number of future steps the
// timeline is extended by. Every fit predicts over the full extension so a
// horizon change never needs a refit.
const MaxHorizon = 365

var (
	ErrHorizonOutOfRange = errors.New("forecast horizon must be between 1 and 365")
	ErrTimelineMismatch  = errors.New("prediction timeline does not cover the requested range")
)

// ValidateHorizon bounds-checks a requested horizon at the boundary.
func ValidateHorizon(horizon int) error {
	if horizon < 1 || horizon > MaxHorizon {
		return fmt.Errorf("%d, %w", horizon, ErrHorizonOutOfRange)
	}
	return nil
}

// ExtendTimeline returns the historical timestamps followed by n future
// steps of the frequency.
func ExtendTimeline(t []time.Time, freq timeseries.Frequency, n int) []time.Time {
	out := make([]time.Time, 0, len(t)+n)
	out = append(out, t...)
	last := t[len(t)-1]
	for i := 1; i <= n; i++ {
		out = append(out, freq.Next(last, i))
	}
	return out
}

// Run fits the model to the series and predicts over the historical range
// plus the maximum horizon. This is the expensive step; callers cache its
// output keyed by the series content.
func Run(m Model, s *timeseries.Series, freq timeseries.Frequency) (*Prediction, error) {
	if err := m.Fit(s.T, s.Y); err != nil {
		return nil, err
	}
	return m.Predict(ExtendTimeline(s.T, freq, MaxHorizon))
}

// Partition slices a full prediction at the last historical timestamp:
// Future holds the first horizon points strictly after it, Fitted holds the
// points at or before it when includeFitted is set. Future may come up short
// when the prediction has fewer points past the boundary; it is never padded.
func Partition(p *Prediction, lastHistorical time.Time, freq timeseries.Frequency, horizon int, includeFitted bool) (*Result, error) {
	if err := ValidateHorizon(horizon); err != nil {
		return nil, err
	}
	if len(p.T) == 0 {
		return nil, ErrEmptyPrediction
	}
	if len(p.Yhat) != len(p.T) || len(p.Lower) != len(p.T) || len(p.Upper) != len(p.T) {
		return nil, ErrTimelineMismatch
	}

	res := &Result{
		LastHistorical: lastHistorical,
		Freq:           freq,
	}
	for i := range p.T {
		pt := Point{T: p.T[i], Forecast: p.Yhat[i], Lower: p.Lower[i], Upper: p.Upper[i]}
		if p.T[i].After(lastHistorical) {
			if len(res.Future) < horizon {
				res.Future = append(res.Future, pt)
			}
			continue
		}
		if includeFitted {
			res.Fitted = append(res.Fitted, pt)
		}
	}
	return res, nil
}

// Build runs the model end to end without caching: fit, predict over the
// maximum extension, partition at the series boundary.
func Build(m Model, s *timeseries.Series, freq timeseries.Frequency, horizon int, includeFitted bool) (*Result, error) {
	if err := ValidateHorizon(horizon); err != nil {
		return nil, err
	}
	pred, err := Run(m, s, freq)
	if err != nil {
		return nil, err
	}
	return Partition(pred, s.Last(), freq, horizon, includeFitted)
}
