// Package forecast drives the external forecasting model: it extends the
// historical timeline into the future, invokes the model once per series,
// and partitions the predictions into fitted and future segments with
// confidence bounds.
package forecast

import (
	"errors"
	"fmt"
	"strings"
	"time"

	forecaster "github.com/aouyang1/go-forecaster"
	"github.com/aouyang1/go-forecaster/forecast/options"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var ErrEmptyPrediction = errors.New("model returned no predictions")

// Prediction is the raw model output over a requested timeline.
type Prediction struct {
	T     []time.Time
	Yhat  []float64
	Lower []float64
	Upper []float64
}

// Model is the forecasting collaborator. It is treated as an opaque,
// deterministic-per-input black box: Fit trains on the historical series and
// Predict returns a (predicted, lower, upper) tuple per requested timestamp.
type Model interface {
	Fit(t []time.Time, y []float64) error
	Predict(t []time.Time) (*Prediction, error)
}

// SeasonalModel adapts the go-forecaster library to the Model interface with
// a fixed seasonal configuration: daily, weekly and yearly Fourier
// components plus US-holiday event windows over the modeled range. The
// configuration is deliberately not caller-tunable.
type SeasonalModel struct {
	f *forecaster.Forecaster
}

const (
	dailyOrders  = 12
	weeklyOrders = 6
	yearlyOrders = 10
)

var eventHolidays = []*cal.Holiday{us.ThanksgivingDay, us.ChristmasDay, us.NewYear}

// NewSeasonalModel builds the adapter for a series whose modeled timeline,
// history plus maximum horizon, spans [start, end].
func NewSeasonalModel(start, end time.Time) (*SeasonalModel, error) {
	opt := forecaster.NewDefaultOptions()
	opt.SeriesOptions.ForecastOptions.SeasonalityOptions = options.SeasonalityOptions{
		SeasonalityConfigs: []options.SeasonalityConfig{
			options.NewDailySeasonalityConfig(dailyOrders),
			options.NewWeeklySeasonalityConfig(weeklyOrders),
			options.NewSeasonalityConfig("yearly", 365*24*time.Hour, yearlyOrders),
		},
	}
	opt.SeriesOptions.ForecastOptions.EventOptions = options.EventOptions{
		Events: holidayEvents(start, end),
	}

	f, err := forecaster.New(opt)
	if err != nil {
		return nil, fmt.Errorf("initializing forecaster, %w", err)
	}
	return &SeasonalModel{f: f}, nil
}

func (m *SeasonalModel) Fit(t []time.Time, y []float64) error {
	if err := m.f.Fit(t, y); err != nil {
		return fmt.Errorf("fitting model, %w", err)
	}
	return nil
}

func (m *SeasonalModel) Predict(t []time.Time) (*Prediction, error) {
	res, err := m.f.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("predicting, %w", err)
	}
	if len(res.Forecast) == 0 {
		return nil, ErrEmptyPrediction
	}
	return &Prediction{
		T:     res.T,
		Yhat:  res.Forecast,
		Lower: res.Lower,
		Upper: res.Upper,
	}, nil
}

// holidayEvents generates one event window per observed holiday falling in
// [start, end], covering the holiday itself plus the day after.
func holidayEvents(start, end time.Time) []options.Event {
	var events []options.Event
	for _, hol := range eventHolidays {
		for year := start.Year(); year <= end.Year(); year++ {
			_, observed := hol.Calc(year)
			day := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, start.Location())
			if day.Before(start) || day.After(end) {
				continue
			}
			name := strings.ReplaceAll(fmt.Sprintf("%s_%d", hol.Name, year), " ", "_")
			events = append(events, options.NewEvent(name, day, day.Add(48*time.Hour)))
		}
	}
	return events
}
