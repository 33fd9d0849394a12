package forecastapp

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/6ogo/Forecast-app/forecast"
	"github.com/6ogo/Forecast-app/timeseries"
)

const (
	colorHistorical = "#1f77b4"
	colorForecast   = "#ff7f0e"
	colorBoundary   = "#2ca02c"
	colorFitted     = "#9467bd"
)

// emptyCell is the echarts placeholder for a series with no value at an
// x-axis position.
const emptyCell = "-"

// ForecastChart builds the dashboard line chart: solid historical trace,
// dotted future forecast, shaded confidence band and a dashed vertical mark
// at the historical/future boundary. The fitted overlay is drawn only when
// the result carries fitted points.
func ForecastChart(hist *timeseries.Series, res *forecast.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Data Forecast",
			},
		),
		charts.WithInitializationOpts(
			opts.Initialization{
				PageTitle: "Forecasting Dashboard",
				Width:     "980px",
				Height:    "520px",
			},
		),
	)

	nHist := hist.Len()
	nFuture := len(res.Future)
	n := nHist + nFuture

	x := make([]string, 0, n)
	for _, t := range hist.T {
		x = append(x, forecast.FormatTime(t, res.Freq))
	}
	for _, pt := range res.Future {
		x = append(x, forecast.FormatTime(pt.T, res.Freq))
	}

	historical := make([]opts.LineData, 0, n)
	for _, y := range hist.Y {
		historical = append(historical, opts.LineData{Value: y})
	}
	for i := 0; i < nFuture; i++ {
		historical = append(historical, opts.LineData{Value: emptyCell})
	}

	forecastLine := make([]opts.LineData, 0, n)
	bandLower := make([]opts.LineData, 0, n)
	bandWidth := make([]opts.LineData, 0, n)
	for i := 0; i < nHist; i++ {
		forecastLine = append(forecastLine, opts.LineData{Value: emptyCell})
		bandLower = append(bandLower, opts.LineData{Value: emptyCell})
		bandWidth = append(bandWidth, opts.LineData{Value: emptyCell})
	}
	for _, pt := range res.Future {
		forecastLine = append(forecastLine, opts.LineData{Value: pt.Forecast})
		bandLower = append(bandLower, opts.LineData{Value: pt.Lower})
		bandWidth = append(bandWidth, opts.LineData{Value: pt.Upper - pt.Lower})
	}

	line.SetXAxis(x).
		AddSeries("Historical", historical,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorHistorical, Width: 2}),
			charts.WithMarkLineNameXAxisItemOpts(
				opts.MarkLineNameXAxisItem{
					Name:  "Forecast start",
					XAxis: forecast.FormatTime(res.LastHistorical, res.Freq),
				},
			),
		).
		AddSeries("Forecast", forecastLine,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorForecast, Width: 2, Type: "dotted"}),
		).
		// The band is drawn with the stacked-series technique: an invisible
		// lower line plus a stacked upper-minus-lower area.
		AddSeries("Lower CI", bandLower,
			charts.WithLineChartOpts(opts.LineChart{Stack: "confidence"}),
			charts.WithLineStyleOpts(opts.LineStyle{Opacity: 0}),
		).
		AddSeries("Upper CI", bandWidth,
			charts.WithLineChartOpts(opts.LineChart{Stack: "confidence"}),
			charts.WithLineStyleOpts(opts.LineStyle{Opacity: 0}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: colorForecast, Opacity: 0.2}),
		)

	if len(res.Fitted) > 0 {
		fitted := make([]opts.LineData, 0, n)
		for _, pt := range res.Fitted {
			fitted = append(fitted, opts.LineData{Value: pt.Forecast})
		}
		for i := len(res.Fitted); i < n; i++ {
			fitted = append(fitted, opts.LineData{Value: emptyCell})
		}
		line.AddSeries("Fitted", fitted,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorFitted, Width: 1.5}),
		)
	}

	return line
}

// RenderChartPage writes a standalone HTML page with the forecast chart.
func RenderChartPage(w io.Writer, hist *timeseries.Series, res *forecast.Result) error {
	page := components.NewPage()
	page.AddCharts(ForecastChart(hist, res))
	return page.Render(w)
}
