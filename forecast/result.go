package forecast

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/6ogo/Forecast-app/timeseries"
)

// Point is a single forecasted observation with its confidence bounds.
// Invariant: Lower <= Forecast <= Upper.
type Point struct {
	T        time.Time `json:"date"`
	Forecast float64   `json:"forecast"`
	Lower    float64   `json:"lower"`
	Upper    float64   `json:"upper"`
}

// Result is a partitioned forecast. Future holds points strictly after the
// last historical timestamp, truncated to the requested horizon; Fitted
// holds the model's reconstruction of the historical range and is only
// populated when explicitly requested.
type Result struct {
	Future         []Point   `json:"future"`
	Fitted         []Point   `json:"fitted,omitempty"`
	LastHistorical time.Time `json:"last_historical"`

	Freq timeseries.Frequency `json:"-"`
}

// Header is the display and export header row, in column order.
func Header() []string {
	return []string{"Date", "Forecast", "Lower CI", "Upper CI"}
}

// FormatTime renders a timestamp for display and export. Daily and coarser
// frequencies drop the clock component, matching how such series are
// written in the source files.
func FormatTime(t time.Time, freq timeseries.Frequency) string {
	if freq.DateOnly() {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Rows renders the future segment as display rows. Export and on-screen
// consumers share this single rendering so both always see identical data.
func (r *Result) Rows() [][]string {
	rows := make([][]string, len(r.Future))
	for i, pt := range r.Future {
		rows[i] = []string{
			FormatTime(pt.T, r.Freq),
			formatValue(pt.Forecast),
			formatValue(pt.Lower),
			formatValue(pt.Upper),
		}
	}
	return rows
}

// WriteCSV writes the export table: header then one row per future point in
// timestamp order.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("writing export header, %w", err)
	}
	for _, row := range r.Rows() {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing export row, %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
