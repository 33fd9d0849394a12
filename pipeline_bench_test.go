package forecastapp

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/6ogo/Forecast-app/forecast"
	"github.com/6ogo/Forecast-app/ingest"
)

var benchRes *forecast.Result

func benchCSV(rows int) []byte {
	var sb strings.Builder
	sb.WriteString("date,sales\n")
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "%s,%d\n", start.AddDate(0, 0, i).Format("2006-01-02"), 100+i%17)
	}
	return []byte(sb.String())
}

func BenchmarkPipelineLoad(b *testing.B) {
	data := benchCSV(730)
	p := NewWithModelFactory(zerolog.Nop(), func(start, end time.Time) (forecast.Model, error) {
		return &linearModel{}, nil
	})

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		lr, err := p.Load(LoadRequest{
			Filename: "bench.csv",
			Data:     data,
			Mode:     ingest.ColumnModeAuto,
		})
		if err != nil {
			panic(err)
		}
		benchRes, err = p.Forecast(lr, 30, false)
		if err != nil {
			panic(err)
		}
	}
}
