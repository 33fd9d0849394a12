package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	forecastapp "github.com/6ogo/Forecast-app"
	"github.com/6ogo/Forecast-app/forecast"
	"github.com/6ogo/Forecast-app/ingest"
	"github.com/6ogo/Forecast-app/timeseries"
)

// previewRows caps how many table rows the upload response echoes back.
const previewRows = 5

type uploadResponse struct {
	SessionID   string     `json:"session_id"`
	Columns     []string   `json:"columns"`
	DateColumn  string     `json:"date_column"`
	ValueColumn string     `json:"value_column"`
	Frequency   string     `json:"frequency"`
	Rows        int        `json:"rows"`
	Preview     [][]string `json:"preview"`
	Warnings    []string   `json:"warnings,omitempty"`
}

// Periods is a pointer so an absent parameter, which falls back to the
// configured default, is distinguishable from an explicit out-of-range 0.
type forecastQuery struct {
	SessionID string `query:"session_id" validate:"required,uuid4"`
	Periods   *int   `query:"periods" validate:"omitempty,min=1,max=365"`
	Fitted    bool   `query:"fitted"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// handleUpload ingests a file and runs the load half of the pipeline. A
// session_id form field reuses an existing session so the load cache can
// short-circuit resubmissions; otherwise a new session is created.
func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file upload")
	}
	if fh.Size > s.cfg.Upload.MaxBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds upload limit")
	}

	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file upload")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.Upload.MaxBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file upload")
	}
	if int64(len(data)) > s.cfg.Upload.MaxBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds upload limit")
	}

	req := forecastapp.LoadRequest{
		Filename:    fh.Filename,
		Data:        data,
		Encoding:    c.FormValue("encoding"),
		Mode:        ingest.ColumnMode(c.FormValue("mode")),
		DateColumn:  c.FormValue("date_column"),
		ValueColumn: c.FormValue("value_column"),
	}
	if d := c.FormValue("delimiter"); d != "" {
		req.Delimiter = []rune(d)[0]
	}
	if req.Encoding == "auto" {
		req.Encoding = forecastapp.AutoEncoding
	}

	sess, getErr := s.sessions.Get(c.FormValue("session_id"))
	fresh := getErr != nil
	if fresh {
		sess = s.sessions.Create()
	}

	res, err := sess.Pipeline.Load(req)
	if err != nil {
		// A failed first load must not leave an empty session behind.
		if fresh {
			s.sessions.Delete(sess.ID)
		}
		return pipelineError(err)
	}
	sess.Load = res

	preview := res.Table.Rows
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}
	return c.JSON(http.StatusOK, uploadResponse{
		SessionID:   sess.ID,
		Columns:     res.Table.Columns,
		DateColumn:  res.Roles.DateColumn,
		ValueColumn: res.Roles.ValueColumn,
		Frequency:   res.Normalized.Freq.String(),
		Rows:        res.Normalized.Series.Len(),
		Preview:     preview,
		Warnings:    res.Warnings,
	})
}

// handleForecast returns the forecast window as JSON.
func (s *Server) handleForecast(c echo.Context) error {
	res, _, err := s.runForecast(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// handleExport streams the forecast window as a CSV attachment. The rows are
// rendered by the same formatter that backs the JSON table, so both
// consumers see identical data.
func (s *Server) handleExport(c echo.Context) error {
	res, _, err := s.runForecast(c)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="forecast.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return res.WriteCSV(c.Response())
}

// handleChart renders the interactive chart page.
func (s *Server) handleChart(c echo.Context) error {
	res, sess, err := s.runForecast(c)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return forecastapp.RenderChartPage(c.Response(), sess.Load.Normalized.Series, res)
}

func (s *Server) runForecast(c echo.Context) (*forecast.Result, *Session, error) {
	var q forecastQuery
	if err := c.Bind(&q); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&q); err != nil {
		return nil, nil, err
	}
	horizon := s.cfg.Forecast.DefaultHorizon
	if q.Periods != nil {
		horizon = *q.Periods
	}

	sess, err := s.sessions.Get(q.SessionID)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "unknown session, upload a file first")
	}
	if sess.Load == nil {
		return nil, nil, echo.NewHTTPError(http.StatusConflict, "session has no loaded series")
	}

	res, err := sess.Pipeline.Forecast(sess.Load, horizon, q.Fitted)
	if err != nil {
		return nil, nil, pipelineError(err)
	}
	return res, sess, nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// pipelineError maps pipeline failures onto HTTP statuses and the error
// taxonomy surfaced to the dashboard. Every failure is local to the request;
// the service stays ready for the next upload.
func pipelineError(err error) error {
	kind := "LoadFailure"
	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, ingest.ErrNoDateColumn), errors.Is(err, ingest.ErrNoValueColumn):
		kind = "NoSuitableColumn"
	case errors.Is(err, ingest.ErrUnknownColumn):
		kind = "NoSuitableColumn"
		status = http.StatusBadRequest
	case errors.Is(err, timeseries.ErrUnparseableDate), errors.Is(err, timeseries.ErrDuplicateTimestamp):
		kind = "DateParseFailure"
	case errors.Is(err, forecast.ErrHorizonOutOfRange):
		kind = "InvalidHorizon"
		status = http.StatusBadRequest
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, ingest.ErrMalformedInput),
		errors.Is(err, ingest.ErrEmptyTable),
		errors.Is(err, ingest.ErrNoHeader),
		errors.Is(err, ingest.ErrUnknownEncoding),
		errors.Is(err, ingest.ErrEmptySpreadsheet),
		errors.Is(err, timeseries.ErrNoData):
		// LoadFailure defaults hold.
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return echo.NewHTTPError(status, errorResponse{Error: err.Error(), Kind: kind})
}
