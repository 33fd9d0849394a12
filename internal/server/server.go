// Package server exposes the forecasting pipeline over HTTP: file upload,
// forecast retrieval, CSV export, a rendered chart page, health and
// metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	forecastapp "github.com/6ogo/Forecast-app"
	"github.com/6ogo/Forecast-app/internal/config"
)

// Server wraps the echo HTTP server and the per-session pipeline state.
type Server struct {
	cfg      *config.Config
	log      zerolog.Logger
	echo     *echo.Echo
	sessions *SessionStore
}

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i any) error {
	if err := rv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Option configures a Server beyond its config file settings.
type Option func(*Server)

// WithModelFactory overrides the forecasting model construction, letting
// tests swap in a deterministic model.
func WithModelFactory(factory forecastapp.ModelFactory) Option {
	return func(s *Server) {
		s.sessions = NewSessionStore(s.log, s.cfg.Session.TTL, factory)
	}
}

// New builds the server with all routes and middleware registered.
func New(cfg *config.Config, log zerolog.Logger, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = &requestValidator{v: validator.New()}

	e.Use(middleware.Recover())
	e.Use(requestLogging(log))
	if cfg.Metrics.Enabled {
		e.Use(requestMetrics())
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.Handler()))
	}

	s := &Server{
		cfg:      cfg,
		log:      log,
		echo:     e,
		sessions: NewSessionStore(log, cfg.Session.TTL, nil),
	}
	for _, opt := range opts {
		opt(s)
	}

	api := e.Group("/api/v1")
	api.POST("/upload", s.handleUpload)
	api.GET("/forecast", s.handleForecast)
	api.GET("/forecast/export", s.handleExport)

	e.GET("/chart", s.handleChart)
	e.GET("/healthz", s.handleHealth)

	return s
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.log.Info().Str("addr", addr).Msg("starting server")

	s.echo.Server.ReadTimeout = s.cfg.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.Server.WriteTimeout

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped, %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
