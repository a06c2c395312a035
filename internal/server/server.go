package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vzahanych/weather-probability-api/internal/config"
	"github.com/vzahanych/weather-probability-api/internal/lookup"
	"github.com/vzahanych/weather-probability-api/internal/server/handlers"
	"github.com/vzahanych/weather-probability-api/internal/server/middlewares"
	"github.com/vzahanych/weather-probability-api/internal/server/utils"
	"github.com/vzahanych/weather-probability-api/internal/service"
	"github.com/vzahanych/weather-probability-api/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	engine   *gin.Engine
	server   *http.Server
	lookup   *lookup.Lookup
	registry *prometheus.Registry
	logger   *zap.Logger
	tele     *telemetry.Telemetry
}

// New builds the route table once for the provider selected in cfg.
func New(cfg *config.Config, logger *zap.Logger, tele *telemetry.Telemetry) (*Server, error) {
	provider, err := service.New(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("create weather provider: %w", err)
	}
	return NewWithProvider(cfg, provider, logger, tele), nil
}

// NewWithProvider is New with an explicit provider, for callers that bring
// their own WeatherProvider implementation.
func NewWithProvider(cfg *config.Config, provider service.WeatherProvider, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	utils.RegisterValidations()

	registry := prometheus.NewRegistry()
	metrics := middlewares.NewMetrics(registry)

	l := lookup.New(provider, time.Duration(cfg.Provider.Timeout)*time.Second, logger, tele)
	l.SetMetricsRecorder(metrics)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.CORSMiddleware(cfg.CORS))
	engine.Use(metrics.Handler())
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))

	s := &Server{
		engine:   engine,
		lookup:   l,
		registry: registry,
		logger:   logger,
		tele:     tele,
	}

	s.setupRoutes()

	srvCfg := cfg.Server
	s.server = &http.Server{
		Addr:         srvCfg.Addr(),
		Handler:      engine,
		ReadTimeout:  time.Duration(srvCfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(srvCfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(srvCfg.IdleTimeout) * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	// Business endpoints
	weather := handlers.NewWeatherHandler(s.lookup, s.logger)
	s.engine.GET("/weather", weather.GetWeather)
	s.engine.GET("/probability", weather.GetProbability)

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.logger, s.lookup.ProviderName())
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", handlers.NewMetricsHandler(s.logger, s.registry).ServeMetrics)
}

// Handler exposes the configured engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address and blocks until the server stops.
// A clean Shutdown makes it return nil.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
