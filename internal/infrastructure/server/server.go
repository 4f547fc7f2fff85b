package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/inventra/core/docs"
	httpHandlers "github.com/inventra/core/internal/adapters/http"
	"github.com/inventra/core/internal/infrastructure/config"
	"github.com/inventra/core/internal/infrastructure/database"
	"github.com/inventra/core/internal/infrastructure/logger"
	"github.com/inventra/core/internal/infrastructure/metrics"
	"github.com/inventra/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo        *echo.Echo
	config      *config.Config
	logger      *logger.Logger
	db          *database.DB
	metrics     *metrics.Metrics
	collections []ports.RecordService
}

// New creates a new server instance. db and m may be nil.
func New(cfg *config.Config, collections []ports.RecordService, db *database.DB, m *metrics.Metrics, appLogger *logger.Logger) (*Server, error) {
	if len(collections) == 0 {
		return nil, fmt.Errorf("no collections to serve")
	}

	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:        e,
		config:      cfg,
		logger:      appLogger.WithComponent("server"),
		db:          db,
		metrics:     m,
		collections: collections,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	return server, nil
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	// Collection routes
	for _, svc := range s.collections {
		handler := httpHandlers.NewRecordHandler(svc, s.logger)
		handler.Register(s.echo.Group("/" + svc.Collection().Name))
	}
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	status := "ok"
	checks := make(map[string]interface{})

	for _, svc := range s.collections {
		name := svc.Collection().Name
		count, err := svc.Probe(ctx)
		if err != nil {
			status = "error"
			checks[name] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
			continue
		}
		checks[name] = map[string]interface{}{
			"status":  "ok",
			"records": count,
		}
	}

	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			status = "error"
			checks["database"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "ok",
				"stats":  s.db.GetConnectionInfo(),
			}
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app":     s.config.App.Version,
			"storage": s.config.Storage.Driver,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	for _, svc := range s.collections {
		if _, err := svc.Probe(c.Request().Context()); err != nil {
			s.logger.Warnw("Collection not ready", "collection", svc.Collection().Name, "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": svc.Collection().Name + "_unavailable",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}
