package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/weftlabs/weft/internal/application/health"
	"github.com/weftlabs/weft/internal/application/scheduler"
	"go.uber.org/zap"
)

// Server represents the HTTP API server.
type Server struct {
	router     *gin.Engine
	server     *http.Server
	dispatcher *scheduler.DistributedOrchestrator
	monitor    *health.Monitor
	logger     *zap.Logger
}

// Config holds HTTP server configuration.
type Config struct {
	Port       int
	Dispatcher *scheduler.DistributedOrchestrator
	Monitor    *health.Monitor
	Logger     *zap.Logger
}

// NewServer creates a new HTTP server.
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))

	s := &Server{
		router:     router,
		dispatcher: cfg.Dispatcher,
		monitor:    cfg.Monitor,
		logger:     cfg.Logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return s
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Agent registry
		v1.POST("/agents", s.handleRegisterAgent)
		v1.GET("/agents", s.handleListAgents)
		v1.GET("/agents/:id", s.handleGetAgent)

		// Unit health snapshots
		v1.GET("/units", s.handleListUnits)

		// Plan execution
		v1.POST("/plans/execute", s.handleExecutePlan)
	}
}

// SetupWebSocket adds a WebSocket handler to the server.
func (s *Server) SetupWebSocket(handler interface {
	HandleOperationStream(*gin.Context)
}) {
	s.router.GET("/api/v1/operations/:id/ws", handler.HandleOperationStream)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
