// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/interfaces/http/routes"
)

const (
	maxRequestBody   = 1 << 20
	readinessTimeout = 3 * time.Second
)

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

// Services are the domain services exposed over HTTP
type Services struct {
	Catalog *catalog.Service
	Product *product.Service
	Cart    *cart.Service
}

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      *logrus.Logger
	gin         *gin.Engine
	httpServer  *http.Server
	services    Services
	rateCounter middleware.Counter
	checks      map[string]HealthCheck
	startedAt   time.Time
}

// NewServer creates a new HTTP server instance. rateCounter may be nil, in
// which case rate limiting stays in process.
func NewServer(cfg *config.Config, logger *logrus.Logger, services Services, rateCounter middleware.Counter, checks map[string]HealthCheck) *Server {
	s := &Server{
		config:      cfg,
		logger:      logger,
		services:    services,
		rateCounter: rateCounter,
		checks:      checks,
		startedAt:   time.Now(),
	}

	// Set Gin mode based on environment
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.App.Environment == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	s.gin = gin.New()
	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logger.WithError(err).Warn("Ignoring invalid trusted proxies")
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"base_url": fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
		"driver":   s.config.Store.Driver,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders(s.config.App.Name))
	s.gin.Use(middleware.RateLimit(s.config.Security, s.rateCounter, s.logger))
	s.gin.Use(middleware.RequestSizeLimit(maxRequestBody))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, routes.Handlers{
		Catalog: handlers.NewCatalogHandler(s.services.Catalog, s.logger),
		Product: handlers.NewProductHandler(s.services.Product, s.logger),
		Cart:    handlers.NewCartHandler(s.services.Cart, s.config.Cart, s.logger),
	})
}

// healthCheck reports liveness
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
		"uptime":      time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// readinessCheck pings every dependency
func (s *Server) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.WithError(err).WithField("dependency", name).Warn("Readiness check failed")
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	c.JSON(status, gin.H{
		"status":       state,
		"timestamp":    time.Now().UTC(),
		"dependencies": results,
	})
}
