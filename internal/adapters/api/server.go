// Package api provides HTTP adapters for the hexagonal architecture
// These adapters handle incoming HTTP requests and translate them to use cases
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"productapi.app/internal/cache"
	"productapi.app/internal/core/catalog"
	"productapi.app/internal/core/items"
	"productapi.app/internal/ports"
	"productapi.app/pkg/errors"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr           string
	ServiceName    string
	Version        string
	TracingEnabled bool
}

// HTTPServerAdapter implements HTTP server using Gin framework
type HTTPServerAdapter struct {
	router   *gin.Engine
	config   ServerConfig
	catalog  CatalogUseCase
	items    ItemGenerator
	cache    CacheService
	health   ports.SystemHealthChecker
	gatherer prometheus.Gatherer
	logger   ports.Logger
}

// Use case interfaces that the HTTP adapter depends on
type CatalogUseCase interface {
	GetProduct(ctx context.Context, id uint) (*catalog.Product, error)
	ListProducts(ctx context.Context, query catalog.ListQuery) ([]catalog.Product, error)
	CountProducts(ctx context.Context, category string) (int64, error)
}

type ItemGenerator interface {
	Generate(ctx context.Context, count int) ([]items.Item, error)
}

type CacheService interface {
	Stats(ctx context.Context) cache.Stats
	ClearAll(ctx context.Context) bool
	Delete(ctx context.Context, key string) bool
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config              ServerConfig
	CatalogUseCase      CatalogUseCase
	ItemGenerator       ItemGenerator
	Cache               CacheService
	SystemHealthChecker ports.SystemHealthChecker
	Gatherer            prometheus.Gatherer
	Logger              ports.Logger
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}

	if err := RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	server := &HTTPServerAdapter{
		router:   gin.New(),
		config:   opts.Config,
		catalog:  opts.CatalogUseCase,
		items:    opts.ItemGenerator,
		cache:    opts.Cache,
		health:   opts.SystemHealthChecker,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
	}

	server.setupMiddleware()
	server.setupRoutes()
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.CatalogUseCase == nil {
		return errors.NewValidationError("catalog use case is required")
	}
	if opts.ItemGenerator == nil {
		return errors.NewValidationError("item generator is required")
	}
	if opts.Cache == nil {
		return errors.NewValidationError("cache is required")
	}
	if opts.SystemHealthChecker == nil {
		return errors.NewValidationError("system health checker is required")
	}
	if opts.Gatherer == nil {
		return errors.NewValidationError("metrics gatherer is required")
	}
	if opts.Logger == nil {
		return errors.NewValidationError("logger is required")
	}
	return nil
}

// RegisterValidators adds the custom binding rules used by request structs
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("category", validateCategory)
}

func (s *HTTPServerAdapter) setupMiddleware() {
	if s.config.TracingEnabled {
		s.router.Use(otelgin.Middleware(s.config.ServiceName))
	}
	s.router.Use(
		requestIDMiddleware(),
		loggingMiddleware(s.logger),
		recoveryMiddleware(s.logger),
	)
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes() {
	s.router.GET("/", s.root)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/health/details", s.healthDetails)
	s.router.GET("/items", s.getItems)
	s.router.GET("/error", s.triggerError)

	products := s.router.Group("/products")
	{
		products.GET("", s.listProducts)
		products.GET("/count", s.countProducts)
		products.GET("/:id", s.getProduct)
	}

	cacheGroup := s.router.Group("/cache")
	{
		cacheGroup.GET("/stats", s.cacheStats)
		cacheGroup.DELETE("", s.clearCache)
		cacheGroup.DELETE("/keys/:key", s.deleteCacheKey)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
}

// HTTPServer wraps the router in a server with the listen address and timeouts
func (s *HTTPServerAdapter) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Start begins the HTTP server
func (s *HTTPServerAdapter) Start(ctx context.Context) error {
	slog.Info("Starting HTTP server", "addr", s.config.Addr)
	return s.HTTPServer().ListenAndServe()
}

// GetRouter returns the router for testing purposes
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}
