package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"productapi.app/internal/adapters/api"
	"productapi.app/internal/adapters/infrastructure"
	"productapi.app/internal/config"
	"productapi.app/internal/core/catalog"
	"productapi.app/internal/core/items"
	"productapi.app/pkg/logger"
)

type Application struct {
	config *config.Config
	deps   *DependencyContainer

	// Use Cases
	catalogUseCase *catalog.UseCase
	itemGenerator  *items.Generator

	// Adapters
	httpServer *http.Server
	router     *gin.Engine
}

// NewApplication loads configuration from the environment, installs the
// process logger and wires every component.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	ConfigureLogging(cfg.Logging)
	return NewApplicationWithConfig(ctx, cfg)
}

// ConfigureLogging installs a slog default logger built from cfg
func ConfigureLogging(cfg config.LoggingConfig) {
	level, _ := logger.ParseLevel(cfg.Level)
	slog.SetDefault(logger.NewWithOptions(os.Stdout, level, cfg.Format).Logger)
}

// NewApplicationWithConfig wires the application from an already loaded configuration
func NewApplicationWithConfig(ctx context.Context, cfg *config.Config, opts ...DependencyOption) (*Application, error) {
	if !cfg.Service.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, err := NewDependencyContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	app := &Application{
		config: cfg,
		deps:   deps,
	}

	if err := app.initializeUseCases(); err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	slog.Info("Initializing use cases...")
	p := a.deps.ApplicationPorts()

	catalogUseCase, err := catalog.NewUseCase(catalog.UseCaseDependencies{
		Repository: p.ProductRepository,
		Cache:      p.Cache,
		Logger:     p.Logger,
		ProductTTL: a.config.Cache.ProductTTL(),
		ListTTL:    a.config.Cache.ListTTL(),
	})
	if err != nil {
		return fmt.Errorf("create catalog use case: %w", err)
	}
	a.catalogUseCase = catalogUseCase
	a.itemGenerator = items.NewGenerator()

	slog.Info("Use cases initialized successfully", "catalog_available", catalogUseCase.Available())
	return nil
}

func (a *Application) initializeAdapters() error {
	slog.Info("Initializing adapters...")

	systemHealthChecker := infrastructure.NewSystemHealthChecker(infrastructure.SystemHealthCheckerConfig{
		DatabaseChecker: infrastructure.NewDatabaseHealthChecker(a.deps.Database()),
		CacheChecker:    infrastructure.NewCacheHealthChecker(a.deps.Cache()),
		Service: infrastructure.ServiceInfo{
			Name:        a.config.Service.Name,
			Version:     a.config.Service.Version,
			Environment: a.config.Service.Environment,
		},
	})

	httpAdapter, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config: api.ServerConfig{
			Addr:           a.config.Server.Addr(),
			ServiceName:    a.config.Service.Name,
			Version:        a.config.Service.Version,
			TracingEnabled: a.deps.Tracing().Enabled(),
		},
		CatalogUseCase:      a.catalogUseCase,
		ItemGenerator:       a.itemGenerator,
		Cache:               a.deps.Cache(),
		SystemHealthChecker: systemHealthChecker,
		Gatherer:            a.deps.Registry(),
		Logger:              a.deps.ApplicationPorts().Logger,
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}

	a.router = httpAdapter.GetRouter()
	a.httpServer = httpAdapter.HTTPServer()

	slog.Info("Adapters initialized successfully")
	return nil
}

// Start serves HTTP until Shutdown is called
func (a *Application) Start(ctx context.Context) error {
	slog.Info("Starting HTTP server",
		"addr", a.httpServer.Addr,
		"service", a.config.Service.Name,
		"environment", a.config.Service.Environment,
		"cache_enabled", a.deps.Cache().Enabled(),
		"catalog_available", a.catalogUseCase.Available())

	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and then
// releases the cache, database and tracing resources.
func (a *Application) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	if err := a.deps.Close(ctx); err != nil {
		return fmt.Errorf("release resources: %w", err)
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *Application) Config() *config.Config {
	return a.config
}

// GetRouter returns the Gin router for testing
func (a *Application) GetRouter() *gin.Engine {
	return a.router
}

// GetCatalogUseCase returns the catalog use case for testing
func (a *Application) GetCatalogUseCase() *catalog.UseCase {
	return a.catalogUseCase
}

// Dependencies returns the dependency container
func (a *Application) Dependencies() *DependencyContainer {
	return a.deps
}
