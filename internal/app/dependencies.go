package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
	"productapi.app/internal/adapters/database"
	"productapi.app/internal/adapters/infrastructure"
	"productapi.app/internal/cache"
	"productapi.app/internal/config"
	"productapi.app/internal/ports"
	"productapi.app/internal/telemetry"
)

type DependencyContainer struct {
	config   *config.Config
	options  dependencyOptions
	logger   ports.Logger
	tracing  *telemetry.Provider
	db       *gorm.DB
	backend  *cache.Backend
	cache    *cache.Cache
	registry *prometheus.Registry
	ports    *ports.ApplicationPorts
}

type dependencyOptions struct {
	db        *gorm.DB
	telemetry telemetry.Options
}

// DependencyOption customizes how the container builds its dependencies
type DependencyOption func(*dependencyOptions)

// WithDatabase uses db instead of opening a PostgreSQL connection
func WithDatabase(db *gorm.DB) DependencyOption {
	return func(o *dependencyOptions) { o.db = db }
}

// WithTelemetryOptions passes options through to telemetry.Setup
func WithTelemetryOptions(opts telemetry.Options) DependencyOption {
	return func(o *dependencyOptions) { o.telemetry = opts }
}

// NewDependencyContainer builds every port. The database and the cache are
// optional: when either is disabled or unreachable a warning is logged and
// the application runs without it.
func NewDependencyContainer(ctx context.Context, cfg *config.Config, opts ...DependencyOption) (*DependencyContainer, error) {
	container := &DependencyContainer{
		config: cfg,
		logger: infrastructure.NewSlogLoggerAdapter(slog.Default()),
	}
	for _, opt := range opts {
		opt(&container.options)
	}

	if err := container.initializeTracing(ctx); err != nil {
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}

	container.initializeDatabase(ctx)
	container.initializeCache(ctx)

	if err := container.initializeMetrics(); err != nil {
		return nil, fmt.Errorf("initialize metrics: %w", err)
	}

	container.initializePorts()
	return container, nil
}

func (c *DependencyContainer) initializeTracing(ctx context.Context) error {
	provider, err := telemetry.Setup(ctx, c.config.Tracing, c.config.Service, c.options.telemetry)
	if err != nil {
		return err
	}
	c.tracing = provider

	if provider.Enabled() {
		c.logger.Info("Tracing enabled",
			ports.F("exporter", string(c.config.Tracing.Exporter)),
			ports.F("sample_ratio", c.config.Tracing.SampleRatio))
	} else {
		c.logger.Info("Tracing disabled")
	}
	return nil
}

func (c *DependencyContainer) initializeDatabase(ctx context.Context) {
	db := c.options.db
	if db == nil {
		if !c.config.Database.Enabled {
			c.logger.Info("Database disabled by configuration")
			return
		}

		c.logger.Info("Initializing database connection...", ports.F("host", c.config.Database.Host))
		opened, err := database.Open(ctx, c.config.Database)
		if err != nil {
			c.logger.Warn("Database connection failed, product endpoints unavailable", ports.F("error", err.Error()))
			return
		}
		db = opened
	}

	if err := database.Migrate(db); err != nil {
		c.logger.Warn("Database migration failed, product endpoints unavailable", ports.F("error", err.Error()))
		_ = database.Close(db)
		return
	}

	c.db = db
	c.logger.Info("Database connection established successfully")
}

func (c *DependencyContainer) initializeCache(ctx context.Context) {
	cfg := c.config.Cache
	c.backend = cache.Connect(ctx, cache.Config{
		Enabled:      cfg.Enabled,
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		TLS:          cfg.TLS,
		DialTimeout:  seconds(cfg.DialTimeout),
		ReadTimeout:  seconds(cfg.ReadTimeout),
		WriteTimeout: seconds(cfg.WriteTimeout),
	}, c.logger)

	c.cache = cache.New(c.backend, cache.Options{
		Metrics:    cache.NewMetrics(),
		Logger:     c.logger,
		DefaultTTL: cfg.DefaultTTL(),
	})
}

func (c *DependencyContainer) initializeMetrics() error {
	c.registry = prometheus.NewRegistry()

	for _, collector := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.cache.Metrics(),
	} {
		if err := c.registry.Register(collector); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
	}
	return nil
}

func (c *DependencyContainer) initializePorts() {
	var productRepo ports.ProductRepository
	if c.db != nil {
		productRepo = database.NewProductRepositoryAdapter(c.db)
	}

	c.ports = &ports.ApplicationPorts{
		ProductRepository: productRepo,
		Cache:             c.cache,
		Logger:            c.logger,
		Database:          c.db,
	}
}

func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

func (c *DependencyContainer) Database() *gorm.DB {
	return c.db
}

func (c *DependencyContainer) Cache() *cache.Cache {
	return c.cache
}

func (c *DependencyContainer) Registry() *prometheus.Registry {
	return c.registry
}

func (c *DependencyContainer) Tracing() *telemetry.Provider {
	return c.tracing
}

// Close releases the Redis client, the database pool and the tracer provider
func (c *DependencyContainer) Close(ctx context.Context) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := c.backend.Close(); err != nil {
		c.logger.Warn("Error closing Redis client", ports.F("error", err.Error()))
		keep(err)
	}
	if err := database.Close(c.db); err != nil {
		c.logger.Warn("Error closing database", ports.F("error", err.Error()))
		keep(err)
	}
	if err := c.tracing.Shutdown(ctx); err != nil {
		c.logger.Warn("Error shutting down tracer provider", ports.F("error", err.Error()))
		keep(err)
	}
	return firstErr
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
