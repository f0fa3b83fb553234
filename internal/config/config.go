package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"productapi.app/pkg/errors"
	"productapi.app/pkg/logger"
)

const (
	maxRedisDB          = 15
	maxRedisTimeoutSecs = 5
	maxPortNumber       = 65535
	maxCacheTTLSeconds  = 86400
)

// Config represents the application configuration structure
type Config struct {
	Service  ServiceConfig  `split_words:"true"`
	Server   ServerConfig   `split_words:"true"`
	Logging  LoggingConfig  `split_words:"true"`
	Tracing  TracingConfig  `split_words:"true"`
	Database DatabaseConfig `split_words:"true"`
	Cache    CacheConfig    `split_words:"true"`
}

type ServiceConfig struct {
	Name        string `envconfig:"SERVICE_NAME" default:"masterproject-api"`
	Environment string `envconfig:"ENVIRONMENT" default:"dev"`
	Version     string `envconfig:"SERVICE_VERSION" default:"1.0.0"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"8080"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggingConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"INFO"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// TracingExporter selects where spans are sent
type TracingExporter string

const (
	TracingExporterStdout TracingExporter = "stdout"
	TracingExporterOTLP   TracingExporter = "otlp"
	TracingExporterNone   TracingExporter = "none"
)

type TracingConfig struct {
	Enabled     bool            `envconfig:"TRACING_ENABLED" default:"true"`
	Exporter    TracingExporter `envconfig:"TRACING_EXPORTER" default:"stdout"`
	Endpoint    string          `envconfig:"OTLP_ENDPOINT" default:"127.0.0.1:4317"`
	SampleRatio float64         `envconfig:"TRACING_SAMPLE_RATIO" default:"1.0"`
}

// Active reports whether spans should be exported at all
func (t TracingConfig) Active() bool {
	return t.Enabled && t.Exporter != TracingExporterNone
}

type DatabaseConfig struct {
	Enabled           bool   `envconfig:"DB_ENABLED" default:"true"`
	Host              string `envconfig:"DB_HOST" default:"localhost"`
	Port              int    `envconfig:"DB_PORT" default:"5432"`
	Name              string `envconfig:"DB_NAME" default:"masterprojectdb"`
	User              string `envconfig:"DB_USER" default:"dbadmin"`
	Password          string `envconfig:"DB_PASSWORD" default:""`
	SSLMode           string `envconfig:"DB_SSL_MODE" default:"disable"`
	PoolSize          int    `envconfig:"DB_POOL_SIZE" default:"10"`
	MaxOverflow       int    `envconfig:"DB_MAX_OVERFLOW" default:"20"`
	PoolRecycleSecond int    `envconfig:"DB_POOL_RECYCLE_SECONDS" default:"3600"`
}

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ConnMaxLifetime returns how long a pooled connection may be reused
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.PoolRecycleSecond) * time.Second
}

type CacheConfig struct {
	Enabled           bool   `envconfig:"REDIS_ENABLED" default:"true"`
	Host              string `envconfig:"REDIS_HOST" default:"localhost"`
	Port              int    `envconfig:"REDIS_PORT" default:"6379"`
	DB                int    `envconfig:"REDIS_DB" default:"0"`
	TLS               bool   `envconfig:"REDIS_SSL" default:"false"`
	Password          string `envconfig:"REDIS_PASSWORD" default:""`
	DialTimeout       int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout       int    `envconfig:"REDIS_READ_TIMEOUT" default:"5"`
	WriteTimeout      int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"5"`
	DefaultTTLSeconds int    `envconfig:"CACHE_DEFAULT_TTL_SECONDS" default:"300"`
	ProductTTLSeconds int    `envconfig:"CACHE_PRODUCT_TTL_SECONDS" default:"300"`
	ListTTLSeconds    int    `envconfig:"CACHE_LIST_TTL_SECONDS" default:"60"`
}

// Addr returns host:port of the Redis server
func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c CacheConfig) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLSeconds) * time.Second
}

func (c CacheConfig) ProductTTL() time.Duration {
	return time.Duration(c.ProductTTLSeconds) * time.Second
}

func (c CacheConfig) ListTTL() time.Duration {
	return time.Duration(c.ListTTLSeconds) * time.Second
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Service.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Tracing.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *ServiceConfig) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.NewConfigurationError("SERVICE_NAME cannot be empty", nil)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("PORT must be between 1 and 65535", nil)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	if _, ok := logger.ParseLevel(l.Level); !ok {
		return errors.NewConfigurationError("LOG_LEVEL must be one of: DEBUG, INFO, WARN, ERROR", nil)
	}
	format := strings.ToLower(l.Format)
	if format != logger.FormatJSON && format != logger.FormatText {
		return errors.NewConfigurationError("LOG_FORMAT must be one of: json, text", nil)
	}
	return nil
}

func (t *TracingConfig) Validate() error {
	switch t.Exporter {
	case TracingExporterStdout, TracingExporterNone:
	case TracingExporterOTLP:
		if t.Enabled && t.Endpoint == "" {
			return errors.NewConfigurationError("OTLP_ENDPOINT cannot be empty when TRACING_EXPORTER is otlp", nil)
		}
	default:
		return errors.NewConfigurationError("TRACING_EXPORTER must be one of: stdout, otlp, none", nil)
	}
	if t.SampleRatio < 0 || t.SampleRatio > 1 {
		return errors.NewConfigurationError("TRACING_SAMPLE_RATIO must be between 0 and 1", nil)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	if !d.Enabled {
		return nil
	}
	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > maxPortNumber {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	if d.PoolSize < 1 {
		return errors.NewConfigurationError("DB_POOL_SIZE must be at least 1", nil)
	}
	if d.MaxOverflow < 0 {
		return errors.NewConfigurationError("DB_MAX_OVERFLOW cannot be negative", nil)
	}
	if err := d.ValidateSSLMode(); err != nil {
		return err
	}
	return nil
}

func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

func (c *CacheConfig) Validate() error {
	if c.DefaultTTLSeconds < 1 || c.DefaultTTLSeconds > maxCacheTTLSeconds {
		return errors.NewConfigurationError("CACHE_DEFAULT_TTL_SECONDS must be between 1 and 86400", nil)
	}
	if c.ProductTTLSeconds < 1 || c.ProductTTLSeconds > maxCacheTTLSeconds {
		return errors.NewConfigurationError("CACHE_PRODUCT_TTL_SECONDS must be between 1 and 86400", nil)
	}
	if c.ListTTLSeconds < 1 || c.ListTTLSeconds > maxCacheTTLSeconds {
		return errors.NewConfigurationError("CACHE_LIST_TTL_SECONDS must be between 1 and 86400", nil)
	}
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return errors.NewConfigurationError("REDIS_HOST cannot be empty when REDIS_ENABLED is true", nil)
	}
	if c.Port < 1 || c.Port > maxPortNumber {
		return errors.NewConfigurationError("REDIS_PORT must be between 1 and 65535", nil)
	}
	if c.DB < 0 || c.DB > maxRedisDB {
		return errors.NewConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	for name, v := range map[string]int{
		"REDIS_DIAL_TIMEOUT":  c.DialTimeout,
		"REDIS_READ_TIMEOUT":  c.ReadTimeout,
		"REDIS_WRITE_TIMEOUT": c.WriteTimeout,
	} {
		if v < 1 || v > maxRedisTimeoutSecs {
			return errors.NewConfigurationError(name+" must be between 1 and 5 seconds", nil)
		}
	}
	return nil
}
