package cache

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/go-redis/redis/v8"
	"productapi.app/internal/ports"
)

// MaxTimeout bounds every connect, read and write against the backend.
const MaxTimeout = 5 * time.Second

// Config describes how to reach the Redis backend
type Config struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	TLS          bool
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Backend is the live connection to the key-value store. A nil *Backend
// means caching is disabled for the lifetime of the process; every method
// is safe to call on nil.
type Backend struct {
	client *redis.Client
	addr   string
	logger ports.Logger
}

// Connect opens a client and probes it once. It returns nil, never an
// error, when caching is disabled by configuration or the backend cannot be
// reached; there is no retry or background reconnection.
func Connect(ctx context.Context, cfg Config, logger ports.Logger) *Backend {
	if logger == nil {
		logger = ports.NopLogger{}
	}

	if !cfg.Enabled {
		logger.Info("Redis caching disabled by configuration")
		return nil
	}

	client := redis.NewClient(clientOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, MaxTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis connection failed, caching disabled",
			ports.F("addr", cfg.Addr),
			ports.F("error", err.Error()))
		_ = client.Close()
		return nil
	}

	logger.Info("Redis connected", ports.F("addr", cfg.Addr), ports.F("db", cfg.DB), ports.F("tls", cfg.TLS))
	return &Backend{client: client, addr: cfg.Addr, logger: logger}
}

func clientOptions(cfg Config) *redis.Options {
	opts := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  boundTimeout(cfg.DialTimeout),
		ReadTimeout:  boundTimeout(cfg.ReadTimeout),
		WriteTimeout: boundTimeout(cfg.WriteTimeout),
		// one attempt per call keeps each operation inside its timeout
		MaxRetries: -1,
	}

	if cfg.TLS {
		serverName, _, err := net.SplitHostPort(cfg.Addr)
		if err != nil {
			serverName = cfg.Addr
		}
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: serverName,
		}
	}

	return opts
}

func boundTimeout(d time.Duration) time.Duration {
	if d <= 0 || d > MaxTimeout {
		return MaxTimeout
	}
	return d
}

// Probe re-issues PING. It returns false for a nil backend or any failure.
func (b *Backend) Probe(ctx context.Context) bool {
	if b == nil {
		return false
	}

	if err := b.client.Ping(ctx).Err(); err != nil {
		b.logger.Error("Redis ping failed", ports.F("addr", b.addr), ports.F("error", err.Error()))
		return false
	}
	return true
}

// Addr returns the backend address, or "" for a nil backend
func (b *Backend) Addr() string {
	if b == nil {
		return ""
	}
	return b.addr
}

// Close releases the client connection pool
func (b *Backend) Close() error {
	if b == nil {
		return nil
	}
	return b.client.Close()
}
