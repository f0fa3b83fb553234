// Package cache implements a cache-aside layer over Redis: JSON-encoded
// reads and writes with expiry, hit/miss/error accounting, memoization of
// producer functions and backend introspection.
//
// Each primitive comes in two forms. Lookup, Store, Remove and Flush
// return the failure kind (ErrUnavailable, ErrMiss or *OpError). Read,
// Write, Delete and ClearAll collapse every failure into a boolean and
// never return an error; they are what request handlers use.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"productapi.app/internal/ports"
)

// DefaultTTL applies when a write or memoized producer does not set one
const DefaultTTL = 300 * time.Second

var tracer = otel.Tracer("productapi.app/internal/cache")

// Options configures a Cache
type Options struct {
	Metrics    *Metrics
	Logger     ports.Logger
	DefaultTTL time.Duration
}

// Cache runs the cache-aside operations against an optional backend
type Cache struct {
	backend    *Backend
	metrics    *Metrics
	logger     ports.Logger
	defaultTTL time.Duration
}

var _ ports.Cache = (*Cache)(nil)

// New creates a cache. backend may be nil, in which case every operation
// is an inert no-op and no metrics are recorded.
func New(backend *Backend, opts Options) *Cache {
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = ports.NopLogger{}
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultTTL
	}

	return &Cache{
		backend:    backend,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		defaultTTL: opts.DefaultTTL,
	}
}

// Enabled reports whether a backend is connected
func (c *Cache) Enabled() bool {
	return c.backend != nil
}

func (c *Cache) Metrics() *Metrics {
	return c.metrics
}

// Lookup decodes the value stored under key into dest (a pointer; nil
// discards the value). It records a hit, miss or error, except when no
// backend is connected.
func (c *Cache) Lookup(ctx context.Context, key string, dest any) error {
	if c.backend == nil {
		return ErrUnavailable
	}

	ctx, span := startSpan(ctx, "cache.get", key)
	defer span.End()

	start := time.Now()
	raw, err := c.backend.client.Get(ctx, key).Result()
	c.metrics.ObserveLatency("get", time.Since(start))

	if errors.Is(err, redis.Nil) || (err == nil && raw == "") {
		c.metrics.RecordMiss()
		span.SetAttributes(attribute.Bool("cache.hit", false))
		c.logger.Debug("Cache MISS", ports.F("key", key))
		return ErrMiss
	}
	if err != nil {
		return c.fail(span, &OpError{Op: "get", Key: key, Kind: KindBackend, Err: err})
	}

	if dest == nil {
		var discard any
		dest = &discard
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return c.fail(span, &OpError{Op: "get", Key: key, Kind: KindSerialization, Err: err})
	}

	c.metrics.RecordHit()
	span.SetAttributes(attribute.Bool("cache.hit", true))
	c.logger.Debug("Cache HIT", ports.F("key", key))
	return nil
}

// Read is Lookup with every failure collapsed to "not found"
func (c *Cache) Read(ctx context.Context, key string, dest any) bool {
	return c.Lookup(ctx, key, dest) == nil
}

// Store encodes value as JSON and writes it under key with the given
// expiry, replacing any existing entry and its TTL. A ttl <= 0 uses the
// cache default.
func (c *Cache) Store(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.backend == nil {
		return ErrUnavailable
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	ctx, span := startSpan(ctx, "cache.set", key)
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		return c.fail(span, &OpError{Op: "set", Key: key, Kind: KindSerialization, Err: err})
	}

	start := time.Now()
	err = c.backend.client.SetEX(ctx, key, data, ttl).Err()
	c.metrics.ObserveLatency("set", time.Since(start))
	if err != nil {
		return c.fail(span, &OpError{Op: "set", Key: key, Kind: KindBackend, Err: err})
	}

	c.logger.Debug("Cache SET", ports.F("key", key), ports.F("ttl_seconds", int64(ttl/time.Second)))
	return nil
}

// Write is Store reporting success as a boolean
func (c *Cache) Write(ctx context.Context, key string, value any, ttl time.Duration) bool {
	return c.Store(ctx, key, value, ttl) == nil
}

// Remove deletes key. Removing a missing key is not an error.
func (c *Cache) Remove(ctx context.Context, key string) error {
	if c.backend == nil {
		return ErrUnavailable
	}

	ctx, span := startSpan(ctx, "cache.delete", key)
	defer span.End()

	start := time.Now()
	err := c.backend.client.Del(ctx, key).Err()
	c.metrics.ObserveLatency("delete", time.Since(start))
	if err != nil {
		return c.fail(span, &OpError{Op: "delete", Key: key, Kind: KindBackend, Err: err})
	}

	c.logger.Debug("Cache DELETE", ports.F("key", key))
	return nil
}

// Delete is Remove reporting success as a boolean
func (c *Cache) Delete(ctx context.Context, key string) bool {
	return c.Remove(ctx, key) == nil
}

// Flush empties the backend's whole logical database, including keys this
// layer did not write.
func (c *Cache) Flush(ctx context.Context) error {
	if c.backend == nil {
		return ErrUnavailable
	}

	ctx, span := startSpan(ctx, "cache.flush", "")
	defer span.End()

	start := time.Now()
	err := c.backend.client.FlushDB(ctx).Err()
	c.metrics.ObserveLatency("flush", time.Since(start))
	if err != nil {
		return c.fail(span, &OpError{Op: "flush", Kind: KindBackend, Err: err})
	}

	c.logger.Info("Cache cleared")
	return nil
}

// ClearAll is Flush reporting success as a boolean
func (c *Cache) ClearAll(ctx context.Context) bool {
	return c.Flush(ctx) == nil
}

func (c *Cache) fail(span trace.Span, err *OpError) error {
	c.metrics.RecordError()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Kind.String())
	c.logger.Error("Cache operation failed",
		ports.F("operation", err.Op),
		ports.F("key", err.Key),
		ports.F("kind", err.Kind.String()),
		ports.F("error", err.Err.Error()))
	return err
}

func startSpan(ctx context.Context, name, key string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("db.system", "redis")}
	if key != "" {
		attrs = append(attrs, attribute.String("cache.key", key))
	}
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}
