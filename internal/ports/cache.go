package ports

import (
	"context"
	"time"
)

// Cache is the caller-facing cache-aside contract. Every method is total:
// backend failures collapse into the boolean result and are never returned.
type Cache interface {
	// Read decodes the cached value for key into dest and reports whether it was found.
	Read(ctx context.Context, key string, dest any) bool
	// Write stores value under key for ttl and reports success.
	Write(ctx context.Context, key string, value any, ttl time.Duration) bool
	// Delete removes key; deleting a missing key succeeds.
	Delete(ctx context.Context, key string) bool
}
