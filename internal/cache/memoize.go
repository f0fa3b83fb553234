package cache

import (
	"context"
	"reflect"
	"time"
)

// Producer computes a value of type T from input A
type Producer[A, T any] func(ctx context.Context, in A) (T, error)

// ReadWriter is the subset of Cache that Memoize needs
type ReadWriter interface {
	Read(ctx context.Context, key string, dest any) bool
	Write(ctx context.Context, key string, value any, ttl time.Duration) bool
}

// MemoizeOptions configures Memoize
type MemoizeOptions struct {
	// TTL of stored results; zero means DefaultTTL
	TTL time.Duration
	// KeyPrefix starts every key; empty means the producer's function name
	KeyPrefix string
}

// Memoize wraps fn so each call first reads the key derived from args(in)
// and returns a cached value when one is present, including zero values
// such as 0, "" or false. On a miss fn runs and its result is stored,
// unless fn failed or returned a nil pointer, slice, map or interface;
// those are recomputed on every call.
//
// Concurrent misses on the same key each run fn; the last write wins.
func Memoize[A, T any](rw ReadWriter, opts MemoizeOptions, args func(A) Args, fn Producer[A, T]) Producer[A, T] {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = funcName(fn)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return func(ctx context.Context, in A) (T, error) {
		var a Args
		if args != nil {
			a = args(in)
		}
		key := BuildKey(prefix, a)

		var cached T
		if rw.Read(ctx, key, &cached) {
			return cached, nil
		}

		result, err := fn(ctx, in)
		if err != nil {
			return result, err
		}

		if !isNil(result) {
			rw.Write(ctx, key, result, ttl)
		}
		return result, nil
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
