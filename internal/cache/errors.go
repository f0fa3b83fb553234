package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned by every explicit operation when no backend is connected
	ErrUnavailable = errors.New("cache: backend unavailable")
	// ErrMiss is returned by Lookup when the key is absent or expired
	ErrMiss = errors.New("cache: miss")
)

// Kind classifies a failed operation against a connected backend
type Kind int

const (
	KindUnknown Kind = iota
	// KindBackend is a network or protocol failure of a single call
	KindBackend
	// KindSerialization is a value that could not be encoded or decoded
	KindSerialization
)

func (k Kind) String() string {
	switch k {
	case KindBackend:
		return "backend"
	case KindSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

// OpError records a failed cache operation
type OpError struct {
	Op   string
	Key  string
	Kind Kind
	Err  error
}

func (e *OpError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cache %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("cache %s %q: %s: %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first OpError in err's chain
func KindOf(err error) Kind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindUnknown
}
