package validation

import (
	"strings"
	"unicode"
)

// MaxCacheKeyLength bounds keys accepted from clients
const MaxCacheKeyLength = 512

// IsNotEmpty checks if string is not empty after trimming
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// TrimAndValidate trims string and validates it's not empty
func TrimAndValidate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// CacheKey trims a client-supplied cache key and reports whether it is
// usable: non-empty, at most MaxCacheKeyLength bytes, no inner whitespace
// or control characters.
func CacheKey(s string) (string, bool) {
	key, ok := TrimAndValidate(s)
	if !ok || len(key) > MaxCacheKeyLength {
		return "", false
	}
	for _, r := range key {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", false
		}
	}
	return key, true
}
