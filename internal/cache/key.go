package cache

import (
	"fmt"
	"maps"
	"reflect"
	"runtime"
	"slices"
	"strings"
)

// KeyDelimiter joins the parts of a cache key
const KeyDelimiter = ":"

// Args are the inputs that identify one memoized call: positional values
// in order, then named values in name order.
type Args struct {
	Positional []any
	Named      map[string]any
}

// PositionalArgs builds Args from positional values
func PositionalArgs(values ...any) Args {
	return Args{Positional: values}
}

// With returns a copy of a with the named value set
func (a Args) With(name string, value any) Args {
	named := make(map[string]any, len(a.Named)+1)
	maps.Copy(named, a.Named)
	named[name] = value
	return Args{Positional: a.Positional, Named: named}
}

// BuildKey renders prefix, each positional value and each named value as
// "name:value" (sorted by name), joined with ":". The result does not
// depend on the order named values were added.
func BuildKey(prefix string, a Args) string {
	parts := make([]string, 0, 1+len(a.Positional)+len(a.Named))
	parts = append(parts, prefix)
	for _, v := range a.Positional {
		parts = append(parts, fmt.Sprint(v))
	}
	for _, name := range slices.Sorted(maps.Keys(a.Named)) {
		parts = append(parts, name+KeyDelimiter+fmt.Sprint(a.Named[name]))
	}
	return strings.Join(parts, KeyDelimiter)
}

// funcName returns the package-qualified name of fn without its import path,
// e.g. "catalog.(*UseCase).listProducts-fm".
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "anonymous"
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "anonymous"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
