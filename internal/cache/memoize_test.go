package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listQuery struct {
	Category string
	Limit    int
}

func listArgs(q listQuery) Args {
	return PositionalArgs(q.Category).With("limit", q.Limit)
}

func sampleProducer(_ context.Context, n int) (int, error) {
	return n * 2, nil
}

func TestBuildKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		args   Args
		want   string
	}{
		{"PrefixOnly", "products_count", Args{}, "products_count"},
		{"Positional", "product", PositionalArgs(42), "product:42"},
		{"Named", "products", Args{}.With("limit", 10).With("category", "books"), "products:category:books:limit:10"},
		{"Mixed", "f", PositionalArgs("a", 1).With("z", true), "f:a:1:z:true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildKey(tt.prefix, tt.args))
		})
	}
}

func TestBuildKey_NamedOrderDoesNotMatter(t *testing.T) {
	a := Args{}.With("limit", 10).With("offset", 0).With("category", "")
	b := Args{}.With("category", "").With("offset", 0).With("limit", 10)
	assert.Equal(t, BuildKey("products", a), BuildKey("products", b))
}

func TestArgsWith_DoesNotMutate(t *testing.T) {
	base := Args{}.With("a", 1)
	_ = base.With("b", 2)
	assert.Len(t, base.Named, 1)
}

func TestFuncName(t *testing.T) {
	assert.Equal(t, "cache.sampleProducer", funcName(sampleProducer))
	assert.Equal(t, "anonymous", funcName(nil))
	assert.Equal(t, "anonymous", funcName(42))
}

func TestMemoize_CachesResult(t *testing.T) {
	mr, c := setupCache(t)
	ctx := context.Background()

	calls := 0
	fn := Memoize(c, MemoizeOptions{KeyPrefix: "products", TTL: time.Minute}, listArgs,
		func(_ context.Context, q listQuery) ([]string, error) {
			calls++
			return []string{q.Category + "-1", q.Category + "-2"}, nil
		})

	first, err := fn(ctx, listQuery{Category: "books", Limit: 10})
	require.NoError(t, err)
	second, err := fn(ctx, listQuery{Category: "books", Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("products:books:limit:10"))
	assert.Equal(t, time.Minute, mr.TTL("products:books:limit:10"))

	_, err = fn(ctx, listQuery{Category: "books", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMemoize_ZeroValueIsCached(t *testing.T) {
	_, c := setupCache(t)
	ctx := context.Background()

	calls := 0
	count := Memoize(c, MemoizeOptions{KeyPrefix: "products_count"}, nil,
		func(context.Context, string) (int64, error) {
			calls++
			return 0, nil
		})

	for i := 0; i < 3; i++ {
		n, err := count(ctx, "empty-category")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	}
	assert.Equal(t, 1, calls)
}

func TestMemoize_NilResultIsNotCached(t *testing.T) {
	mr, c := setupCache(t)
	ctx := context.Background()

	calls := 0
	find := Memoize(c, MemoizeOptions{KeyPrefix: "lookup"}, func(id int) Args { return PositionalArgs(id) },
		func(context.Context, int) (*product, error) {
			calls++
			return nil, nil
		})

	for i := 0; i < 3; i++ {
		p, err := find(ctx, 5)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	assert.Equal(t, 3, calls)
	assert.False(t, mr.Exists("lookup:5"))
}

func TestMemoize_ErrorIsNotCached(t *testing.T) {
	mr, c := setupCache(t)
	ctx := context.Background()

	boom := errors.New("boom")
	calls := 0
	fn := Memoize(c, MemoizeOptions{KeyPrefix: "flaky"}, nil,
		func(context.Context, struct{}) (string, error) {
			calls++
			if calls == 1 {
				return "", boom
			}
			return "ok", nil
		})

	_, err := fn(ctx, struct{}{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("flaky"))

	v, err := fn(ctx, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	v, err = fn(ctx, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestMemoize_DefaultPrefixAndTTL(t *testing.T) {
	mr, c := setupCache(t)
	ctx := context.Background()

	fn := Memoize(c, MemoizeOptions{}, func(n int) Args { return PositionalArgs(n) }, sampleProducer)

	v, err := fn(ctx, 21)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, mr.Exists("cache.sampleProducer:21"))
	assert.Equal(t, DefaultTTL, mr.TTL("cache.sampleProducer:21"))
}

func TestMemoize_WithoutBackend(t *testing.T) {
	c := New(nil, Options{})

	calls := 0
	fn := Memoize(c, MemoizeOptions{KeyPrefix: "p"}, nil,
		func(context.Context, int) (int, error) {
			calls++
			return 1, nil
		})

	for i := 0; i < 3; i++ {
		v, err := fn(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, Snapshot{}, c.Metrics().Snapshot())
}

func TestMemoize_BackendFailureFallsThrough(t *testing.T) {
	mr, c := setupCache(t)
	mr.SetError("ERR down")

	calls := 0
	fn := Memoize(c, MemoizeOptions{KeyPrefix: "p"}, nil,
		func(context.Context, int) (int, error) {
			calls++
			return 7, nil
		})

	v, err := fn(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(2), c.Metrics().Snapshot().Errors)
}

func TestIsNil(t *testing.T) {
	var p *product
	var s []int
	var m map[string]int
	var i any

	assert.True(t, isNil(p))
	assert.True(t, isNil(s))
	assert.True(t, isNil(m))
	assert.True(t, isNil(i))
	assert.False(t, isNil(0))
	assert.False(t, isNil(""))
	assert.False(t, isNil([]int{}))
	assert.False(t, isNil(&product{}))
}
