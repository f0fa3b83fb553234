package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"productapi.app/internal/adapters/infrastructure"
	"productapi.app/internal/cache"
	"productapi.app/internal/core/catalog"
	"productapi.app/internal/core/items"
	"productapi.app/internal/ports"
	"productapi.app/pkg/errors"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) FindByID(ctx context.Context, id uint) (*ports.ProductData, error) {
	args := m.Called(ctx, id)
	data, _ := args.Get(0).(*ports.ProductData)
	return data, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, filter ports.ProductFilter) ([]*ports.ProductData, error) {
	args := m.Called(ctx, filter)
	data, _ := args.Get(0).([]*ports.ProductData)
	return data, args.Error(1)
}

func (m *mockRepository) Count(ctx context.Context, category string) (int64, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) CreateBatch(ctx context.Context, products []*ports.ProductData) error {
	return m.Called(ctx, products).Error(0)
}

type testServer struct {
	router *gin.Engine
	redis  *miniredis.Miniredis
	cache  *cache.Cache
}

func setupTestServer(t *testing.T, repo ports.ProductRepository) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	backend := cache.Connect(context.Background(), cache.Config{Enabled: true, Addr: mr.Addr()}, nil)
	require.NotNil(t, backend)
	t.Cleanup(func() { _ = backend.Close() })

	metrics := cache.NewMetrics()
	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(metrics))

	c := cache.New(backend, cache.Options{Metrics: metrics})

	uc, err := catalog.NewUseCase(catalog.UseCaseDependencies{
		Repository: repo,
		Cache:      c,
		Logger:     ports.NopLogger{},
		ProductTTL: 5 * time.Minute,
		ListTTL:    time.Minute,
	})
	require.NoError(t, err)

	health := infrastructure.NewSystemHealthChecker(infrastructure.SystemHealthCheckerConfig{
		DatabaseChecker: infrastructure.NewDatabaseHealthChecker(nil),
		CacheChecker:    infrastructure.NewCacheHealthChecker(c),
		Service:         infrastructure.ServiceInfo{Name: "masterproject-api", Version: "1.0.0"},
	})

	server, err := NewHTTPServerAdapter(ServerOptions{
		Config:         ServerConfig{Addr: ":0", ServiceName: "masterproject-api", Version: "1.0.0"},
		CatalogUseCase: uc,
		ItemGenerator: items.NewGenerator(items.WithSleep(func(context.Context, time.Duration) error {
			return nil
		})),
		Cache:               c,
		SystemHealthChecker: health,
		Gatherer:            registry,
		Logger:              ports.NopLogger{},
	})
	require.NoError(t, err)

	return &testServer{router: server.GetRouter(), redis: mr, cache: c}
}

func (s *testServer) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sampleProduct(id uint, category string) *ports.ProductData {
	return &ports.ProductData{
		ID:          id,
		Name:        "Novel Pro 17",
		Category:    category,
		Price:       24.99,
		Description: "High-quality novel",
		CreatedAt:   time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestNewHTTPServerAdapter_Validation(t *testing.T) {
	_, err := NewHTTPServerAdapter(ServerOptions{})
	assert.True(t, errors.IsValidationError(err))
}

func TestServer_Root(t *testing.T) {
	s := setupTestServer(t, new(mockRepository))

	w := s.do(t, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "masterproject-api", body["service"])
	endpoints := body["endpoints"].(map[string]interface{})
	assert.Equal(t, "/health", endpoints["health"])
	assert.Equal(t, "/items?count=10", endpoints["items"])
}

func TestServer_Health(t *testing.T) {
	s := setupTestServer(t, new(mockRepository))

	w := s.do(t, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "masterproject-api", body.Service)
	assert.Equal(t, "1.0.0", body.Version)
	assert.WithinDuration(t, time.Now(), body.Timestamp, time.Minute)
}

func TestServer_HealthDetails(t *testing.T) {
	s := setupTestServer(t, new(mockRepository))

	w := s.do(t, http.MethodGet, "/health/details")
	require.Equal(t, http.StatusOK, w.Code)

	var body HealthDetailsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, ports.StatusDisabled, body.Components["database"].Status)
	assert.Equal(t, ports.StatusHealthy, body.Components["cache"].Status)

	s.redis.SetError("ERR down")
	w = s.do(t, http.MethodGet, "/health/details")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_Items(t *testing.T) {
	s := setupTestServer(t, new(mockRepository))

	w := s.do(t, http.MethodGet, "/items?count=3")
	require.Equal(t, http.StatusOK, w.Code)

	var body ItemsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Items, 3)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, w.Header().Get("X-Request-ID"), body.RequestID)
	assert.Equal(t, "Item 1", body.Items[0].Name)

	w = s.do(t, http.MethodGet, "/items")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, items.DefaultCount, body.Count)
}

func TestServer_Items_InvalidCount(t *testing.T) {
	s := setupTestServer(t, new(mockRepository))

	for _, query := range []string{"0", "101", "-5", "abc"} {
		t.Run(query, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/items?count="+query)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestServer_Error(t *testing.T) {
	s := setupTestServer(t, new(mockRepository))

	w := s.do(t, http.MethodGet, "/error")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Intentional error for testing purposes", body["error"])
	assert.Equal(t, "This endpoint intentionally returns a 500 error", body["message"])
	assert.Equal(t, w.Header().Get("X-Request-ID"), body["request_id"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestServer_PanicRecovery(t *testing.T) {
	s := setupTestServer(t, new(mockRepository))
	s.router.GET("/panic", func(*gin.Context) { panic("boom") })

	w := s.do(t, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, w.Header().Get("X-Request-ID"), body["request_id"])
}

func TestServer_ListProducts(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", mock.Anything, ports.ProductFilter{Category: "books", Limit: 2, Offset: 0}).
		Return([]*ports.ProductData{sampleProduct(1, "books"), sampleProduct(2, "books")}, nil).Once()

	s := setupTestServer(t, repo)

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodGet, "/products?category=Books&limit=2")
		require.Equal(t, http.StatusOK, w.Code)

		var body ProductListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Count)
		require.NotNil(t, body.Category)
		assert.Equal(t, "books", *body.Category)
	}

	repo.AssertExpectations(t)
	snap := s.cache.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
}

func TestServer_ListProducts_InvalidQuery(t *testing.T) {
	repo := new(mockRepository)
	s := setupTestServer(t, repo)

	for _, path := range []string{
		"/products?category=weapons",
		"/products?limit=0",
		"/products?limit=5000",
		"/products?offset=-1",
	} {
		t.Run(path, func(t *testing.T) {
			w := s.do(t, http.MethodGet, path)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestServer_CountProducts(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Count", mock.Anything, "garden").Return(int64(0), nil).Once()
	repo.On("Count", mock.Anything, "").Return(int64(50000), nil).Once()

	s := setupTestServer(t, repo)

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodGet, "/products/count?category=garden")
		require.Equal(t, http.StatusOK, w.Code)

		var body ProductCountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(0), body.Count)
	}

	w := s.do(t, http.MethodGet, "/products/count")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(50000), body["count"])
	assert.Nil(t, body["category"])

	repo.AssertExpectations(t)
}

func TestServer_GetProduct(t *testing.T) {
	repo := new(mockRepository)
	repo.On("FindByID", mock.Anything, uint(42)).Return(sampleProduct(42, "books"), nil).Once()
	repo.On("FindByID", mock.Anything, uint(7)).Return(nil, errors.NewNotFoundError("product not found"))

	s := setupTestServer(t, repo)

	w := s.do(t, http.MethodGet, "/products/42")
	require.Equal(t, http.StatusOK, w.Code)
	var product catalog.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, uint(42), product.ID)
	assert.True(t, s.redis.Exists("product:42"))

	w = s.do(t, http.MethodGet, "/products/42")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/products/7")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, s.redis.Exists("product:7"))

	for _, id := range []string{"abc", "0", "-3"} {
		w = s.do(t, http.MethodGet, "/products/"+id)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}

	repo.AssertExpectations(t)
}

func TestServer_CatalogUnavailable(t *testing.T) {
	s := setupTestServer(t, nil)

	for _, path := range []string{"/products", "/products/count", "/products/1"} {
		w := s.do(t, http.MethodGet, path)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}

	w := s.do(t, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_CacheEndpoints(t *testing.T) {
	s := setupTestServer(t, new(mockRepository))
	ctx := context.Background()

	require.True(t, s.cache.Write(ctx, "product:42", map[string]int{"id": 42}, time.Minute))
	require.True(t, s.cache.Write(ctx, "product:43", map[string]int{"id": 43}, time.Minute))
	var out map[string]int
	s.cache.Read(ctx, "product:42", &out)
	s.cache.Read(ctx, "product:99", &out)

	w := s.do(t, http.MethodGet, "/cache/stats")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.Equal(t, float64(1), stats["hits"])
	assert.Equal(t, float64(1), stats["misses"])
	assert.Equal(t, float64(50), stats["hit_rate"])
	assert.Equal(t, true, stats["enabled"])

	w = s.do(t, http.MethodDelete, "/cache/keys/product:42")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["deleted"])
	assert.False(t, s.redis.Exists("product:42"))

	w = s.do(t, http.MethodDelete, "/cache/keys/%20")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/cache")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["cleared"])
	assert.Empty(t, s.redis.Keys())
}

func TestServer_Metrics(t *testing.T) {
	s := setupTestServer(t, new(mockRepository))
	var out string
	s.cache.Read(context.Background(), "missing", &out)

	w := s.do(t, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "cache_misses_total 1"), body)
	assert.Contains(t, body, "cache_hits_total 0")
}
