package database

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"productapi.app/internal/config"
	"productapi.app/internal/core/catalog"
	"productapi.app/internal/ports"
	"productapi.app/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// one connection keeps the in-memory database shared across queries
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })

	return db
}

func insertProducts(t *testing.T, repo *ProductRepositoryAdapter, categories ...string) []*ports.ProductData {
	t.Helper()

	products := make([]*ports.ProductData, len(categories))
	for i, category := range categories {
		products[i] = &ports.ProductData{
			Name:        "Item " + category,
			Category:    category,
			Price:       float64(10 + i),
			Description: "test product",
		}
	}
	require.NoError(t, repo.CreateBatch(context.Background(), products))
	return products
}

func TestProductRepository_CreateBatchAndFind(t *testing.T) {
	repo := NewProductRepositoryAdapter(setupTestDB(t))
	ctx := context.Background()

	products := insertProducts(t, repo, "books", "toys")
	require.NotZero(t, products[0].ID)
	require.NotZero(t, products[1].ID)
	assert.NotEqual(t, products[0].ID, products[1].ID)
	assert.False(t, products[0].CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, products[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "toys", found.Category)
	assert.Equal(t, 11.0, found.Price)
}

func TestProductRepository_FindByID_Errors(t *testing.T) {
	repo := NewProductRepositoryAdapter(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 0)
	assert.True(t, errors.IsValidationError(err))

	_, err = repo.FindByID(ctx, 999)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestProductRepository_List(t *testing.T) {
	repo := NewProductRepositoryAdapter(setupTestDB(t))
	ctx := context.Background()
	insertProducts(t, repo, "books", "toys", "books", "books", "garden")

	tests := []struct {
		name     string
		filter   ports.ProductFilter
		expected int
	}{
		{"All", ports.ProductFilter{Limit: 100}, 5},
		{"Category", ports.ProductFilter{Category: "books", Limit: 100}, 3},
		{"Limit", ports.ProductFilter{Limit: 2}, 2},
		{"Offset", ports.ProductFilter{Category: "books", Limit: 100, Offset: 2}, 1},
		{"PastEnd", ports.ProductFilter{Limit: 10, Offset: 50}, 0},
		{"UnknownCategory", ports.ProductFilter{Category: "weapons", Limit: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, products, tt.expected)
			for i := 1; i < len(products); i++ {
				assert.Less(t, products[i-1].ID, products[i].ID)
			}
		})
	}
}

func TestProductRepository_Count(t *testing.T) {
	repo := NewProductRepositoryAdapter(setupTestDB(t))
	ctx := context.Background()
	insertProducts(t, repo, "books", "toys", "books")

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	books, err := repo.Count(ctx, "books")
	require.NoError(t, err)
	assert.Equal(t, int64(2), books)

	garden, err := repo.Count(ctx, "garden")
	require.NoError(t, err)
	assert.Equal(t, int64(0), garden)
}

func TestProductRepository_ClosedDatabase(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepositoryAdapter(db)
	require.NoError(t, Close(db))

	_, err := repo.Count(context.Background(), "")
	assert.True(t, errors.IsDatabaseError(err))

	_, err = repo.List(context.Background(), ports.ProductFilter{Limit: 1})
	assert.True(t, errors.IsDatabaseError(err))
}

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	defer func() { _ = Close(db) }()

	require.NoError(t, ConfigurePool(db, config.DatabaseConfig{PoolSize: 4, MaxOverflow: 6, PoolRecycleSecond: 60}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestSeeder_Seed(t *testing.T) {
	repo := NewProductRepositoryAdapter(setupTestDB(t))
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	seeder := NewSeeder(repo, ports.NopLogger{},
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(func() time.Time { return now }))

	result, err := seeder.Seed(context.Background(), 250, 100)
	require.NoError(t, err)
	assert.Equal(t, 250, result.Inserted)

	var total int64
	for _, category := range catalog.Categories {
		total += result.ByCategory[category]
	}
	assert.Equal(t, int64(250), total)

	products, err := repo.List(context.Background(), ports.ProductFilter{Limit: 250})
	require.NoError(t, err)
	require.Len(t, products, 250)

	for _, p := range products {
		assert.True(t, catalog.IsValidCategory(p.Category), p.Category)
		assert.GreaterOrEqual(t, p.Price, minSeedPrice)
		assert.LessOrEqual(t, p.Price, maxSeedPrice)
		assert.Contains(t, productTiers, strings.Fields(p.Name)[len(strings.Fields(p.Name))-2])
		assert.Contains(t, p.Description, p.Category)
		assert.False(t, p.CreatedAt.Before(now.AddDate(0, 0, -365)))
		assert.True(t, p.CreatedAt.Before(now.Add(24*time.Hour)))
	}
}

func TestSeeder_InvalidArguments(t *testing.T) {
	seeder := NewSeeder(NewProductRepositoryAdapter(setupTestDB(t)), ports.NopLogger{})

	_, err := seeder.Seed(context.Background(), 0, 10)
	assert.Error(t, err)

	_, err = seeder.Seed(context.Background(), 10, 0)
	assert.Error(t, err)
}

func TestSeeder_CancelledContext(t *testing.T) {
	seeder := NewSeeder(NewProductRepositoryAdapter(setupTestDB(t)), ports.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := seeder.Seed(ctx, 10, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Inserted)
}
