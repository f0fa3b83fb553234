package database

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"productapi.app/internal/core/catalog"
	"productapi.app/internal/ports"
)

const (
	DefaultSeedCount = 50000
	DefaultSeedBatch = 1000

	minSeedPrice = 9.99
	maxSeedPrice = 999.99
)

var productNames = map[string][]string{
	"electronics": {"Smartphone", "Laptop", "Tablet", "Headphones", "Monitor", "Keyboard", "Mouse", "Camera"},
	"clothing":    {"T-Shirt", "Jeans", "Dress", "Jacket", "Shoes", "Hat", "Sweater", "Shorts"},
	"books":       {"Novel", "Textbook", "Comic", "Magazine", "Guide", "Dictionary", "Biography", "Cookbook"},
	"food":        {"Snack", "Beverage", "Frozen Meal", "Cereal", "Pasta", "Sauce", "Spices", "Candy"},
	"toys":        {"Action Figure", "Board Game", "Puzzle", "Doll", "Ball", "Car", "Lego Set", "Plushie"},
	"furniture":   {"Chair", "Table", "Desk", "Bed", "Sofa", "Cabinet", "Shelf", "Lamp"},
	"sports":      {"Ball", "Racket", "Gloves", "Shoes", "Weights", "Yoga Mat", "Helmet", "Bike"},
	"beauty":      {"Shampoo", "Lotion", "Makeup", "Perfume", "Cream", "Soap", "Brush", "Nail Polish"},
	"automotive":  {"Oil", "Filter", "Tire", "Battery", "Cleaner", "Wax", "Tools", "Mat"},
	"garden":      {"Shovel", "Seeds", "Pot", "Fertilizer", "Hose", "Gloves", "Rake", "Trimmer"},
}

var productTiers = []string{"Pro", "Plus", "Max", "Elite", "Premium", "Ultra"}

// SeedResult summarizes a seeding run
type SeedResult struct {
	Inserted   int
	ByCategory map[string]int64
}

// Seeder fills the products table with generated catalog data
type Seeder struct {
	repository ports.ProductRepository
	logger     ports.Logger
	rand       *rand.Rand
	now        func() time.Time
}

// SeederOption customizes a Seeder
type SeederOption func(*Seeder)

// WithRand sets the random source, for reproducible output
func WithRand(r *rand.Rand) SeederOption {
	return func(s *Seeder) { s.rand = r }
}

// WithClock sets the reference time products are dated against
func WithClock(now func() time.Time) SeederOption {
	return func(s *Seeder) { s.now = now }
}

func NewSeeder(repository ports.ProductRepository, logger ports.Logger, opts ...SeederOption) *Seeder {
	s := &Seeder{
		repository: repository,
		logger:     logger,
		rand:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed inserts count products in batches of batchSize, then counts the
// catalog per category. Batches already committed stay in place if a later
// one fails.
func (s *Seeder) Seed(ctx context.Context, count, batchSize int) (SeedResult, error) {
	if count <= 0 {
		return SeedResult{}, fmt.Errorf("count must be positive, got %d", count)
	}
	if batchSize <= 0 {
		return SeedResult{}, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	start := s.now().AddDate(0, 0, -365)
	result := SeedResult{ByCategory: make(map[string]int64, len(catalog.Categories))}

	for result.Inserted < count {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		size := min(batchSize, count-result.Inserted)
		batch := make([]*ports.ProductData, size)
		for i := range batch {
			batch[i] = s.generate(start)
		}

		if err := s.repository.CreateBatch(ctx, batch); err != nil {
			return result, fmt.Errorf("insert batch at %d: %w", result.Inserted, err)
		}

		result.Inserted += size
		s.logger.Info("Inserted products", ports.F("inserted", result.Inserted), ports.F("total", count))
	}

	for _, category := range catalog.Categories {
		n, err := s.repository.Count(ctx, category)
		if err != nil {
			return result, fmt.Errorf("count category %s: %w", category, err)
		}
		result.ByCategory[category] = n
	}

	return result, nil
}

func (s *Seeder) generate(start time.Time) *ports.ProductData {
	category := catalog.Categories[s.rand.IntN(len(catalog.Categories))]
	names := productNames[category]
	base := names[s.rand.IntN(len(names))]
	tier := productTiers[s.rand.IntN(len(productTiers))]

	price := minSeedPrice + s.rand.Float64()*(maxSeedPrice-minSeedPrice)
	createdAt := start.
		AddDate(0, 0, s.rand.IntN(366)).
		Add(time.Duration(s.rand.IntN(24)) * time.Hour)

	return &ports.ProductData{
		Name:     fmt.Sprintf("%s %s %d", base, tier, 1+s.rand.IntN(999)),
		Category: category,
		Price:    math.Round(price*100) / 100,
		Description: fmt.Sprintf("High-quality %s perfect for %s enthusiasts. "+
			"Features advanced technology and premium materials.", strings.ToLower(base), category),
		CreatedAt: createdAt,
	}
}
