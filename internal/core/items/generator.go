// Package items generates sample items behind a simulated unit of business
// work, for exercising latency and tracing end to end.
package items

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"productapi.app/pkg/errors"
)

const (
	MinCount     = 1
	MaxCount     = 100
	DefaultCount = 10

	minLatency = 50 * time.Millisecond
	maxLatency = 200 * time.Millisecond

	minPrice = 10.0
	maxPrice = 100.0
)

var categories = []string{"electronics", "clothing", "books", "food"}

var tracer = otel.Tracer("productapi.app/internal/core/items")

type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// Generator produces sample items. The zero value is not usable; use NewGenerator.
type Generator struct {
	mu    sync.Mutex
	rand  *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

type Option func(*Generator)

// WithRand sets the random source
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rand = r }
}

// WithSleep replaces the simulated latency wait
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Generator) { g.sleep = sleep }
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rand:  rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		sleep: sleepContext,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate waits a random 50-200ms, then returns count items
func (g *Generator) Generate(ctx context.Context, count int) ([]Item, error) {
	if count < MinCount || count > MaxCount {
		return nil, errors.NewValidationError(fmt.Sprintf("count must be between %d and %d", MinCount, MaxCount))
	}

	ctx, span := tracer.Start(ctx, "business_logic")
	defer span.End()

	g.mu.Lock()
	latency := minLatency + time.Duration(g.rand.Int64N(int64(maxLatency-minLatency)+1))
	g.mu.Unlock()

	span.SetAttributes(
		attribute.Int("item_count", count),
		attribute.Int64("simulated_latency_ms", latency.Milliseconds()),
	)

	if err := g.sleep(ctx, latency); err != nil {
		span.RecordError(err)
		return nil, err
	}

	createdAt := g.now().UTC()
	items := make([]Item, count)

	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range items {
		n := i + 1
		items[i] = Item{
			ID:          uuid.NewString(),
			Name:        fmt.Sprintf("Item %d", n),
			Description: fmt.Sprintf("This is a sample item number %d", n),
			Price:       math.Round((minPrice+g.rand.Float64()*(maxPrice-minPrice))*100) / 100,
			Category:    categories[g.rand.IntN(len(categories))],
			InStock:     g.rand.IntN(2) == 1,
			CreatedAt:   createdAt,
		}
	}

	return items, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
