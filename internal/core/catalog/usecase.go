// Package catalog serves products from the relational store through the
// cache-aside layer.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"productapi.app/internal/cache"
	"productapi.app/internal/ports"
	"productapi.app/pkg/errors"
)

const (
	productKeyPrefix = "product"
	listKeyPrefix    = "products"
	countKeyPrefix   = "products_count"
)

type UseCase struct {
	repository ports.ProductRepository
	cache      ports.Cache
	logger     ports.Logger
	productTTL time.Duration

	list  cache.Producer[ListQuery, []Product]
	count cache.Producer[string, int64]
}

type UseCaseDependencies struct {
	// Repository may be nil when the database is disabled or unreachable
	Repository ports.ProductRepository
	Cache      ports.Cache
	Logger     ports.Logger
	ProductTTL time.Duration
	ListTTL    time.Duration
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Cache == nil {
		return nil, errors.NewValidationError("cache is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}

	uc := &UseCase{
		repository: deps.Repository,
		cache:      deps.Cache,
		logger:     deps.Logger,
		productTTL: deps.ProductTTL,
	}

	uc.list = cache.Memoize(deps.Cache,
		cache.MemoizeOptions{KeyPrefix: listKeyPrefix, TTL: deps.ListTTL},
		func(q ListQuery) cache.Args {
			return cache.Args{}.
				With("category", q.Category).
				With("limit", q.Limit).
				With("offset", q.Offset)
		},
		uc.listProducts)

	uc.count = cache.Memoize(deps.Cache,
		cache.MemoizeOptions{KeyPrefix: countKeyPrefix, TTL: deps.ListTTL},
		func(category string) cache.Args {
			return cache.Args{}.With("category", category)
		},
		uc.countProducts)

	return uc, nil
}

// Available reports whether a product store is configured
func (uc *UseCase) Available() bool {
	return uc.repository != nil
}

// ProductKey is the cache key of a single product
func ProductKey(id uint) string {
	return cache.BuildKey(productKeyPrefix, cache.PositionalArgs(id))
}

// GetProduct returns one product, reading through the cache. A missing
// product is never cached.
func (uc *UseCase) GetProduct(ctx context.Context, id uint) (*Product, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, errors.NewValidationError("product ID must be positive")
	}

	key := ProductKey(id)

	var cached Product
	if uc.cache.Read(ctx, key, &cached) {
		return &cached, nil
	}

	data, err := uc.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}

	product := fromData(data)
	uc.cache.Write(ctx, key, product, uc.productTTL)
	return &product, nil
}

// ListProducts returns one page of products, memoized per category, limit and offset
func (uc *UseCase) ListProducts(ctx context.Context, query ListQuery) ([]Product, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}

	query.Normalize()
	if err := query.IsValid(); err != nil {
		return nil, errors.NewValidationError("invalid product query: " + err.Error())
	}

	return uc.list(ctx, query)
}

// CountProducts returns the number of products in category, or in the whole
// catalog for an empty category. A zero count is cached like any other.
func (uc *UseCase) CountProducts(ctx context.Context, category string) (int64, error) {
	if err := uc.requireStore(); err != nil {
		return 0, err
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && !IsValidCategory(category) {
		return 0, errors.NewValidationError(fmt.Sprintf("unknown category %q", category))
	}

	return uc.count(ctx, category)
}

func (uc *UseCase) listProducts(ctx context.Context, query ListQuery) ([]Product, error) {
	uc.logger.Debug("Querying products",
		ports.F("category", query.Category),
		ports.F("limit", query.Limit),
		ports.F("offset", query.Offset))

	rows, err := uc.repository.List(ctx, ports.ProductFilter{
		Category: query.Category,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, fromData(row))
	}
	return products, nil
}

func (uc *UseCase) countProducts(ctx context.Context, category string) (int64, error) {
	count, err := uc.repository.Count(ctx, category)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func (uc *UseCase) requireStore() error {
	if uc.repository == nil {
		return errors.NewUnavailableError("product catalog is not available", nil)
	}
	return nil
}
