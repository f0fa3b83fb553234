package ports

import (
	"context"
	"time"
)

// ProductData represents product data for persistence
type ProductData struct {
	ID          uint
	Name        string
	Category    string
	Price       float64
	Description string
	CreatedAt   time.Time
}

// ProductFilter narrows a product listing. An empty Category matches all products.
type ProductFilter struct {
	Category string
	Limit    int
	Offset   int
}

// ProductRepository defines the contract for product data persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*ProductData, error)
	List(ctx context.Context, filter ProductFilter) ([]*ProductData, error)
	Count(ctx context.Context, category string) (int64, error)
	CreateBatch(ctx context.Context, products []*ProductData) error
}
