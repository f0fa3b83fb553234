package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"productapi.app/internal/ports"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// Categories lists every product category the catalog knows about
var Categories = []string{
	"electronics", "clothing", "books", "food", "toys",
	"furniture", "sports", "beauty", "automotive", "garden",
}

// IsValidCategory reports whether category is one of Categories
func IsValidCategory(category string) bool {
	return slices.Contains(Categories, category)
}

// Product is a catalog entry as served to clients
type Product struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListQuery selects one page of products
type ListQuery struct {
	Category string
	Limit    int
	Offset   int
}

// Normalize trims the category and applies the default limit
func (q *ListQuery) Normalize() {
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Limit == 0 {
		q.Limit = DefaultListLimit
	}
}

// IsValid validates a normalized list query
func (q ListQuery) IsValid() error {
	if q.Limit < 1 || q.Limit > MaxListLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxListLimit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("offset cannot be negative")
	}
	if q.Category != "" && !IsValidCategory(q.Category) {
		return fmt.Errorf("unknown category %q", q.Category)
	}
	return nil
}

func fromData(data *ports.ProductData) Product {
	return Product{
		ID:          data.ID,
		Name:        data.Name,
		Category:    data.Category,
		Price:       data.Price,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
	}
}
