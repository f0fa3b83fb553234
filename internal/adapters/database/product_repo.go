package database

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"productapi.app/internal/ports"
	apperrors "productapi.app/pkg/errors"
)

var tracer = otel.Tracer("productapi.app/internal/adapters/database")

// ProductModel represents the database model for products
type ProductModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:200;not null;index:idx_name_category,priority:1"`
	Category    string    `gorm:"size:100;not null;index;index:idx_name_category,priority:2"`
	Price       float64   `gorm:"type:numeric(10,2);not null;index:idx_price"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (ProductModel) TableName() string {
	return "products"
}

// ProductRepositoryAdapter implements the ProductRepository port using GORM
type ProductRepositoryAdapter struct {
	db *gorm.DB
}

// NewProductRepositoryAdapter creates a new product repository adapter
func NewProductRepositoryAdapter(db *gorm.DB) *ProductRepositoryAdapter {
	return &ProductRepositoryAdapter{db: db}
}

var _ ports.ProductRepository = (*ProductRepositoryAdapter)(nil)

// FindByID retrieves a product by its ID
func (r *ProductRepositoryAdapter) FindByID(ctx context.Context, id uint) (*ports.ProductData, error) {
	if id == 0 {
		return nil, apperrors.NewValidationError("product ID cannot be zero")
	}

	ctx, span := startSpan(ctx, "repository.find_by_id", attribute.Int64("product.id", int64(id)))
	defer span.End()

	var model ProductModel
	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product not found")
		}
		return nil, spanError(span, apperrors.NewDatabaseError("failed to find product by ID", result.Error))
	}

	return modelToData(&model), nil
}

// List returns a page of products ordered by ID, optionally restricted to one category
func (r *ProductRepositoryAdapter) List(ctx context.Context, filter ports.ProductFilter) ([]*ports.ProductData, error) {
	ctx, span := startSpan(ctx, "repository.list",
		attribute.String("product.category", filter.Category),
		attribute.Int("query.limit", filter.Limit),
		attribute.Int("query.offset", filter.Offset))
	defer span.End()

	var models []ProductModel
	query := r.db.WithContext(ctx).Model(&ProductModel{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, spanError(span, apperrors.NewDatabaseError("failed to list products", err))
	}

	products := make([]*ports.ProductData, 0, len(models))
	for i := range models {
		products = append(products, modelToData(&models[i]))
	}
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// Count returns the number of products, optionally restricted to one category
func (r *ProductRepositoryAdapter) Count(ctx context.Context, category string) (int64, error) {
	ctx, span := startSpan(ctx, "repository.count", attribute.String("product.category", category))
	defer span.End()

	var count int64
	query := r.db.WithContext(ctx).Model(&ProductModel{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, spanError(span, apperrors.NewDatabaseError("failed to count products", err))
	}
	return count, nil
}

// CreateBatch inserts products in one batch and assigns their IDs
func (r *ProductRepositoryAdapter) CreateBatch(ctx context.Context, products []*ports.ProductData) error {
	if len(products) == 0 {
		return nil
	}

	ctx, span := startSpan(ctx, "repository.create_batch", attribute.Int("batch.size", len(products)))
	defer span.End()

	models := make([]ProductModel, len(products))
	for i, p := range products {
		models[i] = dataToModel(p)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(models, len(models)).Error; err != nil {
		return spanError(span, apperrors.NewDatabaseError("failed to insert products", err))
	}

	for i := range models {
		products[i].ID = models[i].ID
		products[i].CreatedAt = models[i].CreatedAt
	}
	return nil
}

func modelToData(model *ProductModel) *ports.ProductData {
	return &ports.ProductData{
		ID:          model.ID,
		Name:        model.Name,
		Category:    model.Category,
		Price:       model.Price,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
	}
}

func dataToModel(data *ports.ProductData) ProductModel {
	return ProductModel{
		ID:          data.ID,
		Name:        data.Name,
		Category:    data.Category,
		Price:       data.Price,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", "postgresql"), attribute.String("db.sql.table", "products"))
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
