package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"productapi.app/internal/core/catalog"
	"productapi.app/pkg/errors"
)

// ProductsQuery represents the query string of GET /products
type ProductsQuery struct {
	Category string `form:"category" binding:"omitempty,category"`
	Limit    int    `form:"limit,default=100" binding:"min=1,max=1000"`
	Offset   int    `form:"offset,default=0" binding:"min=0"`
}

// CountQuery represents the query string of GET /products/count
type CountQuery struct {
	Category string `form:"category" binding:"omitempty,category"`
}

// ProductListResponse represents one page of products
type ProductListResponse struct {
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
	Category *string           `json:"category"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// ProductCountResponse represents a product count
type ProductCountResponse struct {
	Count    int64   `json:"count"`
	Category *string `json:"category"`
}

// validateCategory accepts known product categories, ignoring case and surrounding space
func validateCategory(fl validator.FieldLevel) bool {
	return catalog.IsValidCategory(normalizeCategory(fl.Field().String()))
}

// listProducts handles GET /products requests
func (s *HTTPServerAdapter) listProducts(c *gin.Context) {
	var query ProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.handleError(c, bindingError(err))
		return
	}

	category := normalizeCategory(query.Category)
	products, err := s.catalog.ListProducts(c.Request.Context(), catalog.ListQuery{
		Category: category,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProductListResponse{
		Products: products,
		Count:    len(products),
		Category: optional(category),
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
}

// countProducts handles GET /products/count requests
func (s *HTTPServerAdapter) countProducts(c *gin.Context) {
	var query CountQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.handleError(c, bindingError(err))
		return
	}

	category := normalizeCategory(query.Category)
	count, err := s.catalog.CountProducts(c.Request.Context(), category)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProductCountResponse{Count: count, Category: optional(category)})
}

// getProduct handles GET /products/:id requests
func (s *HTTPServerAdapter) getProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		s.handleError(c, errors.NewValidationError("product ID must be a positive integer"))
		return
	}

	product, err := s.catalog.GetProduct(c.Request.Context(), uint(id))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
