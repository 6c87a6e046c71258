package dto

import (
	"time"

	"github.com/Additional-Code/playground/internal/entity"
)

// ProductResponse represents a product as exposed via transport layers.
type ProductResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       float64           `json:"price"`
	Stock       int               `json:"stock"`
	SKU         string            `json:"sku"`
	IsActive    bool              `json:"is_active"`
	CategoryID  *int64            `json:"category_id"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductCreate carries the fields for a new product.
type ProductCreate struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	SKU         string  `json:"sku"`
	CategoryID  *int64  `json:"category_id"`
}

// ProductUpdate is a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	SKU         *string  `json:"sku"`
	CategoryID  *int64   `json:"category_id"`
	IsActive    *bool    `json:"is_active"`
}

// NewProductResponse maps a product entity onto its transport shape.
func NewProductResponse(product *entity.Product) ProductResponse {
	resp := ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		SKU:         product.SKU,
		IsActive:    product.IsActive,
		CategoryID:  product.CategoryID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Category != nil {
		category := NewCategoryResponse(product.Category)
		resp.Category = &category
	}
	return resp
}

// NewProductResponses maps a slice of product entities.
func NewProductResponses(products []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		out = append(out, NewProductResponse(product))
	}
	return out
}
