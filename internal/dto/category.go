package dto

import (
	"time"

	"github.com/Additional-Code/playground/internal/entity"
)

// CategoryResponse represents a category as exposed via transport layers.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryCreate carries the fields for a new category. IsActive defaults
// to true when omitted.
type CategoryCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// CategoryUpdate is a partial update; nil fields are left untouched.
type CategoryUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// NewCategoryResponse maps a category entity onto its transport shape.
func NewCategoryResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
	}
}

// NewCategoryResponses maps a slice of category entities.
func NewCategoryResponses(categories []*entity.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, NewCategoryResponse(category))
	}
	return out
}
