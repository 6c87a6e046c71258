package dto

import (
	"time"

	"github.com/Additional-Code/playground/internal/entity"
)

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID              int64             `json:"id"`
	OrderNumber     string            `json:"order_number"`
	UserID          int64             `json:"user_id"`
	Status          string            `json:"status"`
	TotalAmount     float64           `json:"total_amount"`
	ShippingAddress string            `json:"shipping_address,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Products        []ProductResponse `json:"products"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// OrderCreate carries the fields for a new order. The order is created for
// the authenticated caller; the product list must not be empty.
type OrderCreate struct {
	ProductIDs      []int64 `json:"product_ids"`
	ShippingAddress string  `json:"shipping_address"`
	Notes           string  `json:"notes"`
}

// OrderUpdate is a partial update; nil fields are left untouched.
type OrderUpdate struct {
	Status          *string `json:"status"`
	ShippingAddress *string `json:"shipping_address"`
	Notes           *string `json:"notes"`
}

// NewOrderResponse maps an order entity onto its transport shape.
func NewOrderResponse(order *entity.Order) OrderResponse {
	return OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		Products:        NewProductResponses(order.Products),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// NewOrderResponses maps a slice of order entities.
func NewOrderResponses(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, NewOrderResponse(order))
	}
	return out
}
