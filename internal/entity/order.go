package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in declaration order.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderConfirmed,
	OrderShipped,
	OrderDelivered,
	OrderCancelled,
}

// Valid reports whether the status is one of the known variants.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is a purchase order owned by exactly one user. TotalAmount is a
// snapshot of product prices at creation time and is never recomputed.
type Order struct {
	// The alias avoids the reserved word "order" in generated SQL.
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID              int64       `bun:",pk,autoincrement"`
	OrderNumber     string      `bun:"order_number,notnull,unique"`
	UserID          int64       `bun:"user_id,notnull"`
	Status          OrderStatus `bun:"status,notnull"`
	TotalAmount     float64     `bun:"total_amount"`
	ShippingAddress string      `bun:"shipping_address,nullzero"`
	Notes           string      `bun:"notes,nullzero"`
	CreatedAt       time.Time   `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time   `bun:"updated_at,nullzero"`

	User     *User      `bun:"rel:belongs-to,join:user_id=id"`
	Products []*Product `bun:"m2m:order_items,join:Order=Product"`
}

// OrderItem is the quantity-bearing join between orders and products.
// Quantity currently always defaults to 1 and is not exposed for adjustment.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	OrderID   int64 `bun:"order_id,pk"`
	ProductID int64 `bun:"product_id,pk"`
	Quantity  int   `bun:"quantity"`

	Order   *Order   `bun:"rel:belongs-to,join:order_id=id"`
	Product *Product `bun:"rel:belongs-to,join:product_id=id"`
}
