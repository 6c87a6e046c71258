package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Product is a catalog item, optionally belonging to one category.
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID          int64     `bun:",pk,autoincrement"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description,nullzero"`
	Price       float64   `bun:"price,notnull"`
	Stock       int       `bun:"stock"`
	SKU         string    `bun:"sku,notnull,unique"`
	IsActive    bool      `bun:"is_active"`
	CategoryID  *int64    `bun:"category_id,nullzero"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero"`

	Category *Category `bun:"rel:belongs-to,join:category_id=id"`
	Orders   []*Order  `bun:"m2m:order_items,join:Product=Order"`
}
