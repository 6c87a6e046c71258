package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Category groups products; deleting one clears the reference on its products.
type Category struct {
	bun.BaseModel `bun:"table:categories"`

	ID          int64     `bun:",pk,autoincrement"`
	Name        string    `bun:"name,notnull,unique"`
	Description string    `bun:"description,nullzero"`
	IsActive    bool      `bun:"is_active"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`

	Products []*Product `bun:"rel:has-many,join:id=category_id"`
}
