package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Role is the closed set of sandbox roles driving authorization decisions.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTester Role = "tester"
	RoleViewer Role = "viewer"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTester, RoleViewer:
		return true
	}
	return false
}

// User is a sandbox account stored in the relational database.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID             int64     `bun:",pk,autoincrement"`
	Email          string    `bun:"email,notnull,unique"`
	Username       string    `bun:"username,notnull,unique"`
	HashedPassword string    `bun:"hashed_password,notnull"`
	FullName       string    `bun:"full_name,nullzero"`
	Role           Role      `bun:"role,notnull"`
	IsActive       bool      `bun:"is_active"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero"`

	Orders []*Order `bun:"rel:has-many,join:id=user_id"`
}
