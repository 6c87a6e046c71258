package seeder

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/entity"
)

// Counts reports how many rows a seed run created.
type Counts struct {
	Users      int
	Categories int
	Products   int
	Orders     int
}

// Seeder deterministically (re)populates the sandbox to its reference state.
// It is the only component allowed to mass-create or mass-delete rows.
type Seeder struct {
	db     *bun.DB
	hasher *auth.Hasher
	logger *zap.Logger

	// Reset is serialized; two concurrent resets interleaving could leave
	// the store half-cleared.
	mu sync.Mutex
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, hasher *auth.Hasher, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, hasher: hasher, logger: logger}
}

type seedUser struct {
	email    string
	username string
	fullName string
	password string
	role     entity.Role
}

var seedUsers = []seedUser{
	{email: "admin@qa-test.com", username: "admin", fullName: "Admin User", password: "admin123", role: entity.RoleAdmin},
	{email: "tester@qa-test.com", username: "tester", fullName: "Test User", password: "tester123", role: entity.RoleTester},
	{email: "viewer@qa-test.com", username: "viewer", fullName: "Viewer User", password: "viewer123", role: entity.RoleViewer},
}

var seedCategories = []struct {
	name        string
	description string
}{
	{"Electronics", "Computers, phones, and gadgets"},
	{"Clothing", "Apparel and accessories"},
	{"Home & Garden", "Furniture and appliances"},
	{"Books", "Physical and digital books"},
	{"Sports", "Sports equipment and gear"},
}

var seedProducts = []struct {
	name     string
	category string
	price    float64
	stock    int
}{
	{"Laptop Pro 15", "Electronics", 1299.99, 15},
	{"Wireless Mouse", "Electronics", 49.99, 100},
	{"USB-C Hub", "Electronics", 79.99, 50},
	{"Mechanical Keyboard", "Electronics", 149.99, 30},
	{"4K Monitor", "Electronics", 399.99, 20},
	{"Cotton T-Shirt", "Clothing", 24.99, 200},
	{"Denim Jeans", "Clothing", 59.99, 150},
	{"Running Shoes", "Clothing", 89.99, 75},
	{"Winter Jacket", "Clothing", 149.99, 40},
	{"Desk Lamp", "Home & Garden", 34.99, 80},
	{"Office Chair", "Home & Garden", 249.99, 25},
	{"Plant Pot Set", "Home & Garden", 29.99, 120},
	{"Coffee Table", "Home & Garden", 199.99, 15},
	{"Go Cookbook", "Books", 44.99, 60},
	{"Design Patterns", "Books", 49.99, 45},
	{"Clean Code", "Books", 39.99, 70},
	{"Yoga Mat", "Sports", 29.99, 90},
	{"Dumbbells Set", "Sports", 79.99, 35},
	{"Tennis Racket", "Sports", 129.99, 20},
	{"Soccer Ball", "Sports", 24.99, 100},
}

const orderCount = 10

// Clear deletes every row, children before parents so foreign keys never dangle.
func (s *Seeder) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return clearTables(ctx, tx)
	})
}

// Seed inserts the fixed reference dataset and returns creation counts.
func (s *Seeder) Seed(ctx context.Context) (Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var counts Counts
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var seedErr error
		counts, seedErr = s.seedTables(ctx, tx)
		return seedErr
	})
	if err != nil {
		return Counts{}, fmt.Errorf("seed: %w", err)
	}
	s.logCounts(counts)
	return counts, nil
}

// Reset clears and reseeds in a single transaction: either the reference
// state is fully applied or the prior state is rolled back.
func (s *Seeder) Reset(ctx context.Context) (Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var counts Counts
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := clearTables(ctx, tx); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		var seedErr error
		counts, seedErr = s.seedTables(ctx, tx)
		if seedErr != nil {
			return fmt.Errorf("seed: %w", seedErr)
		}
		return nil
	})
	if err != nil {
		return Counts{}, err
	}
	s.logCounts(counts)
	return counts, nil
}

// EnsureSeeded seeds the database once if no user exists yet. It never runs
// against a populated store.
func (s *Seeder) EnsureSeeded(ctx context.Context) error {
	count, err := s.db.NewSelect().Model((*entity.User)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := s.Seed(ctx); err != nil {
		return err
	}
	s.logger.Info("database seeded with initial data")
	return nil
}

func clearTables(ctx context.Context, tx bun.Tx) error {
	models := []any{
		(*entity.OrderItem)(nil),
		(*entity.Order)(nil),
		(*entity.Product)(nil),
		(*entity.Category)(nil),
		(*entity.User)(nil),
	}
	for _, model := range models {
		if _, err := tx.NewDelete().Model(model).Where("1 = 1").Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedTables(ctx context.Context, tx bun.Tx) (Counts, error) {
	users := make([]*entity.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		hashed, err := s.hasher.Hash(su.password)
		if err != nil {
			return Counts{}, fmt.Errorf("hash password for %s: %w", su.username, err)
		}
		users = append(users, &entity.User{
			Email:          su.email,
			Username:       su.username,
			FullName:       su.fullName,
			HashedPassword: hashed,
			Role:           su.role,
			IsActive:       true,
		})
	}
	if _, err := tx.NewInsert().Model(&users).Exec(ctx); err != nil {
		return Counts{}, fmt.Errorf("insert users: %w", err)
	}

	categories := make([]*entity.Category, 0, len(seedCategories))
	for _, sc := range seedCategories {
		categories = append(categories, &entity.Category{
			Name:        sc.name,
			Description: sc.description,
			IsActive:    true,
		})
	}
	if _, err := tx.NewInsert().Model(&categories).Exec(ctx); err != nil {
		return Counts{}, fmt.Errorf("insert categories: %w", err)
	}

	categoryByName := make(map[string]*entity.Category, len(categories))
	for _, category := range categories {
		categoryByName[category.Name] = category
	}

	products := make([]*entity.Product, 0, len(seedProducts))
	for i, sp := range seedProducts {
		category, ok := categoryByName[sp.category]
		if !ok {
			return Counts{}, fmt.Errorf("unknown seed category: %s", sp.category)
		}
		categoryID := category.ID
		products = append(products, &entity.Product{
			Name:        sp.name,
			Description: gofakeit.Sentence(8),
			Price:       sp.price,
			Stock:       sp.stock,
			SKU:         fmt.Sprintf("SKU-%04d", i+1),
			IsActive:    true,
			CategoryID:  &categoryID,
		})
	}
	if _, err := tx.NewInsert().Model(&products).Exec(ctx); err != nil {
		return Counts{}, fmt.Errorf("insert products: %w", err)
	}

	var items []entity.OrderItem
	orders := make([]*entity.Order, 0, orderCount)
	for i := 0; i < orderCount; i++ {
		user := users[i%len(users)]
		picked := pickProducts(products, 1+rand.Intn(4))
		total := 0.0
		for _, product := range picked {
			total += product.Price
		}

		notes := ""
		if gofakeit.Bool() {
			notes = gofakeit.Sentence(6)
		}
		order := &entity.Order{
			OrderNumber:     NewOrderNumber(),
			UserID:          user.ID,
			Status:          entity.OrderStatuses[i%len(entity.OrderStatuses)],
			TotalAmount:     total,
			ShippingAddress: gofakeit.Address().Address,
			Notes:           notes,
		}
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return Counts{}, fmt.Errorf("insert order: %w", err)
		}
		for _, product := range picked {
			items = append(items, entity.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  1,
			})
		}
		orders = append(orders, order)
	}
	if _, err := tx.NewInsert().Model(&items).Exec(ctx); err != nil {
		return Counts{}, fmt.Errorf("insert order items: %w", err)
	}

	return Counts{
		Users:      len(users),
		Categories: len(categories),
		Products:   len(products),
		Orders:     len(orders),
	}, nil
}

func (s *Seeder) logCounts(counts Counts) {
	if s.logger == nil {
		return
	}
	s.logger.Info("seed data applied",
		zap.Int("users", counts.Users),
		zap.Int("categories", counts.Categories),
		zap.Int("products", counts.Products),
		zap.Int("orders", counts.Orders),
	)
}

// pickProducts returns n distinct products chosen at random.
func pickProducts(products []*entity.Product, n int) []*entity.Product {
	if n > len(products) {
		n = len(products)
	}
	picked := make([]*entity.Product, 0, n)
	for _, idx := range rand.Perm(len(products))[:n] {
		picked = append(picked, products[idx])
	}
	return picked
}

// NewOrderNumber renders a fresh order number: fixed prefix plus 8 uppercase
// hex characters from a random identifier.
func NewOrderNumber() string {
	id := uuid.New()
	return "ORD-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}
