package seeder

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/config"
	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/entity"
)

func newTestSeeder(t *testing.T) (*Seeder, *database.Connections) {
	t.Helper()
	conns := database.NewTestConnections(t)
	hasher := auth.NewHasher(config.Config{Auth: config.Auth{BcryptCost: 4}})
	return New(conns, hasher, zap.NewNop()), conns
}

func TestSeedCounts(t *testing.T) {
	seed, _ := newTestSeeder(t)
	ctx := context.Background()

	counts, err := seed.Seed(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, counts.Users)
	assert.Equal(t, 5, counts.Categories)
	assert.Equal(t, 20, counts.Products)
	assert.Equal(t, 10, counts.Orders)
}

func TestSeedCredentials(t *testing.T) {
	seed, conns := newTestSeeder(t)
	ctx := context.Background()

	_, err := seed.Seed(ctx)
	require.NoError(t, err)

	hasher := auth.NewHasher(config.Config{Auth: config.Auth{BcryptCost: 4}})
	expected := map[string]struct {
		password string
		role     entity.Role
	}{
		"admin":  {"admin123", entity.RoleAdmin},
		"tester": {"tester123", entity.RoleTester},
		"viewer": {"viewer123", entity.RoleViewer},
	}

	for username, want := range expected {
		user := new(entity.User)
		err := conns.Reader.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
		require.NoError(t, err, "user %s", username)

		assert.Equal(t, want.role, user.Role, "user %s", username)
		assert.True(t, user.IsActive, "user %s", username)
		assert.True(t, hasher.Verify(user.HashedPassword, want.password), "password for %s", username)
	}
}

func TestSeedOrdersReferenceSeedData(t *testing.T) {
	seed, conns := newTestSeeder(t)
	ctx := context.Background()

	_, err := seed.Seed(ctx)
	require.NoError(t, err)

	var orders []*entity.Order
	err = conns.Reader.NewSelect().Model(&orders).Relation("Products").Scan(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 10)

	for _, order := range orders {
		assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"), "order number %s", order.OrderNumber)
		assert.True(t, order.Status.Valid(), "status %s", order.Status)
		require.NotEmpty(t, order.Products, "order %s has no products", order.OrderNumber)

		total := 0.0
		for _, product := range order.Products {
			total += product.Price
		}
		assert.InDelta(t, total, order.TotalAmount, 0.001, "order %s total", order.OrderNumber)
	}
}

func TestResetRestoresReferenceState(t *testing.T) {
	seed, conns := newTestSeeder(t)
	ctx := context.Background()

	_, err := seed.Seed(ctx)
	require.NoError(t, err)

	// Mutate the dataset to prove the reset wipes drift.
	extra := &entity.Category{Name: "Scratch", IsActive: true}
	_, err = conns.Writer.NewInsert().Model(extra).Exec(ctx)
	require.NoError(t, err)

	counts, err := seed.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Users)
	assert.Equal(t, 5, counts.Categories)
	assert.Equal(t, 20, counts.Products)
	assert.Equal(t, 10, counts.Orders)

	n, err := conns.Reader.NewSelect().Model((*entity.Category)(nil)).Where("name = ?", "Scratch").Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResetIsRepeatable(t *testing.T) {
	seed, conns := newTestSeeder(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		counts, err := seed.Reset(ctx)
		require.NoError(t, err, "reset %d", i)
		assert.Equal(t, 3, counts.Users)
		assert.Equal(t, 10, counts.Orders)
	}

	users, err := conns.Reader.NewSelect().Model((*entity.User)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, users)
}

func TestEnsureSeededOnlyRunsOnEmpty(t *testing.T) {
	seed, conns := newTestSeeder(t)
	ctx := context.Background()

	require.NoError(t, seed.EnsureSeeded(ctx))

	users, err := conns.Reader.NewSelect().Model((*entity.User)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, users)

	// A second call against the populated store is a no-op.
	require.NoError(t, seed.EnsureSeeded(ctx))
	users, err = conns.Reader.NewSelect().Model((*entity.User)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, users)
}

func TestNewOrderNumberFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number := NewOrderNumber()
		assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, number)
		assert.False(t, seen[number], "duplicate order number %s", number)
		seen[number] = true
	}
}
