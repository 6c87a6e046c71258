package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/cache"
	"github.com/Additional-Code/playground/internal/config"
	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/entity"
	"github.com/Additional-Code/playground/internal/messaging"
	categoryrepo "github.com/Additional-Code/playground/internal/repository/category"
	orderrepo "github.com/Additional-Code/playground/internal/repository/order"
	productrepo "github.com/Additional-Code/playground/internal/repository/product"
	userrepo "github.com/Additional-Code/playground/internal/repository/user"
	"github.com/Additional-Code/playground/internal/seeder"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var admin = auth.Identity{UserID: 1, Role: entity.RoleAdmin}
var tester = auth.Identity{UserID: 2, Role: entity.RoleTester}

func newTestService(t *testing.T) (*Service, *database.Connections) {
	t.Helper()
	conns := database.NewTestConnections(t)
	cfg := config.Config{
		Auth:      config.Auth{BcryptCost: 4},
		Cache:     config.Cache{Driver: "noop"},
		Messaging: config.Messaging{Driver: "noop"},
	}

	store, err := cache.NewStore(nil, cfg, nil)
	require.NoError(t, err)
	bus, err := messaging.NewClient(nil, cfg, zap.NewNop())
	require.NoError(t, err)

	svc := NewService(Params{
		Seeder:     seeder.New(conns, auth.NewHasher(cfg), zap.NewNop()),
		Cache:      store,
		Bus:        bus,
		Users:      userrepo.NewRepository(conns),
		Categories: categoryrepo.NewRepository(conns),
		Products:   productrepo.NewRepository(conns),
		Orders:     orderrepo.NewRepository(conns),
		Logger:     zap.NewNop(),
	})
	return svc, conns
}

func TestResetRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Reset(context.Background(), tester)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())
}

func TestResetReportsCounts(t *testing.T) {
	svc, conns := newTestService(t)
	ctx := context.Background()

	result, err := svc.Reset(ctx, admin)
	require.NoError(t, err)

	assert.Equal(t, 3, result.UsersCreated)
	assert.Equal(t, 5, result.CategoriesCreated)
	assert.Equal(t, 20, result.ProductsCreated)
	assert.Equal(t, 10, result.OrdersCreated)
	assert.NotEmpty(t, result.Message)

	users, err := conns.Reader.NewSelect().Model((*entity.User)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, users)
}

func TestStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	empty, err := svc.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, empty.Users)

	_, err = svc.Reset(ctx, admin)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Users)
	assert.Equal(t, 5, stats.Categories)
	assert.Equal(t, 20, stats.Products)
	assert.Equal(t, 10, stats.Orders)

	_, err = svc.Stats(ctx, tester)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())
}
