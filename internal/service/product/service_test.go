package product

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
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/entity"
	categoryrepo "github.com/Additional-Code/playground/internal/repository/category"
	repo "github.com/Additional-Code/playground/internal/repository/product"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var tester = auth.Identity{UserID: 2, Role: entity.RoleTester}
var viewer = auth.Identity{UserID: 3, Role: entity.RoleViewer}

func newTestService(t *testing.T) (*Service, *categoryrepo.Repository) {
	t.Helper()
	conns := database.NewTestConnections(t)
	store, err := cache.NewStore(nil, config.Config{Cache: config.Cache{Driver: "noop"}}, nil)
	require.NoError(t, err)

	categories := categoryrepo.NewRepository(conns)
	svc := NewService(Params{
		Products:   repo.NewRepository(conns),
		Categories: categories,
		Cache:      store,
		Logger:     zap.NewNop(),
	})
	return svc, categories
}

func createProduct(t *testing.T, svc *Service, name, sku string, price float64) *entity.Product {
	t.Helper()
	product, err := svc.Create(context.Background(), tester, dto.ProductCreate{
		Name: name, SKU: sku, Price: price, Stock: 5,
	})
	require.NoError(t, err)
	return product
}

func TestCreateValidations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.ProductCreate
	}{
		{"empty name", dto.ProductCreate{SKU: "SKU-1", Price: 1}},
		{"empty sku", dto.ProductCreate{Name: "x", Price: 1}},
		{"negative price", dto.ProductCreate{Name: "x", SKU: "SKU-1", Price: -1}},
		{"zero price", dto.ProductCreate{Name: "x", SKU: "SKU-1", Price: 0}},
		{"negative stock", dto.ProductCreate{Name: "x", SKU: "SKU-1", Price: 1, Stock: -2}},
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, tester, tc.in)
		require.Error(t, err, tc.name)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind(), tc.name)
	}
}

func TestCreateDuplicateSKU(t *testing.T) {
	svc, _ := newTestService(t)

	createProduct(t, svc, "first", "SKU-DUP", 10)

	_, err := svc.Create(context.Background(), tester, dto.ProductCreate{
		Name: "second", SKU: "SKU-DUP", Price: 20,
	})
	require.Error(t, err)
	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindConflict, appErr.Kind())
	assert.Equal(t, "sku", appErr.Details()["field"])
}

func TestCreateUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)

	missing := int64(404)
	_, err := svc.Create(context.Background(), tester, dto.ProductCreate{
		Name: "orphan", SKU: "SKU-OR", Price: 5, CategoryID: &missing,
	})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestCreateWithCategory(t *testing.T) {
	svc, categories := newTestService(t)
	ctx := context.Background()

	category := &entity.Category{Name: "Electronics", IsActive: true}
	require.NoError(t, categories.Create(ctx, category))

	product, err := svc.Create(ctx, tester, dto.ProductCreate{
		Name: "Laptop", SKU: "SKU-L1", Price: 999, CategoryID: &category.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, category.ID, *product.CategoryID)
}

func TestCreateForbiddenForViewer(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), viewer, dto.ProductCreate{
		Name: "x", SKU: "SKU-V", Price: 1,
	})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	product := createProduct(t, svc, "gadget", "SKU-G1", 50)

	price := 75.0
	updated, err := svc.Update(ctx, tester, product.ID, dto.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.Price)
	assert.Equal(t, "gadget", updated.Name)
	assert.Equal(t, 5, updated.Stock)

	negative := -3
	_, err = svc.Update(ctx, tester, product.ID, dto.ProductUpdate{Stock: &negative})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())

	zero := 0.0
	_, err = svc.Update(ctx, tester, product.ID, dto.ProductUpdate{Price: &zero})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())

	// A rejected patch leaves the product untouched.
	reloaded, err := svc.Get(ctx, tester, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, reloaded.Price)
}

func TestUpdateDuplicateSKU(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	createProduct(t, svc, "one", "SKU-A", 10)
	second := createProduct(t, svc, "two", "SKU-B", 10)

	conflict := "SKU-A"
	_, err := svc.Update(ctx, tester, second.ID, dto.ProductUpdate{SKU: &conflict})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())

	// Keeping the product's own SKU is fine.
	own := "SKU-B"
	_, err = svc.Update(ctx, tester, second.ID, dto.ProductUpdate{SKU: &own})
	assert.NoError(t, err)
}

func TestGetAndSortValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	product := createProduct(t, svc, "reader", "SKU-R1", 12)

	loaded, err := svc.Get(ctx, viewer, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, loaded.ID)

	_, err = svc.Get(ctx, viewer, 8888)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())

	_, err = svc.List(ctx, viewer, ListOptions{SortBy: "sku"})
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())

	listed, err := svc.List(ctx, viewer, ListOptions{SortBy: "price"})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	product := createProduct(t, svc, "doomed", "SKU-D1", 1)

	err := svc.Delete(ctx, viewer, product.ID)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())

	require.NoError(t, svc.Delete(ctx, tester, product.ID))

	err = svc.Delete(ctx, tester, product.ID)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}
