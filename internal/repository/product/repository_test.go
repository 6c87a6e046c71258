package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/entity"
)

func seedProduct(t *testing.T, repo *Repository, name string, price float64, stock int) *entity.Product {
	t.Helper()
	product := &entity.Product{
		Name:     name,
		Price:    price,
		Stock:    stock,
		SKU:      fmt.Sprintf("SKU-%s", name),
		IsActive: true,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func TestValidSortColumn(t *testing.T) {
	for _, column := range []string{"price", "name", "created_at", "stock"} {
		assert.True(t, ValidSortColumn(column), column)
	}
	assert.False(t, ValidSortColumn("sku"))
	assert.False(t, ValidSortColumn("id; DROP TABLE products"))
}

func TestListPriceAndStockFilters(t *testing.T) {
	conns := database.NewTestConnections(t)
	repo := NewRepository(conns)
	ctx := context.Background()

	seedProduct(t, repo, "cheap", 5, 10)
	seedProduct(t, repo, "mid", 50, 0)
	seedProduct(t, repo, "dear", 500, 3)

	min, max := 10.0, 100.0
	mid, err := repo.List(ctx, Filter{MinPrice: &min, MaxPrice: &max, Limit: 50})
	require.NoError(t, err)
	require.Len(t, mid, 1)
	assert.Equal(t, "mid", mid[0].Name)

	inStock := true
	stocked, err := repo.List(ctx, Filter{InStock: &inStock, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, stocked, 2)

	outOfStock := false
	empty, err := repo.List(ctx, Filter{InStock: &outOfStock, Limit: 50})
	require.NoError(t, err)
	require.Len(t, empty, 1)
	assert.Equal(t, "mid", empty[0].Name)
}

func TestListSorting(t *testing.T) {
	conns := database.NewTestConnections(t)
	repo := NewRepository(conns)
	ctx := context.Background()

	seedProduct(t, repo, "b-item", 20, 1)
	seedProduct(t, repo, "a-item", 30, 2)
	seedProduct(t, repo, "c-item", 10, 3)

	byPrice, err := repo.List(ctx, Filter{SortBy: "price", Limit: 50})
	require.NoError(t, err)
	require.Len(t, byPrice, 3)
	assert.Equal(t, "c-item", byPrice[0].Name)
	assert.Equal(t, "a-item", byPrice[2].Name)

	byNameDesc, err := repo.List(ctx, Filter{SortBy: "name", SortDesc: true, Limit: 50})
	require.NoError(t, err)
	require.Len(t, byNameDesc, 3)
	assert.Equal(t, "c-item", byNameDesc[0].Name)
}

func TestListSearchMatchesNameOrSKU(t *testing.T) {
	conns := database.NewTestConnections(t)
	repo := NewRepository(conns)
	ctx := context.Background()

	seedProduct(t, repo, "Laptop", 999, 5)
	seedProduct(t, repo, "Mouse", 20, 5)

	byName, err := repo.List(ctx, Filter{Search: "lap", Limit: 50})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Laptop", byName[0].Name)

	bySKU, err := repo.List(ctx, Filter{Search: "sku-mouse", Limit: 50})
	require.NoError(t, err)
	require.Len(t, bySKU, 1)
	assert.Equal(t, "Mouse", bySKU[0].Name)
}

func TestGetByIDs(t *testing.T) {
	conns := database.NewTestConnections(t)
	repo := NewRepository(conns)
	ctx := context.Background()

	first := seedProduct(t, repo, "one", 1, 1)
	seedProduct(t, repo, "two", 2, 2)

	found, err := repo.GetByIDs(ctx, []int64{first.ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first.ID, found[0].ID)

	none, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteRemovesOrderItems(t *testing.T) {
	conns := database.NewTestConnections(t)
	repo := NewRepository(conns)
	ctx := context.Background()

	user := &entity.User{Email: "t@qa-test.com", Username: "t", HashedPassword: "x", Role: entity.RoleTester, IsActive: true}
	_, err := conns.Writer.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	product := seedProduct(t, repo, "doomed", 15, 4)
	order := &entity.Order{OrderNumber: "ORD-PR000001", UserID: user.ID, Status: entity.OrderPending, TotalAmount: 15}
	_, err = conns.Writer.NewInsert().Model(order).Exec(ctx)
	require.NoError(t, err)
	item := &entity.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: 1}
	_, err = conns.Writer.NewInsert().Model(item).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, product.ID))

	items, err := conns.Reader.NewSelect().Model((*entity.OrderItem)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, items)

	// The order itself survives with its snapshot total.
	kept := new(entity.Order)
	err = conns.Reader.NewSelect().Model(kept).Where("id = ?", order.ID).Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15.0, kept.TotalAmount)
}
