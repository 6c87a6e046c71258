package order

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/entity"
)

type fixture struct {
	conns    *database.Connections
	repo     *Repository
	user     *entity.User
	products []*entity.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conns := database.NewTestConnections(t)
	ctx := context.Background()

	user := &entity.User{Email: "o@qa-test.com", Username: "orders", HashedPassword: "x", Role: entity.RoleTester, IsActive: true}
	_, err := conns.Writer.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	var products []*entity.Product
	for i := 0; i < 3; i++ {
		product := &entity.Product{
			Name:     fmt.Sprintf("product-%d", i),
			Price:    float64(10 * (i + 1)),
			Stock:    5,
			SKU:      fmt.Sprintf("SKU-O%03d", i),
			IsActive: true,
		}
		_, err := conns.Writer.NewInsert().Model(product).Exec(ctx)
		require.NoError(t, err)
		products = append(products, product)
	}

	return &fixture{conns: conns, repo: NewRepository(conns), user: user, products: products}
}

func TestCreateInsertsAssociationRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := &entity.Order{
		OrderNumber: "ORD-AAAA0001",
		UserID:      f.user.ID,
		Status:      entity.OrderPending,
		TotalAmount: 30,
	}
	ids := []int64{f.products[0].ID, f.products[1].ID}
	require.NoError(t, f.repo.Create(ctx, order, ids))
	require.NotZero(t, order.ID)

	loaded, err := f.repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Products, 2)

	var items []entity.OrderItem
	err = f.conns.Reader.NewSelect().Model(&items).Where("order_id = ?", order.ID).Scan(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, 1, item.Quantity)
	}
}

func TestListFiltersAndOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := &entity.User{Email: "v@qa-test.com", Username: "visitor", HashedPassword: "x", Role: entity.RoleViewer, IsActive: true}
	_, err := f.conns.Writer.NewInsert().Model(other).Exec(ctx)
	require.NoError(t, err)

	specs := []struct {
		number string
		user   int64
		status entity.OrderStatus
	}{
		{"ORD-BBBB0001", f.user.ID, entity.OrderPending},
		{"ORD-BBBB0002", f.user.ID, entity.OrderShipped},
		{"ORD-BBBB0003", other.ID, entity.OrderPending},
	}
	for _, spec := range specs {
		order := &entity.Order{OrderNumber: spec.number, UserID: spec.user, Status: spec.status}
		require.NoError(t, f.repo.Create(ctx, order, []int64{f.products[0].ID}))
	}

	pending := entity.OrderPending
	found, err := f.repo.List(ctx, Filter{Status: &pending, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	mine, err := f.repo.List(ctx, Filter{UserID: &f.user.ID, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	both, err := f.repo.List(ctx, Filter{Status: &pending, UserID: &other.ID, Limit: 50})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "ORD-BBBB0003", both[0].OrderNumber)
}

func TestDeleteRemovesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := &entity.Order{OrderNumber: "ORD-CCCC0001", UserID: f.user.ID, Status: entity.OrderPending}
	require.NoError(t, f.repo.Create(ctx, order, []int64{f.products[0].ID, f.products[2].ID}))

	require.NoError(t, f.repo.Delete(ctx, order.ID))

	_, err := f.repo.GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := f.conns.Reader.NewSelect().Model((*entity.OrderItem)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, items)

	products, err := f.conns.Reader.NewSelect().Model((*entity.Product)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, products)
}

func TestDeleteMissingOrder(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.repo.Delete(context.Background(), 424242), ErrNotFound)
}
