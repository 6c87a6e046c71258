package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/entity"
)

func seedCategory(t *testing.T, repo *Repository, name string) *entity.Category {
	t.Helper()
	category := &entity.Category{Name: name, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), category))
	return category
}

func TestGetByName(t *testing.T) {
	conns := database.NewTestConnections(t)
	repo := NewRepository(conns)
	ctx := context.Background()

	created := seedCategory(t, repo, "Electronics")

	found, err := repo.GetByName(ctx, "Electronics")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetByName(ctx, "Nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	conns := database.NewTestConnections(t)
	repo := NewRepository(conns)
	ctx := context.Background()

	seedCategory(t, repo, "Electronics")
	seedCategory(t, repo, "Books")

	found, err := repo.List(ctx, Filter{Search: "ELECTRO", Limit: 50})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Electronics", found[0].Name)

	none, err := repo.List(ctx, Filter{Search: "garden", Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListActiveFilter(t *testing.T) {
	conns := database.NewTestConnections(t)
	repo := NewRepository(conns)
	ctx := context.Background()

	seedCategory(t, repo, "Active")
	disabled := seedCategory(t, repo, "Disabled")
	disabled.IsActive = false
	require.NoError(t, repo.Update(ctx, disabled))

	active := true
	found, err := repo.List(ctx, Filter{IsActive: &active, Limit: 50})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Active", found[0].Name)
}

func TestDeleteDetachesProducts(t *testing.T) {
	conns := database.NewTestConnections(t)
	repo := NewRepository(conns)
	ctx := context.Background()

	category := seedCategory(t, repo, "Electronics")
	product := &entity.Product{
		Name:       "Laptop",
		Price:      999.99,
		SKU:        "SKU-C001",
		IsActive:   true,
		CategoryID: &category.ID,
	}
	_, err := conns.Writer.NewInsert().Model(product).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, category.ID))

	_, err = repo.GetByID(ctx, category.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	survivor := new(entity.Product)
	err = conns.Reader.NewSelect().Model(survivor).Where("id = ?", product.ID).Scan(ctx)
	require.NoError(t, err)
	assert.Nil(t, survivor.CategoryID, "product keeps existing without a category")
}

func TestDeleteMissingCategory(t *testing.T) {
	conns := database.NewTestConnections(t)
	repo := NewRepository(conns)

	err := repo.Delete(context.Background(), 777)
	assert.ErrorIs(t, err, ErrNotFound)
}
