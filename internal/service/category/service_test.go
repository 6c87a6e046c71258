package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/playground/internal/auth"
	"github.com/Additional-Code/playground/internal/database"
	"github.com/Additional-Code/playground/internal/dto"
	"github.com/Additional-Code/playground/internal/entity"
	repo "github.com/Additional-Code/playground/internal/repository/category"
	"github.com/Additional-Code/playground/pkg/errorbank"
)

var tester = auth.Identity{UserID: 2, Role: entity.RoleTester}
var viewer = auth.Identity{UserID: 3, Role: entity.RoleViewer}

func newTestService(t *testing.T) *Service {
	t.Helper()
	conns := database.NewTestConnections(t)
	return NewService(repo.NewRepository(conns), zap.NewNop())
}

func TestCreateDefaultsActive(t *testing.T) {
	svc := newTestService(t)

	category, err := svc.Create(context.Background(), tester, dto.CategoryCreate{Name: "Books"})
	require.NoError(t, err)
	assert.True(t, category.IsActive)
	assert.NotZero(t, category.ID)
}

func TestCreateDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tester, dto.CategoryCreate{Name: "Books"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tester, dto.CategoryCreate{Name: "Books"})
	require.Error(t, err)
	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindConflict, appErr.Kind())
	assert.Equal(t, "name", appErr.Details()["field"])
}

func TestWritesForbiddenForViewer(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, tester, dto.CategoryCreate{Name: "Sports"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, viewer, dto.CategoryCreate{Name: "Blocked"})
	assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())

	name := "Renamed"
	_, err = svc.Update(ctx, viewer, created.ID, dto.CategoryUpdate{Name: &name})
	assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())

	err = svc.Delete(ctx, viewer, created.ID)
	assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())

	// Reads stay open to viewers.
	_, err = svc.Get(ctx, viewer, created.ID)
	assert.NoError(t, err)
}

func TestUpdateRenameConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tester, dto.CategoryCreate{Name: "Books"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, tester, dto.CategoryCreate{Name: "Sports"})
	require.NoError(t, err)

	conflict := "Books"
	_, err = svc.Update(ctx, tester, second.ID, dto.CategoryUpdate{Name: &conflict})
	assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())

	// Re-submitting its own name is not a conflict.
	own := "Sports"
	updated, err := svc.Update(ctx, tester, second.ID, dto.CategoryUpdate{Name: &own})
	require.NoError(t, err)
	assert.Equal(t, "Sports", updated.Name)
}

func TestDeleteMissing(t *testing.T) {
	svc := newTestService(t)

	err := svc.Delete(context.Background(), tester, 9001)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}
