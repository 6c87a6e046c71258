package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Additional-Code/playground/internal/entity"
)

func TestPermitAdminAlwaysAllowed(t *testing.T) {
	for _, resource := range []Resource{ResourceUsers, ResourceCategories, ResourceProducts, ResourceOrders} {
		for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionCancel} {
			assert.True(t, Permit(entity.RoleAdmin, resource, action, false),
				"admin should be allowed %s on %s", action, resource)
		}
	}
}

func TestPermitTester(t *testing.T) {
	cases := []struct {
		resource Resource
		action   Action
		allowed  bool
	}{
		{ResourceUsers, ActionRead, true},
		{ResourceUsers, ActionCreate, false},
		{ResourceUsers, ActionUpdate, false},
		{ResourceUsers, ActionDelete, false},
		{ResourceCategories, ActionRead, true},
		{ResourceCategories, ActionCreate, true},
		{ResourceCategories, ActionUpdate, true},
		{ResourceCategories, ActionDelete, true},
		{ResourceProducts, ActionRead, true},
		{ResourceProducts, ActionCreate, true},
		{ResourceProducts, ActionUpdate, true},
		{ResourceProducts, ActionDelete, true},
		{ResourceOrders, ActionRead, true},
		{ResourceOrders, ActionCreate, true},
		{ResourceOrders, ActionUpdate, true},
		{ResourceOrders, ActionDelete, true},
		{ResourceOrders, ActionCancel, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, Permit(entity.RoleTester, tc.resource, tc.action, false),
			"tester %s on %s", tc.action, tc.resource)
	}
}

func TestPermitViewer(t *testing.T) {
	cases := []struct {
		resource Resource
		action   Action
		isOwner  bool
		allowed  bool
	}{
		{ResourceUsers, ActionRead, false, true},
		{ResourceUsers, ActionUpdate, false, false},
		{ResourceCategories, ActionRead, false, true},
		{ResourceCategories, ActionCreate, false, false},
		{ResourceCategories, ActionDelete, false, false},
		{ResourceProducts, ActionRead, false, true},
		{ResourceProducts, ActionCreate, false, false},
		{ResourceProducts, ActionUpdate, false, false},
		{ResourceOrders, ActionRead, true, true},
		{ResourceOrders, ActionRead, false, false},
		{ResourceOrders, ActionCancel, true, true},
		{ResourceOrders, ActionCancel, false, false},
		{ResourceOrders, ActionCreate, true, false},
		{ResourceOrders, ActionUpdate, false, false},
		{ResourceOrders, ActionDelete, false, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, Permit(entity.RoleViewer, tc.resource, tc.action, tc.isOwner),
			"viewer %s on %s owner=%v", tc.action, tc.resource, tc.isOwner)
	}
}

func TestPermitUnknownRoleDenied(t *testing.T) {
	assert.False(t, Permit(entity.Role("ghost"), ResourceUsers, ActionRead, true))
}

func TestScopeToOwner(t *testing.T) {
	assert.False(t, ScopeToOwner(entity.RoleAdmin, ResourceOrders))
	assert.False(t, ScopeToOwner(entity.RoleTester, ResourceOrders))
	assert.True(t, ScopeToOwner(entity.RoleViewer, ResourceOrders))
	assert.False(t, ScopeToOwner(entity.RoleViewer, ResourceProducts))
}
