package auth

import "github.com/Additional-Code/playground/internal/entity"

// Resource identifies a protected resource class.
type Resource string

const (
	ResourceUsers      Resource = "users"
	ResourceCategories Resource = "categories"
	ResourceProducts   Resource = "products"
	ResourceOrders     Resource = "orders"
)

// Action identifies an operation on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionCancel Action = "cancel"
)

// rule is a single cell of the access matrix. ownerOnly restricts the grant
// to rows owned by the requester.
type rule struct {
	ownerOnly bool
}

var crud = map[Action]rule{
	ActionRead:   {},
	ActionCreate: {},
	ActionUpdate: {},
	ActionDelete: {},
}

var crudAndCancel = map[Action]rule{
	ActionRead:   {},
	ActionCreate: {},
	ActionUpdate: {},
	ActionDelete: {},
	ActionCancel: {},
}

var readOnly = map[Action]rule{
	ActionRead: {},
}

// matrix is the full role access table. Admin is handled separately as an
// unconditional allow. An absent cell means deny.
var matrix = map[entity.Role]map[Resource]map[Action]rule{
	entity.RoleTester: {
		ResourceUsers:      readOnly,
		ResourceCategories: crud,
		ResourceProducts:   crud,
		ResourceOrders:     crudAndCancel,
	},
	entity.RoleViewer: {
		ResourceUsers:      readOnly,
		ResourceCategories: readOnly,
		ResourceProducts:   readOnly,
		ResourceOrders: {
			ActionRead:   {ownerOnly: true},
			ActionCancel: {ownerOnly: true},
		},
	},
}

// Permit decides whether a role may perform an action on a resource.
// isOwner matters only for owner-scoped cells (viewer on orders).
func Permit(role entity.Role, resource Resource, action Action, isOwner bool) bool {
	if role == entity.RoleAdmin {
		return true
	}
	resources, ok := matrix[role]
	if !ok {
		return false
	}
	actions, ok := resources[resource]
	if !ok {
		return false
	}
	r, ok := actions[action]
	if !ok {
		return false
	}
	if r.ownerOnly {
		return isOwner
	}
	return true
}

// ScopeToOwner reports whether list operations must be narrowed to rows the
// requester owns. Unlike Permit, the operation itself stays allowed; only its
// scope shrinks.
func ScopeToOwner(role entity.Role, resource Resource) bool {
	if role == entity.RoleAdmin {
		return false
	}
	resources, ok := matrix[role]
	if !ok {
		return false
	}
	actions, ok := resources[resource]
	if !ok {
		return false
	}
	r, ok := actions[ActionRead]
	if !ok {
		return false
	}
	return r.ownerOnly
}
