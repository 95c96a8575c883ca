package shared

// Role is a high-level permission grouping assigned to a user.
type Role string

const (
	RoleAdmin            Role = "Admin"
	RoleInventoryManager Role = "Inventory Manager"
	RoleWarehouseStaff   Role = "Warehouse Staff"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleInventoryManager, RoleWarehouseStaff:
		return true
	default:
		return false
	}
}

// Operation names an action on a resource.
type Operation string

const (
	OpList     Operation = "list"
	OpGet      Operation = "get"
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpValidate Operation = "validate"
	OpDelete   Operation = "delete"
)

// Resource names an API resource group.
type Resource string

const (
	ResourceProducts    Resource = "products"
	ResourceCategories  Resource = "categories"
	ResourceWarehouses  Resource = "warehouses"
	ResourceReceipts    Resource = "receipts"
	ResourceDeliveries  Resource = "deliveries"
	ResourceAdjustments Resource = "adjustments"
	ResourceUsers       Resource = "users"
)

type permKey struct {
	Resource  Resource
	Operation Operation
}

var anyRole = []Role{RoleAdmin, RoleInventoryManager, RoleWarehouseStaff}
var managers = []Role{RoleAdmin, RoleInventoryManager}
var adminOnly = []Role{RoleAdmin}

// policy is the single declarative permission table. Handlers enforce it via
// Require; services never perform authorization themselves.
var policy = map[permKey][]Role{
	{ResourceProducts, OpList}:   anyRole,
	{ResourceProducts, OpGet}:    anyRole,
	{ResourceProducts, OpCreate}: managers,
	{ResourceProducts, OpUpdate}: managers,
	{ResourceProducts, OpDelete}: managers,

	{ResourceCategories, OpList}:   anyRole,
	{ResourceCategories, OpGet}:    anyRole,
	{ResourceCategories, OpCreate}: managers,
	{ResourceCategories, OpUpdate}: managers,
	{ResourceCategories, OpDelete}: managers,

	{ResourceWarehouses, OpList}:   anyRole,
	{ResourceWarehouses, OpGet}:    anyRole,
	{ResourceWarehouses, OpCreate}: adminOnly,
	{ResourceWarehouses, OpUpdate}: adminOnly,
	{ResourceWarehouses, OpDelete}: adminOnly,

	{ResourceReceipts, OpList}:     anyRole,
	{ResourceReceipts, OpGet}:      anyRole,
	{ResourceReceipts, OpCreate}:   anyRole,
	{ResourceReceipts, OpUpdate}:   anyRole,
	{ResourceReceipts, OpValidate}: managers,
	{ResourceReceipts, OpDelete}:   managers,

	{ResourceDeliveries, OpList}:     anyRole,
	{ResourceDeliveries, OpGet}:      anyRole,
	{ResourceDeliveries, OpCreate}:   anyRole,
	{ResourceDeliveries, OpUpdate}:   anyRole,
	{ResourceDeliveries, OpValidate}: managers,
	{ResourceDeliveries, OpDelete}:   managers,

	{ResourceAdjustments, OpList}:   anyRole,
	{ResourceAdjustments, OpGet}:    anyRole,
	{ResourceAdjustments, OpCreate}: managers,
	{ResourceAdjustments, OpDelete}: managers,

	{ResourceUsers, OpList}:   adminOnly,
	{ResourceUsers, OpGet}:    adminOnly,
	{ResourceUsers, OpCreate}: adminOnly,
	{ResourceUsers, OpUpdate}: adminOnly,
	{ResourceUsers, OpDelete}: adminOnly,
}

// Authorize reports whether the actor's role may perform op on resource.
// Unknown (resource, op) pairs are denied.
func Authorize(actor *Actor, resource Resource, op Operation) bool {
	if actor == nil {
		return false
	}
	allowed, ok := policy[permKey{Resource: resource, Operation: op}]
	if !ok {
		return false
	}
	for _, role := range allowed {
		if actor.Role == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns the roles permitted for (resource, op), nil when the
// pair is not in the table.
func AllowedRoles(resource Resource, op Operation) []Role {
	allowed := policy[permKey{Resource: resource, Operation: op}]
	out := make([]Role, len(allowed))
	copy(out, allowed)
	return out
}
