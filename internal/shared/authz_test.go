package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolicyCoversEveryResource(t *testing.T) {
	resources := []Resource{
		ResourceProducts, ResourceCategories, ResourceWarehouses,
		ResourceReceipts, ResourceDeliveries, ResourceAdjustments, ResourceUsers,
	}
	for _, resource := range resources {
		require.NotEmpty(t, AllowedRoles(resource, OpList), "list %s", resource)
		require.NotEmpty(t, AllowedRoles(resource, OpGet), "get %s", resource)
		require.NotEmpty(t, AllowedRoles(resource, OpCreate), "create %s", resource)
		require.NotEmpty(t, AllowedRoles(resource, OpDelete), "delete %s", resource)
	}
}

func TestAuthorizeByRole(t *testing.T) {
	admin := &Actor{UserID: 1, Role: RoleAdmin}
	manager := &Actor{UserID: 2, Role: RoleInventoryManager}
	staff := &Actor{UserID: 3, Role: RoleWarehouseStaff}

	tests := []struct {
		name     string
		actor    *Actor
		resource Resource
		op       Operation
		want     bool
	}{
		{"staff can list products", staff, ResourceProducts, OpList, true},
		{"staff cannot create products", staff, ResourceProducts, OpCreate, false},
		{"manager can create products", manager, ResourceProducts, OpCreate, true},
		{"staff can create receipts", staff, ResourceReceipts, OpCreate, true},
		{"staff cannot validate receipts", staff, ResourceReceipts, OpValidate, false},
		{"manager can validate deliveries", manager, ResourceDeliveries, OpValidate, true},
		{"staff cannot create adjustments", staff, ResourceAdjustments, OpCreate, false},
		{"manager cannot create warehouses", manager, ResourceWarehouses, OpCreate, false},
		{"admin can create warehouses", admin, ResourceWarehouses, OpCreate, true},
		{"manager cannot list users", manager, ResourceUsers, OpList, false},
		{"admin can list users", admin, ResourceUsers, OpList, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Authorize(tt.actor, tt.resource, tt.op))
		})
	}
}

func TestAuthorizeDeniesAnonymousAndUnknownPairs(t *testing.T) {
	require.False(t, Authorize(nil, ResourceProducts, OpList))

	// Adjustments have no update or validate; absent table entries deny.
	admin := &Actor{UserID: 1, Role: RoleAdmin}
	require.False(t, Authorize(admin, ResourceAdjustments, OpUpdate))
	require.False(t, Authorize(admin, ResourceAdjustments, OpValidate))
}
