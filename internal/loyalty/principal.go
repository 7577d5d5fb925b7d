package loyalty

import "github.com/fidelizaa/loyalty/internal/models"

// Principal is the authenticated identity attached to store-scoped calls.
// Super admins carry no store scope; store owners are bound to one store.
type Principal struct {
	UserID  uint64
	Role    string
	StoreID *uint64
}

// IsSuperAdmin reports whether the principal administers the platform.
func (p Principal) IsSuperAdmin() bool {
	return p.Role == models.RoleSuperAdmin
}

// StoreScope returns the store the principal operates, or ErrTenantMismatch
// when the principal has no store binding.
func (p Principal) StoreScope() (uint64, error) {
	if p.Role != models.RoleStoreOwner || p.StoreID == nil {
		return 0, ErrTenantMismatch
	}
	return *p.StoreID, nil
}
