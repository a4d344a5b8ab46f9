package entitlement

import "github.com/DOUMBISSS/ged-immo-sub001/internal/domain"

// NewSetForRole initializes a principal permission set from the role
// template. The returned set is independent and freely editable.
func NewSetForRole(role domain.Role) (domain.PermissionSet, error) {
	return PermissionsForRole(role)
}

// ChangeRole replaces the set wholesale with the new role's defaults.
// Any previously hand-granted extra permissions are discarded; downstream
// callers rely on this for de-provisioning elevated access.
func ChangeRole(newRole domain.Role) (domain.PermissionSet, error) {
	return PermissionsForRole(newRole)
}
