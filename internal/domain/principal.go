package domain

import "time"

// Role enumerates the fixed role identifiers a principal can hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
	RoleAuditor Role = "auditor"
	RoleUser    Role = "user"
)

// Permission is an opaque permission identifier such as "create_tenants".
// Every permission referenced anywhere must exist in the catalog.
type Permission string

// PermissionSet holds the resolved permissions of a principal.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Grant adds a permission. Granting an already-granted permission is a no-op.
func (s PermissionSet) Grant(p Permission) {
	s[p] = struct{}{}
}

// Revoke removes a permission. Revoking an absent permission is a no-op.
func (s PermissionSet) Revoke(p Permission) {
	delete(s, p)
}

// List returns the permissions as a slice for persistence and transport.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

// Clone returns an independent copy of the set.
func (s PermissionSet) Clone() PermissionSet {
	out := make(PermissionSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Principal is an authenticated actor belonging to a tenant. Its permission
// set is seeded from the role template at creation and may diverge from the
// role default afterwards.
type Principal struct {
	ID           string
	TenantID     string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Permissions  PermissionSet
	Archived     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
