package dto

import "time"

// CreatePrincipalRequest payload for provisioning a tenant principal.
type CreatePrincipalRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// PermissionChangeRequest payload for grant/revoke.
type PermissionChangeRequest struct {
	Permission string `json:"permission"`
}

// ChangeRoleRequest payload for wholesale role change.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// PrincipalResponse describes a principal.
type PrincipalResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
}
