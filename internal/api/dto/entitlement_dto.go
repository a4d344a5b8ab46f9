package dto

// CheckResponse is the authorization query result.
type CheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Limit   *int   `json:"limit,omitempty"`
}

// PermissionEntry pairs a permission identifier with its display label.
type PermissionEntry struct {
	Permission string `json:"permission"`
	Label      string `json:"label"`
}
