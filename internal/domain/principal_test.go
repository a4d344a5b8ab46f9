package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionSetGrantRevokeIdempotent(t *testing.T) {
	set := NewPermissionSet("view_properties")

	set.Grant("create_tenants")
	set.Grant("create_tenants")
	require.True(t, set.Has("create_tenants"))
	require.Len(t, set.List(), 2)

	set.Revoke("create_tenants")
	set.Revoke("create_tenants")
	require.False(t, set.Has("create_tenants"))
	require.Len(t, set.List(), 1)
}

func TestPermissionSetCloneIsIndependent(t *testing.T) {
	set := NewPermissionSet("view_properties")
	clone := set.Clone()

	clone.Grant("export_data")
	require.True(t, clone.Has("export_data"))
	require.False(t, set.Has("export_data"))
}
