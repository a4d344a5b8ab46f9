package entitlement

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

func TestNewSetForRoleReturnsIndependentSet(t *testing.T) {
	first, err := NewSetForRole(domain.RoleAuditor)
	require.NoError(t, err)

	first.Grant(PermExportData)

	second, err := NewSetForRole(domain.RoleAuditor)
	require.NoError(t, err)
	require.False(t, second.Has(PermExportData), "template mutated through a returned set")
}

func TestChangeRoleDiscardsExtraGrants(t *testing.T) {
	set, err := NewSetForRole(domain.RoleAgent)
	require.NoError(t, err)

	set.Grant(PermExportData)
	require.True(t, set.Has(PermExportData))

	replaced, err := ChangeRole(domain.RoleAuditor)
	require.NoError(t, err)
	require.False(t, replaced.Has(PermExportData))
	require.True(t, replaced.Has(PermViewReports))
}

func TestChangeRoleUnknownRole(t *testing.T) {
	_, err := ChangeRole("intern")
	require.Error(t, err)
}
