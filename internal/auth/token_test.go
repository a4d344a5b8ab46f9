package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

func TestTokenCarriesSessionID(t *testing.T) {
	tm := NewTokenManager("test-secret")
	role := domain.RoleManager

	token, err := tm.GenerateToken("sess-123", "p1", domain.SubjectTypePrincipal, "t1", &role, time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "sess-123", claims.SessionID)
	require.Equal(t, "p1", claims.SubjectID)
	require.Equal(t, domain.SubjectTypePrincipal, claims.Subject)
	require.Equal(t, "t1", claims.TenantID)
	require.NotNil(t, claims.Role)
	require.Equal(t, domain.RoleManager, *claims.Role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token, err := tm.GenerateToken("sess-123", "op1", domain.SubjectTypeOperator, "", nil, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = NewTokenManager("other-secret").ParseToken(token)
	require.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token, err := tm.GenerateToken("sess-123", "p1", domain.SubjectTypePrincipal, "t1", nil, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	require.Error(t, err)
}
