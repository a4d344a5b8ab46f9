package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

// TokenManager handles issuing and validating JWT bearer tokens. The JWT is
// only an envelope: the session id inside it is what authorizes, and the
// session manager remains free to revoke it server-side.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Claims describes the JWT payload.
type Claims struct {
	SessionID string             `json:"sid"`
	SubjectID string             `json:"sub_id"`
	Subject   domain.SubjectType `json:"subject"`
	TenantID  string             `json:"tenant_id,omitempty"`
	Role      *domain.Role       `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT wrapping the session.
func (tm *TokenManager) GenerateToken(sessionID, subjectID string, subject domain.SubjectType, tenantID string, role *domain.Role, expiresAt time.Time) (string, error) {
	claims := &Claims{
		SessionID: sessionID,
		SubjectID: subjectID,
		Subject:   subject,
		TenantID:  tenantID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
