package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/repository"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/session"
	apperrors "github.com/DOUMBISSS/ged-immo-sub001/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	Principal   *domain.Principal
	Operator    *domain.Operator
	Session     *session.Session
}

// TenantID returns the tenant scope of the caller, empty for operators.
func (p *Principal) TenantID() string {
	if p.Principal != nil {
		return p.Principal.TenantID
	}
	return ""
}

// AuthMiddleware validates bearer tokens, resolves the live session and
// loads the caller. No valid session means no entitlement check is ever
// performed.
type AuthMiddleware struct {
	tokens     *TokenManager
	sessions   *session.Manager
	principals repository.PrincipalRepository
	operators  repository.OperatorRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions *session.Manager, principals repository.PrincipalRepository, operators repository.OperatorRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions, principals: principals, operators: operators}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	sess, err := m.sessions.Resolve(claims.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionExpired):
			return apperrors.NewSessionExpired()
		case errors.Is(err, session.ErrSessionNotFound):
			return apperrors.NewSessionNotFound()
		default:
			return apperrors.MapError(err)
		}
	}

	principal := &Principal{SubjectType: claims.Subject, Session: sess}

	switch claims.Subject {
	case domain.SubjectTypePrincipal:
		p, err := m.principals.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("principal not found")
			}
			return apperrors.MapError(err)
		}
		if p.Archived {
			return apperrors.NewUnauthorized("principal archived")
		}
		principal.Principal = p
	case domain.SubjectTypeOperator:
		op, err := m.operators.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("operator not found")
			}
			return apperrors.MapError(err)
		}
		if !op.Active {
			return apperrors.NewUnauthorized("operator inactive")
		}
		principal.Operator = op
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
