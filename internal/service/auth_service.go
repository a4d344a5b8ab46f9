package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/auth"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/config"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/repository"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/session"
)

// AuthService coordinates login and logout for principals and operators.
type AuthService struct {
	principals repository.PrincipalRepository
	operators  repository.OperatorRepository
	sessions   *session.Manager
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	PrincipalRepo repository.PrincipalRepository
	OperatorRepo  repository.OperatorRepository
	Sessions      *session.Manager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		principals: deps.PrincipalRepo,
		operators:  deps.OperatorRepo,
		sessions:   deps.Sessions,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// LoginPrincipal authenticates a tenant principal and opens a session.
func (s *AuthService) LoginPrincipal(ctx context.Context, email, password string) (*domain.Principal, string, time.Time, error) {
	principal, err := s.principals.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, errors.New("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if principal.Archived {
		return nil, "", time.Time{}, errors.New("principal archived")
	}
	if err := auth.ComparePassword(principal.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}

	sess := s.sessions.Login(session.Identity{
		Subject:   domain.SubjectTypePrincipal,
		SubjectID: principal.ID,
		TenantID:  principal.TenantID,
	})
	token, err := s.tokenMgr.GenerateToken(sess.Token, principal.ID, domain.SubjectTypePrincipal, principal.TenantID, &principal.Role, sess.ExpiresAt)
	if err != nil {
		s.sessions.Logout(sess.Token)
		return nil, "", time.Time{}, err
	}
	return principal, token, sess.ExpiresAt, nil
}

// LoginOperator authenticates a platform operator and opens a session.
func (s *AuthService) LoginOperator(ctx context.Context, email, password string) (*domain.Operator, string, time.Time, error) {
	operator, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, errors.New("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if !operator.Active {
		return nil, "", time.Time{}, errors.New("operator inactive")
	}
	if err := auth.ComparePassword(operator.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}

	sess := s.sessions.Login(session.Identity{
		Subject:   domain.SubjectTypeOperator,
		SubjectID: operator.ID,
	})
	token, err := s.tokenMgr.GenerateToken(sess.Token, operator.ID, domain.SubjectTypeOperator, "", nil, sess.ExpiresAt)
	if err != nil {
		s.sessions.Logout(sess.Token)
		return nil, "", time.Time{}, err
	}
	return operator, token, sess.ExpiresAt, nil
}

// Logout destroys the session behind the token; all pending expiry timers
// are cancelled before this returns.
func (s *AuthService) Logout(_ context.Context, sessionToken string) error {
	s.sessions.Logout(sessionToken)
	return nil
}

// SessionStatus reports the heartbeat view of a session.
func (s *AuthService) SessionStatus(sessionToken string) (session.Status, error) {
	return s.sessions.Status(sessionToken)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
