package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/auth"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/entitlement"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/repository"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/session"
)

// PrincipalService manages tenant principals and their permission sets.
type PrincipalService struct {
	principals repository.PrincipalRepository
	sessions   *session.Manager
	logger     *zap.Logger
	bcryptCost int
}

// NewPrincipalService builds the service.
func NewPrincipalService(principals repository.PrincipalRepository, sessions *session.Manager, logger *zap.Logger, bcryptCost int) *PrincipalService {
	return &PrincipalService{
		principals: principals,
		sessions:   sessions,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Create provisions a principal with the role template's default
// permissions. An unknown role fails hard before anything is persisted.
func (s *PrincipalService) Create(ctx context.Context, tenantID, name, email, password string, role domain.Role) (*domain.Principal, error) {
	perms, err := entitlement.NewSetForRole(role)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	principal := &domain.Principal{
		TenantID:     tenantID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Permissions:  perms,
	}
	if err := s.principals.Create(ctx, principal); err != nil {
		return nil, err
	}
	return principal, nil
}

// Get loads a principal by id.
func (s *PrincipalService) Get(ctx context.Context, id string) (*domain.Principal, error) {
	return s.principals.GetByID(ctx, id)
}

// ListByTenant lists a tenant's principals.
func (s *PrincipalService) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Principal, error) {
	return s.principals.ListByTenant(ctx, tenantID)
}

// Grant adds a permission to the principal's set. Granting an
// already-granted permission is a no-op. Permissions outside the catalog
// are rejected so typos cannot mint phantom grants.
func (s *PrincipalService) Grant(ctx context.Context, id string, perm domain.Permission) (*domain.Principal, error) {
	if !entitlement.Known(perm) {
		return nil, &entitlement.UnknownPermissionError{Permission: perm}
	}
	principal, err := s.principals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	principal.Permissions.Grant(perm)
	if err := s.principals.Update(ctx, principal); err != nil {
		return nil, err
	}
	return principal, nil
}

// Revoke removes a permission from the principal's set. Revoking an absent
// permission is a no-op.
func (s *PrincipalService) Revoke(ctx context.Context, id string, perm domain.Permission) (*domain.Principal, error) {
	principal, err := s.principals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	principal.Permissions.Revoke(perm)
	if err := s.principals.Update(ctx, principal); err != nil {
		return nil, err
	}
	return principal, nil
}

// ChangeRole replaces the principal's permission set wholesale with the new
// role's defaults. Hand-granted extras are discarded; callers rely on this
// to de-provision elevated access in one step.
func (s *PrincipalService) ChangeRole(ctx context.Context, id string, newRole domain.Role) (*domain.Principal, error) {
	perms, err := entitlement.ChangeRole(newRole)
	if err != nil {
		return nil, err
	}
	principal, err := s.principals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	principal.Role = newRole
	principal.Permissions = perms
	if err := s.principals.Update(ctx, principal); err != nil {
		return nil, err
	}
	return principal, nil
}

// Archive retires a principal by explicit administrator action and forces
// any live session closed.
func (s *PrincipalService) Archive(ctx context.Context, id string) error {
	if err := s.principals.Archive(ctx, id); err != nil {
		return err
	}
	revoked := s.sessions.RevokeSubject(id)
	s.logger.Info("principal archived",
		zap.String("principal_id", id),
		zap.Int("sessions_revoked", revoked))
	return nil
}
