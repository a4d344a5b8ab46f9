package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

// PrincipalRepository defines persistence access for tenant principals.
type PrincipalRepository interface {
	Create(ctx context.Context, principal *domain.Principal) error
	Update(ctx context.Context, principal *domain.Principal) error
	GetByID(ctx context.Context, id string) (*domain.Principal, error)
	GetByEmail(ctx context.Context, email string) (*domain.Principal, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Principal, error)
	Archive(ctx context.Context, id string) error
}

type principalRepository struct {
	pool *pgxpool.Pool
}

// NewPrincipalRepository returns a Postgres-backed implementation.
func NewPrincipalRepository(pool *pgxpool.Pool) PrincipalRepository {
	return &principalRepository{pool: pool}
}

func (r *principalRepository) Create(ctx context.Context, principal *domain.Principal) error {
	const query = `
        INSERT INTO principals (tenant_id, name, email, password_hash, role, permissions)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		principal.TenantID,
		principal.Name,
		principal.Email,
		principal.PasswordHash,
		principal.Role,
		permissionsToStrings(principal.Permissions),
	).Scan(&principal.ID, &principal.CreatedAt, &principal.UpdatedAt)
}

func (r *principalRepository) Update(ctx context.Context, principal *domain.Principal) error {
	const query = `
        UPDATE principals
        SET name=$1, email=$2, password_hash=$3, role=$4, permissions=$5, archived=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		principal.Name,
		principal.Email,
		principal.PasswordHash,
		principal.Role,
		permissionsToStrings(principal.Permissions),
		principal.Archived,
		principal.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *principalRepository) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	const query = `
        SELECT id, tenant_id, name, email, password_hash, role, permissions, archived, created_at, updated_at
        FROM principals WHERE id=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *principalRepository) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	const query = `
        SELECT id, tenant_id, name, email, password_hash, role, permissions, archived, created_at, updated_at
        FROM principals WHERE email=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *principalRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Principal, error) {
	const query = `
        SELECT id, tenant_id, name, email, password_hash, role, permissions, archived, created_at, updated_at
        FROM principals WHERE tenant_id=$1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var principals []*domain.Principal
	for rows.Next() {
		principal, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		principals = append(principals, principal)
	}
	return principals, rows.Err()
}

func (r *principalRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE principals SET archived=TRUE, updated_at=NOW() WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *principalRepository) scanOne(row pgx.Row) (*domain.Principal, error) {
	var principal domain.Principal
	var permissions []string
	if err := row.Scan(
		&principal.ID,
		&principal.TenantID,
		&principal.Name,
		&principal.Email,
		&principal.PasswordHash,
		&principal.Role,
		&permissions,
		&principal.Archived,
		&principal.CreatedAt,
		&principal.UpdatedAt,
	); err != nil {
		return nil, err
	}
	principal.Permissions = stringsToPermissions(permissions)
	return &principal, nil
}

func permissionsToStrings(set domain.PermissionSet) []string {
	out := make([]string, 0, len(set))
	for _, p := range set.List() {
		out = append(out, string(p))
	}
	return out
}

func stringsToPermissions(values []string) domain.PermissionSet {
	set := make(domain.PermissionSet, len(values))
	for _, v := range values {
		set.Grant(domain.Permission(v))
	}
	return set
}
