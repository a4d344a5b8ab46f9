package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

// RenewalRepository defines persistence access for renewal requests.
type RenewalRepository interface {
	Create(ctx context.Context, req *domain.RenewalRequest) error
	GetByID(ctx context.Context, id string) (*domain.RenewalRequest, error)
	ListPendingByTenant(ctx context.Context, tenantID string) ([]*domain.RenewalRequest, error)
	MarkDecided(ctx context.Context, id string, status domain.RenewalStatus, decidedBy string, decidedAt time.Time) error
}

type renewalRepository struct {
	pool *pgxpool.Pool
}

// NewRenewalRepository returns a Postgres-backed implementation.
func NewRenewalRepository(pool *pgxpool.Pool) RenewalRepository {
	return &renewalRepository{pool: pool}
}

func (r *renewalRepository) Create(ctx context.Context, req *domain.RenewalRequest) error {
	const query = `
        INSERT INTO renewal_requests (tenant_id, plan, months, status, requested_by, note)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		req.TenantID,
		req.Plan,
		req.Months,
		req.Status,
		req.RequestedBy,
		req.Note,
	).Scan(&req.ID, &req.CreatedAt)
}

func (r *renewalRepository) GetByID(ctx context.Context, id string) (*domain.RenewalRequest, error) {
	const query = `
        SELECT id, tenant_id, plan, months, status, requested_by, decided_by, note, created_at, decided_at
        FROM renewal_requests WHERE id=$1`

	return scanRenewal(r.pool.QueryRow(ctx, query, id))
}

func (r *renewalRepository) ListPendingByTenant(ctx context.Context, tenantID string) ([]*domain.RenewalRequest, error) {
	const query = `
        SELECT id, tenant_id, plan, months, status, requested_by, decided_by, note, created_at, decided_at
        FROM renewal_requests WHERE tenant_id=$1 AND status='PENDING' ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.RenewalRequest
	for rows.Next() {
		req, err := scanRenewal(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *renewalRepository) MarkDecided(ctx context.Context, id string, status domain.RenewalStatus, decidedBy string, decidedAt time.Time) error {
	const query = `
        UPDATE renewal_requests SET status=$1, decided_by=$2, decided_at=$3
        WHERE id=$4 AND status='PENDING'`

	cmd, err := r.pool.Exec(ctx, query, status, decidedBy, decidedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanRenewal(row pgx.Row) (*domain.RenewalRequest, error) {
	var req domain.RenewalRequest
	if err := row.Scan(
		&req.ID,
		&req.TenantID,
		&req.Plan,
		&req.Months,
		&req.Status,
		&req.RequestedBy,
		&req.DecidedBy,
		&req.Note,
		&req.CreatedAt,
		&req.DecidedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}
