package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
)

// SubscriptionRepository defines persistence access for subscription records.
type SubscriptionRepository interface {
	GetByTenant(ctx context.Context, tenantID string) (*domain.Subscription, error)
	Save(ctx context.Context, sub *domain.Subscription) error
	ListScheduledDue(ctx context.Context, now time.Time) ([]*domain.Subscription, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository returns a Postgres-backed implementation.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, tenant_id, plan, start_at, end_at, suspended,
        scheduled_plan, scheduled_start, scheduled_end, created_at, updated_at`

func (r *subscriptionRepository) GetByTenant(ctx context.Context, tenantID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE tenant_id=$1`

	return scanSubscription(r.pool.QueryRow(ctx, query, tenantID))
}

// Save upserts on tenant_id: the record is 1:1 with its tenant.
func (r *subscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (tenant_id, plan, start_at, end_at, suspended, scheduled_plan, scheduled_start, scheduled_end)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (tenant_id) DO UPDATE
        SET plan=EXCLUDED.plan, start_at=EXCLUDED.start_at, end_at=EXCLUDED.end_at,
            suspended=EXCLUDED.suspended, scheduled_plan=EXCLUDED.scheduled_plan,
            scheduled_start=EXCLUDED.scheduled_start, scheduled_end=EXCLUDED.scheduled_end,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`

	var scheduledPlan *string
	if sub.ScheduledPlan != nil {
		v := string(*sub.ScheduledPlan)
		scheduledPlan = &v
	}

	return r.pool.QueryRow(ctx, query,
		sub.TenantID,
		sub.Plan,
		sub.Start,
		sub.End,
		sub.Suspended,
		scheduledPlan,
		sub.ScheduledStart,
		sub.ScheduledEnd,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *subscriptionRepository) ListScheduledDue(ctx context.Context, now time.Time) ([]*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE scheduled_start IS NOT NULL AND scheduled_start <= $1`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var sub domain.Subscription
	var scheduledPlan *string
	if err := row.Scan(
		&sub.ID,
		&sub.TenantID,
		&sub.Plan,
		&sub.Start,
		&sub.End,
		&sub.Suspended,
		&scheduledPlan,
		&sub.ScheduledStart,
		&sub.ScheduledEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if scheduledPlan != nil {
		plan := domain.SubscriptionPlan(*scheduledPlan)
		sub.ScheduledPlan = &plan
	}
	return &sub, nil
}
