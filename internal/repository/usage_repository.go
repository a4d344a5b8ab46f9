package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// UsageRepository tracks per-tenant usage counters consulted during quota
// checks. The surrounding CRUD app increments and decrements them as
// resources are created and destroyed.
type UsageRepository interface {
	Increment(ctx context.Context, tenantID, metric string) (int64, error)
	Decrement(ctx context.Context, tenantID, metric string) (int64, error)
	Get(ctx context.Context, tenantID, metric string) (int64, error)
}

type usageRepository struct {
	client *redis.Client
}

// NewUsageRepository returns a Redis-backed implementation.
func NewUsageRepository(client *redis.Client) UsageRepository {
	return &usageRepository{client: client}
}

func usageKey(tenantID, metric string) string {
	return fmt.Sprintf("usage:%s:%s", tenantID, metric)
}

func (r *usageRepository) Increment(ctx context.Context, tenantID, metric string) (int64, error) {
	return r.client.Incr(ctx, usageKey(tenantID, metric)).Result()
}

// Decrement floors at zero so delete storms cannot drive a counter negative.
func (r *usageRepository) Decrement(ctx context.Context, tenantID, metric string) (int64, error) {
	value, err := r.client.Decr(ctx, usageKey(tenantID, metric)).Result()
	if err != nil {
		return 0, err
	}
	if value < 0 {
		if err := r.client.Set(ctx, usageKey(tenantID, metric), 0, 0).Err(); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return value, nil
}

func (r *usageRepository) Get(ctx context.Context, tenantID, metric string) (int64, error) {
	value, err := r.client.Get(ctx, usageKey(tenantID, metric)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}
