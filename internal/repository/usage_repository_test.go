package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestUsageRepository(t *testing.T) UsageRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewUsageRepository(client)
}

func TestUsageIncrementAndGet(t *testing.T) {
	repo := newTestUsageRepository(t)
	ctx := context.Background()

	value, err := repo.Increment(ctx, "t1", "projects")
	require.NoError(t, err)
	require.Equal(t, int64(1), value)

	value, err = repo.Increment(ctx, "t1", "projects")
	require.NoError(t, err)
	require.Equal(t, int64(2), value)

	value, err = repo.Get(ctx, "t1", "projects")
	require.NoError(t, err)
	require.Equal(t, int64(2), value)
}

func TestUsageGetMissingCounterIsZero(t *testing.T) {
	repo := newTestUsageRepository(t)

	value, err := repo.Get(context.Background(), "t1", "documents")
	require.NoError(t, err)
	require.Equal(t, int64(0), value)
}

func TestUsageDecrementFloorsAtZero(t *testing.T) {
	repo := newTestUsageRepository(t)
	ctx := context.Background()

	_, err := repo.Increment(ctx, "t1", "users")
	require.NoError(t, err)

	value, err := repo.Decrement(ctx, "t1", "users")
	require.NoError(t, err)
	require.Equal(t, int64(0), value)

	value, err = repo.Decrement(ctx, "t1", "users")
	require.NoError(t, err)
	require.Equal(t, int64(0), value)

	value, err = repo.Get(ctx, "t1", "users")
	require.NoError(t, err)
	require.Equal(t, int64(0), value)
}

func TestUsageCountersAreTenantScoped(t *testing.T) {
	repo := newTestUsageRepository(t)
	ctx := context.Background()

	_, err := repo.Increment(ctx, "t1", "projects")
	require.NoError(t, err)

	value, err := repo.Get(ctx, "t2", "projects")
	require.NoError(t, err)
	require.Equal(t, int64(0), value)
}
