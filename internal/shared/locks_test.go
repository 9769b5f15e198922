package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRunLockAcquireRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lock := NewRunLock(client, time.Minute)
	key := EmployeeMonthLockKey("emp-1", 2025, time.March)

	ctx := context.Background()
	require.NoError(t, lock.Acquire(ctx, key))
	require.ErrorIs(t, lock.Acquire(ctx, key), ErrLocked)
	require.NoError(t, lock.Release(ctx, key))
	require.NoError(t, lock.Acquire(ctx, key))
}

func TestRunLockExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lock := NewRunLock(client, time.Second)
	key := EmployeeMonthLockKey("emp-1", 2025, time.April)

	ctx := context.Background()
	require.NoError(t, lock.Acquire(ctx, key))
	mr.FastForward(2 * time.Second)
	require.NoError(t, lock.Acquire(ctx, key))
}

func TestRunLockNilClientIsNoop(t *testing.T) {
	lock := NewRunLock(nil, time.Minute)
	require.NoError(t, lock.Acquire(context.Background(), "any"))
	require.NoError(t, lock.Release(context.Background(), "any"))
}
