package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EmployeeMonthLockKey builds redis keys serialising document generation
// for one employee's month. Two overlapping runs for the same employee
// and month would otherwise race between the duplicate check and the
// create call.
func EmployeeMonthLockKey(employeeID string, year int, month time.Month) string {
	return fmt.Sprintf("reconcile:employee:%s:%04d-%02d:lock", employeeID, year, int(month))
}

// RunLock acquires short-lived redis locks around reconciliation
// critical sections. A nil client disables locking, which is acceptable
// when only one reconciler instance runs.
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunLock constructs a RunLock with the given lease duration.
func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RunLock{client: client, ttl: ttl}
}

// Acquire takes the lock or returns ErrLocked when another holder exists.
func (l *RunLock) Acquire(ctx context.Context, key string) error {
	if l == nil || l.client == nil {
		return nil
	}
	ok, err := l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return fmt.Errorf("shared: acquire lock %s: %w", key, err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Release drops the lock. Best effort: an expired lease is not an error.
func (l *RunLock) Release(ctx context.Context, key string) error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Del(ctx, key).Err()
}
