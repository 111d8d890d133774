package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes invocations of one thread across processes,
// for deployments where several replicas share a store.
type DistributedLocker interface {
	// Lock blocks until the lock for key (a thread ID) is held or ctx is done.
	// The lock expires after ttl if the holder never unlocks it.
	// The returned UnlockFunc must be called once the invocation finishes.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
