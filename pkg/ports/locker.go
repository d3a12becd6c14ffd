package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates access to a session across replicas.
// The session Manager takes the distributed lock inside its local one.
type DistributedLocker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The lock expires after ttl even if the holder never unlocks.
	// The returned UnlockFunc must be called to release it early.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
