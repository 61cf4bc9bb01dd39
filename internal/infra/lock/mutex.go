package lock

import (
	"context"
	"time"

	"flashsale-service/internal/pkg/errs"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotObtained reports that another holder currently owns the key.
	ErrNotObtained = redislock.ErrNotObtained

	// ErrNotHeld reports a release attempted after the lock expired or
	// was taken over by another holder.
	ErrNotHeld = redislock.ErrLockNotHeld
)

// Locker hands out short-lived, key-scoped exclusive locks backed by the
// shared store. Acquisition is a single conditional set with TTL; release
// is token-checked, so a holder that outlived its TTL can never delete a
// lock reacquired by someone else. Locks are advisory: protected work
// must stay idempotent because the TTL can expire mid-flight.
type Locker struct {
	client *redislock.Client
}

func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{client: redislock.New(rdb)}
}

// TryAcquire attempts a single non-blocking acquisition. It returns
// ErrNotObtained when the key is already held.
func (l *Locker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (*Mutex, error) {
	lk, err := l.client.Obtain(ctx, key, ttl, nil)
	if err != nil {
		if err == redislock.ErrNotObtained {
			return nil, ErrNotObtained
		}
		return nil, errs.Wrap(err, "failed to obtain lock")
	}
	return &Mutex{lock: lk}, nil
}

// Mutex is a held lock. Release verifies the holder token before
// deleting; releasing an expired lock returns ErrNotHeld.
type Mutex struct {
	lock *redislock.Lock
}

func (m *Mutex) Release(ctx context.Context) error {
	err := m.lock.Release(ctx)
	if err == redislock.ErrLockNotHeld {
		return ErrNotHeld
	}
	return errs.Wrap(err, "failed to release lock")
}
