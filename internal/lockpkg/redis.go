package lockpkg

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// KeyPrefix prefixes the redis key of every account lock.
const KeyPrefix = "ledger:account:"

const retryDelay = 25 * time.Millisecond

// RedisManager holds account locks in redis so several ledger processes can share accounts.
type RedisManager struct {
	rs      *redsync.Redsync
	timeout time.Duration
	expiry  time.Duration
}

// NewRedisManager returns RedisManager over client.
//
// timeout bounds the wait for the locks of one operation, expiry bounds how long
// a lock survives a crashed holder.
func NewRedisManager(client redis.UniversalClient, timeout, expiry time.Duration) *RedisManager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if expiry <= 0 {
		expiry = 2 * timeout
	}

	return &RedisManager{
		rs:      redsync.New(goredis.NewPool(client)),
		timeout: timeout,
		expiry:  expiry,
	}
}

// WithLock acquires the locks of ids, runs fn and releases the locks on every exit path.
func (m *RedisManager) WithLock(ctx context.Context, ids []uuid.UUID, fn func(ctx context.Context) error) error {
	return withOrderedLocks(ctx, ids, m.timeout, m.acquire, fn)
}

func (m *RedisManager) acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	key := KeyPrefix + id.String()

	mutex := m.rs.NewMutex(
		key,
		redsync.WithExpiry(m.expiry),
		redsync.WithTries(int(m.timeout/retryDelay)+1),
		redsync.WithRetryDelay(retryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, err
	}

	release := func() {
		// Caller cancellation must not leave the key held until expiry.
		uctx := context.WithoutCancel(ctx)

		if ok, err := mutex.UnlockContext(uctx); !ok || err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("key", key).Msg("cannot release account lock")
		}
	}

	return release, nil
}
