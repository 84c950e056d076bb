package locking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL       = 30 * time.Second
	retryInterval = 50 * time.Millisecond
	maxWait       = 5 * time.Second
)

// releaseScript deletes the key only if this holder still owns it, so an
// expired-and-reacquired lock is never released by the old holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisUserLock serializes per-user scheduling across processes using a
// SET NX PX lock. The TTL guards against a crashed holder wedging the
// user's calendar forever.
type RedisUserLock struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisUserLock creates a Redis-backed user lock.
func NewRedisUserLock(client *redis.Client, logger *slog.Logger) *RedisUserLock {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisUserLock{client: client, logger: logger}
}

// Acquire blocks until the owner's lock is obtained or the wait budget
// runs out.
func (l *RedisUserLock) Acquire(ctx context.Context, ownerID uuid.UUID) (Release, error) {
	key := fmt.Sprintf("tempo:lock:user:%s", ownerID)
	token := uuid.NewString()
	deadline := time.Now().Add(maxWait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire scheduling lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockHeld
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	release := func(ctx context.Context) {
		if _, err := releaseScript.Run(ctx, l.client, []string{key}, token).Result(); err != nil {
			l.logger.Warn("failed to release scheduling lock",
				"key", key,
				"error", err,
			)
		}
	}

	return release, nil
}
