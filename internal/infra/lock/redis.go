package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const keyPrefix = "reservation-engine:lock:resource:"

const defaultPollInterval = 25 * time.Millisecond

// Deletes the key only while it still holds our token, so an expired lock taken over by
// another instance is never released by us.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker shares the per-resource write scope across instances.
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	poll   time.Duration
	logger *slog.Logger
}

func NewRedisLocker(client redis.UniversalClient, ttl, wait time.Duration, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, wait: wait, poll: defaultPollInterval, logger: logger}
}

func (l *RedisLocker) Acquire(ctx context.Context, resourceID uuid.UUID) (func(), error) {
	key := keyPrefix + resourceID.String()
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(waitCtx, key, token, l.ttl).Result()
		if err == nil && ok {
			return l.releaseFunc(key, token), nil
		}
		if err != nil && waitCtx.Err() == nil {
			return nil, errs.Wrapf(err, "acquire lock for resource %s", resourceID)
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errs.Wrapf(shared.ErrLockTimeout, "resource %s after %s", resourceID, l.wait)
		case <-time.After(l.poll):
		}
	}
}

func (l *RedisLocker) releaseFunc(key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			// the caller's context may already be cancelled; the key must still be freed
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := unlockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Warn("failed to release resource lock", "key", key, "error", err.Error())
			}
		})
	}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
