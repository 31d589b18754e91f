package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// OrderLocker serializes delivery-state transitions per order. The phase guard
// on the Mongo update is the authoritative check; the lock keeps two
// concurrent confirms from interleaving their read-validate-write cycles.
type OrderLocker interface {
	Acquire(ctx context.Context, orderID string) (release func(), err error)
}

// Deletes the lock key only if it still holds our token.
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

type RedisOrderLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOrderLocker(client *redis.Client, ttl time.Duration) *RedisOrderLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisOrderLocker{client: client, ttl: ttl}
}

func (l *RedisOrderLocker) key(orderID string) string {
	return fmt.Sprintf("lock:order:%s", orderID)
}

func (l *RedisOrderLocker) Acquire(ctx context.Context, orderID string) (func(), error) {
	key := l.key(orderID)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.client.Eval(releaseCtx, unlockScript, []string{key}, token).Err()
	}
	return release, nil
}
