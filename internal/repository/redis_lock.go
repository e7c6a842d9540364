package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	lockKeyPrefix      = "lock:"
	lockRetryInterval  = 25 * time.Millisecond
	lockReleaseTimeout = 2 * time.Second
)

// releaseScript deletes the lock only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a single-instance Redis lock (SET NX PX + token-checked release).
// The TTL bounds how long a crashed holder blocks the key.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
	}
}

// Lock polls until the key is acquired or ctx is done
func (l *RedisLocker) Lock(ctx context.Context, key string) (func() error, error) {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Lock",
		trace.WithAttributes(attribute.String("lock.key", key)),
	)
	defer span.End()

	redisKey := lockKeyPrefix + key
	token := ulid.Make().String()

	for attempt := 1; ; attempt++ {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("redis lock error: %w", err)
		}
		if ok {
			span.SetAttributes(attribute.Int("lock.attempts", attempt))
			return l.releaser(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			return nil, fmt.Errorf("waiting for lock %s: %w", key, ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}
}

func (l *RedisLocker) releaser(redisKey, token string) func() error {
	return func() error {
		// Release must run even when the caller's context is already cancelled
		ctx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			return fmt.Errorf("redis unlock error: %w", err)
		}
		return nil
	}
}
