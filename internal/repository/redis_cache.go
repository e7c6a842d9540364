package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mansoorceksport/liftlog/internal/telemetry"
)

var ErrCacheMiss = errors.New("cache miss")

const scanBatch = 100

var cacheTracer = otel.Tracer("liftlog-cache")

// RedisCacheRepository is a JSON cache over Redis. Every call is traced.
type RedisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{client: client}
}

// Get decodes the value at key into dest, ErrCacheMiss when absent
func (r *RedisCacheRepository) Get(ctx context.Context, key string, dest interface{}) (err error) {
	ctx, span := cacheTracer.Start(ctx, "cache.get", trace.WithAttributes(attribute.String("cache.key", key)))
	defer func() { telemetry.EndSpanWithErrCheck(span, ignoreMiss(err)) }()

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

// Set stores value as JSON for ttl
func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) (err error) {
	ctx, span := cacheTracer.Start(ctx, "cache.set", trace.WithAttributes(
		attribute.String("cache.key", key),
		attribute.String("cache.ttl", ttl.String()),
	))
	defer func() { telemetry.EndSpanWithErrCheck(span, err) }()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCacheRepository) Delete(ctx context.Context, keys ...string) (err error) {
	if len(keys) == 0 {
		return nil
	}
	ctx, span := cacheTracer.Start(ctx, "cache.delete", trace.WithAttributes(attribute.Int("cache.keys", len(keys))))
	defer func() { telemetry.EndSpanWithErrCheck(span, err) }()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// DeleteByPattern walks the keyspace with SCAN and removes every match
func (r *RedisCacheRepository) DeleteByPattern(ctx context.Context, pattern string) (err error) {
	ctx, span := cacheTracer.Start(ctx, "cache.delete_pattern", trace.WithAttributes(attribute.String("cache.pattern", pattern)))
	defer func() { telemetry.EndSpanWithErrCheck(span, err) }()

	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			removed += len(keys)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	span.SetAttributes(attribute.Int("cache.removed", removed))
	return nil
}

func ignoreMiss(err error) error {
	if errors.Is(err, ErrCacheMiss) {
		return nil
	}
	return err
}
