package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Bab4nI/Jaba/internal/types"
)

const keyPrefix = "jaba-exec-result-"

// Ensure RedisCache implements ResultCache interface.
var _ ResultCache = (*RedisCache)(nil)

// Redis backed result cache. Entries expire server side via TTL.
type RedisCache struct {
	db *redis.Client
}

func NewRedisCache(db *redis.Client) *RedisCache {
	return &RedisCache{db: db}
}

func (c *RedisCache) Get(
	ctx context.Context,
	key string,
) (*types.ExecutionResult, bool, error) {
	ctx, span := tracer.Start(ctx, "RedisCache.Get", trace.WithAttributes(
		attribute.String("key", key),
	))
	defer span.End()

	raw, err := c.db.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.RecordError(nil)
			span.SetStatus(codes.Ok, "cache miss")
			return nil, false, nil
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read from cache")
		return nil, false, err
	}

	var result types.ExecutionResult
	if err = json.Unmarshal([]byte(raw), &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode cached result")
		return nil, false, err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "cache hit")
	return &result, true, nil
}

func (c *RedisCache) Set(
	ctx context.Context,
	key string,
	result *types.ExecutionResult,
	ttl time.Duration,
) error {
	ctx, span := tracer.Start(ctx, "RedisCache.Set", trace.WithAttributes(
		attribute.String("key", key),
		attribute.String("ttl", ttl.String()),
	))
	defer span.End()

	raw, err := json.Marshal(result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode result")
		return err
	}

	if err = c.db.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write to cache")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "cached result")
	return nil
}
