package storage

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
	redisclient "github.com/KirkDiggler/solo-rpg-api/internal/redis"
)

// RedisConfig holds the configuration for the Redis-backed store
type RedisConfig struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisKV struct {
	client redisclient.Client
}

// NewRedis creates a Redis-backed KV store. Values are stored as JSON
// strings with no expiry, so state survives process restarts.
func NewRedis(cfg *RedisConfig) (KV, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisKV{client: cfg.Client}, nil
}

var _ KV = (*redisKV)(nil)

func (s *redisKV) Save(ctx context.Context, key string, value any) error {
	if key == "" {
		return errors.InvalidArgument("key cannot be empty")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal value for key %q", key)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to write to redis")
	}

	return nil
}

func (s *redisKV) Load(ctx context.Context, key string, dest any) (bool, error) {
	if key == "" {
		return false, errors.InvalidArgument("key cannot be empty")
	}

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read from redis")
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode persisted value").
			WithMeta("key", key)
	}

	return true, nil
}

func (s *redisKV) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.InvalidArgument("key cannot be empty")
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete from redis")
	}

	return nil
}
