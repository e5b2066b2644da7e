package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dnguyen-dev/bistro/config"
)

// RedisStore is the Redis-backed driver.
type RedisStore struct {
	rdb *redis.Client
	ctx context.Context
}

// Connect boots the driver named by KV_DRIVER. When Redis is selected but
// unreachable, the memory driver stays active and an error is returned so the
// caller can log a warning and carry on.
func Connect() error {
	if config.KVDriver() != "redis" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("kv: redis ping: %w", err)
	}

	Use(&RedisStore{rdb: rdb, ctx: ctx})
	return nil
}

// Client exposes the underlying Redis client for components that need raw
// access (the queue's Redis driver shares this connection).
func (s *RedisStore) Client() *redis.Client { return s.rdb }

func (s *RedisStore) Get(key string, dest interface{}) bool {
	val, err := s.rdb.Get(s.ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func (s *RedisStore) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(s.ctx, key, data, ttl).Err()
}

func (s *RedisStore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(s.ctx, keys...).Err()
}
