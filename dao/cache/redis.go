package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStorage struct {
	redis *redis.Client
}

func NewRedisStorage(rds *redis.Client) *RedisStorage {
	return &RedisStorage{rds}
}

func (r *RedisStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.redis.Set(ctx, key, val, ttl).Err()
}

func (r *RedisStorage) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.redis.Del(ctx, keys...).Err()
}

func (r *RedisStorage) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 && ttl > 0 {
		if err := r.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (r *RedisStorage) SetIfAbsent(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	return r.redis.SetNX(ctx, key, val, ttl).Result()
}
