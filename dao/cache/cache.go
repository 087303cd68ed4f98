package cache

import (
	"context"
	"time"

	"Shutter/config"

	"github.com/redis/go-redis/v9"
)

// Cache is the derived side channel in front of the database. A miss must
// always be recoverable by recomputing from the source of truth.
type Cache interface {
	// Get reports found=false on a miss; a stored empty value is still found.
	Get(ctx context.Context, key string) (val []byte, found bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Incr bumps an integer key. ttl applies when the key is created; 0 keeps it forever.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// SetIfAbsent stores val only when key is missing or expired and reports whether it did.
	SetIfAbsent(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error)
}

// New picks redis when an address is configured and the in-process map otherwise.
func New(cfg *config.Config, rds *redis.Client) Cache {
	if rds != nil && cfg.Redis.Enabled() {
		return NewRedisStorage(rds)
	}
	return NewMemoryStorage()
}
