package cache

import (
	"context"
	"encoding/json"
	"time"

	"Shutter/pkg/log"

	"go.uber.org/zap"
)

// Remember returns the cached value for key, or computes, stores and returns it.
// Empty results (nil slices, zero structs) are cached like any other value.
// Cache failures are logged and fall back to compute.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	raw, found, err := c.Get(ctx, key)
	if err != nil {
		log.L.Warn("cache get", zap.String("key", key), zap.Error(err))
	}
	if found {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		log.L.Warn("cache decode", zap.String("key", key), zap.Error(err))
	}

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}

	raw, err = json.Marshal(v)
	if err != nil {
		log.L.Warn("cache encode", zap.String("key", key), zap.Error(err))
		return v, nil
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil {
		log.L.Warn("cache set", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}
