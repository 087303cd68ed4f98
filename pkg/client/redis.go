package client

import (
	"context"
	"time"

	"Shutter/config"
	"Shutter/pkg/log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient returns nil when no redis address is configured; the cache
// layer then runs in process.
func NewRedisClient(conf *config.Config) *redis.Client {
	if !conf.Redis.Enabled() {
		log.L.Info("redis disabled, using in-memory cache")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr(),
		Password: conf.Redis.Password,
		Username: conf.Redis.Username,
		DB:       conf.Redis.Database,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.L.Fatal("connect redis error", zap.Error(err))
	}
	log.L.Info("redis client success")
	return client
}
