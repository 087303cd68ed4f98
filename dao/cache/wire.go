package cache

import (
	"time"

	"Shutter/config"

	"github.com/google/wire"
)

// DownloadLimiter guards download tracking.
type DownloadLimiter struct {
	*RateLimiter
}

func NewDownloadLimiter(c Cache, cfg *config.Config) *DownloadLimiter {
	return &DownloadLimiter{NewRateLimiter(c, "download", cfg.Cache.DownloadLimit, time.Minute)}
}

var ProviderSet = wire.NewSet(
	New,
	NewTokenBlacklist,
	NewDownloadLimiter,
)
