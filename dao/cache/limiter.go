package cache

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed window counter per (action, user).
type RateLimiter struct {
	cache  Cache
	action string
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(c Cache, action string, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{cache: c, action: action, limit: limit, window: window, now: time.Now}
}

// Allow counts one hit and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, userID int64) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	slot := l.now().UnixNano() / int64(l.window)
	key := fmt.Sprintf("ratelimit:%s:%d:%d", l.action, userID, slot)
	n, err := l.cache.Incr(ctx, key, l.window)
	if err != nil {
		return false, err
	}
	return n <= l.limit, nil
}
