package cache

import (
	"context"
	"time"
)

// TokenBlacklist remembers revoked token ids until they would have expired anyway.
type TokenBlacklist struct {
	cache Cache
}

func NewTokenBlacklist(c Cache) *TokenBlacklist {
	return &TokenBlacklist{cache: c}
}

func (b *TokenBlacklist) key(jti string) string {
	return "jwt:blacklist:" + jti
}

func (b *TokenBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.cache.Set(ctx, b.key(jti), []byte("1"), ttl)
}

// Claim blacklists jti and reports false when it was already there, so
// only one of several concurrent callers wins.
func (b *TokenBlacklist) Claim(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	return b.cache.SetIfAbsent(ctx, b.key(jti), []byte("1"), ttl)
}

func (b *TokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	_, found, err := b.cache.Get(ctx, b.key(jti))
	return found, err
}
