package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })
	return NewRedisStorage(rds), mr
}

func backends(t *testing.T) map[string]Cache {
	rs, _ := newRedis(t)
	return map[string]Cache{
		"memory": NewMemoryStorage(),
		"redis":  rs,
	}
}

func TestGetSetDel(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := c.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, c.Set(ctx, "k", []byte("[]"), time.Minute))
			val, found, err := c.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "[]", string(val))

			require.NoError(t, c.Del(ctx, "k", "missing"))
			_, found, err = c.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestIncr(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			n, err := c.Incr(ctx, "n", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			n, err = c.Incr(ctx, "n", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)
		})
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()
	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Second))
	_, err := m.Incr(ctx, "n", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	n, err := m.Incr(ctx, "n", time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisIncrSetsTTL(t *testing.T) {
	rs, mr := newRedis(t)
	_, err := rs.Incr(context.Background(), "n", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("n"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("n"))
}

func TestRememberCachesEmptyResults(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStorage()
	calls := 0
	compute := func(context.Context) ([]string, error) {
		calls++
		return []string{}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Remember(ctx, c, "empty", time.Minute, compute)
		require.NoError(t, err)
		assert.Empty(t, v)
	}
	assert.Equal(t, 1, calls)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStorage()
	boom := errors.New("boom")
	calls := 0
	compute := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	}

	_, err := Remember(ctx, c, "k", time.Minute, compute)
	assert.ErrorIs(t, err, boom)

	v, err := Remember(ctx, c, "k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestRememberFallsBackWhenRedisIsDown(t *testing.T) {
	rs, mr := newRedis(t)
	mr.Close()

	v, err := Remember(context.Background(), rs, "k", time.Minute, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStorage()

	require.NoError(t, c.Set(ctx, PhotoKey(1), []byte("{}"), time.Minute))
	before := ListKey(ctx, c, NsTrendingPhotos, 7)
	assert.Equal(t, "photos:trending:v0:7", before)

	Invalidate(ctx, c, PhotoLiked, Target{Subject: 2, Target: 1})

	_, found, err := c.Get(ctx, PhotoKey(1))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "photos:trending:v1:7", ListKey(ctx, c, NsTrendingPhotos, 7))
}

func TestFollowDropsBothAuthorBriefs(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStorage()
	for _, id := range []int64{2, 3} {
		require.NoError(t, c.Set(ctx, UserBriefKey(id), []byte("{}"), time.Minute))
	}

	Invalidate(ctx, c, UserFollowed, Target{Subject: 2, Target: 3})

	for _, id := range []int64{2, 3} {
		_, found, err := c.Get(ctx, UserBriefKey(id))
		require.NoError(t, err)
		assert.False(t, found, id)
	}
}

func TestEveryResourceHasASet(t *testing.T) {
	for _, r := range []Resource{
		PhotoLiked, PhotoWritten, PhotoCommented, PhotoDownloaded, PhotoTagged,
		UserFollowed, UserWritten,
		CollectionEngaged, CollectionMembers, CollectionWritten,
		CategoryMembers, CategoryWritten,
	} {
		set, ok := Invalidations[r]
		assert.True(t, ok, r)
		assert.NotEmpty(t, set.Keys, r)
	}
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	b := NewTokenBlacklist(NewMemoryStorage())

	ok, err := b.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Add(ctx, "jti-1", time.Minute))
	ok, err = b.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetIfAbsent(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := c.SetIfAbsent(ctx, "once", []byte("a"), time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = c.SetIfAbsent(ctx, "once", []byte("b"), time.Minute)
			require.NoError(t, err)
			assert.False(t, ok)

			val, _, err := c.Get(ctx, "once")
			require.NoError(t, err)
			assert.Equal(t, "a", string(val))
		})
	}
}

func TestSetIfAbsentAfterExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	ok, err := m.SetIfAbsent(ctx, "k", []byte("a"), time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	m.now = func() time.Time { return base.Add(2 * time.Second) }
	ok, err = m.SetIfAbsent(ctx, "k", []byte("b"), time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	rs, mr := newRedis(t)
	ok, err = rs.SetIfAbsent(ctx, "k", []byte("a"), time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	mr.FastForward(2 * time.Second)
	ok, err = rs.SetIfAbsent(ctx, "k", []byte("b"), time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlacklistClaimOnce(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := NewTokenBlacklist(c)
			var (
				wg  sync.WaitGroup
				won atomic.Int32
			)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, err := b.Claim(ctx, "jti-race", time.Minute)
					assert.NoError(t, err)
					if ok {
						won.Add(1)
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, int32(1), won.Load())

			revoked, err := b.Contains(ctx, "jti-race")
			require.NoError(t, err)
			assert.True(t, revoked)

			ok, err := b.Claim(ctx, "jti-expired", 0)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	rs, _ := newRedis(t)
	l := NewRateLimiter(rs, "download", 5, time.Minute)
	fixed := time.Date(2026, 1, 1, 12, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	fixed = fixed.Add(time.Minute)
	ok, err = l.Allow(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}
