package cache

import (
	"context"
	"strconv"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type memoryEntry struct {
	val      []byte
	expireAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// MemoryStorage keeps entries in a sharded map. Expired entries are dropped on read.
type MemoryStorage struct {
	items cmap.ConcurrentMap[string, memoryEntry]
	now   func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: cmap.New[memoryEntry](), now: time.Now}
}

func (m *MemoryStorage) expireAt(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	if e.expired(m.now()) {
		m.items.RemoveCb(key, func(_ string, v memoryEntry, exists bool) bool {
			return exists && v.expired(m.now())
		})
		return nil, false, nil
	}
	return e.val, true, nil
}

func (m *MemoryStorage) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.items.Set(key, memoryEntry{val: val, expireAt: m.expireAt(ttl)})
	return nil
}

func (m *MemoryStorage) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.items.Remove(k)
	}
	return nil
}

func (m *MemoryStorage) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	var n int64
	m.items.Upsert(key, memoryEntry{}, func(exist bool, old memoryEntry, _ memoryEntry) memoryEntry {
		if !exist || old.expired(m.now()) {
			n = 1
			return memoryEntry{val: []byte("1"), expireAt: m.expireAt(ttl)}
		}
		cur, _ := strconv.ParseInt(string(old.val), 10, 64)
		n = cur + 1
		return memoryEntry{val: []byte(strconv.FormatInt(n, 10)), expireAt: old.expireAt}
	})
	return n, nil
}

func (m *MemoryStorage) SetIfAbsent(_ context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	var stored bool
	m.items.Upsert(key, memoryEntry{}, func(exist bool, old memoryEntry, _ memoryEntry) memoryEntry {
		if exist && !old.expired(m.now()) {
			return old
		}
		stored = true
		return memoryEntry{val: val, expireAt: m.expireAt(ttl)}
	})
	return stored, nil
}
