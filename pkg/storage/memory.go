package storage

import (
	"bytes"
	"context"
	"io"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps objects in process. Used for local runs and tests.
type MemoryStore struct {
	publicBase
	objects cmap.ConcurrentMap[string, memoryObject]
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(baseURL string) (*MemoryStore, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8080/media"
	}
	base, err := newPublicBase(baseURL)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{publicBase: base, objects: cmap.New[memoryObject]()}, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.objects.Set(key, memoryObject{data: buf.Bytes(), contentType: contentType})
	return m.URL(key), nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.objects.Remove(key)
	return nil
}

// Get returns the stored bytes and content type.
func (m *MemoryStore) Get(key string) ([]byte, string, bool) {
	o, ok := m.objects.Get(key)
	return o.data, o.contentType, ok
}

func (m *MemoryStore) Len() int { return m.objects.Count() }
