package storage

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"Shutter/config"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFromURL(t *testing.T) {
	base, err := newPublicBase("https://cdn.example.com/shutter/")
	require.NoError(t, err)

	url := base.URL("users/alice/photos/alice_20260101120000_1.jpg")
	assert.Equal(t, "https://cdn.example.com/shutter/users/alice/photos/alice_20260101120000_1.jpg", url)

	key, err := base.KeyFromURL(url)
	require.NoError(t, err)
	assert.Equal(t, "users/alice/photos/alice_20260101120000_1.jpg", key)

	for _, foreign := range []string{
		"https://evil.example.com/shutter/users/a.jpg",
		"https://cdn.example.com/other/users/a.jpg",
		"https://cdn.example.com/shutter/",
		"://bad",
	} {
		_, err := base.KeyFromURL(foreign)
		assert.Error(t, err, foreign)
	}
}

func TestNewPublicBaseRejectsRelative(t *testing.T) {
	_, err := newPublicBase("/media")
	assert.Error(t, err)
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(&config.Storage{Driver: "ftp", PublicBaseURL: "https://cdn.example.com"})
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore("")
	require.NoError(t, err)

	url, err := s.Put(ctx, "a/b.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)

	key, err := s.KeyFromURL(url)
	require.NoError(t, err)
	data, ct, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", ct)

	require.NoError(t, s.Delete(ctx, key))
	assert.Zero(t, s.Len())
}

func TestS3Store(t *testing.T) {
	backend := s3mem.New()
	require.NoError(t, backend.CreateBucket("photos"))
	ts := httptest.NewServer(gofakes3.New(backend).Server())
	defer ts.Close()

	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	ctx := context.Background()
	s, err := NewS3Store(ctx, &config.Storage{
		Driver:        "s3",
		PublicBaseURL: "https://cdn.example.com",
		S3: config.S3Config{
			Endpoint:        ts.URL,
			Region:          "us-east-1",
			Bucket:          "photos",
			AccessKeyID:     "key",
			AccessKeySecret: "secret",
			UsePathStyle:    true,
		},
	})
	require.NoError(t, err)

	url, err := s.Put(ctx, "users/alice/photos/x.jpg", strings.NewReader("jpeg bytes"), 10, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/users/alice/photos/x.jpg", url)

	ok, err := s.Exists(ctx, "users/alice/photos/x.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	key, err := s.KeyFromURL(url)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, key))

	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
