package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/internal/testutil"
	"Shutter/pkg/rocketmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaptioner struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (f *fakeCaptioner) Caption(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.text, f.err
}

func (f *fakeCaptioner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type failingPublisher struct{}

func (failingPublisher) PublishTagJob(context.Context, rocketmq.TagJob) error {
	return errors.New("broker down")
}

func newTagService(t *testing.T, e *testEnv, captioner *fakeCaptioner) *TagService {
	t.Helper()
	cfg := config.Default()
	cfg.Llm.Workers = 2
	s := NewTagService(cfg, dao.NewPhotoDAO(e.db), e.cache, captioner, nil)
	t.Cleanup(s.Close)
	return s
}

func TestApplyTagsAtMostOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, "alice")
	photo := testutil.CreatePhoto(t, e.db, alice, "beach")
	captioner := &fakeCaptioner{text: "Sandy beach, blue sky beach"}
	s := newTagService(t, e, captioner)

	_, err := e.photos.Detail(ctx, 0, photo.ID)
	require.NoError(t, err)

	require.NoError(t, s.Apply(ctx, photo.ID, photo.ImageURL))
	require.NoError(t, s.Apply(ctx, photo.ID, photo.ImageURL))
	assert.Equal(t, 1, captioner.Calls())

	stored := e.photo(t, photo.ID)
	assert.True(t, stored.Tagged)
	assert.Equal(t, []string{"sandy", "beach", "blue", "sky"}, []string(stored.Tags))

	detail, err := e.photos.Detail(ctx, 0, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sandy", "beach", "blue", "sky"}, detail.Tags)
}

func TestApplyTagsCaptionFailureStoresEmptyList(t *testing.T) {
	e := newEnv(t)
	alice := testutil.CreateUser(t, e.db, "alice")
	photo := testutil.CreatePhoto(t, e.db, alice, "p")
	s := newTagService(t, e, &fakeCaptioner{err: errors.New("model timeout")})

	require.NoError(t, s.Apply(context.Background(), photo.ID, photo.ImageURL))
	stored := e.photo(t, photo.ID)
	assert.True(t, stored.Tagged)
	assert.Empty(t, stored.Tags)
}

func TestApplyTagsMissingPhoto(t *testing.T) {
	e := newEnv(t)
	captioner := &fakeCaptioner{text: "x"}
	s := newTagService(t, e, captioner)

	assert.NoError(t, s.Apply(context.Background(), 404, "https://cdn.example.com/x.jpg"))
	assert.Zero(t, captioner.Calls())
}

func TestDispatchTagsInBackground(t *testing.T) {
	e := newEnv(t)
	alice := testutil.CreateUser(t, e.db, "alice")
	untagged := testutil.CreatePhoto(t, e.db, alice, "a")
	tagged := testutil.CreatePhoto(t, e.db, alice, "b")
	tagged.Tagged = true
	captioner := &fakeCaptioner{text: "#forest #fog"}

	cfg := config.Default()
	s := NewTagService(cfg, dao.NewPhotoDAO(e.db), e.cache, captioner, nil)
	s.Publisher = failingPublisher{}

	s.Dispatch(untagged)
	s.Dispatch(tagged)
	s.Close()
	s.Dispatch(untagged)

	assert.Equal(t, 1, captioner.Calls())
	assert.Equal(t, []string{"forest", "fog"}, []string(e.photo(t, untagged.ID).Tags))
}
