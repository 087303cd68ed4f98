package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"Shutter/models"
	"Shutter/pkg/rocketmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakeConsumer struct {
	handle     func(ctx context.Context, job rocketmq.TagJob) error
	subErr     error
	shutdowned bool
}

func (f *fakeConsumer) ConsumeTagJobs(handle func(ctx context.Context, job rocketmq.TagJob) error) error {
	f.handle = handle
	return f.subErr
}

func (f *fakeConsumer) Shutdown() error {
	f.shutdowned = true
	return nil
}

type fakeTagService struct {
	mu      sync.Mutex
	applied []rocketmq.TagJob
	closed  bool
	err     error
}

func (f *fakeTagService) Dispatch(*models.Photo) {}

func (f *fakeTagService) Apply(_ context.Context, photoID int64, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, rocketmq.TagJob{PhotoID: photoID, ImageURL: imageURL})
	return f.err
}

func (f *fakeTagService) Close() {
	f.closed = true
}

func TestTagSubscribe_AppliesJobs(t *testing.T) {
	consumer := &fakeConsumer{}
	tags := &fakeTagService{}
	srv := NewServer(&SubServers{TagSubscribe: NewTagSubscribe(consumer, tags)})

	ctx, cancel := context.WithCancel(context.Background())
	eg, groupCtx := errgroup.WithContext(ctx)
	require.NoError(t, srv.Start(eg, groupCtx))
	require.NotNil(t, consumer.handle)

	require.NoError(t, consumer.handle(ctx, rocketmq.TagJob{PhotoID: 7, ImageURL: "https://cdn.example.com/p.jpg"}))
	assert.Equal(t, []rocketmq.TagJob{{PhotoID: 7, ImageURL: "https://cdn.example.com/p.jpg"}}, tags.applied)

	cancel()
	require.NoError(t, eg.Wait())
	assert.True(t, consumer.shutdowned)
	assert.True(t, tags.closed)
}

func TestTagSubscribe_ApplyErrorReturned(t *testing.T) {
	consumer := &fakeConsumer{}
	tags := &fakeTagService{err: errors.New("db down")}
	sub := NewTagSubscribe(consumer, tags)
	require.NoError(t, sub.Init())

	err := consumer.handle(context.Background(), rocketmq.TagJob{PhotoID: 1, ImageURL: "u"})
	assert.EqualError(t, err, "db down")
}

func TestServer_InitFailureStopsStart(t *testing.T) {
	consumer := &fakeConsumer{subErr: errors.New("subscribe failed")}
	srv := NewServer(&SubServers{TagSubscribe: NewTagSubscribe(consumer, &fakeTagService{})})

	eg, ctx := errgroup.WithContext(context.Background())
	err := srv.Start(eg, ctx)
	assert.EqualError(t, err, "subscribe failed")
	assert.NoError(t, eg.Wait())
}

func TestServer_SkipsNilSubscribers(t *testing.T) {
	srv := NewServer(&SubServers{})
	assert.Empty(t, srv.items)
}
