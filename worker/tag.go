package worker

import (
	"context"

	"Shutter/pkg/log"
	"Shutter/pkg/rocketmq"
	"Shutter/service"

	"go.uber.org/zap"
)

// TagConsumer delivers queued tag jobs.
type TagConsumer interface {
	ConsumeTagJobs(handle func(ctx context.Context, job rocketmq.TagJob) error) error
	Shutdown() error
}

// TagSubscribe applies tags for jobs published by the api server.
type TagSubscribe struct {
	Consumer   TagConsumer
	TagService service.ITagService
}

func NewTagSubscribe(consumer TagConsumer, tags service.ITagService) *TagSubscribe {
	return &TagSubscribe{Consumer: consumer, TagService: tags}
}

func (t *TagSubscribe) Init() error {
	return t.Consumer.ConsumeTagJobs(t.handle)
}

func (t *TagSubscribe) Setup(ctx context.Context) error {
	<-ctx.Done()
	log.L.Info("正在优雅关闭 RocketMQ 消费者...")
	if err := t.Consumer.Shutdown(); err != nil {
		log.L.Warn("shutdown consumer", zap.Error(err))
	}
	t.TagService.Close()
	return nil
}

func (t *TagSubscribe) handle(ctx context.Context, job rocketmq.TagJob) error {
	return t.TagService.Apply(ctx, job.PhotoID, job.ImageURL)
}
