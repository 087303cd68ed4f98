package rocketmq

import (
	"context"
	"fmt"

	"Shutter/config"
	"Shutter/pkg/log"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

type Producer struct {
	producer rocketmq.Producer
	topic    string
}

// NewProducer starts a producer for the tag topic. It returns nil when the
// queue is disabled so callers fall back to in-process work.
func NewProducer(cfg *config.RocketMQConfig) (*Producer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(cfg.Producer.Retry),
	)
	if err != nil {
		return nil, fmt.Errorf("new producer: %w", err)
	}
	if err = p.Start(); err != nil {
		return nil, fmt.Errorf("start producer: %w", err)
	}
	log.L.Info("init producer success", zap.Strings("nameserver", cfg.NameServer))
	return &Producer{producer: p, topic: cfg.TagTopic}, nil
}

func (p *Producer) PublishTagJob(ctx context.Context, job TagJob) error {
	body, err := job.Encode()
	if err != nil {
		return err
	}
	msg := primitive.NewMessage(p.topic, body)
	msg.WithKeys([]string{fmt.Sprint(job.PhotoID)})

	res, err := p.producer.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Debug("send tag job success", zap.String("msg_id", res.MsgID), zap.Int64("photo_id", job.PhotoID))
	return nil
}

func (p *Producer) Shutdown() error {
	return p.producer.Shutdown()
}

// Consumer delivers tag jobs to a handler. Jobs are never redelivered: a
// failed handler is logged and the message is acknowledged.
type Consumer struct {
	consumer rocketmq.PushConsumer
	topic    string
}

func NewConsumer(cfg *config.RocketMQConfig) (*Consumer, error) {
	c, err := rocketmq.NewPushConsumer(
		consumer.WithNameServer(cfg.NameServer),
		consumer.WithGroupName(cfg.Consumer.Group),
		consumer.WithConsumeFromWhere(consumer.ConsumeFromLastOffset),
	)
	if err != nil {
		return nil, fmt.Errorf("new consumer: %w", err)
	}
	return &Consumer{consumer: c, topic: cfg.TagTopic}, nil
}

func (c *Consumer) ConsumeTagJobs(handle func(ctx context.Context, job TagJob) error) error {
	err := c.consumer.Subscribe(c.topic, consumer.MessageSelector{}, func(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
		for _, m := range msgs {
			job, err := DecodeTagJob(m.Body)
			if err != nil {
				log.L.Warn("drop malformed tag job", zap.String("msg_id", m.MsgId), zap.Error(err))
				continue
			}
			if err := handle(ctx, job); err != nil {
				log.L.Error("tag job failed", zap.Int64("photo_id", job.PhotoID), zap.Error(err))
			}
		}
		return consumer.ConsumeSuccess, nil
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.topic, err)
	}
	return c.consumer.Start()
}

func (c *Consumer) Shutdown() error {
	return c.consumer.Shutdown()
}
