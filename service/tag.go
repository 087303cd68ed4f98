package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/middleware"
	"Shutter/models"
	"Shutter/pkg/llm"
	"Shutter/pkg/log"
	"Shutter/pkg/rocketmq"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const tagQueueSize = 256

var _ ITagService = (*TagService)(nil)

type ITagService interface {
	// Dispatch schedules tagging for a freshly committed photo and returns at once.
	Dispatch(photo *models.Photo)
	// Apply captions the image and stores the derived tags if the photo is still untagged.
	Apply(ctx context.Context, photoID int64, imageURL string) error
	Close()
}

// TagPublisher hands tag jobs to an external queue.
type TagPublisher interface {
	PublishTagJob(ctx context.Context, job rocketmq.TagJob) error
}

// TagService runs auto-tagging in the background. Jobs go to the queue when
// one is configured and to a bounded in-process pool otherwise.
type TagService struct {
	PhotoDAO  *dao.PhotoDAO
	Cache     cache.Cache
	Captioner llm.Captioner
	Publisher TagPublisher

	timeout time.Duration
	jobs    chan rocketmq.TagJob
	workers *pool.Pool
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewTagService(cfg *config.Config, photos *dao.PhotoDAO, c cache.Cache, captioner llm.Captioner, producer *rocketmq.Producer) *TagService {
	workers := cfg.Llm.Workers
	if workers < 1 {
		workers = 1
	}
	s := &TagService{
		PhotoDAO:  photos,
		Cache:     c,
		Captioner: captioner,
		timeout:   config.Seconds(cfg.Llm.Timeout),
		jobs:      make(chan rocketmq.TagJob, tagQueueSize),
		workers:   pool.New().WithMaxGoroutines(workers),
		done:      make(chan struct{}),
	}
	if producer != nil {
		s.Publisher = producer
	}
	go s.run()
	return s
}

func (s *TagService) run() {
	defer close(s.done)
	for job := range s.jobs {
		job := job
		s.workers.Go(func() { s.handle(job) })
	}
	s.workers.Wait()
}

func (s *TagService) handle(job rocketmq.TagJob) {
	defer func() {
		if r := recover(); r != nil {
			log.L.Error("tag job panic", zap.Int64("photo_id", job.PhotoID), zap.Any("panic", r))
		}
	}()

	ctx := context.Background()
	if s.Publisher != nil {
		err := s.Publisher.PublishTagJob(ctx, job)
		if err == nil {
			return
		}
		log.L.Warn("publish tag job, tagging in process", zap.Int64("photo_id", job.PhotoID), zap.Error(err))
	}
	if err := s.Apply(ctx, job.PhotoID, job.ImageURL); err != nil {
		log.L.Error("apply tags", zap.Int64("photo_id", job.PhotoID), zap.Error(err))
	}
}

func (s *TagService) Dispatch(photo *models.Photo) {
	if photo.Tagged {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.jobs <- rocketmq.TagJob{PhotoID: photo.ID, ImageURL: photo.ImageURL}:
	default:
		middleware.TagJobsTotal.WithLabelValues("dropped").Inc()
		log.L.Warn("tag queue full, photo left untagged", zap.Int64("photo_id", photo.ID))
	}
}

func (s *TagService) Apply(ctx context.Context, photoID int64, imageURL string) error {
	photo, err := s.PhotoDAO.FindById(ctx, photoID)
	if err != nil {
		if dao.IsNotFound(err) {
			middleware.TagJobsTotal.WithLabelValues("skipped").Inc()
			return nil
		}
		return fmt.Errorf("find photo: %w", err)
	}
	if photo.Tagged {
		middleware.TagJobsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	tags, outcome := s.caption(ctx, photoID, imageURL)

	applied, err := s.PhotoDAO.ApplyTags(ctx, photoID, tags)
	if err != nil {
		middleware.TagJobsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("store tags: %w", err)
	}
	if !applied {
		middleware.TagJobsTotal.WithLabelValues("skipped").Inc()
		return nil
	}
	cache.Invalidate(ctx, s.Cache, cache.PhotoTagged, cache.Target{Target: photoID})
	middleware.TagJobsTotal.WithLabelValues(outcome).Inc()
	log.L.Info("photo tagged", zap.Int64("photo_id", photoID), zap.Strings("tags", tags))
	return nil
}

// caption never fails: any problem yields an empty tag list.
func (s *TagService) caption(ctx context.Context, photoID int64, imageURL string) ([]string, string) {
	if s.Captioner == nil {
		return []string{}, "empty"
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	text, err := s.Captioner.Caption(ctx, imageURL)
	if err != nil {
		log.L.Warn("caption photo", zap.Int64("photo_id", photoID), zap.Error(err))
		return []string{}, "failed"
	}
	tags := llm.ParseCaption(text)
	if len(tags) == 0 {
		return tags, "empty"
	}
	return tags, "tagged"
}

// Close stops accepting jobs and waits for the queued ones.
func (s *TagService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.mu.Unlock()
	<-s.done
}
