package service

import (
	"context"
	"errors"
	"fmt"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/pkg/log"
	"Shutter/types"

	"go.uber.org/zap"
)

const (
	downloadHistoryLimit = 100
	mostDownloadedLimit  = 10
)

var _ IDownloadService = (*DownloadService)(nil)

type IDownloadService interface {
	// Track records the first download of a photo by userID.
	Track(ctx context.Context, userID, photoID int64) (*types.DownloadResp, error)
	History(ctx context.Context, userID int64) ([]types.DownloadItem, error)
	MostDownloaded(ctx context.Context, viewerID int64) ([]types.PhotoItem, error)
	RemoveByPhoto(ctx context.Context, userID, photoID int64) error
	Stats(ctx context.Context, userID int64) (*types.DownloadStats, error)
}

type DownloadService struct {
	Config      *config.Config
	DownloadDAO *dao.DownloadDAO
	PhotoDAO    *dao.PhotoDAO
	Cache       cache.Cache
	Limiter     *cache.DownloadLimiter
	Presenter   *Presenter
}

func (s *DownloadService) Track(ctx context.Context, userID, photoID int64) (*types.DownloadResp, error) {
	allowed, err := s.Limiter.Allow(ctx, userID)
	if err != nil {
		// Fail open while the cache is down.
		log.L.Warn("download limiter", zap.Int64("user_id", userID), zap.Error(err))
		allowed = true
	}
	if !allowed {
		return nil, ErrDownloadThrottle
	}

	photo, err := s.PhotoDAO.FindById(ctx, photoID)
	if err != nil {
		return nil, notFound(err, ErrPhotoNotFound, "find photo")
	}
	res, err := s.DownloadDAO.Engage(ctx, userID, photoID)
	if err != nil {
		if errors.Is(err, dao.ErrRelationExists) {
			return nil, ErrAlreadyDownloaded
		}
		return nil, relationErr(err, ErrPhotoNotFound, "download")
	}
	cache.Invalidate(ctx, s.Cache, cache.PhotoDownloaded, cache.Target{Subject: userID, Target: photoID})
	return &types.DownloadResp{
		PhotoID:        types.ID(photo.ID),
		ImageURL:       photo.ImageURL,
		DownloadsCount: res.Count,
	}, nil
}

// History is the caller's most recent downloads, newest first.
func (s *DownloadService) History(ctx context.Context, userID int64) ([]types.DownloadItem, error) {
	items, err := cache.Remember(ctx, s.Cache, cache.UserDownloadsKey(userID), config.Seconds(s.Config.Cache.DownloadsTTL),
		func(ctx context.Context) ([]types.DownloadItem, error) {
			edges, err := s.DownloadDAO.Edges(ctx, userID, downloadHistoryLimit)
			if err != nil {
				return nil, fmt.Errorf("download history: %w", err)
			}
			ids := make([]int64, 0, len(edges))
			for _, e := range edges {
				ids = append(ids, e.PhotoID)
			}
			rows, err := s.PhotoDAO.FindByIds(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("load photos: %w", err)
			}
			photos, err := s.Presenter.Photos(ctx, rows)
			if err != nil {
				return nil, err
			}
			byID := make(map[types.ID]types.PhotoItem, len(photos))
			for _, p := range photos {
				byID[p.ID] = p
			}
			out := make([]types.DownloadItem, 0, len(edges))
			for _, e := range edges {
				if p, ok := byID[types.ID(e.PhotoID)]; ok {
					out = append(out, types.DownloadItem{Photo: p, DownloadedAt: e.CreatedAt})
				}
			}
			return out, nil
		})
	if err != nil {
		return nil, err
	}

	photos := make([]types.PhotoItem, len(items))
	for i := range items {
		photos[i] = items[i].Photo
	}
	if err := s.Presenter.RefreshPhotoAuthors(ctx, photos); err != nil {
		return nil, err
	}
	if err := s.Presenter.MarkLiked(ctx, userID, photos); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Photo = photos[i]
	}
	return items, nil
}

func (s *DownloadService) MostDownloaded(ctx context.Context, viewerID int64) ([]types.PhotoItem, error) {
	key := cache.ListKey(ctx, s.Cache, cache.NsMostDownloaded, mostDownloadedLimit)
	items, err := cache.Remember(ctx, s.Cache, key, config.Seconds(s.Config.Cache.ListTTL),
		func(ctx context.Context) ([]types.PhotoItem, error) {
			rows, err := s.PhotoDAO.MostDownloaded(ctx, mostDownloadedLimit)
			if err != nil {
				return nil, fmt.Errorf("most downloaded: %w", err)
			}
			return s.Presenter.Photos(ctx, rows)
		})
	if err != nil {
		return nil, err
	}
	if err := s.Presenter.RefreshPhotoAuthors(ctx, items); err != nil {
		return nil, err
	}
	if err := s.Presenter.MarkLiked(ctx, viewerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *DownloadService) RemoveByPhoto(ctx context.Context, userID, photoID int64) error {
	if _, err := s.DownloadDAO.Disengage(ctx, userID, photoID); err != nil {
		if errors.Is(err, dao.ErrRelationMissing) {
			return ErrDownloadNotFound
		}
		return fmt.Errorf("remove download: %w", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.PhotoDownloaded, cache.Target{Subject: userID, Target: photoID})
	return nil
}

func (s *DownloadService) Stats(ctx context.Context, userID int64) (*types.DownloadStats, error) {
	made, err := s.DownloadDAO.CountBySubject(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count downloads: %w", err)
	}
	totals, err := s.PhotoDAO.SumStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("photo totals: %w", err)
	}
	return &types.DownloadStats{DownloadsMade: made, DownloadsReceived: totals.Downloads}, nil
}
