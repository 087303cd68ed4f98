package service

import (
	"context"
	"fmt"
	"strconv"

	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/middleware"
	"Shutter/models"
	"Shutter/types"
)

var _ ILikeService = (*LikeService)(nil)

type ILikeService interface {
	Toggle(ctx context.Context, userID, photoID int64) (*types.LikeToggleResp, error)
	Check(ctx context.Context, userID, photoID int64) (*types.LikeCheckResp, error)
	// PhotoLikes lists who liked a photo, newest first.
	PhotoLikes(ctx context.Context, viewerID, photoID int64, q types.PageQuery) (*types.PageResp[types.UserBrief], error)
	// UserLikes lists the photos a user liked, newest like first.
	UserLikes(ctx context.Context, viewerID int64, username string, q types.PageQuery) (*types.PageResp[types.PhotoItem], error)
	Stats(ctx context.Context, photoID int64) (*types.LikeStats, error)
}

type LikeService struct {
	LikeDAO   *dao.LikeDAO
	PhotoDAO  *dao.PhotoDAO
	UserDAO   *dao.UserDAO
	Cache     cache.Cache
	Presenter *Presenter
}

func (s *LikeService) Toggle(ctx context.Context, userID, photoID int64) (*types.LikeToggleResp, error) {
	res, err := s.LikeDAO.Toggle(ctx, userID, photoID)
	if err != nil {
		return nil, relationErr(err, ErrPhotoNotFound, "like")
	}
	cache.Invalidate(ctx, s.Cache, cache.PhotoLiked, cache.Target{Subject: userID, Target: photoID})
	middleware.ToggleTotal.WithLabelValues("like", strconv.FormatBool(res.Engaged)).Inc()
	return &types.LikeToggleResp{Liked: res.Engaged, LikesCount: res.Count}, nil
}

func (s *LikeService) Check(ctx context.Context, userID, photoID int64) (*types.LikeCheckResp, error) {
	liked, err := s.LikeDAO.Exists(ctx, userID, photoID)
	if err != nil {
		return nil, fmt.Errorf("check like: %w", err)
	}
	return &types.LikeCheckResp{PhotoID: types.ID(photoID), Liked: liked}, nil
}

func (s *LikeService) PhotoLikes(ctx context.Context, viewerID, photoID int64, q types.PageQuery) (*types.PageResp[types.UserBrief], error) {
	exists, err := s.PhotoDAO.IsExist(ctx, "id = ?", photoID)
	if err != nil {
		return nil, fmt.Errorf("find photo: %w", err)
	}
	if !exists {
		return nil, ErrPhotoNotFound
	}
	page, size := q.Normalize()
	ids, total, err := s.LikeDAO.SubjectIDs(ctx, photoID, page, size)
	if err != nil {
		return nil, fmt.Errorf("photo likes: %w", err)
	}
	users, err := s.UserDAO.FindByIds(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	users = dao.OrderByIDs(ids, users, func(u *models.User) int64 { return u.ID })
	items, err := s.Presenter.Users(ctx, viewerID, users)
	if err != nil {
		return nil, err
	}
	return types.NewPage(items, total, page, size), nil
}

func (s *LikeService) UserLikes(ctx context.Context, viewerID int64, username string, q types.PageQuery) (*types.PageResp[types.PhotoItem], error) {
	user, err := userByNameOrSelf(ctx, s.UserDAO, username, viewerID)
	if err != nil {
		return nil, err
	}
	page, size := q.Normalize()
	ids, total, err := s.LikeDAO.TargetIDs(ctx, user.ID, page, size)
	if err != nil {
		return nil, fmt.Errorf("liked photos: %w", err)
	}
	items, err := photosByIDs(ctx, s.PhotoDAO, s.Presenter, viewerID, ids)
	if err != nil {
		return nil, err
	}
	return types.NewPage(items, total, page, size), nil
}

func (s *LikeService) Stats(ctx context.Context, photoID int64) (*types.LikeStats, error) {
	photo, err := s.PhotoDAO.FindById(ctx, photoID)
	if err != nil {
		return nil, notFound(err, ErrPhotoNotFound, "find photo")
	}
	return &types.LikeStats{PhotoID: types.ID(photo.ID), LikesCount: photo.LikesCount}, nil
}

// photosByIDs renders photos in the order of ids for viewerID.
func photosByIDs(ctx context.Context, photos *dao.PhotoDAO, pr *Presenter, viewerID int64, ids []int64) ([]types.PhotoItem, error) {
	rows, err := photos.FindByIds(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load photos: %w", err)
	}
	rows = dao.OrderByIDs(ids, rows, func(p *models.Photo) int64 { return p.ID })
	return pr.ViewPhotos(ctx, viewerID, rows)
}
