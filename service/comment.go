package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/models"
	"Shutter/pkg/snowflake"
	"Shutter/types"
)

var _ ICommentService = (*CommentService)(nil)

type ICommentService interface {
	Create(ctx context.Context, userID int64, req *types.CreateCommentReq) (*types.CommentItem, error)
	Get(ctx context.Context, commentID int64) (*types.CommentItem, error)
	// Update is reserved to the author.
	Update(ctx context.Context, p Principal, commentID int64, req *types.UpdateCommentReq) (*types.CommentItem, error)
	Delete(ctx context.Context, p Principal, commentID int64) error
	ListByPhoto(ctx context.Context, photoID int64, q types.PageQuery) (*types.PageResp[types.CommentItem], error)
	ListByUser(ctx context.Context, userID int64, q types.PageQuery) (*types.PageResp[types.CommentItem], error)
}

type CommentService struct {
	Config     *config.Config
	CommentDAO *dao.CommentDAO
	PhotoDAO   *dao.PhotoDAO
	UserDAO    *dao.UserDAO
	Cache      cache.Cache
	Presenter  *Presenter
}

func (s *CommentService) Create(ctx context.Context, userID int64, req *types.CreateCommentReq) (*types.CommentItem, error) {
	c := &models.Comment{
		ID:          snowflake.GenID(),
		UserID:      userID,
		PhotoID:     req.PhotoID.Int64(),
		CommentText: strings.TrimSpace(req.CommentText),
	}
	if err := s.CommentDAO.CreateWithCounter(ctx, c); err != nil {
		switch {
		case errors.Is(err, dao.ErrTargetNotFound):
			return nil, ErrPhotoNotFound
		case errors.Is(err, dao.ErrRelationExists):
			return nil, ErrDuplicateComment
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.PhotoCommented, cache.Target{Subject: userID, Target: c.PhotoID})
	return s.item(ctx, c)
}

func (s *CommentService) item(ctx context.Context, c *models.Comment) (*types.CommentItem, error) {
	items, err := s.Presenter.Comments(ctx, []*models.Comment{c})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *CommentService) find(ctx context.Context, commentID int64) (*models.Comment, error) {
	c, err := s.CommentDAO.FindById(ctx, commentID)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound, "find comment")
	}
	return c, nil
}

func (s *CommentService) Get(ctx context.Context, commentID int64) (*types.CommentItem, error) {
	c, err := s.find(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return s.item(ctx, c)
}

func (s *CommentService) Update(ctx context.Context, p Principal, commentID int64, req *types.UpdateCommentReq) (*types.CommentItem, error) {
	c, err := s.find(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if p.Anonymous() || p.UserID != c.UserID {
		return nil, ErrPermissionDenied
	}
	text := strings.TrimSpace(req.CommentText)
	if _, err := s.CommentDAO.UpdateById(ctx, commentID, map[string]any{"comment_text": text}); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.PhotoCommented, cache.Target{Subject: p.UserID, Target: c.PhotoID})
	return s.Get(ctx, commentID)
}

func (s *CommentService) Delete(ctx context.Context, p Principal, commentID int64) error {
	c, err := s.find(ctx, commentID)
	if err != nil {
		return err
	}
	if !CanMutate(p, c.UserID) {
		return ErrPermissionDenied
	}
	if err := s.CommentDAO.DeleteWithCounter(ctx, c); err != nil {
		return notFound(err, ErrCommentNotFound, "delete comment")
	}
	cache.Invalidate(ctx, s.Cache, cache.PhotoCommented, cache.Target{Subject: p.UserID, Target: c.PhotoID})
	return nil
}

// ListByPhoto pages are cached per photo and dropped together on any comment write.
func (s *CommentService) ListByPhoto(ctx context.Context, photoID int64, q types.PageQuery) (*types.PageResp[types.CommentItem], error) {
	page, size := q.Normalize()
	key := cache.ListKey(ctx, s.Cache, cache.NsPhotoComments(photoID), page, size)
	resp, err := cache.Remember(ctx, s.Cache, key, config.Seconds(s.Config.Cache.ListTTL),
		func(ctx context.Context) (*types.PageResp[types.CommentItem], error) {
			exists, err := s.PhotoDAO.IsExist(ctx, "id = ?", photoID)
			if err != nil {
				return nil, fmt.Errorf("find photo: %w", err)
			}
			if !exists {
				return nil, ErrPhotoNotFound
			}
			res, err := s.CommentDAO.ByPhoto(ctx, photoID, page, size)
			if err != nil {
				return nil, fmt.Errorf("list comments: %w", err)
			}
			return s.page(ctx, res, page, size)
		})
	if err != nil {
		return nil, err
	}
	if err := s.Presenter.RefreshCommentAuthors(ctx, resp.Results); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *CommentService) ListByUser(ctx context.Context, userID int64, q types.PageQuery) (*types.PageResp[types.CommentItem], error) {
	exists, err := s.UserDAO.IsExist(ctx, "id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	page, size := q.Normalize()
	res, err := s.CommentDAO.ByUser(ctx, userID, page, size)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return s.page(ctx, res, page, size)
}

func (s *CommentService) page(ctx context.Context, res *dao.Page[models.Comment], page, size int) (*types.PageResp[types.CommentItem], error) {
	items, err := s.Presenter.Comments(ctx, res.Items)
	if err != nil {
		return nil, err
	}
	return types.NewPage(items, res.Total, page, size), nil
}
