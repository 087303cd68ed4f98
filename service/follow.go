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

var _ IFollowService = (*FollowService)(nil)

type IFollowService interface {
	// Toggle follows or unfollows the user named by username or user_id.
	Toggle(ctx context.Context, followerID int64, req *types.ToggleFollowReq) (*types.FollowToggleResp, error)
	Check(ctx context.Context, viewerID int64, username string) (*types.FollowCheckResp, error)
	Followers(ctx context.Context, viewerID int64, req *types.FollowListReq) (*types.PageResp[types.UserBrief], error)
	Following(ctx context.Context, viewerID int64, req *types.FollowListReq) (*types.PageResp[types.UserBrief], error)
	Stats(ctx context.Context, viewerID int64, username string) (*types.FollowStats, error)
}

type FollowService struct {
	FollowDAO *dao.FollowDAO
	UserDAO   *dao.UserDAO
	Cache     cache.Cache
	Presenter *Presenter
}

func (s *FollowService) Toggle(ctx context.Context, followerID int64, req *types.ToggleFollowReq) (*types.FollowToggleResp, error) {
	var targetID int64
	switch {
	case req.Username != "":
		user, err := s.UserDAO.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, notFound(err, ErrUserNotFound, "find user")
		}
		targetID = user.ID
	case req.UserID != 0:
		targetID = req.UserID.Int64()
	default:
		return nil, ErrFollowTarget
	}
	if targetID == followerID {
		return nil, ErrSelfFollow
	}

	res, err := s.FollowDAO.Toggle(ctx, followerID, targetID)
	if err != nil {
		return nil, relationErr(err, ErrUserNotFound, "follow")
	}
	cache.Invalidate(ctx, s.Cache, cache.UserFollowed, cache.Target{Subject: followerID, Target: targetID})
	middleware.ToggleTotal.WithLabelValues("follow", strconv.FormatBool(res.Engaged)).Inc()
	return &types.FollowToggleResp{Following: res.Engaged, FollowersCount: res.Count}, nil
}

func (s *FollowService) Check(ctx context.Context, viewerID int64, username string) (*types.FollowCheckResp, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	user, err := s.UserDAO.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user")
	}
	following, err := s.FollowDAO.Exists(ctx, viewerID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check follow: %w", err)
	}
	return &types.FollowCheckResp{Username: user.Username, Following: following}, nil
}

func (s *FollowService) Followers(ctx context.Context, viewerID int64, req *types.FollowListReq) (*types.PageResp[types.UserBrief], error) {
	return s.list(ctx, viewerID, req, s.FollowDAO.SubjectIDs)
}

func (s *FollowService) Following(ctx context.Context, viewerID int64, req *types.FollowListReq) (*types.PageResp[types.UserBrief], error) {
	return s.list(ctx, viewerID, req, s.FollowDAO.TargetIDs)
}

func (s *FollowService) list(ctx context.Context, viewerID int64, req *types.FollowListReq,
	ids func(ctx context.Context, id int64, page, size int) ([]int64, int64, error)) (*types.PageResp[types.UserBrief], error) {
	user, err := userByNameOrSelf(ctx, s.UserDAO, req.Username, viewerID)
	if err != nil {
		return nil, err
	}
	page, size := req.Normalize()
	userIDs, total, err := ids(ctx, user.ID, page, size)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	users, err := s.UserDAO.FindByIds(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	users = dao.OrderByIDs(userIDs, users, func(u *models.User) int64 { return u.ID })
	items, err := s.Presenter.Users(ctx, viewerID, users)
	if err != nil {
		return nil, err
	}
	return types.NewPage(items, total, page, size), nil
}

func (s *FollowService) Stats(ctx context.Context, viewerID int64, username string) (*types.FollowStats, error) {
	user, err := userByNameOrSelf(ctx, s.UserDAO, username, viewerID)
	if err != nil {
		return nil, err
	}
	return &types.FollowStats{
		UserID:         types.ID(user.ID),
		Username:       user.Username,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
	}, nil
}
