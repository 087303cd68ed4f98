package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/middleware"
	"Shutter/models"
	"Shutter/pkg/snowflake"
	"Shutter/pkg/utils"
	"Shutter/types"
)

const (
	trendingCollectionsLimit    = 10
	recommendedCollectionsLimit = 10
	// recommendationFanout bounds every id lookup made while recommending.
	recommendationFanout = 100
)

var _ ICollectionService = (*CollectionService)(nil)

type ICollectionService interface {
	Create(ctx context.Context, p Principal, req *types.CreateCollectionReq) (*types.CollectionItem, error)
	// List returns public collections plus the caller's own.
	List(ctx context.Context, p Principal, req *types.CollectionListReq) (*types.PageResp[types.CollectionItem], error)
	Mine(ctx context.Context, p Principal, q types.PageQuery) (*types.PageResp[types.CollectionItem], error)
	UserCollections(ctx context.Context, p Principal, username string, q types.PageQuery) (*types.PageResp[types.CollectionItem], error)
	Detail(ctx context.Context, p Principal, collectionID int64) (*types.CollectionItem, error)
	BySlug(ctx context.Context, p Principal, slug string) (*types.CollectionItem, error)
	Update(ctx context.Context, p Principal, collectionID int64, req *types.UpdateCollectionReq) (*types.CollectionItem, error)
	Delete(ctx context.Context, p Principal, collectionID int64) error
	AddPhotos(ctx context.Context, p Principal, collectionID int64, req *types.PhotoIDsReq) (*types.MembershipResp, error)
	RemovePhotos(ctx context.Context, p Principal, collectionID int64, req *types.PhotoIDsReq) (*types.MembershipResp, error)
	ToggleLike(ctx context.Context, p Principal, collectionID int64) (*types.CollectionLikeResp, error)
	ToggleFollow(ctx context.Context, p Principal, collectionID int64) (*types.CollectionFollowResp, error)
	Photos(ctx context.Context, p Principal, collectionID int64, q types.PageQuery) (*types.PageResp[types.PhotoItem], error)
	Trending(ctx context.Context, p Principal) ([]types.CollectionItem, error)
	// Recommended suggests collections engaged by users with overlapping likes or follows.
	Recommended(ctx context.Context, p Principal) ([]types.CollectionItem, error)
	Stats(ctx context.Context, p Principal, collectionID int64) (*types.CollectionStats, error)
}

type CollectionService struct {
	Config              *config.Config
	CollectionDAO       *dao.CollectionDAO
	PhotoDAO            *dao.PhotoDAO
	UserDAO             *dao.UserDAO
	PhotoCollectionDAO  *dao.PhotoCollectionDAO
	CollectionLikeDAO   *dao.CollectionLikeDAO
	CollectionFollowDAO *dao.CollectionFollowDAO
	Cache               cache.Cache
	Presenter           *Presenter
}

func (s *CollectionService) Create(ctx context.Context, p Principal, req *types.CreateCollectionReq) (*types.CollectionItem, error) {
	owner, err := s.UserDAO.FindById(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find owner")
	}
	name := strings.TrimSpace(req.Name)
	col := &models.Collection{
		ID:          snowflake.GenID(),
		UserID:      owner.ID,
		Name:        name,
		Description: req.Description,
		IsPublic:    req.IsPublic == nil || *req.IsPublic,
	}
	col.Slug = utils.CollectionSlug(s.Config.App.HashSalt, name, col.ID)
	if err := s.CollectionDAO.Create(ctx, col); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.CollectionWritten, cache.Target{Subject: owner.ID, Target: col.ID})

	item := collectionItem(col, userBrief(owner))
	return &item, nil
}

func (s *CollectionService) List(ctx context.Context, p Principal, req *types.CollectionListReq) (*types.PageResp[types.CollectionItem], error) {
	page, size := req.Normalize()
	filter := dao.CollectionFilter{
		ViewerID: p.UserID,
		Admin:    p.IsAdmin,
		IsPublic: req.IsPublic,
		Search:   strings.TrimSpace(req.Search),
		SortBy:   req.SortBy,
		Page:     page,
		Size:     size,
	}
	if req.Username != "" {
		owner, err := s.UserDAO.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, notFound(err, ErrUserNotFound, "find user")
		}
		filter.OwnerID = owner.ID
	}
	return s.page(ctx, p, filter)
}

func (s *CollectionService) Mine(ctx context.Context, p Principal, q types.PageQuery) (*types.PageResp[types.CollectionItem], error) {
	page, size := q.Normalize()
	return s.page(ctx, p, dao.CollectionFilter{ViewerID: p.UserID, OwnerID: p.UserID, Page: page, Size: size})
}

func (s *CollectionService) UserCollections(ctx context.Context, p Principal, username string, q types.PageQuery) (*types.PageResp[types.CollectionItem], error) {
	owner, err := userByNameOrSelf(ctx, s.UserDAO, username, p.UserID)
	if err != nil {
		return nil, err
	}
	page, size := q.Normalize()
	return s.page(ctx, p, dao.CollectionFilter{
		ViewerID: p.UserID,
		Admin:    p.IsAdmin,
		OwnerID:  owner.ID,
		Page:     page,
		Size:     size,
	})
}

func (s *CollectionService) page(ctx context.Context, p Principal, filter dao.CollectionFilter) (*types.PageResp[types.CollectionItem], error) {
	res, err := s.CollectionDAO.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	items, err := s.Presenter.Collections(ctx, res.Items)
	if err != nil {
		return nil, err
	}
	if err := s.Presenter.MarkCollections(ctx, p.UserID, items); err != nil {
		return nil, err
	}
	return types.NewPage(items, res.Total, filter.Page, filter.Size), nil
}

// Detail serves the cached base item; private collections are visible to the owner and admins only.
func (s *CollectionService) Detail(ctx context.Context, p Principal, collectionID int64) (*types.CollectionItem, error) {
	item, err := cache.Remember(ctx, s.Cache, cache.CollectionKey(collectionID), config.Seconds(s.Config.Cache.CollectionTTL),
		func(ctx context.Context) (types.CollectionItem, error) {
			col, err := s.CollectionDAO.FindById(ctx, collectionID)
			if err != nil {
				return types.CollectionItem{}, notFound(err, ErrCollectionNotFound, "find collection")
			}
			items, err := s.Presenter.Collections(ctx, []*models.Collection{col})
			if err != nil {
				return types.CollectionItem{}, err
			}
			return items[0], nil
		})
	if err != nil {
		return nil, err
	}
	if !item.IsPublic && !CanMutate(p, item.User.ID.Int64()) {
		return nil, ErrPermissionDenied
	}
	items := []types.CollectionItem{item}
	if err := s.Presenter.RefreshCollectionOwners(ctx, items); err != nil {
		return nil, err
	}
	return s.view(ctx, p, items[0])
}

func (s *CollectionService) view(ctx context.Context, p Principal, item types.CollectionItem) (*types.CollectionItem, error) {
	items := []types.CollectionItem{item}
	if err := s.Presenter.MarkCollections(ctx, p.UserID, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *CollectionService) BySlug(ctx context.Context, p Principal, slug string) (*types.CollectionItem, error) {
	col, err := s.CollectionDAO.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, ErrCollectionNotFound, "find collection")
	}
	return s.Detail(ctx, p, col.ID)
}

// visible loads a collection the caller may look at.
func (s *CollectionService) visible(ctx context.Context, p Principal, collectionID int64) (*models.Collection, error) {
	col, err := s.CollectionDAO.FindById(ctx, collectionID)
	if err != nil {
		return nil, notFound(err, ErrCollectionNotFound, "find collection")
	}
	if !CanView(p, col) {
		return nil, ErrPermissionDenied
	}
	return col, nil
}

// owned loads a collection the caller may change.
func (s *CollectionService) owned(ctx context.Context, p Principal, collectionID int64) (*models.Collection, error) {
	col, err := s.CollectionDAO.FindById(ctx, collectionID)
	if err != nil {
		return nil, notFound(err, ErrCollectionNotFound, "find collection")
	}
	if !CanMutate(p, col.UserID) {
		return nil, ErrPermissionDenied
	}
	return col, nil
}

func (s *CollectionService) Update(ctx context.Context, p Principal, collectionID int64, req *types.UpdateCollectionReq) (*types.CollectionItem, error) {
	col, err := s.owned(ctx, p, collectionID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != col.Name {
			updates["name"] = name
			updates["slug"] = utils.CollectionSlug(s.Config.App.HashSalt, name, col.ID)
		}
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if len(updates) > 0 {
		if _, err := s.CollectionDAO.UpdateById(ctx, collectionID, updates); err != nil {
			return nil, fmt.Errorf("update collection: %w", err)
		}
		cache.Invalidate(ctx, s.Cache, cache.CollectionWritten, cache.Target{Subject: p.UserID, Target: collectionID})
	}
	return s.Detail(ctx, p, collectionID)
}

func (s *CollectionService) Delete(ctx context.Context, p Principal, collectionID int64) error {
	if _, err := s.owned(ctx, p, collectionID); err != nil {
		return err
	}
	if err := s.CollectionDAO.DeleteCascade(ctx, collectionID); err != nil {
		return notFound(err, ErrCollectionNotFound, "delete collection")
	}
	cache.Invalidate(ctx, s.Cache, cache.CollectionWritten, cache.Target{Subject: p.UserID, Target: collectionID})
	return nil
}

func (s *CollectionService) AddPhotos(ctx context.Context, p Principal, collectionID int64, req *types.PhotoIDsReq) (*types.MembershipResp, error) {
	return s.members(ctx, p, collectionID, req, true)
}

func (s *CollectionService) RemovePhotos(ctx context.Context, p Principal, collectionID int64, req *types.PhotoIDsReq) (*types.MembershipResp, error) {
	return s.members(ctx, p, collectionID, req, false)
}

func (s *CollectionService) members(ctx context.Context, p Principal, collectionID int64, req *types.PhotoIDsReq, add bool) (*types.MembershipResp, error) {
	if _, err := s.owned(ctx, p, collectionID); err != nil {
		return nil, err
	}
	res, err := changeMembers(ctx, s.PhotoCollectionDAO, s.PhotoDAO, collectionID, req.PhotoIDs, add)
	if err != nil {
		return nil, relationErr(err, ErrCollectionNotFound, "collection photo")
	}
	cache.Invalidate(ctx, s.Cache, cache.CollectionMembers, cache.Target{Subject: p.UserID, Target: collectionID})
	return res, nil
}

func (s *CollectionService) ToggleLike(ctx context.Context, p Principal, collectionID int64) (*types.CollectionLikeResp, error) {
	if _, err := s.visible(ctx, p, collectionID); err != nil {
		return nil, err
	}
	res, err := s.CollectionLikeDAO.Toggle(ctx, p.UserID, collectionID)
	if err != nil {
		return nil, relationErr(err, ErrCollectionNotFound, "collection like")
	}
	cache.Invalidate(ctx, s.Cache, cache.CollectionEngaged, cache.Target{Subject: p.UserID, Target: collectionID})
	middleware.ToggleTotal.WithLabelValues("collection_like", strconv.FormatBool(res.Engaged)).Inc()
	return &types.CollectionLikeResp{Liked: res.Engaged, LikesCount: res.Count}, nil
}

func (s *CollectionService) ToggleFollow(ctx context.Context, p Principal, collectionID int64) (*types.CollectionFollowResp, error) {
	if _, err := s.visible(ctx, p, collectionID); err != nil {
		return nil, err
	}
	res, err := s.CollectionFollowDAO.Toggle(ctx, p.UserID, collectionID)
	if err != nil {
		return nil, relationErr(err, ErrCollectionNotFound, "collection follow")
	}
	cache.Invalidate(ctx, s.Cache, cache.CollectionEngaged, cache.Target{Subject: p.UserID, Target: collectionID})
	middleware.ToggleTotal.WithLabelValues("collection_follow", strconv.FormatBool(res.Engaged)).Inc()
	return &types.CollectionFollowResp{Following: res.Engaged, FollowersCount: res.Count}, nil
}

func (s *CollectionService) Photos(ctx context.Context, p Principal, collectionID int64, q types.PageQuery) (*types.PageResp[types.PhotoItem], error) {
	if _, err := s.visible(ctx, p, collectionID); err != nil {
		return nil, err
	}
	return memberPhotos(ctx, s.PhotoCollectionDAO, s.PhotoDAO, s.Presenter, p.UserID, collectionID, q)
}

// Trending is the top public collections by likes plus follows.
func (s *CollectionService) Trending(ctx context.Context, p Principal) ([]types.CollectionItem, error) {
	key := cache.ListKey(ctx, s.Cache, cache.NsTrendingCollections, trendingCollectionsLimit)
	items, err := cache.Remember(ctx, s.Cache, key, config.Seconds(s.Config.Cache.ListTTL),
		func(ctx context.Context) ([]types.CollectionItem, error) {
			cols, err := s.CollectionDAO.Trending(ctx, trendingCollectionsLimit)
			if err != nil {
				return nil, fmt.Errorf("trending collections: %w", err)
			}
			return s.Presenter.Collections(ctx, cols)
		})
	if err != nil {
		return nil, err
	}
	if err := s.Presenter.RefreshCollectionOwners(ctx, items); err != nil {
		return nil, err
	}
	if err := s.Presenter.MarkCollections(ctx, p.UserID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// engagementIDs is the id side of a collection like or follow relation.
type engagementIDs interface {
	TargetIDs(ctx context.Context, subjectID int64, page, size int) ([]int64, int64, error)
	SubjectIDs(ctx context.Context, targetID int64, page, size int) ([]int64, int64, error)
}

// Recommended walks likes to likes and follows to follows: users who share
// a collection with the caller lend their other collections a vote each.
// Collections the caller already likes or follows are left out.
func (s *CollectionService) Recommended(ctx context.Context, p Principal) ([]types.CollectionItem, error) {
	if p.Anonymous() {
		return nil, ErrInvalidToken
	}
	rels := []engagementIDs{s.CollectionLikeDAO, s.CollectionFollowDAO}
	seeds := make([][]int64, len(rels))
	engaged := make(map[int64]bool)
	for i, rel := range rels {
		ids, _, err := rel.TargetIDs(ctx, p.UserID, 1, recommendationFanout)
		if err != nil {
			return nil, fmt.Errorf("caller engagements: %w", err)
		}
		seeds[i] = ids
		for _, id := range ids {
			engaged[id] = true
		}
	}

	votes := make(map[int64]int)
	for i, rel := range rels {
		peers := make(map[int64]bool)
		for _, colID := range seeds[i] {
			users, _, err := rel.SubjectIDs(ctx, colID, 1, recommendationFanout)
			if err != nil {
				return nil, fmt.Errorf("co-engaged users: %w", err)
			}
			for _, u := range users {
				if u != p.UserID {
					peers[u] = true
				}
			}
		}
		for u := range peers {
			ids, _, err := rel.TargetIDs(ctx, u, 1, recommendationFanout)
			if err != nil {
				return nil, fmt.Errorf("peer engagements: %w", err)
			}
			for _, id := range ids {
				if !engaged[id] {
					votes[id]++
				}
			}
		}
	}
	if len(votes) == 0 {
		return []types.CollectionItem{}, nil
	}

	candidates := make([]int64, 0, len(votes))
	for id := range votes {
		candidates = append(candidates, id)
	}
	cols, err := s.CollectionDAO.FindByIds(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("load recommended collections: %w", err)
	}
	picked := make([]*models.Collection, 0, len(cols))
	for _, c := range cols {
		if CanView(p, c) {
			picked = append(picked, c)
		}
	}
	sort.Slice(picked, func(i, j int) bool {
		vi, vj := votes[picked[i].ID], votes[picked[j].ID]
		if vi != vj {
			return vi > vj
		}
		return picked[i].ID > picked[j].ID
	})
	if len(picked) > recommendedCollectionsLimit {
		picked = picked[:recommendedCollectionsLimit]
	}
	return s.Presenter.Collections(ctx, picked)
}

func (s *CollectionService) Stats(ctx context.Context, p Principal, collectionID int64) (*types.CollectionStats, error) {
	col, err := s.visible(ctx, p, collectionID)
	if err != nil {
		return nil, err
	}
	return &types.CollectionStats{
		CollectionID:   types.ID(col.ID),
		LikesCount:     col.LikesCount,
		FollowersCount: col.FollowersCount,
		PhotosCount:    col.PhotosCount,
	}, nil
}
