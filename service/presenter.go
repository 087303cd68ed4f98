package service

import (
	"context"
	"encoding/json"
	"fmt"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/models"
	"Shutter/pkg/log"
	"Shutter/types"

	"go.uber.org/zap"
)

// Presenter turns rows into response items. Author briefs are cached per user
// and laid over every item on read, so cached photo, collection and comment
// entries never serve a stale author. Viewer flags are overlaid last.
type Presenter struct {
	Config              *config.Config
	Cache               cache.Cache
	UserDAO             *dao.UserDAO
	LikeDAO             *dao.LikeDAO
	FollowDAO           *dao.FollowDAO
	CollectionLikeDAO   *dao.CollectionLikeDAO
	CollectionFollowDAO *dao.CollectionFollowDAO
}

func userBrief(u *models.User) types.UserBrief {
	return types.UserBrief{
		ID:             types.ID(u.ID),
		Username:       u.Username,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
		FollowersCount: u.FollowersCount,
	}
}

func userDetail(u *models.User) types.UserDetail {
	contact := map[string]any(u.Contact)
	if contact == nil {
		contact = map[string]any{}
	}
	return types.UserDetail{
		ID:             types.ID(u.ID),
		Username:       u.Username,
		FullName:       u.FullName,
		Bio:            u.Bio,
		About:          u.About,
		ProfilePicture: u.ProfilePicture,
		Contact:        contact,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt,
	}
}

func userProfile(u *models.User) *types.UserProfile {
	return &types.UserProfile{
		UserDetail: userDetail(u),
		Email:      u.Email,
		IsAdmin:    u.Privileged(),
		LastLogin:  u.LastLogin,
	}
}

func photoItem(p *models.Photo, owner types.UserBrief) types.PhotoItem {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	return types.PhotoItem{
		ID:             types.ID(p.ID),
		User:           owner,
		ImageURL:       p.ImageURL,
		Title:          p.Title,
		Description:    p.Description,
		Width:          p.Width,
		Height:         p.Height,
		Format:         p.Format,
		Tags:           tags,
		LikesCount:     p.LikesCount,
		CommentsCount:  p.CommentsCount,
		DownloadsCount: p.DownloadsCount,
		UploadDate:     p.UploadDate,
	}
}

func collectionItem(c *models.Collection, owner types.UserBrief) types.CollectionItem {
	return types.CollectionItem{
		ID:             types.ID(c.ID),
		User:           owner,
		Name:           c.Name,
		Slug:           c.Slug,
		Description:    c.Description,
		IsPublic:       c.IsPublic,
		LikesCount:     c.LikesCount,
		FollowersCount: c.FollowersCount,
		PhotosCount:    c.PhotosCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func categoryItem(c *models.Category) types.CategoryItem {
	return types.CategoryItem{
		ID:          types.ID(c.ID),
		Name:        c.Name,
		Slug:        c.Slug,
		ImageURL:    c.ImageURL,
		PhotosCount: c.PhotosCount,
	}
}

func (p *Presenter) authors(ctx context.Context, ids []int64) (map[int64]types.UserBrief, error) {
	out := make(map[int64]types.UserBrief, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	misses := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if b, ok := p.cachedBrief(ctx, id); ok {
			out[id] = b
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	users, err := p.UserDAO.FindByIds(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	for _, u := range users {
		b := userBrief(u)
		out[u.ID] = b
		p.storeBrief(ctx, b)
	}
	return out, nil
}

func (p *Presenter) cachedBrief(ctx context.Context, id int64) (types.UserBrief, bool) {
	var b types.UserBrief
	if p.Cache == nil {
		return b, false
	}
	raw, found, err := p.Cache.Get(ctx, cache.UserBriefKey(id))
	if err != nil {
		log.L.Warn("cache get author", zap.Int64("user_id", id), zap.Error(err))
		return b, false
	}
	if !found || json.Unmarshal(raw, &b) != nil {
		return b, false
	}
	return b, true
}

func (p *Presenter) storeBrief(ctx context.Context, b types.UserBrief) {
	if p.Cache == nil {
		return
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	ttl := config.Seconds(600)
	if p.Config != nil {
		ttl = config.Seconds(p.Config.Cache.UserTTL)
	}
	if err := p.Cache.Set(ctx, cache.UserBriefKey(int64(b.ID)), raw, ttl); err != nil {
		log.L.Warn("cache set author", zap.Int64("user_id", int64(b.ID)), zap.Error(err))
	}
}

// RefreshPhotoAuthors replaces the author of each item with the current brief.
func (p *Presenter) RefreshPhotoAuthors(ctx context.Context, items []types.PhotoItem) error {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.User.ID.Int64())
	}
	owners, err := p.authors(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if b, ok := owners[items[i].User.ID.Int64()]; ok {
			items[i].User = b
		}
	}
	return nil
}

func (p *Presenter) RefreshCollectionOwners(ctx context.Context, items []types.CollectionItem) error {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.User.ID.Int64())
	}
	owners, err := p.authors(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if b, ok := owners[items[i].User.ID.Int64()]; ok {
			items[i].User = b
		}
	}
	return nil
}

func (p *Presenter) RefreshCommentAuthors(ctx context.Context, items []types.CommentItem) error {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.User.ID.Int64())
	}
	authors, err := p.authors(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if b, ok := authors[items[i].User.ID.Int64()]; ok {
			items[i].User = b
		}
	}
	return nil
}

func (p *Presenter) Photos(ctx context.Context, photos []*models.Photo) ([]types.PhotoItem, error) {
	ids := make([]int64, 0, len(photos))
	for _, ph := range photos {
		ids = append(ids, ph.UserID)
	}
	owners, err := p.authors(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]types.PhotoItem, 0, len(photos))
	for _, ph := range photos {
		items = append(items, photoItem(ph, owners[ph.UserID]))
	}
	return items, nil
}

// MarkLiked sets IsLiked for viewerID in place.
func (p *Presenter) MarkLiked(ctx context.Context, viewerID int64, items []types.PhotoItem) error {
	if viewerID == 0 || len(items) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, int64(it.ID))
	}
	liked, err := p.LikeDAO.EngagedTargets(ctx, viewerID, ids)
	if err != nil {
		return fmt.Errorf("liked photos: %w", err)
	}
	for i := range items {
		items[i].IsLiked = liked[int64(items[i].ID)]
	}
	return nil
}

// ViewPhotos is Photos followed by MarkLiked.
func (p *Presenter) ViewPhotos(ctx context.Context, viewerID int64, photos []*models.Photo) ([]types.PhotoItem, error) {
	items, err := p.Photos(ctx, photos)
	if err != nil {
		return nil, err
	}
	if err := p.MarkLiked(ctx, viewerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Users renders users with IsFollowing set for viewerID.
func (p *Presenter) Users(ctx context.Context, viewerID int64, users []*models.User) ([]types.UserBrief, error) {
	items := make([]types.UserBrief, 0, len(users))
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		items = append(items, userBrief(u))
		ids = append(ids, u.ID)
	}
	if viewerID == 0 {
		return items, nil
	}
	following, err := p.FollowDAO.EngagedTargets(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("followed users: %w", err)
	}
	for i := range items {
		items[i].IsFollowing = following[int64(items[i].ID)]
	}
	return items, nil
}

func (p *Presenter) Collections(ctx context.Context, cols []*models.Collection) ([]types.CollectionItem, error) {
	ids := make([]int64, 0, len(cols))
	for _, c := range cols {
		ids = append(ids, c.UserID)
	}
	owners, err := p.authors(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]types.CollectionItem, 0, len(cols))
	for _, c := range cols {
		items = append(items, collectionItem(c, owners[c.UserID]))
	}
	return items, nil
}

// MarkCollections sets IsLiked and IsFollowing for viewerID in place.
func (p *Presenter) MarkCollections(ctx context.Context, viewerID int64, items []types.CollectionItem) error {
	if viewerID == 0 || len(items) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, int64(it.ID))
	}
	liked, err := p.CollectionLikeDAO.EngagedTargets(ctx, viewerID, ids)
	if err != nil {
		return fmt.Errorf("liked collections: %w", err)
	}
	followed, err := p.CollectionFollowDAO.EngagedTargets(ctx, viewerID, ids)
	if err != nil {
		return fmt.Errorf("followed collections: %w", err)
	}
	for i := range items {
		id := int64(items[i].ID)
		items[i].IsLiked = liked[id]
		items[i].IsFollowing = followed[id]
	}
	return nil
}

func (p *Presenter) Comments(ctx context.Context, comments []*models.Comment) ([]types.CommentItem, error) {
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := p.authors(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]types.CommentItem, 0, len(comments))
	for _, c := range comments {
		items = append(items, types.CommentItem{
			ID:          types.ID(c.ID),
			PhotoID:     types.ID(c.PhotoID),
			User:        authors[c.UserID],
			CommentText: c.CommentText,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return items, nil
}
