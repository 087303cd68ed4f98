package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/models"
	"Shutter/pkg/log"
	"Shutter/pkg/response"
	"Shutter/pkg/snowflake"
	"Shutter/types"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

const (
	batchUploadWorkers   = 4
	defaultTrendingLimit = 10
)

var _ IPhotoService = (*PhotoService)(nil)

type IPhotoService interface {
	Create(ctx context.Context, p Principal, req *types.CreatePhotoReq, fh *multipart.FileHeader) (*types.PhotoItem, error)
	// BatchUpload creates one photo per file. A failed file never aborts the others.
	BatchUpload(ctx context.Context, p Principal, files []*multipart.FileHeader) (*types.BatchUploadResp, error)
	List(ctx context.Context, viewerID int64, req *types.PhotoListReq) (*types.PageResp[types.PhotoItem], error)
	Detail(ctx context.Context, viewerID, photoID int64) (*types.PhotoItem, error)
	Update(ctx context.Context, p Principal, photoID int64, req *types.UpdatePhotoReq) (*types.PhotoItem, error)
	Delete(ctx context.Context, p Principal, photoID int64) error
	Trending(ctx context.Context, viewerID int64, req *types.TrendingReq) ([]types.PhotoItem, error)
	Feed(ctx context.Context, viewerID int64, q types.PageQuery) (*types.PageResp[types.PhotoItem], error)
	UserGallery(ctx context.Context, viewerID int64, req *types.GalleryReq) (*types.PageResp[types.PhotoItem], error)
	Stats(ctx context.Context, photoID int64) (*types.PhotoStats, error)
}

type PhotoService struct {
	Config             *config.Config
	PhotoDAO           *dao.PhotoDAO
	UserDAO            *dao.UserDAO
	PhotoCollectionDAO *dao.PhotoCollectionDAO
	Cache              cache.Cache
	Presenter          *Presenter
	Upload             IUploadService
	Tagger             ITagService
}

func (s *PhotoService) Create(ctx context.Context, p Principal, req *types.CreatePhotoReq, fh *multipart.FileHeader) (*types.PhotoItem, error) {
	owner, err := s.UserDAO.FindById(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find owner")
	}
	return s.create(ctx, owner, req, fh)
}

func (s *PhotoService) create(ctx context.Context, owner *models.User, req *types.CreatePhotoReq, fh *multipart.FileHeader) (*types.PhotoItem, error) {
	img, err := s.Upload.Upload(ctx, owner, fh)
	if err != nil {
		return nil, err
	}

	tags := parseTagList(req.Tags)
	photo := &models.Photo{
		ID:          snowflake.GenID(),
		UserID:      owner.ID,
		ImageURL:    img.URL,
		ObjectKey:   img.Key,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Width:       img.Width,
		Height:      img.Height,
		Format:      img.Format,
		Tags:        tags,
		Tagged:      len(tags) > 0,
		UploadDate:  time.Now(),
	}
	if err := s.PhotoDAO.Create(ctx, photo); err != nil {
		s.Upload.Purge(ctx, img.URL)
		return nil, fmt.Errorf("create photo: %w", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.PhotoWritten, cache.Target{Subject: owner.ID, Target: photo.ID})
	s.Tagger.Dispatch(photo)

	item := photoItem(photo, userBrief(owner))
	return &item, nil
}

func (s *PhotoService) BatchUpload(ctx context.Context, p Principal, files []*multipart.FileHeader) (*types.BatchUploadResp, error) {
	if len(files) == 0 {
		return nil, ErrMissingImage
	}
	owner, err := s.UserDAO.FindById(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find owner")
	}

	mapper := iter.Mapper[*multipart.FileHeader, types.BatchUploadItem]{MaxGoroutines: batchUploadWorkers}
	results := mapper.Map(files, func(fh **multipart.FileHeader) types.BatchUploadItem {
		out := types.BatchUploadItem{Filename: (*fh).Filename}
		item, err := s.create(ctx, owner, &types.CreatePhotoReq{}, *fh)
		if err != nil {
			out.Error = clientMessage(err)
			return out
		}
		out.Photo = item
		return out
	})

	resp := &types.BatchUploadResp{Results: results}
	for _, r := range results {
		if r.Photo != nil {
			resp.Uploaded++
		} else {
			resp.Failed++
		}
	}
	return resp, nil
}

// clientMessage is the error text a client may see for err.
func clientMessage(err error) string {
	var be *response.BizError
	if errors.As(err, &be) {
		return be.Msg
	}
	log.L.Error("batch upload item", zap.Error(err))
	return "internal server error"
}

func (s *PhotoService) List(ctx context.Context, viewerID int64, req *types.PhotoListReq) (*types.PageResp[types.PhotoItem], error) {
	page, size := req.Normalize()
	filter := dao.PhotoFilter{Search: strings.TrimSpace(req.Search), Page: page, Size: size}
	if req.Username != "" {
		owner, err := s.UserDAO.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, notFound(err, ErrUserNotFound, "find user")
		}
		filter.UserID = owner.ID
	}
	return s.page(ctx, viewerID, page, size, func() (*dao.Page[models.Photo], error) {
		return s.PhotoDAO.List(ctx, filter)
	})
}

func (s *PhotoService) page(ctx context.Context, viewerID int64, page, size int, load func() (*dao.Page[models.Photo], error)) (*types.PageResp[types.PhotoItem], error) {
	res, err := load()
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	items, err := s.Presenter.ViewPhotos(ctx, viewerID, res.Items)
	if err != nil {
		return nil, err
	}
	return types.NewPage(items, res.Total, page, size), nil
}

// Detail serves the cached base item; only IsLiked is computed per request.
func (s *PhotoService) Detail(ctx context.Context, viewerID, photoID int64) (*types.PhotoItem, error) {
	item, err := cache.Remember(ctx, s.Cache, cache.PhotoKey(photoID), config.Seconds(s.Config.Cache.PhotoTTL),
		func(ctx context.Context) (types.PhotoItem, error) {
			photo, err := s.PhotoDAO.FindById(ctx, photoID)
			if err != nil {
				return types.PhotoItem{}, notFound(err, ErrPhotoNotFound, "find photo")
			}
			items, err := s.Presenter.Photos(ctx, []*models.Photo{photo})
			if err != nil {
				return types.PhotoItem{}, err
			}
			return items[0], nil
		})
	if err != nil {
		return nil, err
	}
	items := []types.PhotoItem{item}
	if err := s.Presenter.RefreshPhotoAuthors(ctx, items); err != nil {
		return nil, err
	}
	if err := s.Presenter.MarkLiked(ctx, viewerID, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *PhotoService) owned(ctx context.Context, p Principal, photoID int64) (*models.Photo, error) {
	photo, err := s.PhotoDAO.FindById(ctx, photoID)
	if err != nil {
		return nil, notFound(err, ErrPhotoNotFound, "find photo")
	}
	if !CanMutate(p, photo.UserID) {
		return nil, ErrPermissionDenied
	}
	return photo, nil
}

func (s *PhotoService) Update(ctx context.Context, p Principal, photoID int64, req *types.UpdatePhotoReq) (*types.PhotoItem, error) {
	if _, err := s.owned(ctx, p, photoID); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if _, err := s.PhotoDAO.UpdateById(ctx, photoID, updates); err != nil {
			return nil, fmt.Errorf("update photo: %w", err)
		}
		cache.Invalidate(ctx, s.Cache, cache.PhotoWritten, cache.Target{Subject: p.UserID, Target: photoID})
	}
	return s.Detail(ctx, p.UserID, photoID)
}

// Delete removes the photo and its edges, then purges the stored object.
// A purge failure does not undo the deletion.
func (s *PhotoService) Delete(ctx context.Context, p Principal, photoID int64) error {
	photo, err := s.owned(ctx, p, photoID)
	if err != nil {
		return err
	}
	cascade, err := s.PhotoDAO.DeleteCascade(ctx, photoID)
	if err != nil {
		return notFound(err, ErrPhotoNotFound, "delete photo")
	}

	cache.Invalidate(ctx, s.Cache, cache.PhotoWritten, cache.Target{Subject: p.UserID, Target: photoID})
	for _, id := range cascade.CollectionIDs {
		cache.Invalidate(ctx, s.Cache, cache.CollectionMembers, cache.Target{Target: id})
	}
	for _, id := range cascade.CategoryIDs {
		cache.Invalidate(ctx, s.Cache, cache.CategoryMembers, cache.Target{Target: id})
	}

	s.Upload.Purge(ctx, photo.ImageURL)
	log.L.Info("photo deleted", zap.Int64("photo_id", photoID), zap.Int64("by", p.UserID))
	return nil
}

// Trending ranks by likes then recency. Days limits the upload window; zero means all time.
func (s *PhotoService) Trending(ctx context.Context, viewerID int64, req *types.TrendingReq) ([]types.PhotoItem, error) {
	limit := req.Limit
	if limit < 1 {
		limit = defaultTrendingLimit
	}
	key := cache.ListKey(ctx, s.Cache, cache.NsTrendingPhotos, req.Days, limit)
	items, err := cache.Remember(ctx, s.Cache, key, config.Seconds(s.Config.Cache.ListTTL),
		func(ctx context.Context) ([]types.PhotoItem, error) {
			var since time.Time
			if req.Days > 0 {
				since = time.Now().AddDate(0, 0, -req.Days)
			}
			photos, err := s.PhotoDAO.Trending(ctx, since, limit)
			if err != nil {
				return nil, fmt.Errorf("trending photos: %w", err)
			}
			return s.Presenter.Photos(ctx, photos)
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

func (s *PhotoService) Feed(ctx context.Context, viewerID int64, q types.PageQuery) (*types.PageResp[types.PhotoItem], error) {
	page, size := q.Normalize()
	return s.page(ctx, viewerID, page, size, func() (*dao.Page[models.Photo], error) {
		return s.PhotoDAO.Feed(ctx, viewerID, page, size)
	})
}

// UserGallery lists one user's photos, the viewer's own when no username is given.
func (s *PhotoService) UserGallery(ctx context.Context, viewerID int64, req *types.GalleryReq) (*types.PageResp[types.PhotoItem], error) {
	owner, err := userByNameOrSelf(ctx, s.UserDAO, req.Username, viewerID)
	if err != nil {
		return nil, err
	}
	page, size := req.Normalize()
	return s.page(ctx, viewerID, page, size, func() (*dao.Page[models.Photo], error) {
		return s.PhotoDAO.List(ctx, dao.PhotoFilter{UserID: owner.ID, Page: page, Size: size})
	})
}

func (s *PhotoService) Stats(ctx context.Context, photoID int64) (*types.PhotoStats, error) {
	photo, err := s.PhotoDAO.FindById(ctx, photoID)
	if err != nil {
		return nil, notFound(err, ErrPhotoNotFound, "find photo")
	}
	collections, err := s.PhotoCollectionDAO.CountBySubject(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("count collections: %w", err)
	}
	return &types.PhotoStats{
		PhotoID:          types.ID(photo.ID),
		LikesCount:       photo.LikesCount,
		CommentsCount:    photo.CommentsCount,
		DownloadsCount:   photo.DownloadsCount,
		CollectionsCount: collections,
	}, nil
}

// parseTagList splits a comma separated list into lowercase unique tags.
func parseTagList(raw string) []string {
	tags := []string{}
	seen := map[string]struct{}{}
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}
