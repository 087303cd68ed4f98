package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/models"
	"Shutter/pkg/snowflake"
	"Shutter/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const defaultPopularLimit = 10

var _ ICategoryService = (*CategoryService)(nil)

type ICategoryService interface {
	List(ctx context.Context) ([]types.CategoryItem, error)
	Get(ctx context.Context, categoryID int64) (*types.CategoryItem, error)
	Create(ctx context.Context, p Principal, req *types.CreateCategoryReq) (*types.CategoryItem, error)
	Update(ctx context.Context, p Principal, categoryID int64, req *types.UpdateCategoryReq) (*types.CategoryItem, error)
	Delete(ctx context.Context, p Principal, categoryID int64) error
	AddPhotos(ctx context.Context, p Principal, categoryID int64, req *types.PhotoIDsReq) (*types.MembershipResp, error)
	RemovePhotos(ctx context.Context, p Principal, categoryID int64, req *types.PhotoIDsReq) (*types.MembershipResp, error)
	Photos(ctx context.Context, viewerID, categoryID int64, q types.PageQuery) (*types.PageResp[types.PhotoItem], error)
	Popular(ctx context.Context, limit int) ([]types.CategoryItem, error)
	Stats(ctx context.Context, categoryID int64) (*types.CategoryStats, error)
}

// CategoryService is readable by anyone; every write needs an admin.
type CategoryService struct {
	Config           *config.Config
	CategoryDAO      *dao.CategoryDAO
	PhotoDAO         *dao.PhotoDAO
	PhotoCategoryDAO *dao.PhotoCategoryDAO
	Cache            cache.Cache
	Presenter        *Presenter
}

func categoryItems(rows []*models.Category) []types.CategoryItem {
	items := make([]types.CategoryItem, 0, len(rows))
	for _, c := range rows {
		items = append(items, categoryItem(c))
	}
	return items
}

// categorySlug falls back to the id for names without any sluggable characters.
func categorySlug(name string, id int64) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return strconv.FormatInt(id, 10)
}

func (s *CategoryService) List(ctx context.Context) ([]types.CategoryItem, error) {
	key := cache.ListKey(ctx, s.Cache, cache.NsCategories, "all")
	return cache.Remember(ctx, s.Cache, key, config.Seconds(s.Config.Cache.ListTTL),
		func(ctx context.Context) ([]types.CategoryItem, error) {
			rows, err := s.CategoryDAO.All(ctx)
			if err != nil {
				return nil, fmt.Errorf("list categories: %w", err)
			}
			return categoryItems(rows), nil
		})
}

func (s *CategoryService) Get(ctx context.Context, categoryID int64) (*types.CategoryItem, error) {
	item, err := cache.Remember(ctx, s.Cache, cache.CategoryKey(categoryID), config.Seconds(s.Config.Cache.ListTTL),
		func(ctx context.Context) (types.CategoryItem, error) {
			c, err := s.CategoryDAO.FindById(ctx, categoryID)
			if err != nil {
				return types.CategoryItem{}, notFound(err, ErrCategoryNotFound, "find category")
			}
			return categoryItem(c), nil
		})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CategoryService) Create(ctx context.Context, p Principal, req *types.CreateCategoryReq) (*types.CategoryItem, error) {
	if !p.IsAdmin {
		return nil, ErrAdminOnly
	}
	name := strings.TrimSpace(req.Name)
	c := &models.Category{
		ID:       snowflake.GenID(),
		Name:     name,
		ImageURL: req.ImageURL,
	}
	c.Slug = categorySlug(name, c.ID)
	taken, err := s.CategoryDAO.IsTaken(ctx, c.Name, c.Slug, 0)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if taken {
		return nil, ErrCategoryExists
	}
	if err := s.CategoryDAO.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.CategoryWritten, cache.Target{Subject: p.UserID, Target: c.ID})
	item := categoryItem(c)
	return &item, nil
}

func (s *CategoryService) Update(ctx context.Context, p Principal, categoryID int64, req *types.UpdateCategoryReq) (*types.CategoryItem, error) {
	if !p.IsAdmin {
		return nil, ErrAdminOnly
	}
	c, err := s.CategoryDAO.FindById(ctx, categoryID)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound, "find category")
	}
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != c.Name {
			updates["name"] = name
			updates["slug"] = categorySlug(name, categoryID)
		}
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if name, ok := updates["name"].(string); ok {
		taken, err := s.CategoryDAO.IsTaken(ctx, name, updates["slug"].(string), categoryID)
		if err != nil {
			return nil, fmt.Errorf("check category: %w", err)
		}
		if taken {
			return nil, ErrCategoryExists
		}
	}
	if len(updates) > 0 {
		if _, err := s.CategoryDAO.UpdateById(ctx, categoryID, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrCategoryExists
			}
			return nil, fmt.Errorf("update category: %w", err)
		}
		cache.Invalidate(ctx, s.Cache, cache.CategoryWritten, cache.Target{Subject: p.UserID, Target: categoryID})
	}
	return s.Get(ctx, categoryID)
}

func (s *CategoryService) Delete(ctx context.Context, p Principal, categoryID int64) error {
	if !p.IsAdmin {
		return ErrAdminOnly
	}
	if err := s.CategoryDAO.DeleteCascade(ctx, categoryID); err != nil {
		return notFound(err, ErrCategoryNotFound, "delete category")
	}
	cache.Invalidate(ctx, s.Cache, cache.CategoryWritten, cache.Target{Subject: p.UserID, Target: categoryID})
	return nil
}

func (s *CategoryService) AddPhotos(ctx context.Context, p Principal, categoryID int64, req *types.PhotoIDsReq) (*types.MembershipResp, error) {
	return s.members(ctx, p, categoryID, req, true)
}

func (s *CategoryService) RemovePhotos(ctx context.Context, p Principal, categoryID int64, req *types.PhotoIDsReq) (*types.MembershipResp, error) {
	return s.members(ctx, p, categoryID, req, false)
}

func (s *CategoryService) members(ctx context.Context, p Principal, categoryID int64, req *types.PhotoIDsReq, add bool) (*types.MembershipResp, error) {
	if !p.IsAdmin {
		return nil, ErrAdminOnly
	}
	exists, err := s.CategoryDAO.IsExist(ctx, "id = ?", categoryID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}
	res, err := changeMembers(ctx, s.PhotoCategoryDAO, s.PhotoDAO, categoryID, req.PhotoIDs, add)
	if err != nil {
		return nil, relationErr(err, ErrCategoryNotFound, "category photo")
	}
	cache.Invalidate(ctx, s.Cache, cache.CategoryMembers, cache.Target{Subject: p.UserID, Target: categoryID})
	return res, nil
}

func (s *CategoryService) Photos(ctx context.Context, viewerID, categoryID int64, q types.PageQuery) (*types.PageResp[types.PhotoItem], error) {
	exists, err := s.CategoryDAO.IsExist(ctx, "id = ?", categoryID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}
	return memberPhotos(ctx, s.PhotoCategoryDAO, s.PhotoDAO, s.Presenter, viewerID, categoryID, q)
}

func (s *CategoryService) Popular(ctx context.Context, limit int) ([]types.CategoryItem, error) {
	if limit < 1 {
		limit = defaultPopularLimit
	}
	key := cache.ListKey(ctx, s.Cache, cache.NsCategories, "popular", limit)
	return cache.Remember(ctx, s.Cache, key, config.Seconds(s.Config.Cache.ListTTL),
		func(ctx context.Context) ([]types.CategoryItem, error) {
			rows, err := s.CategoryDAO.Popular(ctx, limit)
			if err != nil {
				return nil, fmt.Errorf("popular categories: %w", err)
			}
			return categoryItems(rows), nil
		})
}

func (s *CategoryService) Stats(ctx context.Context, categoryID int64) (*types.CategoryStats, error) {
	c, err := s.CategoryDAO.FindById(ctx, categoryID)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound, "find category")
	}
	likes, err := s.CategoryDAO.SumLikes(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("sum likes: %w", err)
	}
	return &types.CategoryStats{
		CategoryID:  types.ID(c.ID),
		Name:        c.Name,
		PhotosCount: c.PhotosCount,
		TotalLikes:  likes,
	}, nil
}
