package dao

import (
	"context"

	"Shutter/models"

	"gorm.io/gorm"
)

type CollectionDAO struct {
	Repo[models.Collection]
}

func NewCollectionDAO(db *gorm.DB) *CollectionDAO {
	return &CollectionDAO{Repo: NewRepo[models.Collection](db)}
}

type CollectionFilter struct {
	ViewerID int64
	Admin    bool
	OwnerID  int64
	IsPublic *bool
	Search   string
	SortBy   string
	Page     int
	Size     int
}

var collectionOrder = map[string]string{
	"likes":     "likes_count DESC, id DESC",
	"followers": "followers_count DESC, id DESC",
	"date":      "created_at DESC, id DESC",
}

// List only returns collections the viewer may see: public ones and their own.
func (d *CollectionDAO) List(ctx context.Context, f CollectionFilter) (*Page[models.Collection], error) {
	q := d.Model(ctx)
	if !f.Admin {
		q = q.Where("is_public = ? OR user_id = ?", true, f.ViewerID)
	}
	if f.OwnerID != 0 {
		q = q.Where("user_id = ?", f.OwnerID)
	}
	if f.IsPublic != nil {
		q = q.Where("is_public = ?", *f.IsPublic)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	order, ok := collectionOrder[f.SortBy]
	if !ok {
		order = collectionOrder["date"]
	}
	return Paginate[models.Collection](q, f.Page, f.Size, order)
}

// Trending ranks public collections by likes plus follows.
func (d *CollectionDAO) Trending(ctx context.Context, limit int) ([]*models.Collection, error) {
	items := make([]*models.Collection, 0, limit)
	err := d.Model(ctx).
		Where("is_public = ?", true).
		Order("likes_count + followers_count DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (d *CollectionDAO) FindBySlug(ctx context.Context, slug string) (*models.Collection, error) {
	return d.FindByWhere(ctx, "slug = ?", slug)
}

func (d *CollectionDAO) DeleteCascade(ctx context.Context, id int64) error {
	return d.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCollectionTx(tx, id)
	})
}

func deleteCollectionTx(tx *gorm.DB, id int64) error {
	for _, model := range []any{
		&models.PhotoCollection{},
		&models.CollectionLike{},
		&models.CollectionFollower{},
	} {
		if err := tx.Where("collection_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	res := tx.Delete(&models.Collection{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
