package dao

import (
	"context"

	"Shutter/models"

	"gorm.io/gorm"
)

type CategoryDAO struct {
	Repo[models.Category]
}

func NewCategoryDAO(db *gorm.DB) *CategoryDAO {
	return &CategoryDAO{Repo: NewRepo[models.Category](db)}
}

func (d *CategoryDAO) All(ctx context.Context) ([]*models.Category, error) {
	items := make([]*models.Category, 0)
	err := d.Model(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (d *CategoryDAO) Popular(ctx context.Context, limit int) ([]*models.Category, error) {
	items := make([]*models.Category, 0, limit)
	err := d.Model(ctx).Order("photos_count DESC, name ASC").Limit(limit).Find(&items).Error
	return items, err
}

func (d *CategoryDAO) DeleteCascade(ctx context.Context, id int64) error {
	return d.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.PhotoCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (d *CategoryDAO) IsTaken(ctx context.Context, name, slug string, exceptID int64) (bool, error) {
	return d.IsExist(ctx, "(name = ? OR slug = ?) AND id <> ?", name, slug, exceptID)
}

// SumLikes totals the likes of every photo filed under the category.
func (d *CategoryDAO) SumLikes(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := d.Db.WithContext(ctx).Model(&models.Photo{}).
		Select("COALESCE(SUM(likes_count), 0)").
		Where("id IN (?)", d.Db.Table("photo_categories").Select("photo_id").Where("category_id = ?", categoryID)).
		Scan(&n).Error
	return n, err
}
