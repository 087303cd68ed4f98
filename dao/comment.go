package dao

import (
	"context"

	"Shutter/models"

	"gorm.io/gorm"
)

type CommentDAO struct {
	Repo[models.Comment]
}

func NewCommentDAO(db *gorm.DB) *CommentDAO {
	return &CommentDAO{Repo: NewRepo[models.Comment](db)}
}

// CreateWithCounter inserts the comment and bumps photos.comments_count in one
// transaction. The same text from the same user on the same photo is rejected.
func (d *CommentDAO) CreateWithCounter(ctx context.Context, c *models.Comment) error {
	return d.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Photo{}).Where("id = ?", c.PhotoID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrTargetNotFound
		}
		if err := tx.Model(&models.Comment{}).
			Where("user_id = ? AND photo_id = ? AND comment_text = ?", c.UserID, c.PhotoID, c.CommentText).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrRelationExists
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return AdjustCounter(tx, "photos", "comments_count", c.PhotoID, 1)
	})
}

func (d *CommentDAO) DeleteWithCounter(ctx context.Context, c *models.Comment) error {
	return d.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Comment{}, "id = ?", c.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return AdjustCounter(tx, "photos", "comments_count", c.PhotoID, -1)
	})
}

func (d *CommentDAO) ByPhoto(ctx context.Context, photoID int64, page, size int) (*Page[models.Comment], error) {
	return Paginate[models.Comment](d.Model(ctx).Where("photo_id = ?", photoID), page, size, "created_at DESC, id DESC")
}

func (d *CommentDAO) ByUser(ctx context.Context, userID int64, page, size int) (*Page[models.Comment], error) {
	return Paginate[models.Comment](d.Model(ctx).Where("user_id = ?", userID), page, size, "created_at DESC, id DESC")
}
