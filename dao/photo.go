package dao

import (
	"context"
	"time"

	"Shutter/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PhotoDAO struct {
	Repo[models.Photo]
}

func NewPhotoDAO(db *gorm.DB) *PhotoDAO {
	return &PhotoDAO{Repo: NewRepo[models.Photo](db)}
}

type PhotoFilter struct {
	UserID int64
	Search string
	Page   int
	Size   int
}

func (d *PhotoDAO) List(ctx context.Context, f PhotoFilter) (*Page[models.Photo], error) {
	q := d.Model(ctx)
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	return Paginate[models.Photo](q, f.Page, f.Size, "upload_date DESC, id DESC")
}

// Trending orders by likes, newest first on ties. A zero since means all time.
func (d *PhotoDAO) Trending(ctx context.Context, since time.Time, limit int) ([]*models.Photo, error) {
	q := d.Model(ctx)
	if !since.IsZero() {
		q = q.Where("upload_date >= ?", since)
	}
	photos := make([]*models.Photo, 0, limit)
	err := q.Order("likes_count DESC, upload_date DESC, id DESC").Limit(limit).Find(&photos).Error
	return photos, err
}

func (d *PhotoDAO) MostDownloaded(ctx context.Context, limit int) ([]*models.Photo, error) {
	photos := make([]*models.Photo, 0, limit)
	err := d.Model(ctx).
		Where("downloads_count > 0").
		Order("downloads_count DESC, id DESC").
		Limit(limit).
		Find(&photos).Error
	return photos, err
}

// Feed pages through photos uploaded by the users viewerID follows.
func (d *PhotoDAO) Feed(ctx context.Context, viewerID int64, page, size int) (*Page[models.Photo], error) {
	q := d.Model(ctx).Where("user_id IN (?)",
		d.Db.Table("followers").Select("following_id").Where("follower_id = ?", viewerID))
	return Paginate[models.Photo](q, page, size, "upload_date DESC, id DESC")
}

// ApplyTags stores tags only while the photo is still untagged and reports whether it did.
func (d *PhotoDAO) ApplyTags(ctx context.Context, photoID int64, tags []string) (bool, error) {
	res := d.Model(ctx).
		Where("id = ? AND tagged = ?", photoID, false).
		Updates(map[string]any{"tags": datatypes.JSONSlice[string](tags), "tagged": true})
	return res.RowsAffected > 0, res.Error
}

// SumStats totals the counters of every photo a user owns.
func (d *PhotoDAO) SumStats(ctx context.Context, userID int64) (*PhotoTotals, error) {
	var out PhotoTotals
	err := d.Model(ctx).
		Select("COUNT(*) AS photos, COALESCE(SUM(likes_count), 0) AS likes, COALESCE(SUM(comments_count), 0) AS comments, COALESCE(SUM(downloads_count), 0) AS downloads").
		Where("user_id = ?", userID).
		Scan(&out).Error
	return &out, err
}

type PhotoTotals struct {
	Photos    int64
	Likes     int64
	Comments  int64
	Downloads int64
}

// PhotoCascade lists the parents whose counters changed when photos went away.
type PhotoCascade struct {
	CollectionIDs []int64
	CategoryIDs   []int64
}

func (d *PhotoDAO) DeleteCascade(ctx context.Context, photoID int64) (*PhotoCascade, error) {
	var out *PhotoCascade
	err := d.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = deletePhotosTx(tx, []int64{photoID})
		return err
	})
	return out, err
}

func deletePhotosTx(tx *gorm.DB, ids []int64) (*PhotoCascade, error) {
	out := &PhotoCascade{}
	if len(ids) == 0 {
		return out, nil
	}

	if err := tx.Model(&models.PhotoCollection{}).Distinct("collection_id").Where("photo_id IN ?", ids).Pluck("collection_id", &out.CollectionIDs).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.PhotoCategory{}).Distinct("category_id").Where("photo_id IN ?", ids).Pluck("category_id", &out.CategoryIDs).Error; err != nil {
		return nil, err
	}

	if len(out.CollectionIDs) > 0 {
		err := tx.Exec("UPDATE collections SET photos_count = photos_count - (SELECT COUNT(*) FROM photo_collections pc WHERE pc.collection_id = collections.id AND pc.photo_id IN ?) WHERE id IN ?",
			ids, out.CollectionIDs).Error
		if err != nil {
			return nil, err
		}
	}
	if len(out.CategoryIDs) > 0 {
		err := tx.Exec("UPDATE categories SET photos_count = photos_count - (SELECT COUNT(*) FROM photo_categories pc WHERE pc.category_id = categories.id AND pc.photo_id IN ?) WHERE id IN ?",
			ids, out.CategoryIDs).Error
		if err != nil {
			return nil, err
		}
	}

	for _, model := range []any{
		&models.PhotoCollection{},
		&models.PhotoCategory{},
		&models.Like{},
		&models.Download{},
		&models.Comment{},
	} {
		if err := tx.Where("photo_id IN ?", ids).Delete(model).Error; err != nil {
			return nil, err
		}
	}

	res := tx.Where("id IN ?", ids).Delete(&models.Photo{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return out, nil
}

// OrderByIDs rearranges rows to follow ids; missing ids are skipped.
func OrderByIDs[T any](ids []int64, rows []*T, id func(*T) int64) []*T {
	byID := make(map[int64]*T, len(rows))
	for _, r := range rows {
		byID[id(r)] = r
	}
	out := make([]*T, 0, len(ids))
	for _, i := range ids {
		if r, ok := byID[i]; ok {
			out = append(out, r)
		}
	}
	return out
}
