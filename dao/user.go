package dao

import (
	"context"

	"Shutter/models"

	"gorm.io/gorm"
)

type UserDAO struct {
	Repo[models.User]
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{Repo: NewRepo[models.User](db)}
}

func (d *UserDAO) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return d.FindByWhere(ctx, "username = ?", username)
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.FindByWhere(ctx, "email = ?", email)
}

func (d *UserDAO) IsUsernameTaken(ctx context.Context, username string, exceptID int64) (bool, error) {
	return d.IsExist(ctx, "username = ? AND id <> ?", username, exceptID)
}

func (d *UserDAO) IsEmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	return d.IsExist(ctx, "email = ? AND id <> ?", email, exceptID)
}

// Suggested returns active users the viewer does not follow yet, most followed first.
func (d *UserDAO) Suggested(ctx context.Context, viewerID int64, limit int) ([]*models.User, error) {
	users := make([]*models.User, 0, limit)
	err := d.Db.WithContext(ctx).
		Where("id <> ? AND is_active = ?", viewerID, true).
		Where("id NOT IN (?)", d.Db.Table("followers").Select("following_id").Where("follower_id = ?", viewerID)).
		Order("followers_count DESC, id DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// UserCascade lists rows whose cached views went stale when a user was deleted.
type UserCascade struct {
	PhotoIDs      []int64
	CollectionIDs []int64
	UserIDs       []int64
}

// DeleteCascade removes the user and every row that references them, and
// takes their edges out of the counters of the rows left behind.
func (d *UserDAO) DeleteCascade(ctx context.Context, userID int64) (*UserCascade, error) {
	out := &UserCascade{}
	err := d.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ownPhotos []int64
		if err := tx.Model(&models.Photo{}).Where("user_id = ?", userID).Pluck("id", &ownPhotos).Error; err != nil {
			return err
		}
		cascade, err := deletePhotosTx(tx, ownPhotos)
		if err != nil {
			return err
		}
		out.CollectionIDs = append(out.CollectionIDs, cascade.CollectionIDs...)
		out.PhotoIDs = append(out.PhotoIDs, ownPhotos...)

		// Engagement with other people's photos.
		var touched []int64
		err = tx.Raw("SELECT photo_id FROM likes WHERE user_id = ? UNION SELECT photo_id FROM downloads WHERE user_id = ? UNION SELECT photo_id FROM comments WHERE user_id = ?",
			userID, userID, userID).Scan(&touched).Error
		if err != nil {
			return err
		}
		out.PhotoIDs = append(out.PhotoIDs, touched...)

		stmts := []struct {
			sql  string
			args []any
		}{
			{"UPDATE photos SET likes_count = CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END WHERE id IN (SELECT photo_id FROM likes WHERE user_id = ?)", []any{userID}},
			{"UPDATE photos SET downloads_count = CASE WHEN downloads_count > 0 THEN downloads_count - 1 ELSE 0 END WHERE id IN (SELECT photo_id FROM downloads WHERE user_id = ?)", []any{userID}},
			{"UPDATE photos SET comments_count = comments_count - (SELECT COUNT(*) FROM comments c WHERE c.photo_id = photos.id AND c.user_id = ?) WHERE id IN (SELECT photo_id FROM comments WHERE user_id = ?)", []any{userID, userID}},
			{"UPDATE users SET followers_count = CASE WHEN followers_count > 0 THEN followers_count - 1 ELSE 0 END WHERE id IN (SELECT following_id FROM followers WHERE follower_id = ?)", []any{userID}},
			{"UPDATE users SET following_count = CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END WHERE id IN (SELECT follower_id FROM followers WHERE following_id = ?)", []any{userID}},
			{"UPDATE collections SET likes_count = CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END WHERE id IN (SELECT collection_id FROM collection_likes WHERE user_id = ?)", []any{userID}},
			{"UPDATE collections SET followers_count = CASE WHEN followers_count > 0 THEN followers_count - 1 ELSE 0 END WHERE id IN (SELECT collection_id FROM collection_followers WHERE user_id = ?)", []any{userID}},
		}

		var counterparts []int64
		err = tx.Raw("SELECT following_id FROM followers WHERE follower_id = ? UNION SELECT follower_id FROM followers WHERE following_id = ?",
			userID, userID).Scan(&counterparts).Error
		if err != nil {
			return err
		}
		out.UserIDs = append(counterparts, userID)

		var engagedCollections []int64
		err = tx.Raw("SELECT collection_id FROM collection_likes WHERE user_id = ? UNION SELECT collection_id FROM collection_followers WHERE user_id = ?",
			userID, userID).Scan(&engagedCollections).Error
		if err != nil {
			return err
		}
		out.CollectionIDs = append(out.CollectionIDs, engagedCollections...)

		for _, s := range stmts {
			if err := tx.Exec(s.sql, s.args...).Error; err != nil {
				return err
			}
		}

		deletes := []struct {
			model any
			where string
			args  []any
		}{
			{&models.Like{}, "user_id = ?", []any{userID}},
			{&models.Download{}, "user_id = ?", []any{userID}},
			{&models.Comment{}, "user_id = ?", []any{userID}},
			{&models.Follower{}, "follower_id = ? OR following_id = ?", []any{userID, userID}},
			{&models.CollectionLike{}, "user_id = ?", []any{userID}},
			{&models.CollectionFollower{}, "user_id = ?", []any{userID}},
		}
		for _, del := range deletes {
			if err := tx.Where(del.where, del.args...).Delete(del.model).Error; err != nil {
				return err
			}
		}

		var ownCollections []int64
		if err := tx.Model(&models.Collection{}).Where("user_id = ?", userID).Pluck("id", &ownCollections).Error; err != nil {
			return err
		}
		for _, id := range ownCollections {
			if err := deleteCollectionTx(tx, id); err != nil {
				return err
			}
		}
		out.CollectionIDs = append(out.CollectionIDs, ownCollections...)

		res := tx.Delete(&models.User{}, "id = ?", userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
