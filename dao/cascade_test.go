package dao

import (
	"context"
	"testing"

	"Shutter/internal/testutil"
	"Shutter/models"
	"Shutter/pkg/snowflake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countRows(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func TestPhotoDeleteCascade(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	photo := testutil.CreatePhoto(t, db, alice, "p1")
	other := testutil.CreatePhoto(t, db, alice, "p2")
	col := testutil.CreateCollection(t, db, alice, "trip", true)
	cat := testutil.CreateCategory(t, db, "nature")

	_, err := NewLikeDAO(db).Toggle(ctx, bob.ID, photo.ID)
	require.NoError(t, err)
	_, err = NewDownloadDAO(db).Engage(ctx, bob.ID, photo.ID)
	require.NoError(t, err)
	_, err = NewPhotoCollectionDAO(db).Engage(ctx, photo.ID, col.ID)
	require.NoError(t, err)
	_, err = NewPhotoCollectionDAO(db).Engage(ctx, other.ID, col.ID)
	require.NoError(t, err)
	_, err = NewPhotoCategoryDAO(db).Engage(ctx, photo.ID, cat.ID)
	require.NoError(t, err)
	require.NoError(t, NewCommentDAO(db).CreateWithCounter(ctx, &models.Comment{
		ID: snowflake.GenID(), UserID: bob.ID, PhotoID: photo.ID, CommentText: "nice",
	}))

	cascade, err := NewPhotoDAO(db).DeleteCascade(ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{col.ID}, cascade.CollectionIDs)
	assert.Equal(t, []int64{cat.ID}, cascade.CategoryIDs)

	for _, m := range []any{&models.Like{}, &models.Download{}, &models.PhotoCollection{}, &models.PhotoCategory{}, &models.Comment{}} {
		assert.Zero(t, countRows(t, db, m, "photo_id = ?", photo.ID))
	}
	assert.Zero(t, countRows(t, db, &models.Photo{}, "id = ?", photo.ID))

	n, err := ReadCounter(db, "collections", "photos_count", col.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = ReadCounter(db, "categories", "photos_count", cat.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = NewPhotoDAO(db).DeleteCascade(ctx, photo.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserDeleteCascade(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	bobPhoto := testutil.CreatePhoto(t, db, bob, "bp")
	alicePhoto := testutil.CreatePhoto(t, db, alice, "ap")
	carolCol := testutil.CreateCollection(t, db, carol, "picks", true)
	aliceCol := testutil.CreateCollection(t, db, alice, "mine", true)

	follows := NewFollowDAO(db)
	_, err := follows.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = follows.Toggle(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = NewLikeDAO(db).Toggle(ctx, alice.ID, bobPhoto.ID)
	require.NoError(t, err)
	_, err = NewDownloadDAO(db).Engage(ctx, alice.ID, bobPhoto.ID)
	require.NoError(t, err)
	require.NoError(t, NewCommentDAO(db).CreateWithCounter(ctx, &models.Comment{
		ID: snowflake.GenID(), UserID: alice.ID, PhotoID: bobPhoto.ID, CommentText: "wow",
	}))
	_, err = NewCollectionLikeDAO(db).Toggle(ctx, alice.ID, carolCol.ID)
	require.NoError(t, err)
	_, err = NewCollectionFollowDAO(db).Toggle(ctx, alice.ID, carolCol.ID)
	require.NoError(t, err)
	_, err = NewPhotoCollectionDAO(db).Engage(ctx, alicePhoto.ID, carolCol.ID)
	require.NoError(t, err)
	_, err = NewLikeDAO(db).Toggle(ctx, bob.ID, alicePhoto.ID)
	require.NoError(t, err)

	cascade, err := NewUserDAO(db).DeleteCascade(ctx, alice.ID)
	require.NoError(t, err)
	assert.Contains(t, cascade.PhotoIDs, bobPhoto.ID)
	assert.Contains(t, cascade.CollectionIDs, carolCol.ID)
	assert.Contains(t, cascade.CollectionIDs, aliceCol.ID)
	assert.Contains(t, cascade.UserIDs, bob.ID)

	assert.Zero(t, countRows(t, db, &models.User{}, "id = ?", alice.ID))
	assert.Zero(t, countRows(t, db, &models.Photo{}, "user_id = ?", alice.ID))
	assert.Zero(t, countRows(t, db, &models.Follower{}, "follower_id = ? OR following_id = ?", alice.ID, alice.ID))
	assert.Zero(t, countRows(t, db, &models.Like{}, "user_id = ? OR photo_id = ?", alice.ID, alicePhoto.ID))
	assert.Zero(t, countRows(t, db, &models.Collection{}, "user_id = ?", alice.ID))
	assert.Zero(t, countRows(t, db, &models.CollectionLike{}, "user_id = ?", alice.ID))

	var b models.User
	require.NoError(t, db.First(&b, "id = ?", bob.ID).Error)
	assert.Zero(t, b.FollowersCount)
	var c models.User
	require.NoError(t, db.First(&c, "id = ?", carol.ID).Error)
	assert.Zero(t, c.FollowingCount)

	var p models.Photo
	require.NoError(t, db.First(&p, "id = ?", bobPhoto.ID).Error)
	assert.Zero(t, p.LikesCount)
	assert.Zero(t, p.DownloadsCount)
	assert.Zero(t, p.CommentsCount)

	var col models.Collection
	require.NoError(t, db.First(&col, "id = ?", carolCol.ID).Error)
	assert.Zero(t, col.LikesCount)
	assert.Zero(t, col.FollowersCount)
	assert.Zero(t, col.PhotosCount)
}
