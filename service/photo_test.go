package service

import (
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"Shutter/internal/testutil"
	"Shutter/models"
	"Shutter/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePhotoStoresObjectAndDispatchesTagging(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, "alice")

	item, err := e.photos.Create(ctx, Principal{UserID: alice.ID},
		&types.CreatePhotoReq{Title: "  Dunes  "}, fileHeader(t, "dunes.png", pngBytes(t, 4, 3)))
	require.NoError(t, err)

	assert.Equal(t, "Dunes", item.Title)
	assert.Equal(t, "png", item.Format)
	assert.Equal(t, 4, item.Width)
	assert.Equal(t, 3, item.Height)
	assert.Equal(t, "alice", item.User.Username)
	assert.Equal(t, []string{}, item.Tags)
	assert.True(t, strings.HasPrefix(item.ImageURL, "https://cdn.example.com/media/users/alice/photos/alice_"), item.ImageURL)
	assert.True(t, strings.HasSuffix(item.ImageURL, ".png"))
	assert.Equal(t, 1, e.store.mem.Len())

	require.Len(t, e.tagger.dispatched, 1)
	assert.Equal(t, int64(item.ID), e.tagger.dispatched[0].ID)
	assert.False(t, e.tagger.dispatched[0].Tagged)
}

func TestCreatePhotoWithTagsSkipsAutoTagging(t *testing.T) {
	e := newEnv(t)
	alice := testutil.CreateUser(t, e.db, "alice")

	item, err := e.photos.Create(context.Background(), Principal{UserID: alice.ID},
		&types.CreatePhotoReq{Tags: "Sky, sea,,sky "}, fileHeader(t, "a.png", pngBytes(t, 1, 1)))
	require.NoError(t, err)
	assert.Equal(t, []string{"sky", "sea"}, item.Tags)

	stored := e.photo(t, int64(item.ID))
	assert.True(t, stored.Tagged)
	assert.Equal(t, []string{"sky", "sea"}, []string(stored.Tags))
}

func TestCreatePhotoRejectsNonImageBeforeStoring(t *testing.T) {
	e := newEnv(t)
	alice := testutil.CreateUser(t, e.db, "alice")

	for name, data := range map[string][]byte{
		"notes.jpg": []byte("definitely not a jpeg"),
		"empty.png": {},
		"half.png":  pngBytes(t, 2, 2)[:10],
	} {
		_, err := e.photos.Create(context.Background(), Principal{UserID: alice.ID},
			&types.CreatePhotoReq{}, fileHeader(t, name, data))
		assert.ErrorIs(t, err, ErrInvalidImage, name)
	}
	assert.Zero(t, e.store.Puts())
	assert.Zero(t, e.count(t, &models.Photo{}))
	assert.Empty(t, e.tagger.dispatched)
}

func TestCreatePhotoTooLarge(t *testing.T) {
	e := newEnv(t)
	e.cfg.Storage.MaxUploadSize = 16
	alice := testutil.CreateUser(t, e.db, "alice")

	_, err := e.photos.Create(context.Background(), Principal{UserID: alice.ID},
		&types.CreatePhotoReq{}, fileHeader(t, "big.png", pngBytes(t, 8, 8)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum size")
	assert.Zero(t, e.store.Puts())
}

func TestCreatePhotoStorageFailureLeavesNoRow(t *testing.T) {
	e := newEnv(t)
	e.store.fail = true
	alice := testutil.CreateUser(t, e.db, "alice")

	_, err := e.photos.Create(context.Background(), Principal{UserID: alice.ID},
		&types.CreatePhotoReq{}, fileHeader(t, "a.png", pngBytes(t, 1, 1)))
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.Equal(t, 1, e.store.Puts())
	assert.Zero(t, e.count(t, &models.Photo{}))
}

func TestBatchUploadKeepsGoingPastFailures(t *testing.T) {
	e := newEnv(t)
	alice := testutil.CreateUser(t, e.db, "alice")

	resp, err := e.photos.BatchUpload(context.Background(), Principal{UserID: alice.ID}, []*multipart.FileHeader{
		fileHeader(t, "one.png", pngBytes(t, 1, 1)),
		fileHeader(t, "bad.gif", []byte("GIF? no")),
		fileHeader(t, "two.png", pngBytes(t, 2, 2)),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Uploaded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "bad.gif", resp.Results[1].Filename)
	assert.Nil(t, resp.Results[1].Photo)
	assert.Equal(t, ErrInvalidImage.Msg, resp.Results[1].Error)
	assert.NotNil(t, resp.Results[2].Photo)
	assert.Equal(t, int64(2), e.count(t, &models.Photo{}))
}

func TestPhotoDetailServedFromCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, "alice")
	photo := testutil.CreatePhoto(t, e.db, alice, "sunset")

	first, err := e.photos.Detail(ctx, 0, photo.ID)
	require.NoError(t, err)

	queries := testutil.CountQueries(t, e.db)
	second, err := e.photos.Detail(ctx, 0, photo.ID)
	require.NoError(t, err)
	assert.Zero(t, queries.Count())
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.User, second.User)
}

func TestPhotoDetailMissing(t *testing.T) {
	e := newEnv(t)
	_, err := e.photos.Detail(context.Background(), 0, 42)
	assert.ErrorIs(t, err, ErrPhotoNotFound)

	_, found, err := e.cache.Get(context.Background(), "photo:42")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateAndDeleteRequireOwnerOrAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, "alice")
	bob := testutil.CreateUser(t, e.db, "bob")

	item, err := e.photos.Create(ctx, Principal{UserID: alice.ID}, &types.CreatePhotoReq{Title: "old"},
		fileHeader(t, "a.png", pngBytes(t, 1, 1)))
	require.NoError(t, err)
	id := int64(item.ID)

	_, err = e.photos.Detail(ctx, 0, id)
	require.NoError(t, err)

	title := "new"
	_, err = e.photos.Update(ctx, Principal{UserID: bob.ID}, id, &types.UpdatePhotoReq{Title: &title})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = e.photos.Update(ctx, Principal{}, id, &types.UpdatePhotoReq{Title: &title})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := e.photos.Update(ctx, Principal{UserID: alice.ID}, id, &types.UpdatePhotoReq{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)

	admin := "by admin"
	updated, err = e.photos.Update(ctx, Principal{UserID: bob.ID, IsAdmin: true}, id, &types.UpdatePhotoReq{Title: &admin})
	require.NoError(t, err)
	assert.Equal(t, "by admin", updated.Title)

	assert.ErrorIs(t, e.photos.Delete(ctx, Principal{UserID: bob.ID}, id), ErrPermissionDenied)
	require.NoError(t, e.photos.Delete(ctx, Principal{UserID: alice.ID}, id))
	assert.Zero(t, e.store.mem.Len())

	_, err = e.photos.Detail(ctx, 0, id)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestDeletePhotoUpdatesCollectionCounters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, "alice")
	photo := testutil.CreatePhoto(t, e.db, alice, "a")
	col := testutil.CreateCollection(t, e.db, alice, "trips", true)

	_, err := e.collections.AddPhotos(ctx, Principal{UserID: alice.ID}, col.ID, &types.PhotoIDsReq{PhotoIDs: []types.ID{types.ID(photo.ID)}})
	require.NoError(t, err)
	detail, err := e.collections.Detail(ctx, Principal{UserID: alice.ID}, col.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.PhotosCount)

	// The object key does not belong to the store, so the purge only logs.
	require.NoError(t, e.photos.Delete(ctx, Principal{UserID: alice.ID}, photo.ID))

	detail, err = e.collections.Detail(ctx, Principal{UserID: alice.ID}, col.ID)
	require.NoError(t, err)
	assert.Zero(t, detail.PhotosCount)
}

func TestTrendingOrdersByLikesAndRefreshesOnLike(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, "alice")
	bob := testutil.CreateUser(t, e.db, "bob")
	older := testutil.CreatePhoto(t, e.db, alice, "older")
	newer := testutil.CreatePhoto(t, e.db, alice, "newer")
	require.NoError(t, e.db.Model(&models.Photo{}).Where("id = ?", older.ID).
		Update("upload_date", older.UploadDate.AddDate(0, 0, -1)).Error)

	items, err := e.photos.Trending(ctx, 0, &types.TrendingReq{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, types.ID(newer.ID), items[0].ID)

	_, err = e.likes.Toggle(ctx, bob.ID, older.ID)
	require.NoError(t, err)

	items, err = e.photos.Trending(ctx, bob.ID, &types.TrendingReq{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, types.ID(older.ID), items[0].ID)
	assert.True(t, items[0].IsLiked)
	assert.False(t, items[1].IsLiked)
}

func TestListAndGallery(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, "alice")
	bob := testutil.CreateUser(t, e.db, "bob")
	testutil.CreatePhoto(t, e.db, alice, "mountain")
	testutil.CreatePhoto(t, e.db, alice, "lake")
	testutil.CreatePhoto(t, e.db, bob, "mountain-pass")

	page, err := e.photos.List(ctx, 0, &types.PhotoListReq{Search: "mountain"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)

	page, err = e.photos.List(ctx, 0, &types.PhotoListReq{Username: "alice", PageQuery: types.PageQuery{PageSize: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	assert.Len(t, page.Results, 1)
	assert.Equal(t, 1, page.PageSize)

	_, err = e.photos.List(ctx, 0, &types.PhotoListReq{Username: "nobody"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	gallery, err := e.photos.UserGallery(ctx, bob.ID, &types.GalleryReq{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), gallery.Count)

	_, err = e.photos.UserGallery(ctx, 0, &types.GalleryReq{})
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

func TestFeedShowsFollowedUsersOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, "alice")
	bob := testutil.CreateUser(t, e.db, "bob")
	carol := testutil.CreateUser(t, e.db, "carol")
	testutil.CreatePhoto(t, e.db, bob, "b")
	testutil.CreatePhoto(t, e.db, carol, "c")

	_, err := e.follows.Toggle(ctx, alice.ID, &types.ToggleFollowReq{Username: "bob"})
	require.NoError(t, err)

	feed, err := e.photos.Feed(ctx, alice.ID, types.PageQuery{})
	require.NoError(t, err)
	require.Len(t, feed.Results, 1)
	assert.Equal(t, "bob", feed.Results[0].User.Username)
}

func TestParseTagList(t *testing.T) {
	assert.Equal(t, []string{}, parseTagList(""))
	assert.Equal(t, []string{"a", "b c"}, parseTagList(" A , b c,a,"))
}
