package dao

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"Shutter/internal/testutil"
	"Shutter/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func photoLikes(t *testing.T, db *gorm.DB, id int64) int64 {
	t.Helper()
	n, err := ReadCounter(db, "photos", "likes_count", id)
	require.NoError(t, err)
	return n
}

func TestToggleRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	photo := testutil.CreatePhoto(t, db, alice, "sunset")

	likes := NewLikeDAO(db)

	res, err := likes.Toggle(ctx, bob.ID, photo.ID)
	require.NoError(t, err)
	assert.True(t, res.Engaged)
	assert.Equal(t, int64(1), res.Count)

	res, err = likes.Toggle(ctx, bob.ID, photo.ID)
	require.NoError(t, err)
	assert.False(t, res.Engaged)
	assert.Equal(t, int64(0), res.Count)
	assert.Equal(t, int64(0), photoLikes(t, db, photo.ID))

	exists, err := likes.Exists(ctx, bob.ID, photo.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestToggleMissingTarget(t *testing.T) {
	db := testutil.NewDB(t)
	bob := testutil.CreateUser(t, db, "bob")

	_, err := NewLikeDAO(db).Toggle(context.Background(), bob.ID, 12345)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestToggleConcurrentDistinctUsers(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner")
	photo := testutil.CreatePhoto(t, db, owner, "crowd")

	const n = 20
	users := make([]*models.User, n)
	for i := range users {
		users[i] = testutil.CreateUser(t, db, fmt.Sprintf("fan%d", i))
	}

	likes := NewLikeDAO(db)
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, u := range users {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			if _, err := likes.Toggle(context.Background(), uid, photo.ID); err != nil {
				errs <- err
			}
		}(u.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int64(n), photoLikes(t, db, photo.ID))
	rows, err := likes.CountByTarget(context.Background(), photo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), rows)
}

func TestToggleConcurrentSamePairKeepsOneRow(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	photo := testutil.CreatePhoto(t, db, owner, "dup")

	likes := NewLikeDAO(db)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = likes.Toggle(context.Background(), fan.ID, photo.ID)
		}()
	}
	wg.Wait()

	rows, err := likes.CountByTarget(context.Background(), photo.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, rows, int64(1))
	assert.Equal(t, rows, photoLikes(t, db, photo.ID))
}

func TestFollowCountersAndSelf(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	follows := NewFollowDAO(db)

	_, err := follows.Toggle(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfRelation)

	res, err := follows.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, res.Engaged)
	assert.Equal(t, int64(1), res.Count)

	following, err := ReadCounter(db, "users", "following_count", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)

	res, err = follows.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, res.Engaged)
	following, err = ReadCounter(db, "users", "following_count", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), following)
}

func TestEngageDisengage(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	photo := testutil.CreatePhoto(t, db, alice, "p1")
	col := testutil.CreateCollection(t, db, alice, "trip", true)
	members := NewPhotoCollectionDAO(db)

	res, err := members.Engage(ctx, photo.ID, col.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Count)

	_, err = members.Engage(ctx, photo.ID, col.ID)
	assert.ErrorIs(t, err, ErrRelationExists)

	res, err = members.Disengage(ctx, photo.ID, col.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Count)

	_, err = members.Disengage(ctx, photo.ID, col.ID)
	assert.ErrorIs(t, err, ErrRelationMissing)
}

func TestCounterNeverNegative(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	photo := testutil.CreatePhoto(t, db, alice, "p1")

	require.NoError(t, AdjustCounter(db, "photos", "likes_count", photo.ID, -3))
	assert.Equal(t, int64(0), photoLikes(t, db, photo.ID))
}

func TestTargetIDsNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	p1 := testutil.CreatePhoto(t, db, alice, "p1")
	p2 := testutil.CreatePhoto(t, db, alice, "p2")
	likes := NewLikeDAO(db)

	_, err := likes.Toggle(ctx, bob.ID, p1.ID)
	require.NoError(t, err)
	_, err = likes.Toggle(ctx, bob.ID, p2.ID)
	require.NoError(t, err)

	ids, total, err := likes.TargetIDs(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []int64{p2.ID, p1.ID}, ids)

	engaged, err := likes.EngagedTargets(ctx, bob.ID, []int64{p1.ID, 999})
	require.NoError(t, err)
	assert.True(t, engaged[p1.ID])
	assert.False(t, engaged[999])
}
