package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"Shutter/models"
	"Shutter/pkg/database"
	"Shutter/pkg/snowflake"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory sqlite database with the full schema.
// One connection keeps every goroutine on the same database and serializes writers.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:shutter_%d?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=0", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// QueryCounter counts SELECTs issued through db.
type QueryCounter struct {
	n atomic.Int64
}

func (q *QueryCounter) Count() int64 { return q.n.Load() }

func CountQueries(t *testing.T, db *gorm.DB) *QueryCounter {
	t.Helper()
	qc := &QueryCounter{}
	err := db.Callback().Query().After("gorm:query").Register(fmt.Sprintf("testutil:count_%d", dbSeq.Add(1)), func(*gorm.DB) {
		qc.n.Add(1)
	})
	require.NoError(t, err)
	return qc
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		ID:       snowflake.GenID(),
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreatePhoto(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Photo {
	t.Helper()
	p := &models.Photo{
		ID:         snowflake.GenID(),
		UserID:     owner.ID,
		ImageURL:   "https://cdn.example.com/users/" + owner.Username + "/photos/" + title + ".jpg",
		ObjectKey:  "users/" + owner.Username + "/photos/" + title + ".jpg",
		Title:      title,
		Format:     "jpeg",
		Tags:       []string{},
		UploadDate: time.Now(),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func CreateCollection(t *testing.T, db *gorm.DB, owner *models.User, name string, public bool) *models.Collection {
	t.Helper()
	c := &models.Collection{
		ID:       snowflake.GenID(),
		UserID:   owner.ID,
		Name:     name,
		Slug:     fmt.Sprintf("%s-%d", name, dbSeq.Add(1)),
		IsPublic: public,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{ID: snowflake.GenID(), Name: name, Slug: name}
	require.NoError(t, db.Create(c).Error)
	return c
}
