package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"sync"
	"testing"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/internal/testutil"
	"Shutter/models"
	"Shutter/pkg/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv wires every service over sqlite, the in-memory cache and an in-memory object store.
type testEnv struct {
	db     *gorm.DB
	cfg    *config.Config
	cache  *cache.MemoryStorage
	store  *countingStore
	tagger *recordingTagger

	auth        *AuthService
	users       *UserService
	photos      *PhotoService
	likes       *LikeService
	follows     *FollowService
	comments    *CommentService
	collections *CollectionService
	categories  *CategoryService
	downloads   *DownloadService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := config.Default()
	cfg.Jwt.Secret = "test-secret"
	cfg.Storage.Driver = "memory"
	cfg.App.HashSalt = "salt"

	mem, err := storage.NewMemoryStore("https://cdn.example.com/media")
	require.NoError(t, err)

	e := &testEnv{
		db:     db,
		cfg:    cfg,
		cache:  cache.NewMemoryStorage(),
		store:  &countingStore{Store: mem, mem: mem},
		tagger: &recordingTagger{},
	}

	userDAO := dao.NewUserDAO(db)
	photoDAO := dao.NewPhotoDAO(db)
	presenter := &Presenter{
		Config:              cfg,
		Cache:               e.cache,
		UserDAO:             userDAO,
		LikeDAO:             dao.NewLikeDAO(db),
		FollowDAO:           dao.NewFollowDAO(db),
		CollectionLikeDAO:   dao.NewCollectionLikeDAO(db),
		CollectionFollowDAO: dao.NewCollectionFollowDAO(db),
	}
	upload := &UploadService{Config: cfg, Store: e.store}

	e.auth = &AuthService{Config: cfg, UserDAO: userDAO, Blacklist: cache.NewTokenBlacklist(e.cache)}
	e.users = &UserService{
		Config:        cfg,
		UserDAO:       userDAO,
		PhotoDAO:      photoDAO,
		CollectionDAO: dao.NewCollectionDAO(db),
		FollowDAO:     presenter.FollowDAO,
		Cache:         e.cache,
		Presenter:     presenter,
		Upload:        upload,
	}
	e.photos = &PhotoService{
		Config:             cfg,
		PhotoDAO:           photoDAO,
		UserDAO:            userDAO,
		PhotoCollectionDAO: dao.NewPhotoCollectionDAO(db),
		Cache:              e.cache,
		Presenter:          presenter,
		Upload:             upload,
		Tagger:             e.tagger,
	}
	e.likes = &LikeService{
		LikeDAO:   presenter.LikeDAO,
		PhotoDAO:  photoDAO,
		UserDAO:   userDAO,
		Cache:     e.cache,
		Presenter: presenter,
	}
	e.follows = &FollowService{
		FollowDAO: presenter.FollowDAO,
		UserDAO:   userDAO,
		Cache:     e.cache,
		Presenter: presenter,
	}
	e.comments = &CommentService{
		Config:     cfg,
		CommentDAO: dao.NewCommentDAO(db),
		PhotoDAO:   photoDAO,
		UserDAO:    userDAO,
		Cache:      e.cache,
		Presenter:  presenter,
	}
	e.collections = &CollectionService{
		Config:              cfg,
		CollectionDAO:       e.users.CollectionDAO,
		PhotoDAO:            photoDAO,
		UserDAO:             userDAO,
		PhotoCollectionDAO:  e.photos.PhotoCollectionDAO,
		CollectionLikeDAO:   presenter.CollectionLikeDAO,
		CollectionFollowDAO: presenter.CollectionFollowDAO,
		Cache:               e.cache,
		Presenter:           presenter,
	}
	e.categories = &CategoryService{
		Config:           cfg,
		CategoryDAO:      dao.NewCategoryDAO(db),
		PhotoDAO:         photoDAO,
		PhotoCategoryDAO: dao.NewPhotoCategoryDAO(db),
		Cache:            e.cache,
		Presenter:        presenter,
	}
	e.downloads = &DownloadService{
		Config:      cfg,
		DownloadDAO: dao.NewDownloadDAO(db),
		PhotoDAO:    photoDAO,
		Cache:       e.cache,
		Limiter:     cache.NewDownloadLimiter(e.cache, cfg),
		Presenter:   presenter,
	}
	return e
}

func (e *testEnv) photo(t *testing.T, id int64) *models.Photo {
	t.Helper()
	var p models.Photo
	require.NoError(t, e.db.First(&p, "id = ?", id).Error)
	return &p
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

// countingStore counts puts and can be made to fail.
type countingStore struct {
	storage.Store
	mem *storage.MemoryStore

	mu   sync.Mutex
	puts int
	fail bool
}

func (s *countingStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	s.mu.Lock()
	s.puts++
	fail := s.fail
	s.mu.Unlock()
	if fail {
		return "", errors.New("bucket unavailable")
	}
	return s.Store.Put(ctx, key, r, size, contentType)
}

func (s *countingStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

type recordingTagger struct {
	mu         sync.Mutex
	dispatched []*models.Photo
}

func (r *recordingTagger) Dispatch(photo *models.Photo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatched = append(r.dispatched, photo)
}

func (r *recordingTagger) Apply(context.Context, int64, string) error { return nil }

func (r *recordingTagger) Close() {}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader round-trips data through a multipart body the way gin receives it.
func fileHeader(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}
