package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"Shutter/config"
	"Shutter/models"
	"Shutter/pkg/log"
	"Shutter/pkg/snowflake"
	"Shutter/pkg/storage"
	"Shutter/types"

	"go.uber.org/zap"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var _ IUploadService = (*UploadService)(nil)

type IUploadService interface {
	// Upload stores a photo for owner and reports what the image turned out to be.
	Upload(ctx context.Context, owner *models.User, fh *multipart.FileHeader) (*types.UploadedImage, error)
	UploadAvatar(ctx context.Context, owner *models.User, fh *multipart.FileHeader) (*types.UploadedImage, error)
	// Purge removes the object behind url. Failures are only logged.
	Purge(ctx context.Context, url string)
}

type UploadService struct {
	Config *config.Config
	Store  storage.Store
}

// mimeByFormat maps image.DecodeConfig format names to the content type they are stored with.
var mimeByFormat = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"tiff": "image/tiff",
}

func (s *UploadService) Upload(ctx context.Context, owner *models.User, fh *multipart.FileHeader) (*types.UploadedImage, error) {
	return s.upload(ctx, owner, fh, "photos")
}

func (s *UploadService) UploadAvatar(ctx context.Context, owner *models.User, fh *multipart.FileHeader) (*types.UploadedImage, error) {
	return s.upload(ctx, owner, fh, "profile")
}

func (s *UploadService) upload(ctx context.Context, owner *models.User, fh *multipart.FileHeader, folder string) (*types.UploadedImage, error) {
	if fh == nil {
		return nil, ErrMissingImage
	}
	max := s.Config.Storage.MaxUploadSize
	if max > 0 && fh.Size > max {
		return nil, errImageTooLarge(max)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if max > 0 {
		r = io.LimitReader(f, max+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if max > 0 && int64(len(data)) > max {
		return nil, errImageTooLarge(max)
	}

	img, err := sniff(data)
	if err != nil {
		return nil, err
	}

	ext := img.Format
	if ext == "jpeg" {
		ext = "jpg"
	}
	img.Key = fmt.Sprintf("users/%s/%s/%s_%s_%d.%s",
		owner.Username, folder, owner.Username, time.Now().Format("20060102150405"), snowflake.GenID(), ext)

	img.URL, err = s.Store.Put(ctx, img.Key, bytes.NewReader(data), img.Size, img.ContentType)
	if err != nil {
		log.L.Error("store put", zap.String("key", img.Key), zap.Error(err))
		return nil, ErrStorageFailure
	}
	return img, nil
}

// sniff accepts data only when the declared magic bytes and the decoded
// header agree on one of the allowed formats.
func sniff(data []byte) (*types.UploadedImage, error) {
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}
	want, ok := mimeByFormat[format]
	if !ok {
		return nil, ErrInvalidImage
	}
	detected := http.DetectContentType(data)
	// net/http has no tiff signature.
	if detected != want && !(format == "tiff" && detected == "application/octet-stream") {
		return nil, ErrInvalidImage
	}
	return &types.UploadedImage{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      format,
		ContentType: want,
		Size:        int64(len(data)),
	}, nil
}

func (s *UploadService) Purge(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, err := s.Store.KeyFromURL(url)
	if err != nil {
		log.L.Warn("purge: foreign url", zap.String("url", url), zap.Error(err))
		return
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		log.L.Warn("purge: delete object", zap.String("key", key), zap.Error(err))
	}
}
