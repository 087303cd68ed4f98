package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"Shutter/config"
)

var ErrForeignURL = errors.New("url does not belong to this store")

// Store is the remote object store behind photo and avatar uploads.
type Store interface {
	// Put uploads r under key and returns the public URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL reverses a URL returned by Put.
	KeyFromURL(raw string) (string, error)
}

// publicBase maps object keys to <base>/<key> and back.
type publicBase struct {
	base *url.URL
}

func newPublicBase(raw string) (publicBase, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return publicBase{}, fmt.Errorf("public base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return publicBase{}, fmt.Errorf("public base url %q must be absolute", raw)
	}
	return publicBase{base: u}, nil
}

func (p publicBase) URL(key string) string {
	return p.base.JoinPath(key).String()
}

func (p publicBase) KeyFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(u.Host, p.base.Host) {
		return "", ErrForeignURL
	}
	prefix := p.base.Path + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(u.Path, prefix)
	if key == "" {
		return "", ErrForeignURL
	}
	return key, nil
}

// New builds the store selected by cfg.Driver.
func New(cfg *config.Storage) (Store, error) {
	switch cfg.Driver {
	case "oss":
		return NewOssStore(cfg)
	case "s3", "minio":
		return NewS3Store(context.Background(), cfg)
	case "memory", "":
		return NewMemoryStore(cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
