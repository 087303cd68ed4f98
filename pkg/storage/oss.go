package storage

import (
	"context"
	"io"

	"Shutter/config"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

type OssStore struct {
	publicBase
	Client     *oss.Client
	BucketName string
}

var _ Store = (*OssStore)(nil)

func NewOssStore(cfg *config.Storage) (*OssStore, error) {
	base, err := newPublicBase(cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}

	var provider credentials.CredentialsProvider = credentials.NewEnvironmentVariableCredentialsProvider()
	if cfg.Oss.AccessKeyID != "" {
		provider = credentials.NewStaticCredentialsProvider(cfg.Oss.AccessKeyID, cfg.Oss.AccessKeySecret)
	}
	ossCfg := oss.LoadDefaultConfig().
		WithEndpoint(cfg.Oss.Endpoint).
		WithRegion(cfg.Oss.Region).
		WithCredentialsProvider(provider)

	return &OssStore{
		publicBase: base,
		Client:     oss.NewClient(ossCfg),
		BucketName: cfg.Oss.Bucket,
	}, nil
}

func (s *OssStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	req := &oss.PutObjectRequest{
		Bucket:      oss.Ptr(s.BucketName),
		Key:         oss.Ptr(key),
		Body:        r,
		ContentType: oss.Ptr(contentType),
	}
	if size > 0 {
		req.ContentLength = oss.Ptr(size)
	}
	if _, err := s.Client.PutObject(ctx, req); err != nil {
		return "", err
	}
	return s.URL(key), nil
}

func (s *OssStore) Delete(ctx context.Context, key string) error {
	_, err := s.Client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(s.BucketName),
		Key:    oss.Ptr(key),
	})
	return err
}
