package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"Shutter/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store talks to AWS S3 or any S3 compatible server such as MinIO.
type S3Store struct {
	publicBase
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

var _ Store = (*S3Store)(nil)

func NewS3Store(ctx context.Context, cfg *config.Storage) (*S3Store, error) {
	base, err := newPublicBase(cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	sc := cfg.S3
	if sc.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket must be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(sc.Region),
	}
	if sc.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKeyID, sc.AccessKeySecret, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
		}
		o.UsePathStyle = sc.UsePathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &S3Store{
		publicBase: base,
		client:     client,
		uploader:   manager.NewUploader(client),
		bucket:     sc.Bucket,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, s.bucket, err)
	}
	return s.URL(key), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
