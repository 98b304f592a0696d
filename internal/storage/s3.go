package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds the settings needed to reach an S3 bucket.
type S3Config struct {
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// S3Provider stores objects in an S3 bucket and signs access URLs for them.
type S3Provider struct {
	client *minio.Client
	bucket string
	region string
	logger *slog.Logger
}

// NewS3Provider creates a Provider backed by the given S3 bucket.
func NewS3Provider(log *slog.Logger, cfg S3Config) (*S3Provider, error) {
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New("s3."+region+".amazonaws.com", &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: true,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Provider{
		client: client,
		bucket: bucket,
		region: region,
		logger: log.With(slog.String("component", "s3")),
	}, nil
}

// Put uploads the object with its content type and an expiry hint.
func (s *S3Provider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string, expires time.Time) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
		Expires:     expires,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Presign returns a signed GET URL valid for ttl.
func (s *S3Provider) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", key, err)
	}
	return u.String(), nil
}

// PublicURL returns the virtual-hosted-style URL for key.
func (s *S3Provider) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// Delete removes the object at key.
func (s *S3Provider) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
