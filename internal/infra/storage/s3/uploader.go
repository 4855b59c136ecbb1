// Package s3 holds the facility media store: suite photos and pet
// vaccination documents land in one S3-compatible bucket, addressed by
// the object keys the HTTP layer builds (suites/<id>/..., pets/<id>/...).
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader persists one media object and returns the URL customers and
// staff will see in suite listings and pet profiles.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
}

// MediaStore is the MinIO-backed Uploader. The bucket is created lazily on
// first upload so a facility can boot without object storage running.
type MediaStore struct {
	bucket        string
	publicBaseURL string
	client        *minio.Client
	logger        *slog.Logger
	initOnce      sync.Once
	initErr       error
}

// NewMediaStore connects to the configured S3 endpoint. publicBaseURL is
// what gets baked into photo and document URLs; it falls back to the
// endpoint itself for single-host setups.
func NewMediaStore(endpoint string, useSSL bool, accessKey, secretKey, bucket, publicBaseURL string, logger *slog.Logger) (*MediaStore, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("s3: media endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: media bucket is required")
	}

	client, err := minio.New(hostOf(endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: connect media store: %w", err)
	}

	base := strings.TrimSpace(publicBaseURL)
	if base == "" {
		base = endpoint
	}

	return &MediaStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		client:        client,
		logger:        logger,
	}, nil
}

func (s *MediaStore) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("s3: media content is required")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: media key is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, -1, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("s3: store media object: %w", err)
	}

	publicURL := s.mediaURL(key)
	if s.logger != nil {
		s.logger.Info("media stored", "bucket", s.bucket, "key", key, "url", publicURL)
	}
	return publicURL, nil
}

// ensureBucket creates the media bucket and opens it for anonymous reads,
// since photo and document URLs are served straight from the bucket.
func (s *MediaStore) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = fmt.Errorf("s3: check media bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			s.initErr = fmt.Errorf("s3: create media bucket: %w", err)
			return
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, s.bucket)
		if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
			s.initErr = fmt.Errorf("s3: open media bucket for reads: %w", err)
		}
	})
	return s.initErr
}

func (s *MediaStore) mediaURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key)
}

func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

// NoopUploader rejects uploads when no media store is configured, so suite
// photos and vaccination documents fail loudly instead of vanishing.
type NoopUploader struct{}

func (NoopUploader) Upload(context.Context, string, io.Reader, string) (string, error) {
	return "", errors.New("s3: media store is not configured")
}

var _ Uploader = (*MediaStore)(nil)
var _ Uploader = NoopUploader{}
