// Package objectstore stores backed-up photos in an S3-compatible bucket.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"vkbackup/pkg/config"
	"vkbackup/pkg/logger"
)

const photoContentType = "image/jpeg"

// MinioAPI is the part of *minio.Client the store uses
type MinioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Opener opens a remote photo for streaming; *storage.Fetcher satisfies it
type Opener interface {
	Open(rawURL string) (io.ReadCloser, int64, error)
}

// Store uploads photos into one bucket
type Store struct {
	client MinioAPI
	opener Opener
	bucket string
	logger logger.Logger
}

// New connects to the endpoint described by cfg
func New(cfg config.S3Config, opener Opener, log logger.Logger) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client for %s: %w", cfg.Endpoint, err)
	}
	return NewWithClient(client, cfg.Bucket, opener, log), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client MinioAPI, bucket string, opener Opener, log logger.Logger) *Store {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Store{
		client: client,
		opener: opener,
		bucket: bucket,
		logger: log.WithFields(map[string]interface{}{"component": "objectstore", "bucket": bucket}),
	}
}

// Bucket returns the bucket name
func (s *Store) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket if it does not exist yet
func (s *Store) EnsureBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Bucket created")
	return nil
}

// PutFromURL streams remoteURL into the object key without touching
// the local disk
func (s *Store) PutFromURL(remoteURL, key string) error {
	body, size, err := s.opener.Open(remoteURL)
	if err != nil {
		return err
	}
	defer body.Close()

	info, err := s.client.PutObject(context.Background(), s.bucket, key, body, size,
		minio.PutObjectOptions{ContentType: photoContentType})
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to put object")
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.DebugWithFields("Object stored", map[string]interface{}{
		"key":  key,
		"size": info.Size,
	})
	return nil
}

// Key joins prefix segments and a file name into an object key
func Key(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return path.Join(cleaned...)
}
