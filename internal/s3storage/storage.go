// Package s3storage reads document objects from S3-compatible storage so the
// viewer can render s3://bucket/key locations.
package s3storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dharsanguruparan/LinguaShelf/internal/config"
)

// ErrNotConfigured is returned when no S3 endpoint has been configured.
var ErrNotConfigured = errors.New("s3 endpoint not configured")

// Storage wraps MinIO/S3 reads.
type Storage struct {
	client *minio.Client
}

// New creates a MinIO client from the Config. It returns ErrNotConfigured
// when cfg has no S3 endpoint.
func New(cfg *config.Config) (*Storage, error) {
	if cfg.S3Endpoint == "" {
		return nil, ErrNotConfigured
	}
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{client: client}, nil
}

// ParseLocation splits s3://bucket/key into its parts.
func ParseLocation(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("parse location: %w", err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 location: %s", location)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("incomplete s3 location: %s", location)
	}
	return bucket, key, nil
}

// Download fetches the object named by an s3:// location.
func (s *Storage) Download(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer obj.Close()
	buf, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return buf, nil
}
