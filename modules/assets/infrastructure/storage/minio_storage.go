package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/brandassets/dam/pkg/configuration"
)

// ObjectStorage abstracts the object store so services stay testable
// without a running minio instance.
type ObjectStorage interface {
	Put(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, objectKey string) error
	PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(opts configuration.StorageOptions) (*MinioStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseTLS,
	})
	if err != nil {
		return nil, err
	}

	return &MinioStorage{
		client: client,
		bucket: opts.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet. Called once at
// startup, not per request.
func (m *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
}

func (m *MinioStorage) Put(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectKey, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *MinioStorage) Remove(ctx context.Context, objectKey string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectKey, minio.RemoveObjectOptions{})
}

func (m *MinioStorage) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	presigned, err := m.client.PresignedGetObject(ctx, m.bucket, objectKey, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}

// ObjectKey builds the per-tenant key for a new upload. Tenant prefixes
// keep listings and bucket policies scoped to one tenant.
func ObjectKey(tenantID, assetID uuid.UUID, filename string) string {
	return path.Join(tenantID.String(), assetID.String()+path.Ext(filename))
}
