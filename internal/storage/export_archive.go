// Package storage keeps copies of generated exports in object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ExportArchive interface {
	EnsureBucket(ctx context.Context) error
	// Put stores an export under the hub's prefix and returns the object name.
	Put(ctx context.Context, hubID uuid.UUID, filename, contentType string, data []byte) (string, error)
	// Prune removes archived exports last modified before cutoff.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

type minioArchive struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

func NewMinioArchive(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (ExportArchive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioArchive{client: client, bucket: bucket, now: time.Now}, nil
}

func objectName(hubID uuid.UUID, at time.Time, filename string) string {
	return fmt.Sprintf("%s/%s-%s", hubID.String(), at.UTC().Format("20060102T150405Z"), filename)
}

func (m *minioArchive) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioArchive) Put(ctx context.Context, hubID uuid.UUID, filename, contentType string, data []byte) (string, error) {
	name := objectName(hubID, m.now(), filename)
	_, err := m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", name, err)
	}
	return name, nil
}

func (m *minioArchive) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return removed, obj.Err
		}
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := m.client.RemoveObject(ctx, m.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("remove %s: %w", obj.Key, err)
		}
		removed++
	}
	return removed, nil
}
