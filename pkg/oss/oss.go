package oss

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
)

const location = "us-east-1" // MinIO默认区域

// MinioStore uploads media objects and hands out their public URLs.
type MinioStore struct {
	client    *minio.Client
	publicURL string

	mu      sync.Mutex
	buckets map[string]bool
}

func NewMinioStore(client *minio.Client, publicURL string) *MinioStore {
	return &MinioStore{
		client:    client,
		publicURL: strings.TrimRight(publicURL, "/"),
		buckets:   map[string]bool{},
	}
}

// ensureBucket 检查存储桶是否存在，不存在则创建
func (s *MinioStore) ensureBucket(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buckets[bucket] {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket error: %w", err)
	}
	if !exists {
		if err = s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: location}); err != nil {
			return fmt.Errorf("create bucket error: %w", err)
		}
	}
	s.buckets[bucket] = true
	return nil
}

// Upload stores the local file at bucket/key and returns its public URL.
func (s *MinioStore) Upload(ctx context.Context, bucket, key, localPath, contentType string) (string, error) {
	if err := s.ensureBucket(ctx, bucket); err != nil {
		return "", err
	}
	if _, err := s.client.FPutObject(ctx, bucket, key, localPath, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		hlog.CtxErrorf(ctx, "Failed to upload %s/%s: %v", bucket, key, err)
		return "", err
	}
	return ObjectURL(s.publicURL, bucket, key), nil
}

func (s *MinioStore) Remove(ctx context.Context, bucket, key string) error {
	if key == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

func ObjectURL(publicURL, bucket, key string) string {
	return strings.TrimRight(publicURL, "/") + "/" + path.Join(bucket, key)
}

// ObjectKey names an uploaded object: <prefix>/<id>/<kind><ext>.
func ObjectKey(prefix string, id int64, kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%d/%s%s", prefix, id, kind, ext)
}
