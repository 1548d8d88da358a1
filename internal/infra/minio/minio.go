package minio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidstream-go/internal/config"
	"vidstream-go/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ErrObjectNotFound 对象不存在
var ErrObjectNotFound = errors.New("对象不存在")

// Object 已上传媒体对象的元信息
type Object struct {
	Name        string
	URL         string
	Size        int64
	ContentType string
}

var client *minio.Client

// Init 初始化 MinIO 客户端，确保媒体 Bucket 存在且公开可读
func Init(cfg *config.MinIOConfig) error {
	var err error
	client, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MediaBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.MediaBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MediaBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.MediaBucket, err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", cfg.MediaBucket))
	}

	// 前端直接播放，需要公开读
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, cfg.MediaBucket)
	if err := client.SetBucketPolicy(ctx, cfg.MediaBucket, policy); err != nil {
		return fmt.Errorf("failed to set public policy for %s: %w", cfg.MediaBucket, err)
	}

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.MediaBucket),
	)
	return nil
}

// Get 获取 MinIO 客户端实例
func Get() *minio.Client {
	return client
}

// Locator 通过 StatObject 校验媒体对象并生成公开 URL
type Locator struct {
	client *minio.Client
	bucket string
	base   string
}

// NewLocator 创建定位器
func NewLocator(c *minio.Client, cfg *config.MinIOConfig) *Locator {
	base := strings.TrimRight(cfg.PublicBase, "/")
	if base == "" {
		base = GetPublicURL(cfg.Endpoint, cfg.UseSSL, cfg.MediaBucket, "")
		base = strings.TrimRight(base, "/")
	}
	return &Locator{client: c, bucket: cfg.MediaBucket, base: base}
}

// Locate 查询对象，不存在时返回 ErrObjectNotFound
func (l *Locator) Locate(ctx context.Context, objectName string) (*Object, error) {
	name := strings.TrimLeft(strings.TrimSpace(objectName), "/")
	if name == "" {
		return nil, ErrObjectNotFound
	}

	info, err := l.client.StatObject(ctx, l.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", name, err)
	}

	return &Object{
		Name:        name,
		URL:         l.base + "/" + name,
		Size:        info.Size,
		ContentType: info.ContentType,
	}, nil
}

// GetPublicURL 生成公开访问 URL（需要 Bucket 设置为 public-read）
func GetPublicURL(endpoint string, useSSL bool, bucket, objectName string) string {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, bucket, objectName)
}
