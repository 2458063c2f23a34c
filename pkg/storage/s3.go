// Package storage 封装 S3 兼容对象存储，当前用于员工头像。
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
)

// Uploader 对象上传接口，便于在服务层替换为测试实现
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// S3 客户端
type S3 struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3 根据配置创建客户端；未启用时返回 nil
func NewS3(cfg *config.StorageConfig, logger *zap.Logger) *S3 {
	if !cfg.Enabled {
		logger.Info("对象存储未启用，头像以 data URI 保存")
		return nil
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket
	}

	logger.Info("对象存储已初始化", zap.String("bucket", cfg.Bucket), zap.String("endpoint", endpoint))
	return &S3{client: client, bucket: cfg.Bucket, publicURL: publicURL}
}

// Upload 上传对象并返回公开访问地址
func (s *S3) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("上传对象 %s 失败: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// PublicURL 拼接对象的公开地址
func (s *S3) PublicURL(key string) string {
	return s.publicURL + "/" + strings.TrimLeft(key, "/")
}
