package storage

import (
	"testing"

	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
)

func TestNewS3_Disabled(t *testing.T) {
	if s := NewS3(&config.StorageConfig{Enabled: false}, zap.NewNop()); s != nil {
		t.Error("未启用时应返回 nil")
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		key  string
		want string
	}{
		{
			name: "自定义公开地址",
			cfg:  config.StorageConfig{Enabled: true, Bucket: "rrhh", Endpoint: "s3.example.com", PublicURL: "https://cdn.example.com/"},
			key:  "avatars/u-1.jpg",
			want: "https://cdn.example.com/avatars/u-1.jpg",
		},
		{
			name: "默认使用 endpoint/bucket",
			cfg:  config.StorageConfig{Enabled: true, Bucket: "rrhh", Endpoint: "http://minio:9000"},
			key:  "/avatars/u-2.jpg",
			want: "http://minio:9000/rrhh/avatars/u-2.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewS3(&tt.cfg, zap.NewNop())
			if got := s.PublicURL(tt.key); got != tt.want {
				t.Errorf("期望 %s，实际 %s", tt.want, got)
			}
		})
	}
}
