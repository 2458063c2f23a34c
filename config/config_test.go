package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("期望缺少 jwt_secret 时校验失败")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
auth:
  jwt_secret: "file-secret-0123456789"
feature:
  auto_balance: true
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望 port=9090，实际=%d", cfg.Server.Port)
	}
	if !cfg.Feature.AutoBalance {
		t.Error("期望 feature.auto_balance=true")
	}
	if cfg.Feature.ConflictDetection {
		t.Error("期望 feature.conflict_detection 默认关闭")
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("期望 access_token_ttl=15m，实际=%s", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Server.CORS.MaxAge != 12*time.Hour || len(cfg.Server.CORS.ExposeHeaders) != 2 {
		t.Errorf("期望默认 CORS max_age=12h 且暴露 2 个头，实际=%s %v", cfg.Server.CORS.MaxAge, cfg.Server.CORS.ExposeHeaders)
	}
	if cfg.NATS.Subject != "rrhh.store.changed" {
		t.Errorf("期望默认 NATS subject，实际=%s", cfg.NATS.Subject)
	}
}

func TestValidate_ShortSecret(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: "short"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("期望短密钥校验失败")
	}
}

func TestValidate_StorageIncomplete(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 8080},
		Auth:    AuthConfig{JWTSecret: "0123456789abcdef"},
		Storage: StorageConfig{Enabled: true},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("期望 storage 配置不完整时校验失败")
	}
}

func TestValidate_CORSOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		wantErr bool
	}{
		{"未配置", nil, false},
		{"全部放行", []string{"*"}, false},
		{"合法来源", []string{"https://rrhh.gda.es", "http://localhost:5173"}, false},
		{"缺少协议", []string{"rrhh.gda.es"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server: ServerConfig{Port: 8080, CORS: CORSConfig{AllowOrigins: tt.origins}},
				Auth:   AuthConfig{JWTSecret: "0123456789abcdef"},
			}
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("期望 wantErr=%v，实际 err=%v", tt.wantErr, err)
			}
		})
	}
}
