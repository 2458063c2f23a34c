package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store/storetest"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/jwt"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/mailer"
)

// ── Mock 外部依赖 ──

type mockSender struct {
	mu   sync.Mutex
	err  error
	sent []mailer.Message
	cfgs []mailer.SMTPConfig
}

func (m *mockSender) Send(_ context.Context, cfg mailer.SMTPConfig, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	m.cfgs = append(m.cfgs, cfg)
	return nil
}

func (m *mockSender) recipients() map[string]mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]mailer.Message{}
	for _, msg := range m.sent {
		for _, to := range msg.To {
			out[to] = msg
		}
	}
	return out
}

type mockUploader struct {
	err  error
	keys []string
}

func (m *mockUploader) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.keys = append(m.keys, key)
	return "https://cdn.test/" + key, nil
}

type mockBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: map[string]time.Duration{}}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── 测试辅助 ──

const testPassword = "secreto123"

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-0123456789",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 168 * time.Hour,
		},
		Feature: config.FeatureConfig{TransactionalMail: true},
		Storage: config.StorageConfig{AvatarSize: 32},
		Mail:    config.MailConfig{FromName: "RRHH", PortalName: "Portal del Empleado", Timeout: time.Second},
	}
}

type testEnv struct {
	cfg       *config.Config
	backend   *storetest.Backend
	store     *store.Store
	jwtMgr    *jwt.Manager
	sender    *mockSender
	uploader  *mockUploader
	blacklist *mockBlacklist
}

// newTestEnv 预置数据见 storetest.Backend.Seed；全部预置用户的密码为 testPassword
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b := storetest.NewBackend()
	b.Seed()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	for id := range b.Users.Rows {
		b.SetPassword(id, string(hash))
	}

	st := store.New(b.Repository(), zap.NewNop(), store.Options{Now: func() time.Time { return storetest.FixedNow }})
	if err := st.Init(context.Background()); err != nil {
		t.Fatalf("Init 失败: %v", err)
	}

	cfg := testConfig()
	return &testEnv{
		cfg:       cfg,
		backend:   b,
		store:     st,
		jwtMgr:    jwt.NewManager(&cfg.Auth),
		sender:    &mockSender{},
		uploader:  &mockUploader{},
		blacklist: newMockBlacklist(),
	}
}

func (e *testEnv) authService() AuthService {
	return NewAuthService(e.cfg, e.store, e.jwtMgr, e.blacklist, zap.NewNop())
}

func (e *testEnv) notifyService() NotifyService {
	return NewNotifyService(e.cfg, e.store, e.sender, zap.NewNop())
}

// enableMail 启用 SMTP 并保存三个默认模板
func (e *testEnv) enableMail(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, err := e.store.SaveSmtpSettings(ctx, domainSMTP()); err != nil {
		t.Fatalf("保存 SMTP 失败: %v", err)
	}
	if _, err := e.store.SaveEmailTemplates(ctx, defaultTemplates()); err != nil {
		t.Fatalf("保存模板失败: %v", err)
	}
}
