package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/api/middleware"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/service"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store/storetest"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/jwt"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/mailer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock 外部依赖
// ═══════════════════════════════════════════════════════════

type mockSender struct {
	mu   sync.Mutex
	err  error
	sent []mailer.Message
}

func (m *mockSender) Send(_ context.Context, _ mailer.SMTPConfig, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

const testPassword = "secreto123"

// testEnv 真实的 store 与 service，后端为 storetest 内存替身
type testEnv struct {
	cfg     *config.Config
	backend *storetest.Backend
	store   *store.Store
	svc     *service.Service
	h       *Handler
	sender  *mockSender
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, store.Options{})
}

// newTestEnvWith 预置数据见 storetest.Backend.Seed；全部预置用户的密码为 testPassword
func newTestEnvWith(t *testing.T, opts store.Options) *testEnv {
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

	opts.Now = func() time.Time { return storetest.FixedNow }
	st := store.New(b.Repository(), zap.NewNop(), opts)
	if err := st.Init(context.Background()); err != nil {
		t.Fatalf("Init 失败: %v", err)
	}

	cfg := &config.Config{
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
	sender := &mockSender{}
	svc := service.NewService(cfg, st, jwt.NewManager(&cfg.Auth), service.Deps{Sender: sender}, zap.NewNop())
	t.Cleanup(svc.Notify.Wait)

	h := NewHandler(st, svc, zap.NewNop())
	fixed := func() time.Time { return storetest.FixedNow }
	h.Request.now = fixed
	h.User.now = fixed
	h.News.now = fixed
	h.Export.now = fixed

	return &testEnv{cfg: cfg, backend: b, store: st, svc: svc, h: h, sender: sender}
}

// as 模拟 JWTAuth 已注入当前用户
func (e *testEnv) as(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := e.store.User(userID)
		if !ok {
			c.Next()
			return
		}
		c.Set(middleware.CtxUserID, u.ID)
		c.Set(middleware.CtxRole, string(u.Role))
		c.Set(middleware.CtxDepartmentID, u.DepartmentID)
		c.Set(middleware.CtxUser, u)
		c.Next()
	}
}

// serve 以 userID 身份请求单个路由；userID 为空时不注入身份
func (e *testEnv) serve(userID, method, route, target string, body interface{}, h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	if userID != "" {
		r.Use(e.as(userID))
	}
	r.Handle(method, route, h)

	var rd io.Reader
	if body != nil {
		rd = jsonBody(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(v interface{}) io.Reader {
	if s, ok := v.(string); ok {
		return bytes.NewReader([]byte(s))
	}
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// envelope 与 response.Response 同构，data 延迟解码
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应不是合法 JSON: %v (%s)", err, w.Body.String())
	}
	return resp
}

// decodeData 将 data 解码到 v，并返回业务码
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) int {
	t.Helper()
	resp := parseResponse(t, w)
	if v != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, v); err != nil {
			t.Fatalf("解码 data 失败: %v (%s)", err, string(resp.Data))
		}
	}
	return resp.Code
}

// expectError 校验 HTTP 状态码与业务码
func expectError(t *testing.T, w *httptest.ResponseRecorder, status, code int) envelope {
	t.Helper()
	if w.Code != status {
		t.Fatalf("期望 HTTP %d，实际 %d (%s)", status, w.Code, w.Body.String())
	}
	resp := parseResponse(t, w)
	if resp.Code != code {
		t.Errorf("期望业务码 %d，实际 %d", code, resp.Code)
	}
	return resp
}
