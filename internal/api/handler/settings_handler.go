package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/service"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/mailer"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// SettingsHandler SMTP 配置、邮件模板与测试发送（仅管理员）
type SettingsHandler struct {
	store     *store.Store
	notifySvc service.NotifyService
	logger    *zap.Logger
}

// NewSettingsHandler 创建 SettingsHandler
func NewSettingsHandler(st *store.Store, notifySvc service.NotifyService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{store: st, notifySvc: notifySvc, logger: logger}
}

// Get 设置页数据，SMTP 密码不回传
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	smtp := h.store.SmtpSettings()
	smtp.Password = ""

	templates := h.store.EmailTemplates()
	if templates == nil {
		templates = []domain.EmailTemplate{}
	}

	response.OK(c, dto.SettingsResponse{
		Smtp:         smtp,
		Templates:    templates,
		Placeholders: mailer.Placeholders(),
	})
}

// SaveSmtp 保存 SMTP 配置；密码留空表示沿用已保存的密码
// PUT /api/v1/settings/smtp
func (h *SettingsHandler) SaveSmtp(c *gin.Context) {
	var req dto.SmtpSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	cfg := domain.SmtpSettings{
		Host:     req.Host,
		Port:     req.Port,
		User:     req.User,
		Password: req.Password,
		Enabled:  req.Enabled,
	}
	if cfg.Password == "" {
		cfg.Password = h.store.SmtpSettings().Password
	}

	saved, err := h.store.SaveSmtpSettings(c.Request.Context(), cfg)
	if err != nil {
		handleStoreError(c, h.logger, moduleSettings, err)
		return
	}

	saved.Password = ""
	response.OK(c, saved)
}

// SaveTemplates 整体保存邮件模板
// PUT /api/v1/settings/templates
func (h *SettingsHandler) SaveTemplates(c *gin.Context) {
	var req dto.EmailTemplatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	saved, err := h.store.SaveEmailTemplates(c.Request.Context(), req.Templates)
	if err != nil {
		handleStoreError(c, h.logger, moduleSettings, err)
		return
	}

	response.OK(c, gin.H{"list": saved})
}

// TestMail 使用给定 SMTP 参数发送测试邮件；发送失败仍返回 200，结果见 success/error
// POST /api/v1/mail/test
func (h *SettingsHandler) TestMail(c *gin.Context) {
	var req dto.TestMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	response.OK(c, h.notifySvc.SendTestMail(c.Request.Context(), &req))
}
