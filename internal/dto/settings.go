package dto

import "github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"

// ── 系统设置与邮件 DTO ──

// SmtpSettingsRequest 保存 SMTP 配置
type SmtpSettingsRequest struct {
	Host     string `json:"host"     binding:"max=255"`
	Port     int    `json:"port"     binding:"omitempty,min=1,max=65535"`
	User     string `json:"user"`
	Password string `json:"password"`
	Enabled  bool   `json:"enabled"`
}

// EmailTemplatesRequest 整体保存邮件模板
type EmailTemplatesRequest struct {
	Templates []domain.EmailTemplate `json:"templates" binding:"required,dive"`
}

// TestMailConfig 测试发送使用的 SMTP 参数
type TestMailConfig struct {
	Host     string `json:"host"     binding:"required"`
	Port     int    `json:"port"     binding:"required,min=1,max=65535"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// TestMailRequest POST /mail/test
type TestMailRequest struct {
	To      string         `json:"to"      binding:"required,email"`
	Config  TestMailConfig `json:"config"  binding:"required"`
	Subject string         `json:"subject" binding:"required,max=200"`
	Message string         `json:"message" binding:"required"`
	HTML    string         `json:"html"`
}

// TestMailResponse 测试发送结果；失败时 error 为 SMTP 错误描述
type TestMailResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SettingsResponse 设置页数据，密码不回传
type SettingsResponse struct {
	Smtp         domain.SmtpSettings    `json:"smtp"`
	Templates    []domain.EmailTemplate `json:"templates"`
	Placeholders []string               `json:"placeholders"`
}
