package store

import (
	"context"
	"strings"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// SmtpSettings 当前 SMTP 配置
func (s *Store) SmtpSettings() domain.SmtpSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.smtp
}

// EmailTemplates 全部邮件模板
func (s *Store) EmailTemplates() []domain.EmailTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.EmailTemplate{}, s.data.templates...)
}

// EmailTemplate 按 ID 查找模板
func (s *Store) EmailTemplate(id string) (domain.EmailTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.data.templates {
		if t.ID == id {
			return t, true
		}
	}
	return domain.EmailTemplate{}, false
}

// SaveSmtpSettings 保存 SMTP 配置；启用时主机与端口必填
func (s *Store) SaveSmtpSettings(ctx context.Context, cfg domain.SmtpSettings) (domain.SmtpSettings, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.User = strings.TrimSpace(cfg.User)
	if cfg.Enabled && (cfg.Host == "" || cfg.Port <= 0 || cfg.Port > 65535) {
		return domain.SmtpSettings{}, invalid("servidor y puerto SMTP son obligatorios")
	}

	row := model.Setting{Key: model.SettingKeySMTP, Value: mustJSON(cfg), UpdatedAt: s.now()}
	if err := s.repo.Setting.Upsert(ctx, &row); err != nil {
		return domain.SmtpSettings{}, s.writeFailed("SaveSmtpSettings", EntitySettings, err)
	}

	s.mu.Lock()
	s.data.smtp = cfg
	s.mu.Unlock()

	s.notify(EntitySettings, ActionUpdated, model.SettingKeySMTP, "")
	return cfg, nil
}

// SaveEmailTemplates 整体替换邮件模板列表
func (s *Store) SaveEmailTemplates(ctx context.Context, templates []domain.EmailTemplate) ([]domain.EmailTemplate, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	seen := map[string]bool{}
	out := make([]domain.EmailTemplate, 0, len(templates))
	for _, t := range templates {
		t.ID = strings.TrimSpace(t.ID)
		t.Subject = strings.TrimSpace(t.Subject)
		if t.ID == "" {
			return nil, invalid("cada plantilla necesita un identificador")
		}
		if seen[t.ID] {
			return nil, invalid("plantilla duplicada: %s", t.ID)
		}
		if t.Subject == "" {
			return nil, invalid("la plantilla %s necesita un asunto", t.ID)
		}
		seen[t.ID] = true
		out = append(out, t)
	}

	row := model.Setting{Key: model.SettingKeyEmailTemplates, Value: mustJSON(out), UpdatedAt: s.now()}
	if err := s.repo.Setting.Upsert(ctx, &row); err != nil {
		return nil, s.writeFailed("SaveEmailTemplates", EntitySettings, err)
	}

	s.mu.Lock()
	s.data.templates = out
	s.mu.Unlock()

	s.notify(EntitySettings, ActionUpdated, model.SettingKeyEmailTemplates, "")
	return append([]domain.EmailTemplate{}, out...), nil
}
