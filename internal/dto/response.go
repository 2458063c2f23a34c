package dto

import "github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int         `json:"expiresIn"` // Access Token 有效期（秒）
	User         domain.User `json:"user"`
}

// ── 导入导出 ──

// ImportError 导入失败的行
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult 员工导入结果
type ImportResult struct {
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Errors  []ImportError `json:"errors"`
}

// ── 日历 ──

// CalendarDay 日历中某一天的汇总
type CalendarDay struct {
	Date     string                   `json:"date"`
	Holiday  *domain.Holiday          `json:"holiday,omitempty"`
	Shifts   []domain.ShiftAssignment `json:"shifts"`
	Absences []domain.LeaveRequest    `json:"absences"`
}

// ── 系统 ──

// HealthResponse 健康检查
type HealthResponse struct {
	Status      string `json:"status"`
	Loaded      bool   `json:"loaded"`
	Subscribers int    `json:"subscribers"`
}
