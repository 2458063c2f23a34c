package model

import (
	"time"

	"gorm.io/datatypes"
)

// 设置项键名
const (
	SettingKeySMTP           = "smtp_settings"
	SettingKeyEmailTemplates = "email_templates"
)

// Setting 键值设置表，对应 settings
type Setting struct {
	Key       string         `gorm:"type:varchar(100);primaryKey"        json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"                 json:"value"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"updated_at"`
}

// TableName 指定表名
func (Setting) TableName() string { return "settings" }
