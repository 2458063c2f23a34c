package model

import "time"

// Notification 站内通知表，对应 notifications
type Notification struct {
	ID      string    `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	UserID  string    `gorm:"type:varchar(64);not null;index"                             json:"user_id"`
	Message string    `gorm:"type:text;not null"                                          json:"message"`
	Read    bool      `gorm:"not null;default:false"                                      json:"read"`
	Date    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"date"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
