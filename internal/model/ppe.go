package model

import "time"

// PPERequest 防护用品申领表，对应 ppe_requests
type PPERequest struct {
	ID           string     `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	UserID       string     `gorm:"type:varchar(64);not null"                                   json:"user_id"`
	TypeID       string     `gorm:"type:varchar(64);not null"                                   json:"type_id"`
	Size         string     `gorm:"type:varchar(20);not null;default:''"                        json:"size"`
	Status       string     `gorm:"type:varchar(20);not null;default:'PENDIENTE'"               json:"status"`
	DeliveryDate *time.Time `json:"delivery_date"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"created_at"`
}

// TableName 指定表名
func (PPERequest) TableName() string { return "ppe_requests" }
