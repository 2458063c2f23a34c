package model

import (
	"time"

	"gorm.io/datatypes"
)

// Request 申请表，对应 requests（请假、加班、调整、缺勤记录共用）
type Request struct {
	ID              string         `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	UserID          string         `gorm:"type:varchar(64);not null;index"                             json:"user_id"`
	TypeID          string         `gorm:"type:varchar(64);not null"                                   json:"type_id"`
	Label           string         `gorm:"type:varchar(200);not null;default:''"                       json:"label"`
	StartDate       time.Time      `gorm:"type:date;not null"                                          json:"start_date"`
	EndDate         *time.Time     `gorm:"type:date"                                                   json:"end_date"`
	Hours           *float64       `gorm:"type:numeric(8,2)"                                           json:"hours"`
	Reason          *string        `gorm:"type:text"                                                   json:"reason"`
	Status          string         `gorm:"type:varchar(20);not null;default:'PENDING';index"           json:"status"`
	AdminComment    *string        `gorm:"type:text"                                                   json:"admin_comment"`
	CreatedByAdmin  bool           `gorm:"not null;default:false"                                      json:"created_by_admin"`
	IsConsumed      bool           `gorm:"not null;default:false"                                      json:"is_consumed"`
	ConsumedHours   float64        `gorm:"type:numeric(8,2);not null;default:0"                        json:"consumed_hours"`
	DaysDeducted    float64        `gorm:"type:numeric(6,2);not null;default:0"                        json:"days_deducted"`
	OvertimeUsage   datatypes.JSON `gorm:"type:jsonb"                                                  json:"overtime_usage"`
	IsJustified     *bool          `json:"is_justified"`
	ReportedToAdmin bool           `gorm:"not null;default:false"                                      json:"reported_to_admin"`
	Timestamps
}

// TableName 指定表名
func (Request) TableName() string { return "requests" }

// OvertimeUsageRow overtime_usage JSON 数组元素
type OvertimeUsageRow struct {
	RequestID string  `json:"requestId"`
	HoursUsed float64 `json:"hoursUsed"`
}
