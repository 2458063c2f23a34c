package model

import (
	"time"

	"gorm.io/datatypes"
)

// LeaveType 假期类型配置表，对应 leave_types
type LeaveType struct {
	ID            string         `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	Label         string         `gorm:"type:varchar(100);not null"                                  json:"label"`
	SubtractsDays bool           `gorm:"not null;default:false"                                      json:"subtracts_days"`
	FixedRanges   datatypes.JSON `gorm:"type:jsonb"                                                  json:"fixed_ranges"`
	Timestamps
}

// TableName 指定表名
func (LeaveType) TableName() string { return "leave_types" }

// FixedRangeRow fixed_ranges JSON 数组元素
type FixedRangeRow struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Label     string `json:"label,omitempty"`
}

// ShiftType 班次类型表，对应 shift_types
type ShiftType struct {
	ID       string         `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	Name     string         `gorm:"type:varchar(100);not null"                                  json:"name"`
	Color    string         `gorm:"type:varchar(20);not null;default:'#64748b'"                 json:"color"`
	Segments datatypes.JSON `gorm:"type:jsonb"                                                  json:"segments"`
	Timestamps
}

// TableName 指定表名
func (ShiftType) TableName() string { return "shift_types" }

// SegmentRow segments JSON 数组元素
type SegmentRow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Holiday 节假日表，对应 holidays
type Holiday struct {
	ID        string    `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	Date      time.Time `gorm:"type:date;not null"                                          json:"date"`
	Name      string    `gorm:"type:varchar(150);not null"                                  json:"name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"created_at"`
}

// TableName 指定表名
func (Holiday) TableName() string { return "holidays" }

// PPEType 防护用品类型表，对应 ppe_types
type PPEType struct {
	ID    string         `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	Name  string         `gorm:"type:varchar(100);not null"                                  json:"name"`
	Sizes datatypes.JSON `gorm:"type:jsonb"                                                  json:"sizes"`
	Timestamps
}

// TableName 指定表名
func (PPEType) TableName() string { return "ppe_types" }
