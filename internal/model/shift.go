package model

import "time"

// ShiftAssignment 排班表，对应 shift_assignments，(user_id, date) 唯一
type ShiftAssignment struct {
	ID          string    `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	UserID      string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_shift_assignments_user_date" json:"user_id"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uq_shift_assignments_user_date"        json:"date"`
	ShiftTypeID string    `gorm:"type:varchar(64);not null"                                   json:"shift_type_id"`
	Timestamps
}

// TableName 指定表名
func (ShiftAssignment) TableName() string { return "shift_assignments" }
