package model

import "time"

// User 员工表，对应 users
type User struct {
	ID                 string     `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	Name               string     `gorm:"type:varchar(120);not null"                                  json:"name"`
	Email              string     `gorm:"type:varchar(255);not null"                                  json:"email"`
	PasswordHash       string     `gorm:"type:varchar(255);not null;default:''"                       json:"-"`
	Role               string     `gorm:"type:varchar(20);not null;default:'WORKER'"                  json:"role"`
	DepartmentID       *string    `gorm:"type:varchar(64)"                                            json:"department_id"`
	DaysAvailable      float64    `gorm:"type:numeric(8,2);not null;default:0"                        json:"days_available"`
	OvertimeHours      float64    `gorm:"type:numeric(8,2);not null;default:0"                        json:"overtime_hours"`
	Avatar             string     `gorm:"type:text;not null;default:''"                               json:"avatar"`
	Birthdate          *time.Time `gorm:"type:date"                                                   json:"birthdate"`
	MustChangePassword bool       `gorm:"not null;default:false"                                      json:"must_change_password"`
	Timestamps
}

// TableName 指定表名
func (User) TableName() string { return "users" }
