package model

// Department 部门表，对应 departments
type Department struct {
	ID            string      `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	Name          string      `gorm:"type:varchar(100);not null"                                  json:"name"`
	SupervisorIDs StringArray `gorm:"type:text[];not null;default:'{}'"                           json:"supervisor_ids"`
	Timestamps
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
