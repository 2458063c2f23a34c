package model

import "time"

// News 公告表，对应 news
type News struct {
	ID        string     `gorm:"type:varchar(64);primaryKey;default:gen_random_uuid()::text" json:"id"`
	Title     string     `gorm:"type:varchar(200);not null"                                  json:"title"`
	Content   string     `gorm:"type:text;not null;default:''"                               json:"content"`
	AuthorID  string     `gorm:"type:varchar(64);not null"                                   json:"author_id"`
	Pinned    bool       `gorm:"not null;default:false"                                      json:"pinned"`
	PublishAt *time.Time `json:"publish_at"`
	Announced bool       `gorm:"not null;default:false"                                      json:"announced"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"created_at"`
}

// TableName 指定表名
func (News) TableName() string { return "news" }
