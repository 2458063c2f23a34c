package dto

import "time"

// ── 通知与公告 DTO ──

// BroadcastRequest 群发消息；userIds 为空且 all=false 时按 departmentId 选择
type BroadcastRequest struct {
	UserIDs      []string `json:"userIds"`
	DepartmentID string   `json:"departmentId"`
	All          bool     `json:"all"`
	Message      string   `json:"message"   binding:"required,max=2000"`
	SendEmail    bool     `json:"sendEmail"`
	Subject      string   `json:"subject"   binding:"max=200"`
}

// BroadcastResponse 群发结果
type BroadcastResponse struct {
	Notified int  `json:"notified"`
	Emailed  int  `json:"emailed"`
	MailSent bool `json:"mailSent"`
}

// UnreadResponse 未读数量
type UnreadResponse struct {
	Unread int `json:"unread"`
}

// NewsRequest 创建或编辑公告
type NewsRequest struct {
	Title     string     `json:"title"     binding:"required,max=200"`
	Content   string     `json:"content"   binding:"required"`
	PublishAt *time.Time `json:"publishAt"`
	Pinned    bool       `json:"pinned"`
}
