package dto

import "github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"

// ── 申请模块 DTO ──

// CreateLeaveRequest 新建申请；userId 为空时为本人申请
type CreateLeaveRequest struct {
	UserID        string                 `json:"userId"`
	TypeID        string                 `json:"typeId"    binding:"required"`
	StartDate     string                 `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate       string                 `json:"endDate"   binding:"omitempty,datetime=2006-01-02"`
	Hours         *float64               `json:"hours"`
	Reason        string                 `json:"reason"    binding:"max=1000"`
	Status        string                 `json:"status"    binding:"omitempty,oneof=PENDING APPROVED"`
	OvertimeUsage []domain.OvertimeUsage `json:"overtimeUsage"`
}

// UpdateLeaveRequest 编辑申请，未提供的字段保持不变
type UpdateLeaveRequest struct {
	StartDate     *string                 `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate       *string                 `json:"endDate"`
	Hours         *float64                `json:"hours"`
	Reason        *string                 `json:"reason"    binding:"omitempty,max=1000"`
	OvertimeUsage *[]domain.OvertimeUsage `json:"overtimeUsage"`
}

// UpdateStatusRequest 审批、驳回或撤销
type UpdateStatusRequest struct {
	Status  string `json:"status"  binding:"required,oneof=APPROVED REJECTED"`
	Comment string `json:"comment" binding:"max=1000"`
}

// ReportAbsenceRequest 主管/管理员登记缺勤
type ReportAbsenceRequest struct {
	UserID    string `json:"userId"    binding:"required"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate"   binding:"omitempty,datetime=2006-01-02"`
	Reason    string `json:"reason"    binding:"max=1000"`
}

// JustifyRequest 标记缺勤是否已证明
type JustifyRequest struct {
	Justified bool `json:"justified"`
}

// RequestListQuery 申请列表过滤
type RequestListQuery struct {
	UserID       string `form:"userId"`
	DepartmentID string `form:"departmentId"`
	TypeID       string `form:"typeId"`
	Status       string `form:"status"   binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Year         int    `form:"year"     binding:"omitempty,min=2000,max=2100"`
	Overtime     bool   `form:"overtime"`
}

// UpcomingQuery 未来缺勤查询
type UpcomingQuery struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	Days int    `form:"days" binding:"omitempty,min=1,max=366"`
}

// ConflictsResponse 冲突检测结果
type ConflictsResponse struct {
	Enabled   bool                  `json:"enabled"`
	Conflicts []domain.LeaveRequest `json:"conflicts"`
}
