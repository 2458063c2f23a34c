// Package domain 定义门户的领域对象与枚举，JSON 使用 camelCase 字段名。
package domain

import "time"

// Role 用户角色（单一角色，无多角色）
type Role string

const (
	RoleWorker     Role = "WORKER"
	RoleSupervisor Role = "SUPERVISOR"
	RoleAdmin      Role = "ADMIN"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// IsManager 主管或管理员
func (r Role) IsManager() bool {
	return r == RoleSupervisor || r == RoleAdmin
}

// RequestStatus 申请状态
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// PPEStatus 防护用品申领状态
type PPEStatus string

const (
	PPEPending   PPEStatus = "PENDIENTE"
	PPEDelivered PPEStatus = "ENTREGADO"
)

// User 员工
type User struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Role               Role    `json:"role"`
	DepartmentID       string  `json:"departmentId"`
	DaysAvailable      float64 `json:"daysAvailable"`
	OvertimeHours      float64 `json:"overtimeHours"`
	Avatar             string  `json:"avatar"`
	Birthdate          string  `json:"birthdate,omitempty"`
	MustChangePassword bool    `json:"mustChangePassword"`
	PasswordHash       string  `json:"-"`
}

// Department 部门，SupervisorIDs 中的用户拥有该部门成员的审批权
type Department struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	SupervisorIDs []string `json:"supervisorIds"`
}

// HasSupervisor 判断用户是否为该部门主管
func (d Department) HasSupervisor(userID string) bool {
	for _, id := range d.SupervisorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// OvertimeUsage 消耗加班时记录的来源明细
type OvertimeUsage struct {
	RequestID string  `json:"requestId"`
	HoursUsed float64 `json:"hoursUsed"`
}

// LeaveRequest 申请（请假、加班、调整、缺勤）
type LeaveRequest struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	TypeID          string          `json:"typeId"`
	Label           string          `json:"label"`
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate,omitempty"`
	Hours           *float64        `json:"hours,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	Status          RequestStatus   `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	AdminComment    string          `json:"adminComment,omitempty"`
	CreatedByAdmin  bool            `json:"createdByAdmin,omitempty"`
	IsConsumed      bool            `json:"isConsumed,omitempty"`
	ConsumedHours   float64         `json:"consumedHours,omitempty"`
	DaysDeducted    float64         `json:"daysDeducted,omitempty"` // 审批时实际扣减的天数，撤回按此返还
	OvertimeUsage   []OvertimeUsage `json:"overtimeUsage,omitempty"`
	IsJustified     *bool           `json:"isJustified,omitempty"`
	ReportedToAdmin bool            `json:"reportedToAdmin,omitempty"`
}

// HoursValue 未填写时视为 0
func (r LeaveRequest) HoursValue() float64 {
	if r.Hours == nil {
		return 0
	}
	return *r.Hours
}

// Remaining 加班记录剩余可用小时，不小于 0
func (r LeaveRequest) Remaining() float64 {
	rem := r.HoursValue() - r.ConsumedHours
	if rem < 0 {
		return 0
	}
	return rem
}

// LastDate 结束日期，未填写时为开始日期
func (r LeaveRequest) LastDate() string {
	if r.EndDate == "" {
		return r.StartDate
	}
	return r.EndDate
}

// Notification 站内通知
type Notification struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Message string    `json:"message"`
	Read    bool      `json:"read"`
	Date    time.Time `json:"date"`
}

// FixedRange 固定可选日期区间
type FixedRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Label     string `json:"label,omitempty"`
}

// LeaveTypeConfig 假期类型
type LeaveTypeConfig struct {
	ID            string       `json:"id"`
	Label         string       `json:"label"`
	SubtractsDays bool         `json:"subtractsDays"`
	FixedRanges   []FixedRange `json:"fixedRanges,omitempty"`
}

// ShiftSegment 班次时间段，HH:MM
type ShiftSegment struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ShiftType 班次类型
type ShiftType struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Color    string         `json:"color"`
	Segments []ShiftSegment `json:"segments"`
}

// ShiftAssignment 某员工某日的班次
type ShiftAssignment struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Date        string `json:"date"`
	ShiftTypeID string `json:"shiftTypeId"`
}

// Holiday 节假日
type Holiday struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

// PPEType 防护用品类型
type PPEType struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Sizes []string `json:"sizes"`
}

// PPERequest 防护用品申领
type PPERequest struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	TypeID       string     `json:"typeId"`
	Size         string     `json:"size"`
	Status       PPEStatus  `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
}

// NewsPost 公告
type NewsPost struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	AuthorID  string     `json:"authorId"`
	CreatedAt time.Time  `json:"createdAt"`
	PublishAt *time.Time `json:"publishAt,omitempty"`
	Pinned    bool       `json:"pinned,omitempty"`
	Announced bool       `json:"-"`
}

// Published 在 now 时刻是否已发布
func (n NewsPost) Published(now time.Time) bool {
	return n.PublishAt == nil || !n.PublishAt.After(now)
}

// TemplateRecipients 模板收件人类别
type TemplateRecipients struct {
	Worker     bool `json:"worker"`
	Supervisor bool `json:"supervisor"`
	Admin      bool `json:"admin"`
}

// Any 至少选择了一类收件人
func (r TemplateRecipients) Any() bool {
	return r.Worker || r.Supervisor || r.Admin
}

// EmailTemplate 邮件模板，正文可包含占位符
type EmailTemplate struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Subject    string             `json:"subject"`
	Body       string             `json:"body"`
	Recipients TemplateRecipients `json:"recipients"`
}

// SmtpSettings SMTP 配置
type SmtpSettings struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Enabled  bool   `json:"enabled"`
}
