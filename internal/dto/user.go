package dto

// ── 用户模块 DTO ──

// CreateUserRequest 管理员创建员工
type CreateUserRequest struct {
	Name          string  `json:"name"          binding:"required,max=100"`
	Email         string  `json:"email"         binding:"required,email"`
	Password      string  `json:"password"      binding:"required,min=6,max=72"`
	Role          string  `json:"role"          binding:"omitempty,oneof=WORKER SUPERVISOR ADMIN"`
	DepartmentID  string  `json:"departmentId"`
	DaysAvailable float64 `json:"daysAvailable"`
	OvertimeHours float64 `json:"overtimeHours"`
	Birthdate     string  `json:"birthdate"     binding:"omitempty,datetime=2006-01-02"`
}

// UpdateUserRequest 管理员编辑员工，未提供的字段保持不变
type UpdateUserRequest struct {
	Name          *string  `json:"name"          binding:"omitempty,max=100"`
	Email         *string  `json:"email"         binding:"omitempty,email"`
	Role          *string  `json:"role"          binding:"omitempty,oneof=WORKER SUPERVISOR ADMIN"`
	DepartmentID  *string  `json:"departmentId"`
	DaysAvailable *float64 `json:"daysAvailable"`
	OvertimeHours *float64 `json:"overtimeHours"`
	Birthdate     *string  `json:"birthdate"`
}

// UpdateProfileRequest 员工修改本人资料
type UpdateProfileRequest struct {
	Name      *string `json:"name"      binding:"omitempty,max=100"`
	Birthdate *string `json:"birthdate"`
}

// AvatarRequest 上传头像（data URI）
type AvatarRequest struct {
	Image string `json:"image" binding:"required"`
}

// AdjustBalanceRequest 管理员手动调整余额
type AdjustBalanceRequest struct {
	Kind   string  `json:"kind"   binding:"required,oneof=days hours"`
	Delta  float64 `json:"delta"  binding:"required"`
	Reason string  `json:"reason" binding:"max=500"`
}
