package dto

// DepartmentRequest 创建或编辑部门
type DepartmentRequest struct {
	Name          string   `json:"name"          binding:"required,max=100"`
	SupervisorIDs []string `json:"supervisorIds"`
}
