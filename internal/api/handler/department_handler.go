package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// DepartmentHandler 部门模块 HTTP 处理器
type DepartmentHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(st *store.Store, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{store: st, logger: logger}
}

// ListDepartments 获取部门列表
// GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	response.OK(c, gin.H{"list": h.store.Departments()})
}

// ListManaged 当前用户担任主管的部门
// GET /api/v1/departments/managed
func (h *DepartmentHandler) ListManaged(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list := h.store.ManagedDepartments(userID)
	if list == nil {
		list = []domain.Department{}
	}
	response.OK(c, gin.H{"list": list})
}

// GetDepartment 获取部门详情
// GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	dept, ok := h.store.Department(c.Param("id"))
	if !ok {
		handleStoreError(c, h.logger, moduleDepartment, store.ErrNotFound)
		return
	}

	response.OK(c, dept)
}

// CreateDepartment 创建部门
// POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req dto.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	dept, err := h.store.CreateDepartment(c.Request.Context(), req.Name, req.SupervisorIDs)
	if err != nil {
		handleStoreError(c, h.logger, moduleDepartment, err)
		return
	}

	response.Created(c, dept)
}

// UpdateDepartment 更新部门名称与主管
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	var req dto.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	dept, err := h.store.UpdateDepartment(c.Request.Context(), c.Param("id"), req.Name, req.SupervisorIDs)
	if err != nil {
		handleStoreError(c, h.logger, moduleDepartment, err)
		return
	}

	response.OK(c, dept)
}

// DeleteDepartment 删除部门
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	if err := h.store.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		handleStoreError(c, h.logger, moduleDepartment, err)
		return
	}

	response.OK(c, nil)
}

// GetMembers 获取部门成员列表（管理员或该部门主管）
// GET /api/v1/departments/:id/members
func (h *DepartmentHandler) GetMembers(c *gin.Context) {
	me, ok := MustGetUser(c)
	if !ok {
		return
	}

	dept, found := h.store.Department(c.Param("id"))
	if !found {
		handleStoreError(c, h.logger, moduleDepartment, store.ErrNotFound)
		return
	}
	if me.Role != domain.RoleAdmin && !dept.HasSupervisor(me.ID) {
		response.Forbidden(c, CodeForbidden, "No tienes permiso para esta acción")
		return
	}

	members := h.store.UsersInDepartment(dept.ID)
	if members == nil {
		members = []domain.User{}
	}
	response.OK(c, gin.H{"list": members})
}
