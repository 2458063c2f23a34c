package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// ShiftHandler 班次类型与排班
type ShiftHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(st *store.Store, logger *zap.Logger) *ShiftHandler {
	return &ShiftHandler{store: st, logger: logger}
}

// ListShiftTypes GET /api/v1/shift-types
func (h *ShiftHandler) ListShiftTypes(c *gin.Context) {
	response.OK(c, gin.H{"list": h.store.ShiftTypes()})
}

// CreateShiftType POST /api/v1/shift-types
func (h *ShiftHandler) CreateShiftType(c *gin.Context) {
	var req dto.ShiftTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	st, err := h.store.CreateShiftType(c.Request.Context(), domain.ShiftType{
		Name:     req.Name,
		Color:    req.Color,
		Segments: req.Segments,
	})
	if err != nil {
		handleStoreError(c, h.logger, moduleCatalog, err)
		return
	}

	response.Created(c, st)
}

// UpdateShiftType PUT /api/v1/shift-types/:id
func (h *ShiftHandler) UpdateShiftType(c *gin.Context) {
	var req dto.ShiftTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	st, err := h.store.UpdateShiftType(c.Request.Context(), domain.ShiftType{
		ID:       c.Param("id"),
		Name:     req.Name,
		Color:    req.Color,
		Segments: req.Segments,
	})
	if err != nil {
		handleStoreError(c, h.logger, moduleCatalog, err)
		return
	}

	response.OK(c, st)
}

// DeleteShiftType DELETE /api/v1/shift-types/:id
func (h *ShiftHandler) DeleteShiftType(c *gin.Context) {
	if err := h.store.DeleteShiftType(c.Request.Context(), c.Param("id")); err != nil {
		handleStoreError(c, h.logger, moduleCatalog, err)
		return
	}

	response.OK(c, nil)
}

// ListAssignments 区间内排班
// GET /api/v1/shifts?from=&to=
func (h *ShiftHandler) ListAssignments(c *gin.Context) {
	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	if q.To < q.From {
		response.BadRequest(c, moduleCatalog+2, "La fecha final es anterior a la inicial")
		return
	}

	list := h.store.ShiftAssignments(q.From, q.To)
	if list == nil {
		list = []domain.ShiftAssignment{}
	}
	response.OK(c, gin.H{"list": list})
}

// Assign 设置或清除某员工某日的班次（管理员或该员工的主管）
// PUT /api/v1/shifts
func (h *ShiftHandler) Assign(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if !h.store.CanManage(userID, req.UserID) {
		response.Forbidden(c, CodeForbidden, "No tienes permiso para esta acción")
		return
	}

	if err := h.store.AssignShift(c.Request.Context(), req.UserID, req.Date, req.ShiftTypeID); err != nil {
		handleStoreError(c, h.logger, moduleCatalog, err)
		return
	}

	a, assigned := h.store.ShiftForUserDate(req.UserID, req.Date)
	if !assigned {
		response.OK(c, nil)
		return
	}
	response.OK(c, a)
}
