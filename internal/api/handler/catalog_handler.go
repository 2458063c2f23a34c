package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// CatalogHandler 假期类型与节假日
type CatalogHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(st *store.Store, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{store: st, logger: logger}
}

// ── 假期类型 ──

// ListLeaveTypes GET /api/v1/leave-types
func (h *CatalogHandler) ListLeaveTypes(c *gin.Context) {
	response.OK(c, gin.H{"list": h.store.LeaveTypes()})
}

// CreateLeaveType POST /api/v1/leave-types
func (h *CatalogHandler) CreateLeaveType(c *gin.Context) {
	var req dto.LeaveTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	lt, err := h.store.CreateLeaveType(c.Request.Context(), domain.LeaveTypeConfig{
		Label:         req.Label,
		SubtractsDays: req.SubtractsDays,
		FixedRanges:   req.FixedRanges,
	})
	if err != nil {
		handleStoreError(c, h.logger, moduleCatalog, err)
		return
	}

	response.Created(c, lt)
}

// UpdateLeaveType PUT /api/v1/leave-types/:id
func (h *CatalogHandler) UpdateLeaveType(c *gin.Context) {
	var req dto.LeaveTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	lt, err := h.store.UpdateLeaveType(c.Request.Context(), domain.LeaveTypeConfig{
		ID:            c.Param("id"),
		Label:         req.Label,
		SubtractsDays: req.SubtractsDays,
		FixedRanges:   req.FixedRanges,
	})
	if err != nil {
		handleStoreError(c, h.logger, moduleCatalog, err)
		return
	}

	response.OK(c, lt)
}

// DeleteLeaveType DELETE /api/v1/leave-types/:id
func (h *CatalogHandler) DeleteLeaveType(c *gin.Context) {
	if err := h.store.DeleteLeaveType(c.Request.Context(), c.Param("id")); err != nil {
		handleStoreError(c, h.logger, moduleCatalog, err)
		return
	}

	response.OK(c, nil)
}

// ── 节假日 ──

// ListHolidays GET /api/v1/holidays?year=
func (h *CatalogHandler) ListHolidays(c *gin.Context) {
	var q dto.YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list := h.store.Holidays(q.Year)
	if list == nil {
		list = []domain.Holiday{}
	}
	response.OK(c, gin.H{"list": list})
}

// CreateHoliday POST /api/v1/holidays
func (h *CatalogHandler) CreateHoliday(c *gin.Context) {
	var req dto.HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	holiday, err := h.store.CreateHoliday(c.Request.Context(), req.Date, req.Name)
	if err != nil {
		handleStoreError(c, h.logger, moduleCatalog, err)
		return
	}

	response.Created(c, holiday)
}

// DeleteHoliday DELETE /api/v1/holidays/:id
func (h *CatalogHandler) DeleteHoliday(c *gin.Context) {
	if err := h.store.DeleteHoliday(c.Request.Context(), c.Param("id")); err != nil {
		handleStoreError(c, h.logger, moduleCatalog, err)
		return
	}

	response.OK(c, nil)
}
