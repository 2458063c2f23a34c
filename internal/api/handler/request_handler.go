package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/service"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// defaultUpcomingDays 未来缺勤默认查看天数
const defaultUpcomingDays = 30

// RequestHandler 申请模块 HTTP 处理器（请假、加班、缺勤、调整）
type RequestHandler struct {
	store     *store.Store
	notifySvc service.NotifyService
	logger    *zap.Logger
	now       func() time.Time
}

// NewRequestHandler 创建 RequestHandler
func NewRequestHandler(st *store.Store, notifySvc service.NotifyService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{store: st, notifySvc: notifySvc, logger: logger, now: time.Now}
}

// ListRequests 按条件列出申请
// GET /api/v1/requests
//
// 可见范围：员工只看本人；主管看本人与所管部门成员；管理员看全部。
func (h *RequestHandler) ListRequests(c *gin.Context) {
	me, ok := MustGetUser(c)
	if !ok {
		return
	}

	var q dto.RequestListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	f := store.RequestFilter{
		UserID:       q.UserID,
		DepartmentID: q.DepartmentID,
		TypeID:       q.TypeID,
		Status:       domain.RequestStatus(q.Status),
		Year:         q.Year,
		OvertimeOnly: q.Overtime,
	}
	if me.Role == domain.RoleWorker {
		f.UserID = me.ID
	}
	if f.UserID != "" && f.UserID != me.ID && !h.store.CanManage(me.ID, f.UserID) {
		response.Forbidden(c, CodeForbidden, "No tienes permiso para esta acción")
		return
	}

	list := h.store.Requests(f)
	if me.Role == domain.RoleSupervisor && f.UserID == "" {
		visible := make([]domain.LeaveRequest, 0, len(list))
		for _, r := range list {
			if r.UserID == me.ID || h.store.CanManage(me.ID, r.UserID) {
				visible = append(visible, r)
			}
		}
		list = visible
	}
	if list == nil {
		list = []domain.LeaveRequest{}
	}

	response.OK(c, gin.H{"list": list})
}

// MyRequests 本人的申请
// GET /api/v1/requests/mine
func (h *RequestHandler) MyRequests(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, found := h.store.Session(userID)
	if !found {
		response.Unauthorized(c, CodeUnauthorized, "No autenticado")
		return
	}
	list := session.MyRequests()
	if list == nil {
		list = []domain.LeaveRequest{}
	}

	response.OK(c, gin.H{"list": list})
}

// PendingApprovals 待当前用户审批的申请
// GET /api/v1/requests/pending
func (h *RequestHandler) PendingApprovals(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list := h.store.PendingApprovalsForUser(userID)
	if list == nil {
		list = []domain.LeaveRequest{}
	}
	response.OK(c, gin.H{"list": list})
}

// Upcoming 未来已批准的缺勤（本人及有审批权的员工）
// GET /api/v1/requests/upcoming?from=&days=
func (h *RequestHandler) Upcoming(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var q dto.UpcomingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	if q.From == "" {
		q.From = domain.FormatDate(h.now())
	}
	if q.Days == 0 {
		q.Days = defaultUpcomingDays
	}

	list, err := h.store.UpcomingAbsences(userID, q.From, q.Days)
	if err != nil {
		handleStoreError(c, h.logger, moduleRequest, err)
		return
	}
	if list == nil {
		list = []domain.LeaveRequest{}
	}

	response.OK(c, gin.H{"list": list})
}

// OvertimeRecords 可用于消耗的加班记录
// GET /api/v1/requests/overtime?userId=
func (h *RequestHandler) OvertimeRecords(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	target := c.DefaultQuery("userId", userID)
	if target != userID && !h.store.CanManage(userID, target) {
		response.Forbidden(c, CodeForbidden, "No tienes permiso para esta acción")
		return
	}

	list := h.store.AvailableOvertimeRecords(target)
	if list == nil {
		list = []domain.LeaveRequest{}
	}
	response.OK(c, gin.H{"list": list})
}

// GetRequest 申请详情
// GET /api/v1/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	r, ok := h.visibleRequest(c)
	if !ok {
		return
	}

	response.OK(c, r)
}

// Trace 加班追溯
// GET /api/v1/requests/:id/trace
func (h *RequestHandler) Trace(c *gin.Context) {
	r, ok := h.visibleRequest(c)
	if !ok {
		return
	}

	trace, err := h.store.OvertimeTrace(r.ID)
	if err != nil {
		handleStoreError(c, h.logger, moduleRequest, err)
		return
	}

	response.OK(c, trace)
}

// Conflicts 同部门日期重叠的申请
// GET /api/v1/requests/:id/conflicts
func (h *RequestHandler) Conflicts(c *gin.Context) {
	r, ok := h.visibleRequest(c)
	if !ok {
		return
	}

	conflicts := h.store.RequestConflicts(r)
	if conflicts == nil {
		conflicts = []domain.LeaveRequest{}
	}
	response.OK(c, dto.ConflictsResponse{
		Enabled:   h.store.Options().ConflictDetection,
		Conflicts: conflicts,
	})
}

// CreateRequest 新建申请
// POST /api/v1/requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	r, err := h.store.CreateRequest(c.Request.Context(), userID, store.NewRequest{
		UserID:        req.UserID,
		TypeID:        req.TypeID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Hours:         req.Hours,
		Reason:        req.Reason,
		Status:        domain.RequestStatus(req.Status),
		OvertimeUsage: req.OvertimeUsage,
	})
	if err != nil {
		handleStoreError(c, h.logger, moduleRequest, err)
		return
	}

	h.notifySvc.OnRequestCreated(c.Request.Context(), userID, r)
	response.Created(c, r)
}

// UpdateRequest 编辑申请
// PUT /api/v1/requests/:id
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	r, err := h.store.UpdateRequest(c.Request.Context(), userID, c.Param("id"), store.RequestPatch{
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Hours:         req.Hours,
		Reason:        req.Reason,
		OvertimeUsage: req.OvertimeUsage,
	})
	if err != nil {
		handleStoreError(c, h.logger, moduleRequest, err)
		return
	}

	response.OK(c, r)
}

// UpdateStatus 审批 / 驳回 / 撤销
// PUT /api/v1/requests/:id/status
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	r, err := h.store.UpdateRequestStatus(c.Request.Context(), userID, c.Param("id"), domain.RequestStatus(req.Status), req.Comment)
	if err != nil {
		handleStoreError(c, h.logger, moduleRequest, err)
		return
	}

	h.notifySvc.OnRequestStatusChanged(c.Request.Context(), userID, r)
	response.OK(c, r)
}

// DeleteRequest 删除申请
// DELETE /api/v1/requests/:id
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteRequest(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleStoreError(c, h.logger, moduleRequest, err)
		return
	}

	response.OK(c, nil)
}

// ReportAbsence 登记未证明缺勤
// POST /api/v1/requests/absences
func (h *RequestHandler) ReportAbsence(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReportAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	r, err := h.store.ReportAbsence(c.Request.Context(), userID, req.UserID, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		handleStoreError(c, h.logger, moduleRequest, err)
		return
	}

	h.notifySvc.OnRequestCreated(c.Request.Context(), userID, r)
	response.Created(c, r)
}

// Justify 标记缺勤已证明 / 未证明
// PUT /api/v1/requests/:id/justify
func (h *RequestHandler) Justify(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.JustifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	r, err := h.store.SetJustified(c.Request.Context(), userID, c.Param("id"), req.Justified)
	if err != nil {
		handleStoreError(c, h.logger, moduleRequest, err)
		return
	}

	response.OK(c, r)
}

// visibleRequest 读取 :id 对应申请，并校验本人或审批权
func (h *RequestHandler) visibleRequest(c *gin.Context) (domain.LeaveRequest, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return domain.LeaveRequest{}, false
	}

	r, found := h.store.Request(c.Param("id"))
	if !found {
		handleStoreError(c, h.logger, moduleRequest, store.ErrNotFound)
		return domain.LeaveRequest{}, false
	}
	if r.UserID != userID && !h.store.CanManage(userID, r.UserID) {
		response.Forbidden(c, CodeForbidden, "No tienes permiso para esta acción")
		return domain.LeaveRequest{}, false
	}
	return r, true
}
