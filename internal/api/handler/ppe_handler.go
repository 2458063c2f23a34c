package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// PPEHandler 防护用品类型与申领
type PPEHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewPPEHandler 创建 PPEHandler
func NewPPEHandler(st *store.Store, logger *zap.Logger) *PPEHandler {
	return &PPEHandler{store: st, logger: logger}
}

// ── 类型 ──

// ListTypes GET /api/v1/ppe/types
func (h *PPEHandler) ListTypes(c *gin.Context) {
	response.OK(c, gin.H{"list": h.store.PPETypes()})
}

// CreateType POST /api/v1/ppe/types
func (h *PPEHandler) CreateType(c *gin.Context) {
	var req dto.PPETypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	t, err := h.store.CreatePPEType(c.Request.Context(), req.Name, req.Sizes)
	if err != nil {
		handleStoreError(c, h.logger, modulePPE, err)
		return
	}

	response.Created(c, t)
}

// UpdateType PUT /api/v1/ppe/types/:id
func (h *PPEHandler) UpdateType(c *gin.Context) {
	var req dto.PPETypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	t, err := h.store.UpdatePPEType(c.Request.Context(), c.Param("id"), req.Name, req.Sizes)
	if err != nil {
		handleStoreError(c, h.logger, modulePPE, err)
		return
	}

	response.OK(c, t)
}

// DeleteType DELETE /api/v1/ppe/types/:id
func (h *PPEHandler) DeleteType(c *gin.Context) {
	if err := h.store.DeletePPEType(c.Request.Context(), c.Param("id")); err != nil {
		handleStoreError(c, h.logger, modulePPE, err)
		return
	}

	response.OK(c, nil)
}

// ── 申领 ──

// ListRequests 申领列表：管理员看全部（可按 userId 过滤），其他人只看本人
// GET /api/v1/ppe/requests
func (h *PPEHandler) ListRequests(c *gin.Context) {
	me, ok := MustGetUser(c)
	if !ok {
		return
	}

	target := me.ID
	if me.Role == domain.RoleAdmin {
		target = c.Query("userId")
	}

	list := h.store.PPERequests(target)
	if list == nil {
		list = []domain.PPERequest{}
	}
	response.OK(c, gin.H{"list": list})
}

// CreateRequest 员工申领
// POST /api/v1/ppe/requests
func (h *PPEHandler) CreateRequest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PPECreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	p, err := h.store.CreatePPERequest(c.Request.Context(), userID, req.TypeID, req.Size)
	if err != nil {
		handleStoreError(c, h.logger, modulePPE, err)
		return
	}

	response.Created(c, p)
}

// Deliver 标记已发放，不可撤回
// PUT /api/v1/ppe/requests/:id/deliver
func (h *PPEHandler) Deliver(c *gin.Context) {
	p, err := h.store.DeliverPPE(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleStoreError(c, h.logger, modulePPE, err)
		return
	}

	response.OK(c, p)
}

// DeleteRequest 删除申领（本人仅限未发放）
// DELETE /api/v1/ppe/requests/:id
func (h *PPEHandler) DeleteRequest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.store.DeletePPERequest(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleStoreError(c, h.logger, modulePPE, err)
		return
	}

	response.OK(c, nil)
}
