package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// SystemHandler 健康检查与缓存概况
type SystemHandler struct {
	store *store.Store
}

// NewSystemHandler 创建 SystemHandler
func NewSystemHandler(st *store.Store) *SystemHandler {
	return &SystemHandler{store: st}
}

// Health 缓存未完成首次加载时返回 503
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:      "ok",
		Loaded:      h.store.Loaded(),
		Subscribers: h.store.SubscriberCount(),
	}
	if !resp.Loaded {
		resp.Status = "loading"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats 缓存各集合数量（管理员）
// GET /api/v1/stats
func (h *SystemHandler) Stats(c *gin.Context) {
	response.OK(c, h.store.Snapshot())
}
