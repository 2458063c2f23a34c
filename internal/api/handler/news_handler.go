package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// NewsHandler 公告
type NewsHandler struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewNewsHandler 创建 NewsHandler
func NewNewsHandler(st *store.Store, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{store: st, logger: logger, now: time.Now}
}

// List 公告列表：管理员看全部（含定时未发布），其他人只看已发布
// GET /api/v1/news
func (h *NewsHandler) List(c *gin.Context) {
	me, ok := MustGetUser(c)
	if !ok {
		return
	}

	var list []domain.NewsPost
	if me.Role == domain.RoleAdmin {
		list = h.store.AllNews()
	} else {
		list = h.store.News(h.now())
	}
	if list == nil {
		list = []domain.NewsPost{}
	}
	response.OK(c, gin.H{"list": list})
}

// Get GET /api/v1/news/:id
func (h *NewsHandler) Get(c *gin.Context) {
	me, ok := MustGetUser(c)
	if !ok {
		return
	}

	post, found := h.store.NewsPost(c.Param("id"))
	if !found || (me.Role != domain.RoleAdmin && !post.Published(h.now())) {
		handleStoreError(c, h.logger, moduleNotification, store.ErrNotFound)
		return
	}

	response.OK(c, post)
}

// Create POST /api/v1/news
func (h *NewsHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	post, err := h.store.CreateNews(c.Request.Context(), userID, newsInput(&req))
	if err != nil {
		handleStoreError(c, h.logger, moduleNotification, err)
		return
	}

	response.Created(c, post)
}

// Update PUT /api/v1/news/:id
func (h *NewsHandler) Update(c *gin.Context) {
	var req dto.NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	post, err := h.store.UpdateNews(c.Request.Context(), c.Param("id"), newsInput(&req))
	if err != nil {
		handleStoreError(c, h.logger, moduleNotification, err)
		return
	}

	response.OK(c, post)
}

// Delete DELETE /api/v1/news/:id
func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteNews(c.Request.Context(), c.Param("id")); err != nil {
		handleStoreError(c, h.logger, moduleNotification, err)
		return
	}

	response.OK(c, nil)
}

func newsInput(req *dto.NewsRequest) store.NewsInput {
	return store.NewsInput{
		Title:     req.Title,
		Content:   req.Content,
		PublishAt: req.PublishAt,
		Pinned:    req.Pinned,
	}
}
