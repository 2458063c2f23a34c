package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/service"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// NotificationHandler 站内通知与群发
type NotificationHandler struct {
	store     *store.Store
	notifySvc service.NotifyService
	logger    *zap.Logger
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(st *store.Store, notifySvc service.NotifyService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{store: st, notifySvc: notifySvc, logger: logger}
}

// List 本人的通知
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list := h.store.NotificationsForUser(userID)
	if list == nil {
		list = []domain.Notification{}
	}
	response.OK(c, gin.H{"list": list})
}

// Unread 未读数量
// GET /api/v1/notifications/unread
func (h *NotificationHandler) Unread(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	response.OK(c, dto.UnreadResponse{Unread: h.store.UnreadCount(userID)})
}

// MarkRead PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.store.MarkNotificationRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleStoreError(c, h.logger, moduleNotification, err)
		return
	}

	response.OK(c, nil)
}

// MarkAllRead PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.store.MarkAllNotificationsRead(c.Request.Context(), userID); err != nil {
		handleStoreError(c, h.logger, moduleNotification, err)
		return
	}

	response.OK(c, nil)
}

// Delete DELETE /api/v1/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteNotification(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleStoreError(c, h.logger, moduleNotification, err)
		return
	}

	response.OK(c, nil)
}

// Broadcast 管理员群发消息，可选同时发送邮件
// POST /api/v1/notifications/broadcast
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.notifySvc.Broadcast(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoRecipients) {
			response.BadRequest(c, moduleNotification+5, "Selecciona al menos un destinatario")
			return
		}
		handleStoreError(c, h.logger, moduleNotification, err)
		return
	}

	response.OK(c, result)
}
