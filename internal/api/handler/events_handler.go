package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
)

// EventsHandler 以 SSE 推送缓存变更信号
type EventsHandler struct {
	store     *store.Store
	logger    *zap.Logger
	heartbeat time.Duration
}

// NewEventsHandler 创建 EventsHandler
func NewEventsHandler(st *store.Store, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{store: st, logger: logger, heartbeat: 25 * time.Second}
}

// Stream 推送与当前用户相关的变更；浏览器收到后重新拉取对应数据
// GET /api/v1/events
func (h *EventsHandler) Stream(c *gin.Context) {
	me, ok := MustGetUser(c)
	if !ok {
		return
	}

	events, cancel := h.store.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// 长连接不受服务器 WriteTimeout 限制
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("无法取消写超时", zap.Error(err))
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	h.logger.Debug("SSE 连接建立", zap.String("user_id", me.ID))
	c.SSEvent("ready", gin.H{"userId": me.ID})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, open := <-events:
			if !open {
				return false
			}
			if h.relevant(me, ev) {
				c.SSEvent(string(ev.Entity), ev)
			}
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})

	h.logger.Debug("SSE 连接关闭", zap.String("user_id", me.ID))
}

// relevant 事件是否推送给该用户：全员事件、本人事件，或有审批权的员工事件
func (h *EventsHandler) relevant(me domain.User, ev store.Event) bool {
	if ev.UserID == "" || ev.UserID == me.ID || me.Role == domain.RoleAdmin {
		return true
	}
	return h.store.CanManage(me.ID, ev.UserID)
}
