package store

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// NotificationsForUser 某员工的通知，最新在前
func (s *Store) NotificationsForUser(userID string) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notificationsLocked(userID)
}

func (s *Store) notificationsLocked(userID string) []domain.Notification {
	out := []domain.Notification{}
	for _, n := range s.data.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// UnreadCount 未读通知数
func (s *Store) UnreadCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, x := range s.data.notifications {
		if x.UserID == userID && !x.Read {
			n++
		}
	}
	return n
}

// CreateNotification 给单个员工发送站内通知
func (s *Store) CreateNotification(ctx context.Context, userID, message string) (domain.Notification, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	message = strings.TrimSpace(message)
	if message == "" {
		return domain.Notification{}, invalid("el mensaje no puede estar vacío")
	}
	if _, ok := s.User(userID); !ok {
		return domain.Notification{}, ErrNotFound
	}

	n := domain.Notification{ID: uuid.NewString(), UserID: userID, Message: message, Date: s.now()}
	row := notificationRow(n)
	if err := s.repo.Notification.Create(ctx, &row); err != nil {
		return domain.Notification{}, s.writeFailed("CreateNotification", EntityNotification, err)
	}

	s.mu.Lock()
	s.data.notifications = append(s.data.notifications, n)
	s.mu.Unlock()

	s.notify(EntityNotification, ActionCreated, n.ID, userID)
	return n, nil
}

// BroadcastNotification 群发站内通知；userIDs 为空时视为无收件人。
// 未知的用户 ID 被忽略，返回实际创建的通知
func (s *Store) BroadcastNotification(ctx context.Context, userIDs []string, message string) ([]domain.Notification, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, invalid("el mensaje no puede estar vacío")
	}

	now := s.now()
	var list []domain.Notification
	s.mu.RLock()
	for _, id := range dedupe(userIDs) {
		if _, ok := s.userLocked(id); !ok {
			continue
		}
		list = append(list, domain.Notification{ID: uuid.NewString(), UserID: id, Message: message, Date: now})
	}
	s.mu.RUnlock()
	if len(list) == 0 {
		return nil, invalid("selecciona al menos un destinatario")
	}

	rows := make([]model.Notification, 0, len(list))
	for _, n := range list {
		rows = append(rows, notificationRow(n))
	}
	if err := s.repo.Notification.CreateBatch(ctx, rows); err != nil {
		return nil, s.writeFailed("BroadcastNotification", EntityNotification, err)
	}

	s.mu.Lock()
	s.data.notifications = append(s.data.notifications, list...)
	s.mu.Unlock()

	s.logger.Info("群发通知完成", zap.Int("recipients", len(list)))
	for _, n := range list {
		s.notify(EntityNotification, ActionCreated, n.ID, n.UserID)
	}
	return list, nil
}

// MarkNotificationRead 标记单条已读，仅限本人
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.ownNotification(userID, id)
	if err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	if err := s.repo.Notification.MarkRead(ctx, id); err != nil {
		return s.writeFailed("MarkNotificationRead", EntityNotification, err)
	}

	s.mu.Lock()
	for i := range s.data.notifications {
		if s.data.notifications[i].ID == id {
			s.data.notifications[i].Read = true
		}
	}
	s.mu.Unlock()

	s.notify(EntityNotification, ActionUpdated, id, userID)
	return nil
}

// MarkAllNotificationsRead 本人全部通知标记已读
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.UnreadCount(userID) == 0 {
		return nil
	}
	if err := s.repo.Notification.MarkAllRead(ctx, userID); err != nil {
		return s.writeFailed("MarkAllNotificationsRead", EntityNotification, err)
	}

	s.mu.Lock()
	for i := range s.data.notifications {
		if s.data.notifications[i].UserID == userID {
			s.data.notifications[i].Read = true
		}
	}
	s.mu.Unlock()

	s.notify(EntityNotification, ActionUpdated, "", userID)
	return nil
}

// DeleteNotification 删除本人的通知
func (s *Store) DeleteNotification(ctx context.Context, userID, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.ownNotification(userID, id); err != nil {
		return err
	}
	if err := s.repo.Notification.Delete(ctx, id); err != nil {
		return s.writeFailed("DeleteNotification", EntityNotification, err)
	}

	s.mu.Lock()
	s.data.notifications = removeWhere(s.data.notifications, func(n domain.Notification) bool { return n.ID == id })
	s.mu.Unlock()

	s.notify(EntityNotification, ActionDeleted, id, userID)
	return nil
}

func (s *Store) ownNotification(userID, id string) (domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.data.notifications {
		if n.ID == id {
			if n.UserID != userID {
				return domain.Notification{}, ErrForbidden
			}
			return n, nil
		}
	}
	return domain.Notification{}, ErrNotFound
}

func notificationRow(n domain.Notification) model.Notification {
	return model.Notification{ID: n.ID, UserID: n.UserID, Message: n.Message, Read: n.Read, Date: n.Date}
}
