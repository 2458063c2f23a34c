package store

import (
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
)

// Session 以某个已登录员工为视角的只读视图
type Session struct {
	s      *Store
	userID string
}

// Session 返回 userID 视角的会话视图；用户不存在时返回 false
func (s *Store) Session(userID string) (*Session, bool) {
	if _, ok := s.User(userID); !ok {
		return nil, false
	}
	return &Session{s: s, userID: userID}, true
}

// UserID 会话用户 ID
func (v *Session) UserID() string {
	return v.userID
}

// User 最新的用户资料（余额、角色随缓存变化）
func (v *Session) User() (domain.User, bool) {
	return v.s.User(v.userID)
}

// MyRequests 本人的申请，createdAt 倒序
func (v *Session) MyRequests() []domain.LeaveRequest {
	return v.s.Requests(RequestFilter{UserID: v.userID})
}

// Notifications 本人的通知，最新在前
func (v *Session) Notifications() []domain.Notification {
	return v.s.NotificationsForUser(v.userID)
}

// PendingApprovals 待本人审批的申请
func (v *Session) PendingApprovals() []domain.LeaveRequest {
	return v.s.PendingApprovalsForUser(v.userID)
}

// Dashboard 首页汇总
type Dashboard struct {
	User             domain.User             `json:"user"`
	Unread           int                     `json:"unread"`
	PendingApprovals int                     `json:"pendingApprovals"`
	MyPending        int                     `json:"myPending"`
	NextShift        *domain.ShiftAssignment `json:"nextShift,omitempty"`
}

// Dashboard 汇总本人的余额、未读通知、待办与下一次排班
func (v *Session) Dashboard(today string) (Dashboard, bool) {
	u, ok := v.User()
	if !ok {
		return Dashboard{}, false
	}
	d := Dashboard{
		User:             u,
		Unread:           v.s.UnreadCount(v.userID),
		PendingApprovals: len(v.PendingApprovals()),
	}
	d.MyPending = len(v.s.Requests(RequestFilter{UserID: v.userID, Status: domain.StatusPending}))
	if a, ok := v.s.NextShift(v.userID, today); ok {
		d.NextShift = &a
	}
	return d, true
}
