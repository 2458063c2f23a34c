package store

import "time"

// Entity 被变更的实体类型
type Entity string

const (
	EntityUser            Entity = "users"
	EntityDepartment      Entity = "departments"
	EntityRequest         Entity = "requests"
	EntityLeaveType       Entity = "leave_types"
	EntityShiftType       Entity = "shift_types"
	EntityShiftAssignment Entity = "shift_assignments"
	EntityHoliday         Entity = "holidays"
	EntityPPEType         Entity = "ppe_types"
	EntityPPERequest      Entity = "ppe_requests"
	EntityNotification    Entity = "notifications"
	EntityNews            Entity = "news"
	EntitySettings        Entity = "settings"
	EntityAll             Entity = "*"
)

// Action 变更动作
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionDeleted   Action = "deleted"
	ActionRefreshed Action = "refreshed"
)

// Event 缓存变更信号。UserID 为受影响的员工，便于订阅方过滤；为空表示全员相关
type Event struct {
	Entity Entity    `json:"entity"`
	Action Action    `json:"action"`
	ID     string    `json:"id,omitempty"`
	UserID string    `json:"userId,omitempty"`
	At     time.Time `json:"at"`
}

const defaultSubscriberBuffer = 32

// Subscribe 注册订阅者，返回只读通道与取消函数。
// 通道满时丢弃信号：事件只表示"已变更"，订阅方应重新读取 getter。
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, defaultSubscriberBuffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var cancelled bool
	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if cancelled {
			return
		}
		cancelled = true
		delete(s.subs, id)
		close(ch)
	}
}

// SubscriberCount 当前订阅者数量
func (s *Store) SubscriberCount() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

func (s *Store) notify(entity Entity, action Action, id, userID string) {
	ev := Event{Entity: entity, Action: action, ID: id, UserID: userID, At: s.now()}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
