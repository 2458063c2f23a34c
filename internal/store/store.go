// Package store 是门户的聚合缓存层：启动时加载全部表，提供同步读取与写穿透的变更操作，
// 并在每次变更后向订阅者广播。
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/repository"
)

// Options 行为开关
type Options struct {
	// AutoBalance 审批/撤销/删除时自动增减余额与加班消耗
	AutoBalance bool
	// ConflictDetection 启用同部门请假冲突检测
	ConflictDetection bool
	// Now 时间源，测试中可固定
	Now func() time.Time
}

// state 一次完整加载得到的缓存快照
type state struct {
	users         []domain.User
	departments   []domain.Department
	requests      []domain.LeaveRequest
	leaveTypes    []domain.LeaveTypeConfig
	shiftTypes    []domain.ShiftType
	shifts        []domain.ShiftAssignment
	holidays      []domain.Holiday
	ppeTypes      []domain.PPEType
	ppeRequests   []domain.PPERequest
	notifications []domain.Notification
	news          []domain.NewsPost
	smtp          domain.SmtpSettings
	templates     []domain.EmailTemplate
}

// Store 进程内唯一的缓存实例，由 main 创建并注入各消费者
type Store struct {
	repo   *repository.Repository
	logger *zap.Logger
	opts   Options
	now    func() time.Time

	// writeMu 串行化所有变更，保证"读缓存→写后端→回写缓存"不被交错
	writeMu sync.Mutex

	mu     sync.RWMutex
	data   state
	loaded bool

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// New 创建 Store，调用 Init 之前所有 getter 返回空结果
func New(repo *repository.Repository, logger *zap.Logger, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		repo:   repo,
		logger: logger.Named("store"),
		opts:   opts,
		now:    now,
		subs:   make(map[int]chan Event),
	}
}

// Options 返回当前开关
func (s *Store) Options() Options {
	return s.opts
}

// Init 首次全量加载，失败时调用方应终止启动
func (s *Store) Init(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = st
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("缓存加载完成",
		zap.Int("users", len(st.users)),
		zap.Int("requests", len(st.requests)),
		zap.Int("shifts", len(st.shifts)),
	)
	return nil
}

// Refresh 重新全量加载并广播 refreshed；失败时保留旧缓存
func (s *Store) Refresh(ctx context.Context) error {
	s.writeMu.Lock()
	st, err := s.load(ctx)
	if err != nil {
		s.writeMu.Unlock()
		s.logger.Warn("缓存刷新失败，继续使用旧数据", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.data = st
	s.loaded = true
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.notify(EntityAll, ActionRefreshed, "", "")
	return nil
}

// Loaded 是否已完成首次加载
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) load(ctx context.Context) (state, error) {
	var st state
	m := mapper{logger: s.logger}

	users, err := s.repo.User.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 users 失败: %w", err)
	}
	for _, row := range users {
		st.users = append(st.users, m.user(row))
	}

	depts, err := s.repo.Department.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 departments 失败: %w", err)
	}
	for _, row := range depts {
		st.departments = append(st.departments, m.department(row))
	}

	reqs, err := s.repo.Request.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 requests 失败: %w", err)
	}
	for _, row := range reqs {
		st.requests = append(st.requests, m.request(row))
	}

	lts, err := s.repo.LeaveType.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 leave_types 失败: %w", err)
	}
	for _, row := range lts {
		st.leaveTypes = append(st.leaveTypes, m.leaveType(row))
	}

	sts, err := s.repo.ShiftType.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 shift_types 失败: %w", err)
	}
	for _, row := range sts {
		st.shiftTypes = append(st.shiftTypes, m.shiftType(row))
	}

	shifts, err := s.repo.ShiftAssignment.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 shift_assignments 失败: %w", err)
	}
	for _, row := range shifts {
		st.shifts = append(st.shifts, m.shiftAssignment(row))
	}

	holidays, err := s.repo.Holiday.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 holidays 失败: %w", err)
	}
	for _, row := range holidays {
		st.holidays = append(st.holidays, m.holiday(row))
	}

	ppeTypes, err := s.repo.PPEType.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 ppe_types 失败: %w", err)
	}
	for _, row := range ppeTypes {
		st.ppeTypes = append(st.ppeTypes, m.ppeType(row))
	}

	ppeReqs, err := s.repo.PPERequest.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 ppe_requests 失败: %w", err)
	}
	for _, row := range ppeReqs {
		st.ppeRequests = append(st.ppeRequests, m.ppeRequest(row))
	}

	notifs, err := s.repo.Notification.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 notifications 失败: %w", err)
	}
	for _, row := range notifs {
		st.notifications = append(st.notifications, m.notification(row))
	}

	news, err := s.repo.News.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 news 失败: %w", err)
	}
	for _, row := range news {
		st.news = append(st.news, m.news(row))
	}

	settings, err := s.repo.Setting.ListAll(ctx)
	if err != nil {
		return st, fmt.Errorf("加载 settings 失败: %w", err)
	}
	st.smtp, st.templates = m.settings(settings)

	return st, nil
}

// writeFailed 记录并包装后端写入错误
func (s *Store) writeFailed(op string, entity Entity, err error) error {
	s.logger.Error("后端写入失败",
		zap.String("op", op),
		zap.String("entity", string(entity)),
		zap.Error(err),
	)
	return &WriteError{Op: op, Entity: entity, Err: err}
}

// ── Snapshot ──

// Stats 缓存概况
type Stats struct {
	Users            int `json:"users"`
	Departments      int `json:"departments"`
	Requests         int `json:"requests"`
	PendingRequests  int `json:"pendingRequests"`
	PendingPPE       int `json:"pendingPpe"`
	ShiftAssignments int `json:"shiftAssignments"`
	Notifications    int `json:"notifications"`
	Subscribers      int `json:"subscribers"`
}

// Snapshot 返回各集合数量
func (s *Store) Snapshot() Stats {
	s.mu.RLock()
	st := Stats{
		Users:            len(s.data.users),
		Departments:      len(s.data.departments),
		Requests:         len(s.data.requests),
		ShiftAssignments: len(s.data.shifts),
		Notifications:    len(s.data.notifications),
	}
	for _, r := range s.data.requests {
		if r.Status == domain.StatusPending {
			st.PendingRequests++
		}
	}
	for _, p := range s.data.ppeRequests {
		if p.Status == domain.PPEPending {
			st.PendingPPE++
		}
	}
	s.mu.RUnlock()

	st.Subscribers = s.SubscriberCount()
	return st
}
