// Package storetest 提供基于内存 map 的 repository 替身，供 store 及其上层的单元测试共享。
package storetest

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/repository"
)

// ErrBackendDown 模拟后端不可用
var ErrBackendDown = errors.New("connection refused")

// FailSwitch 置 Err 后该替身的所有写操作失败
type FailSwitch struct {
	Err error
}

// ── UserRepository ──

type UserRepo struct {
	FailSwitch
	Rows map[string]*model.User
}

func (m *UserRepo) ListAll(_ context.Context) ([]model.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.User
	for _, u := range m.Rows {
		out = append(out, *u)
	}
	return out, nil
}

func (m *UserRepo) Create(_ context.Context, u *model.User) error {
	if m.Err != nil {
		return m.Err
	}
	for _, other := range m.Rows {
		if other.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *u
	m.Rows[u.ID] = &cp
	return nil
}

func (m *UserRepo) Update(_ context.Context, u *model.User) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *u
	m.Rows[u.ID] = &cp
	return nil
}

func (m *UserRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	if m.Err != nil {
		return m.Err
	}
	u, ok := m.Rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "days_available":
			u.DaysAvailable = v.(float64)
		case "overtime_hours":
			u.OvertimeHours = v.(float64)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "must_change_password":
			u.MustChangePassword = v.(bool)
		}
	}
	return nil
}

func (m *UserRepo) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, id)
	return nil
}

// ── DepartmentRepository ──

type DepartmentRepo struct {
	FailSwitch
	Rows map[string]*model.Department
}

func (m *DepartmentRepo) ListAll(_ context.Context) ([]model.Department, error) {
	var out []model.Department
	for _, d := range m.Rows {
		out = append(out, *d)
	}
	return out, nil
}

func (m *DepartmentRepo) Create(_ context.Context, d *model.Department) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *d
	m.Rows[d.ID] = &cp
	return nil
}

func (m *DepartmentRepo) Update(ctx context.Context, d *model.Department) error {
	return m.Create(ctx, d)
}

func (m *DepartmentRepo) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, id)
	return nil
}

// ── RequestRepository ──

type RequestRepo struct {
	FailSwitch
	Rows map[string]*model.Request
}

func (m *RequestRepo) ListAll(_ context.Context) ([]model.Request, error) {
	var out []model.Request
	for _, r := range m.Rows {
		out = append(out, *r)
	}
	return out, nil
}

func (m *RequestRepo) Create(_ context.Context, r *model.Request) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *r
	m.Rows[r.ID] = &cp
	return nil
}

func (m *RequestRepo) Update(ctx context.Context, r *model.Request) error {
	return m.Create(ctx, r)
}

func (m *RequestRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	if m.Err != nil {
		return m.Err
	}
	r, ok := m.Rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			r.Status = v.(string)
		case "admin_comment":
			r.AdminComment = v.(*string)
		case "consumed_hours":
			r.ConsumedHours = v.(float64)
		case "is_consumed":
			r.IsConsumed = v.(bool)
		case "days_deducted":
			r.DaysDeducted = v.(float64)
		case "is_justified":
			b := v.(bool)
			r.IsJustified = &b
		}
	}
	return nil
}

func (m *RequestRepo) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, id)
	return nil
}

// ── 目录类 Repository ──

type LeaveTypeRepo struct {
	FailSwitch
	Rows map[string]*model.LeaveType
}

func (m *LeaveTypeRepo) ListAll(_ context.Context) ([]model.LeaveType, error) {
	var out []model.LeaveType
	for _, t := range m.Rows {
		out = append(out, *t)
	}
	return out, nil
}

func (m *LeaveTypeRepo) Create(_ context.Context, t *model.LeaveType) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *t
	m.Rows[t.ID] = &cp
	return nil
}

func (m *LeaveTypeRepo) Update(ctx context.Context, t *model.LeaveType) error {
	return m.Create(ctx, t)
}

func (m *LeaveTypeRepo) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, id)
	return nil
}

type ShiftTypeRepo struct {
	FailSwitch
	Rows map[string]*model.ShiftType
}

func (m *ShiftTypeRepo) ListAll(_ context.Context) ([]model.ShiftType, error) {
	var out []model.ShiftType
	for _, t := range m.Rows {
		out = append(out, *t)
	}
	return out, nil
}

func (m *ShiftTypeRepo) Create(_ context.Context, t *model.ShiftType) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *t
	m.Rows[t.ID] = &cp
	return nil
}

func (m *ShiftTypeRepo) Update(ctx context.Context, t *model.ShiftType) error {
	return m.Create(ctx, t)
}

func (m *ShiftTypeRepo) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, id)
	return nil
}

type ShiftAssignmentRepo struct {
	FailSwitch
	Rows    map[string]*model.ShiftAssignment // key: userID|date
	Deletes int
}

func shiftKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (m *ShiftAssignmentRepo) ListAll(_ context.Context) ([]model.ShiftAssignment, error) {
	var out []model.ShiftAssignment
	for _, a := range m.Rows {
		out = append(out, *a)
	}
	return out, nil
}

func (m *ShiftAssignmentRepo) Upsert(_ context.Context, a *model.ShiftAssignment) error {
	if m.Err != nil {
		return m.Err
	}
	key := shiftKey(a.UserID, a.Date)
	if existing, ok := m.Rows[key]; ok {
		existing.ShiftTypeID = a.ShiftTypeID
		a.ID = existing.ID
		return nil
	}
	cp := *a
	m.Rows[key] = &cp
	return nil
}

func (m *ShiftAssignmentRepo) DeleteByUserDate(_ context.Context, userID string, date time.Time) error {
	if m.Err != nil {
		return m.Err
	}
	m.Deletes++
	delete(m.Rows, shiftKey(userID, date))
	return nil
}

type HolidayRepo struct {
	FailSwitch
	Rows map[string]*model.Holiday
}

func (m *HolidayRepo) ListAll(_ context.Context) ([]model.Holiday, error) {
	var out []model.Holiday
	for _, h := range m.Rows {
		out = append(out, *h)
	}
	return out, nil
}

func (m *HolidayRepo) Create(_ context.Context, h *model.Holiday) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *h
	m.Rows[h.ID] = &cp
	return nil
}

func (m *HolidayRepo) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, id)
	return nil
}

type PPETypeRepo struct {
	FailSwitch
	Rows map[string]*model.PPEType
}

func (m *PPETypeRepo) ListAll(_ context.Context) ([]model.PPEType, error) {
	var out []model.PPEType
	for _, t := range m.Rows {
		out = append(out, *t)
	}
	return out, nil
}

func (m *PPETypeRepo) Create(_ context.Context, t *model.PPEType) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *t
	m.Rows[t.ID] = &cp
	return nil
}

func (m *PPETypeRepo) Update(ctx context.Context, t *model.PPEType) error {
	return m.Create(ctx, t)
}

func (m *PPETypeRepo) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, id)
	return nil
}

// ── PPERequestRepository ──

type PPERequestRepo struct {
	FailSwitch
	Rows map[string]*model.PPERequest
}

func (m *PPERequestRepo) ListAll(_ context.Context) ([]model.PPERequest, error) {
	var out []model.PPERequest
	for _, r := range m.Rows {
		out = append(out, *r)
	}
	return out, nil
}

func (m *PPERequestRepo) Create(_ context.Context, r *model.PPERequest) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *r
	m.Rows[r.ID] = &cp
	return nil
}

func (m *PPERequestRepo) MarkDelivered(_ context.Context, id string, at time.Time) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	r, ok := m.Rows[id]
	if !ok || r.Status != "PENDIENTE" {
		return false, nil
	}
	r.Status = "ENTREGADO"
	r.DeliveryDate = &at
	return true, nil
}

func (m *PPERequestRepo) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, id)
	return nil
}

// ── NotificationRepository ──

type NotificationRepo struct {
	FailSwitch
	Rows map[string]*model.Notification
}

func (m *NotificationRepo) ListAll(_ context.Context) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range m.Rows {
		out = append(out, *n)
	}
	return out, nil
}

func (m *NotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *n
	m.Rows[n.ID] = &cp
	return nil
}

func (m *NotificationRepo) CreateBatch(ctx context.Context, list []model.Notification) error {
	if m.Err != nil {
		return m.Err
	}
	for i := range list {
		_ = m.Create(ctx, &list[i])
	}
	return nil
}

func (m *NotificationRepo) MarkRead(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	if n, ok := m.Rows[id]; ok {
		n.Read = true
	}
	return nil
}

func (m *NotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	if m.Err != nil {
		return m.Err
	}
	for _, n := range m.Rows {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (m *NotificationRepo) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, id)
	return nil
}

// ── NewsRepository ──

type NewsRepo struct {
	FailSwitch
	Rows map[string]*model.News
}

func (m *NewsRepo) ListAll(_ context.Context) ([]model.News, error) {
	var out []model.News
	for _, n := range m.Rows {
		out = append(out, *n)
	}
	return out, nil
}

func (m *NewsRepo) Create(_ context.Context, n *model.News) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *n
	m.Rows[n.ID] = &cp
	return nil
}

func (m *NewsRepo) Update(ctx context.Context, n *model.News) error {
	return m.Create(ctx, n)
}

func (m *NewsRepo) MarkAnnounced(_ context.Context, ids []string) error {
	if m.Err != nil {
		return m.Err
	}
	for _, id := range ids {
		if n, ok := m.Rows[id]; ok {
			n.Announced = true
		}
	}
	return nil
}

func (m *NewsRepo) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Rows, id)
	return nil
}

// ── SettingRepository ──

type SettingRepo struct {
	FailSwitch
	Rows map[string]*model.Setting
}

func (m *SettingRepo) ListAll(_ context.Context) ([]model.Setting, error) {
	var out []model.Setting
	for _, st := range m.Rows {
		out = append(out, *st)
	}
	return out, nil
}

func (m *SettingRepo) Upsert(_ context.Context, st *model.Setting) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *st
	m.Rows[st.Key] = &cp
	return nil
}

// ── 组装 ──

// Backend 12 个 repository 替身的集合
type Backend struct {
	Users         *UserRepo
	Departments   *DepartmentRepo
	Requests      *RequestRepo
	LeaveTypes    *LeaveTypeRepo
	ShiftTypes    *ShiftTypeRepo
	Shifts        *ShiftAssignmentRepo
	Holidays      *HolidayRepo
	PPETypes      *PPETypeRepo
	PPERequests   *PPERequestRepo
	Notifications *NotificationRepo
	News          *NewsRepo
	Settings      *SettingRepo
}

// NewBackend 创建空的替身集合
func NewBackend() *Backend {
	return &Backend{
		Users:         &UserRepo{Rows: map[string]*model.User{}},
		Departments:   &DepartmentRepo{Rows: map[string]*model.Department{}},
		Requests:      &RequestRepo{Rows: map[string]*model.Request{}},
		LeaveTypes:    &LeaveTypeRepo{Rows: map[string]*model.LeaveType{}},
		ShiftTypes:    &ShiftTypeRepo{Rows: map[string]*model.ShiftType{}},
		Shifts:        &ShiftAssignmentRepo{Rows: map[string]*model.ShiftAssignment{}},
		Holidays:      &HolidayRepo{Rows: map[string]*model.Holiday{}},
		PPETypes:      &PPETypeRepo{Rows: map[string]*model.PPEType{}},
		PPERequests:   &PPERequestRepo{Rows: map[string]*model.PPERequest{}},
		Notifications: &NotificationRepo{Rows: map[string]*model.Notification{}},
		News:          &NewsRepo{Rows: map[string]*model.News{}},
		Settings:      &SettingRepo{Rows: map[string]*model.Setting{}},
	}
}

// Repository 组装为 *repository.Repository；txRunner 为空，事务直接在替身上执行
func (b *Backend) Repository() *repository.Repository {
	return &repository.Repository{
		User:            b.Users,
		Department:      b.Departments,
		Request:         b.Requests,
		LeaveType:       b.LeaveTypes,
		ShiftType:       b.ShiftTypes,
		ShiftAssignment: b.Shifts,
		Holiday:         b.Holidays,
		PPEType:         b.PPETypes,
		PPERequest:      b.PPERequests,
		Notification:    b.Notifications,
		News:            b.News,
		Setting:         b.Settings,
	}
}

// ── 测试数据 ──

// FixedNow 测试使用的固定时间
var FixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// Seed 预置：管理员 admin、主管 sup（管理 dept-ops）、员工 ana / luis（dept-ops）、pablo（dept-log），
// 假期类型 VACATION（扣天数）与 SICK_LEAVE
func (b *Backend) Seed() {
	ops, logi := "dept-ops", "dept-log"
	b.Users.Rows["admin"] = &model.User{ID: "admin", Name: "Admin", Email: "admin@gda.es", Role: "ADMIN"}
	b.Users.Rows["sup"] = &model.User{ID: "sup", Name: "Sara", Email: "sara@gda.es", Role: "SUPERVISOR", DepartmentID: &ops}
	b.Users.Rows["ana"] = &model.User{ID: "ana", Name: "Ana", Email: "ana@gda.es", Role: "WORKER", DepartmentID: &ops, DaysAvailable: 22, OvertimeHours: 10}
	b.Users.Rows["luis"] = &model.User{ID: "luis", Name: "Luis", Email: "luis@gda.es", Role: "WORKER", DepartmentID: &ops, DaysAvailable: 22}
	b.Users.Rows["pablo"] = &model.User{ID: "pablo", Name: "Pablo", Email: "pablo@gda.es", Role: "WORKER", DepartmentID: &logi, DaysAvailable: 22}

	b.Departments.Rows[ops] = &model.Department{ID: ops, Name: "Operaciones", SupervisorIDs: model.StringArray{"sup"}}
	b.Departments.Rows[logi] = &model.Department{ID: logi, Name: "Logística"}

	b.LeaveTypes.Rows["VACATION"] = &model.LeaveType{ID: "VACATION", Label: "Vacaciones", SubtractsDays: true}
	b.LeaveTypes.Rows["SICK_LEAVE"] = &model.LeaveType{ID: "SICK_LEAVE", Label: "Baja médica"}
}

// SetPassword 为预置用户设置 bcrypt 密码哈希
func (b *Backend) SetPassword(userID, hash string) {
	if u, ok := b.Users.Rows[userID]; ok {
		u.PasswordHash = hash
	}
}
