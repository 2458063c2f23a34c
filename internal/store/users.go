package store

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/repository"
)

// NewUser 管理员创建员工的输入
type NewUser struct {
	Name          string
	Email         string
	Password      string
	Role          domain.Role
	DepartmentID  string
	DaysAvailable float64
	OvertimeHours float64
	Avatar        string
	Birthdate     string
}

// UserPatch 管理员编辑员工，nil 字段保持不变
type UserPatch struct {
	Name          *string
	Email         *string
	Role          *domain.Role
	DepartmentID  *string
	DaysAvailable *float64
	OvertimeHours *float64
	Avatar        *string
	Birthdate     *string
}

// ProfilePatch 员工编辑本人资料
type ProfilePatch struct {
	Name      *string
	Avatar    *string
	Birthdate *string
}

// ── 读取 ──

// Users 全部员工，按姓名排序
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]domain.User(nil), s.data.users...)
	sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out
}

// User 按 ID 查找
func (s *Store) User(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userLocked(id)
}

// UserByEmail 按登录邮箱查找（忽略大小写与首尾空格）
func (s *Store) UserByEmail(email string) (domain.User, bool) {
	email = normalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.data.users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

// UsersInDepartment 某部门成员
func (s *Store) UsersInDepartment(deptID string) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	for _, u := range s.data.users {
		if u.DepartmentID == deptID {
			out = append(out, u)
		}
	}
	return out
}

// UsersByRole 某角色的全部员工
func (s *Store) UsersByRole(role domain.Role) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	for _, u := range s.data.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

func (s *Store) userLocked(id string) (domain.User, bool) {
	for _, u := range s.data.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// ── 变更 ──

// CreateUser 创建员工；初始密码以 bcrypt 存储并要求首次登录修改
func (s *Store) CreateUser(ctx context.Context, in NewUser) (domain.User, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	u := domain.User{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		Email:         normalizeEmail(in.Email),
		Role:          in.Role,
		DepartmentID:  in.DepartmentID,
		DaysAvailable: in.DaysAvailable,
		OvertimeHours: in.OvertimeHours,
		Avatar:        in.Avatar,
		Birthdate:     in.Birthdate,
	}
	if u.Role == "" {
		u.Role = domain.RoleWorker
	}
	if err := s.validateUser(u); err != nil {
		return domain.User{}, err
	}
	if len(in.Password) < 6 {
		return domain.User{}, invalid("la contraseña debe tener al menos 6 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	u.PasswordHash = string(hash)
	u.MustChangePassword = true

	row := userRow(u)
	row.CreatedAt, row.UpdatedAt = s.now(), s.now()
	if err := s.repo.User.Create(ctx, &row); err != nil {
		return domain.User{}, s.writeFailed("CreateUser", EntityUser, err)
	}

	s.mu.Lock()
	s.data.users = append(s.data.users, u)
	s.mu.Unlock()

	s.notify(EntityUser, ActionCreated, u.ID, u.ID)
	return u, nil
}

// UpdateUser 管理员编辑员工资料与余额
func (s *Store) UpdateUser(ctx context.Context, id string, p UserPatch) (domain.User, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	u, ok := s.User(id)
	if !ok {
		return domain.User{}, ErrNotFound
	}
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = normalizeEmail(*p.Email)
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.DepartmentID != nil {
		u.DepartmentID = *p.DepartmentID
	}
	if p.DaysAvailable != nil {
		u.DaysAvailable = *p.DaysAvailable
	}
	if p.OvertimeHours != nil {
		u.OvertimeHours = *p.OvertimeHours
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Birthdate != nil {
		u.Birthdate = *p.Birthdate
	}
	if err := s.validateUser(u); err != nil {
		return domain.User{}, err
	}
	return s.saveUser(ctx, "UpdateUser", u)
}

// UpdateProfile 员工本人可修改的字段
func (s *Store) UpdateProfile(ctx context.Context, id string, p ProfilePatch) (domain.User, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	u, ok := s.User(id)
	if !ok {
		return domain.User{}, ErrNotFound
	}
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Birthdate != nil {
		u.Birthdate = *p.Birthdate
	}
	if err := s.validateUser(u); err != nil {
		return domain.User{}, err
	}
	return s.saveUser(ctx, "UpdateProfile", u)
}

// SetPassword 更新密码哈希
func (s *Store) SetPassword(ctx context.Context, id, hash string, mustChange bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.User(id); !ok {
		return ErrNotFound
	}
	fields := map[string]interface{}{"password_hash": hash, "must_change_password": mustChange}
	if err := s.repo.User.UpdateFields(ctx, id, fields); err != nil {
		return s.writeFailed("SetPassword", EntityUser, err)
	}

	s.mu.Lock()
	for i := range s.data.users {
		if s.data.users[i].ID == id {
			s.data.users[i].PasswordHash = hash
			s.data.users[i].MustChangePassword = mustChange
		}
	}
	s.mu.Unlock()

	s.notify(EntityUser, ActionUpdated, id, id)
	return nil
}

// DeleteUser 硬删除员工，同时将其移出所有部门主管列表；
// 申请、通知、排班、用品申领由外键级联删除，缓存同步剔除
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.User(id); !ok {
		return ErrNotFound
	}

	s.mu.RLock()
	var touched []domain.Department
	for _, d := range s.data.departments {
		if d.HasSupervisor(id) {
			d.SupervisorIDs = without(d.SupervisorIDs, id)
			touched = append(touched, d)
		}
	}
	s.mu.RUnlock()

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, d := range touched {
			row := departmentRow(d)
			if err := tx.Department.Update(ctx, &row); err != nil {
				return err
			}
		}
		return tx.User.Delete(ctx, id)
	})
	if err != nil {
		return s.writeFailed("DeleteUser", EntityUser, err)
	}

	s.mu.Lock()
	s.data.users = removeWhere(s.data.users, func(u domain.User) bool { return u.ID == id })
	s.data.requests = removeWhere(s.data.requests, func(r domain.LeaveRequest) bool { return r.UserID == id })
	s.data.notifications = removeWhere(s.data.notifications, func(n domain.Notification) bool { return n.UserID == id })
	s.data.shifts = removeWhere(s.data.shifts, func(a domain.ShiftAssignment) bool { return a.UserID == id })
	s.data.ppeRequests = removeWhere(s.data.ppeRequests, func(p domain.PPERequest) bool { return p.UserID == id })
	for _, d := range touched {
		s.replaceDepartmentLocked(d)
	}
	s.mu.Unlock()

	s.logger.Info("员工已删除", zap.String("user_id", id), zap.Int("departments_touched", len(touched)))
	s.notify(EntityUser, ActionDeleted, id, id)
	return nil
}

func (s *Store) saveUser(ctx context.Context, op string, u domain.User) (domain.User, error) {
	row := userRow(u)
	row.UpdatedAt = s.now()
	fields := map[string]interface{}{
		"name":           row.Name,
		"email":          row.Email,
		"role":           row.Role,
		"department_id":  row.DepartmentID,
		"days_available": row.DaysAvailable,
		"overtime_hours": row.OvertimeHours,
		"avatar":         row.Avatar,
		"birthdate":      row.Birthdate,
	}
	if err := s.repo.User.UpdateFields(ctx, u.ID, fields); err != nil {
		return domain.User{}, s.writeFailed(op, EntityUser, err)
	}

	s.mu.Lock()
	s.replaceUserLocked(u)
	s.mu.Unlock()

	s.notify(EntityUser, ActionUpdated, u.ID, u.ID)
	return u, nil
}

func (s *Store) replaceUserLocked(u domain.User) {
	for i := range s.data.users {
		if s.data.users[i].ID == u.ID {
			s.data.users[i] = u
			return
		}
	}
}

func (s *Store) validateUser(u domain.User) error {
	if u.Name == "" {
		return invalid("el nombre es obligatorio")
	}
	if !strings.Contains(u.Email, "@") {
		return invalid("email no válido")
	}
	if !u.Role.Valid() {
		return invalid("rol desconocido: %s", u.Role)
	}
	if u.Birthdate != "" {
		if _, err := domain.ParseDate(u.Birthdate); err != nil {
			return invalid("fecha de nacimiento no válida")
		}
	}
	if u.DepartmentID != "" {
		if _, ok := s.Department(u.DepartmentID); !ok {
			return invalid("departamento inexistente")
		}
	}
	return nil
}

// ── 泛型切片工具 ──

func removeWhere[T any](list []T, match func(T) bool) []T {
	out := list[:0]
	for _, v := range list {
		if !match(v) {
			out = append(out, v)
		}
	}
	return out
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
