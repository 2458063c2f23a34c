package store

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// Departments 全部部门，按名称排序
func (s *Store) Departments() []domain.Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]domain.Department(nil), s.data.departments...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Department 按 ID 查找
func (s *Store) Department(id string) (domain.Department, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.departmentLocked(id)
}

func (s *Store) departmentLocked(id string) (domain.Department, bool) {
	for _, d := range s.data.departments {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Department{}, false
}

// ManagedDepartments supervisorIds 中包含该用户的全部部门
func (s *Store) ManagedDepartments(userID string) []domain.Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Department
	for _, d := range s.data.departments {
		if d.HasSupervisor(userID) {
			out = append(out, d)
		}
	}
	return out
}

// CanManage actor 是否对 target 员工拥有审批权：管理员对所有人，主管对其所管部门成员
func (s *Store) CanManage(actorID, targetUserID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canManageLocked(actorID, targetUserID)
}

func (s *Store) canManageLocked(actorID, targetUserID string) bool {
	actor, ok := s.userLocked(actorID)
	if !ok {
		return false
	}
	if actor.Role == domain.RoleAdmin {
		return true
	}
	if actor.Role != domain.RoleSupervisor {
		return false
	}
	target, ok := s.userLocked(targetUserID)
	if !ok || target.DepartmentID == "" {
		return false
	}
	d, ok := s.departmentLocked(target.DepartmentID)
	return ok && d.HasSupervisor(actorID)
}

// CreateDepartment 创建部门
func (s *Store) CreateDepartment(ctx context.Context, name string, supervisorIDs []string) (domain.Department, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	d := domain.Department{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(name),
		SupervisorIDs: dedupe(supervisorIDs),
	}
	if err := s.validateDepartment(d); err != nil {
		return domain.Department{}, err
	}

	row := departmentRow(d)
	if err := s.repo.Department.Create(ctx, &row); err != nil {
		return domain.Department{}, s.writeFailed("CreateDepartment", EntityDepartment, err)
	}

	s.mu.Lock()
	s.data.departments = append(s.data.departments, d)
	s.mu.Unlock()

	s.notify(EntityDepartment, ActionCreated, d.ID, "")
	return d, nil
}

// UpdateDepartment 修改部门名称与主管
func (s *Store) UpdateDepartment(ctx context.Context, id, name string, supervisorIDs []string) (domain.Department, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.Department(id); !ok {
		return domain.Department{}, ErrNotFound
	}
	d := domain.Department{ID: id, Name: strings.TrimSpace(name), SupervisorIDs: dedupe(supervisorIDs)}
	if err := s.validateDepartment(d); err != nil {
		return domain.Department{}, err
	}

	row := departmentRow(d)
	if err := s.repo.Department.Update(ctx, &row); err != nil {
		return domain.Department{}, s.writeFailed("UpdateDepartment", EntityDepartment, err)
	}

	s.mu.Lock()
	s.replaceDepartmentLocked(d)
	s.mu.Unlock()

	s.notify(EntityDepartment, ActionUpdated, d.ID, "")
	return d, nil
}

// DeleteDepartment 删除部门，成员变为无部门
func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.Department(id); !ok {
		return ErrNotFound
	}
	if err := s.repo.Department.Delete(ctx, id); err != nil {
		return s.writeFailed("DeleteDepartment", EntityDepartment, err)
	}

	s.mu.Lock()
	s.data.departments = removeWhere(s.data.departments, func(d domain.Department) bool { return d.ID == id })
	for i := range s.data.users {
		if s.data.users[i].DepartmentID == id {
			s.data.users[i].DepartmentID = ""
		}
	}
	s.mu.Unlock()

	s.notify(EntityDepartment, ActionDeleted, id, "")
	return nil
}

func (s *Store) replaceDepartmentLocked(d domain.Department) {
	for i := range s.data.departments {
		if s.data.departments[i].ID == d.ID {
			s.data.departments[i] = d
			return
		}
	}
}

func (s *Store) validateDepartment(d domain.Department) error {
	if d.Name == "" {
		return invalid("el nombre del departamento es obligatorio")
	}
	for _, id := range d.SupervisorIDs {
		if _, ok := s.User(id); !ok {
			return invalid("supervisor inexistente: %s", id)
		}
	}
	return nil
}

func departmentRow(d domain.Department) model.Department {
	return model.Department{ID: d.ID, Name: d.Name, SupervisorIDs: model.StringArray(d.SupervisorIDs)}
}
