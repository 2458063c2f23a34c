package store

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
)

// ── 班次类型 ──

// ShiftTypes 全部班次类型，按名称排序
func (s *Store) ShiftTypes() []domain.ShiftType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ShiftType, 0, len(s.data.shiftTypes))
	for _, st := range s.data.shiftTypes {
		out = append(out, cloneShiftType(st))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ShiftType 按 ID 查找
func (s *Store) ShiftType(id string) (domain.ShiftType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.shiftTypeLocked(id)
	return cloneShiftType(st), ok
}

func (s *Store) shiftTypeLocked(id string) (domain.ShiftType, bool) {
	for _, st := range s.data.shiftTypes {
		if st.ID == id {
			return st, true
		}
	}
	return domain.ShiftType{}, false
}

// CreateShiftType 新建班次类型
func (s *Store) CreateShiftType(ctx context.Context, st domain.ShiftType) (domain.ShiftType, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	st.ID = uuid.NewString()
	if err := normalizeShiftType(&st); err != nil {
		return domain.ShiftType{}, err
	}
	row := shiftTypeRow(st)
	row.CreatedAt, row.UpdatedAt = s.now(), s.now()
	if err := s.repo.ShiftType.Create(ctx, &row); err != nil {
		return domain.ShiftType{}, s.writeFailed("CreateShiftType", EntityShiftType, err)
	}

	s.mu.Lock()
	s.data.shiftTypes = append(s.data.shiftTypes, st)
	s.mu.Unlock()

	s.notify(EntityShiftType, ActionCreated, st.ID, "")
	return cloneShiftType(st), nil
}

// UpdateShiftType 修改班次类型
func (s *Store) UpdateShiftType(ctx context.Context, st domain.ShiftType) (domain.ShiftType, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.ShiftType(st.ID); !ok {
		return domain.ShiftType{}, ErrNotFound
	}
	if err := normalizeShiftType(&st); err != nil {
		return domain.ShiftType{}, err
	}
	row := shiftTypeRow(st)
	row.UpdatedAt = s.now()
	if err := s.repo.ShiftType.Update(ctx, &row); err != nil {
		return domain.ShiftType{}, s.writeFailed("UpdateShiftType", EntityShiftType, err)
	}

	s.mu.Lock()
	for i := range s.data.shiftTypes {
		if s.data.shiftTypes[i].ID == st.ID {
			s.data.shiftTypes[i] = st
		}
	}
	s.mu.Unlock()

	s.notify(EntityShiftType, ActionUpdated, st.ID, "")
	return cloneShiftType(st), nil
}

// DeleteShiftType 删除班次类型，引用它的排班由外键级联删除
func (s *Store) DeleteShiftType(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.ShiftType(id); !ok {
		return ErrNotFound
	}
	if err := s.repo.ShiftType.Delete(ctx, id); err != nil {
		return s.writeFailed("DeleteShiftType", EntityShiftType, err)
	}

	s.mu.Lock()
	s.data.shiftTypes = removeWhere(s.data.shiftTypes, func(st domain.ShiftType) bool { return st.ID == id })
	s.data.shifts = removeWhere(s.data.shifts, func(a domain.ShiftAssignment) bool { return a.ShiftTypeID == id })
	s.mu.Unlock()

	s.notify(EntityShiftType, ActionDeleted, id, "")
	return nil
}

func normalizeShiftType(st *domain.ShiftType) error {
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return invalid("el nombre del turno es obligatorio")
	}
	if st.Color == "" {
		st.Color = defaultShiftColor
	}
	if !domain.ValidColor(st.Color) {
		return invalid("color no válido: %s", st.Color)
	}
	if st.Segments == nil {
		st.Segments = []domain.ShiftSegment{}
	}
	for _, seg := range st.Segments {
		if !domain.ValidTimeOfDay(seg.Start) || !domain.ValidTimeOfDay(seg.End) {
			return invalid("tramo horario no válido: %s-%s", seg.Start, seg.End)
		}
	}
	return nil
}

func cloneShiftType(st domain.ShiftType) domain.ShiftType {
	st.Segments = append([]domain.ShiftSegment{}, st.Segments...)
	return st
}

// ── 排班 ──

// AssignShift 设置某员工某日的班次；shiftTypeID 为空表示清除，空单元格上重复清除无副作用
func (s *Store) AssignShift(ctx context.Context, userID, date, shiftTypeID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	day, err := domain.ParseDate(date)
	if err != nil {
		return invalid("fecha no válida")
	}
	date = domain.FormatDate(day)
	if _, ok := s.User(userID); !ok {
		return ErrNotFound
	}

	existing, had := s.ShiftForUserDate(userID, date)

	if shiftTypeID == "" {
		if !had {
			return nil
		}
		if err := s.repo.ShiftAssignment.DeleteByUserDate(ctx, userID, day); err != nil {
			return s.writeFailed("AssignShift", EntityShiftAssignment, err)
		}
		s.mu.Lock()
		s.data.shifts = removeWhere(s.data.shifts, func(a domain.ShiftAssignment) bool {
			return a.UserID == userID && a.Date == date
		})
		s.mu.Unlock()
		s.notify(EntityShiftAssignment, ActionDeleted, existing.ID, userID)
		return nil
	}

	if _, ok := s.ShiftType(shiftTypeID); !ok {
		return invalid("tipo de turno inexistente")
	}
	if had && existing.ShiftTypeID == shiftTypeID {
		return nil
	}

	a := domain.ShiftAssignment{ID: existing.ID, UserID: userID, Date: date, ShiftTypeID: shiftTypeID}
	if !had {
		a.ID = uuid.NewString()
	}
	row := shiftAssignmentRow(a)
	row.CreatedAt, row.UpdatedAt = s.now(), s.now()
	if err := s.repo.ShiftAssignment.Upsert(ctx, &row); err != nil {
		return s.writeFailed("AssignShift", EntityShiftAssignment, err)
	}

	s.mu.Lock()
	if had {
		for i := range s.data.shifts {
			if s.data.shifts[i].UserID == userID && s.data.shifts[i].Date == date {
				s.data.shifts[i].ShiftTypeID = shiftTypeID
			}
		}
	} else {
		s.data.shifts = append(s.data.shifts, a)
	}
	s.mu.Unlock()

	action := ActionCreated
	if had {
		action = ActionUpdated
	}
	s.notify(EntityShiftAssignment, action, a.ID, userID)
	return nil
}

// ShiftForUserDate 某员工某日的排班
func (s *Store) ShiftForUserDate(userID, date string) (domain.ShiftAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.data.shifts {
		if a.UserID == userID && a.Date == date {
			return a, true
		}
	}
	return domain.ShiftAssignment{}, false
}

// NextShift 日期不早于 from 的最近一次排班
func (s *Store) NextShift(userID, from string) (domain.ShiftAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best domain.ShiftAssignment
	found := false
	for _, a := range s.data.shifts {
		if a.UserID != userID || a.Date < from {
			continue
		}
		if !found || a.Date < best.Date {
			best, found = a, true
		}
	}
	return best, found
}

// ShiftAssignments 闭区间 [from, to] 内的排班，按日期、员工排序；空字符串表示不限
func (s *Store) ShiftAssignments(from, to string) []domain.ShiftAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ShiftAssignment
	for _, a := range s.data.shifts {
		if (from != "" && a.Date < from) || (to != "" && a.Date > to) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
