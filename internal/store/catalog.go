package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// ── 假期类型 ──

// LeaveTypes 全部假期类型，按名称排序
func (s *Store) LeaveTypes() []domain.LeaveTypeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LeaveTypeConfig, 0, len(s.data.leaveTypes))
	for _, lt := range s.data.leaveTypes {
		lt.FixedRanges = append([]domain.FixedRange(nil), lt.FixedRanges...)
		out = append(out, lt)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// LeaveType 按 ID 查找
func (s *Store) LeaveType(id string) (domain.LeaveTypeConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leaveTypeLocked(id)
}

func (s *Store) leaveTypeLocked(id string) (domain.LeaveTypeConfig, bool) {
	for _, lt := range s.data.leaveTypes {
		if lt.ID == id {
			lt.FixedRanges = append([]domain.FixedRange(nil), lt.FixedRanges...)
			return lt, true
		}
	}
	return domain.LeaveTypeConfig{}, false
}

// CreateLeaveType 新建假期类型
func (s *Store) CreateLeaveType(ctx context.Context, lt domain.LeaveTypeConfig) (domain.LeaveTypeConfig, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	lt.ID = uuid.NewString()
	if err := normalizeLeaveType(&lt); err != nil {
		return domain.LeaveTypeConfig{}, err
	}
	row := leaveTypeRow(lt)
	row.CreatedAt, row.UpdatedAt = s.now(), s.now()
	if err := s.repo.LeaveType.Create(ctx, &row); err != nil {
		return domain.LeaveTypeConfig{}, s.writeFailed("CreateLeaveType", EntityLeaveType, err)
	}

	s.mu.Lock()
	s.data.leaveTypes = append(s.data.leaveTypes, lt)
	s.mu.Unlock()

	s.notify(EntityLeaveType, ActionCreated, lt.ID, "")
	return lt, nil
}

// UpdateLeaveType 修改假期类型；已有申请的 label 不变
func (s *Store) UpdateLeaveType(ctx context.Context, lt domain.LeaveTypeConfig) (domain.LeaveTypeConfig, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.LeaveType(lt.ID); !ok {
		return domain.LeaveTypeConfig{}, ErrNotFound
	}
	if err := normalizeLeaveType(&lt); err != nil {
		return domain.LeaveTypeConfig{}, err
	}
	row := leaveTypeRow(lt)
	row.UpdatedAt = s.now()
	if err := s.repo.LeaveType.Update(ctx, &row); err != nil {
		return domain.LeaveTypeConfig{}, s.writeFailed("UpdateLeaveType", EntityLeaveType, err)
	}

	s.mu.Lock()
	for i := range s.data.leaveTypes {
		if s.data.leaveTypes[i].ID == lt.ID {
			s.data.leaveTypes[i] = lt
		}
	}
	s.mu.Unlock()

	s.notify(EntityLeaveType, ActionUpdated, lt.ID, "")
	return lt, nil
}

// DeleteLeaveType 删除假期类型
func (s *Store) DeleteLeaveType(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.LeaveType(id); !ok {
		return ErrNotFound
	}
	if err := s.repo.LeaveType.Delete(ctx, id); err != nil {
		return s.writeFailed("DeleteLeaveType", EntityLeaveType, err)
	}

	s.mu.Lock()
	s.data.leaveTypes = removeWhere(s.data.leaveTypes, func(lt domain.LeaveTypeConfig) bool { return lt.ID == id })
	s.mu.Unlock()

	s.notify(EntityLeaveType, ActionDeleted, id, "")
	return nil
}

func normalizeLeaveType(lt *domain.LeaveTypeConfig) error {
	lt.Label = strings.TrimSpace(lt.Label)
	if lt.Label == "" {
		return invalid("el nombre del tipo es obligatorio")
	}
	for _, fr := range lt.FixedRanges {
		if fr.EndDate == "" || domain.ValidateRange(fr.StartDate, fr.EndDate) != nil {
			return invalid("periodo no válido: %s - %s", fr.StartDate, fr.EndDate)
		}
	}
	return nil
}

// ── 节假日 ──

// Holidays 某年节假日，year 为 0 时返回全部，按日期排序
func (s *Store) Holidays(year int) []domain.Holiday {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Holiday
	for _, h := range s.data.holidays {
		if year != 0 && !strings.HasPrefix(h.Date, yearPrefix(year)) {
			continue
		}
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// IsHoliday 某日是否为节假日
func (s *Store) IsHoliday(date string) (domain.Holiday, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.data.holidays {
		if h.Date == date {
			return h, true
		}
	}
	return domain.Holiday{}, false
}

// CreateHoliday 新增节假日
func (s *Store) CreateHoliday(ctx context.Context, date, name string) (domain.Holiday, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	day, err := domain.ParseDate(date)
	if err != nil {
		return domain.Holiday{}, invalid("fecha no válida")
	}
	h := domain.Holiday{ID: uuid.NewString(), Date: domain.FormatDate(day), Name: strings.TrimSpace(name)}
	if h.Name == "" {
		return domain.Holiday{}, invalid("el nombre del festivo es obligatorio")
	}
	row := model.Holiday{ID: h.ID, Date: day, Name: h.Name, CreatedAt: s.now()}
	if err := s.repo.Holiday.Create(ctx, &row); err != nil {
		return domain.Holiday{}, s.writeFailed("CreateHoliday", EntityHoliday, err)
	}

	s.mu.Lock()
	s.data.holidays = append(s.data.holidays, h)
	s.mu.Unlock()

	s.notify(EntityHoliday, ActionCreated, h.ID, "")
	return h, nil
}

// DeleteHoliday 删除节假日
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	found := false
	for _, h := range s.data.holidays {
		if h.ID == id {
			found = true
		}
	}
	s.mu.RUnlock()
	if !found {
		return ErrNotFound
	}
	if err := s.repo.Holiday.Delete(ctx, id); err != nil {
		return s.writeFailed("DeleteHoliday", EntityHoliday, err)
	}

	s.mu.Lock()
	s.data.holidays = removeWhere(s.data.holidays, func(h domain.Holiday) bool { return h.ID == id })
	s.mu.Unlock()

	s.notify(EntityHoliday, ActionDeleted, id, "")
	return nil
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearPrefix(year int) string {
	return yearStart(year).Format("2006") + "-"
}

// ── 防护用品类型 ──

// PPETypes 全部防护用品类型，按名称排序
func (s *Store) PPETypes() []domain.PPEType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PPEType, 0, len(s.data.ppeTypes))
	for _, pt := range s.data.ppeTypes {
		pt.Sizes = append([]string{}, pt.Sizes...)
		out = append(out, pt)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PPEType 按 ID 查找
func (s *Store) PPEType(id string) (domain.PPEType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pt := range s.data.ppeTypes {
		if pt.ID == id {
			pt.Sizes = append([]string{}, pt.Sizes...)
			return pt, true
		}
	}
	return domain.PPEType{}, false
}

// CreatePPEType 新建防护用品类型
func (s *Store) CreatePPEType(ctx context.Context, name string, sizes []string) (domain.PPEType, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	pt := domain.PPEType{ID: uuid.NewString(), Name: strings.TrimSpace(name), Sizes: cleanSizes(sizes)}
	if pt.Name == "" {
		return domain.PPEType{}, invalid("el nombre del EPI es obligatorio")
	}
	row := ppeTypeRow(pt)
	row.CreatedAt, row.UpdatedAt = s.now(), s.now()
	if err := s.repo.PPEType.Create(ctx, &row); err != nil {
		return domain.PPEType{}, s.writeFailed("CreatePPEType", EntityPPEType, err)
	}

	s.mu.Lock()
	s.data.ppeTypes = append(s.data.ppeTypes, pt)
	s.mu.Unlock()

	s.notify(EntityPPEType, ActionCreated, pt.ID, "")
	return pt, nil
}

// UpdatePPEType 修改名称与尺码；已有申领保留原尺码
func (s *Store) UpdatePPEType(ctx context.Context, id, name string, sizes []string) (domain.PPEType, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.PPEType(id); !ok {
		return domain.PPEType{}, ErrNotFound
	}
	pt := domain.PPEType{ID: id, Name: strings.TrimSpace(name), Sizes: cleanSizes(sizes)}
	if pt.Name == "" {
		return domain.PPEType{}, invalid("el nombre del EPI es obligatorio")
	}
	row := ppeTypeRow(pt)
	row.UpdatedAt = s.now()
	if err := s.repo.PPEType.Update(ctx, &row); err != nil {
		return domain.PPEType{}, s.writeFailed("UpdatePPEType", EntityPPEType, err)
	}

	s.mu.Lock()
	for i := range s.data.ppeTypes {
		if s.data.ppeTypes[i].ID == id {
			s.data.ppeTypes[i] = pt
		}
	}
	s.mu.Unlock()

	s.notify(EntityPPEType, ActionUpdated, id, "")
	return pt, nil
}

// DeletePPEType 删除防护用品类型，相关申领由外键级联删除
func (s *Store) DeletePPEType(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.PPEType(id); !ok {
		return ErrNotFound
	}
	if err := s.repo.PPEType.Delete(ctx, id); err != nil {
		return s.writeFailed("DeletePPEType", EntityPPEType, err)
	}

	s.mu.Lock()
	s.data.ppeTypes = removeWhere(s.data.ppeTypes, func(pt domain.PPEType) bool { return pt.ID == id })
	s.data.ppeRequests = removeWhere(s.data.ppeRequests, func(p domain.PPERequest) bool { return p.TypeID == id })
	s.mu.Unlock()

	s.notify(EntityPPEType, ActionDeleted, id, "")
	return nil
}
