package store

import (
	"sort"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
)

// RequestConflicts 同部门其他员工在相同日期内已通过或待审批的缺勤。
// ConflictDetection 关闭时恒为空
func (s *Store) RequestConflicts(r domain.LeaveRequest) []domain.LeaveRequest {
	out := []domain.LeaveRequest{}
	if !s.opts.ConflictDetection || !isAbsence(r.TypeID) {
		return out
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.userLocked(r.UserID)
	if !ok || owner.DepartmentID == "" {
		return out
	}
	for _, other := range s.data.requests {
		if other.ID == r.ID || other.UserID == r.UserID || !isAbsence(other.TypeID) {
			continue
		}
		if other.Status != domain.StatusApproved && other.Status != domain.StatusPending {
			continue
		}
		u, ok := s.userLocked(other.UserID)
		if !ok || u.DepartmentID != owner.DepartmentID {
			continue
		}
		if domain.RangesOverlap(r.StartDate, r.LastDate(), other.StartDate, other.LastDate()) {
			out = append(out, cloneRequest(other))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out
}

// isAbsence 占用工作日的申请：不含加班类与天数调整
func isAbsence(typeID string) bool {
	return !domain.IsOvertimeRequest(typeID) && typeID != domain.TypeAdjustmentDays
}
