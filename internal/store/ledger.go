package store

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/repository"
)

// 余额/台账规则：
//   - subtractsDays 的假期类型按闭区间自然日扣减 daysAvailable，扣减天数冻结到申请的 daysDeducted；
//   - OVERTIME_EARN / WORKED_HOLIDAY 增加 overtimeHours；
//   - OVERTIME_PAY / OVERTIME_SPEND_DAYS 扣减 overtimeHours，并把 hoursUsed 计入来源记录的 consumedHours，
//     生效时任一来源超额即拒绝，保证 Σ consumedHours ≤ hours。
// sign=+1 表示生效（审批通过），sign=-1 表示撤回（撤销或删除已通过的申请）；撤回严格是生效的逆操作。

type sourcePatch struct {
	consumed   float64
	isConsumed bool
}

type ledgerPatch struct {
	userID  string
	days    float64
	hours   float64
	sources map[string]sourcePatch
	// deducted 生效后申请应记录的 daysDeducted；撤回时为 0
	deducted float64
}

// ledgerEffectLocked 基于当前缓存计算申请生效/撤回后的余额；无影响时返回 false。
// 生效时加班来源不足返回 ErrInvalidInput。调用方需持有读锁
func (s *Store) ledgerEffectLocked(r domain.LeaveRequest, sign float64) (ledgerPatch, bool, error) {
	u, ok := s.userLocked(r.UserID)
	if !ok {
		return ledgerPatch{}, false, nil
	}
	p := ledgerPatch{userID: u.ID, days: u.DaysAvailable, hours: u.OvertimeHours}
	changed := false

	switch {
	case domain.IsOvertimeEarning(r.TypeID):
		p.hours += sign * r.HoursValue()
		changed = r.HoursValue() != 0
	case domain.IsOvertimeSpending(r.TypeID):
		p.hours -= sign * r.HoursValue()
		changed = r.HoursValue() != 0
		for _, use := range r.OvertimeUsage {
			src, ok := s.requestLocked(use.RequestID)
			if !ok {
				if sign > 0 {
					return ledgerPatch{}, false, invalid("registro de horas extra no válido: %s", use.RequestID)
				}
				continue
			}
			if p.sources == nil {
				p.sources = map[string]sourcePatch{}
			}
			cur, seen := p.sources[src.ID]
			if !seen {
				cur = sourcePatch{consumed: src.ConsumedHours}
			}
			limit := src.HoursValue()
			if sign > 0 {
				if src.Status != domain.StatusApproved {
					return ledgerPatch{}, false, invalid("registro de horas extra no válido: %s", src.ID)
				}
				if cur.consumed+use.HoursUsed > limit+hoursEpsilon {
					return ledgerPatch{}, false, invalid("el registro %s solo tiene %.2f horas disponibles", src.ID, math.Max(limit-cur.consumed, 0))
				}
			}
			cur.consumed = math.Max(round2(cur.consumed+sign*use.HoursUsed), 0)
			cur.isConsumed = limit > 0 && cur.consumed >= limit-hoursEpsilon
			p.sources[src.ID] = cur
			changed = true
		}
	case !domain.IsSystemType(r.TypeID):
		if sign > 0 {
			if lt, ok := s.leaveTypeLocked(r.TypeID); ok && lt.SubtractsDays {
				n := float64(domain.DaysInclusive(r.StartDate, r.EndDate))
				p.days -= n
				p.deducted = n
				changed = n != 0
			}
		} else if r.DaysDeducted != 0 {
			p.days += r.DaysDeducted
			changed = true
		}
	}
	return p, changed, nil
}

// writeLedger 在事务中写入余额与来源消耗
func writeLedger(ctx context.Context, tx *repository.Repository, p ledgerPatch) error {
	if err := tx.User.UpdateFields(ctx, p.userID, map[string]interface{}{
		"days_available": round2(p.days),
		"overtime_hours": round2(p.hours),
	}); err != nil {
		return err
	}
	for id, sp := range p.sources {
		if err := tx.Request.UpdateFields(ctx, id, map[string]interface{}{
			"consumed_hours": round2(sp.consumed),
			"is_consumed":    sp.isConsumed,
		}); err != nil {
			return err
		}
	}
	return nil
}

// commitLedgerLocked 将余额变更回写缓存。调用方需持有写锁
func (s *Store) commitLedgerLocked(p ledgerPatch) {
	for i := range s.data.users {
		if s.data.users[i].ID == p.userID {
			s.data.users[i].DaysAvailable = round2(p.days)
			s.data.users[i].OvertimeHours = round2(p.hours)
		}
	}
	for id, sp := range p.sources {
		for i := range s.data.requests {
			if s.data.requests[i].ID == id {
				s.data.requests[i].ConsumedHours = round2(sp.consumed)
				s.data.requests[i].IsConsumed = sp.isConsumed
			}
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ── 手工调整 ──

// BalanceKind 调整的余额类型
type BalanceKind string

const (
	BalanceDays  BalanceKind = "days"
	BalanceHours BalanceKind = "hours"
)

// AdjustBalance 管理员直接调整员工余额，同时生成一条已通过的 ADJUSTMENT_* 记录。
// 不受 AutoBalance 开关影响。
func (s *Store) AdjustBalance(ctx context.Context, actorID, userID string, kind BalanceKind, delta float64, reason string) (domain.LeaveRequest, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	actor, ok := s.User(actorID)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.LeaveRequest{}, ErrForbidden
	}
	u, ok := s.User(userID)
	if !ok {
		return domain.LeaveRequest{}, ErrNotFound
	}
	if delta == 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return domain.LeaveRequest{}, invalid("el ajuste no puede ser cero")
	}

	typeID := domain.TypeAdjustmentDays
	p := ledgerPatch{userID: u.ID, days: u.DaysAvailable, hours: u.OvertimeHours}
	switch kind {
	case BalanceDays:
		p.days += delta
	case BalanceHours:
		typeID = domain.TypeAdjustmentOvertime
		p.hours += delta
	default:
		return domain.LeaveRequest{}, invalid("tipo de saldo desconocido: %s", kind)
	}

	label, _ := domain.SystemTypeLabel(typeID)
	amount := round2(delta)
	now := s.now()
	req := domain.LeaveRequest{
		ID:             uuid.NewString(),
		UserID:         u.ID,
		TypeID:         typeID,
		Label:          label,
		StartDate:      dateOf(now),
		Hours:          &amount,
		Reason:         reason,
		Status:         domain.StatusApproved,
		CreatedAt:      now,
		CreatedByAdmin: true,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := writeLedger(ctx, tx, p); err != nil {
			return err
		}
		row := requestRow(req)
		return tx.Request.Create(ctx, &row)
	})
	if err != nil {
		return domain.LeaveRequest{}, s.writeFailed("AdjustBalance", EntityUser, err)
	}

	s.mu.Lock()
	s.commitLedgerLocked(p)
	s.data.requests = append(s.data.requests, req)
	s.mu.Unlock()

	s.notify(EntityUser, ActionUpdated, u.ID, u.ID)
	s.notify(EntityRequest, ActionCreated, req.ID, u.ID)
	return req, nil
}
