package store

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/repository"
)

// NewRequest 新建申请。UserID 为空时为本人申请；Status 为空时为 PENDING
type NewRequest struct {
	UserID        string
	TypeID        string
	StartDate     string
	EndDate       string
	Hours         *float64
	Reason        string
	Status        domain.RequestStatus
	OvertimeUsage []domain.OvertimeUsage
}

// RequestPatch 编辑申请，nil 字段保持不变；类型不可修改
type RequestPatch struct {
	StartDate     *string
	EndDate       *string
	Hours         *float64
	Reason        *string
	OvertimeUsage *[]domain.OvertimeUsage
}

// RequestFilter 列表过滤条件，零值表示不过滤
type RequestFilter struct {
	UserID       string
	DepartmentID string
	TypeID       string
	Status       domain.RequestStatus
	Year         int
	OvertimeOnly bool
}

const hoursEpsilon = 0.001

// ── 读取 ──

// Requests 按条件过滤，按 createdAt 倒序
func (s *Store) Requests(f RequestFilter) []domain.LeaveRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.LeaveRequest
	for _, r := range s.data.requests {
		if f.UserID != "" && r.UserID != f.UserID {
			continue
		}
		if f.TypeID != "" && r.TypeID != f.TypeID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.OvertimeOnly && !domain.IsOvertimeRequest(r.TypeID) {
			continue
		}
		if f.Year != 0 && !touchesYear(r, f.Year) {
			continue
		}
		if f.DepartmentID != "" {
			u, ok := s.userLocked(r.UserID)
			if !ok || u.DepartmentID != f.DepartmentID {
				continue
			}
		}
		out = append(out, cloneRequest(r))
	}
	sortNewestFirst(out)
	return out
}

// Request 按 ID 查找
func (s *Store) Request(id string) (domain.LeaveRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requestLocked(id)
	return cloneRequest(r), ok
}

func (s *Store) requestLocked(id string) (domain.LeaveRequest, bool) {
	for _, r := range s.data.requests {
		if r.ID == id {
			return r, true
		}
	}
	return domain.LeaveRequest{}, false
}

// PendingApprovalsForUser 待该用户审批的申请：管理员看全部，主管看所管部门成员（不含本人），员工为空
func (s *Store) PendingApprovalsForUser(userID string) []domain.LeaveRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingApprovalsLocked(userID)
}

func (s *Store) pendingApprovalsLocked(userID string) []domain.LeaveRequest {
	actor, ok := s.userLocked(userID)
	if !ok || !actor.Role.IsManager() {
		return nil
	}
	var out []domain.LeaveRequest
	for _, r := range s.data.requests {
		if r.Status != domain.StatusPending {
			continue
		}
		if actor.Role == domain.RoleSupervisor && (r.UserID == userID || !s.canManageLocked(userID, r.UserID)) {
			continue
		}
		out = append(out, cloneRequest(r))
	}
	sortNewestFirst(out)
	return out
}

// AvailableOvertimeRecords 员工已通过的加班产生记录（包含已用完的记录，Remaining 为 0）
func (s *Store) AvailableOvertimeRecords(userID string) []domain.LeaveRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.LeaveRequest
	for _, r := range s.data.requests {
		if r.UserID == userID && r.Status == domain.StatusApproved && domain.IsOvertimeEarning(r.TypeID) {
			out = append(out, cloneRequest(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out
}

// TraceSource 消耗申请引用的一条来源记录
type TraceSource struct {
	RequestID string               `json:"requestId"`
	HoursUsed float64              `json:"hoursUsed"`
	Source    *domain.LeaveRequest `json:"source,omitempty"`
}

// TraceConsumer 引用了某来源记录的消耗申请
type TraceConsumer struct {
	Request   domain.LeaveRequest `json:"request"`
	HoursUsed float64             `json:"hoursUsed"`
}

// OvertimeTrace 加班追溯：消耗申请 → 来源记录；来源记录 → 消耗它的申请
type OvertimeTrace struct {
	Request   domain.LeaveRequest `json:"request"`
	Sources   []TraceSource       `json:"sources"`
	Consumers []TraceConsumer     `json:"consumers"`
}

// OvertimeTrace 解析 overtimeUsage；已删除的来源记录 Source 为 nil
func (s *Store) OvertimeTrace(requestID string) (OvertimeTrace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requestLocked(requestID)
	if !ok {
		return OvertimeTrace{}, ErrNotFound
	}
	t := OvertimeTrace{Request: cloneRequest(r), Sources: []TraceSource{}, Consumers: []TraceConsumer{}}
	for _, use := range r.OvertimeUsage {
		ts := TraceSource{RequestID: use.RequestID, HoursUsed: use.HoursUsed}
		if src, ok := s.requestLocked(use.RequestID); ok {
			c := cloneRequest(src)
			ts.Source = &c
		}
		t.Sources = append(t.Sources, ts)
	}
	if domain.IsOvertimeEarning(r.TypeID) {
		for _, other := range s.data.requests {
			for _, use := range other.OvertimeUsage {
				if use.RequestID == r.ID {
					t.Consumers = append(t.Consumers, TraceConsumer{Request: cloneRequest(other), HoursUsed: use.HoursUsed})
				}
			}
		}
	}
	return t, nil
}

// UpcomingAbsences from 起 days 天内、viewer 可见范围内已通过的缺勤（不含加班类）。
// 管理员看全部，主管看所管部门成员，员工仅看本人
func (s *Store) UpcomingAbsences(viewerID, from string, days int) ([]domain.LeaveRequest, error) {
	start, err := domain.ParseDate(from)
	if err != nil {
		return nil, invalid("fecha no válida")
	}
	if days <= 0 || days > 366 {
		return nil, invalid("el número de días debe estar entre 1 y 366")
	}
	to := domain.FormatDate(start.AddDate(0, 0, days-1))

	s.mu.RLock()
	defer s.mu.RUnlock()
	viewer, ok := s.userLocked(viewerID)
	if !ok {
		return nil, ErrForbidden
	}
	var out []domain.LeaveRequest
	for _, r := range s.data.requests {
		if r.Status != domain.StatusApproved || domain.IsOvertimeRequest(r.TypeID) || r.TypeID == domain.TypeAdjustmentDays {
			continue
		}
		if !domain.RangesOverlap(r.StartDate, r.LastDate(), from, to) {
			continue
		}
		if r.UserID != viewerID && viewer.Role != domain.RoleAdmin && !s.canManageLocked(viewerID, r.UserID) {
			continue
		}
		out = append(out, cloneRequest(r))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out, nil
}

// ── 变更 ──

// CreateRequest 新建申请。为他人申请或直接以 APPROVED 创建需要审批权，且主管不能直接通过本人的申请
func (s *Store) CreateRequest(ctx context.Context, actorID string, in NewRequest) (domain.LeaveRequest, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if in.UserID == "" {
		in.UserID = actorID
	}
	if in.Status == "" {
		in.Status = domain.StatusPending
	}
	if in.Status != domain.StatusPending && in.Status != domain.StatusApproved {
		return domain.LeaveRequest{}, invalid("estado inicial no válido: %s", in.Status)
	}
	if in.TypeID == domain.TypeUnjustifiedAbsence || in.TypeID == domain.TypeAdjustmentDays || in.TypeID == domain.TypeAdjustmentOvertime {
		return domain.LeaveRequest{}, invalid("este tipo se registra desde su operación específica")
	}

	s.mu.RLock()
	actor, ok := s.userLocked(actorID)
	if !ok {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, ErrForbidden
	}
	if _, ok := s.userLocked(in.UserID); !ok {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, ErrNotFound
	}
	onBehalf := in.UserID != actorID
	if (onBehalf || in.Status == domain.StatusApproved) && !s.canManageLocked(actorID, in.UserID) {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, ErrForbidden
	}
	if !onBehalf && in.Status == domain.StatusApproved && actor.Role != domain.RoleAdmin {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, ErrForbidden
	}

	r := domain.LeaveRequest{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		TypeID:         in.TypeID,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Hours:          in.Hours,
		Reason:         strings.TrimSpace(in.Reason),
		Status:         in.Status,
		CreatedAt:      s.now(),
		CreatedByAdmin: onBehalf || in.Status == domain.StatusApproved,
		OvertimeUsage:  in.OvertimeUsage,
	}
	label, err := s.resolveLabelLocked(r.TypeID)
	if err == nil {
		r.Label = label
		err = s.validateRequestLocked(&r)
	}
	var lp ledgerPatch
	var touch bool
	if err == nil && r.Status == domain.StatusApproved && s.opts.AutoBalance {
		lp, touch, err = s.ledgerEffectLocked(r, 1)
		r.DaysDeducted = lp.deducted
	}
	s.mu.RUnlock()
	if err != nil {
		return domain.LeaveRequest{}, err
	}

	row := requestRow(r)
	if touch {
		err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			if err := tx.Request.Create(ctx, &row); err != nil {
				return err
			}
			return writeLedger(ctx, tx, lp)
		})
	} else {
		err = s.repo.Request.Create(ctx, &row)
	}
	if err != nil {
		return domain.LeaveRequest{}, s.writeFailed("CreateRequest", EntityRequest, err)
	}

	s.mu.Lock()
	s.data.requests = append(s.data.requests, r)
	if touch {
		s.commitLedgerLocked(lp)
	}
	s.mu.Unlock()

	s.notify(EntityRequest, ActionCreated, r.ID, r.UserID)
	if touch {
		s.notify(EntityUser, ActionUpdated, r.UserID, r.UserID)
	}
	return cloneRequest(r), nil
}

// UpdateRequest 编辑申请：本人仅限 PENDING，管理员可编辑非 APPROVED 的申请
func (s *Store) UpdateRequest(ctx context.Context, actorID, id string, p RequestPatch) (domain.LeaveRequest, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	r, ok := s.requestLocked(id)
	if !ok {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, ErrNotFound
	}
	actor, ok := s.userLocked(actorID)
	isAdmin := ok && actor.Role == domain.RoleAdmin
	if !isAdmin && r.UserID != actorID {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, ErrForbidden
	}
	if r.Status == domain.StatusApproved || (!isAdmin && r.Status != domain.StatusPending) {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, ErrInvalidTransition
	}

	r = cloneRequest(r)
	if p.StartDate != nil {
		r.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		r.EndDate = *p.EndDate
	}
	if p.Hours != nil {
		h := *p.Hours
		r.Hours = &h
	}
	if p.Reason != nil {
		r.Reason = strings.TrimSpace(*p.Reason)
	}
	if p.OvertimeUsage != nil {
		r.OvertimeUsage = *p.OvertimeUsage
	}
	err := s.validateRequestLocked(&r)
	s.mu.RUnlock()
	if err != nil {
		return domain.LeaveRequest{}, err
	}

	row := requestRow(r)
	row.UpdatedAt = s.now()
	if err := s.repo.Request.Update(ctx, &row); err != nil {
		return domain.LeaveRequest{}, s.writeFailed("UpdateRequest", EntityRequest, err)
	}

	s.mu.Lock()
	s.replaceRequestLocked(r)
	s.mu.Unlock()

	s.notify(EntityRequest, ActionUpdated, r.ID, r.UserID)
	return cloneRequest(r), nil
}

// UpdateRequestStatus 审批 / 驳回 / 撤销。驳回与撤销必须填写原因
func (s *Store) UpdateRequestStatus(ctx context.Context, actorID, id string, status domain.RequestStatus, comment string) (domain.LeaveRequest, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	comment = strings.TrimSpace(comment)

	s.mu.RLock()
	r, ok := s.requestLocked(id)
	if !ok {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, ErrNotFound
	}
	actor, _ := s.userLocked(actorID)
	if !s.canManageLocked(actorID, r.UserID) || (r.UserID == actorID && actor.Role != domain.RoleAdmin) {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, ErrForbidden
	}
	if !transitionAllowed(r.Status, status) {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, ErrInvalidTransition
	}
	if status == domain.StatusRejected && comment == "" {
		s.mu.RUnlock()
		return domain.LeaveRequest{}, invalid("el motivo del rechazo es obligatorio")
	}

	// 仅 PENDING→APPROVED 生效、APPROVED→REJECTED 撤回；驳回待审申请不触及余额
	var lp ledgerPatch
	var touch bool
	if s.opts.AutoBalance {
		var err error
		switch {
		case status == domain.StatusApproved:
			lp, touch, err = s.ledgerEffectLocked(r, 1)
		case r.Status == domain.StatusApproved && status == domain.StatusRejected:
			lp, touch, err = s.ledgerEffectLocked(r, -1)
		}
		if err != nil {
			s.mu.RUnlock()
			return domain.LeaveRequest{}, err
		}
	}
	s.mu.RUnlock()

	r = cloneRequest(r)
	r.Status = status
	if comment != "" {
		r.AdminComment = comment
	}
	fields := map[string]interface{}{
		"status":        string(r.Status),
		"admin_comment": ptrOrNil(r.AdminComment),
		"updated_at":    s.now(),
	}
	if touch {
		r.DaysDeducted = lp.deducted
		fields["days_deducted"] = lp.deducted
	}

	var err error
	if touch {
		err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			if err := tx.Request.UpdateFields(ctx, r.ID, fields); err != nil {
				return err
			}
			return writeLedger(ctx, tx, lp)
		})
	} else {
		err = s.repo.Request.UpdateFields(ctx, r.ID, fields)
	}
	if err != nil {
		return domain.LeaveRequest{}, s.writeFailed("UpdateRequestStatus", EntityRequest, err)
	}

	s.mu.Lock()
	s.replaceRequestLocked(r)
	if touch {
		s.commitLedgerLocked(lp)
	}
	s.mu.Unlock()

	s.logger.Info("申请状态变更",
		zap.String("request_id", r.ID),
		zap.String("status", string(status)),
		zap.String("actor_id", actorID),
		zap.Bool("ledger", touch),
	)
	s.notify(EntityRequest, ActionUpdated, r.ID, r.UserID)
	if touch {
		s.notify(EntityUser, ActionUpdated, r.UserID, r.UserID)
	}
	return cloneRequest(r), nil
}

// DeleteRequest 本人仅可删除 PENDING 的申请，管理员可删除任意申请
func (s *Store) DeleteRequest(ctx context.Context, actorID, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	r, ok := s.requestLocked(id)
	if !ok {
		s.mu.RUnlock()
		return ErrNotFound
	}
	actor, ok := s.userLocked(actorID)
	isAdmin := ok && actor.Role == domain.RoleAdmin
	if !isAdmin && r.UserID != actorID {
		s.mu.RUnlock()
		return ErrForbidden
	}
	if !isAdmin && r.Status != domain.StatusPending {
		s.mu.RUnlock()
		return ErrInvalidTransition
	}
	var lp ledgerPatch
	var touch bool
	if s.opts.AutoBalance && r.Status == domain.StatusApproved {
		lp, touch, _ = s.ledgerEffectLocked(r, -1)
	}
	s.mu.RUnlock()

	var err error
	if touch {
		err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			if err := tx.Request.Delete(ctx, id); err != nil {
				return err
			}
			return writeLedger(ctx, tx, lp)
		})
	} else {
		err = s.repo.Request.Delete(ctx, id)
	}
	if err != nil {
		return s.writeFailed("DeleteRequest", EntityRequest, err)
	}

	s.mu.Lock()
	s.data.requests = removeWhere(s.data.requests, func(x domain.LeaveRequest) bool { return x.ID == id })
	if touch {
		s.commitLedgerLocked(lp)
	}
	s.mu.Unlock()

	s.notify(EntityRequest, ActionDeleted, id, r.UserID)
	if touch {
		s.notify(EntityUser, ActionUpdated, r.UserID, r.UserID)
	}
	return nil
}

// ReportAbsence 主管/管理员登记缺勤，直接为 APPROVED 且默认未说明理由；主管登记的标记为已上报管理员
func (s *Store) ReportAbsence(ctx context.Context, actorID, userID, startDate, endDate, reason string) (domain.LeaveRequest, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	actor, _ := s.userLocked(actorID)
	canManage := s.canManageLocked(actorID, userID) && userID != actorID
	_, exists := s.userLocked(userID)
	s.mu.RUnlock()
	if !exists {
		return domain.LeaveRequest{}, ErrNotFound
	}
	if !canManage {
		return domain.LeaveRequest{}, ErrForbidden
	}
	if err := domain.ValidateRange(startDate, endDate); err != nil {
		return domain.LeaveRequest{}, invalid("fechas no válidas")
	}

	label, _ := domain.SystemTypeLabel(domain.TypeUnjustifiedAbsence)
	justified := false
	r := domain.LeaveRequest{
		ID:              uuid.NewString(),
		UserID:          userID,
		TypeID:          domain.TypeUnjustifiedAbsence,
		Label:           label,
		StartDate:       startDate,
		EndDate:         endDate,
		Reason:          strings.TrimSpace(reason),
		Status:          domain.StatusApproved,
		CreatedAt:       s.now(),
		CreatedByAdmin:  true,
		IsJustified:     &justified,
		ReportedToAdmin: actor.Role == domain.RoleSupervisor,
	}
	row := requestRow(r)
	if err := s.repo.Request.Create(ctx, &row); err != nil {
		return domain.LeaveRequest{}, s.writeFailed("ReportAbsence", EntityRequest, err)
	}

	s.mu.Lock()
	s.data.requests = append(s.data.requests, r)
	s.mu.Unlock()

	s.notify(EntityRequest, ActionCreated, r.ID, r.UserID)
	return cloneRequest(r), nil
}

// SetJustified 标记缺勤是否已说明理由
func (s *Store) SetJustified(ctx context.Context, actorID, id string, justified bool) (domain.LeaveRequest, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, ok := s.Request(id)
	if !ok {
		return domain.LeaveRequest{}, ErrNotFound
	}
	if r.TypeID != domain.TypeUnjustifiedAbsence {
		return domain.LeaveRequest{}, invalid("solo las ausencias admiten justificación")
	}
	if !s.CanManage(actorID, r.UserID) {
		return domain.LeaveRequest{}, ErrForbidden
	}

	if err := s.repo.Request.UpdateFields(ctx, id, map[string]interface{}{"is_justified": justified, "updated_at": s.now()}); err != nil {
		return domain.LeaveRequest{}, s.writeFailed("SetJustified", EntityRequest, err)
	}
	r.IsJustified = &justified

	s.mu.Lock()
	s.replaceRequestLocked(r)
	s.mu.Unlock()

	s.notify(EntityRequest, ActionUpdated, r.ID, r.UserID)
	return cloneRequest(r), nil
}

// ── 校验 ──

func transitionAllowed(from, to domain.RequestStatus) bool {
	switch from {
	case domain.StatusPending:
		return to == domain.StatusApproved || to == domain.StatusRejected
	case domain.StatusApproved:
		return to == domain.StatusRejected
	}
	return false
}

// resolveLabelLocked 创建时冻结类型名称
func (s *Store) resolveLabelLocked(typeID string) (string, error) {
	if label, ok := domain.SystemTypeLabel(typeID); ok {
		return label, nil
	}
	lt, ok := s.leaveTypeLocked(typeID)
	if !ok {
		return "", invalid("tipo de solicitud desconocido: %s", typeID)
	}
	return lt.Label, nil
}

// validateRequestLocked 校验日期、固定区间、小时数与加班消耗明细；消耗类申请未填小时数时取明细合计
func (s *Store) validateRequestLocked(r *domain.LeaveRequest) error {
	if err := domain.ValidateRange(r.StartDate, r.EndDate); err != nil {
		return invalid("fechas no válidas")
	}
	if r.EndDate == r.StartDate {
		r.EndDate = ""
	}
	if r.Hours != nil && (*r.Hours <= 0 || math.IsNaN(*r.Hours) || math.IsInf(*r.Hours, 0)) {
		return invalid("las horas deben ser mayores que cero")
	}

	if !domain.IsSystemType(r.TypeID) {
		if lt, ok := s.leaveTypeLocked(r.TypeID); ok && len(lt.FixedRanges) > 0 {
			matched := false
			for _, fr := range lt.FixedRanges {
				if fr.StartDate == r.StartDate && fr.EndDate == r.LastDate() {
					matched = true
					break
				}
			}
			if !matched {
				return invalid("las fechas deben coincidir con uno de los periodos definidos para %s", lt.Label)
			}
		}
	}

	if !domain.IsOvertimeSpending(r.TypeID) {
		r.OvertimeUsage = nil
		if domain.IsOvertimeEarning(r.TypeID) && r.Hours == nil {
			return invalid("las horas son obligatorias")
		}
		return nil
	}

	if len(r.OvertimeUsage) == 0 {
		return invalid("selecciona al menos un registro de horas extra")
	}
	used := map[string]float64{}
	var total float64
	for _, use := range r.OvertimeUsage {
		if use.HoursUsed <= 0 {
			return invalid("las horas utilizadas deben ser mayores que cero")
		}
		src, ok := s.requestLocked(use.RequestID)
		if !ok || src.UserID != r.UserID || src.Status != domain.StatusApproved || !domain.IsOvertimeEarning(src.TypeID) {
			return invalid("registro de horas extra no válido: %s", use.RequestID)
		}
		used[src.ID] += use.HoursUsed
		if used[src.ID] > src.Remaining()+hoursEpsilon {
			return invalid("el registro %s solo tiene %.2f horas disponibles", src.ID, src.Remaining())
		}
		total += use.HoursUsed
	}
	total = round2(total)
	if r.Hours == nil {
		r.Hours = &total
	} else if math.Abs(*r.Hours-total) > hoursEpsilon {
		return invalid("las horas seleccionadas (%.2f) no coinciden con las solicitadas (%.2f)", total, *r.Hours)
	}
	return nil
}

func (s *Store) replaceRequestLocked(r domain.LeaveRequest) {
	for i := range s.data.requests {
		if s.data.requests[i].ID == r.ID {
			s.data.requests[i] = r
			return
		}
	}
}

// ── helpers ──

// cloneRequest 复制指针与切片字段，避免调用方修改缓存
func cloneRequest(r domain.LeaveRequest) domain.LeaveRequest {
	if r.Hours != nil {
		h := *r.Hours
		r.Hours = &h
	}
	if r.IsJustified != nil {
		j := *r.IsJustified
		r.IsJustified = &j
	}
	if r.OvertimeUsage != nil {
		r.OvertimeUsage = append([]domain.OvertimeUsage(nil), r.OvertimeUsage...)
	}
	return r
}

func sortNewestFirst(list []domain.LeaveRequest) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

func touchesYear(r domain.LeaveRequest, year int) bool {
	from := domain.FormatDate(yearStart(year))
	to := domain.FormatDate(yearStart(year + 1).AddDate(0, 0, -1))
	return domain.RangesOverlap(r.StartDate, r.LastDate(), from, to)
}
