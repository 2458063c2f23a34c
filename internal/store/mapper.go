package store

import (
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

const defaultShiftColor = "#64748b"

// mapper 负责行 ↔ 领域对象转换；JSON 列在此校验，格式错误的元素丢弃并记录日志
type mapper struct {
	logger *zap.Logger
}

// ── 行 → 领域对象 ──

func (m mapper) user(row model.User) domain.User {
	u := domain.User{
		ID:                 row.ID,
		Name:               row.Name,
		Email:              normalizeEmail(row.Email),
		Role:               domain.Role(row.Role),
		DaysAvailable:      row.DaysAvailable,
		OvertimeHours:      row.OvertimeHours,
		Avatar:             row.Avatar,
		MustChangePassword: row.MustChangePassword,
		PasswordHash:       row.PasswordHash,
	}
	if !u.Role.Valid() {
		m.logger.Warn("未知角色，按 WORKER 处理", zap.String("user_id", row.ID), zap.String("role", row.Role))
		u.Role = domain.RoleWorker
	}
	if row.DepartmentID != nil {
		u.DepartmentID = *row.DepartmentID
	}
	if row.Birthdate != nil {
		u.Birthdate = domain.FormatDate(*row.Birthdate)
	}
	return u
}

func (m mapper) department(row model.Department) domain.Department {
	return domain.Department{
		ID:            row.ID,
		Name:          row.Name,
		SupervisorIDs: dedupe(row.SupervisorIDs),
	}
}

func (m mapper) request(row model.Request) domain.LeaveRequest {
	r := domain.LeaveRequest{
		ID:              row.ID,
		UserID:          row.UserID,
		TypeID:          row.TypeID,
		Label:           row.Label,
		StartDate:       domain.FormatDate(row.StartDate),
		Hours:           row.Hours,
		Reason:          deref(row.Reason),
		Status:          domain.RequestStatus(row.Status),
		CreatedAt:       row.CreatedAt,
		AdminComment:    deref(row.AdminComment),
		CreatedByAdmin:  row.CreatedByAdmin,
		IsConsumed:      row.IsConsumed,
		ConsumedHours:   row.ConsumedHours,
		DaysDeducted:    row.DaysDeducted,
		IsJustified:     row.IsJustified,
		ReportedToAdmin: row.ReportedToAdmin,
	}
	if row.EndDate != nil {
		r.EndDate = domain.FormatDate(*row.EndDate)
	}
	if !r.Status.Valid() {
		m.logger.Warn("未知申请状态，按 PENDING 处理", zap.String("request_id", row.ID), zap.String("status", row.Status))
		r.Status = domain.StatusPending
	}

	var usage []model.OvertimeUsageRow
	if m.decode(row.OvertimeUsage, &usage, "requests.overtime_usage", row.ID) {
		for _, u := range usage {
			if u.RequestID == "" || u.HoursUsed <= 0 {
				m.logger.Warn("丢弃无效的加班消耗明细", zap.String("request_id", row.ID), zap.Any("entry", u))
				continue
			}
			r.OvertimeUsage = append(r.OvertimeUsage, domain.OvertimeUsage{RequestID: u.RequestID, HoursUsed: u.HoursUsed})
		}
	}
	return r
}

func (m mapper) leaveType(row model.LeaveType) domain.LeaveTypeConfig {
	lt := domain.LeaveTypeConfig{
		ID:            row.ID,
		Label:         row.Label,
		SubtractsDays: row.SubtractsDays,
	}
	var ranges []model.FixedRangeRow
	if m.decode(row.FixedRanges, &ranges, "leave_types.fixed_ranges", row.ID) {
		for _, fr := range ranges {
			if domain.ValidateRange(fr.StartDate, fr.EndDate) != nil || fr.EndDate == "" {
				m.logger.Warn("丢弃无效的固定日期区间", zap.String("leave_type_id", row.ID), zap.Any("range", fr))
				continue
			}
			lt.FixedRanges = append(lt.FixedRanges, domain.FixedRange{StartDate: fr.StartDate, EndDate: fr.EndDate, Label: fr.Label})
		}
	}
	return lt
}

func (m mapper) shiftType(row model.ShiftType) domain.ShiftType {
	st := domain.ShiftType{
		ID:       row.ID,
		Name:     row.Name,
		Color:    row.Color,
		Segments: []domain.ShiftSegment{},
	}
	if !domain.ValidColor(st.Color) {
		st.Color = defaultShiftColor
	}
	var segs []model.SegmentRow
	if m.decode(row.Segments, &segs, "shift_types.segments", row.ID) {
		for _, seg := range segs {
			if !domain.ValidTimeOfDay(seg.Start) || !domain.ValidTimeOfDay(seg.End) {
				m.logger.Warn("丢弃无效的班次时间段", zap.String("shift_type_id", row.ID), zap.Any("segment", seg))
				continue
			}
			st.Segments = append(st.Segments, domain.ShiftSegment{Start: seg.Start, End: seg.End})
		}
	}
	return st
}

func (m mapper) shiftAssignment(row model.ShiftAssignment) domain.ShiftAssignment {
	return domain.ShiftAssignment{
		ID:          row.ID,
		UserID:      row.UserID,
		Date:        domain.FormatDate(row.Date),
		ShiftTypeID: row.ShiftTypeID,
	}
}

func (m mapper) holiday(row model.Holiday) domain.Holiday {
	return domain.Holiday{ID: row.ID, Date: domain.FormatDate(row.Date), Name: row.Name}
}

func (m mapper) ppeType(row model.PPEType) domain.PPEType {
	pt := domain.PPEType{ID: row.ID, Name: row.Name, Sizes: []string{}}
	var sizes []string
	if m.decode(row.Sizes, &sizes, "ppe_types.sizes", row.ID) {
		pt.Sizes = cleanSizes(sizes)
	}
	return pt
}

func (m mapper) ppeRequest(row model.PPERequest) domain.PPERequest {
	return domain.PPERequest{
		ID:           row.ID,
		UserID:       row.UserID,
		TypeID:       row.TypeID,
		Size:         row.Size,
		Status:       domain.PPEStatus(row.Status),
		CreatedAt:    row.CreatedAt,
		DeliveryDate: row.DeliveryDate,
	}
}

func (m mapper) notification(row model.Notification) domain.Notification {
	return domain.Notification{ID: row.ID, UserID: row.UserID, Message: row.Message, Read: row.Read, Date: row.Date}
}

func (m mapper) news(row model.News) domain.NewsPost {
	return domain.NewsPost{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		AuthorID:  row.AuthorID,
		CreatedAt: row.CreatedAt,
		PublishAt: row.PublishAt,
		Pinned:    row.Pinned,
		Announced: row.Announced,
	}
}

func (m mapper) settings(rows []model.Setting) (domain.SmtpSettings, []domain.EmailTemplate) {
	var smtp domain.SmtpSettings
	templates := []domain.EmailTemplate{}
	for _, row := range rows {
		switch row.Key {
		case model.SettingKeySMTP:
			if !m.decode(row.Value, &smtp, "settings.smtp_settings", row.Key) {
				smtp = domain.SmtpSettings{}
			}
		case model.SettingKeyEmailTemplates:
			var list []domain.EmailTemplate
			if m.decode(row.Value, &list, "settings.email_templates", row.Key) {
				seen := map[string]bool{}
				for _, t := range list {
					if t.ID == "" || seen[t.ID] {
						m.logger.Warn("丢弃无效的邮件模板", zap.String("template_id", t.ID))
						continue
					}
					seen[t.ID] = true
					templates = append(templates, t)
				}
			}
		}
	}
	return smtp, templates
}

// decode 解析 JSON 列；空值返回 false 且不记日志
func (m mapper) decode(raw datatypes.JSON, dst interface{}, column, id string) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		m.logger.Warn("JSON 列格式错误，已忽略", zap.String("column", column), zap.String("id", id), zap.Error(err))
		return false
	}
	return true
}

// ── 领域对象 → 行 ──

func userRow(u domain.User) model.User {
	row := model.User{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		Role:               string(u.Role),
		DaysAvailable:      u.DaysAvailable,
		OvertimeHours:      u.OvertimeHours,
		Avatar:             u.Avatar,
		MustChangePassword: u.MustChangePassword,
	}
	if u.DepartmentID != "" {
		row.DepartmentID = &u.DepartmentID
	}
	if t, err := domain.ParseDate(u.Birthdate); err == nil {
		row.Birthdate = &t
	}
	return row
}

func requestRow(r domain.LeaveRequest) model.Request {
	row := model.Request{
		ID:              r.ID,
		UserID:          r.UserID,
		TypeID:          r.TypeID,
		Label:           r.Label,
		Hours:           r.Hours,
		Reason:          ptrOrNil(r.Reason),
		Status:          string(r.Status),
		AdminComment:    ptrOrNil(r.AdminComment),
		CreatedByAdmin:  r.CreatedByAdmin,
		IsConsumed:      r.IsConsumed,
		ConsumedHours:   r.ConsumedHours,
		DaysDeducted:    r.DaysDeducted,
		IsJustified:     r.IsJustified,
		ReportedToAdmin: r.ReportedToAdmin,
	}
	row.CreatedAt = r.CreatedAt
	row.UpdatedAt = r.CreatedAt
	row.StartDate, _ = domain.ParseDate(r.StartDate)
	if r.EndDate != "" {
		if t, err := domain.ParseDate(r.EndDate); err == nil {
			row.EndDate = &t
		}
	}
	if len(r.OvertimeUsage) > 0 {
		usage := make([]model.OvertimeUsageRow, 0, len(r.OvertimeUsage))
		for _, u := range r.OvertimeUsage {
			usage = append(usage, model.OvertimeUsageRow{RequestID: u.RequestID, HoursUsed: u.HoursUsed})
		}
		row.OvertimeUsage = mustJSON(usage)
	}
	return row
}

func leaveTypeRow(lt domain.LeaveTypeConfig) model.LeaveType {
	ranges := make([]model.FixedRangeRow, 0, len(lt.FixedRanges))
	for _, fr := range lt.FixedRanges {
		ranges = append(ranges, model.FixedRangeRow{StartDate: fr.StartDate, EndDate: fr.EndDate, Label: fr.Label})
	}
	return model.LeaveType{
		ID:            lt.ID,
		Label:         lt.Label,
		SubtractsDays: lt.SubtractsDays,
		FixedRanges:   mustJSON(ranges),
	}
}

func shiftTypeRow(st domain.ShiftType) model.ShiftType {
	segs := make([]model.SegmentRow, 0, len(st.Segments))
	for _, seg := range st.Segments {
		segs = append(segs, model.SegmentRow{Start: seg.Start, End: seg.End})
	}
	return model.ShiftType{ID: st.ID, Name: st.Name, Color: st.Color, Segments: mustJSON(segs)}
}

func ppeTypeRow(pt domain.PPEType) model.PPEType {
	return model.PPEType{ID: pt.ID, Name: pt.Name, Sizes: mustJSON(pt.Sizes)}
}

func newsRow(n domain.NewsPost) model.News {
	return model.News{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		AuthorID:  n.AuthorID,
		Pinned:    n.Pinned,
		PublishAt: n.PublishAt,
		Announced: n.Announced,
		CreatedAt: n.CreatedAt,
	}
}

// ── helpers ──

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func cleanSizes(sizes []string) []string {
	return dedupe(sizes)
}

func dateOf(t time.Time) string {
	return domain.FormatDate(t)
}

func shiftAssignmentRow(a domain.ShiftAssignment) model.ShiftAssignment {
	row := model.ShiftAssignment{ID: a.ID, UserID: a.UserID, ShiftTypeID: a.ShiftTypeID}
	row.Date, _ = domain.ParseDate(a.Date)
	return row
}
