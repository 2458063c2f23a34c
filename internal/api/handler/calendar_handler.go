package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// maxCalendarDays 单次日历查询的最大天数
const maxCalendarDays = 93

// CalendarHandler 日历：节假日、排班与已批准的缺勤
type CalendarHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(st *store.Store, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{store: st, logger: logger}
}

// Calendar 按天汇总
// GET /api/v1/calendar?from=2025-06-01&to=2025-06-30
//
// 排班与缺勤只包含本人及有审批权的员工，管理员可见全部。
func (h *CalendarHandler) Calendar(c *gin.Context) {
	me, ok := MustGetUser(c)
	if !ok {
		return
	}

	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	days := domain.DaysInclusive(q.From, q.To)
	if days <= 0 || days > maxCalendarDays {
		response.BadRequest(c, moduleCatalog+2, "El intervalo debe tener entre 1 y 93 días")
		return
	}

	start, _ := domain.ParseDate(q.From)
	out := make([]dto.CalendarDay, days)
	index := make(map[string]int, days)
	for i := range out {
		date := domain.FormatDate(start.AddDate(0, 0, i))
		out[i] = dto.CalendarDay{
			Date:     date,
			Shifts:   []domain.ShiftAssignment{},
			Absences: []domain.LeaveRequest{},
		}
		if hol, ok := h.store.IsHoliday(date); ok {
			out[i].Holiday = &hol
		}
		index[date] = i
	}

	visible := func(userID string) bool {
		return me.Role == domain.RoleAdmin || userID == me.ID || h.store.CanManage(me.ID, userID)
	}

	for _, a := range h.store.ShiftAssignments(q.From, q.To) {
		if i, ok := index[a.Date]; ok && visible(a.UserID) {
			out[i].Shifts = append(out[i].Shifts, a)
		}
	}

	absences, err := h.store.UpcomingAbsences(me.ID, q.From, days)
	if err != nil {
		handleStoreError(c, h.logger, moduleRequest, err)
		return
	}
	for _, r := range absences {
		from, _ := domain.ParseDate(r.StartDate)
		to, _ := domain.ParseDate(r.LastDate())
		for d := from; !d.After(to); d = d.Add(24 * time.Hour) {
			if i, ok := index[domain.FormatDate(d)]; ok {
				out[i].Absences = append(out[i].Absences, r)
			}
		}
	}

	response.OK(c, gin.H{"list": out})
}
