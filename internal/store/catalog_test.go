package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
)

// ── 排班 ──

func newShiftEnv(t *testing.T) (*testEnv, domain.ShiftType) {
	t.Helper()
	env := newTestEnv(Options{})
	st, err := env.store.CreateShiftType(context.Background(), domain.ShiftType{
		Name:     "Mañana",
		Segments: []domain.ShiftSegment{{Start: "07:00", End: "15:00"}},
	})
	if err != nil {
		t.Fatalf("创建班次类型失败: %v", err)
	}
	return env, st
}

func TestStore_AssignShift_EraseEmptyCellTwice(t *testing.T) {
	env, _ := newShiftEnv(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := env.store.AssignShift(ctx, "ana", "2025-07-01", ""); err != nil {
			t.Fatalf("第 %d 次清除失败: %v", i+1, err)
		}
	}
	if _, ok := env.store.ShiftForUserDate("ana", "2025-07-01"); ok {
		t.Error("空单元格清除后不应存在排班")
	}
	if n := len(env.backend.Shifts.Rows); n != 0 {
		t.Errorf("后端不应有排班行，实际 %d", n)
	}
	if env.backend.Shifts.Deletes != 0 {
		t.Errorf("空单元格清除不应访问后端，实际删除 %d 次", env.backend.Shifts.Deletes)
	}
}

func TestStore_AssignShift_UpsertAndClear(t *testing.T) {
	env, morning := newShiftEnv(t)
	ctx := context.Background()
	night, _ := env.store.CreateShiftType(ctx, domain.ShiftType{Name: "Noche", Color: "#1e293b"})

	if err := env.store.AssignShift(ctx, "ana", "2025-07-01", morning.ID); err != nil {
		t.Fatalf("排班失败: %v", err)
	}
	if err := env.store.AssignShift(ctx, "ana", "2025-07-01", night.ID); err != nil {
		t.Fatalf("改班失败: %v", err)
	}
	a, ok := env.store.ShiftForUserDate("ana", "2025-07-01")
	if !ok || a.ShiftTypeID != night.ID {
		t.Errorf("期望改为夜班，实际 %+v", a)
	}
	if n := len(env.store.ShiftAssignments("", "")); n != 1 {
		t.Errorf("同一天只能有一条排班，实际 %d", n)
	}

	if err := env.store.AssignShift(ctx, "ana", "2025-07-01", ""); err != nil {
		t.Fatalf("清除失败: %v", err)
	}
	if _, ok := env.store.ShiftForUserDate("ana", "2025-07-01"); ok {
		t.Error("清除后不应存在排班")
	}
	if err := env.store.AssignShift(ctx, "ana", "2025-07-01", "ghost"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("未知班次期望 ErrInvalidInput，实际 %v", err)
	}
}

func TestStore_NextShift(t *testing.T) {
	env, st := newShiftEnv(t)
	ctx := context.Background()
	for _, d := range []string{"2025-06-10", "2025-06-20", "2025-06-18"} {
		if err := env.store.AssignShift(ctx, "ana", d, st.ID); err != nil {
			t.Fatalf("排班失败: %v", err)
		}
	}
	next, ok := env.store.NextShift("ana", "2025-06-15")
	if !ok || next.Date != "2025-06-18" {
		t.Errorf("期望 2025-06-18，实际 %+v", next)
	}
	if _, ok := env.store.NextShift("ana", "2025-07-01"); ok {
		t.Error("之后没有排班时应返回 false")
	}
}

func TestStore_DeleteShiftType_RemovesAssignments(t *testing.T) {
	env, st := newShiftEnv(t)
	ctx := context.Background()
	_ = env.store.AssignShift(ctx, "ana", "2025-07-01", st.ID)

	if err := env.store.DeleteShiftType(ctx, st.ID); err != nil {
		t.Fatalf("删除班次类型失败: %v", err)
	}
	if n := len(env.store.ShiftAssignments("", "")); n != 0 {
		t.Errorf("引用该班次的排班应移除，实际 %d", n)
	}
	if _, err := env.store.CreateShiftType(ctx, domain.ShiftType{Name: "X", Color: "red"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("非法颜色期望 ErrInvalidInput，实际 %v", err)
	}
}

// ── 节假日 ──

func TestStore_Holidays(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()
	for _, h := range []struct{ date, name string }{
		{"2025-12-25", "Navidad"},
		{"2025-01-06", "Reyes"},
		{"2026-01-01", "Año Nuevo"},
	} {
		if _, err := env.store.CreateHoliday(ctx, h.date, h.name); err != nil {
			t.Fatalf("创建节假日失败: %v", err)
		}
	}

	list := env.store.Holidays(2025)
	if len(list) != 2 || list[0].Name != "Reyes" {
		t.Errorf("期望 2025 年 2 个且按日期排序，实际 %+v", list)
	}
	if _, ok := env.store.IsHoliday("2025-12-25"); !ok {
		t.Error("2025-12-25 应为节假日")
	}
	if _, err := env.store.CreateHoliday(ctx, "25/12/2025", "X"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("非法日期期望 ErrInvalidInput，实际 %v", err)
	}
	if err := env.store.DeleteHoliday(ctx, list[0].ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if len(env.store.Holidays(2025)) != 1 {
		t.Error("删除后应剩 1 个")
	}
}

// ── 防护用品 ──

func TestStore_PPEDelivery_OneWay(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	pt, err := env.store.CreatePPEType(ctx, "Botas de seguridad", []string{"40", "42", "42", " "})
	if err != nil {
		t.Fatalf("创建用品类型失败: %v", err)
	}
	if len(pt.Sizes) != 2 {
		t.Errorf("尺码应去重去空，实际 %v", pt.Sizes)
	}
	if _, err := env.store.CreatePPERequest(ctx, "ana", pt.ID, "44"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("无效尺码期望 ErrInvalidInput，实际 %v", err)
	}
	req, err := env.store.CreatePPERequest(ctx, "ana", pt.ID, "42")
	if err != nil {
		t.Fatalf("申领失败: %v", err)
	}
	if req.Status != domain.PPEPending || req.DeliveryDate != nil {
		t.Errorf("期望 PENDIENTE 且无发放日期，实际 %+v", req)
	}

	delivered, err := env.store.DeliverPPE(ctx, req.ID)
	if err != nil {
		t.Fatalf("发放失败: %v", err)
	}
	if delivered.Status != domain.PPEDelivered || delivered.DeliveryDate == nil || !delivered.DeliveryDate.Equal(fixedNow) {
		t.Errorf("期望 ENTREGADO 且发放日期为调用时刻，实际 %+v", delivered)
	}
	if _, err := env.store.DeliverPPE(ctx, req.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("重复发放期望 ErrInvalidTransition，实际 %v", err)
	}
	if err := env.store.DeletePPERequest(ctx, "ana", req.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("员工删除已发放申领期望 ErrInvalidTransition，实际 %v", err)
	}
	if got := env.store.PPERequests("ana"); len(got) != 1 || got[0].Status != domain.PPEDelivered {
		t.Errorf("期望 1 条已发放申领，实际 %+v", got)
	}
}

func TestStore_PPERequest_ReturnsCopies(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	pt, err := env.store.CreatePPEType(ctx, "Guantes", nil)
	if err != nil {
		t.Fatalf("创建防护用品类型失败: %v", err)
	}
	req, _ := env.store.CreatePPERequest(ctx, "ana", pt.ID, "")
	delivered, err := env.store.DeliverPPE(ctx, req.ID)
	if err != nil {
		t.Fatalf("发放失败: %v", err)
	}

	later := fixedNow.Add(72 * time.Hour)
	*delivered.DeliveryDate = later
	got, _ := env.store.PPERequest(req.ID)
	*got.DeliveryDate = later
	list := env.store.PPERequests("ana")
	*list[0].DeliveryDate = later

	got, _ = env.store.PPERequest(req.ID)
	if !got.DeliveryDate.Equal(fixedNow) {
		t.Errorf("修改返回值不应影响缓存，期望 %s，实际 %s", fixedNow, got.DeliveryDate)
	}
}

// ── 通知 ──

func TestStore_Notifications(t *testing.T) {
	clock := fixedNow
	env := newTestEnv(Options{Now: func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}})
	ctx := context.Background()

	first, _ := env.store.CreateNotification(ctx, "ana", "Primera")
	second, _ := env.store.CreateNotification(ctx, "ana", "Segunda")

	list := env.store.NotificationsForUser("ana")
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("期望最新在前，实际 %+v", list)
	}
	if env.store.UnreadCount("ana") != 2 {
		t.Errorf("期望 2 条未读")
	}
	if err := env.store.MarkNotificationRead(ctx, "luis", first.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("他人标记已读期望 ErrForbidden，实际 %v", err)
	}
	if err := env.store.MarkNotificationRead(ctx, "ana", first.ID); err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}
	if env.store.UnreadCount("ana") != 1 {
		t.Errorf("期望 1 条未读")
	}
	if err := env.store.MarkAllNotificationsRead(ctx, "ana"); err != nil {
		t.Fatalf("全部已读失败: %v", err)
	}
	if env.store.UnreadCount("ana") != 0 {
		t.Errorf("期望 0 条未读")
	}
	if err := env.store.DeleteNotification(ctx, "ana", second.ID); err != nil {
		t.Fatalf("删除通知失败: %v", err)
	}
	if len(env.store.NotificationsForUser("ana")) != 1 {
		t.Error("删除后应剩 1 条")
	}
}

func TestStore_BroadcastNotification(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	if _, err := env.store.BroadcastNotification(ctx, nil, "Aviso"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("空收件人期望 ErrInvalidInput，实际 %v", err)
	}
	if _, err := env.store.BroadcastNotification(ctx, []string{"ana"}, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("空消息期望 ErrInvalidInput，实际 %v", err)
	}
	list, err := env.store.BroadcastNotification(ctx, []string{"ana", "luis", "ana", "ghost"}, "Cierre el viernes")
	if err != nil {
		t.Fatalf("群发失败: %v", err)
	}
	if len(list) != 2 || len(env.backend.Notifications.Rows) != 2 {
		t.Errorf("期望去重且忽略未知用户后 2 条，实际 %d", len(list))
	}
}

func TestStore_Notification_BackendFailure(t *testing.T) {
	env := newTestEnv(Options{})
	env.backend.Notifications.Err = errBackendDown
	if _, err := env.store.CreateNotification(context.Background(), "ana", "Hola"); !errors.Is(err, ErrBackend) {
		t.Fatalf("期望 ErrBackend，实际 %v", err)
	}
	if n := len(env.store.NotificationsForUser("ana")); n != 0 {
		t.Errorf("写入失败后缓存不应变化，实际 %d", n)
	}
}

// ── 公告 ──

func TestStore_News_PublishedPinnedFirst(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	future := fixedNow.Add(48 * time.Hour)
	past := fixedNow.Add(-time.Hour)
	if _, err := env.store.CreateNews(ctx, "admin", NewsInput{Title: "Normal", PublishAt: &past}); err != nil {
		t.Fatalf("创建公告失败: %v", err)
	}
	pinned, _ := env.store.CreateNews(ctx, "admin", NewsInput{Title: "Fijada", Pinned: true, PublishAt: &past})
	scheduled, _ := env.store.CreateNews(ctx, "admin", NewsInput{Title: "Programada", PublishAt: &future})

	list := env.store.News(fixedNow)
	if len(list) != 2 || list[0].ID != pinned.ID {
		t.Errorf("期望 2 条已发布且置顶在前，实际 %+v", list)
	}
	if len(env.store.AllNews()) != 3 {
		t.Error("管理视图应包含定时公告")
	}

	due := env.store.DueAnnouncements(fixedNow)
	if len(due) != 2 {
		t.Fatalf("期望 2 条待通知，实际 %d", len(due))
	}
	ids := []string{due[0].ID, due[1].ID}
	if err := env.store.MarkNewsAnnounced(ctx, ids); err != nil {
		t.Fatalf("标记失败: %v", err)
	}
	if len(env.store.DueAnnouncements(fixedNow)) != 0 {
		t.Error("标记后不应有待通知公告")
	}
	later := env.store.DueAnnouncements(future.Add(time.Minute))
	if len(later) != 1 || later[0].ID != scheduled.ID {
		t.Errorf("到点后定时公告应待通知，实际 %+v", later)
	}

	if _, err := env.store.CreateNews(ctx, "admin", NewsInput{Title: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("空标题期望 ErrInvalidInput，实际 %v", err)
	}
}

// ── 设置 ──

func TestStore_Settings(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	if _, err := env.store.SaveSmtpSettings(ctx, domain.SmtpSettings{Enabled: true}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("启用但无主机期望 ErrInvalidInput，实际 %v", err)
	}
	cfg := domain.SmtpSettings{Host: "smtp.gda.es", Port: 587, User: "rrhh@gda.es", Password: "x", Enabled: true}
	if _, err := env.store.SaveSmtpSettings(ctx, cfg); err != nil {
		t.Fatalf("保存 SMTP 失败: %v", err)
	}

	dup := []domain.EmailTemplate{{ID: "a", Subject: "A"}, {ID: "a", Subject: "B"}}
	if _, err := env.store.SaveEmailTemplates(ctx, dup); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("重复模板期望 ErrInvalidInput，实际 %v", err)
	}
	tpls := []domain.EmailTemplate{{ID: "request_created", Label: "Nueva solicitud", Subject: "Solicitud de {empleado}", Body: "{tipo}: {fechas}"}}
	if _, err := env.store.SaveEmailTemplates(ctx, tpls); err != nil {
		t.Fatalf("保存模板失败: %v", err)
	}

	if err := env.store.Refresh(ctx); err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if got := env.store.SmtpSettings(); got != cfg {
		t.Errorf("刷新后 SMTP 应一致，实际 %+v", got)
	}
	if tpl, ok := env.store.EmailTemplate("request_created"); !ok || tpl.Subject != "Solicitud de {empleado}" {
		t.Errorf("刷新后模板应一致，实际 %+v", tpl)
	}
}
