package store

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

func TestStore_Init_LoadsAndNormalizes(t *testing.T) {
	b := newMockBackend()
	b.Seed()
	b.Users.Rows["ana"].Email = "  Ana@GDA.es "
	b.ShiftTypes.Rows["st-1"] = &model.ShiftType{ID: "st-1", Name: "Mañana", Color: "not-a-color", Segments: []byte(`[{"start":"07:00","end":"15:00"},{"start":"bad","end":"x"}]`)}
	b.LeaveTypes.Rows["lt-broken"] = &model.LeaveType{ID: "lt-broken", Label: "Roto", FixedRanges: []byte(`{"not":"an array"}`)}

	s := New(b.Repository(), zap.NewNop(), Options{})
	if s.Loaded() {
		t.Fatal("Init 之前不应为已加载")
	}
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init 失败: %v", err)
	}
	if !s.Loaded() {
		t.Fatal("期望已加载")
	}

	if u, ok := s.UserByEmail("ana@gda.es"); !ok || u.ID != "ana" {
		t.Errorf("期望邮箱规范化后可查到 ana，实际 %v", ok)
	}
	st, _ := s.ShiftType("st-1")
	if st.Color != defaultShiftColor || len(st.Segments) != 1 {
		t.Errorf("期望颜色回落默认值且丢弃无效时间段，实际 %+v", st)
	}
	if lt, ok := s.LeaveType("lt-broken"); !ok || len(lt.FixedRanges) != 0 {
		t.Errorf("格式错误的 fixed_ranges 应被忽略，实际 %+v", lt)
	}
}

func TestStore_Init_FailureIsReported(t *testing.T) {
	b := newMockBackend()
	b.Users.Err = errBackendDown
	s := New(b.Repository(), zap.NewNop(), Options{})
	if err := s.Init(context.Background()); !errors.Is(err, errBackendDown) {
		t.Fatalf("期望返回底层错误，实际 %v", err)
	}
	if s.Loaded() {
		t.Error("加载失败不应标记为已加载")
	}
}

func TestStore_Refresh_KeepsOldDataOnFailure(t *testing.T) {
	env := newTestEnv(Options{})
	before := len(env.store.Users())

	env.backend.Users.Err = errBackendDown
	if err := env.store.Refresh(context.Background()); err == nil {
		t.Fatal("期望刷新失败")
	}
	if got := len(env.store.Users()); got != before {
		t.Errorf("刷新失败应保留旧缓存，期望 %d，实际 %d", before, got)
	}
}

func TestStore_Subscribe_ReceivesEvents(t *testing.T) {
	env := newTestEnv(Options{})
	ch, cancel := env.store.Subscribe()

	if env.store.SubscriberCount() != 1 {
		t.Fatalf("期望 1 个订阅者，实际 %d", env.store.SubscriberCount())
	}
	if _, err := env.store.CreateNotification(context.Background(), "ana", "Hola"); err != nil {
		t.Fatalf("创建通知失败: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Entity != EntityNotification || ev.Action != ActionCreated || ev.UserID != "ana" {
			t.Errorf("事件内容不符: %+v", ev)
		}
		if !ev.At.Equal(fixedNow) {
			t.Errorf("期望事件时间为 %v，实际 %v", fixedNow, ev.At)
		}
	case <-time.After(time.Second):
		t.Fatal("未收到事件")
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("取消后通道应关闭")
	}
	if env.store.SubscriberCount() != 0 {
		t.Errorf("取消后期望 0 个订阅者，实际 %d", env.store.SubscriberCount())
	}
}

func TestStore_Subscribe_FullChannelDoesNotBlock(t *testing.T) {
	env := newTestEnv(Options{})
	_, cancel := env.store.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < defaultSubscriberBuffer*2; i++ {
			env.store.notify(EntityNews, ActionUpdated, "n", "")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("通道满时 notify 不应阻塞")
	}
}

func TestStore_Refresh_BroadcastsRefreshed(t *testing.T) {
	env := newTestEnv(Options{})
	ch, cancel := env.store.Subscribe()
	defer cancel()

	if err := env.store.Refresh(context.Background()); err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	ev := <-ch
	if ev.Entity != EntityAll || ev.Action != ActionRefreshed {
		t.Errorf("期望 refreshed 事件，实际 %+v", ev)
	}
}

// ── 员工 ──

func TestStore_CreateUser(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	u, err := env.store.CreateUser(ctx, NewUser{Name: "Marta", Email: " Marta@GDA.es ", Password: "secreto1", DepartmentID: "dept-log"})
	if err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}
	if u.Email != "marta@gda.es" || u.Role != domain.RoleWorker || !u.MustChangePassword {
		t.Errorf("期望邮箱小写、默认 WORKER、需改密，实际 %+v", u)
	}
	if env.backend.Users.Rows[u.ID].PasswordHash == "secreto1" || u.PasswordHash == "" {
		t.Error("密码应以哈希存储")
	}

	if _, err := env.store.CreateUser(ctx, NewUser{Name: "X", Email: "x@gda.es", Password: "123"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("短密码期望 ErrInvalidInput，实际 %v", err)
	}
	if _, err := env.store.CreateUser(ctx, NewUser{Name: "X", Email: "x@gda.es", Password: "secreto1", DepartmentID: "nope"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("未知部门期望 ErrInvalidInput，实际 %v", err)
	}
	_, err = env.store.CreateUser(ctx, NewUser{Name: "Otra Ana", Email: "ana@gda.es", Password: "secreto1"})
	if !errors.Is(err, ErrDuplicate) || !errors.Is(err, ErrBackend) {
		t.Errorf("重复邮箱期望 ErrDuplicate 与 ErrBackend，实际 %v", err)
	}
}

func TestStore_UpdateProfile_OnlyOwnFields(t *testing.T) {
	env := newTestEnv(Options{})
	name, birth := "Ana María", "1990-04-12"
	u, err := env.store.UpdateProfile(context.Background(), "ana", ProfilePatch{Name: &name, Birthdate: &birth})
	if err != nil {
		t.Fatalf("修改资料失败: %v", err)
	}
	if u.Name != name || u.Birthdate != birth || u.DaysAvailable != 22 {
		t.Errorf("资料未正确更新: %+v", u)
	}
	bad := "12/04/1990"
	if _, err := env.store.UpdateProfile(context.Background(), "ana", ProfilePatch{Birthdate: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("非法生日期望 ErrInvalidInput，实际 %v", err)
	}
}

func TestStore_DeleteUser_CascadesCache(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	if _, err := env.store.CreateRequest(ctx, "sup", vacation("2025-07-01", "")); err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	if _, err := env.store.CreateNotification(ctx, "sup", "Hola"); err != nil {
		t.Fatalf("创建通知失败: %v", err)
	}

	if err := env.store.DeleteUser(ctx, "sup"); err != nil {
		t.Fatalf("删除员工失败: %v", err)
	}
	if _, ok := env.store.User("sup"); ok {
		t.Error("员工应已删除")
	}
	if n := len(env.store.Requests(RequestFilter{UserID: "sup"})); n != 0 {
		t.Errorf("其申请应从缓存移除，实际 %d", n)
	}
	if n := len(env.store.NotificationsForUser("sup")); n != 0 {
		t.Errorf("其通知应从缓存移除，实际 %d", n)
	}
	d, _ := env.store.Department("dept-ops")
	if len(d.SupervisorIDs) != 0 {
		t.Errorf("应从部门主管列表移除，实际 %v", d.SupervisorIDs)
	}
	if got := env.backend.Departments.Rows["dept-ops"].SupervisorIDs; len(got) != 0 {
		t.Errorf("后端部门主管列表应已更新，实际 %v", got)
	}
}

// ── 部门 ──

func TestStore_Department_RoundTrip(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	d, err := env.store.CreateDepartment(ctx, "Calidad", []string{"sup", "ana", "sup"})
	if err != nil {
		t.Fatalf("创建部门失败: %v", err)
	}
	if err := env.store.Refresh(ctx); err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	got, ok := env.store.Department(d.ID)
	if !ok || got.Name != "Calidad" {
		t.Fatalf("刷新后应能读取部门，实际 %+v", got)
	}
	ids := append([]string(nil), got.SupervisorIDs...)
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "ana" || ids[1] != "sup" {
		t.Errorf("期望主管集合 {ana, sup}，实际 %v", got.SupervisorIDs)
	}

	if _, err := env.store.CreateDepartment(ctx, "X", []string{"ghost"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("未知主管期望 ErrInvalidInput，实际 %v", err)
	}
}

func TestStore_DeleteDepartment_DetachesMembers(t *testing.T) {
	env := newTestEnv(Options{})
	if err := env.store.DeleteDepartment(context.Background(), "dept-log"); err != nil {
		t.Fatalf("删除部门失败: %v", err)
	}
	if u, _ := env.store.User("pablo"); u.DepartmentID != "" {
		t.Errorf("成员应变为无部门，实际 %s", u.DepartmentID)
	}
	if env.store.CanManage("sup", "pablo") {
		t.Error("主管不应管理无部门员工")
	}
	if !env.store.CanManage("admin", "pablo") {
		t.Error("管理员应能管理所有人")
	}
}

func TestStore_Snapshot(t *testing.T) {
	env := newTestEnv(Options{})
	if _, err := env.store.CreateRequest(context.Background(), "ana", vacation("2025-07-01", "")); err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	st := env.store.Snapshot()
	if st.Users != 5 || st.Departments != 2 || st.Requests != 1 || st.PendingRequests != 1 {
		t.Errorf("统计不符: %+v", st)
	}
}
