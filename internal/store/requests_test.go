package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store/storetest"
)

func f64(v float64) *float64 { return &v }

func vacation(start, end string) NewRequest {
	return NewRequest{TypeID: domain.LeaveVacation, StartDate: start, EndDate: end, Reason: "Verano"}
}

// seedOvertimeSource 给 ana 预置一条已通过的 10 小时加班记录
func seedOvertimeSource(b *storetest.Backend) {
	b.Requests.Rows["ot-1"] = &model.Request{
		ID:        "ot-1",
		UserID:    "ana",
		TypeID:    domain.TypeOvertimeEarn,
		Label:     "Horas extra",
		StartDate: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Hours:     f64(10),
		Status:    string(domain.StatusApproved),
		Timestamps: model.Timestamps{
			CreatedAt: fixedNow.Add(-30 * 24 * time.Hour),
		},
	}
}

func newOvertimeEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	env := newTestEnv(opts)
	seedOvertimeSource(env.backend)
	if err := env.store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh 失败: %v", err)
	}
	return env
}

func TestStore_MyRequests_OwnRowsNewestFirst(t *testing.T) {
	clock := fixedNow
	env := newTestEnv(Options{Now: func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}})
	ctx := context.Background()

	first, err := env.store.CreateRequest(ctx, "ana", vacation("2025-07-01", "2025-07-05"))
	if err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	if _, err := env.store.CreateRequest(ctx, "luis", vacation("2025-07-01", "")); err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	second, err := env.store.CreateRequest(ctx, "ana", NewRequest{TypeID: domain.LeaveSickLeave, StartDate: "2025-06-20"})
	if err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}

	sess, ok := env.store.Session("ana")
	if !ok {
		t.Fatal("期望会话存在")
	}
	mine := sess.MyRequests()
	if len(mine) != 2 {
		t.Fatalf("期望 2 条本人申请，实际 %d", len(mine))
	}
	if mine[0].ID != second.ID || mine[1].ID != first.ID {
		t.Errorf("期望按 createdAt 倒序，实际 %s, %s", mine[0].ID, mine[1].ID)
	}
	for _, r := range mine {
		if r.UserID != "ana" {
			t.Errorf("期望只包含 ana 的申请，实际包含 %s", r.UserID)
		}
	}
}

func TestStore_CreateRequest_FreezesLabel(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	r, err := env.store.CreateRequest(ctx, "ana", vacation("2025-07-01", "2025-07-05"))
	if err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	if r.Status != domain.StatusPending || r.Label != "Vacaciones" {
		t.Errorf("期望 PENDING/Vacaciones，实际 %s/%s", r.Status, r.Label)
	}

	lt, _ := env.store.LeaveType(domain.LeaveVacation)
	lt.Label = "Vacaciones anuales"
	if _, err := env.store.UpdateLeaveType(ctx, lt); err != nil {
		t.Fatalf("修改假期类型失败: %v", err)
	}
	got, _ := env.store.Request(r.ID)
	if got.Label != "Vacaciones" {
		t.Errorf("期望 label 保持创建时的值，实际 %s", got.Label)
	}
}

func TestStore_CreateRequest_Validation(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	cases := map[string]NewRequest{
		"结束早于开始": vacation("2025-07-05", "2025-07-01"),
		"未知类型":   {TypeID: "nope", StartDate: "2025-07-01"},
		"缺少小时数":  {TypeID: domain.TypeOvertimeEarn, StartDate: "2025-07-01"},
		"负小时数":   {TypeID: domain.TypeOvertimeEarn, StartDate: "2025-07-01", Hours: f64(-2)},
		"消耗无明细":  {TypeID: domain.TypeOvertimePay, StartDate: "2025-07-01", Hours: f64(2)},
		"缺勤走专用接口": {TypeID: domain.TypeUnjustifiedAbsence, StartDate: "2025-07-01"},
		"调整走专用接口": {TypeID: domain.TypeAdjustmentDays, StartDate: "2025-07-01"},
		"初始为驳回":  {TypeID: domain.LeaveVacation, StartDate: "2025-07-01", Status: domain.StatusRejected},
	}
	for name, in := range cases {
		if _, err := env.store.CreateRequest(ctx, "ana", in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: 期望 ErrInvalidInput，实际 %v", name, err)
		}
	}
	if n := len(env.backend.Requests.Rows); n != 0 {
		t.Errorf("校验失败不应写入后端，实际 %d 行", n)
	}
}

func TestStore_CreateRequest_Permissions(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	// 员工不能替他人申请，也不能直接创建 APPROVED
	in := vacation("2025-07-01", "")
	in.UserID = "luis"
	if _, err := env.store.CreateRequest(ctx, "ana", in); !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际 %v", err)
	}
	in = vacation("2025-07-01", "")
	in.Status = domain.StatusApproved
	if _, err := env.store.CreateRequest(ctx, "ana", in); !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际 %v", err)
	}

	// 主管只能为本部门成员代建
	in = vacation("2025-07-01", "")
	in.UserID = "pablo"
	if _, err := env.store.CreateRequest(ctx, "sup", in); !errors.Is(err, ErrForbidden) {
		t.Errorf("主管为其他部门员工代建，期望 ErrForbidden，实际 %v", err)
	}
	in.UserID = "ana"
	in.Status = domain.StatusApproved
	r, err := env.store.CreateRequest(ctx, "sup", in)
	if err != nil {
		t.Fatalf("主管代建失败: %v", err)
	}
	if !r.CreatedByAdmin || r.Status != domain.StatusApproved {
		t.Errorf("期望 createdByAdmin 且 APPROVED，实际 %+v", r)
	}

	// 主管不能直接通过本人的申请
	in = vacation("2025-07-01", "")
	in.Status = domain.StatusApproved
	if _, err := env.store.CreateRequest(ctx, "sup", in); !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际 %v", err)
	}
}

func TestStore_LeaveLifecycle_AutoBalanceOff(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	r, err := env.store.CreateRequest(ctx, "ana", vacation("2025-07-01", "2025-07-05"))
	if err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	approved, err := env.store.UpdateRequestStatus(ctx, "sup", r.ID, domain.StatusApproved, "Disfruta")
	if err != nil {
		t.Fatalf("审批失败: %v", err)
	}
	if approved.Status != domain.StatusApproved || approved.AdminComment != "Disfruta" {
		t.Errorf("期望 APPROVED/Disfruta，实际 %s/%s", approved.Status, approved.AdminComment)
	}
	row := env.backend.Requests.Rows[r.ID]
	if row.Status != "APPROVED" || row.AdminComment == nil || *row.AdminComment != "Disfruta" {
		t.Errorf("后端行未更新: %+v", row)
	}
	ana, _ := env.store.User("ana")
	if ana.DaysAvailable != 22 {
		t.Errorf("auto_balance 关闭时天数不变，期望 22，实际 %v", ana.DaysAvailable)
	}
}

func TestStore_LeaveLifecycle_AutoBalanceOn(t *testing.T) {
	env := newTestEnv(Options{AutoBalance: true})
	ctx := context.Background()

	r, err := env.store.CreateRequest(ctx, "ana", vacation("2025-07-01", "2025-07-05"))
	if err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	if _, err := env.store.UpdateRequestStatus(ctx, "sup", r.ID, domain.StatusApproved, "Disfruta"); err != nil {
		t.Fatalf("审批失败: %v", err)
	}
	ana, _ := env.store.User("ana")
	if ana.DaysAvailable != 17 {
		t.Errorf("期望扣减 5 天后为 17，实际 %v", ana.DaysAvailable)
	}
	if got := env.backend.Users.Rows["ana"].DaysAvailable; got != 17 {
		t.Errorf("后端余额期望 17，实际 %v", got)
	}

	// 撤销后返还
	if _, err := env.store.UpdateRequestStatus(ctx, "sup", r.ID, domain.StatusRejected, "Cambio de planificación"); err != nil {
		t.Fatalf("撤销失败: %v", err)
	}
	ana, _ = env.store.User("ana")
	if ana.DaysAvailable != 22 {
		t.Errorf("撤销后期望 22，实际 %v", ana.DaysAvailable)
	}
}

func TestStore_DeleteApproved_AutoBalanceOn_RestoresDays(t *testing.T) {
	env := newTestEnv(Options{AutoBalance: true})
	ctx := context.Background()

	in := vacation("2025-08-04", "2025-08-08")
	in.UserID = "ana"
	in.Status = domain.StatusApproved
	r, err := env.store.CreateRequest(ctx, "admin", in)
	if err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	if u, _ := env.store.User("ana"); u.DaysAvailable != 17 {
		t.Fatalf("直接通过时应立即扣减，实际 %v", u.DaysAvailable)
	}

	if err := env.store.DeleteRequest(ctx, "ana", r.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("员工删除已通过申请，期望 ErrInvalidTransition，实际 %v", err)
	}
	if err := env.store.DeleteRequest(ctx, "admin", r.ID); err != nil {
		t.Fatalf("管理员删除失败: %v", err)
	}
	if u, _ := env.store.User("ana"); u.DaysAvailable != 22 {
		t.Errorf("删除后期望返还为 22，实际 %v", u.DaysAvailable)
	}
	if _, ok := env.store.Request(r.ID); ok {
		t.Error("期望申请已从缓存移除")
	}
}

func TestStore_RejectPending_AutoBalanceOn_LeavesBalance(t *testing.T) {
	env := newTestEnv(Options{AutoBalance: true})
	ctx := context.Background()

	r, err := env.store.CreateRequest(ctx, "ana", vacation("2025-07-01", "2025-07-05"))
	if err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	rejected, err := env.store.UpdateRequestStatus(ctx, "sup", r.ID, domain.StatusRejected, "No")
	if err != nil {
		t.Fatalf("驳回失败: %v", err)
	}
	if rejected.DaysDeducted != 0 {
		t.Errorf("驳回待审申请不应记录扣减，实际 %v", rejected.DaysDeducted)
	}
	if u, _ := env.store.User("ana"); u.DaysAvailable != 22 {
		t.Errorf("驳回待审申请后缓存余额期望 22，实际 %v", u.DaysAvailable)
	}
	if got := env.backend.Users.Rows["ana"].DaysAvailable; got != 22 {
		t.Errorf("驳回待审申请后后端余额期望 22，实际 %v", got)
	}
}

func TestStore_RevokeRefundsFrozenDays(t *testing.T) {
	env := newTestEnv(Options{AutoBalance: true})
	ctx := context.Background()

	lt, err := env.store.CreateLeaveType(ctx, domain.LeaveTypeConfig{Label: "Asuntos propios", SubtractsDays: true})
	if err != nil {
		t.Fatalf("创建假期类型失败: %v", err)
	}
	approve := func(start, end string) domain.LeaveRequest {
		t.Helper()
		in := NewRequest{TypeID: lt.ID, StartDate: start, EndDate: end, UserID: "ana", Status: domain.StatusApproved}
		r, err := env.store.CreateRequest(ctx, "admin", in)
		if err != nil {
			t.Fatalf("创建申请失败: %v", err)
		}
		return r
	}

	first := approve("2025-09-01", "2025-09-03")
	if first.DaysDeducted != 3 || env.backend.Requests.Rows[first.ID].DaysDeducted != 3 {
		t.Errorf("期望冻结扣减 3 天，实际缓存 %v 后端 %v", first.DaysDeducted, env.backend.Requests.Rows[first.ID].DaysDeducted)
	}
	second := approve("2025-09-08", "2025-09-09")
	if u, _ := env.store.User("ana"); u.DaysAvailable != 17 {
		t.Fatalf("期望扣减 5 天后为 17，实际 %v", u.DaysAvailable)
	}

	// 类型改为不扣减后撤销，仍按审批时的扣减返还
	lt.SubtractsDays = false
	if _, err := env.store.UpdateLeaveType(ctx, lt); err != nil {
		t.Fatalf("修改假期类型失败: %v", err)
	}
	revoked, err := env.store.UpdateRequestStatus(ctx, "admin", second.ID, domain.StatusRejected, "Cancelado")
	if err != nil {
		t.Fatalf("撤销失败: %v", err)
	}
	if revoked.DaysDeducted != 0 || env.backend.Requests.Rows[second.ID].DaysDeducted != 0 {
		t.Errorf("撤销后扣减记录应清零，实际 %v", revoked.DaysDeducted)
	}
	if u, _ := env.store.User("ana"); u.DaysAvailable != 19 {
		t.Errorf("撤销后期望 19，实际 %v", u.DaysAvailable)
	}

	// 类型删除后删除申请，同样返还
	if err := env.store.DeleteLeaveType(ctx, lt.ID); err != nil {
		t.Fatalf("删除假期类型失败: %v", err)
	}
	if err := env.store.DeleteRequest(ctx, "admin", first.ID); err != nil {
		t.Fatalf("删除申请失败: %v", err)
	}
	if u, _ := env.store.User("ana"); u.DaysAvailable != 22 {
		t.Errorf("删除后期望返还为 22，实际 %v", u.DaysAvailable)
	}
	if got := env.backend.Users.Rows["ana"].DaysAvailable; got != 22 {
		t.Errorf("后端余额期望 22，实际 %v", got)
	}
}

func TestStore_UpdateRequestStatus_Rules(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	r, _ := env.store.CreateRequest(ctx, "ana", vacation("2025-07-01", ""))

	if _, err := env.store.UpdateRequestStatus(ctx, "sup", r.ID, domain.StatusRejected, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("驳回无原因，期望 ErrInvalidInput，实际 %v", err)
	}
	if _, err := env.store.UpdateRequestStatus(ctx, "luis", r.ID, domain.StatusApproved, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("员工审批，期望 ErrForbidden，实际 %v", err)
	}
	if _, err := env.store.UpdateRequestStatus(ctx, "sup", r.ID, domain.StatusRejected, "Falta personal"); err != nil {
		t.Fatalf("驳回失败: %v", err)
	}
	if _, err := env.store.UpdateRequestStatus(ctx, "admin", r.ID, domain.StatusApproved, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("REJECTED 为终态，期望 ErrInvalidTransition，实际 %v", err)
	}

	own, _ := env.store.CreateRequest(ctx, "sup", vacation("2025-07-10", ""))
	if _, err := env.store.UpdateRequestStatus(ctx, "sup", own.ID, domain.StatusApproved, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("主管审批本人申请，期望 ErrForbidden，实际 %v", err)
	}
	if _, err := env.store.UpdateRequestStatus(ctx, "admin", own.ID, domain.StatusApproved, ""); err != nil {
		t.Errorf("管理员审批主管申请失败: %v", err)
	}
}

func TestStore_UpdateRequest_OwnerWhilePending(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	r, _ := env.store.CreateRequest(ctx, "ana", vacation("2025-07-01", "2025-07-02"))
	end := "2025-07-04"
	updated, err := env.store.UpdateRequest(ctx, "ana", r.ID, RequestPatch{EndDate: &end})
	if err != nil {
		t.Fatalf("编辑失败: %v", err)
	}
	if updated.EndDate != end || !updated.CreatedAt.Equal(r.CreatedAt) {
		t.Errorf("期望 endDate=%s 且 createdAt 不变，实际 %+v", end, updated)
	}
	if _, err := env.store.UpdateRequest(ctx, "luis", r.ID, RequestPatch{EndDate: &end}); !errors.Is(err, ErrForbidden) {
		t.Errorf("他人编辑，期望 ErrForbidden，实际 %v", err)
	}

	if _, err := env.store.UpdateRequestStatus(ctx, "sup", r.ID, domain.StatusApproved, ""); err != nil {
		t.Fatalf("审批失败: %v", err)
	}
	if _, err := env.store.UpdateRequest(ctx, "ana", r.ID, RequestPatch{EndDate: &end}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("已通过后编辑，期望 ErrInvalidTransition，实际 %v", err)
	}
}

func TestStore_FixedRanges_MustMatchExactly(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	lt, err := env.store.CreateLeaveType(ctx, domain.LeaveTypeConfig{
		Label:       "Cierre de agosto",
		FixedRanges: []domain.FixedRange{{StartDate: "2025-08-01", EndDate: "2025-08-15", Label: "1ª quincena"}},
	})
	if err != nil {
		t.Fatalf("创建假期类型失败: %v", err)
	}
	bad := NewRequest{TypeID: lt.ID, StartDate: "2025-08-01", EndDate: "2025-08-10"}
	if _, err := env.store.CreateRequest(ctx, "ana", bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("期望 ErrInvalidInput，实际 %v", err)
	}
	good := NewRequest{TypeID: lt.ID, StartDate: "2025-08-01", EndDate: "2025-08-15"}
	if _, err := env.store.CreateRequest(ctx, "ana", good); err != nil {
		t.Errorf("精确匹配固定区间应成功: %v", err)
	}
}

func TestStore_OvertimeSpend_AutoBalanceOff(t *testing.T) {
	env := newOvertimeEnv(t, Options{})
	ctx := context.Background()

	spend, err := env.store.CreateRequest(ctx, "ana", NewRequest{
		TypeID:        domain.TypeOvertimePay,
		StartDate:     "2025-06-30",
		Hours:         f64(4),
		OvertimeUsage: []domain.OvertimeUsage{{RequestID: "ot-1", HoursUsed: 4}},
	})
	if err != nil {
		t.Fatalf("创建加班消耗失败: %v", err)
	}

	var usage []model.OvertimeUsageRow
	if err := json.Unmarshal(env.backend.Requests.Rows[spend.ID].OvertimeUsage, &usage); err != nil {
		t.Fatalf("overtime_usage 应为合法 JSON: %v", err)
	}
	if len(usage) != 1 || usage[0].RequestID != "ot-1" || usage[0].HoursUsed != 4 {
		t.Errorf("期望持久化 [{ot-1 4}]，实际 %+v", usage)
	}

	if _, err := env.store.UpdateRequestStatus(ctx, "sup", spend.ID, domain.StatusApproved, ""); err != nil {
		t.Fatalf("审批失败: %v", err)
	}
	src, _ := env.store.Request("ot-1")
	if src.ConsumedHours != 0 || src.IsConsumed {
		t.Errorf("auto_balance 关闭时来源记录不变，实际 consumed=%v", src.ConsumedHours)
	}
	if u, _ := env.store.User("ana"); u.OvertimeHours != 10 {
		t.Errorf("期望加班余额不变为 10，实际 %v", u.OvertimeHours)
	}
}

func TestStore_OvertimeSpend_AutoBalanceOn(t *testing.T) {
	env := newOvertimeEnv(t, Options{AutoBalance: true})
	ctx := context.Background()

	spend, err := env.store.CreateRequest(ctx, "ana", NewRequest{
		TypeID:        domain.TypeOvertimeSpendDays,
		StartDate:     "2025-06-30",
		OvertimeUsage: []domain.OvertimeUsage{{RequestID: "ot-1", HoursUsed: 4}},
	})
	if err != nil {
		t.Fatalf("创建加班消耗失败: %v", err)
	}
	if spend.HoursValue() != 4 {
		t.Errorf("未填小时数时应取明细合计 4，实际 %v", spend.HoursValue())
	}
	if _, err := env.store.UpdateRequestStatus(ctx, "sup", spend.ID, domain.StatusApproved, ""); err != nil {
		t.Fatalf("审批失败: %v", err)
	}

	src, _ := env.store.Request("ot-1")
	if src.ConsumedHours != 4 || src.IsConsumed {
		t.Errorf("期望 consumed=4 且未用完，实际 %v/%v", src.ConsumedHours, src.IsConsumed)
	}
	if got := env.backend.Requests.Rows["ot-1"].ConsumedHours; got != 4 {
		t.Errorf("后端 consumed_hours 期望 4，实际 %v", got)
	}
	if u, _ := env.store.User("ana"); u.OvertimeHours != 6 {
		t.Errorf("期望加班余额 6，实际 %v", u.OvertimeHours)
	}

	// 剩余 6 小时，超额消耗被拒绝
	_, err = env.store.CreateRequest(ctx, "ana", NewRequest{
		TypeID:        domain.TypeOvertimePay,
		StartDate:     "2025-07-01",
		OvertimeUsage: []domain.OvertimeUsage{{RequestID: "ot-1", HoursUsed: 7}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("超额消耗，期望 ErrInvalidInput，实际 %v", err)
	}

	if _, err := env.store.UpdateRequestStatus(ctx, "sup", spend.ID, domain.StatusRejected, "Error"); err != nil {
		t.Fatalf("撤销失败: %v", err)
	}
	src, _ = env.store.Request("ot-1")
	if src.ConsumedHours != 0 {
		t.Errorf("撤销后期望 consumed=0，实际 %v", src.ConsumedHours)
	}
	if u, _ := env.store.User("ana"); u.OvertimeHours != 10 {
		t.Errorf("撤销后期望加班余额 10，实际 %v", u.OvertimeHours)
	}
}

func TestStore_OvertimeSpend_ApproveRechecksSource(t *testing.T) {
	env := newOvertimeEnv(t, Options{AutoBalance: true})
	ctx := context.Background()

	spend := func() domain.LeaveRequest {
		t.Helper()
		r, err := env.store.CreateRequest(ctx, "ana", NewRequest{
			TypeID:        domain.TypeOvertimePay,
			StartDate:     "2025-06-30",
			OvertimeUsage: []domain.OvertimeUsage{{RequestID: "ot-1", HoursUsed: 8}},
		})
		if err != nil {
			t.Fatalf("创建加班消耗失败: %v", err)
		}
		return r
	}
	// 两条待审申请创建时都看到 10 小时剩余
	first, second := spend(), spend()

	if _, err := env.store.UpdateRequestStatus(ctx, "sup", first.ID, domain.StatusApproved, ""); err != nil {
		t.Fatalf("审批失败: %v", err)
	}
	if _, err := env.store.UpdateRequestStatus(ctx, "sup", second.ID, domain.StatusApproved, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("来源不足时审批，期望 ErrInvalidInput，实际 %v", err)
	}

	got, _ := env.store.Request(second.ID)
	if got.Status != domain.StatusPending || env.backend.Requests.Rows[second.ID].Status != "PENDING" {
		t.Errorf("审批失败的申请应保持 PENDING，实际 %s", got.Status)
	}
	src, _ := env.store.Request("ot-1")
	if src.ConsumedHours != 8 || env.backend.Requests.Rows["ot-1"].ConsumedHours != 8 {
		t.Errorf("期望 consumed=8，实际 %v", src.ConsumedHours)
	}
	if u, _ := env.store.User("ana"); u.OvertimeHours != 2 {
		t.Errorf("期望加班余额 2，实际 %v", u.OvertimeHours)
	}

	// 撤销第一条后，第二条可以通过
	if _, err := env.store.UpdateRequestStatus(ctx, "sup", first.ID, domain.StatusRejected, "Error"); err != nil {
		t.Fatalf("撤销失败: %v", err)
	}
	if _, err := env.store.UpdateRequestStatus(ctx, "sup", second.ID, domain.StatusApproved, ""); err != nil {
		t.Fatalf("来源恢复后审批失败: %v", err)
	}
	src, _ = env.store.Request("ot-1")
	if src.ConsumedHours != 8 || src.IsConsumed {
		t.Errorf("期望 consumed=8 且未用完，实际 %v/%v", src.ConsumedHours, src.IsConsumed)
	}
	if u, _ := env.store.User("ana"); u.OvertimeHours != 2 {
		t.Errorf("期望加班余额 2，实际 %v", u.OvertimeHours)
	}
}

func TestStore_OvertimeSpend_RejectsForeignSource(t *testing.T) {
	env := newOvertimeEnv(t, Options{})
	_, err := env.store.CreateRequest(context.Background(), "luis", NewRequest{
		TypeID:        domain.TypeOvertimePay,
		StartDate:     "2025-06-30",
		OvertimeUsage: []domain.OvertimeUsage{{RequestID: "ot-1", HoursUsed: 1}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("引用他人加班记录，期望 ErrInvalidInput，实际 %v", err)
	}
}

func TestStore_AvailableOvertimeRecords_AndTrace(t *testing.T) {
	env := newOvertimeEnv(t, Options{AutoBalance: true})
	ctx := context.Background()

	spend, err := env.store.CreateRequest(ctx, "ana", NewRequest{
		TypeID:        domain.TypeOvertimePay,
		StartDate:     "2025-06-30",
		OvertimeUsage: []domain.OvertimeUsage{{RequestID: "ot-1", HoursUsed: 10}},
	})
	if err != nil {
		t.Fatalf("创建加班消耗失败: %v", err)
	}
	if _, err := env.store.UpdateRequestStatus(ctx, "admin", spend.ID, domain.StatusApproved, ""); err != nil {
		t.Fatalf("审批失败: %v", err)
	}

	records := env.store.AvailableOvertimeRecords("ana")
	if len(records) != 1 {
		t.Fatalf("用完的记录仍应返回，期望 1 条，实际 %d", len(records))
	}
	if !records[0].IsConsumed || records[0].Remaining() != 0 {
		t.Errorf("期望已用完，实际 consumed=%v remaining=%v", records[0].IsConsumed, records[0].Remaining())
	}

	trace, err := env.store.OvertimeTrace(spend.ID)
	if err != nil {
		t.Fatalf("OvertimeTrace 失败: %v", err)
	}
	if len(trace.Sources) != 1 || trace.Sources[0].Source == nil || trace.Sources[0].Source.ID != "ot-1" {
		t.Errorf("期望来源为 ot-1，实际 %+v", trace.Sources)
	}
	srcTrace, _ := env.store.OvertimeTrace("ot-1")
	if len(srcTrace.Consumers) != 1 || srcTrace.Consumers[0].Request.ID != spend.ID {
		t.Errorf("期望来源记录被 %s 消耗，实际 %+v", spend.ID, srcTrace.Consumers)
	}
	if _, err := env.store.OvertimeTrace("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际 %v", err)
	}
}

func TestStore_PendingApprovalsForUser(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	for _, uid := range []string{"ana", "luis", "pablo", "sup"} {
		if _, err := env.store.CreateRequest(ctx, uid, vacation("2025-07-01", "")); err != nil {
			t.Fatalf("创建申请失败: %v", err)
		}
	}

	if got := len(env.store.PendingApprovalsForUser("admin")); got != 4 {
		t.Errorf("管理员期望 4 条，实际 %d", got)
	}
	sup := env.store.PendingApprovalsForUser("sup")
	if len(sup) != 2 {
		t.Fatalf("主管期望 2 条（ana、luis），实际 %d", len(sup))
	}
	for _, r := range sup {
		if r.UserID != "ana" && r.UserID != "luis" {
			t.Errorf("主管不应看到 %s 的申请", r.UserID)
		}
	}
	if got := env.store.PendingApprovalsForUser("ana"); len(got) != 0 {
		t.Errorf("员工期望 0 条，实际 %d", len(got))
	}
}

func TestStore_RequestConflicts(t *testing.T) {
	ctx := context.Background()

	setup := func(opts Options) (*testEnv, domain.LeaveRequest) {
		env := newTestEnv(opts)
		in := vacation("2025-07-03", "2025-07-08")
		in.UserID = "luis"
		in.Status = domain.StatusApproved
		if _, err := env.store.CreateRequest(ctx, "admin", in); err != nil {
			t.Fatalf("创建申请失败: %v", err)
		}
		if _, err := env.store.CreateRequest(ctx, "pablo", vacation("2025-07-01", "2025-07-10")); err != nil {
			t.Fatalf("创建申请失败: %v", err)
		}
		mine, err := env.store.CreateRequest(ctx, "ana", vacation("2025-07-01", "2025-07-05"))
		if err != nil {
			t.Fatalf("创建申请失败: %v", err)
		}
		return env, mine
	}

	env, mine := setup(Options{})
	if got := env.store.RequestConflicts(mine); got == nil || len(got) != 0 {
		t.Errorf("关闭冲突检测时期望空切片，实际 %v", got)
	}

	env, mine = setup(Options{ConflictDetection: true})
	got := env.store.RequestConflicts(mine)
	if len(got) != 1 || got[0].UserID != "luis" {
		t.Errorf("期望仅与同部门 luis 冲突，实际 %+v", got)
	}
}

func TestStore_ReportAbsence_AndJustify(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	if _, err := env.store.ReportAbsence(ctx, "ana", "luis", "2025-06-10", "", ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("员工登记缺勤，期望 ErrForbidden，实际 %v", err)
	}
	r, err := env.store.ReportAbsence(ctx, "sup", "ana", "2025-06-10", "", "No se presentó")
	if err != nil {
		t.Fatalf("登记缺勤失败: %v", err)
	}
	if r.Status != domain.StatusApproved || r.IsJustified == nil || *r.IsJustified || !r.ReportedToAdmin {
		t.Errorf("期望 APPROVED、未说明理由、已上报，实际 %+v", r)
	}

	j, err := env.store.SetJustified(ctx, "admin", r.ID, true)
	if err != nil {
		t.Fatalf("标记理由失败: %v", err)
	}
	if j.IsJustified == nil || !*j.IsJustified {
		t.Error("期望 isJustified=true")
	}
}

func TestStore_UpcomingAbsences_ScopedToViewer(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	for _, uid := range []string{"ana", "pablo"} {
		in := vacation("2025-07-02", "2025-07-04")
		in.UserID = uid
		in.Status = domain.StatusApproved
		if _, err := env.store.CreateRequest(ctx, "admin", in); err != nil {
			t.Fatalf("创建申请失败: %v", err)
		}
	}

	got, err := env.store.UpcomingAbsences("sup", "2025-07-01", 7)
	if err != nil {
		t.Fatalf("UpcomingAbsences 失败: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "ana" {
		t.Errorf("主管只应看到 ana，实际 %+v", got)
	}
	if all, _ := env.store.UpcomingAbsences("admin", "2025-07-01", 7); len(all) != 2 {
		t.Errorf("管理员期望 2 条，实际 %d", len(all))
	}
	if _, err := env.store.UpcomingAbsences("sup", "2025-07-01", 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("days=0 期望 ErrInvalidInput，实际 %v", err)
	}
}

func TestStore_AdjustBalance(t *testing.T) {
	env := newTestEnv(Options{})
	ctx := context.Background()

	if _, err := env.store.AdjustBalance(ctx, "sup", "ana", BalanceDays, 2, "Antigüedad"); !errors.Is(err, ErrForbidden) {
		t.Errorf("非管理员调整，期望 ErrForbidden，实际 %v", err)
	}
	r, err := env.store.AdjustBalance(ctx, "admin", "ana", BalanceDays, 2, "Antigüedad")
	if err != nil {
		t.Fatalf("调整失败: %v", err)
	}
	if r.TypeID != domain.TypeAdjustmentDays || r.Status != domain.StatusApproved || r.HoursValue() != 2 {
		t.Errorf("期望已通过的 ADJUSTMENT_DAYS(+2)，实际 %+v", r)
	}
	if u, _ := env.store.User("ana"); u.DaysAvailable != 24 {
		t.Errorf("期望 24，实际 %v", u.DaysAvailable)
	}
	if _, err := env.store.AdjustBalance(ctx, "admin", "ana", BalanceHours, -1.5, "Corrección"); err != nil {
		t.Fatalf("调整小时失败: %v", err)
	}
	if u, _ := env.store.User("ana"); u.OvertimeHours != 8.5 {
		t.Errorf("期望 8.5，实际 %v", u.OvertimeHours)
	}
	if _, err := env.store.AdjustBalance(ctx, "admin", "ana", BalanceDays, 0, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("零调整期望 ErrInvalidInput，实际 %v", err)
	}
}

func TestStore_CreateRequest_BackendFailureLeavesCache(t *testing.T) {
	env := newTestEnv(Options{AutoBalance: true})
	ctx := context.Background()
	env.backend.Requests.Err = errBackendDown

	in := vacation("2025-07-01", "2025-07-05")
	in.UserID = "ana"
	in.Status = domain.StatusApproved
	_, err := env.store.CreateRequest(ctx, "admin", in)
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("期望 ErrBackend，实际 %v", err)
	}
	var we *WriteError
	if !errors.As(err, &we) || we.Op != "CreateRequest" || we.Entity != EntityRequest {
		t.Errorf("期望 WriteError{CreateRequest, requests}，实际 %v", err)
	}
	if n := len(env.store.Requests(RequestFilter{})); n != 0 {
		t.Errorf("写入失败后缓存不应变化，实际 %d 条", n)
	}
	if u, _ := env.store.User("ana"); u.DaysAvailable != 22 {
		t.Errorf("写入失败后余额不应变化，实际 %v", u.DaysAvailable)
	}
}
