package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
)

// ── ExportRequests 测试 ──

func TestExportService_ExportRequests_NoData(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExportService(env.store, zap.NewNop())

	_, _, err := svc.ExportRequests(context.Background(), 2030)
	if !errors.Is(err, ErrExportNoData) {
		t.Errorf("期望 ErrExportNoData，实际: %v", err)
	}
}

func TestExportService_ExportRequests_Success(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExportService(env.store, zap.NewNop())
	createVacation(t, env, "ana", store.NewRequest{StartDate: "2025-08-04", EndDate: "2025-08-08", Reason: "Verano"})

	buf, filename, err := svc.ExportRequests(context.Background(), 2025)
	if err != nil {
		t.Fatalf("ExportRequests 失败: %v", err)
	}
	if filename != "solicitudes_2025.xlsx" {
		t.Errorf("期望文件名 solicitudes_2025.xlsx，实际 %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("打开导出文件失败: %v", err)
	}
	defer f.Close()

	sheet := "Solicitudes 2025"
	checks := map[string]string{"A1": "Empleado", "A2": "Ana", "B2": "Operaciones", "C2": "Vacaciones", "F2": "5", "H2": "Pendiente"}
	for cellRef, want := range checks {
		got, _ := f.GetCellValue(sheet, cellRef)
		if got != want {
			t.Errorf("%s 期望 %q，实际 %q", cellRef, want, got)
		}
	}
}

// ── ExportBalances 测试 ──

func TestExportService_ExportBalances(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExportService(env.store, zap.NewNop())

	buf, _, err := svc.ExportBalances(context.Background())
	if err != nil {
		t.Fatalf("ExportBalances 失败: %v", err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("打开导出文件失败: %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows("Saldos")
	if len(rows) != 6 {
		t.Errorf("期望表头 + 5 名员工共 6 行，实际 %d", len(rows))
	}
}

// ── ImportUsers 测试 ──

func importFile(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	header := []interface{}{"Nombre", "Email", "Contraseña", "Rol", "Departamento", "Días", "Horas", "Nacimiento"}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatalf("写入表头失败: %v", err)
	}
	for i, r := range rows {
		row := r
		if err := f.SetSheetRow("Sheet1", cell("A", i+2), &row); err != nil {
			t.Fatalf("写入数据失败: %v", err)
		}
	}
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("生成导入文件失败: %v", err)
	}
	return buf
}

func TestExportService_ImportUsers(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExportService(env.store, zap.NewNop())

	buf := importFile(t, [][]interface{}{
		{"Marta Ruiz", "marta@gda.es", "inicial123", "supervisor", "operaciones", "23,5", "4", "1988-02-29"},
		{"Ana", "ana@gda.es", "inicial123"},
		{"Jon", "jon@gda.es", "inicial123", "", "Marketing"},
		{"Eva", "eva@gda.es", "123"},
	})

	res, err := svc.ImportUsers(context.Background(), buf)
	if err != nil {
		t.Fatalf("ImportUsers 失败: %v", err)
	}
	if res.Created != 1 || res.Skipped != 1 || len(res.Errors) != 2 {
		t.Fatalf("期望 created=1 skipped=1 errors=2，实际 %+v", res)
	}
	if res.Errors[0].Row != 4 || res.Errors[1].Row != 5 {
		t.Errorf("错误行号不正确: %+v", res.Errors)
	}

	u, ok := env.store.UserByEmail("marta@gda.es")
	if !ok {
		t.Fatal("marta 应已创建")
	}
	if u.Role != "SUPERVISOR" || u.DepartmentID != "dept-ops" || u.DaysAvailable != 23.5 || !u.MustChangePassword {
		t.Errorf("导入字段不正确: %+v", u)
	}
}

func TestExportService_ImportUsers_BadFile(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExportService(env.store, zap.NewNop())

	_, err := svc.ImportUsers(context.Background(), bytes.NewBufferString("no es un xlsx"))
	if !errors.Is(err, ErrImportBadFile) {
		t.Errorf("期望 ErrImportBadFile，实际: %v", err)
	}
}
