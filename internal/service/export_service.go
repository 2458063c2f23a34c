package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("所选年份没有申请记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
	ErrImportBadFile      = errors.New("无法读取 Excel 文件")
	ErrImportNoRows       = errors.New("Excel 文件中没有员工数据")
)

// ExportService 导入导出业务接口
//
// 设计说明：
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 申请按年份导出（与该年有交集的申请），余额导出为当前快照
//   - 员工导入读取第一个 Sheet，首行为表头，邮箱已存在的行跳过
type ExportService interface {
	ExportRequests(ctx context.Context, year int) (*bytes.Buffer, string, error)
	ExportBalances(ctx context.Context) (*bytes.Buffer, string, error)
	ImportUsers(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
}

type exportService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(st *store.Store, logger *zap.Logger) ExportService {
	return &exportService{store: st, logger: logger}
}

var statusLabels = map[domain.RequestStatus]string{
	domain.StatusPending:  "Pendiente",
	domain.StatusApproved: "Aprobada",
	domain.StatusRejected: "Rechazada",
}

// ═══════════════════════════════════════════════════════════
// ExportRequests 导出某年的全部申请
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Solicitudes <año>"
//   - 列：Empleado | Departamento | Tipo | Desde | Hasta | Días | Horas | Estado | Motivo | Comentario | Creada
//   - 按创建时间倒序

func (s *exportService) ExportRequests(ctx context.Context, year int) (*bytes.Buffer, string, error) {
	list := s.store.Requests(store.RequestFilter{Year: year})
	if len(list) == 0 {
		return nil, "", ErrExportNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := fmt.Sprintf("Solicitudes %d", year)
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Empleado", "Departamento", "Tipo", "Desde", "Hasta", "Días", "Horas", "Estado", "Motivo", "Comentario", "Creada"}
	writeHeader(f, sheetName, headers)
	widths := []float64{24, 18, 22, 12, 12, 8, 8, 12, 36, 36, 18}
	for i, w := range widths {
		f.SetColWidth(sheetName, colName(i), colName(i), w)
	}

	row := 2
	for _, r := range list {
		name, dept := s.userLabels(r.UserID)
		days := ""
		if !domain.IsOvertimeRequest(r.TypeID) && r.TypeID != domain.TypeAdjustmentDays {
			days = strconv.Itoa(domain.DaysInclusive(r.StartDate, r.LastDate()))
		}
		values := []interface{}{
			name, dept, r.Label, r.StartDate, r.LastDate(), days, "",
			statusLabels[r.Status], r.Reason, r.AdminComment, r.CreatedAt.Format("2006-01-02 15:04"),
		}
		if r.Hours != nil {
			values[6] = *r.Hours
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("solicitudes_%d.xlsx", year), nil
}

// ═══════════════════════════════════════════════════════════
// ExportBalances 导出员工余额快照
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportBalances(ctx context.Context) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Saldos"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	writeHeader(f, sheetName, []string{"Empleado", "Email", "Departamento", "Rol", "Días disponibles", "Horas extra"})
	f.SetColWidth(sheetName, "A", "C", 26)
	f.SetColWidth(sheetName, "D", "F", 16)

	row := 2
	for _, u := range s.store.Users() {
		_, dept := s.userLabels(u.ID)
		values := []interface{}{u.Name, u.Email, dept, string(u.Role), u.DaysAvailable, u.OvertimeHours}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "saldos.xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// ImportUsers 从 Excel 批量创建员工
// ═══════════════════════════════════════════════════════════
//
// 列：Nombre | Email | Contraseña | Rol | Departamento | Días | Horas | Nacimiento
// 部门按名称（忽略大小写）或 ID 匹配；角色为空时为 WORKER

func (s *exportService) ImportUsers(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrImportNoRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	if len(rows) < 2 {
		return nil, ErrImportNoRows
	}

	result := &dto.ImportResult{Errors: []dto.ImportError{}}
	for i, cols := range rows[1:] {
		line := i + 2
		get := func(idx int) string {
			if idx < len(cols) {
				return strings.TrimSpace(cols[idx])
			}
			return ""
		}
		if get(0) == "" && get(1) == "" {
			continue
		}
		if _, exists := s.store.UserByEmail(get(1)); exists {
			result.Skipped++
			continue
		}

		in := store.NewUser{
			Name:      get(0),
			Email:     get(1),
			Password:  get(2),
			Role:      domain.Role(strings.ToUpper(get(3))),
			Birthdate: get(7),
		}
		if dept := get(4); dept != "" {
			id, ok := s.departmentID(dept)
			if !ok {
				result.Errors = append(result.Errors, dto.ImportError{Row: line, Message: "departamento inexistente: " + dept})
				continue
			}
			in.DepartmentID = id
		}
		if in.DaysAvailable, err = parseNumber(get(5)); err != nil {
			result.Errors = append(result.Errors, dto.ImportError{Row: line, Message: "días no válidos"})
			continue
		}
		if in.OvertimeHours, err = parseNumber(get(6)); err != nil {
			result.Errors = append(result.Errors, dto.ImportError{Row: line, Message: "horas no válidas"})
			continue
		}

		if _, err := s.store.CreateUser(ctx, in); err != nil {
			if errors.Is(err, store.ErrBackend) && !errors.Is(err, store.ErrDuplicate) {
				// 后端不可用时中止，已创建的行保留
				return result, err
			}
			result.Errors = append(result.Errors, dto.ImportError{Row: line, Message: importMessage(err)})
			continue
		}
		result.Created++
	}

	s.logger.Info("员工导入完成",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// ── 辅助函数 ──

func (s *exportService) userLabels(userID string) (name, dept string) {
	u, ok := s.store.User(userID)
	if !ok {
		return userID, ""
	}
	if d, ok := s.store.Department(u.DepartmentID); ok {
		dept = d.Name
	}
	return u.Name, dept
}

func (s *exportService) departmentID(nameOrID string) (string, bool) {
	for _, d := range s.store.Departments() {
		if d.ID == nameOrID || strings.EqualFold(d.Name, nameOrID) {
			return d.ID, true
		}
	}
	return "", false
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), style)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// importMessage 去掉哨兵前缀，只保留面向用户的原因
func importMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && errors.Is(err, store.ErrInvalidInput) {
		return msg[i+2:]
	}
	if errors.Is(err, store.ErrDuplicate) {
		return "email duplicado"
	}
	return msg
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
