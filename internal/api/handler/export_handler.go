package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/service"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导入导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, logger: logger, now: time.Now}
}

// ExportRequests 导出某年申请
// GET /api/v1/export/requests?year=2025
func (h *ExportHandler) ExportRequests(c *gin.Context) {
	var q dto.YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	if q.Year == 0 {
		q.Year = h.now().Year()
	}

	buf, filename, err := h.exportSvc.ExportRequests(c.Request.Context(), q.Year)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeXLSX(c, buf, filename)
}

// ExportBalances 导出员工余额
// GET /api/v1/export/balances
func (h *ExportHandler) ExportBalances(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportBalances(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeXLSX(c, buf, filename)
}

// ImportUsers 从 Excel 批量创建员工（multipart 字段 file）
// POST /api/v1/users/import
func (h *ExportHandler) ImportUsers(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, CodeBadRequest, "Adjunta un archivo Excel")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, CodeBadRequest, "Adjunta un archivo Excel")
		return
	}
	defer f.Close()

	result, err := h.exportSvc.ImportUsers(c.Request.Context(), f)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.OK(c, result)
}

// writeXLSX 设置下载响应头
func writeXLSX(c *gin.Context, buf *bytes.Buffer, filename string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoData):
		response.NotFound(c, moduleRequest+11, "No hay solicitudes en el año seleccionado")
	case errors.Is(err, service.ErrImportBadFile):
		response.BadRequest(c, moduleUser+11, "No se pudo leer el archivo Excel")
	case errors.Is(err, service.ErrImportNoRows):
		response.BadRequest(c, moduleUser+12, "El archivo no contiene empleados")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleStoreError(c, h.logger, moduleUser, err)
	}
}
