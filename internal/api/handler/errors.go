package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/api/middleware"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// ── 业务码 ──
//
// 每个模块以千位区分：10xxx 认证/通用，11xxx 员工，12xxx 部门，13xxx 申请，
// 14xxx 目录，15xxx 防护用品，16xxx 通知/公告，17xxx 设置/邮件。
// 模块内部：+1 不存在，+2 参数无效，+3 状态流转非法，+4 重复。

const (
	CodeBadRequest   = 10001
	CodeUnauthorized = 10002
	CodeForbidden    = 10003

	moduleUser         = 11000
	moduleDepartment   = 12000
	moduleRequest      = 13000
	moduleCatalog      = 14000
	modulePPE          = 15000
	moduleNotification = 16000
	moduleSettings     = 17000
)

// storeErrorMessages 各模块“不存在”时的提示
var notFoundMessages = map[int]string{
	moduleUser:         "Empleado no encontrado",
	moduleDepartment:   "Departamento no encontrado",
	moduleRequest:      "Solicitud no encontrada",
	moduleCatalog:      "Elemento no encontrado",
	modulePPE:          "Solicitud de EPI no encontrada",
	moduleNotification: "Elemento no encontrado",
	moduleSettings:     "Configuración no encontrada",
}

// bindFailed 绑定/校验失败
func bindFailed(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		response.Error(c, 413, 10005, "El cuerpo de la petición es demasiado grande")
		return
	}
	response.ErrorWithDetails(c, 400, CodeBadRequest, "Datos no válidos", err.Error())
}

// handleStoreError 将 store 哨兵错误映射为 HTTP 响应
func handleStoreError(c *gin.Context, logger *zap.Logger, module int, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(c, module+1, notFoundMessages[module])
	case errors.Is(err, store.ErrInvalidInput):
		response.ErrorWithDetails(c, 400, module+2, "Datos no válidos", reason(err))
	case errors.Is(err, store.ErrForbidden):
		response.Forbidden(c, CodeForbidden, "No tienes permiso para esta acción")
	case errors.Is(err, store.ErrInvalidTransition):
		response.ErrorWithDetails(c, 409, module+3, "La operación no está permitida en el estado actual", reason(err))
	case errors.Is(err, store.ErrDuplicate):
		response.Conflict(c, module+4, "Ya existe un registro con esos datos")
	case errors.Is(err, store.ErrNotLoaded):
		response.ServiceUnavailable(c, response.CodeInternal, "Los datos todavía se están cargando")
	case errors.Is(err, store.ErrBackend):
		// store 已记录日志
		response.ServiceUnavailable(c, response.CodeInternal, "No se pudo guardar, inténtalo de nuevo")
	default:
		if logger != nil {
			logger.Error("请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
		}
		response.InternalError(c)
	}
}

// reason 去掉哨兵前缀，保留面向用户的原因
func reason(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return ""
}
