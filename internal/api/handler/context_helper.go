package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/api/middleware"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/jwt"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	return s, true
}

// MustGetUser 提取中间件解析出的当前用户（请求开始时的缓存快照）
func MustGetUser(c *gin.Context) (domain.User, bool) {
	v, exists := c.Get(middleware.CtxUser)
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return domain.User{}, false
	}
	u, ok := v.(domain.User)
	if !ok || u.ID == "" {
		response.Unauthorized(c, 10002, "No autenticado")
		return domain.User{}, false
	}
	return u, true
}

// getClaims 当前请求的 Access Token 声明，可能为 nil
func getClaims(c *gin.Context) *jwt.Claims {
	v, _ := c.Get(middleware.CtxClaims)
	claims, _ := v.(*jwt.Claims)
	return claims
}
