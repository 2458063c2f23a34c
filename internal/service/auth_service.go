package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrTokenRevoked       = errors.New("token 已注销")
	ErrWrongTokenType     = errors.New("token 类型错误")
	ErrOldPasswordWrong   = errors.New("原密码错误")
	ErrSamePassword       = errors.New("新密码不能与原密码相同")
)

// TokenBlacklist Token 注销名单，由 Redis 实现
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, access *jwt.Claims, refreshToken string) error
	// Authenticate 校验 Access Token 并从缓存重新解析用户，角色与余额变化立即生效
	Authenticate(ctx context.Context, accessToken string) (domain.User, *jwt.Claims, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	ResetPassword(ctx context.Context, userID, password string) error
}

type authService struct {
	cfg       *config.Config
	store     *store.Store
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例；blacklist 为 nil 时登出仅由客户端丢弃 Token
func NewAuthService(
	cfg *config.Config,
	st *store.Store,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		store:     st,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, ok := s.store.UserByEmail(req.Email)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	resp, err := s.issue(user, req.RememberMe)
	if err != nil {
		return nil, err
	}
	s.logger.Info("用户登录", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return resp, nil
}

// Refresh 轮换 Token 对，旧 Refresh Token 加入注销名单
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	user, ok := s.store.User(claims.UserID)
	if !ok {
		return nil, ErrUserNotFound
	}

	resp, err := s.issue(user, claims.RememberMe)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, claims)
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, access *jwt.Claims, refreshToken string) error {
	if access == nil {
		return ErrWrongTokenType
	}
	s.revoke(ctx, access)
	if refreshToken != "" {
		// 只作废属于同一用户的 Refresh Token
		if claims, err := s.jwtMgr.ParseToken(refreshToken); err == nil && claims.UserID == access.UserID {
			s.revoke(ctx, claims)
		}
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (domain.User, *jwt.Claims, error) {
	claims, err := s.jwtMgr.ParseToken(accessToken)
	if err != nil {
		return domain.User{}, nil, err
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return domain.User{}, nil, ErrWrongTokenType
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return domain.User{}, nil, err
	}
	user, ok := s.store.User(claims.UserID)
	if !ok {
		return domain.User{}, nil, ErrUserNotFound
	}
	return user, claims, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, ok := s.store.User(userID)
	if !ok {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}
	if req.OldPassword == req.NewPassword {
		return ErrSamePassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	return s.store.SetPassword(ctx, userID, string(hash), false)
}

// ResetPassword 管理员重置密码，员工下次登录须修改
func (s *authService) ResetPassword(ctx context.Context, userID, password string) error {
	if _, ok := s.store.User(userID); !ok {
		return ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	if err := s.store.SetPassword(ctx, userID, string(hash), true); err != nil {
		return err
	}
	s.logger.Info("管理员重置密码", zap.String("user_id", userID))
	return nil
}

// ── 辅助函数 ──

func (s *authService) issue(user domain.User, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, string(user.Role), user.DepartmentID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, string(user.Role), user.DepartmentID, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTTL().Seconds()),
		User:         user,
	}, nil
}

func (s *authService) checkRevoked(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		// Redis 不可用时放行，仅记录日志
		s.logger.Warn("查询 Token 黑名单失败", zap.Error(err))
		return nil
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if s.blacklist == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("Token 加入黑名单失败", zap.String("jti", claims.ID), zap.Error(err))
	}
}
