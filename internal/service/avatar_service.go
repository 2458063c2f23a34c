package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/imageutil"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/storage"
)

var (
	ErrAvatarInvalid = errors.New("头像图片无效")
	ErrAvatarUpload  = errors.New("头像上传失败")
)

// AvatarService 头像处理：裁剪缩放为正方形 JPEG，上传对象存储或回退为 data URI
type AvatarService interface {
	SetAvatar(ctx context.Context, userID, dataURI string) (domain.User, error)
}

type avatarService struct {
	store    *store.Store
	uploader storage.Uploader
	size     int
	logger   *zap.Logger
}

// NewAvatarService 创建 AvatarService 实例；uploader 为 nil 时头像以 data URI 存库
func NewAvatarService(cfg *config.Config, st *store.Store, uploader storage.Uploader, logger *zap.Logger) AvatarService {
	return &avatarService{
		store:    st,
		uploader: uploader,
		size:     cfg.Storage.AvatarSize,
		logger:   logger,
	}
}

func (s *avatarService) SetAvatar(ctx context.Context, userID, dataURI string) (domain.User, error) {
	if _, ok := s.store.User(userID); !ok {
		return domain.User{}, ErrUserNotFound
	}

	jpegBytes, err := imageutil.NormalizeAvatar(dataURI, s.size)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrAvatarInvalid, err)
	}

	avatar := imageutil.EncodeDataURI(jpegBytes)
	if s.uploader != nil {
		key := fmt.Sprintf("avatars/%s/%s.jpg", userID, uuid.NewString())
		url, err := s.uploader.Upload(ctx, key, jpegBytes, "image/jpeg")
		if err != nil {
			s.logger.Error("头像上传失败", zap.String("user_id", userID), zap.Error(err))
			return domain.User{}, ErrAvatarUpload
		}
		avatar = url
	}

	return s.store.UpdateProfile(ctx, userID, store.ProfilePatch{Avatar: &avatar})
}
