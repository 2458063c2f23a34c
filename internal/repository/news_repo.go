package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// NewsRepository 公告数据访问接口
type NewsRepository interface {
	ListAll(ctx context.Context) ([]model.News, error)
	Create(ctx context.Context, n *model.News) error
	Update(ctx context.Context, n *model.News) error
	MarkAnnounced(ctx context.Context, ids []string) error
	Delete(ctx context.Context, id string) error
}

type newsRepo struct {
	db *gorm.DB
}

func NewNewsRepo(db *gorm.DB) NewsRepository {
	return &newsRepo{db: db}
}

func (r *newsRepo) ListAll(ctx context.Context) ([]model.News, error) {
	var list []model.News
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *newsRepo) Create(ctx context.Context, n *model.News) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *newsRepo) Update(ctx context.Context, n *model.News) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *newsRepo) MarkAnnounced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.News{}).
		Where("id IN ?", ids).
		Update("announced", true).Error
}

func (r *newsRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.News{}, id)
}
