package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// RequestRepository 申请数据访问接口
type RequestRepository interface {
	ListAll(ctx context.Context) ([]model.Request, error)
	Create(ctx context.Context, req *model.Request) error
	Update(ctx context.Context, req *model.Request) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// requestRepo RequestRepository 的 GORM 实现
type requestRepo struct {
	db *gorm.DB
}

// NewRequestRepo 创建 RequestRepository 实例
func NewRequestRepo(db *gorm.DB) RequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) ListAll(ctx context.Context) ([]model.Request, error) {
	var reqs []model.Request
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *requestRepo) Create(ctx context.Context, req *model.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepo) Update(ctx context.Context, req *model.Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *requestRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return updateFields(ctx, r.db, &model.Request{}, id, fields)
}

func (r *requestRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Request{}, id)
}
