package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// PPERequestRepository 防护用品申领数据访问接口
type PPERequestRepository interface {
	ListAll(ctx context.Context) ([]model.PPERequest, error)
	Create(ctx context.Context, req *model.PPERequest) error
	// MarkDelivered 仅对 PENDIENTE 状态生效，返回是否更新成功
	MarkDelivered(ctx context.Context, id string, at time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

type ppeRequestRepo struct {
	db *gorm.DB
}

func NewPPERequestRepo(db *gorm.DB) PPERequestRepository {
	return &ppeRequestRepo{db: db}
}

func (r *ppeRequestRepo) ListAll(ctx context.Context) ([]model.PPERequest, error) {
	var list []model.PPERequest
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ppeRequestRepo) Create(ctx context.Context, req *model.PPERequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *ppeRequestRepo) MarkDelivered(ctx context.Context, id string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.PPERequest{}).
		Where("id = ? AND status = ?", id, "PENDIENTE").
		Updates(map[string]interface{}{
			"status":        "ENTREGADO",
			"delivery_date": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ppeRequestRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.PPERequest{}, id)
}
