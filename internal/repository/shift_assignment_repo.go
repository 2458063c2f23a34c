package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// ShiftAssignmentRepository 排班数据访问接口
type ShiftAssignmentRepository interface {
	ListAll(ctx context.Context) ([]model.ShiftAssignment, error)
	// Upsert 按 (user_id, date) 插入或更新班次，回填 ID
	Upsert(ctx context.Context, a *model.ShiftAssignment) error
	DeleteByUserDate(ctx context.Context, userID string, date time.Time) error
}

type shiftAssignmentRepo struct {
	db *gorm.DB
}

func NewShiftAssignmentRepo(db *gorm.DB) ShiftAssignmentRepository {
	return &shiftAssignmentRepo{db: db}
}

func (r *shiftAssignmentRepo) ListAll(ctx context.Context) ([]model.ShiftAssignment, error) {
	var list []model.ShiftAssignment
	err := r.db.WithContext(ctx).Order("date ASC").Find(&list).Error
	return list, err
}

func (r *shiftAssignmentRepo) Upsert(ctx context.Context, a *model.ShiftAssignment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"shift_type_id": a.ShiftTypeID,
				"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(a).Error
}

// DeleteByUserDate 清除某日排班，不存在时不报错
func (r *shiftAssignmentRepo) DeleteByUserDate(ctx context.Context, userID string, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Delete(&model.ShiftAssignment{}).Error
}
