package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// DepartmentRepository 部门数据访问接口
type DepartmentRepository interface {
	ListAll(ctx context.Context) ([]model.Department, error)
	Create(ctx context.Context, dept *model.Department) error
	Update(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, id string) error
}

// departmentRepo DepartmentRepository 的 GORM 实现
type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo 创建 DepartmentRepository 实例
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) ListAll(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) Create(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepo) Update(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).
		Model(&model.Department{}).
		Where("id = ?", dept.ID).
		Updates(map[string]interface{}{
			"name":           dept.Name,
			"supervisor_ids": dept.SupervisorIDs,
			"updated_at":     gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

// Delete 删除部门，成员的 department_id 由外键置空
func (r *departmentRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Department{}, id)
}
