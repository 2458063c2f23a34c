package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User            UserRepository
	Department      DepartmentRepository
	Request         RequestRepository
	LeaveType       LeaveTypeRepository
	ShiftType       ShiftTypeRepository
	ShiftAssignment ShiftAssignmentRepository
	Holiday         HolidayRepository
	PPEType         PPETypeRepository
	PPERequest      PPERequestRepository
	Notification    NotificationRepository
	News            NewsRepository
	Setting         SettingRepository

	// txRunner 测试中可替换为内存实现
	txRunner func(ctx context.Context, fn func(tx *Repository) error) error
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	r := &Repository{
		db:              db,
		User:            NewUserRepo(db),
		Department:      NewDepartmentRepo(db),
		Request:         NewRequestRepo(db),
		LeaveType:       NewLeaveTypeRepo(db),
		ShiftType:       NewShiftTypeRepo(db),
		ShiftAssignment: NewShiftAssignmentRepo(db),
		Holiday:         NewHolidayRepo(db),
		PPEType:         NewPPETypeRepo(db),
		PPERequest:      NewPPERequestRepo(db),
		Notification:    NewNotificationRepo(db),
		News:            NewNewsRepo(db),
		Setting:         NewSettingRepo(db),
	}
	r.txRunner = r.gormTransaction
	return r
}

// Transaction 在同一数据库事务中执行 fn，fn 中应只使用 tx 上的 Repository
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.txRunner == nil {
		return fn(r)
	}
	return r.txRunner(ctx, fn)
}

func (r *Repository) gormTransaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
