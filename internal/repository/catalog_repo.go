package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/model"
)

// ── 假期类型 ──

// LeaveTypeRepository 假期类型数据访问接口
type LeaveTypeRepository interface {
	ListAll(ctx context.Context) ([]model.LeaveType, error)
	Create(ctx context.Context, lt *model.LeaveType) error
	Update(ctx context.Context, lt *model.LeaveType) error
	Delete(ctx context.Context, id string) error
}

type leaveTypeRepo struct {
	db *gorm.DB
}

func NewLeaveTypeRepo(db *gorm.DB) LeaveTypeRepository {
	return &leaveTypeRepo{db: db}
}

func (r *leaveTypeRepo) ListAll(ctx context.Context) ([]model.LeaveType, error) {
	var list []model.LeaveType
	err := r.db.WithContext(ctx).Order("label ASC").Find(&list).Error
	return list, err
}

func (r *leaveTypeRepo) Create(ctx context.Context, lt *model.LeaveType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *leaveTypeRepo) Update(ctx context.Context, lt *model.LeaveType) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

func (r *leaveTypeRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.LeaveType{}, id)
}

// ── 班次类型 ──

// ShiftTypeRepository 班次类型数据访问接口
type ShiftTypeRepository interface {
	ListAll(ctx context.Context) ([]model.ShiftType, error)
	Create(ctx context.Context, st *model.ShiftType) error
	Update(ctx context.Context, st *model.ShiftType) error
	Delete(ctx context.Context, id string) error
}

type shiftTypeRepo struct {
	db *gorm.DB
}

func NewShiftTypeRepo(db *gorm.DB) ShiftTypeRepository {
	return &shiftTypeRepo{db: db}
}

func (r *shiftTypeRepo) ListAll(ctx context.Context) ([]model.ShiftType, error) {
	var list []model.ShiftType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *shiftTypeRepo) Create(ctx context.Context, st *model.ShiftType) error {
	return r.db.WithContext(ctx).Create(st).Error
}

func (r *shiftTypeRepo) Update(ctx context.Context, st *model.ShiftType) error {
	return r.db.WithContext(ctx).Save(st).Error
}

// Delete 删除班次类型，对应排班由外键级联删除
func (r *shiftTypeRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.ShiftType{}, id)
}

// ── 节假日 ──

// HolidayRepository 节假日数据访问接口
type HolidayRepository interface {
	ListAll(ctx context.Context) ([]model.Holiday, error)
	Create(ctx context.Context, h *model.Holiday) error
	Delete(ctx context.Context, id string) error
}

type holidayRepo struct {
	db *gorm.DB
}

func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

func (r *holidayRepo) ListAll(ctx context.Context) ([]model.Holiday, error) {
	var list []model.Holiday
	err := r.db.WithContext(ctx).Order("date ASC").Find(&list).Error
	return list, err
}

func (r *holidayRepo) Create(ctx context.Context, h *model.Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *holidayRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Holiday{}, id)
}

// ── 防护用品类型 ──

// PPETypeRepository 防护用品类型数据访问接口
type PPETypeRepository interface {
	ListAll(ctx context.Context) ([]model.PPEType, error)
	Create(ctx context.Context, pt *model.PPEType) error
	Update(ctx context.Context, pt *model.PPEType) error
	Delete(ctx context.Context, id string) error
}

type ppeTypeRepo struct {
	db *gorm.DB
}

func NewPPETypeRepo(db *gorm.DB) PPETypeRepository {
	return &ppeTypeRepo{db: db}
}

func (r *ppeTypeRepo) ListAll(ctx context.Context) ([]model.PPEType, error) {
	var list []model.PPEType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *ppeTypeRepo) Create(ctx context.Context, pt *model.PPEType) error {
	return r.db.WithContext(ctx).Create(pt).Error
}

func (r *ppeTypeRepo) Update(ctx context.Context, pt *model.PPEType) error {
	return r.db.WithContext(ctx).Save(pt).Error
}

func (r *ppeTypeRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.PPEType{}, id)
}
