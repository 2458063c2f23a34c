package dto

import "github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"

// ── 目录模块 DTO：假期类型、班次、节假日、防护用品类型 ──

// LeaveTypeRequest 创建或编辑假期类型
type LeaveTypeRequest struct {
	Label         string              `json:"label"         binding:"required,max=100"`
	SubtractsDays bool                `json:"subtractsDays"`
	FixedRanges   []domain.FixedRange `json:"fixedRanges"`
}

// ShiftTypeRequest 创建或编辑班次类型
type ShiftTypeRequest struct {
	Name     string                `json:"name"     binding:"required,max=100"`
	Color    string                `json:"color"`
	Segments []domain.ShiftSegment `json:"segments"`
}

// AssignShiftRequest 排班；shiftTypeId 为空表示清除
type AssignShiftRequest struct {
	UserID      string `json:"userId"      binding:"required"`
	Date        string `json:"date"        binding:"required,datetime=2006-01-02"`
	ShiftTypeID string `json:"shiftTypeId"`
}

// RangeQuery 日期区间查询
type RangeQuery struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to"   binding:"required,datetime=2006-01-02"`
}

// HolidayRequest 新增节假日
type HolidayRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
	Name string `json:"name" binding:"required,max=100"`
}

// YearQuery 按年份查询
type YearQuery struct {
	Year int `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// PPETypeRequest 创建或编辑防护用品类型
type PPETypeRequest struct {
	Name  string   `json:"name"  binding:"required,max=100"`
	Sizes []string `json:"sizes"`
}
