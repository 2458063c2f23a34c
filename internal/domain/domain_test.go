package domain

import "testing"

func TestIsOvertimeRequest(t *testing.T) {
	tests := []struct {
		typeID string
		want   bool
	}{
		{TypeOvertimeEarn, true},
		{TypeOvertimePay, true},
		{TypeOvertimeSpendDays, true},
		{TypeWorkedHoliday, true},
		{TypeAdjustmentOvertime, true},
		{TypeAdjustmentDays, false},
		{TypeUnjustifiedAbsence, false},
		{LeaveVacation, false},
		{"lt-7f3a", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsOvertimeRequest(tt.typeID); got != tt.want {
			t.Errorf("IsOvertimeRequest(%q) 期望 %v，实际 %v", tt.typeID, tt.want, got)
		}
	}
}

func TestDaysInclusive(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2025-07-01", "2025-07-05", 5},
		{"2025-07-01", "", 1},
		{"2025-07-01", "2025-07-01", 1},
		{"2025-02-27", "2025-03-02", 4},
		{"2025-07-05", "2025-07-01", 0},
		{"bad", "", 0},
	}
	for _, tt := range tests {
		if got := DaysInclusive(tt.start, tt.end); got != tt.want {
			t.Errorf("DaysInclusive(%s,%s) 期望 %d，实际 %d", tt.start, tt.end, tt.want, got)
		}
	}
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"部分重叠", "2025-07-01", "2025-07-05", "2025-07-05", "2025-07-10", true},
		{"包含", "2025-07-01", "2025-07-31", "2025-07-10", "2025-07-12", true},
		{"相邻不重叠", "2025-07-01", "2025-07-04", "2025-07-05", "2025-07-06", false},
		{"单日", "2025-07-03", "", "2025-07-01", "2025-07-05", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RangesOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("期望 %v，实际 %v", tt.want, got)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange("2025-07-05", "2025-07-01"); err != ErrInvalidRange {
		t.Errorf("期望 ErrInvalidRange，实际 %v", err)
	}
	if err := ValidateRange("07/01/2025", ""); err != ErrInvalidDate {
		t.Errorf("期望 ErrInvalidDate，实际 %v", err)
	}
	if err := ValidateRange("2025-07-01", ""); err != nil {
		t.Errorf("单日区间应合法: %v", err)
	}
}

func TestLeaveRequest_Remaining(t *testing.T) {
	h := 10.0
	r := LeaveRequest{Hours: &h, ConsumedHours: 4}
	if r.Remaining() != 6 {
		t.Errorf("期望剩余 6，实际 %v", r.Remaining())
	}
	r.ConsumedHours = 12
	if r.Remaining() != 0 {
		t.Errorf("剩余不应为负，实际 %v", r.Remaining())
	}
}

func TestValidators(t *testing.T) {
	if !ValidTimeOfDay("08:30") || ValidTimeOfDay("8:30") || ValidTimeOfDay("25:00") {
		t.Error("ValidTimeOfDay 判断错误")
	}
	if !ValidColor("#1e293b") || !ValidColor("#fff") || ValidColor("red") {
		t.Error("ValidColor 判断错误")
	}
}
