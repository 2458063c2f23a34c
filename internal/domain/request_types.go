package domain

// 系统内置申请类型；其余 typeId 均指向已配置的假期类型
const (
	TypeOvertimeEarn       = "OVERTIME_EARN"
	TypeOvertimePay        = "OVERTIME_PAY"
	TypeOvertimeSpendDays  = "OVERTIME_SPEND_DAYS"
	TypeWorkedHoliday      = "WORKED_HOLIDAY"
	TypeAdjustmentDays     = "ADJUSTMENT_DAYS"
	TypeAdjustmentOvertime = "ADJUSTMENT_OVERTIME"
	TypeUnjustifiedAbsence = "UNJUSTIFIED_ABSENCE"
)

// 预置假期类型
const (
	LeaveVacation  = "VACATION"
	LeaveSickLeave = "SICK_LEAVE"
)

var systemTypeLabels = map[string]string{
	TypeOvertimeEarn:       "Horas extra",
	TypeOvertimePay:        "Abono de horas extra",
	TypeOvertimeSpendDays:  "Canje de horas por días",
	TypeWorkedHoliday:      "Festivo trabajado",
	TypeAdjustmentDays:     "Ajuste de días",
	TypeAdjustmentOvertime: "Ajuste de horas",
	TypeUnjustifiedAbsence: "Ausencia injustificada",
}

// IsOvertimeRequest 是否属于加班台账类申请
func IsOvertimeRequest(typeID string) bool {
	switch typeID {
	case TypeOvertimeEarn, TypeOvertimePay, TypeOvertimeSpendDays, TypeWorkedHoliday, TypeAdjustmentOvertime:
		return true
	}
	return false
}

// IsOvertimeEarning 产生加班小时的类型
func IsOvertimeEarning(typeID string) bool {
	return typeID == TypeOvertimeEarn || typeID == TypeWorkedHoliday
}

// IsOvertimeSpending 消耗加班小时的类型
func IsOvertimeSpending(typeID string) bool {
	return typeID == TypeOvertimePay || typeID == TypeOvertimeSpendDays
}

// IsSystemType 是否为内置类型
func IsSystemType(typeID string) bool {
	_, ok := systemTypeLabels[typeID]
	return ok
}

// SystemTypeLabel 内置类型的显示名称
func SystemTypeLabel(typeID string) (string, bool) {
	l, ok := systemTypeLabels[typeID]
	return l, ok
}
