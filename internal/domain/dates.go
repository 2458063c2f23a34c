package domain

import (
	"errors"
	"regexp"
	"time"
)

// DateLayout 日期字段统一格式
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("日期格式无效")
	ErrInvalidRange = errors.New("结束日期早于开始日期")

	colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate 按 YYYY-MM-DD 输出日期部分
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateRange 校验开始/结束日期，end 可为空
func ValidateRange(start, end string) error {
	s, err := ParseDate(start)
	if err != nil {
		return err
	}
	if end == "" {
		return nil
	}
	e, err := ParseDate(end)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return ErrInvalidRange
	}
	return nil
}

// DaysInclusive 闭区间包含的自然日数
func DaysInclusive(start, end string) int {
	s, err := ParseDate(start)
	if err != nil {
		return 0
	}
	if end == "" {
		return 1
	}
	e, err := ParseDate(end)
	if err != nil || e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// RangesOverlap 两个闭区间是否有交集（日期为 YYYY-MM-DD，可直接按字符串比较）
func RangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	if aEnd == "" {
		aEnd = aStart
	}
	if bEnd == "" {
		bEnd = bStart
	}
	return aStart <= bEnd && bStart <= aEnd
}

// ValidTimeOfDay 校验 HH:MM
func ValidTimeOfDay(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}

// ValidColor 校验 #RGB / #RRGGBB
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}
