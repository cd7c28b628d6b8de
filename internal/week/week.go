// Package week 集中维护周边界和登记窗口的计算
// 所有跨组件传递的日期都使用 YYYY-MM-DD 的日历日期字符串，避免时区带来的偏移
package week

import (
	"time"
)

const DateLayout = "2006-01-02"

// CurrentWeekStart 返回 now 所在周的周一（本地时区的零点）
func CurrentWeekStart(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	offset := int(time.Monday - day.Weekday())
	if day.Weekday() == time.Sunday {
		offset = -6
	}

	return day.AddDate(0, 0, offset)
}

// NextWeekStart 返回 now 所在周的下一周的周一
func NextWeekStart(now time.Time) time.Time {
	return CurrentWeekStart(now).AddDate(0, 0, 7)
}

// CanRegisterNextWeek 判断此刻是否允许员工登记下周的班次
// 窗口从本周的第 openWeekday 天（1 = 周一）开始，到本周周日结束
// 管理员的直接写入路径不经过这个检查
func CanRegisterNextWeek(now time.Time, openWeekday int) bool {
	if openWeekday < 1 || openWeekday > 7 {
		return false
	}

	weekStart := CurrentWeekStart(now)
	openAt := weekStart.AddDate(0, 0, openWeekday-1)
	closeAt := weekStart.AddDate(0, 0, 7)

	return !now.Before(openAt) && now.Before(closeAt)
}

// WeekDates 返回从 weekStart 开始的 7 个日历日期（周一到周日）
func WeekDates(weekStart time.Time) []string {
	dates := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = weekStart.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// DayOfWeek 返回 date 在其所在周中的序号（1 = 周一，7 = 周日）
func DayOfWeek(date time.Time) int32 {
	if date.Weekday() == time.Sunday {
		return 7
	}
	return int32(date.Weekday())
}

// ParseDate 解析 YYYY-MM-DD 格式的日期，时区与 loc 一致
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}

// FormatDate 把时间归一化成日历日期字符串
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
