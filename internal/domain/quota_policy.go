package domain

// QuotaPolicy 是整个租户共用的配额配置，由管理员维护
// 每次提交整周计划前读取一次，同一批次内使用同一份配置
type QuotaPolicy struct {
	MaxUserOffDaysPerWeek          int32 `json:"maxUserOffDaysPerWeek"`          // 单班制用户每周最多休几天
	MaxUserOffShiftsPerWeek        int32 `json:"maxUserOffShiftsPerWeek"`        // 双班制用户每周最多休几个班次
	MaxShiftOffCountPerDayPosition int32 `json:"maxShiftOffCountPerDayPosition"` // 同岗位同一天同一班次最多同时休几个人
}

const (
	SettingMaxUserOffDaysPerWeek          = "quota.max_user_off_days_per_week"
	SettingMaxUserOffShiftsPerWeek        = "quota.max_user_off_shifts_per_week"
	SettingMaxShiftOffCountPerDayPosition = "quota.max_shift_off_count_per_day_position"
)

// DefaultQuotaPolicy 在设置表中没有对应键时使用
func DefaultQuotaPolicy() *QuotaPolicy {
	return &QuotaPolicy{
		MaxUserOffDaysPerWeek:          1,
		MaxUserOffShiftsPerWeek:        2,
		MaxShiftOffCountPerDayPosition: 1,
	}
}
