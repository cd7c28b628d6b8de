package domain

import "time"

// ShiftKind 用于把班次和用户的 ScheduleType 对应起来
type ShiftKind string

const (
	ShiftKindMorning   ShiftKind = "MORNING"
	ShiftKindAfternoon ShiftKind = "AFTERNOON"
)

type WorkShift struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Kind                 ShiftKind `json:"kind"`
	StartTime            string    `json:"startTime"` // HH:MM:SS
	EndTime              string    `json:"endTime"`   // HH:MM:SS
	LateThresholdMinutes int32     `json:"lateThresholdMinutes"`
	ApplicableDays       []int32   `json:"applicableDays"` // 1 表示周一，7 表示周日
	DepartmentID         *int64    `json:"departmentID"`
	CreatedAt            time.Time `json:"createdAt"`
	Version              int32     `json:"-"`
}

// AppliesTo 判断该班次在一周的第 day 天（1 = 周一）是否需要有人值班
func (ws *WorkShift) AppliesTo(day int32) bool {
	for _, d := range ws.ApplicableDays {
		if d == day {
			return true
		}
	}
	return false
}

type Position struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int32     `json:"displayOrder"` // 展示顺序由服务端统一维护，不依赖客户端本地状态
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
