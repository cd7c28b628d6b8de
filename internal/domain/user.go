package domain

import (
	"time"
)

type Role string

const (
	RoleStaff Role = "员工"
	RoleAdmin Role = "管理员"
)

// ScheduleType 决定了用户每周名义上需要覆盖哪些类型的班次
type ScheduleType string

const (
	ScheduleBothShifts    ScheduleType = "BOTH_SHIFTS"
	ScheduleMorningOnly   ScheduleType = "MORNING_ONLY"
	ScheduleAfternoonOnly ScheduleType = "AFTERNOON_ONLY"
)

// IsSingleShift 单班制用户按天计算请假配额，双班制用户按班次计算
func (st ScheduleType) IsSingleShift() bool {
	return st == ScheduleMorningOnly || st == ScheduleAfternoonOnly
}

type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	FullName     string       `json:"fullName"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	ScheduleType ScheduleType `json:"scheduleType"`
	PositionID   *int64       `json:"positionID"` // 为空表示该用户没有岗位，不参与岗位同时休班配额
	IsActive     bool         `json:"isActive"`
	CreatedAt    time.Time    `json:"createdAt"`
	Version      int32        `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
