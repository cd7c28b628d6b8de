package domain

import "time"

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "PENDING"
	RegistrationApproved RegistrationStatus = "APPROVED"
	RegistrationRejected RegistrationStatus = "REJECTED"
)

// ShiftRegistration 表示某个用户承诺在某天上某个班次
// (UserID, WorkShiftID, WorkDate) 在所有非 REJECTED 记录中必须唯一
type ShiftRegistration struct {
	ID             int64              `json:"id"`
	UserID         int64              `json:"userID"`
	WorkShiftID    int64              `json:"workShiftID"`
	WorkDate       string             `json:"workDate"` // YYYY-MM-DD，统一使用日历日期而不是时间戳
	Status         RegistrationStatus `json:"status"`
	Note           string             `json:"note"`
	ApprovedBy     *int64             `json:"approvedBy"`
	ApprovedAt     *time.Time         `json:"approvedAt"`
	RejectedReason string             `json:"rejectedReason"`
	CreatedAt      time.Time          `json:"createdAt"`
	Version        int32              `json:"-"`
}

// ScheduleMember 是聚合视图中某个格子里的一名成员
type ScheduleMember struct {
	UserID     int64  `json:"userID"`
	FullName   string `json:"fullName"`
	PositionID *int64 `json:"positionID"`
}

// ScheduleCell 是聚合视图中 (日期, 班次) 对应的格子
type ScheduleCell struct {
	WorkDate    string           `json:"workDate"`
	WorkShiftID int64            `json:"workShiftID"`
	Headcount   int32            `json:"headcount"`
	Members     []ScheduleMember `json:"members"`
}

type WeekSchedule struct {
	WeekStart string         `json:"weekStart"`
	Cells     []ScheduleCell `json:"cells"`
}

// UserWeekRegistrations 是某个用户某一周的全部登记，按状态分组
type UserWeekRegistrations struct {
	WeekStart string               `json:"weekStart"`
	Pending   []*ShiftRegistration `json:"pending"`
	Approved  []*ShiftRegistration `json:"approved"`
	Rejected  []*ShiftRegistration `json:"rejected"`
}
