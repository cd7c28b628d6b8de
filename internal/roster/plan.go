// Package roster 实现每周班次登记的核心规则：
// 名义排班义务的推导、配额校验、休班人数统计和整周计划的差量计算
// 这里的函数都是纯函数，数据库读写由 repository 负责
package roster

import (
	"fmt"
	"slices"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

// Slot 表示一周内的一个班次槽位
type Slot struct {
	WorkDate    string `json:"workDate"` // YYYY-MM-DD
	WorkShiftID int64  `json:"workShiftID"`
}

func (s Slot) String() string {
	return fmt.Sprintf("%s/%d", s.WorkDate, s.WorkShiftID)
}

// kindMatches 判断某类班次是否属于该排班类型的名义义务
func kindMatches(st domain.ScheduleType, kind domain.ShiftKind) bool {
	switch st {
	case domain.ScheduleBothShifts:
		return true
	case domain.ScheduleMorningOnly:
		return kind == domain.ShiftKindMorning
	case domain.ScheduleAfternoonOnly:
		return kind == domain.ShiftKindAfternoon
	default:
		return false
	}
}

// Obligations 计算某个排班类型在目标周的全部名义班次槽位
// weekDates 必须是周一到周日的 7 个日期
func Obligations(st domain.ScheduleType, shifts []*domain.WorkShift, weekDates []string) []Slot {
	obligations := make([]Slot, 0)

	for i, date := range weekDates {
		day := int32(i + 1) // 1 = 周一
		for _, shift := range shifts {
			if !kindMatches(st, shift.Kind) {
				continue
			}
			if !shift.AppliesTo(day) {
				continue
			}
			obligations = append(obligations, Slot{WorkDate: date, WorkShiftID: shift.ID})
		}
	}

	return obligations
}

// OffSlots 返回名义义务中没有出现在计划里的槽位，即用户选择休掉的班次
func OffSlots(obligations []Slot, plan []Slot) []Slot {
	planned := make(map[Slot]bool, len(plan))
	for _, slot := range plan {
		planned[slot] = true
	}

	off := make([]Slot, 0)
	for _, slot := range obligations {
		if !planned[slot] {
			off = append(off, slot)
		}
	}
	return off
}

// countOffDays 统计休班槽位覆盖了几个不同的日期
func countOffDays(off []Slot) int32 {
	days := make([]string, 0, len(off))
	for _, slot := range off {
		if !slices.Contains(days, slot.WorkDate) {
			days = append(days, slot.WorkDate)
		}
	}
	return int32(len(days))
}
