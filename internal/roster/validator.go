package roster

import (
	"fmt"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

type FailureType string

const (
	FailureUserOffLimit  FailureType = "user_off_limit"
	FailureShiftOffLimit FailureType = "shift_off_limit"
)

// Failure 是一条配额违规记录，提交失败时所有违规会一起返回给用户
type Failure struct {
	Type        FailureType `json:"type"`
	Date        string      `json:"date,omitempty"`
	WorkShiftID int64       `json:"shiftID,omitempty"`
	Message     string      `json:"message"`
}

// ValidatePlan 在任何写入发生之前校验用户提交的整周计划
//
// plan 是用户下周要上的全部班次（完整集合，不是增量），休班槽位由名义义务推导。
// occupancy 是同岗位其他用户已经占用的休班人数，按槽位计数。
// 返回的 error 表示计划本身不合法（重复、未知班次、不在名义义务内），
// 返回的 failures 表示配额违规；两者都为空时计划可以提交。
func ValidatePlan(
	user *domain.User,
	policy *domain.QuotaPolicy,
	shifts []*domain.WorkShift,
	weekDates []string,
	plan []Slot,
	occupancy map[Slot]int32,
) ([]Failure, error) {
	shiftByID := make(map[int64]*domain.WorkShift, len(shifts))
	for _, shift := range shifts {
		shiftByID[shift.ID] = shift
	}

	obligations := Obligations(user.ScheduleType, shifts, weekDates)
	obligated := make(map[Slot]bool, len(obligations))
	for _, slot := range obligations {
		obligated[slot] = true
	}

	// 计划本身必须合法：不重复、班次存在、并且落在名义义务内
	seen := make(map[Slot]bool, len(plan))
	for _, slot := range plan {
		if seen[slot] {
			return nil, fmt.Errorf("计划中 %s 重复出现", slot)
		}
		seen[slot] = true

		if _, ok := shiftByID[slot.WorkShiftID]; !ok {
			return nil, fmt.Errorf("班次 %d 不存在", slot.WorkShiftID)
		}
		if !obligated[slot] {
			return nil, fmt.Errorf("%s 不属于该用户的排班范围", slot)
		}
	}

	off := OffSlots(obligations, plan)
	failures := make([]Failure, 0)

	// 个人配额：单班制按天计，双班制按班次计
	if user.ScheduleType.IsSingleShift() {
		offDays := countOffDays(off)
		if offDays > policy.MaxUserOffDaysPerWeek {
			failures = append(failures, Failure{
				Type:    FailureUserOffLimit,
				Message: fmt.Sprintf("每周最多休 %d 天，当前计划休 %d 天", policy.MaxUserOffDaysPerWeek, offDays),
			})
		}
	} else {
		if int32(len(off)) > policy.MaxUserOffShiftsPerWeek {
			failures = append(failures, Failure{
				Type:    FailureUserOffLimit,
				Message: fmt.Sprintf("每周最多休 %d 个班次，当前计划休 %d 个", policy.MaxUserOffShiftsPerWeek, len(off)),
			})
		}
	}

	// 岗位配额：没有岗位的用户不占用任何岗位的名额
	if user.PositionID != nil {
		for _, slot := range off {
			count := occupancy[slot]
			if count+1 > policy.MaxShiftOffCountPerDayPosition {
				failures = append(failures, Failure{
					Type:        FailureShiftOffLimit,
					Date:        slot.WorkDate,
					WorkShiftID: slot.WorkShiftID,
					Message: fmt.Sprintf("%s 该班次同岗位已有 %d 人休班，上限为 %d 人",
						slot.WorkDate, count, policy.MaxShiftOffCountPerDayPosition),
				})
			}
		}
	}

	if len(failures) == 0 {
		return nil, nil
	}
	return failures, nil
}
