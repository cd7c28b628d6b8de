package roster

import (
	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

// OffCounts 统计一批用户在目标周里每个槽位的休班人数
//
// 登记表只记录用户要上的班次，休班是从名义义务反推出来的：
// 只有已经提交过本周计划（存在至少一条非 REJECTED 登记）的用户才计入统计，
// 否则还没提交的人会被当成全勤休班。
// 调用方负责筛掉正在提交的用户本人。
func OffCounts(
	users []*domain.User,
	registrations []*domain.ShiftRegistration,
	shifts []*domain.WorkShift,
	weekDates []string,
) map[Slot]int32 {
	registered := make(map[int64]map[Slot]bool)
	for _, reg := range registrations {
		if reg.Status == domain.RegistrationRejected {
			continue
		}
		if registered[reg.UserID] == nil {
			registered[reg.UserID] = make(map[Slot]bool)
		}
		registered[reg.UserID][Slot{WorkDate: reg.WorkDate, WorkShiftID: reg.WorkShiftID}] = true
	}

	counts := make(map[Slot]int32)
	for _, user := range users {
		slots := registered[user.ID]
		if len(slots) == 0 {
			// 该用户本周还没有提交计划
			continue
		}

		for _, slot := range Obligations(user.ScheduleType, shifts, weekDates) {
			if !slots[slot] {
				counts[slot]++
			}
		}
	}

	return counts
}
