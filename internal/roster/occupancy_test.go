package roster_test

import (
	"testing"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/roster"
	"github.com/stretchr/testify/assert"
)

func reg(userID int64, date string, shiftID int64, status domain.RegistrationStatus) *domain.ShiftRegistration {
	return &domain.ShiftRegistration{
		UserID:      userID,
		WorkShiftID: shiftID,
		WorkDate:    date,
		Status:      status,
	}
}

func TestOffCounts_OnlySubmittedUsersCount(t *testing.T) {
	users := []*domain.User{
		{ID: 1, ScheduleType: domain.ScheduleMorningOnly},
		{ID: 2, ScheduleType: domain.ScheduleMorningOnly}, // 本周还没提交
	}

	// 用户 1 提交了周一到周四，休周五
	regs := []*domain.ShiftRegistration{
		reg(1, "2026-03-09", 1, domain.RegistrationPending),
		reg(1, "2026-03-10", 1, domain.RegistrationPending),
		reg(1, "2026-03-11", 1, domain.RegistrationApproved),
		reg(1, "2026-03-12", 1, domain.RegistrationPending),
	}

	counts := roster.OffCounts(users, regs, workdayShifts(), testWeek)

	assert.Equal(t, int32(1), counts[roster.Slot{WorkDate: "2026-03-13", WorkShiftID: 1}])
	// 用户 2 没提交过，不能按全勤休班计入
	assert.Len(t, counts, 1)
}

func TestOffCounts_RejectedRowsDoNotCountAsSubmission(t *testing.T) {
	users := []*domain.User{{ID: 1, ScheduleType: domain.ScheduleMorningOnly}}

	regs := []*domain.ShiftRegistration{
		reg(1, "2026-03-09", 1, domain.RegistrationRejected),
	}

	counts := roster.OffCounts(users, regs, workdayShifts(), testWeek)
	assert.Empty(t, counts)
}

func TestOffCounts_AccumulatesAcrossUsers(t *testing.T) {
	users := []*domain.User{
		{ID: 1, ScheduleType: domain.ScheduleMorningOnly},
		{ID: 2, ScheduleType: domain.ScheduleMorningOnly},
	}

	regs := make([]*domain.ShiftRegistration, 0)
	for _, userID := range []int64{1, 2} {
		// 两人都休周五
		for _, date := range []string{"2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12"} {
			regs = append(regs, reg(userID, date, 1, domain.RegistrationPending))
		}
	}

	counts := roster.OffCounts(users, regs, workdayShifts(), testWeek)
	assert.Equal(t, int32(2), counts[roster.Slot{WorkDate: "2026-03-13", WorkShiftID: 1}])
}
