package roster_test

import (
	"testing"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWeek = []string{
	"2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12",
	"2026-03-13", "2026-03-14", "2026-03-15",
}

func workdayShifts() []*domain.WorkShift {
	return []*domain.WorkShift{
		{ID: 1, Name: "早班", Kind: domain.ShiftKindMorning, ApplicableDays: []int32{1, 2, 3, 4, 5}},
		{ID: 2, Name: "午班", Kind: domain.ShiftKindAfternoon, ApplicableDays: []int32{1, 2, 3, 4, 5}},
	}
}

func position(id int64) *int64 {
	return &id
}

func morningUser() *domain.User {
	return &domain.User{ID: 10, ScheduleType: domain.ScheduleMorningOnly, PositionID: position(1)}
}

func bothUser() *domain.User {
	return &domain.User{ID: 11, ScheduleType: domain.ScheduleBothShifts, PositionID: position(1)}
}

func policy() *domain.QuotaPolicy {
	return &domain.QuotaPolicy{
		MaxUserOffDaysPerWeek:          1,
		MaxUserOffShiftsPerWeek:        2,
		MaxShiftOffCountPerDayPosition: 1,
	}
}

func morningSlots(dates ...string) []roster.Slot {
	slots := make([]roster.Slot, 0, len(dates))
	for _, d := range dates {
		slots = append(slots, roster.Slot{WorkDate: d, WorkShiftID: 1})
	}
	return slots
}

func TestObligations(t *testing.T) {
	shifts := workdayShifts()

	morning := roster.Obligations(domain.ScheduleMorningOnly, shifts, testWeek)
	assert.Len(t, morning, 5) // 周一到周五各一个早班

	both := roster.Obligations(domain.ScheduleBothShifts, shifts, testWeek)
	assert.Len(t, both, 10)

	afternoon := roster.Obligations(domain.ScheduleAfternoonOnly, shifts, testWeek)
	require.Len(t, afternoon, 5)
	for _, slot := range afternoon {
		assert.Equal(t, int64(2), slot.WorkShiftID)
	}
}

// 单班制用户名义义务 5 个早班，上 4 休 1 正好在配额内
func TestValidatePlan_SingleShiftWithinQuota(t *testing.T) {
	plan := morningSlots("2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12")

	failures, err := roster.ValidatePlan(morningUser(), policy(), workdayShifts(), testWeek, plan, nil)
	require.NoError(t, err)
	assert.Empty(t, failures)
}

// 上 3 休 2 超出每周 1 天的配额，返回一条 user_off_limit
func TestValidatePlan_SingleShiftOverQuota(t *testing.T) {
	plan := morningSlots("2026-03-09", "2026-03-10", "2026-03-11")

	failures, err := roster.ValidatePlan(morningUser(), policy(), workdayShifts(), testWeek, plan, nil)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, roster.FailureUserOffLimit, failures[0].Type)
	assert.Contains(t, failures[0].Message, "休 2 天")
}

func TestValidatePlan_DualShiftCountsSlots(t *testing.T) {
	user := bothUser()
	shifts := workdayShifts()

	// 名义义务 10 个班次，休 3 个超出每周 2 个的配额
	plan := make([]roster.Slot, 0)
	for _, slot := range roster.Obligations(domain.ScheduleBothShifts, shifts, testWeek) {
		plan = append(plan, slot)
	}
	plan = plan[:len(plan)-3]

	failures, err := roster.ValidatePlan(user, policy(), shifts, testWeek, plan, nil)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, roster.FailureUserOffLimit, failures[0].Type)
	assert.Contains(t, failures[0].Message, "休 3 个")
}

func TestValidatePlan_PositionOccupancyCap(t *testing.T) {
	// 周五的早班同岗位已经有 1 人休班，配额上限 1
	occupancy := map[roster.Slot]int32{
		{WorkDate: "2026-03-13", WorkShiftID: 1}: 1,
	}
	plan := morningSlots("2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12")

	failures, err := roster.ValidatePlan(morningUser(), policy(), workdayShifts(), testWeek, plan, occupancy)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, roster.FailureShiftOffLimit, failures[0].Type)
	assert.Equal(t, "2026-03-13", failures[0].Date)
	assert.Equal(t, int64(1), failures[0].WorkShiftID)
	assert.Contains(t, failures[0].Message, "已有 1 人")
	assert.Contains(t, failures[0].Message, "上限为 1 人")
}

// 提交事务内的复核走的也是这条规则：占用数在上限以下时放行最后一个名额，
// 达到上限后拒绝。两个并发提交中后提交的那个在复核时会看到前者已占用名额
func TestValidatePlan_OccupancyAtBoundary(t *testing.T) {
	p := policy()
	p.MaxShiftOffCountPerDayPosition = 2
	plan := morningSlots("2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12")
	slot := roster.Slot{WorkDate: "2026-03-13", WorkShiftID: 1}

	failures, err := roster.ValidatePlan(morningUser(), p, workdayShifts(), testWeek, plan, map[roster.Slot]int32{slot: 1})
	require.NoError(t, err)
	assert.Empty(t, failures)

	failures, err = roster.ValidatePlan(morningUser(), p, workdayShifts(), testWeek, plan, map[roster.Slot]int32{slot: 2})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, roster.FailureShiftOffLimit, failures[0].Type)
}

// 所有违规必须一次性全部返回，而不是只返回第一条
func TestValidatePlan_AllFailuresReported(t *testing.T) {
	occupancy := map[roster.Slot]int32{
		{WorkDate: "2026-03-12", WorkShiftID: 1}: 1,
		{WorkDate: "2026-03-13", WorkShiftID: 1}: 1,
	}
	plan := morningSlots("2026-03-09", "2026-03-10", "2026-03-11")

	failures, err := roster.ValidatePlan(morningUser(), policy(), workdayShifts(), testWeek, plan, occupancy)
	require.NoError(t, err)
	require.Len(t, failures, 3)

	types := make(map[roster.FailureType]int)
	for _, f := range failures {
		types[f.Type]++
	}
	assert.Equal(t, 1, types[roster.FailureUserOffLimit])
	assert.Equal(t, 2, types[roster.FailureShiftOffLimit])
}

func TestValidatePlan_NoPositionSkipsOccupancy(t *testing.T) {
	user := morningUser()
	user.PositionID = nil

	occupancy := map[roster.Slot]int32{
		{WorkDate: "2026-03-13", WorkShiftID: 1}: 5,
	}
	plan := morningSlots("2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12")

	failures, err := roster.ValidatePlan(user, policy(), workdayShifts(), testWeek, plan, occupancy)
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestValidatePlan_RejectsMalformedPlans(t *testing.T) {
	user := morningUser()
	shifts := workdayShifts()

	tests := []struct {
		name string
		plan []roster.Slot
	}{
		{"重复的槽位", morningSlots("2026-03-09", "2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12")},
		{"不存在的班次", append(morningSlots("2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12"), roster.Slot{WorkDate: "2026-03-09", WorkShiftID: 99})},
		{"不在名义义务内的午班", append(morningSlots("2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12"), roster.Slot{WorkDate: "2026-03-09", WorkShiftID: 2})},
		{"周末不在班次适用范围内", morningSlots("2026-03-09", "2026-03-10", "2026-03-11", "2026-03-14")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := roster.ValidatePlan(user, policy(), shifts, testWeek, tt.plan, nil)
			assert.Error(t, err)
		})
	}
}
