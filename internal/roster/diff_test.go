package roster_test

import (
	"testing"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regWithID(id int64, date string, shiftID int64, status domain.RegistrationStatus) *domain.ShiftRegistration {
	r := reg(10, date, shiftID, status)
	r.ID = id
	return r
}

func TestDiffWeekPlan_ReplacesPending(t *testing.T) {
	existing := []*domain.ShiftRegistration{
		regWithID(1, "2026-03-09", 1, domain.RegistrationPending),
		regWithID(2, "2026-03-10", 1, domain.RegistrationPending),
	}
	plan := morningSlots("2026-03-10", "2026-03-11")

	diff := roster.DiffWeekPlan(existing, plan)

	assert.Equal(t, []int64{1}, diff.DeleteIDs)
	require.Len(t, diff.Insert, 1)
	assert.Equal(t, "2026-03-11", diff.Insert[0].WorkDate)
}

// 提交相同计划两次不会产生任何写操作
func TestDiffWeekPlan_Idempotent(t *testing.T) {
	existing := []*domain.ShiftRegistration{
		regWithID(1, "2026-03-09", 1, domain.RegistrationPending),
		regWithID(2, "2026-03-10", 1, domain.RegistrationPending),
	}
	plan := morningSlots("2026-03-09", "2026-03-10")

	diff := roster.DiffWeekPlan(existing, plan)

	assert.Empty(t, diff.DeleteIDs)
	assert.Empty(t, diff.Insert)
}

func TestDiffWeekPlan_ApprovedUntouched(t *testing.T) {
	existing := []*domain.ShiftRegistration{
		regWithID(1, "2026-03-09", 1, domain.RegistrationApproved),
		regWithID(2, "2026-03-10", 1, domain.RegistrationApproved),
	}

	// 计划包含一个已审批槽位、省略另一个：都不应产生写操作
	diff := roster.DiffWeekPlan(existing, morningSlots("2026-03-09"))

	assert.Empty(t, diff.DeleteIDs)
	assert.Empty(t, diff.Insert)
}

// 被驳回的登记不占用自然键，相同槽位可以重新产生 PENDING 登记
func TestDiffWeekPlan_RejectedKeyReusable(t *testing.T) {
	existing := []*domain.ShiftRegistration{
		regWithID(1, "2026-03-09", 1, domain.RegistrationRejected),
	}

	diff := roster.DiffWeekPlan(existing, morningSlots("2026-03-09"))

	assert.Empty(t, diff.DeleteIDs)
	require.Len(t, diff.Insert, 1)
	assert.Equal(t, "2026-03-09", diff.Insert[0].WorkDate)
}
