package roster_test

import (
	"testing"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDecision(t *testing.T) {
	tests := []struct {
		name    string
		current domain.RegistrationStatus
		target  domain.RegistrationStatus
		wantErr error
	}{
		{"通过待审批的登记", domain.RegistrationPending, domain.RegistrationApproved, nil},
		{"驳回待审批的登记", domain.RegistrationPending, domain.RegistrationRejected, nil},
		{"已通过的登记不能再次通过", domain.RegistrationApproved, domain.RegistrationApproved, domain.ErrRegistrationNotPending},
		{"已通过的登记不能转为驳回", domain.RegistrationApproved, domain.RegistrationRejected, domain.ErrRegistrationNotPending},
		{"已驳回的登记不能转为通过", domain.RegistrationRejected, domain.RegistrationApproved, domain.ErrRegistrationNotPending},
		{"已驳回的登记不能再次驳回", domain.RegistrationRejected, domain.RegistrationRejected, domain.ErrRegistrationNotPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := roster.CheckDecision(tt.current, tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// 重复审批同一条登记：第一次成功，第二次拿到状态错误
func TestCheckDecision_ApproveTwice(t *testing.T) {
	status := domain.RegistrationPending

	require.NoError(t, roster.CheckDecision(status, domain.RegistrationApproved))
	status = domain.RegistrationApproved

	assert.ErrorIs(t, roster.CheckDecision(status, domain.RegistrationApproved), domain.ErrRegistrationNotPending)
}

// 审批的目标状态只能是 APPROVED 或 REJECTED
func TestCheckDecision_TargetMustBeFinal(t *testing.T) {
	err := roster.CheckDecision(domain.RegistrationPending, domain.RegistrationPending)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRegistrationNotPending)
}

// 被驳回的登记不占用自然键，同一个槽位可以重新提交出新的 PENDING 登记，
// 新登记走完整的审批流程
func TestDecisionAfterResubmit(t *testing.T) {
	existing := []*domain.ShiftRegistration{
		regWithID(1, "2026-03-09", 1, domain.RegistrationRejected),
	}
	plan := []roster.Slot{{WorkDate: "2026-03-09", WorkShiftID: 1}}

	diff := roster.DiffWeekPlan(existing, plan)
	require.Len(t, diff.Insert, 1)
	assert.Empty(t, diff.DeleteIDs)

	// 旧的驳回记录保持不可变，新记录可以被审批
	assert.ErrorIs(t, roster.CheckDecision(domain.RegistrationRejected, domain.RegistrationApproved), domain.ErrRegistrationNotPending)
	assert.NoError(t, roster.CheckDecision(domain.RegistrationPending, domain.RegistrationApproved))
}
