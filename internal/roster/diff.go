package roster

import (
	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

// PlanDiff 描述把用户某一周的登记整体替换成新计划所需的写操作
type PlanDiff struct {
	DeleteIDs []int64 // 不在新计划中的 PENDING 登记
	Insert    []Slot  // 新计划中尚不存在非 REJECTED 登记的槽位
}

// DiffWeekPlan 对比用户现有的登记和新提交的整周计划
//
// APPROVED 的登记不参与替换：计划中包含它则跳过插入，不包含也不会删除，
// 用户无法通过重新提交撤销已审批的班次。
// REJECTED 的登记完全不参与对比，同一个自然键可以重新产生新的 PENDING 登记。
func DiffWeekPlan(existing []*domain.ShiftRegistration, plan []Slot) PlanDiff {
	planned := make(map[Slot]bool, len(plan))
	for _, slot := range plan {
		planned[slot] = true
	}

	diff := PlanDiff{
		DeleteIDs: make([]int64, 0),
		Insert:    make([]Slot, 0),
	}

	occupied := make(map[Slot]bool)
	for _, reg := range existing {
		slot := Slot{WorkDate: reg.WorkDate, WorkShiftID: reg.WorkShiftID}

		switch reg.Status {
		case domain.RegistrationPending:
			occupied[slot] = true
			if !planned[slot] {
				diff.DeleteIDs = append(diff.DeleteIDs, reg.ID)
			}
		case domain.RegistrationApproved:
			occupied[slot] = true
		case domain.RegistrationRejected:
			// 被驳回的登记不占用自然键
		}
	}

	for _, slot := range plan {
		if !occupied[slot] {
			diff.Insert = append(diff.Insert, slot)
		}
	}

	return diff
}
