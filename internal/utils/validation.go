package utils

import (
	"fmt"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

// ValidateWorkShiftTime 检查班次的开始结束时间是否合法，
// 并确保它和同类型的其他班次在时间上不冲突
func ValidateWorkShiftTime(shift *domain.WorkShift, existing []*domain.WorkShift) error {
	startTime, err := time.Parse("15:04:05", shift.StartTime)
	if err != nil {
		return fmt.Errorf("班次的开始时间格式错误")
	}
	endTime, err := time.Parse("15:04:05", shift.EndTime)
	if err != nil {
		return fmt.Errorf("班次的结束时间格式错误")
	}
	if !endTime.After(startTime) {
		return fmt.Errorf("班次的结束时间必须大于开始时间")
	}

	for _, other := range existing {
		if other.ID == shift.ID || other.Kind != shift.Kind {
			continue
		}

		otherStart, err := time.Parse("15:04:05", other.StartTime)
		if err != nil {
			continue
		}
		otherEnd, err := time.Parse("15:04:05", other.EndTime)
		if err != nil {
			continue
		}

		if !(startTime.After(otherEnd) || startTime.Equal(otherEnd) || otherStart.After(endTime) || otherStart.Equal(endTime)) {
			return fmt.Errorf("班次时间和班次 %s 冲突", other.Name)
		}
	}

	return nil
}
