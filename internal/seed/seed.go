package seed

import (
	"log/slog"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/repository"
)

// 一套贴近实际运营的基础数据：两个班次、常见岗位和默认配额，
// 供新环境初始化时一次性插入
var baselineShifts = []*domain.WorkShift{
	{
		Name:                 "早班",
		Kind:                 domain.ShiftKindMorning,
		StartTime:            "09:00:00",
		EndTime:              "12:00:00",
		LateThresholdMinutes: 15,
		ApplicableDays:       []int32{1, 2, 3, 4, 5, 6},
	},
	{
		Name:                 "晚班",
		Kind:                 domain.ShiftKindAfternoon,
		StartTime:            "13:30:00",
		EndTime:              "18:00:00",
		LateThresholdMinutes: 15,
		ApplicableDays:       []int32{1, 2, 3, 4, 5},
	},
}

var baselinePositions = []*domain.Position{
	{Name: "前台", DisplayOrder: 1},
	{Name: "机房", DisplayOrder: 2},
	{Name: "外勤", DisplayOrder: 3},
}

func SeedBaselineData(r *repository.Repository) {
	for _, shift := range baselineShifts {
		if err := r.CreateWorkShift(shift); err != nil {
			slog.Error("无法插入班次", "name", shift.Name, "error", err)
			continue
		}
		slog.Info("插入班次成功", "name", shift.Name, "id", shift.ID)
	}

	for _, position := range baselinePositions {
		if err := r.CreatePosition(position); err != nil {
			slog.Error("无法插入岗位", "name", position.Name, "error", err)
			continue
		}
		slog.Info("插入岗位成功", "name", position.Name, "id", position.ID)
	}

	if err := r.UpdateQuotaPolicy(domain.DefaultQuotaPolicy()); err != nil {
		slog.Error("无法写入默认配额", "error", err)
		return
	}
	slog.Info("写入默认配额成功")
}
