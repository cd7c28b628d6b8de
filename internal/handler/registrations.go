package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/roster"
	"github.com/nimbus-crew/rosterd/backend/internal/week"
)

// GetMyRegistrations 返回当前用户本周和下周的登记情况以及下周窗口是否开放
func (h *Handler) GetMyRegistrations(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	now := time.Now()

	currentStart := week.CurrentWeekStart(now)
	nextStart := week.NextWeekStart(now)

	currentWeek, err := h.getUserWeekRegistrations(myInfo.ID, currentStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	nextWeek, err := h.getUserWeekRegistrations(myInfo.ID, nextStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的登记成功", map[string]any{
		"currentWeek":         currentWeek,
		"nextWeek":            nextWeek,
		"canRegisterNextWeek": week.CanRegisterNextWeek(now, h.config.Registration.OpenWeekday),
	})
}

func (h *Handler) getUserWeekRegistrations(userID int64, weekStart time.Time) (*domain.UserWeekRegistrations, error) {
	dates := week.WeekDates(weekStart)

	registrations, err := h.repository.GetRegistrationsByUserAndWeek(userID, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}

	result := &domain.UserWeekRegistrations{
		WeekStart: dates[0],
		Pending:   make([]*domain.ShiftRegistration, 0),
		Approved:  make([]*domain.ShiftRegistration, 0),
		Rejected:  make([]*domain.ShiftRegistration, 0),
	}

	for _, reg := range registrations {
		switch reg.Status {
		case domain.RegistrationPending:
			result.Pending = append(result.Pending, reg)
		case domain.RegistrationApproved:
			result.Approved = append(result.Approved, reg)
		case domain.RegistrationRejected:
			result.Rejected = append(result.Rejected, reg)
		}
	}

	return result, nil
}

// SubmitWeekPlan 接收用户下周要上的全部班次并整体替换现有登记
// 服务端是计划的唯一权威：客户端发送完整集合，不做增量合并
func (h *Handler) SubmitWeekPlan(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		WeekStart string `json:"weekStart" validate:"required"`
		Plan      []struct {
			WorkDate    string `json:"workDate" validate:"required"`
			WorkShiftID int64  `json:"workShiftID" validate:"required"`
		} `json:"plan" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weekStart, err := week.ParseDate(req.WeekStart, time.Local)
	if err != nil {
		h.errorResponse(w, r, "周起始日期格式错误")
		return
	}
	// 非周一的输入归一化到所在周的周一，保证后续按周一推导的日期和义务对齐
	weekStart = week.CurrentWeekStart(weekStart)

	// 窗口规则：普通员工只能在开放时段内登记下一周，管理员不受限制
	now := time.Now()
	if !myInfo.IsAdmin() {
		if !weekStart.Equal(week.NextWeekStart(now)) {
			h.errorResponse(w, r, "只能登记下一周的班次")
			return
		}
		if !week.CanRegisterNextWeek(now, h.config.Registration.OpenWeekday) {
			h.errorResponse(w, r, "下周班次登记尚未开放")
			return
		}
	}

	weekDates := week.WeekDates(weekStart)

	plan := make([]roster.Slot, len(req.Plan))
	for i, item := range req.Plan {
		plan[i] = roster.Slot{
			WorkDate:    item.WorkDate,
			WorkShiftID: item.WorkShiftID,
		}
	}

	shifts, err := h.repository.GetAllWorkShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 配额配置按提交批次读取一次，整个批次使用同一份
	policy, err := h.getQuotaPolicy(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	occupancy := make(map[roster.Slot]int32)
	if myInfo.PositionID != nil {
		cohort, err := h.repository.GetActiveUsersByPosition(*myInfo.PositionID, myInfo.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		cohortRegs, err := h.repository.GetCohortWeekRegistrations(*myInfo.PositionID, myInfo.ID, weekDates[0], weekDates[len(weekDates)-1])
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		occupancy = roster.OffCounts(cohort, cohortRegs, shifts, weekDates)
	}

	// 任何配额违规都会让整个提交失败且不产生任何写入
	failures, err := roster.ValidatePlan(myInfo, policy, shifts, weekDates, plan, occupancy)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if len(failures) > 0 {
		h.quotaFailureResponse(w, r, failures)
		return
	}

	if _, err := h.repository.ReplaceWeekPlan(myInfo, weekDates, plan, policy, shifts); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, domain.ErrQuotaRace):
			h.errorResponse(w, r, err.Error())
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shift_registrations_natural_key":
				h.errorResponse(w, r, "登记发生冲突，请重试")
			case "shift_registrations_work_shift_id_fkey":
				h.errorResponse(w, r, "计划中包含已被删除的班次")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 成功数按被接受的整份计划统计：重复提交同一份计划时不会新插入任何行，
	// 但对用户来说这次提交同样是整体成功的
	h.successResponse(w, r, "提交班次登记成功", SubmitReport{
		SuccessCount: len(plan),
		ErrorCount:   0,
		Errors:       []roster.Failure{},
	})
}
