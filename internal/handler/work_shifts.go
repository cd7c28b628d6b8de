package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/utils"
)

func (h *Handler) GetAllWorkShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.repository.GetAllWorkShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", shifts)
}

func (h *Handler) GetWorkShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(WorkShiftCtx).(*domain.WorkShift)
	h.successResponse(w, r, "获取班次信息成功", shift)
}

func (h *Handler) CreateWorkShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                 string  `json:"name" validate:"required"`
		Kind                 string  `json:"kind" validate:"required,oneof=MORNING AFTERNOON"`
		StartTime            string  `json:"startTime" validate:"required"`
		EndTime              string  `json:"endTime" validate:"required"`
		LateThresholdMinutes int32   `json:"lateThresholdMinutes" validate:"gte=0"`
		ApplicableDays       []int32 `json:"applicableDays" validate:"required,min=1,dive,gte=1,lte=7"`
		DepartmentID         *int64  `json:"departmentID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := &domain.WorkShift{
		Name:                 req.Name,
		Kind:                 domain.ShiftKind(req.Kind),
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		LateThresholdMinutes: req.LateThresholdMinutes,
		ApplicableDays:       req.ApplicableDays,
		DepartmentID:         req.DepartmentID,
	}

	// 检查开始结束时间合法，并和同类型既有班次做冲突检查
	existing, err := h.repository.GetAllWorkShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateWorkShiftTime(shift, existing); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateWorkShift(shift); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "work_shifts_name_key" {
			h.badRequest(w, r, errors.New("班次名称已存在"))
		} else {
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建班次成功", shift)
}

func (h *Handler) UpdateWorkShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                 *string `json:"name"`
		Kind                 *string `json:"kind" validate:"omitempty,oneof=MORNING AFTERNOON"`
		StartTime            *string `json:"startTime"`
		EndTime              *string `json:"endTime"`
		LateThresholdMinutes *int32  `json:"lateThresholdMinutes" validate:"omitempty,gte=0"`
		ApplicableDays       []int32 `json:"applicableDays" validate:"omitempty,min=1,dive,gte=1,lte=7"`
		DepartmentID         *int64  `json:"departmentID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := r.Context().Value(WorkShiftCtx).(*domain.WorkShift)

	if req.Name != nil {
		shift.Name = *req.Name
	}
	if req.Kind != nil {
		shift.Kind = domain.ShiftKind(*req.Kind)
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.LateThresholdMinutes != nil {
		shift.LateThresholdMinutes = *req.LateThresholdMinutes
	}
	if req.ApplicableDays != nil {
		shift.ApplicableDays = req.ApplicableDays
	}
	if req.DepartmentID != nil {
		shift.DepartmentID = req.DepartmentID
	}

	existing, err := h.repository.GetAllWorkShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateWorkShiftTime(shift, existing); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateWorkShift(shift); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "work_shifts_name_key":
			h.badRequest(w, r, errors.New("班次名称已存在"))
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新班次失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新班次成功", shift)
}

func (h *Handler) DeleteWorkShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(WorkShiftCtx).(*domain.WorkShift)

	if err := h.repository.DeleteWorkShift(shift.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_registrations_work_shift_id_fkey" {
			h.errorResponse(w, r, "该班次已有登记，无法删除")
		} else {
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除班次成功", nil)
}
