package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/week"
)

// QuickAddRegistration 管理员直接插入一条已通过的登记，不检查配额
func (h *Handler) QuickAddRegistration(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		UserID      int64  `json:"userID" validate:"required"`
		WorkShiftID int64  `json:"workShiftID" validate:"required"`
		WorkDate    string `json:"workDate" validate:"required"`
		Note        string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if _, err := week.ParseDate(req.WorkDate, time.Local); err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}

	registration := &domain.ShiftRegistration{
		UserID:      req.UserID,
		WorkShiftID: req.WorkShiftID,
		WorkDate:    req.WorkDate,
		Note:        req.Note,
	}

	if err := h.repository.QuickAddRegistration(registration, myInfo.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.ConstraintName {
			case "shift_registrations_natural_key":
				h.errorResponse(w, r, "该用户在这一天已有相同班次的登记")
			case "shift_registrations_user_id_fkey":
				h.errorResponse(w, r, "用户不存在")
			case "shift_registrations_work_shift_id_fkey":
				h.errorResponse(w, r, "班次不存在")
			default:
				h.internalServerError(w, r, err)
			}
		} else {
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "添加登记成功", registration)
}

// QuickEditRegistration 管理员修改单条登记，带版本号乐观锁
func (h *Handler) QuickEditRegistration(w http.ResponseWriter, r *http.Request) {
	registration := r.Context().Value(RegistrationCtx).(*domain.ShiftRegistration)

	var req struct {
		WorkShiftID *int64  `json:"workShiftID"`
		WorkDate    *string `json:"workDate"`
		Note        *string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.WorkShiftID != nil {
		registration.WorkShiftID = *req.WorkShiftID
	}
	if req.WorkDate != nil {
		if _, err := week.ParseDate(*req.WorkDate, time.Local); err != nil {
			h.errorResponse(w, r, "日期格式错误")
			return
		}
		registration.WorkDate = *req.WorkDate
	}
	if req.Note != nil {
		registration.Note = *req.Note
	}

	if err := h.repository.UpdateRegistration(registration); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该登记已被其他人修改，请刷新后重试")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_registrations_natural_key":
			h.errorResponse(w, r, "该用户在这一天已有相同班次的登记")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_registrations_work_shift_id_fkey":
			h.errorResponse(w, r, "班次不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "修改登记成功", registration)
}

func (h *Handler) QuickDeleteRegistration(w http.ResponseWriter, r *http.Request) {
	registration := r.Context().Value(RegistrationCtx).(*domain.ShiftRegistration)

	if err := h.repository.DeleteRegistration(registration.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.errorResponse(w, r, "登记不存在")
		} else {
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除登记成功", nil)
}
