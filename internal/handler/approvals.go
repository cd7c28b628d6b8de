package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/week"
)

// ListRegistrations 供管理员审批视图使用，可按周和状态过滤
func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	weekStart := ""
	weekEnd := ""
	if param := r.URL.Query().Get("weekStart"); param != "" {
		start, err := week.ParseDate(param, time.Local)
		if err != nil {
			h.errorResponse(w, r, "周起始日期格式错误")
			return
		}
		dates := week.WeekDates(start)
		weekStart, weekEnd = dates[0], dates[len(dates)-1]
	}

	status := domain.RegistrationStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.RegistrationPending, domain.RegistrationApproved, domain.RegistrationRejected:
	default:
		h.errorResponse(w, r, "无效的登记状态")
		return
	}

	registrations, err := h.repository.ListRegistrations(weekStart, weekEnd, status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取登记列表成功", registrations)
}

func (h *Handler) ApproveRegistration(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	reg := r.Context().Value(RegistrationCtx).(*domain.ShiftRegistration)

	approved, err := h.repository.ApproveRegistration(reg.ID, myInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRegistrationNotPending):
			h.errorResponse(w, r, err.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "登记不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.queueDecisionMails([]*domain.ShiftRegistration{approved}, true, "")

	h.successResponse(w, r, "审批通过成功", approved)
}

func (h *Handler) RejectRegistration(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	reg := r.Context().Value(RegistrationCtx).(*domain.ShiftRegistration)

	var req struct {
		Reason string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rejected, err := h.repository.RejectRegistration(reg.ID, myInfo.ID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRegistrationNotPending):
			h.errorResponse(w, r, err.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "登记不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.queueDecisionMails([]*domain.ShiftRegistration{rejected}, false, req.Reason)

	h.successResponse(w, r, "驳回成功", rejected)
}

type bulkError struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

// BulkApprove 逐条审批，单条失败不影响其他条目，结果按条目汇报
// 和整周计划提交不同，这里刻意不要求跨行原子性
func (h *Handler) BulkApprove(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		IDs []int64 `json:"ids" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	approvedIDs := make([]int64, 0, len(req.IDs))
	approvedRegs := make([]*domain.ShiftRegistration, 0, len(req.IDs))
	bulkErrors := make([]bulkError, 0)

	for _, id := range req.IDs {
		reg, err := h.repository.ApproveRegistration(id, myInfo.ID)
		if err != nil {
			bulkErrors = append(bulkErrors, bulkError{ID: id, Reason: h.bulkErrorReason(err)})
			continue
		}
		approvedIDs = append(approvedIDs, id)
		approvedRegs = append(approvedRegs, reg)
	}

	h.queueDecisionMails(approvedRegs, true, "")

	h.successResponse(w, r, "批量审批完成", map[string]any{
		"approved": approvedIDs,
		"errors":   bulkErrors,
	})
}

// BulkRejectForUser 一次驳回某个用户一周内的多条待审批登记
func (h *Handler) BulkRejectForUser(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		IDs    []int64 `json:"ids" validate:"required,min=1"`
		Reason string  `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 这批登记必须属于同一个用户
	var ownerID int64
	rejectedIDs := make([]int64, 0, len(req.IDs))
	rejectedRegs := make([]*domain.ShiftRegistration, 0, len(req.IDs))
	bulkErrors := make([]bulkError, 0)

	for _, id := range req.IDs {
		reg, err := h.repository.GetRegistrationByID(id)
		if err != nil {
			bulkErrors = append(bulkErrors, bulkError{ID: id, Reason: h.bulkErrorReason(err)})
			continue
		}

		if ownerID == 0 {
			ownerID = reg.UserID
		}
		if reg.UserID != ownerID {
			bulkErrors = append(bulkErrors, bulkError{ID: id, Reason: "不属于同一个用户"})
			continue
		}

		rejected, err := h.repository.RejectRegistration(id, myInfo.ID, req.Reason)
		if err != nil {
			bulkErrors = append(bulkErrors, bulkError{ID: id, Reason: h.bulkErrorReason(err)})
			continue
		}
		rejectedIDs = append(rejectedIDs, id)
		rejectedRegs = append(rejectedRegs, rejected)
	}

	h.queueDecisionMails(rejectedRegs, false, req.Reason)

	h.successResponse(w, r, "批量驳回完成", map[string]any{
		"rejected": rejectedIDs,
		"errors":   bulkErrors,
	})
}

func (h *Handler) bulkErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrRegistrationNotPending):
		return err.Error()
	case errors.Is(err, sql.ErrNoRows):
		return "登记不存在"
	default:
		return "服务器内部错误"
	}
}

// queueDecisionMails 按用户聚合审批结果并投递通知邮件
// 状态转换已经提交，邮件失败只记录日志，不影响接口结果
func (h *Handler) queueDecisionMails(registrations []*domain.ShiftRegistration, approved bool, reason string) {
	if len(registrations) == 0 {
		return
	}

	shifts, err := h.repository.GetAllWorkShifts()
	if err != nil {
		slog.Error("无法获取班次列表，跳过审批通知邮件", "error", err)
		return
	}
	shiftNames := make(map[int64]string, len(shifts))
	for _, shift := range shifts {
		shiftNames[shift.ID] = shift.Name
	}

	byUser := make(map[int64][]string)
	for _, reg := range registrations {
		name := shiftNames[reg.WorkShiftID]
		if name == "" {
			name = fmt.Sprintf("班次 %d", reg.WorkShiftID)
		}
		byUser[reg.UserID] = append(byUser[reg.UserID], fmt.Sprintf("%s %s", reg.WorkDate, name))
	}

	for userID, items := range byUser {
		user, err := h.repository.GetUserByID(userID)
		if err != nil {
			slog.Error("无法获取用户信息，跳过审批通知邮件", "userID", userID, "error", err)
			continue
		}

		if err := h.queueMail(domain.MailMessage{
			Type: "registration_decision",
			To:   user.Email,
			Data: domain.RegistrationDecisionMailData{
				FullName: user.FullName,
				Approved: approved,
				Items:    items,
				Reason:   reason,
			},
		}); err != nil {
			slog.Error("审批通知邮件投递失败", "userID", userID, "error", err)
		}
	}
}
