package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

func (h *Handler) GetAllPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.repository.GetAllPositions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取岗位列表成功", positions)
}

func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	position := r.Context().Value(PositionCtx).(*domain.Position)
	h.successResponse(w, r, "获取岗位信息成功", position)
}

func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name" validate:"required"`
		DisplayOrder int32  `json:"displayOrder" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	position := &domain.Position{
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
	}

	if err := h.repository.CreatePosition(position); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "positions_name_key" {
			h.badRequest(w, r, errors.New("岗位名称已存在"))
		} else {
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建岗位成功", position)
}

func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         *string `json:"name"`
		DisplayOrder *int32  `json:"displayOrder" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	position := r.Context().Value(PositionCtx).(*domain.Position)

	if req.Name != nil {
		position.Name = *req.Name
	}
	if req.DisplayOrder != nil {
		position.DisplayOrder = *req.DisplayOrder
	}

	if err := h.repository.UpdatePosition(position); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "positions_name_key":
			h.badRequest(w, r, errors.New("岗位名称已存在"))
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新岗位失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新岗位成功", position)
}

func (h *Handler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	position := r.Context().Value(PositionCtx).(*domain.Position)

	if err := h.repository.DeletePosition(position.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "users_position_id_fkey" {
			h.errorResponse(w, r, "该岗位下仍有用户，无法删除")
		} else {
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除岗位成功", nil)
}
