package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const quotaPolicyCacheKey = "quota_policy"

// getQuotaPolicy 优先读 redis 缓存，未命中再读设置表
// 配额配置读多写少，短暂的过期是可接受的，更新时会主动失效缓存
func (h *Handler) getQuotaPolicy(r *http.Request) (*domain.QuotaPolicy, error) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	cached, err := h.redisClient.Get(ctx, quotaPolicyCacheKey).Result()
	if err == nil {
		policy := &domain.QuotaPolicy{}
		if err := json.Unmarshal([]byte(cached), policy); err == nil {
			return policy, nil
		}
		// 缓存里的内容解析不了就当未命中处理
	} else if err != redis.Nil {
		return nil, err
	}

	policy, err := h.repository.GetQuotaPolicy()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(policy)
	if err != nil {
		return nil, err
	}
	if err := h.redisClient.Set(ctx, quotaPolicyCacheKey, data, time.Duration(h.config.Redis.PolicyCacheTTL)*time.Second).Err(); err != nil {
		return nil, err
	}

	return policy, nil
}

func (h *Handler) GetQuotaPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.getQuotaPolicy(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取配额配置成功", policy)
}

func (h *Handler) UpdateQuotaPolicy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MaxUserOffDaysPerWeek          *int32 `json:"maxUserOffDaysPerWeek" validate:"omitempty,min=0"`
		MaxUserOffShiftsPerWeek        *int32 `json:"maxUserOffShiftsPerWeek" validate:"omitempty,min=0"`
		MaxShiftOffCountPerDayPosition *int32 `json:"maxShiftOffCountPerDayPosition" validate:"omitempty,min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	policy, err := h.repository.GetQuotaPolicy()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if req.MaxUserOffDaysPerWeek != nil {
		policy.MaxUserOffDaysPerWeek = *req.MaxUserOffDaysPerWeek
	}
	if req.MaxUserOffShiftsPerWeek != nil {
		policy.MaxUserOffShiftsPerWeek = *req.MaxUserOffShiftsPerWeek
	}
	if req.MaxShiftOffCountPerDayPosition != nil {
		policy.MaxShiftOffCountPerDayPosition = *req.MaxShiftOffCountPerDayPosition
	}

	if err := h.repository.UpdateQuotaPolicy(policy); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 使缓存失效，下一次提交会读到新的配额
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := h.redisClient.Del(ctx, quotaPolicyCacheKey).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新配额配置成功", policy)
}
