package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/week"
)

// GetWeekSchedule 返回某一周的聚合班表，只包含已通过的登记
func (h *Handler) GetWeekSchedule(w http.ResponseWriter, r *http.Request) {
	weekStart := week.CurrentWeekStart(time.Now())
	if param := r.URL.Query().Get("weekStart"); param != "" {
		parsed, err := week.ParseDate(param, time.Local)
		if err != nil {
			h.errorResponse(w, r, "周起始日期格式错误")
			return
		}
		weekStart = week.CurrentWeekStart(parsed)
	}

	var positionID *int64
	if param := r.URL.Query().Get("positionID"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "岗位 ID 格式错误")
			return
		}
		positionID = &id
	}

	dates := week.WeekDates(weekStart)
	schedule, err := h.repository.GetWeekSchedule(dates[0], dates[len(dates)-1], positionID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班表成功", schedule)
}
