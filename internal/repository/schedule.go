package repository

import (
	"context"
	"sort"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

// GetWeekSchedule 聚合某一周已审批的登记，按 (日期, 班次) 分组
// positionID 不为空时只统计该岗位的成员
// 这是纯读侧投影，跨用户的短暂过期是可接受的
func (r *Repository) GetWeekSchedule(weekStart, weekEnd string, positionID *int64) (*domain.WeekSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			sr.work_date::text,
			sr.work_shift_id,
			u.id,
			u.full_name,
			u.position_id
		FROM shift_registrations sr
		JOIN users u ON u.id = sr.user_id
		WHERE sr.status = $1
			AND sr.work_date BETWEEN $2::date AND $3::date
			AND ($4::bigint IS NULL OR u.position_id = $4::bigint)
		ORDER BY sr.work_date, sr.work_shift_id, u.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, domain.RegistrationApproved, weekStart, weekEnd, positionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type cellKey struct {
		workDate    string
		workShiftID int64
	}

	cellsMap := make(map[cellKey]*domain.ScheduleCell)

	for rows.Next() {
		var row struct {
			workDate    string
			workShiftID int64
			member      domain.ScheduleMember
		}

		dst := []any{&row.workDate, &row.workShiftID, &row.member.UserID, &row.member.FullName, &row.member.PositionID}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		key := cellKey{workDate: row.workDate, workShiftID: row.workShiftID}
		if _, exists := cellsMap[key]; !exists {
			cellsMap[key] = &domain.ScheduleCell{
				WorkDate:    row.workDate,
				WorkShiftID: row.workShiftID,
				Members:     make([]domain.ScheduleMember, 0),
			}
		}

		cellsMap[key].Members = append(cellsMap[key].Members, row.member)
		cellsMap[key].Headcount++
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	schedule := &domain.WeekSchedule{
		WeekStart: weekStart,
		Cells:     make([]domain.ScheduleCell, 0, len(cellsMap)),
	}
	for _, cell := range cellsMap {
		schedule.Cells = append(schedule.Cells, *cell)
	}

	sort.Slice(schedule.Cells, func(i, j int) bool {
		if schedule.Cells[i].WorkDate != schedule.Cells[j].WorkDate {
			return schedule.Cells[i].WorkDate < schedule.Cells[j].WorkDate
		}
		return schedule.Cells[i].WorkShiftID < schedule.Cells[j].WorkShiftID
	})

	return schedule, nil
}
