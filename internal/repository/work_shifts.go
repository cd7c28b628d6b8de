package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

func (r *Repository) CreateWorkShift(shift *domain.WorkShift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO work_shifts (name, kind, start_time, end_time, late_threshold_minutes, department_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	args := []any{shift.Name, shift.Kind, shift.StartTime, shift.EndTime, shift.LateThresholdMinutes, shift.DepartmentID}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version); err != nil {
		return err
	}

	for _, day := range shift.ApplicableDays {
		query := `
			INSERT INTO work_shift_applicable_days (work_shift_id, day_of_week)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, shift.ID, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetWorkShiftByID(id int64) (*domain.WorkShift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, kind, start_time::text, end_time::text, late_threshold_minutes, department_id, created_at, version
		FROM work_shifts WHERE id = $1
	`

	shift := &domain.WorkShift{
		ID: id,
	}

	dst := []any{&shift.Name, &shift.Kind, &shift.StartTime, &shift.EndTime, &shift.LateThresholdMinutes, &shift.DepartmentID, &shift.CreatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		SELECT day_of_week FROM work_shift_applicable_days
		WHERE work_shift_id = $1
		ORDER BY day_of_week
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shift.ApplicableDays = make([]int32, 0)
	for rows.Next() {
		var day int32
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		shift.ApplicableDays = append(shift.ApplicableDays, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shift, nil
}

func (r *Repository) GetAllWorkShifts() ([]*domain.WorkShift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			ws.id,
			ws.name,
			ws.kind,
			ws.start_time::text,
			ws.end_time::text,
			ws.late_threshold_minutes,
			ws.department_id,
			ws.created_at,
			ws.version,
			wsad.day_of_week
		FROM work_shifts ws
		LEFT JOIN work_shift_applicable_days wsad ON ws.id = wsad.work_shift_id
		ORDER BY ws.start_time, wsad.day_of_week
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shiftsMap := make(map[int64]*domain.WorkShift)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			shift domain.WorkShift
			day   sql.NullInt32
		}

		dst := []any{
			&row.shift.ID,
			&row.shift.Name,
			&row.shift.Kind,
			&row.shift.StartTime,
			&row.shift.EndTime,
			&row.shift.LateThresholdMinutes,
			&row.shift.DepartmentID,
			&row.shift.CreatedAt,
			&row.shift.Version,
			&row.day,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := shiftsMap[row.shift.ID]; !exists {
			row.shift.ApplicableDays = make([]int32, 0)
			shiftsMap[row.shift.ID] = &row.shift
			order = append(order, row.shift.ID)
		}

		if row.day.Valid {
			shiftsMap[row.shift.ID].ApplicableDays = append(shiftsMap[row.shift.ID].ApplicableDays, row.day.Int32)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	shifts := make([]*domain.WorkShift, 0, len(order))
	for _, id := range order {
		shifts = append(shifts, shiftsMap[id])
	}

	return shifts, nil
}

func (r *Repository) UpdateWorkShift(shift *domain.WorkShift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE work_shifts
		SET
			name = $1,
			kind = $2,
			start_time = $3,
			end_time = $4,
			late_threshold_minutes = $5,
			department_id = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	args := []any{shift.Name, shift.Kind, shift.StartTime, shift.EndTime, shift.LateThresholdMinutes, shift.DepartmentID, shift.ID, shift.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.Version); err != nil {
		return err
	}

	// 适用天数整体替换
	query = `DELETE FROM work_shift_applicable_days WHERE work_shift_id = $1`
	if _, err := tx.ExecContext(ctx, query, shift.ID); err != nil {
		return err
	}

	for _, day := range shift.ApplicableDays {
		query := `
			INSERT INTO work_shift_applicable_days (work_shift_id, day_of_week)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, shift.ID, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWorkShift(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM work_shifts WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
