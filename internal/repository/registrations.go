package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
	"github.com/nimbus-crew/rosterd/backend/internal/roster"
)

func (r *Repository) GetRegistrationByID(id int64) (*domain.ShiftRegistration, error) {
	query := `
		SELECT user_id, work_shift_id, work_date::text, status, note, approved_by, approved_at, rejected_reason, created_at, version
		FROM shift_registrations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	reg := &domain.ShiftRegistration{
		ID: id,
	}

	dst := []any{&reg.UserID, &reg.WorkShiftID, &reg.WorkDate, &reg.Status, &reg.Note, &reg.ApprovedBy, &reg.ApprovedAt, &reg.RejectedReason, &reg.CreatedAt, &reg.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return reg, nil
}

func scanRegistrations(rows *sql.Rows) ([]*domain.ShiftRegistration, error) {
	registrations := make([]*domain.ShiftRegistration, 0)

	for rows.Next() {
		reg := &domain.ShiftRegistration{}
		dst := []any{&reg.ID, &reg.UserID, &reg.WorkShiftID, &reg.WorkDate, &reg.Status, &reg.Note, &reg.ApprovedBy, &reg.ApprovedAt, &reg.RejectedReason, &reg.CreatedAt, &reg.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		registrations = append(registrations, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return registrations, nil
}

const registrationColumns = `id, user_id, work_shift_id, work_date::text, status, note, approved_by, approved_at, rejected_reason, created_at, version`

// GetRegistrationsByUserAndWeek 返回用户在 [weekStart, weekEnd] 内的全部登记，包括被驳回的
func (r *Repository) GetRegistrationsByUserAndWeek(userID int64, weekStart, weekEnd string) ([]*domain.ShiftRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM shift_registrations
		WHERE user_id = $1 AND work_date BETWEEN $2::date AND $3::date
		ORDER BY work_date, work_shift_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRegistrations(rows)
}

// ListRegistrations 供管理员审批视图使用，weekStart 或 status 为空时表示不过滤
func (r *Repository) ListRegistrations(weekStart, weekEnd string, status domain.RegistrationStatus) ([]*domain.ShiftRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM shift_registrations
		WHERE ($1::date IS NULL OR work_date BETWEEN $1::date AND $2::date)
			AND ($3::text IS NULL OR status = $3::text)
		ORDER BY work_date, work_shift_id, user_id
	`

	// 空字符串表示不过滤，以 NULL 传入让条件在 SQL 层短路
	var weekStartArg, weekEndArg, statusArg any
	if weekStart != "" {
		weekStartArg, weekEndArg = weekStart, weekEnd
	}
	if status != "" {
		statusArg = string(status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, weekStartArg, weekEndArg, statusArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRegistrations(rows)
}

// GetCohortWeekRegistrations 返回同岗位其他在职用户在目标周的非 REJECTED 登记
// 用于提交前的配额校验；事务内的复核使用 offCountsInTx
func (r *Repository) GetCohortWeekRegistrations(positionID int64, excludeUserID int64, weekStart, weekEnd string) ([]*domain.ShiftRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM shift_registrations sr
		WHERE status <> $1
			AND work_date BETWEEN $2::date AND $3::date
			AND EXISTS (
				SELECT 1 FROM users u
				WHERE u.id = sr.user_id AND u.position_id = $4 AND u.is_active = TRUE AND u.id <> $5
			)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, domain.RegistrationRejected, weekStart, weekEnd, positionID, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRegistrations(rows)
}

type ReplaceWeekPlanResult struct {
	Inserted     []*domain.ShiftRegistration
	DeletedCount int
}

// ReplaceWeekPlan 把用户在目标周的登记原子性地替换成新计划
//
// 配额校验在写入前已经做过一次，但校验和写入之间存在先检查后写入的竞态：
// 两个同岗位用户同时提交时可能都看到名额未满。因此事务内先用咨询锁
// 串行化同岗位的提交，再复核一次岗位配额，超额时整个事务回滚并返回
// domain.ErrQuotaRace，调用方可以安全重试（替换是幂等的）。
// 同一个用户对同一周的并发重提交由用户级咨询锁串行化。
func (r *Repository) ReplaceWeekPlan(
	user *domain.User,
	weekDates []string,
	plan []roster.Slot,
	policy *domain.QuotaPolicy,
	shifts []*domain.WorkShift,
) (*ReplaceWeekPlanResult, error) {
	weekStart, weekEnd := weekDates[0], weekDates[len(weekDates)-1]

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 锁的获取顺序固定为先用户后岗位，避免死锁
	query := `SELECT pg_advisory_xact_lock(hashtextextended('week_plan_user_' || $1::text, 0))`
	if _, err := tx.ExecContext(ctx, query, user.ID); err != nil {
		return nil, err
	}

	if user.PositionID != nil {
		query := `SELECT pg_advisory_xact_lock(hashtextextended('week_plan_position_' || $1::text || '_' || $2, 0))`
		if _, err := tx.ExecContext(ctx, query, *user.PositionID, weekStart); err != nil {
			return nil, err
		}
	}

	// 拿到锁之后才读取现状，保证看到的是所有已提交事务的结果
	query = `
		SELECT ` + registrationColumns + `
		FROM shift_registrations
		WHERE user_id = $1 AND work_date BETWEEN $2::date AND $3::date
	`
	rows, err := tx.QueryContext(ctx, query, user.ID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	existing, err := scanRegistrations(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	// 复核岗位配额
	if user.PositionID != nil {
		occupancy, err := r.offCountsInTx(ctx, tx, user, weekStart, weekEnd, shifts, weekDates)
		if err != nil {
			return nil, err
		}

		failures, err := roster.ValidatePlan(user, policy, shifts, weekDates, plan, occupancy)
		if err != nil {
			return nil, err
		}
		if len(failures) > 0 {
			return nil, domain.ErrQuotaRace
		}
	}

	diff := roster.DiffWeekPlan(existing, plan)
	result := &ReplaceWeekPlanResult{
		Inserted: make([]*domain.ShiftRegistration, 0, len(diff.Insert)),
	}

	for _, id := range diff.DeleteIDs {
		query := `DELETE FROM shift_registrations WHERE id = $1 AND status = $2`
		res, err := tx.ExecContext(ctx, query, id, domain.RegistrationPending)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		result.DeletedCount += int(affected)
	}

	for _, slot := range diff.Insert {
		query := `
			INSERT INTO shift_registrations (user_id, work_shift_id, work_date, status)
			VALUES ($1, $2, $3::date, $4)
			RETURNING id, created_at, version
		`
		reg := &domain.ShiftRegistration{
			UserID:      user.ID,
			WorkShiftID: slot.WorkShiftID,
			WorkDate:    slot.WorkDate,
			Status:      domain.RegistrationPending,
		}
		if err := tx.QueryRowContext(ctx, query, user.ID, slot.WorkShiftID, slot.WorkDate, domain.RegistrationPending).Scan(&reg.ID, &reg.CreatedAt, &reg.Version); err != nil {
			return nil, err
		}
		result.Inserted = append(result.Inserted, reg)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return result, nil
}

// offCountsInTx 在替换事务内部统计同岗位其他用户的休班人数
func (r *Repository) offCountsInTx(
	ctx context.Context,
	tx *sql.Tx,
	user *domain.User,
	weekStart, weekEnd string,
	shifts []*domain.WorkShift,
	weekDates []string,
) (map[roster.Slot]int32, error) {
	query := `
		SELECT id, username, full_name, email, role, schedule_type, position_id, is_active, created_at, version
		FROM users
		WHERE position_id = $1 AND is_active = TRUE AND id <> $2
	`

	rows, err := tx.QueryContext(ctx, query, *user.PositionID, user.ID)
	if err != nil {
		return nil, err
	}

	cohort := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		dst := []any{&u.ID, &u.Username, &u.FullName, &u.Email, &u.Role, &u.ScheduleType, &u.PositionID, &u.IsActive, &u.CreatedAt, &u.Version}
		if err := rows.Scan(dst...); err != nil {
			rows.Close()
			return nil, err
		}
		cohort = append(cohort, u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	query = `
		SELECT ` + registrationColumns + `
		FROM shift_registrations sr
		WHERE status <> $1
			AND work_date BETWEEN $2::date AND $3::date
			AND EXISTS (
				SELECT 1 FROM users u
				WHERE u.id = sr.user_id AND u.position_id = $4 AND u.is_active = TRUE AND u.id <> $5
			)
	`

	rows, err = tx.QueryContext(ctx, query, domain.RegistrationRejected, weekStart, weekEnd, *user.PositionID, user.ID)
	if err != nil {
		return nil, err
	}
	registrations, err := scanRegistrations(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	return roster.OffCounts(cohort, registrations, shifts, weekDates), nil
}

// ApproveRegistration 把 PENDING 的登记置为 APPROVED，记录审批人和时间
// 对非 PENDING 的登记返回 domain.ErrRegistrationNotPending，不存在时返回 sql.ErrNoRows
func (r *Repository) ApproveRegistration(id int64, approverID int64) (*domain.ShiftRegistration, error) {
	query := `
		UPDATE shift_registrations
		SET
			status = $1,
			approved_by = $2,
			approved_at = NOW(),
			version = version + 1
		WHERE id = $3 AND status = $4
		RETURNING ` + registrationColumns + `
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	reg := &domain.ShiftRegistration{}
	dst := []any{&reg.ID, &reg.UserID, &reg.WorkShiftID, &reg.WorkDate, &reg.Status, &reg.Note, &reg.ApprovedBy, &reg.ApprovedAt, &reg.RejectedReason, &reg.CreatedAt, &reg.Version}
	err := r.dbpool.QueryRowContext(ctx, query, domain.RegistrationApproved, approverID, id, domain.RegistrationPending).Scan(dst...)
	if err == nil {
		return reg, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	// 没有命中条件更新：区分记录不存在和状态不对
	current, err := r.GetRegistrationByID(id)
	if err != nil {
		return nil, err
	}
	if err := roster.CheckDecision(current.Status, domain.RegistrationApproved); err != nil {
		return nil, err
	}
	// 重读时仍是 PENDING 只可能是并发窗口，按状态错误处理让调用方重试
	return nil, domain.ErrRegistrationNotPending
}

// RejectRegistration 驳回 PENDING 的登记；被驳回后同一个自然键立即可以重新登记
func (r *Repository) RejectRegistration(id int64, approverID int64, reason string) (*domain.ShiftRegistration, error) {
	query := `
		UPDATE shift_registrations
		SET
			status = $1,
			approved_by = $2,
			approved_at = NOW(),
			rejected_reason = $3,
			version = version + 1
		WHERE id = $4 AND status = $5
		RETURNING ` + registrationColumns + `
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	reg := &domain.ShiftRegistration{}
	dst := []any{&reg.ID, &reg.UserID, &reg.WorkShiftID, &reg.WorkDate, &reg.Status, &reg.Note, &reg.ApprovedBy, &reg.ApprovedAt, &reg.RejectedReason, &reg.CreatedAt, &reg.Version}
	err := r.dbpool.QueryRowContext(ctx, query, domain.RegistrationRejected, approverID, reason, id, domain.RegistrationPending).Scan(dst...)
	if err == nil {
		return reg, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	current, err := r.GetRegistrationByID(id)
	if err != nil {
		return nil, err
	}
	if err := roster.CheckDecision(current.Status, domain.RegistrationRejected); err != nil {
		return nil, err
	}
	return nil, domain.ErrRegistrationNotPending
}

// QuickAddRegistration 管理员直接插入一条 APPROVED 的登记，绕过窗口和配额
// 自然键冲突时返回的唯一约束错误由调用方映射
func (r *Repository) QuickAddRegistration(reg *domain.ShiftRegistration, approverID int64) error {
	query := `
		INSERT INTO shift_registrations (user_id, work_shift_id, work_date, status, note, approved_by, approved_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, NOW())
		RETURNING id, approved_at, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	reg.Status = domain.RegistrationApproved
	reg.ApprovedBy = &approverID

	args := []any{reg.UserID, reg.WorkShiftID, reg.WorkDate, reg.Status, reg.Note, approverID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&reg.ID, &reg.ApprovedAt, &reg.CreatedAt, &reg.Version); err != nil {
		return err
	}

	return nil
}

// UpdateRegistration 管理员直接修改登记，不区分状态，不重新校验配额
func (r *Repository) UpdateRegistration(reg *domain.ShiftRegistration) error {
	query := `
		UPDATE shift_registrations
		SET
			work_shift_id = $1,
			work_date = $2::date,
			note = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{reg.WorkShiftID, reg.WorkDate, reg.Note, reg.ID, reg.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&reg.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRegistration(id int64) error {
	query := `
		DELETE FROM shift_registrations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
