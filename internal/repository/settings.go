package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

// GetQuotaPolicy 从设置表读取配额配置，缺失的键使用默认值
// 每次提交整周计划前读取一次，同一批次内不重复读取
func (r *Repository) GetQuotaPolicy() (*domain.QuotaPolicy, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT key, value FROM settings
		WHERE key IN ($1, $2, $3)
	`

	rows, err := r.dbpool.QueryContext(ctx, query,
		domain.SettingMaxUserOffDaysPerWeek,
		domain.SettingMaxUserOffShiftsPerWeek,
		domain.SettingMaxShiftOffCountPerDayPosition,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	policy := domain.DefaultQuotaPolicy()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}

		parsed, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			// 设置表里的脏数据不应导致提交失败，保留默认值
			continue
		}

		switch key {
		case domain.SettingMaxUserOffDaysPerWeek:
			policy.MaxUserOffDaysPerWeek = int32(parsed)
		case domain.SettingMaxUserOffShiftsPerWeek:
			policy.MaxUserOffShiftsPerWeek = int32(parsed)
		case domain.SettingMaxShiftOffCountPerDayPosition:
			policy.MaxShiftOffCountPerDayPosition = int32(parsed)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return policy, nil
}

// UpdateQuotaPolicy 把整份配额配置写回设置表
func (r *Repository) UpdateQuotaPolicy(policy *domain.QuotaPolicy) error {
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
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	entries := map[string]int32{
		domain.SettingMaxUserOffDaysPerWeek:          policy.MaxUserOffDaysPerWeek,
		domain.SettingMaxUserOffShiftsPerWeek:        policy.MaxUserOffShiftsPerWeek,
		domain.SettingMaxShiftOffCountPerDayPosition: policy.MaxShiftOffCountPerDayPosition,
	}

	for key, value := range entries {
		if _, err := tx.ExecContext(ctx, query, key, strconv.FormatInt(int64(value), 10)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
