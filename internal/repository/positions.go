package repository

import (
	"context"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

func (r *Repository) CreatePosition(position *domain.Position) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO positions (name, display_order)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, position.Name, position.DisplayOrder).Scan(&position.ID, &position.CreatedAt, &position.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPositionByID(id int64) (*domain.Position, error) {
	query := `
		SELECT name, display_order, created_at, version
		FROM positions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	position := &domain.Position{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&position.Name, &position.DisplayOrder, &position.CreatedAt, &position.Version); err != nil {
		return nil, err
	}

	return position, nil
}

// GetAllPositions 按展示顺序返回所有岗位，排序由服务端维护
func (r *Repository) GetAllPositions() ([]*domain.Position, error) {
	query := `
		SELECT id, name, display_order, created_at, version
		FROM positions
		ORDER BY display_order, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make([]*domain.Position, 0)
	for rows.Next() {
		position := &domain.Position{}
		if err := rows.Scan(&position.ID, &position.Name, &position.DisplayOrder, &position.CreatedAt, &position.Version); err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return positions, nil
}

func (r *Repository) UpdatePosition(position *domain.Position) error {
	query := `
		UPDATE positions
		SET
			name = $1,
			display_order = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, position.Name, position.DisplayOrder, position.ID, position.Version).Scan(&position.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeletePosition(id int64) error {
	query := `
		DELETE FROM positions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// GetActiveUsersByPosition 返回同一岗位的在职用户，excludeUserID 用于排除正在提交计划的用户本人
func (r *Repository) GetActiveUsersByPosition(positionID int64, excludeUserID int64) ([]*domain.User, error) {
	query := `
		SELECT id, username, full_name, email, role, schedule_type, position_id, is_active, created_at, version
		FROM users
		WHERE position_id = $1 AND is_active = TRUE AND id <> $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, positionID, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		dst := []any{&user.ID, &user.Username, &user.FullName, &user.Email, &user.Role, &user.ScheduleType, &user.PositionID, &user.IsActive, &user.CreatedAt, &user.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
