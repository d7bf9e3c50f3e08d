package store

import (
	"context"
	"errors"
	"fmt"

	"kiosk-report/internal/database"
	"kiosk-report/internal/model"
	"kiosk-report/internal/policy"

	"github.com/jackc/pgx/v5"
)

const userColumns = `user_id, username, password_hash, role, ward_id, city_id, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var role string
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&role,
		&u.WardID,
		&u.CityID,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`,
		userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("GetUserByID: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByName(ctx context.Context, db database.DB, username string) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("GetUserByName: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByName: %w", err)
	}
	return u, nil
}

// ListUsers 依可見範圍列出使用者，依 user_id 排序
func ListUsers(ctx context.Context, db database.DB, vis policy.UserVisibility) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	switch {
	case vis.All:
	case vis.SelfOnly:
		query += ` WHERE user_id = $1`
		args = append(args, vis.SelfID)
	case vis.CityID != nil:
		query += ` WHERE city_id = $1 AND (role = 'ward' OR user_id = $2)`
		args = append(args, *vis.CityID, vis.SelfID)
	default:
		return nil, fmt.Errorf("ListUsers: %w", policy.ErrForbidden)
	}
	query += ` ORDER BY user_id`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ListUsers: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, role, ward_id, city_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING user_id, created_at`,
		u.Username,
		u.PasswordHash,
		string(u.Role),
		u.WardID,
		u.CityID,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", classify(err))
	}
	return u, nil
}

// UpdateUserPassword 只在資料庫中的雜湊仍等於 currentHash 時才更新，
// 並發修改或使用者已刪除時回傳 ErrConflict
func UpdateUserPassword(ctx context.Context, db database.DB, userID int, currentHash, newHash string) error {
	tag, err := db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1
		 WHERE user_id = $2 AND password_hash = $3`,
		newHash,
		userID,
		currentHash,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserPassword: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("UpdateUserPassword: %w", ErrConflict)
	}
	return nil
}

func DeleteUser(ctx context.Context, db database.DB, userID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM users WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteUser: %w", ErrNotFound)
	}
	return nil
}
