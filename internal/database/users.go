package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/models"

	sqlite3 "github.com/mattn/go-sqlite3"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, user.Name, user.Email, fmtTime(now), fmtTime(now))
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Validationf("email %q is already in use", user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, user.Name, user.Email, fmtTime(now), user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Validationf("email %q is already in use", user.Email)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFoundf("user #%d not found", user.ID)
	}
	user.UpdatedAt = now
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, name, email, created_at, updated_at FROM users WHERE id = ?`

	var user models.User
	var createdStr, updatedStr string
	err := db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email, &createdStr, &updatedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("user #%d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *DB) GetUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, name, email, created_at, updated_at FROM users ORDER BY id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var createdStr, updatedStr string
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &createdStr, &updatedStr); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if user.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, err
		}
		if user.UpdatedAt, err = parseTime(updatedStr); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (db *DB) UserExists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
