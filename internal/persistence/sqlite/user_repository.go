package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/meetingroom-booking/internal/persistence"
)

const userColumns = "id, email, display_name, password_hash, is_admin, disabled, created_at, updated_at"

// CreateUser inserts a new account row.
func (s *Store) CreateUser(ctx context.Context, user persistence.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		boolToInt(user.IsAdmin),
		boolToInt(user.Disabled),
		user.CreatedAt.UTC().Format(time.RFC3339),
		user.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateUser rewrites an existing account row.
func (s *Store) UpdateUser(ctx context.Context, user persistence.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, display_name = ?, password_hash = ?, is_admin = ?, disabled = ?, updated_at = ?
		WHERE id = ?`,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		boolToInt(user.IsAdmin),
		boolToInt(user.Disabled),
		user.UpdatedAt.UTC().Format(time.RFC3339),
		user.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetUser retrieves an account by ID.
func (s *Store) GetUser(ctx context.Context, id string) (persistence.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves an account by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsers returns every account in creation order.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

// DeleteUser removes an account and its sessions.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

func scanUser(scanner rowScanner) (persistence.User, error) {
	var user persistence.User
	var isAdmin, disabled int
	var createdAt, updatedAt string

	err := scanner.Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &isAdmin, &disabled, &createdAt, &updatedAt)
	if err != nil {
		return persistence.User{}, mapError(err)
	}

	user.IsAdmin = isAdmin != 0
	user.Disabled = disabled != 0
	if user.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.User{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.User{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return user, nil
}
