package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/inventory-service/internal/core/domain"
)

func (m *MySQLAdapter) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, date_joined)
		VALUES (?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.DateJoined,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, domain.ErrDuplicateUsername
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert user id: %w", err)
	}
	return id, nil
}

func (m *MySQLAdapter) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := m.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, date_joined
		FROM users WHERE username = ?`, username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DateJoined)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
