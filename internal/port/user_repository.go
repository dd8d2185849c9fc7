package port

import (
	"context"

	"github.com/rl1809/inventory-service/internal/core/domain"
)

type UserRepository interface {
	// CreateUser persists a user, returns domain.ErrDuplicateUsername if the name is taken
	CreateUser(ctx context.Context, user domain.User) (int64, error)

	// GetUserByUsername returns nil, nil when no user matches
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
