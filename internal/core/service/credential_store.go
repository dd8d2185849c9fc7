package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/inventory-service/internal/core/domain"
	"github.com/rl1809/inventory-service/internal/port"
)

// CredentialStore owns password hashing on top of a user repository.
type CredentialStore struct {
	users port.UserRepository
	cost  int

	// dummyHash is compared against when the username is unknown so that
	// both failed-login paths do the same amount of work.
	dummyHash []byte
}

func NewCredentialStore(users port.UserRepository, cost int) (*CredentialStore, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("init credential store: %w", err)
	}
	return &CredentialStore{users: users, cost: cost, dummyHash: dummy}, nil
}

func (s *CredentialStore) CreateUser(ctx context.Context, username, password, email string) (int64, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return 0, domain.NewValidationError("password", "Ensure this field has no more than 72 bytes.")
		}
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.CreateUser(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		DateJoined:   time.Now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return 0, domain.ErrDuplicateUsername
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// VerifyPassword reports ok=false for an unknown user and for a wrong
// password alike. err is reserved for storage failures.
func (s *CredentialStore) VerifyPassword(ctx context.Context, username, password string) (int64, bool, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, false, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return 0, false, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, false, nil
	}
	return user.ID, true, nil
}
