package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rl1809/inventory-service/internal/core/domain"
	"github.com/rl1809/inventory-service/internal/port"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	credentials *CredentialStore
	tokens      port.TokenService
}

func NewAuthService(credentials *CredentialStore, tokens port.TokenService) *AuthService {
	return &AuthService{credentials: credentials, tokens: tokens}
}

// Register creates an account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	id, err := s.credentials.CreateUser(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return 0, domain.NewValidationError("username", "A user with that username already exists.")
		}
		return 0, err
	}
	return id, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	if username == "" || password == "" {
		return domain.TokenPair{}, ErrMissingCredentials
	}

	userID, ok, err := s.credentials.VerifyPassword(ctx, username, password)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if !ok {
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}
