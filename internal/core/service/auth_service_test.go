package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/inventory-service/internal/adapter/storage"
	"github.com/rl1809/inventory-service/internal/adapter/token"
	"github.com/rl1809/inventory-service/internal/core/domain"
)

// brokenUsers fails every lookup like an unreachable database.
type brokenUsers struct{}

func (brokenUsers) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	return 0, errors.New("db down")
}

func (brokenUsers) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, errors.New("db down")
}

func newAuthService(t *testing.T) (*AuthService, *token.JWTService, *storage.MemoryAdapter) {
	t.Helper()

	store := storage.NewMemoryAdapter()
	credentials, err := NewCredentialStore(store, bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := token.NewJWTService([]byte("test-secret"), time.Minute, time.Hour)
	require.NoError(t, err)

	return NewAuthService(credentials, tokens), tokens, store
}

func TestRegisterLogin_RoundTrip(t *testing.T) {
	auth, tokens, store := newAuthService(t)
	ctx := context.Background()

	id, err := auth.Register(ctx, domain.RegisterRequest{Username: "alice", Password: "pw123", Email: "a@x.com"})
	require.NoError(t, err)

	user, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, id, user.ID)
	assert.NotEqual(t, "pw123", user.PasswordHash)

	pair, err := auth.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	resolved, err := tokens.VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, id, resolved)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	auth, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, domain.RegisterRequest{Username: "alice", Password: "pw123"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, domain.RegisterRequest{Username: "alice", Password: "other"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"A user with that username already exists."}, verr.Fields["username"])
}

func TestRegister_Validation(t *testing.T) {
	auth, _, _ := newAuthService(t)

	_, err := auth.Register(context.Background(), domain.RegisterRequest{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "password")
}

func TestRegister_PasswordTooLong(t *testing.T) {
	auth, _, _ := newAuthService(t)

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'p'
	}
	_, err := auth.Register(context.Background(), domain.RegisterRequest{Username: "alice", Password: string(long)})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
}

func TestLogin_MissingFields(t *testing.T) {
	auth, _, _ := newAuthService(t)

	_, err := auth.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = auth.Login(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLogin_EnumerationResistance(t *testing.T) {
	auth, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, domain.RegisterRequest{Username: "alice", Password: "pw123"})
	require.NoError(t, err)

	_, wrongPassword := auth.Login(ctx, "alice", "nope")
	_, unknownUser := auth.Login(ctx, "nobody", "pw123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogin_StorageFailure(t *testing.T) {
	credentials, err := NewCredentialStore(brokenUsers{}, bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := token.NewJWTService([]byte("test-secret"), 0, 0)
	require.NoError(t, err)
	auth := NewAuthService(credentials, tokens)

	_, err = auth.Login(context.Background(), "alice", "pw123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
