package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/inventory-service/internal/core/domain"
)

func newService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService([]byte("secret"), time.Minute, time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	_, err := NewJWTService(nil, 0, 0)
	assert.Error(t, err)
}

func TestNewJWTService_Defaults(t *testing.T) {
	svc, err := NewJWTService([]byte("secret"), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultAccessTTL, svc.accessTTL)
	assert.Equal(t, DefaultRefreshTTL, svc.refreshTTL)
}

func TestIssueAndVerify(t *testing.T) {
	svc := newService(t)

	pair, err := svc.IssuePair(42)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	userID, err := svc.VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifyAccess_Expired(t *testing.T) {
	svc := newService(t)
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	pair, err := svc.IssuePair(1)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.VerifyAccess(pair.Access)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyAccess_Rejects(t *testing.T) {
	svc := newService(t)
	pair, err := svc.IssuePair(7)
	require.NoError(t, err)

	other, err := NewJWTService([]byte("another-secret"), time.Minute, time.Hour)
	require.NoError(t, err)
	foreign, err := other.IssuePair(7)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		UserID:    7,
		TokenType: typeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:    7,
		TokenType: typeAccess,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	zeroUser, err := svc.sign(0, typeAccess, time.Minute)
	require.NoError(t, err)

	// user 8's claims under user 7's signature
	escalated, err := svc.IssuePair(8)
	require.NoError(t, err)
	parts := strings.Split(pair.Access, ".")
	parts[1] = strings.Split(escalated.Access, ".")[1]
	tampered := strings.Join(parts, ".")

	tests := []struct {
		name  string
		token string
	}{
		{"Empty", ""},
		{"Garbage", "not-a-jwt"},
		{"Refresh token", pair.Refresh},
		{"Tampered", tampered},
		{"Wrong secret", foreign.Access},
		{"Unsigned", noneToken},
		{"No expiry", noExpiry},
		{"Zero user", zeroUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccess(tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}
