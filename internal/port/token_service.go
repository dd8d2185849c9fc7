package port

import "github.com/rl1809/inventory-service/internal/core/domain"

type TokenService interface {
	// IssuePair signs a short-lived access token and a longer-lived refresh token
	IssuePair(userID int64) (domain.TokenPair, error)

	// VerifyAccess resolves an access token to its user, or returns domain.ErrInvalidToken
	VerifyAccess(token string) (int64, error)
}
