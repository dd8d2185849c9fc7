package port

import "context"

type CacheRepository interface {
	// SetIdempotency reserves a key, returns false if it was already reserved
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency frees a reservation so the request can be retried
	ReleaseIdempotency(ctx context.Context, key string) error
}
